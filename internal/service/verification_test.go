package service_test

import (
	"context"
	"testing"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/internal/service"
)

func TestVerify_FirstScan(t *testing.T) {
	repo := newMockRegRepo()
	reg := repo.add(&domain.Registration{
		Name: "أحمد", PhoneNumber: "07901234567", City: "بغداد",
		InvitationCode: strPtr("CODE1234"),
	})

	svc := service.NewVerificationService(repo)
	result, err := svc.Verify(context.Background(), "CODE1234")
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}

	if !result.Valid || result.AlreadyScanned {
		t.Fatalf("first scan should be fresh: %+v", result)
	}
	if result.ScannedAt == nil {
		t.Fatal("expected scan timestamp")
	}
	if result.Registration.ID != reg.ID || result.Registration.Name != "أحمد" {
		t.Fatalf("unexpected registration snapshot: %+v", result.Registration)
	}

	stored := repo.regs[reg.ID]
	if !stored.QRCodeScanned || !stored.Attended {
		t.Fatal("scan must mark the registration as attended")
	}
}

func TestVerify_SecondScanReportsAlreadyUsed(t *testing.T) {
	repo := newMockRegRepo()
	repo.add(&domain.Registration{
		Name: "أ", PhoneNumber: "07901234567", City: "بغداد",
		InvitationCode: strPtr("CODE1234"),
	})

	svc := service.NewVerificationService(repo)
	ctx := context.Background()

	if _, err := svc.Verify(ctx, "CODE1234"); err != nil {
		t.Fatalf("first Verify() error: %v", err)
	}

	result, err := svc.Verify(ctx, "CODE1234")
	if err != nil {
		t.Fatalf("second Verify() error: %v", err)
	}
	if !result.Valid || !result.AlreadyScanned {
		t.Fatalf("second scan should report already used: %+v", result)
	}
}

func TestVerify_NormalizesInput(t *testing.T) {
	repo := newMockRegRepo()
	repo.add(&domain.Registration{
		Name: "أ", PhoneNumber: "07901234567", City: "بغداد",
		InvitationCode: strPtr("CODE1234"),
	})

	svc := service.NewVerificationService(repo)
	result, err := svc.Verify(context.Background(), "  code1234  ")
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if !result.Valid {
		t.Fatal("lowercase input with whitespace should still match")
	}
}

func TestVerify_UnknownCode(t *testing.T) {
	svc := service.NewVerificationService(newMockRegRepo())
	if _, err := svc.Verify(context.Background(), "NOPE0000"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVerify_EmptyCode(t *testing.T) {
	svc := service.NewVerificationService(newMockRegRepo())
	if _, err := svc.Verify(context.Background(), "   "); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
