package service_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/internal/invite"
	"github.com/rafidainsoft/mahrajan/internal/service"
)

var eventDate = time.Date(2025, time.November, 15, 18, 0, 0, 0, time.Local)

func newInvitationService(repo *mockRegRepo, msgr *mockMessenger) *service.InvitationService {
	return service.NewInvitationService(repo, newMockSettingsRepo(), invite.New(repo), msgr, fakeQR{}, eventDate, 0)
}

func TestSendInvitations_Success(t *testing.T) {
	repo := newMockRegRepo()
	reg := repo.add(&domain.Registration{Name: "أحمد", PhoneNumber: "07901234567", City: "بغداد"})

	msgr := &mockMessenger{}
	svc := newInvitationService(repo, msgr)

	report, err := svc.SendInvitations(context.Background(), []string{reg.ID})
	if err != nil {
		t.Fatalf("SendInvitations() error: %v", err)
	}

	if report.Total != 1 || report.Sent != 1 || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", report.Errors)
	}

	if len(msgr.images) != 1 {
		t.Fatalf("expected 1 image send, got %d", len(msgr.images))
	}
	sent := msgr.images[0]
	if sent.phone != "07901234567" {
		t.Fatalf("unexpected phone %q", sent.phone)
	}
	if !containsAll(sent.caption, "أحمد", "بغداد", "15 نوفمبر 2025") {
		t.Fatalf("caption not personalized: %q", sent.caption)
	}

	stored := repo.regs[reg.ID]
	if stored.InvitationCode == nil || !stored.InvitationSent {
		t.Fatal("invitation code not recorded")
	}
	if !regexp.MustCompile(`^[A-Z0-9]{8}$`).MatchString(*stored.InvitationCode) {
		t.Fatalf("bad code format %q", *stored.InvitationCode)
	}
	if sent.image != "png:"+*stored.InvitationCode {
		t.Fatalf("QR payload %q does not match stored code %q", sent.image, *stored.InvitationCode)
	}
}

func TestSendInvitations_PartialFailure(t *testing.T) {
	repo := newMockRegRepo()
	ok := repo.add(&domain.Registration{Name: "أ", PhoneNumber: "07901111111", City: "بغداد"})
	bad := repo.add(&domain.Registration{Name: "ب", PhoneNumber: "07902222222", City: "البصرة"})

	msgr := &mockMessenger{failPhones: map[string]bool{"07902222222": true}}
	svc := newInvitationService(repo, msgr)

	report, err := svc.SendInvitations(context.Background(), []string{ok.ID, bad.ID})
	if err != nil {
		t.Fatalf("SendInvitations() error: %v", err)
	}

	if report.Total != 2 || report.Sent != 1 || report.Failed != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Errors) != 1 || report.Errors[0].ID != bad.ID {
		t.Fatalf("unexpected errors: %+v", report.Errors)
	}

	// The failed registration keeps no code.
	if repo.regs[bad.ID].InvitationCode != nil {
		t.Fatal("failed send must not record a code")
	}
}

func TestSendInvitations_ReusesExistingCode(t *testing.T) {
	repo := newMockRegRepo()
	reg := repo.add(&domain.Registration{
		Name: "أ", PhoneNumber: "07901234567", City: "بغداد",
		InvitationCode: strPtr("AAAA1111"), InvitationSent: true,
	})

	msgr := &mockMessenger{}
	svc := newInvitationService(repo, msgr)

	report, err := svc.SendInvitations(context.Background(), []string{reg.ID})
	if err != nil {
		t.Fatalf("SendInvitations() error: %v", err)
	}
	if report.Sent != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if msgr.images[0].image != "png:AAAA1111" {
		t.Fatalf("resend should reuse the stored code, got %q", msgr.images[0].image)
	}
	if *repo.regs[reg.ID].InvitationCode != "AAAA1111" {
		t.Fatal("stored code must not change on resend")
	}
}

func TestSendInvitations_ConcurrentAssignmentCountsAsFailure(t *testing.T) {
	repo := newMockRegRepo()
	reg := repo.add(&domain.Registration{Name: "أ", PhoneNumber: "07901234567", City: "بغداد"})
	repo.assignDenied = true

	svc := newInvitationService(repo, &mockMessenger{})

	report, err := svc.SendInvitations(context.Background(), []string{reg.ID})
	if err != nil {
		t.Fatalf("SendInvitations() error: %v", err)
	}
	if report.Failed != 1 || report.Sent != 0 {
		t.Fatalf("lost the code race but report says: %+v", report)
	}
}

func TestSendInvitations_EmptyIDs(t *testing.T) {
	svc := newInvitationService(newMockRegRepo(), &mockMessenger{})

	_, err := svc.SendInvitations(context.Background(), nil)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSendInvitations_NoneFound(t *testing.T) {
	svc := newInvitationService(newMockRegRepo(), &mockMessenger{})

	_, err := svc.SendInvitations(context.Background(), []string{"missing-id"})
	if err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSendInvitations_UnknownIDsSkipped(t *testing.T) {
	repo := newMockRegRepo()
	reg := repo.add(&domain.Registration{Name: "أ", PhoneNumber: "07901234567", City: "بغداد"})

	svc := newInvitationService(repo, &mockMessenger{})

	report, err := svc.SendInvitations(context.Background(), []string{reg.ID, "missing-id"})
	if err != nil {
		t.Fatalf("SendInvitations() error: %v", err)
	}
	// Total counts only registrations that exist.
	if report.Total != 1 || report.Sent != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
