package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/internal/service"
	"github.com/rafidainsoft/mahrajan/pkg/auth"
)

type mockAdminRepo struct {
	admins map[string]*domain.Admin
}

func (m *mockAdminRepo) FindByEmail(_ context.Context, email string) (*domain.Admin, error) {
	return m.admins[email], nil
}

func (m *mockAdminRepo) Upsert(_ context.Context, username, email, passwordHash string) (*domain.Admin, error) {
	a := &domain.Admin{ID: "admin-1", Username: username, Email: email, PasswordHash: passwordHash, IsActive: true}
	m.admins[email] = a
	return a, nil
}

func newAdminService(t *testing.T, password string, active bool) *service.AdminAuthService {
	t.Helper()
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	repo := &mockAdminRepo{admins: map[string]*domain.Admin{
		"admin@event.com": {
			ID:           "admin-1",
			Username:     "admin",
			Email:        "admin@event.com",
			PasswordHash: hash,
			IsActive:     active,
		},
	}}
	return service.NewAdminAuthService(repo, "test-secret", time.Hour)
}

func TestLogin_Success(t *testing.T) {
	svc := newAdminService(t, "admin123", true)

	token, admin, err := svc.Login(context.Background(), "Admin@Event.com", "admin123")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if admin.Email != "admin@event.com" {
		t.Fatalf("unexpected admin %+v", admin)
	}

	claims, err := auth.Parse(token, "test-secret")
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Sub != "admin-1" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAdminService(t, "admin123", true)
	if _, _, err := svc.Login(context.Background(), "admin@event.com", "nope"); err != service.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newAdminService(t, "admin123", true)
	if _, _, err := svc.Login(context.Background(), "other@event.com", "admin123"); err != service.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	svc := newAdminService(t, "admin123", false)
	if _, _, err := svc.Login(context.Background(), "admin@event.com", "admin123"); err != service.ErrAdminInactive {
		t.Fatalf("expected ErrAdminInactive, got %v", err)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc := newAdminService(t, "admin123", true)
	if _, _, err := svc.Login(context.Background(), "", ""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
