package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/internal/repository"
	"github.com/rafidainsoft/mahrajan/pkg/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminInactive      = errors.New("admin account is inactive")
)

// AdminAuthService authenticates dashboard admins and issues session tokens.
type AdminAuthService struct {
	admins    repository.AdminRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAdminAuthService(admins repository.AdminRepository, jwtSecret string, tokenTTL time.Duration) *AdminAuthService {
	return &AdminAuthService{admins: admins, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AdminAuthService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.Invalid("البريد الإلكتروني وكلمة المرور مطلوبان")
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if admin == nil {
		return "", nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		return "", nil, ErrAdminInactive
	}

	match, err := argon2id.ComparePasswordAndHash(password, admin.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.NewAdminToken(admin.ID, admin.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return token, admin, nil
}
