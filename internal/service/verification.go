package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/internal/repository"
)

// VerificationService checks invitation QR codes at the event entrance.
type VerificationService struct {
	regs repository.RegistrationRepository
}

func NewVerificationService(regs repository.RegistrationRepository) *VerificationService {
	return &VerificationService{regs: regs}
}

// Verify resolves a scanned code to a registration and marks it as used.
// Only the first scan of a code reports a fresh entry; any later scan of the
// same code reports it as already used, no matter how many gates race on it.
func (s *VerificationService) Verify(ctx context.Context, code string) (*domain.VerificationResult, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, domain.Invalid("رمز QR Code مطلوب")
	}

	reg, fresh, err := s.regs.MarkScanned(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}
	if reg == nil {
		return nil, domain.ErrNotFound
	}

	return &domain.VerificationResult{
		Valid:          true,
		AlreadyScanned: !fresh,
		ScannedAt:      reg.QRCodeScannedAt,
		Registration:   reg.Identity(),
	}, nil
}
