package service

import (
	"context"
	"fmt"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/internal/repository"
	"github.com/rafidainsoft/mahrajan/pkg/events"
	"github.com/rafidainsoft/mahrajan/pkg/logger"
)

// RegistrationService covers the public registration flow and the admin
// record edits, including the accept-triggered QR dispatch hand-off.
type RegistrationService struct {
	regs repository.RegistrationRepository
	bus  events.Bus
}

func NewRegistrationService(regs repository.RegistrationRepository, bus events.Bus) *RegistrationService {
	return &RegistrationService{regs: regs, bus: bus}
}

// Register validates, sanitizes and stores a new registration, then hands the
// confirmation message off to the notifier. The message send is detached: its
// outcome never affects the created registration.
func (s *RegistrationService) Register(ctx context.Context, req *domain.CreateRegistrationRequest) (*domain.Registration, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Sanitize()

	reg, err := s.regs.Create(ctx, req)
	if err != nil {
		if err == domain.ErrDuplicatePhone {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	event := events.RegistrationCreatedEvent{
		ID:          reg.ID,
		Name:        reg.Name,
		PhoneNumber: reg.PhoneNumber,
		City:        reg.City,
	}
	if err := s.bus.Publish(ctx, events.RegistrationCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish registration created event", "error", err, "registration_id", reg.ID)
	}

	return reg, nil
}

func (s *RegistrationService) List(ctx context.Context) ([]domain.Registration, int64, error) {
	regs, err := s.regs.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list registrations: %w", err)
	}
	total, err := s.regs.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return regs, total, nil
}

// Update applies an admin patch. When the patch flips familyAccepted from
// false to true on a record that carries an OTP code, an acceptance event is
// published so the notifier sends the entry QR. The send is detached from this
// call and its failure is never surfaced here.
func (s *RegistrationService) Update(ctx context.Context, id string, patch domain.RegistrationPatch) (*domain.Registration, error) {
	existing, err := s.regs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	if patch.Notes != nil {
		v := domain.SanitizeText(*patch.Notes)
		patch.Notes = &v
	}

	beingAccepted := patch.FamilyAccepted != nil && *patch.FamilyAccepted && !existing.FamilyAccepted

	updated, err := s.regs.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update registration: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}

	if beingAccepted && updated.OTPCode != nil && *updated.OTPCode != "" {
		event := events.RegistrationAcceptedEvent{
			ID:          updated.ID,
			Name:        updated.Name,
			PhoneNumber: updated.PhoneNumber,
			OTPCode:     *updated.OTPCode,
		}
		if err := s.bus.Publish(ctx, events.RegistrationAccepted, event); err != nil {
			logger.ErrorContext(ctx, "Failed to publish registration accepted event", "error", err, "registration_id", updated.ID)
		}
	}

	return updated, nil
}
