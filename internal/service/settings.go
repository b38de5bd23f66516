package service

import (
	"context"
	"fmt"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/internal/repository"
)

// SettingsService exposes the per-installation message templates.
type SettingsService struct {
	settings repository.SettingsRepository
}

func NewSettingsService(settings repository.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.settings.GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

func (s *SettingsService) Update(ctx context.Context, patch domain.SettingsPatch) (*domain.Settings, error) {
	if patch.RegistrationSuccessMessage != nil {
		v := domain.SanitizeText(*patch.RegistrationSuccessMessage)
		patch.RegistrationSuccessMessage = &v
	}
	if patch.InvitationMessage != nil {
		v := domain.SanitizeText(*patch.InvitationMessage)
		patch.InvitationMessage = &v
	}

	settings, err := s.settings.Update(ctx, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}
