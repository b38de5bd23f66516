package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/internal/gateway"
	"github.com/rafidainsoft/mahrajan/internal/invite"
	"github.com/rafidainsoft/mahrajan/internal/repository"
	"github.com/rafidainsoft/mahrajan/pkg/logger"
)

// QRRenderer produces a base64 PNG for the given payload.
type QRRenderer interface {
	Render(data string) (string, error)
}

// InvitationService sends personalized QR invitations over WhatsApp for a
// batch of registrations. Sends are throttled and a failure for one
// registration never aborts the rest of the batch.
type InvitationService struct {
	regs      repository.RegistrationRepository
	settings  repository.SettingsRepository
	codes     *invite.Generator
	messenger gateway.Messenger
	qr        QRRenderer
	eventDate time.Time
	delay     time.Duration
}

func NewInvitationService(
	regs repository.RegistrationRepository,
	settings repository.SettingsRepository,
	codes *invite.Generator,
	messenger gateway.Messenger,
	qr QRRenderer,
	eventDate time.Time,
	delay time.Duration,
) *InvitationService {
	return &InvitationService{
		regs:      regs,
		settings:  settings,
		codes:     codes,
		messenger: messenger,
		qr:        qr,
		eventDate: eventDate,
		delay:     delay,
	}
}

// SendInvitations dispatches an invitation to every registration in ids and
// reports per-registration outcomes. Unknown ids are skipped by the lookup,
// so the report total counts only registrations that exist.
func (s *InvitationService) SendInvitations(ctx context.Context, ids []string) (*domain.SendReport, error) {
	if len(ids) == 0 {
		return nil, domain.Invalid("يجب تحديد معرفات التسجيلات")
	}

	settings, err := s.settings.GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	regs, err := s.regs.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}
	if len(regs) == 0 {
		return nil, domain.ErrNotFound
	}

	eventDate := domain.FormatEventDate(s.eventDate)
	report := domain.NewSendReport(len(regs))

	for i := range regs {
		if i > 0 {
			if err := sleepCtx(ctx, s.delay); err != nil {
				for _, rest := range regs[i:] {
					report.RecordFailure(domain.SendError{ID: rest.ID, Phone: rest.PhoneNumber, Error: "تم إلغاء العملية"})
				}
				return report, nil
			}
		}

		reg := &regs[i]
		if err := s.sendOne(ctx, reg, settings.InvitationMessage, eventDate); err != nil {
			logger.WarnContext(ctx, "Failed to send invitation", "registration_id", reg.ID, "error", err)
			report.RecordFailure(domain.SendError{ID: reg.ID, Phone: reg.PhoneNumber, Error: err.Error()})
		} else {
			report.RecordSent()
		}
	}

	return report, nil
}

func (s *InvitationService) sendOne(ctx context.Context, reg *domain.Registration, template, eventDate string) error {
	var code string
	if reg.InvitationCode != nil && *reg.InvitationCode != "" {
		code = *reg.InvitationCode
	} else {
		c, err := s.codes.Next(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate invitation code: %w", err)
		}
		code = c
	}

	image, err := s.qr.Render(code)
	if err != nil {
		return fmt.Errorf("failed to render QR code: %w", err)
	}

	caption := domain.Personalize(template, domain.TemplateData{
		Name:      reg.Name,
		City:      reg.City,
		EventDate: eventDate,
	})

	if err := s.messenger.SendImage(reg.PhoneNumber, image, caption); err != nil {
		return fmt.Errorf("فشل الإرسال: %w", err)
	}

	// Marks the code as assigned only if no concurrent batch got there first.
	// An invitation already carrying this code passes, so resends are safe.
	ok, err := s.regs.AssignInvitation(ctx, reg.ID, code)
	if err != nil {
		return fmt.Errorf("failed to record invitation code: %w", err)
	}
	if !ok {
		return errors.New("تم إرسال الدعوة من عملية أخرى")
	}
	return nil
}
