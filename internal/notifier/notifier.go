// Package notifier delivers the WhatsApp messages that are decoupled from the
// HTTP request that caused them: the registration confirmation and the entry
// QR sent on acceptance. Delivery failures are logged and never propagate
// back to the originating request.
package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/internal/gateway"
	"github.com/rafidainsoft/mahrajan/internal/repository"
	"github.com/rafidainsoft/mahrajan/pkg/events"
	"github.com/rafidainsoft/mahrajan/pkg/logger"
)

// QRRenderer produces a base64 PNG for the given payload.
type QRRenderer interface {
	Render(data string) (string, error)
}

type Notifier struct {
	bus       events.Bus
	messenger gateway.Messenger
	settings  repository.SettingsRepository
	qr        QRRenderer
	eventDate time.Time
}

func New(bus events.Bus, messenger gateway.Messenger, settings repository.SettingsRepository, qr QRRenderer, eventDate time.Time) *Notifier {
	return &Notifier{
		bus:       bus,
		messenger: messenger,
		settings:  settings,
		qr:        qr,
		eventDate: eventDate,
	}
}

func (n *Notifier) Start() error {
	if err := n.bus.Subscribe(events.RegistrationCreated, n.handleCreated); err != nil {
		return err
	}
	return n.bus.Subscribe(events.RegistrationAccepted, n.handleAccepted)
}

func (n *Notifier) handleCreated(ctx context.Context, data []byte) {
	var event events.RegistrationCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.ErrorContext(ctx, "Failed to decode registration created event", "error", err)
		return
	}

	settings, err := n.settings.GetOrCreate(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load settings for confirmation message", "error", err, "registration_id", event.ID)
		return
	}

	body := domain.Personalize(settings.RegistrationSuccessMessage, domain.TemplateData{
		Name:      event.Name,
		City:      event.City,
		EventDate: domain.FormatEventDate(n.eventDate),
	})

	if err := n.messenger.SendText(event.PhoneNumber, body); err != nil {
		logger.ErrorContext(ctx, "Failed to send confirmation message", "error", err, "registration_id", event.ID)
		return
	}

	logger.InfoContext(ctx, "Confirmation message sent", "registration_id", event.ID)
}

func (n *Notifier) handleAccepted(ctx context.Context, data []byte) {
	var event events.RegistrationAcceptedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.ErrorContext(ctx, "Failed to decode registration accepted event", "error", err)
		return
	}

	image, err := n.qr.Render(event.OTPCode)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to render acceptance QR code", "error", err, "registration_id", event.ID)
		return
	}

	caption := "مرحباً " + event.Name + " 👋\n\nتم قبول تسجيلك! ✅\n\nيرجى استخدام رمز QR Code هذا للدخول إلى الحدث.\n\n© 2025 تجمع الفنانين"

	if err := n.messenger.SendImage(event.PhoneNumber, image, caption); err != nil {
		logger.ErrorContext(ctx, "Failed to send acceptance QR code", "error", err, "registration_id", event.ID)
		return
	}

	logger.InfoContext(ctx, "Acceptance QR code sent", "registration_id", event.ID)
}
