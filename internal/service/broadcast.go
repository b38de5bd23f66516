package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/internal/gateway"
	"github.com/rafidainsoft/mahrajan/internal/repository"
	"github.com/rafidainsoft/mahrajan/pkg/logger"
)

// BroadcastService sends a free-form WhatsApp message to explicit phone
// numbers or to every registered guest.
type BroadcastService struct {
	regs      repository.RegistrationRepository
	messenger gateway.Messenger
	delay     time.Duration
}

func NewBroadcastService(regs repository.RegistrationRepository, messenger gateway.Messenger, delay time.Duration) *BroadcastService {
	return &BroadcastService{regs: regs, messenger: messenger, delay: delay}
}

// SendBulk fans the message out to the target numbers with a throttle between
// sends. A {name} placeholder is substituted per recipient when the number
// matches a registration, otherwise it is sent as-is.
func (s *BroadcastService) SendBulk(ctx context.Context, message string, phones []string) (*domain.SendReport, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.Invalid("الرسالة مطلوبة")
	}

	targets := phones
	if len(targets) == 0 {
		all, err := s.regs.ListPhones(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list phone numbers: %w", err)
		}
		targets = all
	}
	if len(targets) == 0 {
		return nil, domain.Invalid("لا توجد أرقام هاتف لإرسال الرسائل إليها")
	}

	wantsName := strings.Contains(message, "{name}")
	report := domain.NewSendReport(len(targets))

	for i, phone := range targets {
		if i > 0 {
			if err := sleepCtx(ctx, s.delay); err != nil {
				for _, rest := range targets[i:] {
					report.RecordFailure(domain.SendError{Phone: rest, Error: "تم إلغاء العملية"})
				}
				return report, nil
			}
		}

		body := message
		if wantsName {
			reg, err := s.regs.GetByPhone(ctx, phone)
			if err != nil {
				logger.WarnContext(ctx, "Failed to look up registration for broadcast", "phone", phone, "error", err)
			} else if reg != nil {
				body = strings.ReplaceAll(message, "{name}", reg.Name)
			}
		}

		if err := s.messenger.SendText(phone, body); err != nil {
			logger.WarnContext(ctx, "Failed to send broadcast message", "phone", phone, "error", err)
			report.RecordFailure(domain.SendError{Phone: phone, Error: "فشل الإرسال"})
		} else {
			report.RecordSent()
		}
	}

	return report, nil
}
