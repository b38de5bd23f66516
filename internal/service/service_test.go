package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rafidainsoft/mahrajan/internal/domain"
	"github.com/rafidainsoft/mahrajan/pkg/events"
)

// ---------- Mocks ----------

type mockRegRepo struct {
	nextID int
	regs   map[string]*domain.Registration

	assignDenied bool
	listErr      error
}

func newMockRegRepo() *mockRegRepo {
	return &mockRegRepo{nextID: 1, regs: make(map[string]*domain.Registration)}
}

func (m *mockRegRepo) add(reg *domain.Registration) *domain.Registration {
	if reg.ID == "" {
		reg.ID = fmt.Sprintf("reg-%d", m.nextID)
		m.nextID++
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now()
	}
	m.regs[reg.ID] = reg
	return reg
}

func (m *mockRegRepo) Create(_ context.Context, req *domain.CreateRegistrationRequest) (*domain.Registration, error) {
	for _, r := range m.regs {
		if r.PhoneNumber == req.PhoneNumber {
			return nil, domain.ErrDuplicatePhone
		}
	}
	reg := &domain.Registration{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		City:        req.City,
		OTPCode:     req.OTPCode,
	}
	if req.Message != "" {
		msg := req.Message
		reg.Message = &msg
	}
	return m.add(reg), nil
}

func (m *mockRegRepo) GetByID(_ context.Context, id string) (*domain.Registration, error) {
	return m.regs[id], nil
}

func (m *mockRegRepo) GetByInvitationCode(_ context.Context, code string) (*domain.Registration, error) {
	for _, r := range m.regs {
		if r.InvitationCode != nil && *r.InvitationCode == code {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockRegRepo) GetByPhone(_ context.Context, phone string) (*domain.Registration, error) {
	for _, r := range m.regs {
		if r.PhoneNumber == phone {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockRegRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Registration, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.Registration
	for _, id := range ids {
		if r, ok := m.regs[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRegRepo) List(_ context.Context) ([]domain.Registration, error) {
	var out []domain.Registration
	for _, r := range m.regs {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRegRepo) ListPhones(_ context.Context) ([]string, error) {
	var out []string
	for _, r := range m.regs {
		out = append(out, r.PhoneNumber)
	}
	return out, nil
}

func (m *mockRegRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.regs)), nil
}

func (m *mockRegRepo) Update(_ context.Context, id string, patch domain.RegistrationPatch) (*domain.Registration, error) {
	r, ok := m.regs[id]
	if !ok {
		return nil, nil
	}
	if patch.InvitationSent != nil {
		r.InvitationSent = *patch.InvitationSent
	}
	if patch.FamilyAccepted != nil {
		r.FamilyAccepted = *patch.FamilyAccepted
	}
	if patch.Attended != nil {
		r.Attended = *patch.Attended
	}
	if patch.Notes != nil {
		r.Notes = patch.Notes
	}
	return r, nil
}

func (m *mockRegRepo) CodeExists(_ context.Context, code string) (bool, error) {
	for _, r := range m.regs {
		if r.InvitationCode != nil && *r.InvitationCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRegRepo) AssignInvitation(_ context.Context, id, code string) (bool, error) {
	r, ok := m.regs[id]
	if !ok {
		return false, nil
	}
	if m.assignDenied {
		return false, nil
	}
	if r.InvitationCode != nil && *r.InvitationCode != code {
		return false, nil
	}
	r.InvitationCode = &code
	r.InvitationSent = true
	return true, nil
}

func (m *mockRegRepo) MarkScanned(_ context.Context, code string) (*domain.Registration, bool, error) {
	for _, r := range m.regs {
		if r.InvitationCode != nil && *r.InvitationCode == code {
			if r.QRCodeScanned {
				return r, false, nil
			}
			now := time.Now()
			r.QRCodeScanned = true
			r.QRCodeScannedAt = &now
			r.Attended = true
			return r, true, nil
		}
	}
	return nil, false, nil
}

type mockSettingsRepo struct {
	settings domain.Settings
}

func newMockSettingsRepo() *mockSettingsRepo {
	return &mockSettingsRepo{settings: domain.Settings{
		ID:                         "settings-1",
		RegistrationSuccessMessage: "شكراً {name}",
		InvitationMessage:          "دعوة إلى {name} من {city} في {eventDate}",
	}}
}

func (m *mockSettingsRepo) GetOrCreate(context.Context) (*domain.Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsRepo) Update(_ context.Context, patch domain.SettingsPatch) (*domain.Settings, error) {
	if patch.RegistrationSuccessMessage != nil {
		m.settings.RegistrationSuccessMessage = *patch.RegistrationSuccessMessage
	}
	if patch.InvitationMessage != nil {
		m.settings.InvitationMessage = *patch.InvitationMessage
	}
	s := m.settings
	return &s, nil
}

type sentMessage struct {
	phone   string
	body    string
	image   string
	caption string
}

type mockMessenger struct {
	texts  []sentMessage
	images []sentMessage

	failPhones map[string]bool
	failAll    bool
}

func (m *mockMessenger) SendText(phone, body string) error {
	if m.failAll || m.failPhones[phone] {
		return errors.New("gateway down")
	}
	m.texts = append(m.texts, sentMessage{phone: phone, body: body})
	return nil
}

func (m *mockMessenger) SendImage(phone, imageBase64, caption string) error {
	if m.failAll || m.failPhones[phone] {
		return errors.New("gateway down")
	}
	m.images = append(m.images, sentMessage{phone: phone, image: imageBase64, caption: caption})
	return nil
}

type fakeQR struct{}

func (fakeQR) Render(data string) (string, error) {
	return "png:" + data, nil
}

type published struct {
	subject string
	payload []byte
}

// mockBus records publishes synchronously so tests can assert on them
// without waiting for goroutines.
type mockBus struct {
	events []published
}

func (m *mockBus) Publish(_ context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	m.events = append(m.events, published{subject: subject, payload: payload})
	return nil
}

func (m *mockBus) Subscribe(string, events.Handler) error { return nil }
func (m *mockBus) Close() error                           { return nil }

func (m *mockBus) lastOn(subject string) []byte {
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].subject == subject {
			return m.events[i].payload
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
