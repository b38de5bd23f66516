package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rafidainsoft/mahrajan/internal/domain"
)

// Default message templates, used when the settings row is created lazily.
const (
	DefaultRegistrationSuccessMessage = "مرحباً {name} 👋\n\n" +
		"تم تسجيلك بالمهرجان بنجاح! ✅\n\n" +
		"📍 المدينة: {city}\n" +
		"📅 تاريخ الحدث: {eventDate}\n\n" +
		"نحن سعداء بانضمامك إلينا. سيتم التواصل معك قريباً عبر رقم الهاتف المقدم للتفاصيل الإضافية."

	DefaultInvitationMessage = "مرحباً {name} 👋\n\n" +
		"يسعدنا دعوتك لحضور المهرجان 🎉\n\n" +
		"📍 المدينة: {city}\n" +
		"📅 تاريخ الحدث: {eventDate}\n\n" +
		"يرجى إبراز رمز QR المرفق عند الدخول."
)

type SettingsRepository interface {
	GetOrCreate(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, patch domain.SettingsPatch) (*domain.Settings, error)
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

const settingsCols = `id, registration_success_message, invitation_message`

// GetOrCreate returns the singleton settings row, inserting it with defaults
// on first access.
func (r *settingsRepository) GetOrCreate(ctx context.Context) (*domain.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.Settings
	err := r.pool.QueryRow(ctx, `SELECT `+settingsCols+` FROM settings LIMIT 1`).
		Scan(&s.ID, &s.RegistrationSuccessMessage, &s.InvitationMessage)
	if err == nil {
		return &s, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	const insert = `INSERT INTO settings (id, registration_success_message, invitation_message)
		VALUES ($1,$2,$3) RETURNING ` + settingsCols
	err = r.pool.QueryRow(ctx, insert,
		uuid.NewString(), DefaultRegistrationSuccessMessage, DefaultInvitationMessage,
	).Scan(&s.ID, &s.RegistrationSuccessMessage, &s.InvitationMessage)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepository) Update(ctx context.Context, patch domain.SettingsPatch) (*domain.Settings, error) {
	current, err := r.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	const q = `
		UPDATE settings
		SET
			registration_success_message = COALESCE($2, registration_success_message),
			invitation_message           = COALESCE($3, invitation_message)
		WHERE id=$1
		RETURNING ` + settingsCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.Settings
	err = r.pool.QueryRow(ctx, q, current.ID,
		patch.RegistrationSuccessMessage, patch.InvitationMessage,
	).Scan(&s.ID, &s.RegistrationSuccessMessage, &s.InvitationMessage)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
