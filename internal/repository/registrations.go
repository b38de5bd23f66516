package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rafidainsoft/mahrajan/internal/domain"
)

type RegistrationRepository interface {
	Create(ctx context.Context, req *domain.CreateRegistrationRequest) (*domain.Registration, error)
	GetByID(ctx context.Context, id string) (*domain.Registration, error)
	GetByInvitationCode(ctx context.Context, code string) (*domain.Registration, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Registration, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Registration, error)
	List(ctx context.Context) ([]domain.Registration, error)
	ListPhones(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, patch domain.RegistrationPatch) (*domain.Registration, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	AssignInvitation(ctx context.Context, id, code string) (bool, error)
	MarkScanned(ctx context.Context, code string) (*domain.Registration, bool, error)
}

type registrationRepository struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &registrationRepository{pool: pool}
}

const registrationCols = `id, name, phone_number, city, message,
first_person_name, second_person_name, otp_code,
invitation_code, invitation_sent,
qr_code_scanned, qr_code_scanned_at,
attended, family_accepted, notes, created_at`

func scanRegistration(row pgx.Row) (*domain.Registration, error) {
	var r domain.Registration
	err := row.Scan(
		&r.ID, &r.Name, &r.PhoneNumber, &r.City, &r.Message,
		&r.FirstPersonName, &r.SecondPersonName, &r.OTPCode,
		&r.InvitationCode, &r.InvitationSent,
		&r.QRCodeScanned, &r.QRCodeScannedAt,
		&r.Attended, &r.FamilyAccepted, &r.Notes, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *registrationRepository) Create(ctx context.Context, req *domain.CreateRegistrationRequest) (*domain.Registration, error) {
	const q = `INSERT INTO registrations (
		id, name, phone_number, city, message,
		first_person_name, second_person_name, otp_code
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	RETURNING ` + registrationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var message *string
	if req.Message != "" {
		message = &req.Message
	}

	reg, err := scanRegistration(r.pool.QueryRow(ctx, q,
		uuid.NewString(), req.Name, req.PhoneNumber, req.City, message,
		req.FirstPersonName, req.SecondPersonName, req.OTPCode,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "phone") {
			return nil, domain.ErrDuplicatePhone
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	const q = `SELECT ` + registrationCols + ` FROM registrations WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	reg, err := scanRegistration(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return reg, err
}

func (r *registrationRepository) GetByInvitationCode(ctx context.Context, code string) (*domain.Registration, error) {
	const q = `SELECT ` + registrationCols + ` FROM registrations WHERE invitation_code=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	reg, err := scanRegistration(r.pool.QueryRow(ctx, q, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return reg, err
}

func (r *registrationRepository) GetByPhone(ctx context.Context, phone string) (*domain.Registration, error) {
	const q = `SELECT ` + registrationCols + ` FROM registrations WHERE phone_number=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	reg, err := scanRegistration(r.pool.QueryRow(ctx, q, phone))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return reg, err
}

func (r *registrationRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Registration, error) {
	const q = `SELECT ` + registrationCols + ` FROM registrations WHERE id = ANY($1) ORDER BY created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRegistrations(rows)
}

func (r *registrationRepository) List(ctx context.Context) ([]domain.Registration, error) {
	const q = `SELECT ` + registrationCols + ` FROM registrations ORDER BY created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRegistrations(rows)
}

func (r *registrationRepository) ListPhones(ctx context.Context) ([]string, error) {
	const q = `SELECT phone_number FROM registrations ORDER BY created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phones []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		phones = append(phones, p)
	}
	return phones, rows.Err()
}

func (r *registrationRepository) Count(ctx context.Context) (int64, error) {
	const q = `SELECT count(*) FROM registrations`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int64
	err := r.pool.QueryRow(ctx, q).Scan(&n)
	return n, err
}

func (r *registrationRepository) Update(ctx context.Context, id string, patch domain.RegistrationPatch) (*domain.Registration, error) {
	const q = `
		UPDATE registrations
		SET
			invitation_sent = COALESCE($2, invitation_sent),
			family_accepted = COALESCE($3, family_accepted),
			notes           = CASE WHEN $4::bool THEN $5 ELSE notes END,
			attended        = COALESCE($6, attended)
		WHERE id=$1
		RETURNING ` + registrationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	reg, err := scanRegistration(r.pool.QueryRow(ctx, q,
		id,
		patch.InvitationSent,
		patch.FamilyAccepted,
		patch.Notes != nil,
		patch.Notes,
		patch.Attended,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return reg, err
}

func (r *registrationRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM registrations WHERE invitation_code=$1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, code).Scan(&exists)
	return exists, err
}

// AssignInvitation persists the invitation code and marks the invitation as
// sent, but only when the row still has no code or already carries this exact
// code. Returns false when a concurrent batch assigned a different code first.
func (r *registrationRepository) AssignInvitation(ctx context.Context, id, code string) (bool, error) {
	const q = `
		UPDATE registrations
		SET invitation_code=$2, invitation_sent=true
		WHERE id=$1 AND (invitation_code IS NULL OR invitation_code=$2)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, code)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// MarkScanned performs the first-scan transition in a single statement so two
// concurrent gate scanners cannot both win. The bool reports whether this call
// performed the transition; when false the returned row carries the original
// scan timestamp. (nil, false, nil) means the code is unknown.
func (r *registrationRepository) MarkScanned(ctx context.Context, code string) (*domain.Registration, bool, error) {
	const q = `
		UPDATE registrations
		SET qr_code_scanned=true, qr_code_scanned_at=now(), attended=true
		WHERE invitation_code=$1 AND qr_code_scanned=false
		RETURNING ` + registrationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	reg, err := scanRegistration(r.pool.QueryRow(ctx, q, code))
	if err == nil {
		return reg, true, nil
	}
	if err != pgx.ErrNoRows {
		return nil, false, err
	}

	reg, err = r.GetByInvitationCode(ctx, code)
	if err != nil || reg == nil {
		return nil, false, err
	}
	return reg, false, nil
}

func collectRegistrations(rows pgx.Rows) ([]domain.Registration, error) {
	var regs []domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}
