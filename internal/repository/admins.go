package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rafidainsoft/mahrajan/internal/domain"
)

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Upsert(ctx context.Context, username, email, passwordHash string) (*domain.Admin, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

const adminCols = `id, username, email, password_hash, is_active, created_at`

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins WHERE lower(email)=lower($1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.Admin
	err := r.pool.QueryRow(ctx, q, strings.TrimSpace(email)).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.IsActive, &a.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert creates or refreshes an admin account keyed by username. Used by the
// seeding command.
func (r *adminRepository) Upsert(ctx context.Context, username, email, passwordHash string) (*domain.Admin, error) {
	const q = `
		INSERT INTO admins (id, username, email, password_hash, is_active)
		VALUES ($1,$2,$3,$4,true)
		ON CONFLICT (username) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			is_active = true
		RETURNING ` + adminCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.Admin
	err := r.pool.QueryRow(ctx, q, uuid.NewString(), username, strings.ToLower(email), passwordHash).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.IsActive, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
