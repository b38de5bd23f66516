// Command seed creates the database schema and the default admin accounts.
// Intended for local development and first-time installs; every statement is
// idempotent.
package main

import (
	"context"
	"os"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/rafidainsoft/mahrajan/internal/repository"
	"github.com/rafidainsoft/mahrajan/pkg/config"
	"github.com/rafidainsoft/mahrajan/pkg/database"
	"github.com/rafidainsoft/mahrajan/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS registrations (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	phone_number TEXT NOT NULL,
	city TEXT NOT NULL,
	message TEXT,
	first_person_name TEXT,
	second_person_name TEXT,
	otp_code TEXT,
	invitation_code TEXT,
	invitation_sent BOOLEAN NOT NULL DEFAULT FALSE,
	qr_code_scanned BOOLEAN NOT NULL DEFAULT FALSE,
	qr_code_scanned_at TIMESTAMPTZ,
	attended BOOLEAN NOT NULL DEFAULT FALSE,
	family_accepted BOOLEAN NOT NULL DEFAULT FALSE,
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT registrations_phone_number_key UNIQUE (phone_number),
	CONSTRAINT registrations_invitation_code_key UNIQUE (invitation_code)
);

CREATE TABLE IF NOT EXISTS settings (
	id TEXT PRIMARY KEY,
	registration_success_message TEXT NOT NULL,
	invitation_message TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS admins (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	email TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT admins_username_key UNIQUE (username),
	CONSTRAINT admins_email_key UNIQUE (email)
);
`

type seedAdmin struct {
	username string
	email    string
	password string
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Error("Failed to create schema", "error", err)
		os.Exit(1)
	}
	logger.Info("Schema ready")

	admins := repository.NewAdminRepository(pool)
	for _, a := range []seedAdmin{
		{
			username: envOr("SEED_ADMIN_USERNAME", "admin"),
			email:    envOr("SEED_ADMIN_EMAIL", "admin@event.com"),
			password: envOr("SEED_ADMIN_PASSWORD", "admin123"),
		},
		{
			username: envOr("SEED_ADMIN2_USERNAME", "admin2"),
			email:    envOr("SEED_ADMIN2_EMAIL", "admin2@event.com"),
			password: envOr("SEED_ADMIN2_PASSWORD", "admin456"),
		},
	} {
		hash, err := argon2id.CreateHash(a.password, argon2id.DefaultParams)
		if err != nil {
			logger.Error("Failed to hash password", "error", err, "username", a.username)
			os.Exit(1)
		}
		admin, err := admins.Upsert(ctx, a.username, a.email, hash)
		if err != nil {
			logger.Error("Failed to seed admin", "error", err, "username", a.username)
			os.Exit(1)
		}
		logger.Info("Admin seeded", "username", admin.Username, "email", admin.Email)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
