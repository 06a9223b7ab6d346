package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		full_name     TEXT NOT NULL,
		phone         TEXT NOT NULL DEFAULT '',
		login         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL CHECK (role IN
			('Manager','Specialist','Operator','Customer','QualityManager'))
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id              BIGSERIAL PRIMARY KEY,
		start_date      DATE NOT NULL DEFAULT CURRENT_DATE,
		equipment_type  TEXT NOT NULL,
		equipment_model TEXT NOT NULL,
		problem_text    TEXT NOT NULL,
		status          TEXT NOT NULL DEFAULT 'New' CHECK (status IN
			('New','InRepair','ReadyForPickup','AwaitingParts')),
		completion_date DATE,
		master_id       BIGINT REFERENCES users(id) ON DELETE SET NULL,
		client_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id         BIGSERIAL PRIMARY KEY,
		message    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		author_id  BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		ticket_id  BIGINT NOT NULL REFERENCES tickets(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_master ON tickets(master_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_client ON tickets(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_ticket ON comments(ticket_id)`,
}

// Migrate creates the schema if needed. Statements are idempotent so a
// restart against an existing database is a no-op.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SeedAdmin provisions the reserved superuser account when it does not
// exist yet. The stored role is Manager but the login itself is what
// grants superuser rights.
func SeedAdmin(ctx context.Context, db *pgxpool.Pool, login, passwordHash string) error {
	_, err := db.Exec(ctx, `
		INSERT INTO users (full_name, phone, login, password_hash, role)
		VALUES ('Administrator', '', $1, $2, 'Manager')
		ON CONFLICT (login) DO NOTHING
	`, login, passwordHash)
	return err
}
