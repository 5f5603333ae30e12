package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied on startup. Statements are idempotent so repeated runs
// are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS internships (
		key              TEXT PRIMARY KEY,
		source           TEXT NOT NULL,
		company          TEXT NOT NULL,
		title            TEXT NOT NULL,
		location         TEXT NOT NULL DEFAULT '',
		apply_url        TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		posted_at        TIMESTAMPTZ,
		deadline         TIMESTAMPTZ,
		remote           BOOLEAN NOT NULL DEFAULT FALSE,
		modality         TEXT NOT NULL DEFAULT 'onsite',
		field_tag        TEXT NOT NULL DEFAULT 'other',
		external_id      TEXT NOT NULL DEFAULT '',
		salary_min       DOUBLE PRECISION,
		salary_max       DOUBLE PRECISION,
		government       BOOLEAN NOT NULL DEFAULT FALSE,
		tags             TEXT,
		relevance_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		first_seen_at    TIMESTAMPTZ NOT NULL,
		last_seen_at     TIMESTAMPTZ NOT NULL,
		last_checked_at  TIMESTAMPTZ NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_internships_source ON internships (source)`,
	`CREATE INDEX IF NOT EXISTS idx_internships_field_tag ON internships (field_tag)`,
	`CREATE INDEX IF NOT EXISTS idx_internships_active_score ON internships (is_active, relevance_score DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_internships_last_seen ON internships (last_seen_at)`,
	`CREATE TABLE IF NOT EXISTS contact_emails (
		id              BIGSERIAL PRIMARY KEY,
		internship_key  TEXT NOT NULL REFERENCES internships (key) ON DELETE CASCADE,
		email           TEXT NOT NULL,
		source          TEXT NOT NULL,
		confidence      DOUBLE PRECISION NOT NULL DEFAULT 0,
		verified_mx     BOOLEAN NOT NULL DEFAULT FALSE,
		found_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (internship_key, email)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_emails_key ON contact_emails (internship_key)`,
}

// Migrate applies the schema to the connected database.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
