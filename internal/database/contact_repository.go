package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
)

// ContactRepository handles database operations for harvested contact
// emails.
type ContactRepository struct {
	db  *sqlx.DB
	log logger.Interface
}

// NewContactRepository creates a new contact repository.
func NewContactRepository(db *sqlx.DB, log logger.Interface) *ContactRepository {
	return &ContactRepository{db: db, log: log.WithComponent("contact_repository")}
}

const contactUpsertQuery = `
	INSERT INTO contact_emails (internship_key, email, source, confidence, verified_mx, found_at)
	VALUES (:internship_key, :email, :source, :confidence, :verified_mx, :found_at)
	ON CONFLICT (internship_key, email) DO UPDATE SET
		confidence = GREATEST(contact_emails.confidence, EXCLUDED.confidence),
		verified_mx = contact_emails.verified_mx OR EXCLUDED.verified_mx
`

// UpsertBatch writes harvested emails one at a time, keeping the highest
// confidence on conflict. Failing rows are logged and skipped.
func (r *ContactRepository) UpsertBatch(ctx context.Context, contacts []domain.ContactEmail) (int, error) {
	written := 0
	for i := range contacts {
		if _, err := r.db.NamedExecContext(ctx, contactUpsertQuery, &contacts[i]); err != nil {
			r.log.Error("Contact upsert failed",
				"key", contacts[i].InternshipKey, "email", contacts[i].Email, "error", err)
			continue
		}
		written++
	}
	if written == 0 && len(contacts) > 0 {
		return 0, fmt.Errorf("all %d contact upserts failed", len(contacts))
	}
	return written, nil
}

// ListByInternship returns the contacts for one internship ordered by
// confidence.
func (r *ContactRepository) ListByInternship(ctx context.Context, key string) ([]domain.ContactEmail, error) {
	var contacts []domain.ContactEmail
	query := `
		SELECT id, internship_key, email, source, confidence, verified_mx, found_at
		FROM contact_emails
		WHERE internship_key = $1
		ORDER BY confidence DESC, email
	`
	if err := r.db.SelectContext(ctx, &contacts, query, key); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	if contacts == nil {
		contacts = []domain.ContactEmail{}
	}
	return contacts, nil
}
