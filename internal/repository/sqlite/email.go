package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/email-tracker/internal/domain"
)

// EmailRepo implements registration.Repository against SQLite.
type EmailRepo struct{ db *sql.DB }

// NewEmailRepo creates a SQLite-backed registration repository.
func NewEmailRepo(db *sql.DB) *EmailRepo { return &EmailRepo{db: db} }

// Register upserts the email and inserts its links atomically. Subject and
// recipient are only written into columns that are still empty.
func (r *EmailRepo) Register(ctx context.Context, e *domain.Email, links []domain.Link) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin register: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO emails (id, subject, recipient) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			subject   = CASE WHEN emails.subject = '' THEN excluded.subject ELSE emails.subject END,
			recipient = CASE WHEN emails.recipient = '' THEN excluded.recipient ELSE emails.recipient END
	`, e.ID, e.Subject, e.Recipient)
	if err != nil {
		return fmt.Errorf("upsert email: %w", err)
	}

	if len(links) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO links (id, email_id, original_url) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, l := range links {
			if _, err := stmt.ExecContext(ctx, l.ID, l.EmailID, l.OriginalURL); err != nil {
				return fmt.Errorf("insert link: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit register: %w", err)
	}
	return nil
}

// Delete removes the email; links and events go with it via ON DELETE CASCADE.
func (r *EmailRepo) Delete(ctx context.Context, emailID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM emails WHERE id = ?`, emailID); err != nil {
		return fmt.Errorf("delete email: %w", err)
	}
	return nil
}
