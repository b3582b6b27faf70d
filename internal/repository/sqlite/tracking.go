package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignite/email-tracker/internal/domain"
	"github.com/ignite/email-tracker/internal/service/tracking"
)

// TrackingRepo implements tracking.Repository against SQLite.
type TrackingRepo struct{ db *sql.DB }

// NewTrackingRepo creates a SQLite-backed ingestion repository.
func NewTrackingRepo(db *sql.DB) *TrackingRepo { return &TrackingRepo{db: db} }

func (r *TrackingRepo) IsIgnored(ctx context.Context, ip string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM ignored_ips WHERE ip = ?)`, ip,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check ignored ip: %w", err)
	}
	return exists, nil
}

func (r *TrackingRepo) EnsureEmail(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO emails (id, subject, recipient) VALUES (?, '', '')`, id,
	)
	if err != nil {
		return fmt.Errorf("ensure email: %w", err)
	}
	return nil
}

func (r *TrackingRepo) FindLink(ctx context.Context, id string) (*domain.Link, error) {
	var l domain.Link
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email_id, original_url FROM links WHERE id = ?`, id,
	).Scan(&l.ID, &l.EmailID, &l.OriginalURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tracking.ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find link: %w", err)
	}
	return &l, nil
}

func (r *TrackingRepo) InsertEvent(ctx context.Context, evt *domain.TrackingEvent) error {
	if !evt.EventType.Valid() {
		return fmt.Errorf("insert event: invalid event type %q", evt.EventType)
	}
	var ts timestamp
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO events (email_id, link_id, event_type, ip, user_agent, country)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, timestamp
	`, evt.EmailID, evt.LinkID, string(evt.EventType), evt.IPAddress, evt.UserAgent, evt.Location,
	).Scan(&evt.ID, &ts)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	evt.Timestamp = ts.Time
	return nil
}
