package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ignite/email-tracker/internal/domain"
	"github.com/ignite/email-tracker/internal/service/analytics"
)

// AnalyticsRepo implements analytics.Repository against SQLite.
type AnalyticsRepo struct{ db *sql.DB }

// NewAnalyticsRepo creates a SQLite-backed analytics repository.
func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo { return &AnalyticsRepo{db: db} }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchClause returns a WHERE clause matching subject or recipient as a
// case-insensitive substring, folding non-ASCII letters too.
func searchClause(search string) (string, []any) {
	if search == "" {
		return "", nil
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
	return `WHERE fold(e.subject) LIKE ? ESCAPE '\' OR fold(e.recipient) LIKE ? ESCAPE '\'`, []any{pattern, pattern}
}

func (r *AnalyticsRepo) ListEmails(ctx context.Context, f analytics.ListFilter) ([]domain.EmailSummary, int, error) {
	where, args := searchClause(f.Search)

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM emails e `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count emails: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.subject, e.recipient, e.created_at,
			COALESCE(SUM(CASE WHEN ev.event_type = 'open' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN ev.event_type = 'click' THEN 1 ELSE 0 END), 0),
			MAX(CASE WHEN ev.event_type = 'open' THEN ev.timestamp END)
		FROM emails e
		LEFT JOIN events ev ON ev.email_id = e.id
		`+where+`
		GROUP BY e.id
		ORDER BY e.created_at DESC, e.rowid DESC
		LIMIT ? OFFSET ?
	`, append(args, limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list emails: %w", err)
	}
	defer rows.Close()

	var out []domain.EmailSummary
	for rows.Next() {
		var (
			s          domain.EmailSummary
			created    timestamp
			lastOpened timestamp
		)
		if err := rows.Scan(&s.ID, &s.Subject, &s.Recipient, &created,
			&s.OpenCount, &s.ClickCount, &lastOpened); err != nil {
			return nil, 0, fmt.Errorf("scan email summary: %w", err)
		}
		s.CreatedAt = created.Time
		s.LastOpened = lastOpened.ptr()
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *AnalyticsRepo) GetEmail(ctx context.Context, id string) (*domain.Email, error) {
	var (
		e       domain.Email
		created timestamp
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, subject, recipient, created_at FROM emails WHERE id = ?`, id,
	).Scan(&e.ID, &e.Subject, &e.Recipient, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, analytics.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get email: %w", err)
	}
	e.CreatedAt = created.Time
	return &e, nil
}

func (r *AnalyticsRepo) Timeline(ctx context.Context, emailID string) ([]domain.TimelineEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ev.id, ev.email_id, ev.link_id, ev.event_type, ev.timestamp,
			COALESCE(ev.ip, ''), COALESCE(ev.user_agent, ''), COALESCE(ev.country, ''),
			l.original_url
		FROM events ev
		LEFT JOIN links l ON l.id = ev.link_id
		WHERE ev.email_id = ?
		ORDER BY ev.timestamp DESC, ev.id DESC
	`, emailID)
	if err != nil {
		return nil, fmt.Errorf("email timeline: %w", err)
	}
	defer rows.Close()

	var out []domain.TimelineEvent
	for rows.Next() {
		var (
			ev          domain.TimelineEvent
			eventType   string
			ts          timestamp
			linkID      sql.NullString
			originalURL sql.NullString
		)
		if err := rows.Scan(&ev.ID, &ev.EmailID, &linkID, &eventType, &ts,
			&ev.IPAddress, &ev.UserAgent, &ev.Location, &originalURL); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.EventType = domain.TrackingEventType(eventType)
		ev.Timestamp = ts.Time
		if linkID.Valid {
			ev.LinkID = &linkID.String
		}
		if originalURL.Valid {
			ev.OriginalURL = &originalURL.String
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) Engagement(ctx context.Context, emailID string) (analytics.Engagement, error) {
	var e analytics.Engagement
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(DISTINCT CASE WHEN event_type = 'open' THEN ip END),
			COALESCE(SUM(CASE WHEN event_type = 'open' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN event_type = 'click' THEN 1 ELSE 0 END), 0)
		FROM events
		WHERE email_id = ?
	`, emailID).Scan(&e.UniqueOpens, &e.TotalOpens, &e.TotalClicks)
	if err != nil {
		return analytics.Engagement{}, fmt.Errorf("email engagement: %w", err)
	}
	return e, nil
}

func (r *AnalyticsRepo) LinkStats(ctx context.Context, emailID string) ([]domain.LinkStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.original_url, COUNT(ev.id)
		FROM links l
		LEFT JOIN events ev ON ev.link_id = l.id AND ev.event_type = 'click'
		WHERE l.email_id = ?
		GROUP BY l.id
		ORDER BY l.rowid
	`, emailID)
	if err != nil {
		return nil, fmt.Errorf("link stats: %w", err)
	}
	defer rows.Close()

	var out []domain.LinkStat
	for rows.Next() {
		var s domain.LinkStat
		if err := rows.Scan(&s.ID, &s.OriginalURL, &s.ClickCount); err != nil {
			return nil, fmt.Errorf("scan link stat: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *AnalyticsRepo) Totals(ctx context.Context) (analytics.Totals, error) {
	var t analytics.Totals
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM emails),
			(SELECT COUNT(*) FROM events WHERE event_type = 'open'),
			(SELECT COUNT(*) FROM events WHERE event_type = 'click'),
			(SELECT COUNT(DISTINCT email_id) FROM events WHERE event_type = 'open')
	`).Scan(&t.Emails, &t.Opens, &t.Clicks, &t.EmailsOpened)
	if err != nil {
		return analytics.Totals{}, fmt.Errorf("totals: %w", err)
	}
	return t, nil
}

func (r *AnalyticsRepo) DailyActivity(ctx context.Context, since string) ([]domain.DailyActivity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DATE(timestamp) AS day,
			SUM(CASE WHEN event_type = 'open' THEN 1 ELSE 0 END),
			SUM(CASE WHEN event_type = 'click' THEN 1 ELSE 0 END)
		FROM events
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day
	`, since)
	if err != nil {
		return nil, fmt.Errorf("daily activity: %w", err)
	}
	defer rows.Close()

	var out []domain.DailyActivity
	for rows.Next() {
		var d domain.DailyActivity
		if err := rows.Scan(&d.Date, &d.Opens, &d.Clicks); err != nil {
			return nil, fmt.Errorf("scan daily activity: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
