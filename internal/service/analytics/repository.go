package analytics

import (
	"context"

	"github.com/ignite/email-tracker/internal/domain"
)

// Repository defines the aggregate queries analytics runs.
type Repository interface {
	// ListEmails returns one page of summaries, newest first, and the total
	// number of emails matching the filter.
	ListEmails(ctx context.Context, filter ListFilter) ([]domain.EmailSummary, int, error)

	// GetEmail returns the email row or ErrNotFound.
	GetEmail(ctx context.Context, id string) (*domain.Email, error)

	// Timeline returns the email's events newest first.
	Timeline(ctx context.Context, emailID string) ([]domain.TimelineEvent, error)

	// Engagement returns the per-email open and click counters.
	Engagement(ctx context.Context, emailID string) (Engagement, error)

	// LinkStats returns every link of the email with its click count.
	LinkStats(ctx context.Context, emailID string) ([]domain.LinkStat, error)

	// Totals returns the global counters.
	Totals(ctx context.Context) (Totals, error)

	// DailyActivity returns per-day counts for events on or after since
	// (YYYY-MM-DD), oldest day first. Days without events are omitted.
	DailyActivity(ctx context.Context, since string) ([]domain.DailyActivity, error)
}

// ListFilter controls pagination and search for the email listing.
// Search matches subject or recipient case-insensitively.
type ListFilter struct {
	Search string
	Limit  int
	Offset int
}

// Engagement holds one email's counters.
type Engagement struct {
	UniqueOpens int
	TotalOpens  int
	TotalClicks int
}

// Totals holds the global counters.
type Totals struct {
	Emails       int
	Opens        int
	Clicks       int
	EmailsOpened int
}
