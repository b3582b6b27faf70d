package domain

import "time"

// EmailSummary is one row of the email listing with derived counters.
type EmailSummary struct {
	Email
	OpenCount  int        `json:"open_count"`
	ClickCount int        `json:"click_count"`
	LastOpened *time.Time `json:"last_opened"`
}

// TimelineEvent is an event annotated with the clicked link's destination.
type TimelineEvent struct {
	TrackingEvent
	OriginalURL *string `json:"original_url"`
}

// LinkStat is the click count of a single link. Links that were never
// clicked are reported with a zero count.
type LinkStat struct {
	ID          string `json:"id"`
	OriginalURL string `json:"original_url"`
	ClickCount  int    `json:"click_count"`
}

// EmailDetail is the full engagement picture of one email.
type EmailDetail struct {
	Email
	Events      []TimelineEvent `json:"events"`
	UniqueOpens int             `json:"unique_opens"`
	TotalOpens  int             `json:"total_opens"`
	TotalClicks int             `json:"total_clicks"`
	LinkStats   []LinkStat      `json:"link_stats"`
}

// DailyActivity holds event counts for one calendar day (YYYY-MM-DD).
type DailyActivity struct {
	Date   string `json:"date"`
	Opens  int    `json:"opens"`
	Clicks int    `json:"clicks"`
}

// Stats is the global rollup shown on the dashboard overview.
type Stats struct {
	TotalEmails  int             `json:"total_emails"`
	TotalOpens   int             `json:"total_opens"`
	TotalClicks  int             `json:"total_clicks"`
	EmailsOpened int             `json:"emails_opened"`
	OpenRate     float64         `json:"open_rate"`
	Activity     []DailyActivity `json:"activity"`
}
