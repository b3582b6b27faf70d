package domain

import "time"

// TrackingEventType enumerates the engagement events the tracker records.
// The storage layer rejects any other value.
type TrackingEventType string

const (
	EventOpen  TrackingEventType = "open"
	EventClick TrackingEventType = "click"
)

// Valid reports whether t is one of the recorded event types.
func (t TrackingEventType) Valid() bool {
	return t == EventOpen || t == EventClick
}

// Email is a tracked outgoing message. Subject and Recipient are empty when
// the pixel fired before the email was registered.
type Email struct {
	ID        string    `json:"id" db:"id"`
	Subject   string    `json:"subject" db:"subject"`
	Recipient string    `json:"recipient" db:"recipient"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Link is a rewritten destination URL owned by exactly one email.
type Link struct {
	ID          string `json:"id" db:"id"`
	EmailID     string `json:"email_id" db:"email_id"`
	OriginalURL string `json:"original_url" db:"original_url"`
}

// TrackingEvent is a single append-only open or click record.
// LinkID is set for clicks only.
type TrackingEvent struct {
	ID        int64             `json:"id" db:"id"`
	EmailID   string            `json:"email_id" db:"email_id"`
	LinkID    *string           `json:"link_id" db:"link_id"`
	EventType TrackingEventType `json:"event_type" db:"event_type"`
	Timestamp time.Time         `json:"timestamp" db:"timestamp"`
	IPAddress string            `json:"ip" db:"ip"`
	UserAgent string            `json:"user_agent" db:"user_agent"`
	Location  string            `json:"country" db:"country"`
}

// IgnoredIP is an address whose opens and clicks are never recorded.
type IgnoredIP struct {
	IP        string    `json:"ip" db:"ip"`
	Label     string    `json:"label" db:"label"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
