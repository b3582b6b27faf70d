package tracking

import (
	"context"

	"github.com/ignite/email-tracker/internal/domain"
)

// Repository defines the storage operations ingestion needs.
type Repository interface {
	// IsIgnored reports whether events from ip must be suppressed.
	IsIgnored(ctx context.Context, ip string) (bool, error)

	// EnsureEmail creates an email row with empty subject and recipient
	// unless one already exists.
	EnsureEmail(ctx context.Context, id string) error

	// FindLink returns the link or ErrLinkNotFound.
	FindLink(ctx context.Context, id string) (*domain.Link, error)

	// InsertEvent appends an event and fills in its ID and Timestamp.
	InsertEvent(ctx context.Context, evt *domain.TrackingEvent) error
}

// Locator resolves an IP to a location string. It must not block for long
// and returns "" when the location is unknown.
type Locator interface {
	Locate(ctx context.Context, ip string) string
}

// Publisher fans recorded events out to other systems. Publish must not block.
type Publisher interface {
	Publish(ctx context.Context, evt domain.TrackingEvent)
}
