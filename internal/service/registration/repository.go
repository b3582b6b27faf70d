package registration

import (
	"context"

	"github.com/ignite/email-tracker/internal/domain"
)

// Repository defines the data access contract for registration.
type Repository interface {
	// Register upserts email and inserts links in a single transaction.
	// An existing email keeps any non-empty subject or recipient.
	Register(ctx context.Context, email *domain.Email, links []domain.Link) error

	// Delete removes an email together with its links and events. Deleting
	// an unknown id is not an error.
	Delete(ctx context.Context, emailID string) error
}
