package ignoredip

import (
	"context"

	"github.com/ignite/email-tracker/internal/domain"
)

// Repository defines the data access contract for the ignore list.
type Repository interface {
	// List returns every ignored address, newest first.
	List(ctx context.Context) ([]domain.IgnoredIP, error)

	// Add inserts ip. Adding an address that is already listed keeps the
	// existing entry and is not an error.
	Add(ctx context.Context, ip, label string) error

	// Remove deletes ip. Removing an unlisted address is not an error.
	Remove(ctx context.Context, ip string) error
}
