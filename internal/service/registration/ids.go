package registration

import (
	"strings"

	"github.com/google/uuid"
)

const (
	emailIDLength = 12
	linkIDLength  = 10
)

// newID returns the first n hex characters of a random UUID.
func newID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
