package tracking

import "errors"

// Sentinel errors for the tracking service layer.
var (
	ErrLinkNotFound = errors.New("link not found")
)
