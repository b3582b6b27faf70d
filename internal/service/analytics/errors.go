package analytics

import "errors"

// Sentinel errors for the analytics service layer.
var (
	ErrNotFound      = errors.New("email not found")
	ErrInvalidPaging = errors.New("invalid pagination")
)
