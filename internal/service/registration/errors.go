package registration

import "errors"

// Sentinel errors for the registration service layer.
var (
	ErrInvalidInput = errors.New("invalid registration input")
)
