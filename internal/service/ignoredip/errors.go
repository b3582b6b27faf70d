package ignoredip

import "errors"

// Sentinel errors for the ignored-IP service layer.
var (
	ErrIPRequired = errors.New("ip is required")
)
