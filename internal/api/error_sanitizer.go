package api

import (
	"errors"
	"net/http"

	"github.com/ignite/email-tracker/internal/pkg/httputil"
	"github.com/ignite/email-tracker/internal/service/analytics"
	"github.com/ignite/email-tracker/internal/service/ignoredip"
	"github.com/ignite/email-tracker/internal/service/registration"
)

// respondServiceError maps service sentinel errors to HTTP responses.
// Anything unrecognized is a storage failure: it is logged in full and the
// client only sees a generic 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analytics.ErrNotFound):
		httputil.NotFound(w, "email not found")
	case errors.Is(err, analytics.ErrInvalidPaging),
		errors.Is(err, registration.ErrInvalidInput),
		errors.Is(err, ignoredip.ErrIPRequired):
		httputil.BadRequest(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}
