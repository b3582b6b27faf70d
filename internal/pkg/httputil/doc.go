// Package httputil provides shared HTTP response/request utilities for handlers.
//
// Every handler should use these helpers instead of writing raw
// http.ResponseWriter calls, so that JSON formatting, error envelopes, and
// client address resolution are identical on the API and tracking routes.
package httputil
