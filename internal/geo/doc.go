// Package geo resolves client IP addresses to a human-readable location.
//
// Lookups are advisory. Locate never returns an error: a timeout, a non-200
// reply, a malformed payload, an open circuit breaker, or a non-routable
// address all resolve to the empty string. Results can be cached in Redis;
// the cache is keyed by IP and never holds tracker entities.
package geo
