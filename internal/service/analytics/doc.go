// Package analytics answers read-only questions about recorded engagement:
// the paginated email listing, a single email's timeline and the global
// dashboard rollup. Every answer is computed from storage on demand.
package analytics
