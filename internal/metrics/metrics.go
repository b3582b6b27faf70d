// Package metrics exposes Prometheus instruments for the ingestion path.
//
// Ingestion swallows storage and geolocation failures so the pixel and the
// redirect always succeed; these counters are where those failures surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Event outcomes.
const (
	OutcomeRecorded   = "recorded"
	OutcomeSuppressed = "suppressed"
	OutcomeFailed     = "failed"
)

// Geolocation results.
const (
	GeoResolved    = "resolved"
	GeoUnknown     = "unknown"
	GeoCacheHit    = "cache_hit"
	GeoSkipped     = "skipped"
	GeoFailed      = "failed"
	GeoBreakerOpen = "breaker_open"
)

var (
	// EventsTotal counts ingestion attempts by event type and outcome.
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_events_total",
			Help: "Open and click requests by outcome",
		},
		[]string{"event_type", "outcome"},
	)

	// GeoLookupsTotal counts geolocation lookups by result.
	GeoLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_geo_lookups_total",
			Help: "IP geolocation lookups by result",
		},
		[]string{"result"},
	)

	// GeoLookupDuration tracks upstream geolocation latency.
	GeoLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tracker_geo_lookup_duration_seconds",
			Help:    "Latency of upstream IP geolocation calls",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
	)

	// PublishFailuresTotal counts events that could not be fanned out.
	PublishFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_publish_failures_total",
			Help: "Recorded events that failed to publish to the queue",
		},
	)
)

// RecordEvent increments the event counter.
func RecordEvent(eventType, outcome string) {
	EventsTotal.WithLabelValues(eventType, outcome).Inc()
}

// RecordGeoLookup increments the lookup counter and, for upstream calls,
// observes latency.
func RecordGeoLookup(result string, upstream time.Duration) {
	GeoLookupsTotal.WithLabelValues(result).Inc()
	if upstream > 0 {
		GeoLookupDuration.Observe(upstream.Seconds())
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
