package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/ignite/email-tracker/internal/config"
	"github.com/ignite/email-tracker/internal/metrics"
	"github.com/ignite/email-tracker/internal/pkg/httputil"
)

// TrackingRoutes registers the public pixel and redirect endpoints.
type TrackingRoutes interface {
	Register(r chi.Router)
}

// SetupRoutes configures all routes. Ingestion endpoints sit at the root
// outside the rate-limited /api group so that email clients are never
// throttled.
func SetupRoutes(cfg config.ServerConfig, h *Handlers, track TrackingRoutes, health *HealthChecker) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	track.Register(r)

	r.Get("/health", health.HandleHealth)
	r.Handle("/metrics", metrics.Handler())

	// Dashboard
	r.Get("/", h.HandleDashboard)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(h.dashboardDir))))

	r.Route("/api", func(r chi.Router) {
		if cfg.APIRateLimitPerMinute > 0 {
			r.Use(httprate.Limit(cfg.APIRateLimitPerMinute, time.Minute,
				httprate.WithKeyFuncs(clientIPKey),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					httputil.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
				}),
			))
		}

		r.Post("/emails", h.RegisterEmail)
		r.Get("/emails", h.ListEmails)
		r.Get("/emails/{id}", h.GetEmail)
		r.Delete("/emails/{id}", h.DeleteEmail)

		r.Get("/stats", h.GetStats)

		r.Get("/ignored-ips", h.ListIgnoredIPs)
		r.Post("/ignored-ips", h.AddIgnoredIP)
		r.Delete("/ignored-ips/{ip}", h.RemoveIgnoredIP)
		r.Get("/my-ip", h.MyIP)
	})

	return r
}

func clientIPKey(r *http.Request) (string, error) {
	return httputil.ClientIP(r), nil
}
