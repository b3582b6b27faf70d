// Command tracking runs only the public pixel and redirect endpoints. It
// shares the SQLite file with cmd/server, which serves the management API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ignite/email-tracker/internal/config"
	"github.com/ignite/email-tracker/internal/geo"
	"github.com/ignite/email-tracker/internal/metrics"
	"github.com/ignite/email-tracker/internal/pkg/httputil"
	"github.com/ignite/email-tracker/internal/pkg/logger"
	"github.com/ignite/email-tracker/internal/repository/sqlite"
	trackingsvc "github.com/ignite/email-tracker/internal/service/tracking"
	"github.com/ignite/email-tracker/internal/tracking"
)

func main() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	cfg, err := config.LoadFromEnv(path)
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(cfg.Logging.ShouldRedactPII())

	ctx := context.Background()

	db, err := sqlite.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to open database", "path", cfg.Storage.DBPath, "error", err)
	}
	defer db.Close()

	locator, redisClient, err := geo.FromConfig(cfg.Geo)
	if err != nil {
		logger.Fatal("failed to configure geolocation", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, err := tracking.NewPublisherFromConfig(ctx, cfg.Publisher)
	if err != nil {
		logger.Fatal("failed to configure engagement publisher", "error", err)
	}

	ingest := trackingsvc.NewService(sqlite.NewTrackingRepo(db), locator, publisher)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	tracking.NewHandler(ingest).Register(r)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			httputil.Error(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		httputil.OK(w, map[string]string{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("tracking service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down tracking service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	publisher.Wait()
}
