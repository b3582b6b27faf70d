package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/email-tracker/internal/api"
	"github.com/ignite/email-tracker/internal/config"
	"github.com/ignite/email-tracker/internal/geo"
	"github.com/ignite/email-tracker/internal/pkg/logger"
	"github.com/ignite/email-tracker/internal/repository/sqlite"
	"github.com/ignite/email-tracker/internal/service/analytics"
	"github.com/ignite/email-tracker/internal/service/ignoredip"
	"github.com/ignite/email-tracker/internal/service/registration"
	trackingsvc "github.com/ignite/email-tracker/internal/service/tracking"
	"github.com/ignite/email-tracker/internal/tracking"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("address %s is already in use: %w", addr, err)
	}
	return ln.Close()
}

func main() {
	cfg, err := config.LoadFromEnv(configPath())
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(cfg.Logging.ShouldRedactPII())

	if err := checkPortAvailable(cfg.Server.Addr()); err != nil {
		logger.Fatal("pre-flight check failed", "error", err)
	}

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
		logger.Info("geolocation cache enabled", "ttl", cfg.Geo.CacheTTL())
	}

	publisher, err := tracking.NewPublisherFromConfig(ctx, cfg.Publisher)
	if err != nil {
		logger.Fatal("failed to configure engagement publisher", "error", err)
	}
	if publisher != nil {
		logger.Info("engagement publisher enabled", "queue", cfg.Publisher.SQSQueueURL)
	}

	ingest := trackingsvc.NewService(sqlite.NewTrackingRepo(db), locator, publisher)
	handlers := api.NewHandlers(
		registration.NewService(sqlite.NewEmailRepo(db), cfg.Server.PublicBaseURL),
		analytics.NewService(sqlite.NewAnalyticsRepo(db)),
		ignoredip.NewService(sqlite.NewIgnoredIPRepo(db)),
		cfg.Server.DashboardDir,
	)
	server := api.NewServer(cfg.Server, handlers, tracking.NewHandler(ingest), api.NewHealthChecker(db, redisClient))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "error", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	publisher.Wait()

	logger.Info("server stopped")
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/config.yaml"
}
