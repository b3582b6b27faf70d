// Command migrate applies the SQLite schema migrations or lists their state.
//
//	migrate           apply pending migrations
//	migrate --list    print every migration and whether it is applied
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/ignite/email-tracker/internal/config"
	"github.com/ignite/email-tracker/internal/pkg/logger"
	"github.com/ignite/email-tracker/internal/repository/sqlite"
)

func main() {
	listOnly := flag.Bool("list", false, "list migrations instead of applying them")
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	ctx := context.Background()

	if *listOnly {
		db, err := sql.Open(sqlite.DriverName, sqlite.DSN(cfg.Storage.DBPath, cfg.Storage.BusyTimeoutMS))
		if err != nil {
			logger.Fatal("open database", "error", err)
		}
		defer db.Close()

		status, err := sqlite.MigrationStatus(ctx, db)
		if err != nil {
			logger.Fatal("migration status", "error", err)
		}
		for _, s := range status {
			applied := "pending"
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(os.Stdout, "  %05d  %-40s %s\n", s.Source.Version, s.Source.Path, applied)
		}
		fmt.Fprintf(os.Stdout, "Total: %d migrations\n", len(status))
		return
	}

	// Open applies pending migrations.
	db, err := sqlite.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("migrate", "path", cfg.Storage.DBPath, "error", err)
	}
	defer db.Close()
	logger.Info("migrations complete", "path", cfg.Storage.DBPath)
}
