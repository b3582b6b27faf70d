package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/ignite/email-tracker/internal/config"
	"github.com/ignite/email-tracker/internal/pkg/logger"
)

// DriverName is the go-sqlite3 driver registered with the fold() function
// used for case-insensitive search.
const DriverName = "sqlite3_tracker"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// Built-in lower() and LIKE fold ASCII only.
			return conn.RegisterFunc("fold", strings.ToLower, true)
		},
	})
}

// DSN builds the connection string for path. Every pooled connection gets
// WAL journaling, foreign key enforcement and the busy timeout, and write
// transactions take the database lock up front.
func DSN(path string, busyTimeoutMS int) string {
	q := url.Values{}
	q.Set("_journal_mode", "WAL")
	q.Set("_foreign_keys", "on")
	q.Set("_busy_timeout", strconv.Itoa(busyTimeoutMS))
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

// Open opens the database file, creating its directory if needed, and
// applies pending migrations. Opening an initialized file changes nothing.
func Open(ctx context.Context, cfg config.StorageConfig) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open(DriverName, DSN(cfg.DBPath, cfg.BusyTimeoutMS))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	applied, err := Migrate(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	for _, m := range applied {
		logger.Info("migration applied", "version", m.Source.Version, "path", m.Source.Path, "duration", m.Duration)
	}

	version, _, _ := sqlite3.Version()
	logger.Info("database ready", "path", cfg.DBPath, "sqlite_version", version)
	return db, nil
}
