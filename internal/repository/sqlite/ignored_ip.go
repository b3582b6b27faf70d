package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/email-tracker/internal/domain"
)

// IgnoredIPRepo implements ignoredip.Repository against SQLite.
type IgnoredIPRepo struct{ db *sql.DB }

// NewIgnoredIPRepo creates a SQLite-backed ignore-list repository.
func NewIgnoredIPRepo(db *sql.DB) *IgnoredIPRepo { return &IgnoredIPRepo{db: db} }

func (r *IgnoredIPRepo) List(ctx context.Context) ([]domain.IgnoredIP, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ip, COALESCE(label, ''), created_at
		FROM ignored_ips
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list ignored ips: %w", err)
	}
	defer rows.Close()

	var out []domain.IgnoredIP
	for rows.Next() {
		var (
			ip      domain.IgnoredIP
			created timestamp
		)
		if err := rows.Scan(&ip.IP, &ip.Label, &created); err != nil {
			return nil, fmt.Errorf("scan ignored ip: %w", err)
		}
		ip.CreatedAt = created.Time
		out = append(out, ip)
	}
	return out, rows.Err()
}

func (r *IgnoredIPRepo) Add(ctx context.Context, ip, label string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO ignored_ips (ip, label) VALUES (?, NULLIF(?, ''))`, ip, label,
	)
	if err != nil {
		return fmt.Errorf("add ignored ip: %w", err)
	}
	return nil
}

func (r *IgnoredIPRepo) Remove(ctx context.Context, ip string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ignored_ips WHERE ip = ?`, ip); err != nil {
		return fmt.Errorf("remove ignored ip: %w", err)
	}
	return nil
}
