package ignoredip

import (
	"context"
	"strings"

	"github.com/ignite/email-tracker/internal/domain"
	"github.com/ignite/email-tracker/internal/pkg/httputil"
)

// DashboardLabel marks entries added by opening the dashboard.
const DashboardLabel = "Auto-detected (dashboard visit)"

// Service implements ignore-list business logic. It is safe for concurrent use.
type Service struct {
	repo Repository
}

// NewService creates an ignored-IP service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the ignore list, newest first.
func (s *Service) List(ctx context.Context) ([]domain.IgnoredIP, error) {
	ips, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if ips == nil {
		ips = []domain.IgnoredIP{}
	}
	return ips, nil
}

// Add puts ip on the ignore list. Duplicates are silently kept as they were.
func (s *Service) Add(ctx context.Context, ip, label string) error {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return ErrIPRequired
	}
	return s.repo.Add(ctx, ip, strings.TrimSpace(label))
}

// Remove takes ip off the ignore list.
func (s *Service) Remove(ctx context.Context, ip string) error {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return ErrIPRequired
	}
	return s.repo.Remove(ctx, ip)
}

// AutoIgnore adds the dashboard viewer's address. Empty and loopback
// addresses are skipped; the return value reports whether ip was submitted.
func (s *Service) AutoIgnore(ctx context.Context, ip string) (bool, error) {
	if ip == "" || ip == "localhost" || httputil.IsLoopback(ip) {
		return false, nil
	}
	if err := s.repo.Add(ctx, ip, DashboardLabel); err != nil {
		return false, err
	}
	return true, nil
}
