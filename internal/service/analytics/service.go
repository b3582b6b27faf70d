package analytics

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ignite/email-tracker/internal/domain"
)

const (
	DefaultPerPage = 50
	MaxPerPage     = 200

	// ActivityWindowDays is how far back the dashboard chart reaches.
	ActivityWindowDays = 30
)

// ListResult is one page of the email listing.
type ListResult struct {
	Emails  []domain.EmailSummary `json:"emails"`
	Total   int                   `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
}

// Service implements analytics queries. It is safe for concurrent use.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates an analytics service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ListEmails returns page (1-based) of the listing with perPage rows.
func (s *Service) ListEmails(ctx context.Context, page, perPage int, search string) (*ListResult, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", ErrInvalidPaging)
	}
	if perPage < 1 || perPage > MaxPerPage {
		return nil, fmt.Errorf("%w: per_page must be between 1 and %d", ErrInvalidPaging, MaxPerPage)
	}

	emails, total, err := s.repo.ListEmails(ctx, ListFilter{
		Search: strings.TrimSpace(search),
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		return nil, err
	}
	if emails == nil {
		emails = []domain.EmailSummary{}
	}
	return &ListResult{Emails: emails, Total: total, Page: page, PerPage: perPage}, nil
}

// GetEmail returns the detail view of one email or ErrNotFound.
func (s *Service) GetEmail(ctx context.Context, id string) (*domain.EmailDetail, error) {
	email, err := s.repo.GetEmail(ctx, id)
	if err != nil {
		return nil, err
	}

	events, err := s.repo.Timeline(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.Engagement(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.repo.LinkStats(ctx, id)
	if err != nil {
		return nil, err
	}

	if events == nil {
		events = []domain.TimelineEvent{}
	}
	if links == nil {
		links = []domain.LinkStat{}
	}
	return &domain.EmailDetail{
		Email:       *email,
		Events:      events,
		UniqueOpens: counts.UniqueOpens,
		TotalOpens:  counts.TotalOpens,
		TotalClicks: counts.TotalClicks,
		LinkStats:   links,
	}, nil
}

// Stats returns the global dashboard rollup.
func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	since := s.now().UTC().AddDate(0, 0, -ActivityWindowDays).Format("2006-01-02")
	activity, err := s.repo.DailyActivity(ctx, since)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		activity = []domain.DailyActivity{}
	}

	return &domain.Stats{
		TotalEmails:  totals.Emails,
		TotalOpens:   totals.Opens,
		TotalClicks:  totals.Clicks,
		EmailsOpened: totals.EmailsOpened,
		OpenRate:     OpenRate(totals.EmailsOpened, totals.Emails),
		Activity:     activity,
	}, nil
}

// OpenRate is the percentage of emails opened at least once, rounded to one
// decimal place. It is 0 when there are no emails.
func OpenRate(opened, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(opened)/float64(total)*1000) / 10
}
