package tracking

import (
	"context"
	"fmt"

	"github.com/ignite/email-tracker/internal/domain"
	"github.com/ignite/email-tracker/internal/metrics"
	"github.com/ignite/email-tracker/internal/pkg/logger"
)

// Hit carries the request metadata recorded with an event.
type Hit struct {
	IP        string
	UserAgent string
}

// Outcome describes what happened to an ingestion request.
type Outcome string

const (
	Recorded   Outcome = metrics.OutcomeRecorded
	Suppressed Outcome = metrics.OutcomeSuppressed
	Failed     Outcome = metrics.OutcomeFailed
)

// Service records opens and clicks. It is safe for concurrent use.
type Service struct {
	repo      Repository
	locator   Locator
	publisher Publisher
}

// NewService creates an ingestion service. publisher may be nil.
func NewService(repo Repository, locator Locator, publisher Publisher) *Service {
	return &Service{repo: repo, locator: locator, publisher: publisher}
}

// RecordOpen logs a pixel load for emailID, creating the email row if the
// pixel fired before registration.
func (s *Service) RecordOpen(ctx context.Context, emailID string, hit Hit) Outcome {
	// A client that hangs up after fetching the pixel still opened the email.
	ctx = context.WithoutCancel(ctx)

	if emailID == "" {
		return s.fail(domain.EventOpen, fmt.Errorf("empty tracking id"), "email_id", emailID)
	}

	ignored, err := s.repo.IsIgnored(ctx, hit.IP)
	if err != nil {
		return s.fail(domain.EventOpen, err, "email_id", emailID)
	}
	if ignored {
		metrics.RecordEvent(string(domain.EventOpen), string(Suppressed))
		return Suppressed
	}

	if err := s.repo.EnsureEmail(ctx, emailID); err != nil {
		return s.fail(domain.EventOpen, err, "email_id", emailID)
	}

	evt := &domain.TrackingEvent{
		EmailID:   emailID,
		EventType: domain.EventOpen,
		IPAddress: hit.IP,
		UserAgent: hit.UserAgent,
		Location:  s.locator.Locate(ctx, hit.IP),
	}
	if err := s.repo.InsertEvent(ctx, evt); err != nil {
		return s.fail(domain.EventOpen, err, "email_id", emailID)
	}
	return s.recorded(ctx, evt)
}

// RecordClick resolves linkID and logs the click. The returned link is the
// redirect target and is non-nil whenever err is nil, even if the event
// itself could not be stored. err is ErrLinkNotFound for unknown ids.
func (s *Service) RecordClick(ctx context.Context, linkID string, hit Hit) (*domain.Link, Outcome, error) {
	ctx = context.WithoutCancel(ctx)

	link, err := s.repo.FindLink(ctx, linkID)
	if err != nil {
		return nil, Failed, err
	}

	ignored, err := s.repo.IsIgnored(ctx, hit.IP)
	if err != nil {
		return link, s.fail(domain.EventClick, err, "link_id", linkID), nil
	}
	if ignored {
		metrics.RecordEvent(string(domain.EventClick), string(Suppressed))
		return link, Suppressed, nil
	}

	evt := &domain.TrackingEvent{
		EmailID:   link.EmailID,
		LinkID:    &link.ID,
		EventType: domain.EventClick,
		IPAddress: hit.IP,
		UserAgent: hit.UserAgent,
		Location:  s.locator.Locate(ctx, hit.IP),
	}
	if err := s.repo.InsertEvent(ctx, evt); err != nil {
		return link, s.fail(domain.EventClick, err, "link_id", linkID), nil
	}
	return link, s.recorded(ctx, evt), nil
}

func (s *Service) recorded(ctx context.Context, evt *domain.TrackingEvent) Outcome {
	metrics.RecordEvent(string(evt.EventType), string(Recorded))
	if s.publisher != nil {
		s.publisher.Publish(ctx, *evt)
	}
	return Recorded
}

func (s *Service) fail(eventType domain.TrackingEventType, err error, idKey, id string) Outcome {
	metrics.RecordEvent(string(eventType), string(Failed))
	logger.Warn("event not recorded", "event_type", eventType, idKey, id, "error", err)
	return Failed
}
