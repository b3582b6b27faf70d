package registration

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ignite/email-tracker/internal/domain"
)

// RegisterInput is what a sender reports about an outgoing email.
type RegisterInput struct {
	EmailID   string
	Subject   string
	Recipient string
	Links     []string
}

// TrackedLink pairs an original URL with the redirect that replaces it.
type TrackedLink struct {
	OriginalURL string `json:"original_url"`
	TrackedURL  string `json:"tracked_url"`
}

// Registration is returned to the sender to embed in the outgoing email.
type Registration struct {
	EmailID  string        `json:"email_id"`
	PixelURL string        `json:"pixel_url"`
	Links    []TrackedLink `json:"links"`
}

// Service implements registration business logic. It is safe for concurrent use.
type Service struct {
	repo    Repository
	baseURL string
}

// NewService creates a registration service. baseURL prefixes the returned
// pixel and link URLs; empty yields root-relative paths.
func NewService(repo Repository, baseURL string) *Service {
	return &Service{repo: repo, baseURL: strings.TrimRight(baseURL, "/")}
}

// Register records the email and one new tracked link per supplied URL.
// Registering the same URL twice yields two distinct links.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Registration, error) {
	emailID := strings.TrimSpace(in.EmailID)
	if emailID == "" {
		emailID = newID(emailIDLength)
	}

	links := make([]domain.Link, 0, len(in.Links))
	for i, raw := range in.Links {
		target := strings.TrimSpace(raw)
		if target == "" {
			return nil, fmt.Errorf("%w: link %d is empty", ErrInvalidInput, i)
		}
		links = append(links, domain.Link{
			ID:          newID(linkIDLength),
			EmailID:     emailID,
			OriginalURL: target,
		})
	}

	email := &domain.Email{
		ID:        emailID,
		Subject:   in.Subject,
		Recipient: in.Recipient,
	}
	if err := s.repo.Register(ctx, email, links); err != nil {
		return nil, err
	}

	out := &Registration{
		EmailID:  emailID,
		PixelURL: s.PixelURL(emailID),
		Links:    make([]TrackedLink, 0, len(links)),
	}
	for _, l := range links {
		out.Links = append(out.Links, TrackedLink{
			OriginalURL: l.OriginalURL,
			TrackedURL:  s.TrackedURL(l.ID),
		})
	}
	return out, nil
}

// Delete removes an email and everything recorded for it.
func (s *Service) Delete(ctx context.Context, emailID string) error {
	if emailID == "" {
		return fmt.Errorf("%w: email id is required", ErrInvalidInput)
	}
	return s.repo.Delete(ctx, emailID)
}

// PixelURL returns the open-tracking image URL for an email.
func (s *Service) PixelURL(emailID string) string {
	return s.baseURL + "/t/" + url.PathEscape(emailID) + ".png"
}

// TrackedURL returns the click redirect URL for a link.
func (s *Service) TrackedURL(linkID string) string {
	return s.baseURL + "/c/" + url.PathEscape(linkID)
}
