package tracking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ignite/email-tracker/internal/domain"
)

// mockRepo is an in-memory repository for testing.
type mockRepo struct {
	mu        sync.Mutex
	emails    map[string]bool
	links     map[string]domain.Link
	ignored   map[string]bool
	events    []domain.TrackingEvent
	insertErr error
	ignoreErr error
	sawCancel bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		emails:  make(map[string]bool),
		links:   make(map[string]domain.Link),
		ignored: make(map[string]bool),
	}
}

func (m *mockRepo) IsIgnored(ctx context.Context, ip string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx.Err() != nil {
		m.sawCancel = true
	}
	if m.ignoreErr != nil {
		return false, m.ignoreErr
	}
	return m.ignored[ip], nil
}

func (m *mockRepo) EnsureEmail(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails[id] = true
	return nil
}

func (m *mockRepo) FindLink(_ context.Context, id string) (*domain.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[id]
	if !ok {
		return nil, ErrLinkNotFound
	}
	return &l, nil
}

func (m *mockRepo) InsertEvent(ctx context.Context, evt *domain.TrackingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ctx.Err() != nil {
		m.sawCancel = true
	}
	if m.insertErr != nil {
		return m.insertErr
	}
	evt.ID = int64(len(m.events) + 1)
	evt.Timestamp = time.Now().UTC()
	m.events = append(m.events, *evt)
	return nil
}

type fakeLocator struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeLocator) Locate(_ context.Context, ip string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ip)
	return "Berlin, Germany"
}

type fakePublisher struct {
	published []domain.TrackingEvent
}

func (f *fakePublisher) Publish(_ context.Context, evt domain.TrackingEvent) {
	f.published = append(f.published, evt)
}

var visitor = Hit{IP: "203.0.113.7", UserAgent: "Mozilla/5.0"}

func TestRecordOpen_CreatesEmailAndEvent(t *testing.T) {
	repo := newMockRepo()
	loc := &fakeLocator{}
	svc := NewService(repo, loc, nil)

	if got := svc.RecordOpen(context.Background(), "unregistered", visitor); got != Recorded {
		t.Fatalf("outcome = %s, want %s", got, Recorded)
	}
	if !repo.emails["unregistered"] {
		t.Error("expected email row to be created on first open")
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	evt := repo.events[0]
	if evt.EventType != domain.EventOpen || evt.LinkID != nil {
		t.Errorf("unexpected open event: %+v", evt)
	}
	if evt.Location != "Berlin, Germany" || evt.IPAddress != visitor.IP || evt.UserAgent != visitor.UserAgent {
		t.Errorf("event metadata not recorded: %+v", evt)
	}
}

func TestRecordOpen_IgnoredIPWritesNothing(t *testing.T) {
	repo := newMockRepo()
	repo.ignored["9.9.9.9"] = true
	loc := &fakeLocator{}
	svc := NewService(repo, loc, nil)

	got := svc.RecordOpen(context.Background(), "abc", Hit{IP: "9.9.9.9"})
	if got != Suppressed {
		t.Fatalf("outcome = %s, want %s", got, Suppressed)
	}
	if len(repo.events) != 0 || len(repo.emails) != 0 {
		t.Errorf("ignored IP must not write: events=%d emails=%d", len(repo.events), len(repo.emails))
	}
	if len(loc.calls) != 0 {
		t.Error("ignored IP must not be geolocated")
	}
}

func TestRecordOpen_StorageFailureIsAbsorbed(t *testing.T) {
	repo := newMockRepo()
	repo.insertErr = errors.New("disk I/O error")
	pub := &fakePublisher{}
	svc := NewService(repo, &fakeLocator{}, pub)

	if got := svc.RecordOpen(context.Background(), "abc", visitor); got != Failed {
		t.Fatalf("outcome = %s, want %s", got, Failed)
	}
	if len(pub.published) != 0 {
		t.Error("failed writes must not be published")
	}
}

func TestRecordOpen_IgnoreLookupFailureSkipsWrite(t *testing.T) {
	repo := newMockRepo()
	repo.ignoreErr = errors.New("database is locked")
	svc := NewService(repo, &fakeLocator{}, nil)

	if got := svc.RecordOpen(context.Background(), "abc", visitor); got != Failed {
		t.Fatalf("outcome = %s, want %s", got, Failed)
	}
	if len(repo.events) != 0 {
		t.Error("no event expected when the ignore check fails")
	}
}

func TestRecordOpen_EmptyIDIsRejected(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &fakeLocator{}, nil)

	if got := svc.RecordOpen(context.Background(), "", visitor); got != Failed {
		t.Fatalf("outcome = %s, want %s", got, Failed)
	}
	if len(repo.emails) != 0 {
		t.Error("empty id must not create an email")
	}
}

func TestRecordOpen_SurvivesClientDisconnect(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &fakeLocator{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := svc.RecordOpen(ctx, "abc", visitor); got != Recorded {
		t.Fatalf("outcome = %s, want %s", got, Recorded)
	}
	if repo.sawCancel {
		t.Error("storage calls should not see the request cancellation")
	}
}

func TestRecordOpen_PublishesRecordedEvent(t *testing.T) {
	repo := newMockRepo()
	pub := &fakePublisher{}
	svc := NewService(repo, &fakeLocator{}, pub)

	svc.RecordOpen(context.Background(), "abc", visitor)

	if len(pub.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.published))
	}
	if pub.published[0].ID == 0 || pub.published[0].Timestamp.IsZero() {
		t.Errorf("published event should carry stored id and timestamp: %+v", pub.published[0])
	}
}

func TestRecordClick_UnknownLink(t *testing.T) {
	svc := NewService(newMockRepo(), &fakeLocator{}, nil)

	link, _, err := svc.RecordClick(context.Background(), "missing", visitor)
	if !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("err = %v, want ErrLinkNotFound", err)
	}
	if link != nil {
		t.Error("unknown link must not yield a redirect target")
	}
}

func TestRecordClick_RecordsAgainstOwningEmail(t *testing.T) {
	repo := newMockRepo()
	repo.links["lnk1"] = domain.Link{ID: "lnk1", EmailID: "em1", OriginalURL: "https://example.com/a"}
	svc := NewService(repo, &fakeLocator{}, nil)

	link, outcome, err := svc.RecordClick(context.Background(), "lnk1", visitor)
	if err != nil {
		t.Fatalf("RecordClick: %v", err)
	}
	if outcome != Recorded || link.OriginalURL != "https://example.com/a" {
		t.Fatalf("outcome=%s link=%+v", outcome, link)
	}
	evt := repo.events[0]
	if evt.EmailID != "em1" || evt.LinkID == nil || *evt.LinkID != "lnk1" || evt.EventType != domain.EventClick {
		t.Errorf("unexpected click event: %+v", evt)
	}
}

func TestRecordClick_IgnoredIPStillRedirects(t *testing.T) {
	repo := newMockRepo()
	repo.links["lnk1"] = domain.Link{ID: "lnk1", EmailID: "em1", OriginalURL: "https://example.com/a"}
	repo.ignored["9.9.9.9"] = true
	svc := NewService(repo, &fakeLocator{}, nil)

	link, outcome, err := svc.RecordClick(context.Background(), "lnk1", Hit{IP: "9.9.9.9"})
	if err != nil || link == nil {
		t.Fatalf("expected redirect target, got link=%v err=%v", link, err)
	}
	if outcome != Suppressed || len(repo.events) != 0 {
		t.Errorf("outcome=%s events=%d, want suppressed and none", outcome, len(repo.events))
	}
}

func TestRecordClick_StorageFailureStillRedirects(t *testing.T) {
	repo := newMockRepo()
	repo.links["lnk1"] = domain.Link{ID: "lnk1", EmailID: "em1", OriginalURL: "https://example.com/a"}
	repo.insertErr = errors.New("constraint failed")
	svc := NewService(repo, &fakeLocator{}, nil)

	link, outcome, err := svc.RecordClick(context.Background(), "lnk1", visitor)
	if err != nil || link == nil {
		t.Fatalf("expected redirect target, got link=%v err=%v", link, err)
	}
	if outcome != Failed {
		t.Errorf("outcome = %s, want %s", outcome, Failed)
	}
}
