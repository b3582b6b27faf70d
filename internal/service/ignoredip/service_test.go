package ignoredip

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ignite/email-tracker/internal/domain"
)

// mockRepo is an in-memory repository for testing.
type mockRepo struct {
	mu    sync.Mutex
	order []string
	store map[string]domain.IgnoredIP
	err   error
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[string]domain.IgnoredIP)}
}

func (m *mockRepo) List(_ context.Context) ([]domain.IgnoredIP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.IgnoredIP
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.store[m.order[i]])
	}
	return out, nil
}

func (m *mockRepo) Add(_ context.Context, ip, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.store[ip]; ok {
		return nil
	}
	m.store[ip] = domain.IgnoredIP{IP: ip, Label: label}
	m.order = append(m.order, ip)
	return nil
}

func (m *mockRepo) Remove(_ context.Context, ip string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, ip)
	for i, v := range m.order {
		if v == ip {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func TestAddListRemove(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.Add(ctx, " 9.9.9.9 ", "office"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Add(ctx, "8.8.8.8", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].IP != "8.8.8.8" || list[1].IP != "9.9.9.9" {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if list[1].Label != "office" {
		t.Errorf("label = %q, want office", list[1].Label)
	}

	if err := svc.Remove(ctx, "9.9.9.9"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	list, _ = svc.List(ctx)
	if len(list) != 1 {
		t.Errorf("expected 1 entry after remove, got %d", len(list))
	}
}

func TestAdd_DuplicateKeepsOriginal(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_ = svc.Add(ctx, "9.9.9.9", "first")
	if err := svc.Add(ctx, "9.9.9.9", "second"); err != nil {
		t.Fatalf("duplicate add should be silent, got %v", err)
	}
	if repo.store["9.9.9.9"].Label != "first" {
		t.Errorf("label = %q, want first", repo.store["9.9.9.9"].Label)
	}
}

func TestAdd_RequiresIP(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Add(context.Background(), "  ", "x"); !errors.Is(err, ErrIPRequired) {
		t.Fatalf("err = %v, want ErrIPRequired", err)
	}
	if err := svc.Remove(context.Background(), ""); !errors.Is(err, ErrIPRequired) {
		t.Fatalf("err = %v, want ErrIPRequired", err)
	}
}

func TestList_EmptyIsList(t *testing.T) {
	svc := NewService(newMockRepo())
	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if list == nil {
		t.Error("empty list must serialize as []")
	}
}

func TestAutoIgnore(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for _, ip := range []string{"", "127.0.0.1", "::1", "localhost"} {
		added, err := svc.AutoIgnore(ctx, ip)
		if err != nil || added {
			t.Errorf("AutoIgnore(%q) = %v, %v; want skipped", ip, added, err)
		}
	}
	if len(repo.store) != 0 {
		t.Fatalf("loopback addresses must not be stored, got %d", len(repo.store))
	}

	added, err := svc.AutoIgnore(ctx, "203.0.113.9")
	if err != nil || !added {
		t.Fatalf("AutoIgnore = %v, %v; want added", added, err)
	}
	if repo.store["203.0.113.9"].Label != DashboardLabel {
		t.Errorf("label = %q, want %q", repo.store["203.0.113.9"].Label, DashboardLabel)
	}
}

func TestAutoIgnore_StorageError(t *testing.T) {
	repo := newMockRepo()
	repo.err = errors.New("database is locked")
	svc := NewService(repo)

	if _, err := svc.AutoIgnore(context.Background(), "203.0.113.9"); err == nil {
		t.Fatal("expected storage error")
	}
}
