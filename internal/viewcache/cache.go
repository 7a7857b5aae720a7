// Package viewcache caches per-user derived views (my issues, my
// contributions). Each user has a generation counter; writes bump it, and a
// view computed under an older generation is never stored or served.
package viewcache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"civicfund/internal/domain"
)

const (
	ViewMyIssues        = "my_issues"
	ViewMyContributions = "my_contributions"
)

// Views lists every cached view kind.
var Views = []string{ViewMyIssues, ViewMyContributions}

// Ticket records the generation a view computation started under.
type Ticket struct {
	Email      string
	Generation int64
}

// Cache is implemented by the Redis and in-memory backends.
type Cache interface {
	// Begin snapshots the current generation for email.
	Begin(ctx context.Context, email string) (Ticket, error)
	// Get loads a view into dst. It reports false when nothing current is cached.
	Get(ctx context.Context, email, view string, dst any) (bool, error)
	// Put stores value unless ctx is done or the generation moved past t.
	Put(ctx context.Context, t Ticket, view string, value any) error
	// Invalidate bumps the generation for email and drops its views.
	Invalidate(ctx context.Context, email string) error
}

type entry struct {
	Generation int64           `json:"generation"`
	Payload    json.RawMessage `json:"payload"`
}

// Memory is an in-process Cache.
type Memory struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	gens  map[string]int64
	views map[string]memoryView
}

type memoryView struct {
	entry
	expiresAt time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:   ttl,
		now:   time.Now,
		gens:  make(map[string]int64),
		views: make(map[string]memoryView),
	}
}

func viewKey(email, view string) string {
	return email + "|" + view
}

func (m *Memory) Begin(_ context.Context, email string) (Ticket, error) {
	email = domain.NormalizeEmail(email)
	m.mu.Lock()
	defer m.mu.Unlock()
	return Ticket{Email: email, Generation: m.gens[email]}, nil
}

func (m *Memory) Get(_ context.Context, email, view string, dst any) (bool, error) {
	email = domain.NormalizeEmail(email)
	m.mu.Lock()
	v, ok := m.views[viewKey(email, view)]
	gen := m.gens[email]
	m.mu.Unlock()
	if !ok || v.Generation != gen || !m.now().Before(v.expiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(v.Payload, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Put(ctx context.Context, t Ticket, view string, value any) error {
	if ctx.Err() != nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gens[t.Email] != t.Generation {
		return nil
	}
	m.views[viewKey(t.Email, view)] = memoryView{
		entry:     entry{Generation: t.Generation, Payload: payload},
		expiresAt: m.now().Add(m.ttl),
	}
	return nil
}

func (m *Memory) Invalidate(_ context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gens[email]++
	for _, view := range Views {
		delete(m.views, viewKey(email, view))
	}
	return nil
}

var _ Cache = (*Memory)(nil)
