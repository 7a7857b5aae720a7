package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"civicfund/internal/domain"
)

// ErrSessionNotFound is returned by a Store when a session id is unknown,
// expired or revoked.
var ErrSessionNotFound = errors.New("session not found")

// Record is what a Store keeps per session id.
type Record struct {
	Identity  domain.Identity `json:"identity"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store persists active sessions by id.
type Store interface {
	Save(ctx context.Context, sid string, rec Record, ttl time.Duration) error
	Lookup(ctx context.Context, sid string) (Record, error)
	Revoke(ctx context.Context, sid string) error
}

// MemoryStore keeps sessions in process memory. Used in development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, sid string, rec Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sid] = memoryEntry{rec: rec, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, sid string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[sid]
	if !ok {
		return Record{}, ErrSessionNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, sid)
		return Record{}, ErrSessionNotFound
	}
	return e.rec, nil
}

func (s *MemoryStore) Revoke(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sid)
	return nil
}

var _ Store = (*MemoryStore)(nil)
