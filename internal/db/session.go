package db

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/neuroscreen/portal/internal/services"
)

// ErrSessionNotFound is returned for unknown and expired sessions alike.
var ErrSessionNotFound = errors.New("session not found")

// SessionRecord is the server-side half of a login: the cookie carries only ID.
type SessionRecord struct {
	ID        string        `json:"id"`
	User      services.User `json:"user"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

func (r SessionRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// SessionStore persists session records. Implementations must treat an
// expired record as absent.
type SessionStore interface {
	SaveSession(ctx context.Context, rec SessionRecord) error
	GetSession(ctx context.Context, id string) (*SessionRecord, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Close() error
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]SessionRecord
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]SessionRecord{}, now: time.Now}
}

func (s *MemoryStore) SaveSession(_ context.Context, rec SessionRecord) error {
	if rec.ID == "" {
		return errors.New("session id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[rec.ID] = rec
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, id string) (*SessionRecord, error) {
	s.mu.RLock()
	rec, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || rec.Expired(s.now()) {
		return nil, ErrSessionNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, rec := range s.sessions {
		if rec.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Close() error { return nil }

var (
	_ SessionStore = (*MemoryStore)(nil)
	_ SessionStore = (*SQLiteStore)(nil)
	_ SessionStore = (*RedisStore)(nil)
)
