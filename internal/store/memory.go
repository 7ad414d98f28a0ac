package store

import (
	"context"
	"sync"

	"github.com/anoopsurendrananp/facebook-bot/internal/domain"
)

// MemoryStore implements SessionStore with an in-process map. Used in
// tests and for running the bridge without any external cache.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*domain.Session)}
}

// Exists reports whether a session is stored under key.
func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[key]
	return ok, nil
}

// Get returns a copy of the session stored under key, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, key string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSession(session), nil
}

// Put overwrites the session stored under key.
func (s *MemoryStore) Put(_ context.Context, key string, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = cloneSession(session)
	return nil
}

// Flush wipes every stored session.
func (s *MemoryStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*domain.Session)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// cloneSession copies the record so callers cannot mutate stored state
// through shared context slices.
func cloneSession(in *domain.Session) *domain.Session {
	out := *in
	out.Context = append([]byte(nil), in.Context...)
	out.PreviousContext = append([]byte(nil), in.PreviousContext...)
	return &out
}
