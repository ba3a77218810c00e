// Package memory provides in-process stores for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/wahajaslm/tarco/internal/domain"
	"github.com/wahajaslm/tarco/internal/port"
)

// SessionStore is a mutex-guarded in-memory session store with TTL expiry.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*domain.ClarificationSession
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]*domain.ClarificationSession),
	}
}

var _ port.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) Put(ctx context.Context, session *domain.ClarificationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.ClarificationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok || s.expired(session) {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Consume removes and returns the session under one lock acquisition, so two
// racing answers see one success and one not-found.
func (s *SessionStore) Consume(ctx context.Context, id string) (*domain.ClarificationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	if s.expired(session) {
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) expired(session *domain.ClarificationSession) bool {
	return s.ttl > 0 && time.Since(session.CreatedAt) > s.ttl
}
