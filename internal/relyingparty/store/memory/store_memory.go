package memory

import (
	"context"
	"sync"

	"alumnet/internal/relyingparty"
	id "alumnet/pkg/domain"
	"alumnet/pkg/platform/sentinel"
)

// InMemorySessionStore keeps sessions in a map guarded by a RWMutex.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]relyingparty.Session
}

func New() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[id.SessionID]relyingparty.Session)}
}

func (s *InMemorySessionStore) Create(_ context.Context, session *relyingparty.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *InMemorySessionStore) FindByID(_ context.Context, sessionID id.SessionID) (*relyingparty.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &session, nil
}

func (s *InMemorySessionStore) Update(_ context.Context, session *relyingparty.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *InMemorySessionStore) Delete(_ context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
