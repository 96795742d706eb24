package memory

import (
	"context"
	"sync"

	"alumnet/internal/secondfactor"
	id "alumnet/pkg/domain"
	"alumnet/pkg/platform/sentinel"
)

// InMemoryStore keeps pending verification slots in a map. Suitable for
// tests and single-process deployments.
type InMemoryStore struct {
	mu    sync.RWMutex
	slots map[id.UserID]secondfactor.PendingCode
}

func New() *InMemoryStore {
	return &InMemoryStore{slots: make(map[id.UserID]secondfactor.PendingCode)}
}

func (s *InMemoryStore) Put(_ context.Context, pending secondfactor.PendingCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[pending.UserID] = pending
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, userID id.UserID) (secondfactor.PendingCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending, ok := s.slots[userID]
	if !ok {
		return secondfactor.PendingCode{}, sentinel.ErrNotFound
	}
	return pending, nil
}

func (s *InMemoryStore) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, userID)
	return nil
}
