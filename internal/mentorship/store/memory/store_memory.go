package memory

import (
	"context"
	"sync"

	"alumnet/internal/mentorship"
	id "alumnet/pkg/domain"
	"alumnet/pkg/platform/sentinel"
)

// InMemoryStore keeps mentorship requests in insertion order with an
// index by ID.
type InMemoryStore struct {
	mu    sync.RWMutex
	byID  map[id.MentorshipID]int
	items []mentorship.Mentorship
}

func New() *InMemoryStore {
	return &InMemoryStore{byID: make(map[id.MentorshipID]int)}
}

func (s *InMemoryStore) Create(_ context.Context, m *mentorship.Mentorship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[m.ID] = len(s.items)
	s.items = append(s.items, *m)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, mentorshipID id.MentorshipID) (*mentorship.Mentorship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[mentorshipID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	m := s.items[idx]
	return &m, nil
}

func (s *InMemoryStore) Update(_ context.Context, m *mentorship.Mentorship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.byID[m.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	s.items[idx] = *m
	return nil
}

func (s *InMemoryStore) ListForUser(_ context.Context, userID id.UserID) ([]*mentorship.Mentorship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*mentorship.Mentorship
	for i := range s.items {
		if s.items[i].StudentID == userID || s.items[i].MentorID == userID {
			m := s.items[i]
			out = append(out, &m)
		}
	}
	return out, nil
}
