package memory

import (
	"context"
	"sync"

	"alumnet/internal/referral"
)

// InMemoryStore keeps referral postings in insertion order.
type InMemoryStore struct {
	mu        sync.RWMutex
	referrals []referral.Referral
}

func New() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Create(_ context.Context, ref *referral.Referral) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referrals = append(s.referrals, *ref)
	return nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]*referral.Referral, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*referral.Referral, 0, len(s.referrals))
	for i := range s.referrals {
		ref := s.referrals[i]
		out = append(out, &ref)
	}
	return out, nil
}

// Corrupt overwrites a stored referral's description without touching the
// integrity hash. Test hook for exercising tamper detection.
func (s *InMemoryStore) Corrupt(index int, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referrals[index].Description = description
}
