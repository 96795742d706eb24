package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"alumnet/internal/credential"
	id "alumnet/pkg/domain"
	"alumnet/pkg/platform/sentinel"
)

// InMemoryStore keeps credentials in process memory. It favors clarity over
// performance and mirrors the postgres store's contract, including atomic
// insert-if-absent on email.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[id.UserID]*credential.Credential
	byEmail map[string]id.UserID
}

func New() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[id.UserID]*credential.Credential),
		byEmail: make(map[string]id.UserID),
	}
}

func (s *InMemoryStore) CreateIfEmailAvailable(_ context.Context, cred *credential.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalize(cred.Email)
	if _, exists := s.byEmail[key]; exists {
		return sentinel.ErrConflict
	}
	copied := *cred
	s.byID[cred.ID] = &copied
	s.byEmail[key] = cred.ID
	return nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*credential.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[normalize(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.byID[userID]
	return &copied, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*credential.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.byID[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *cred
	return &copied, nil
}

// ListAll returns credentials in registration order, matching the
// postgres store's created_at ordering.
func (s *InMemoryStore) ListAll(_ context.Context) ([]*credential.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*credential.Credential, 0, len(s.byID))
	for _, cred := range s.byID {
		copied := *cred
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
