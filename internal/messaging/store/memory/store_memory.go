package memory

import (
	"context"
	"sync"

	"alumnet/internal/messaging"
	id "alumnet/pkg/domain"
)

// InMemoryStore keeps sealed messages in send order.
type InMemoryStore struct {
	mu    sync.RWMutex
	items []messaging.Message
}

func New() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, msg *messaging.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, *msg)
	return nil
}

func (s *InMemoryStore) ListByRecipient(_ context.Context, recipient id.UserID) ([]*messaging.Message, error) {
	return s.list(func(msg *messaging.Message) bool {
		return msg.RecipientID == recipient
	})
}

func (s *InMemoryStore) ListBetween(_ context.Context, a, b id.UserID) ([]*messaging.Message, error) {
	return s.list(func(msg *messaging.Message) bool {
		return (msg.SenderID == a && msg.RecipientID == b) ||
			(msg.SenderID == b && msg.RecipientID == a)
	})
}

func (s *InMemoryStore) list(match func(*messaging.Message) bool) ([]*messaging.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*messaging.Message, 0)
	for i := range s.items {
		msg := s.items[i]
		if match(&msg) {
			out = append(out, &msg)
		}
	}
	return out, nil
}
