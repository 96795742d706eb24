package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"alumnet/internal/secondfactor"
	id "alumnet/pkg/domain"
	"alumnet/pkg/platform/sentinel"
)

const pendingCodeKeyPrefix = "sf:pending:"

// Store is the Redis-backed pending code store for distributed deployments
// where the login and verify requests may land on different instances.
// Expiry is enforced twice: the key TTL evicts the slot, and the service
// still checks ExpiresAt against request time.
type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

type record struct {
	UserID    string    `json:"user_id"`
	CodeHash  string    `json:"code_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
}

func (s *Store) Put(ctx context.Context, pending secondfactor.PendingCode) error {
	raw, err := json.Marshal(record{
		UserID:    pending.UserID.String(),
		CodeHash:  pending.CodeHash,
		ExpiresAt: pending.ExpiresAt,
		Attempts:  pending.Attempts,
	})
	if err != nil {
		return fmt.Errorf("marshal pending code: %w", err)
	}

	ttl := time.Until(pending.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.client.Set(ctx, pendingCodeKeyPrefix+pending.UserID.String(), raw, ttl).Err()
}

func (s *Store) Get(ctx context.Context, userID id.UserID) (secondfactor.PendingCode, error) {
	raw, err := s.client.Get(ctx, pendingCodeKeyPrefix+userID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return secondfactor.PendingCode{}, sentinel.ErrNotFound
	}
	if err != nil {
		return secondfactor.PendingCode{}, fmt.Errorf("get pending code: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return secondfactor.PendingCode{}, fmt.Errorf("unmarshal pending code: %w", err)
	}
	uid, err := id.ParseUserID(rec.UserID)
	if err != nil {
		return secondfactor.PendingCode{}, fmt.Errorf("parse stored user id: %w", err)
	}
	return secondfactor.PendingCode{
		UserID:    uid,
		CodeHash:  rec.CodeHash,
		ExpiresAt: rec.ExpiresAt,
		Attempts:  rec.Attempts,
	}, nil
}

func (s *Store) Delete(ctx context.Context, userID id.UserID) error {
	return s.client.Del(ctx, pendingCodeKeyPrefix+userID.String()).Err()
}
