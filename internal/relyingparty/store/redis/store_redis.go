package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"alumnet/internal/relyingparty"
	id "alumnet/pkg/domain"
	"alumnet/pkg/platform/sentinel"
)

const sessionKeyPrefix = "rp:session:"

// Store is the Redis-backed session store for multi-instance deployments.
// Keys carry a TTL matching the session expiry so abandoned logins are
// evicted without a sweeper.
type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

type record struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Store) Create(ctx context.Context, session *relyingparty.Session) error {
	return s.write(ctx, session)
}

func (s *Store) FindByID(ctx context.Context, sessionID id.SessionID) (*relyingparty.Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+sessionID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return rec.toSession()
}

func (s *Store) Update(ctx context.Context, session *relyingparty.Session) error {
	exists, err := s.client.Exists(ctx, sessionKeyPrefix+session.ID.String()).Result()
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if exists == 0 {
		return sentinel.ErrNotFound
	}
	return s.write(ctx, session)
}

func (s *Store) Delete(ctx context.Context, sessionID id.SessionID) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID.String()).Err()
}

func (s *Store) write(ctx context.Context, session *relyingparty.Session) error {
	raw, err := json.Marshal(record{
		ID:        session.ID.String(),
		UserID:    session.UserID.String(),
		Role:      session.Role.String(),
		State:     string(session.State),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.ID.String(), raw, ttl).Err()
}

func (r record) toSession() (*relyingparty.Session, error) {
	sessionID, err := id.ParseSessionID(r.ID)
	if err != nil {
		return nil, fmt.Errorf("parse stored session id: %w", err)
	}
	userID, err := id.ParseUserID(r.UserID)
	if err != nil {
		return nil, fmt.Errorf("parse stored user id: %w", err)
	}
	role, err := id.ParseRole(r.Role)
	if err != nil {
		return nil, fmt.Errorf("parse stored role: %w", err)
	}
	return &relyingparty.Session{
		ID:        sessionID,
		UserID:    userID,
		Role:      role,
		State:     relyingparty.SessionState(r.State),
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}, nil
}
