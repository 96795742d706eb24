package relyingparty

import (
	"context"

	id "alumnet/pkg/domain"
)

// Store persists login sessions.
//
// FindByID returns sentinel.ErrNotFound for unknown sessions.
// Update returns sentinel.ErrNotFound when the session no longer exists.
// Delete is idempotent.
type Store interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID id.SessionID) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, sessionID id.SessionID) error
}
