package secondfactor

import (
	"context"

	id "alumnet/pkg/domain"
)

// Store holds at most one pending verification slot per identity.
//
// Put overwrites any existing slot for the same identity.
// Get returns sentinel.ErrNotFound when no slot exists.
// Delete is idempotent.
type Store interface {
	Put(ctx context.Context, pending PendingCode) error
	Get(ctx context.Context, userID id.UserID) (PendingCode, error)
	Delete(ctx context.Context, userID id.UserID) error
}
