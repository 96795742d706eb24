package credential

import (
	"context"

	id "alumnet/pkg/domain"
)

// Store is the credential record store. Implementations return
// sentinel.ErrNotFound for missing records and sentinel.ErrConflict from
// CreateIfEmailAvailable when the email is already bound; the conflict check
// must be atomic with the insert so concurrent registrations for the same
// email cannot both succeed.
type Store interface {
	CreateIfEmailAvailable(ctx context.Context, cred *Credential) error
	FindByEmail(ctx context.Context, email string) (*Credential, error)
	FindByID(ctx context.Context, userID id.UserID) (*Credential, error)
	ListAll(ctx context.Context) ([]*Credential, error)
}
