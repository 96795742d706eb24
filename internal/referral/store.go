package referral

import "context"

// Store persists referral postings. ListAll returns postings oldest first.
type Store interface {
	Create(ctx context.Context, ref *Referral) error
	ListAll(ctx context.Context) ([]*Referral, error)
}
