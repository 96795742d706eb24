package audit

import "context"

// Store persists audit entries. Implementations must be append-only: there is
// no update or delete in this contract, deliberately. Listings come back in
// timestamp order, oldest first; ListRecent returns the newest limit entries
// in the same order.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListAll(ctx context.Context) ([]Entry, error)
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}
