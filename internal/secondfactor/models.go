package secondfactor

import (
	"time"

	id "alumnet/pkg/domain"
)

// PendingCode is the single in-flight verification slot for an identity.
// Re-minting a code replaces the slot; only the most recent code can win.
type PendingCode struct {
	UserID    id.UserID
	CodeHash  string
	ExpiresAt time.Time
	Attempts  int
}

// Expired reports whether the slot's time window has closed at now.
func (p PendingCode) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
