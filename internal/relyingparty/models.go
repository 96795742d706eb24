package relyingparty

import (
	"time"

	id "alumnet/pkg/domain"
)

// SessionState tracks where a login attempt sits in the two-step flow.
// A session is created in PendingSecondFactor after password verification
// and becomes Authenticated only when the one-time code is consumed.
// There is no path back from Authenticated except logout, which deletes
// the session; an absent session is the anonymous state.
type SessionState string

const (
	StatePendingSecondFactor SessionState = "pending_second_factor"
	StateAuthenticated       SessionState = "authenticated"
)

type Session struct {
	ID        id.SessionID
	UserID    id.UserID
	Role      id.Role
	State     SessionState
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session's window has closed at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
