package mentorship

import (
	"context"

	id "alumnet/pkg/domain"
)

// Store persists mentorship requests.
//
// FindByID returns sentinel.ErrNotFound for unknown requests.
// ListForUser returns requests where the user is student or mentor,
// oldest first.
type Store interface {
	Create(ctx context.Context, m *Mentorship) error
	FindByID(ctx context.Context, mentorshipID id.MentorshipID) (*Mentorship, error)
	Update(ctx context.Context, m *Mentorship) error
	ListForUser(ctx context.Context, userID id.UserID) ([]*Mentorship, error)
}
