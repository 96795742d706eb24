package mentorship

import (
	"time"

	id "alumnet/pkg/domain"
)

// Status is the mentorship request lifecycle. Transitions are one-way:
// Pending moves to Approved or Rejected exactly once and never back.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Mentorship struct {
	ID        id.MentorshipID
	StudentID id.UserID
	MentorID  id.UserID
	Topic     string
	Status    Status
	CreatedAt time.Time
	DecidedAt time.Time
}
