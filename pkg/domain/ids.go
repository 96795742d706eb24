package domain

import (
	"github.com/google/uuid"

	dErrors "alumnet/pkg/domain-errors"
)

// Typed UUID wrappers keep identifiers from different aggregates from being
// mixed up at compile time. Parse functions enforce the invariant that an ID
// is a valid, non-nil UUID before it crosses a trust boundary.
type (
	UserID       uuid.UUID
	SessionID    uuid.UUID
	MessageID    uuid.UUID
	ReferralID   uuid.UUID
	MentorshipID uuid.UUID
)

func NewUserID() UserID             { return UserID(uuid.New()) }
func NewSessionID() SessionID       { return SessionID(uuid.New()) }
func NewMessageID() MessageID       { return MessageID(uuid.New()) }
func NewReferralID() ReferralID     { return ReferralID(uuid.New()) }
func NewMentorshipID() MentorshipID { return MentorshipID(uuid.New()) }

func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id SessionID) String() string    { return uuid.UUID(id).String() }
func (id MessageID) String() string    { return uuid.UUID(id).String() }
func (id ReferralID) String() string   { return uuid.UUID(id).String() }
func (id MentorshipID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "malformed "+kind+" id")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be the nil UUID")
	}
	return u, nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user")
	return UserID(u), err
}

func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s, "session")
	return SessionID(u), err
}

func ParseMessageID(s string) (MessageID, error) {
	u, err := parseUUID(s, "message")
	return MessageID(u), err
}

func ParseReferralID(s string) (ReferralID, error) {
	u, err := parseUUID(s, "referral")
	return ReferralID(u), err
}

func ParseMentorshipID(s string) (MentorshipID, error) {
	u, err := parseUUID(s, "mentorship")
	return MentorshipID(u), err
}
