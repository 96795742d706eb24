package mentorship

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"alumnet/internal/audit"
	"alumnet/internal/credential"
	id "alumnet/pkg/domain"
	dErrors "alumnet/pkg/domain-errors"
	"alumnet/pkg/platform/sentinel"
	"alumnet/pkg/requestcontext"
)

// Directory is the slice of the credential service provider used to check
// that a requested mentor exists and holds the alumni role.
type Directory interface {
	LookupByID(ctx context.Context, userID id.UserID) (*credential.Credential, error)
	RecordAudit(ctx context.Context, actorID string, action audit.Action, details string)
}

const maxTopicLength = 500

// Service manages mentorship requests between students and alumni.
type Service struct {
	store     Store
	directory Directory
	logger    *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(store Store, directory Directory, opts ...Option) *Service {
	s := &Service{store: store, directory: directory, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request opens a pending mentorship request addressed to an alumni
// mentor.
func (s *Service) Request(ctx context.Context, student, mentor id.UserID, topic string) (*Mentorship, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "topic is required")
	}
	if len(topic) > maxTopicLength {
		return nil, dErrors.New(dErrors.CodeValidation, "topic is too long")
	}
	if student == mentor {
		return nil, dErrors.New(dErrors.CodeValidation, "cannot request mentorship from yourself")
	}

	mentorCred, err := s.directory.LookupByID(ctx, mentor)
	if err != nil {
		return nil, err
	}
	if mentorCred.Role != id.RoleAlumni {
		return nil, dErrors.New(dErrors.CodeValidation, "mentor must hold the alumni role")
	}

	m := &Mentorship{
		ID:        id.NewMentorshipID(),
		StudentID: student,
		MentorID:  mentor,
		Topic:     topic,
		Status:    StatusPending,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store mentorship request")
	}

	s.directory.RecordAudit(ctx, student.String(), audit.ActionMentorRequest, "mentorship requested from "+mentor.String())
	return m, nil
}

// Approve moves a pending request to Approved. Only the addressed mentor
// may decide it.
func (s *Service) Approve(ctx context.Context, decider id.UserID, mentorshipID id.MentorshipID) (*Mentorship, error) {
	return s.decide(ctx, decider, mentorshipID, StatusApproved)
}

// Reject moves a pending request to Rejected.
func (s *Service) Reject(ctx context.Context, decider id.UserID, mentorshipID id.MentorshipID) (*Mentorship, error) {
	return s.decide(ctx, decider, mentorshipID, StatusRejected)
}

func (s *Service) decide(ctx context.Context, decider id.UserID, mentorshipID id.MentorshipID, verdict Status) (*Mentorship, error) {
	m, err := s.store.FindByID(ctx, mentorshipID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "mentorship request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load mentorship request")
	}

	if m.MentorID != decider {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the addressed mentor may decide this request")
	}
	if m.Status != StatusPending {
		return nil, dErrors.New(dErrors.CodeConflict, "mentorship request already decided")
	}

	m.Status = verdict
	m.DecidedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update mentorship request")
	}

	action := audit.ActionMentorApprove
	if verdict == StatusRejected {
		action = audit.ActionMentorReject
	}
	s.directory.RecordAudit(ctx, decider.String(), action, "mentorship "+m.ID.String()+" "+string(verdict))
	return m, nil
}

// ListForUser returns every request the user participates in.
func (s *Service) ListForUser(ctx context.Context, userID id.UserID) ([]*Mentorship, error) {
	items, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list mentorship requests")
	}
	return items, nil
}
