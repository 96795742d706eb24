package referral

import (
	"context"
	"log/slog"
	"strings"

	"alumnet/internal/audit"
	id "alumnet/pkg/domain"
	dErrors "alumnet/pkg/domain-errors"
	"alumnet/pkg/requestcontext"
)

// AuditSink accepts audit entries best-effort.
type AuditSink interface {
	Emit(ctx context.Context, entry audit.Entry)
}

// PostInput is the raw posting input at the trust boundary.
type PostInput struct {
	Company     string
	Role        string
	Description string
}

const (
	maxCompanyLength     = 200
	maxRoleLength        = 200
	maxDescriptionLength = 5000
)

// Service posts and lists job referrals. Each posting carries an unkeyed
// integrity digest over its content; listings recompute the digest and
// flag mismatches instead of hiding them.
type Service struct {
	store  Store
	sink   AuditSink
	logger *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(store Store, sink AuditSink, opts ...Option) *Service {
	s := &Service{store: store, sink: sink, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Post validates and stores a referral under the poster's identity.
func (s *Service) Post(ctx context.Context, poster id.UserID, input PostInput) (*Referral, error) {
	input.Company = strings.TrimSpace(input.Company)
	input.Role = strings.TrimSpace(input.Role)
	input.Description = strings.TrimSpace(input.Description)

	if err := s.validate(input); err != nil {
		return nil, err
	}

	ref := &Referral{
		ID:            id.NewReferralID(),
		PosterID:      poster,
		Company:       input.Company,
		Role:          input.Role,
		Description:   input.Description,
		IntegrityHash: ComputeIntegrityHash(input.Company, input.Role, input.Description),
		PostedAt:      requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, ref); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store referral")
	}

	s.emit(ctx, poster.String(), audit.ActionReferralPost, "referral posted for "+ref.Company)
	return ref, nil
}

// List returns every posting with its integrity verdict. A failed check
// leaves a DATA_TAMPER entry but the posting is still returned, flagged,
// so readers can see that something was altered.
func (s *Service) List(ctx context.Context) ([]Listing, error) {
	refs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list referrals")
	}

	listings := make([]Listing, 0, len(refs))
	for _, ref := range refs {
		ok := ref.Verified()
		if !ok {
			s.emit(ctx, audit.ActorUnknown, audit.ActionDataTamper,
				"referral "+ref.ID.String()+" failed integrity check")
			s.logger.WarnContext(ctx, "referral integrity check failed", "referral_id", ref.ID)
		}
		listings = append(listings, Listing{Referral: *ref, IntegrityOK: ok})
	}
	return listings, nil
}

func (s *Service) validate(input PostInput) error {
	var problems []string
	if input.Company == "" {
		problems = append(problems, "company is required")
	} else if len(input.Company) > maxCompanyLength {
		problems = append(problems, "company is too long")
	}
	if input.Role == "" {
		problems = append(problems, "role is required")
	} else if len(input.Role) > maxRoleLength {
		problems = append(problems, "role is too long")
	}
	if input.Description == "" {
		problems = append(problems, "description is required")
	} else if len(input.Description) > maxDescriptionLength {
		problems = append(problems, "description is too long")
	}
	if len(problems) > 0 {
		return dErrors.New(dErrors.CodeValidation, strings.Join(problems, "; "))
	}
	return nil
}

func (s *Service) emit(ctx context.Context, actorID string, action audit.Action, details string) {
	if s.sink == nil {
		return
	}
	s.sink.Emit(ctx, audit.Entry{ActorID: actorID, Action: action, Details: details})
}
