package referral_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"alumnet/internal/audit"
	"alumnet/internal/referral"
	"alumnet/internal/referral/store/memory"
	id "alumnet/pkg/domain"
	dErrors "alumnet/pkg/domain-errors"
)

type recordingSink struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordingSink) Emit(_ context.Context, entry audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordingSink) byAction(action audit.Action) []audit.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []audit.Entry
	for _, e := range r.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type ServiceSuite struct {
	suite.Suite
	svc    *referral.Service
	store  *memory.InMemoryStore
	sink   *recordingSink
	poster id.UserID
}

func (s *ServiceSuite) SetupTest() {
	s.sink = &recordingSink{}
	s.store = memory.New()
	s.svc = referral.New(s.store, s.sink)
	s.poster = id.NewUserID()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func validInput() referral.PostInput {
	return referral.PostInput{
		Company:     "Acme Robotics",
		Role:        "Platform Engineer",
		Description: "Referral for the infra team, ping me for details.",
	}
}

func (s *ServiceSuite) TestPostComputesIntegrityHash() {
	ref, err := s.svc.Post(context.Background(), s.poster, validInput())
	s.Require().NoError(err)

	s.Equal(referral.ComputeIntegrityHash(ref.Company, ref.Role, ref.Description), ref.IntegrityHash)
	s.True(ref.Verified())
	s.Len(s.sink.byAction(audit.ActionReferralPost), 1)
}

func (s *ServiceSuite) TestListVerifiesIntactPostings() {
	_, err := s.svc.Post(context.Background(), s.poster, validInput())
	s.Require().NoError(err)

	listings, err := s.svc.List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(listings, 1)
	s.True(listings[0].IntegrityOK)
	s.Empty(s.sink.byAction(audit.ActionDataTamper))
}

func (s *ServiceSuite) TestListFlagsTamperedPosting() {
	ctx := context.Background()
	_, err := s.svc.Post(ctx, s.poster, validInput())
	s.Require().NoError(err)
	tampered, err := s.svc.Post(ctx, s.poster, referral.PostInput{
		Company:     "Globex",
		Role:        "Data Engineer",
		Description: "Original description.",
	})
	s.Require().NoError(err)

	s.store.Corrupt(1, "Altered description.")

	listings, err := s.svc.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(listings, 2)
	s.True(listings[0].IntegrityOK)
	s.False(listings[1].IntegrityOK)

	tampers := s.sink.byAction(audit.ActionDataTamper)
	s.Require().Len(tampers, 1)
	s.Contains(tampers[0].Details, tampered.ID.String())
}

func (s *ServiceSuite) TestPostValidation() {
	_, err := s.svc.Post(context.Background(), s.poster, referral.PostInput{})
	s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation))

	msg := dErrors.MessageOf(err)
	s.Contains(msg, "company is required")
	s.Contains(msg, "role is required")
	s.Contains(msg, "description is required")
}

func (s *ServiceSuite) TestDistinctContentDistinctHashes() {
	ctx := context.Background()
	first, err := s.svc.Post(ctx, s.poster, validInput())
	s.Require().NoError(err)

	other := validInput()
	other.Description = "A different description."
	second, err := s.svc.Post(ctx, s.poster, other)
	s.Require().NoError(err)

	s.NotEqual(first.IntegrityHash, second.IntegrityHash)
}
