package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"alumnet/internal/credential"
	id "alumnet/pkg/domain"
	"alumnet/pkg/platform/sentinel"
)

// Store invariants (lookup, atomic insert-if-absent, ErrNotFound) are
// validated here so service tests can assume them.
type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = New()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func newCredential(email string) *credential.Credential {
	return &credential.Credential{
		ID:           id.NewUserID(),
		Name:         "Jane Doe",
		Email:        email,
		Role:         id.RoleStudent,
		PasswordHash: "deadbeef",
		Salt:         "cafe",
		KeyMaterial:  "a2V5",
		CreatedAt:    time.Now(),
	}
}

func (s *InMemoryStoreSuite) TestLookupBehavior() {
	s.Run("finds by id and email", func() {
		cred := newCredential("jane.doe@example.com")
		s.Require().NoError(s.store.CreateIfEmailAvailable(context.Background(), cred))

		byID, err := s.store.FindByID(context.Background(), cred.ID)
		s.Require().NoError(err)
		s.Equal(cred.Email, byID.Email)

		byEmail, err := s.store.FindByEmail(context.Background(), cred.Email)
		s.Require().NoError(err)
		s.Equal(cred.ID, byEmail.ID)
	})

	s.Run("email lookup is case-insensitive", func() {
		cred := newCredential("Mixed.Case@Example.com")
		s.Require().NoError(s.store.CreateIfEmailAvailable(context.Background(), cred))

		found, err := s.store.FindByEmail(context.Background(), "mixed.case@example.com")
		s.Require().NoError(err)
		s.Equal(cred.ID, found.ID)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(context.Background(), id.NewUserID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound for unknown email", func() {
		_, err := s.store.FindByEmail(context.Background(), "missing@example.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestEmailUniqueness() {
	s.Run("rejects duplicate email", func() {
		s.Require().NoError(s.store.CreateIfEmailAvailable(context.Background(), newCredential("dup@example.com")))
		err := s.store.CreateIfEmailAvailable(context.Background(), newCredential("dup@example.com"))
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("at most one concurrent insert wins", func() {
		const attempts = 16
		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = s.store.CreateIfEmailAvailable(context.Background(), newCredential("race@example.com"))
			}(i)
		}
		wg.Wait()

		won := 0
		for _, err := range errs {
			if err == nil {
				won++
			} else {
				s.Require().ErrorIs(err, sentinel.ErrConflict)
			}
		}
		s.Equal(1, won)
	})
}

func (s *InMemoryStoreSuite) TestListAllOrderedByCreation() {
	base := time.Now()
	emails := []string{"third@example.com", "first@example.com", "second@example.com"}
	offsets := []time.Duration{2 * time.Second, 0, time.Second}
	for i, email := range emails {
		cred := newCredential(email)
		cred.CreatedAt = base.Add(offsets[i])
		s.Require().NoError(s.store.CreateIfEmailAvailable(context.Background(), cred))
	}

	listed, err := s.store.ListAll(context.Background())
	s.Require().NoError(err)
	s.Require().Len(listed, 3)
	s.Equal("first@example.com", listed[0].Email)
	s.Equal("second@example.com", listed[1].Email)
	s.Equal("third@example.com", listed[2].Email)
}

func (s *InMemoryStoreSuite) TestStoredRecordsAreIsolated() {
	cred := newCredential("isolated@example.com")
	s.Require().NoError(s.store.CreateIfEmailAvailable(context.Background(), cred))

	found, err := s.store.FindByID(context.Background(), cred.ID)
	s.Require().NoError(err)
	found.PasswordHash = "mutated"

	again, err := s.store.FindByID(context.Background(), cred.ID)
	s.Require().NoError(err)
	s.Equal("deadbeef", again.PasswordHash, "callers must not be able to mutate stored state")
}
