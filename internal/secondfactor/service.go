package secondfactor

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	id "alumnet/pkg/domain"
	dErrors "alumnet/pkg/domain-errors"
	"alumnet/pkg/platform/sentinel"
	"alumnet/pkg/requestcontext"
	"alumnet/pkg/secrets"
)

// Deliverer hands a minted code to the applicant over a side channel.
type Deliverer interface {
	Deliver(ctx context.Context, email, code string) error
}

const (
	DefaultTTL         = 5 * time.Minute
	DefaultMaxAttempts = 5

	codeDigits = 6
)

var codeSpace = big.NewInt(1_000_000)

// Service mints and consumes one-time verification codes. A code is bound
// to one identity, expires after a fixed window, tolerates a bounded number
// of wrong guesses, and is destroyed on first successful use.
type Service struct {
	store       Store
	deliverer   Deliverer
	ttl         time.Duration
	maxAttempts int
	logger      *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

func WithMaxAttempts(n int) Option {
	return func(s *Service) { s.maxAttempts = n }
}

func New(store Store, deliverer Deliverer, opts ...Option) *Service {
	s := &Service{
		store:       store,
		deliverer:   deliverer,
		ttl:         DefaultTTL,
		maxAttempts: DefaultMaxAttempts,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mint issues a fresh code for the identity and delivers it out of band.
// Any previously pending code for the identity is invalidated; only the
// latest code can complete a login. The plaintext code is never stored.
func (s *Service) Mint(ctx context.Context, userID id.UserID, email string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}

	hash, err := secrets.Hash(code)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash verification code")
	}

	pending := PendingCode{
		UserID:    userID,
		CodeHash:  hash,
		ExpiresAt: requestcontext.Now(ctx).Add(s.ttl),
	}
	if err := s.store.Put(ctx, pending); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store verification code")
	}

	if err := s.deliverer.Deliver(ctx, email, code); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to deliver verification code")
	}
	return nil
}

// Consume validates a submitted code against the identity's pending slot.
// The slot is destroyed on success, on expiry, and when the guess budget is
// exhausted. All rejection paths share one error code so the transport
// layer reports a single generic message.
func (s *Service) Consume(ctx context.Context, userID id.UserID, code string) error {
	pending, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeSecondFactorMismatch, "no pending verification")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification code")
	}

	if pending.Expired(requestcontext.Now(ctx)) {
		s.discard(ctx, userID)
		return dErrors.New(dErrors.CodeSecondFactorMismatch, "verification code expired")
	}

	if pending.Attempts >= s.maxAttempts {
		s.discard(ctx, userID)
		return dErrors.New(dErrors.CodeSecondFactorMismatch, "verification attempts exhausted")
	}

	if err := secrets.Verify(code, pending.CodeHash); err != nil {
		pending.Attempts++
		if err := s.store.Put(ctx, pending); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record verification attempt")
		}
		return dErrors.New(dErrors.CodeSecondFactorMismatch, "verification code mismatch")
	}

	// Single use: the slot must be gone before the login completes, or a
	// store failure here would leave a replayable code behind.
	if err := s.store.Delete(ctx, userID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume verification code")
	}
	return nil
}

func (s *Service) discard(ctx context.Context, userID id.UserID) {
	if err := s.store.Delete(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to discard verification code", "user_id", userID, "error", err)
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeCryptoUnavailable, "could not generate verification code")
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
