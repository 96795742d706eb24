package relyingparty

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"alumnet/internal/audit"
	"alumnet/internal/credential"
	id "alumnet/pkg/domain"
	dErrors "alumnet/pkg/domain-errors"
	"alumnet/pkg/platform/sentinel"
	"alumnet/pkg/requestcontext"
)

// Authenticator verifies a claimed password against stored material.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*credential.Credential, error)
}

// CodeFlow mints and consumes one-time verification codes.
type CodeFlow interface {
	Mint(ctx context.Context, userID id.UserID, email string) error
	Consume(ctx context.Context, userID id.UserID, code string) error
}

// TokenIssuer signs bearer tokens for authenticated sessions.
type TokenIssuer interface {
	Issue(userID id.UserID, sessionID id.SessionID, role id.Role, expiresIn time.Duration) (string, error)
}

// AuditSink accepts audit entries best-effort.
type AuditSink interface {
	Emit(ctx context.Context, entry audit.Entry)
}

const (
	DefaultPendingTTL = 10 * time.Minute
	DefaultSessionTTL = 24 * time.Hour
)

// Service is the relying party. It runs the two-step login flow, owns
// session state, and enforces the access policy. A session never reaches
// Authenticated without a consumed verification code.
type Service struct {
	store      Store
	auth       Authenticator
	codes      CodeFlow
	tokens     TokenIssuer
	sink       AuditSink
	policy     *Policy
	pendingTTL time.Duration
	sessionTTL time.Duration
	logger     *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithPendingTTL(ttl time.Duration) Option {
	return func(s *Service) { s.pendingTTL = ttl }
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) { s.sessionTTL = ttl }
}

func New(store Store, auth Authenticator, codes CodeFlow, tokens TokenIssuer, sink AuditSink, opts ...Option) *Service {
	s := &Service{
		store:      store,
		auth:       auth,
		codes:      codes,
		tokens:     tokens,
		sink:       sink,
		policy:     NewPolicy(),
		pendingTTL: DefaultPendingTTL,
		sessionTTL: DefaultSessionTTL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartLogin verifies the password and opens a pending session awaiting a
// one-time code. The password failure path is audited by the verifier; the
// relying party records nothing until the second factor resolves.
func (s *Service) StartLogin(ctx context.Context, email, password string) (*Session, error) {
	cred, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidCredentials) {
			loginsTotal.WithLabelValues("invalid_credentials").Inc()
		}
		return nil, err
	}

	now := requestcontext.Now(ctx)
	session := &Session{
		ID:        id.NewSessionID(),
		UserID:    cred.ID,
		Role:      cred.Role,
		State:     StatePendingSecondFactor,
		CreatedAt: now,
		ExpiresAt: now.Add(s.pendingTTL),
	}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create session")
	}

	if err := s.codes.Mint(ctx, cred.ID, cred.Email); err != nil {
		s.discard(ctx, session.ID)
		return nil, err
	}

	s.logger.InfoContext(ctx, "login pending second factor", "user_id", cred.ID, "session_id", session.ID)
	return session, nil
}

// CompleteLogin consumes the one-time code and promotes the session to
// Authenticated, returning a bearer token bound to it. Every rejection
// leaves the session short of Authenticated.
func (s *Service) CompleteLogin(ctx context.Context, sessionID id.SessionID, code string) (string, *Session, error) {
	session, err := s.pendingSession(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}

	if err := s.codes.Consume(ctx, session.UserID, code); err != nil {
		if dErrors.HasCode(err, dErrors.CodeSecondFactorMismatch) {
			loginsTotal.WithLabelValues("second_factor_mismatch").Inc()
			s.emit(ctx, session.UserID, audit.ActionLoginFail, "second factor rejected")
		}
		return "", nil, err
	}

	now := requestcontext.Now(ctx)
	session.State = StateAuthenticated
	session.ExpiresAt = now.Add(s.sessionTTL)
	if err := s.store.Update(ctx, session); err != nil {
		return "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to promote session")
	}

	token, err := s.tokens.Issue(session.UserID, session.ID, session.Role, s.sessionTTL)
	if err != nil {
		return "", nil, err
	}

	loginsTotal.WithLabelValues("success").Inc()
	activeSessions.Inc()
	s.emit(ctx, session.UserID, audit.ActionLoginSuccess, "second factor verified")
	return token, session, nil
}

// Logout ends a session. Unknown sessions are a no-op; logging out twice
// is not an error.
func (s *Service) Logout(ctx context.Context, sessionID id.SessionID) error {
	session, err := s.store.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete session")
	}

	if session.State == StateAuthenticated {
		activeSessions.Dec()
	}
	s.emit(ctx, session.UserID, audit.ActionLogout, "session ended")
	return nil
}

// CurrentSession resolves a session that must be fully authenticated and
// inside its window. Anything else is indistinguishable to the caller.
func (s *Service) CurrentSession(ctx context.Context, sessionID id.SessionID) (*Session, error) {
	session, err := s.store.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "no active session")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	if session.State != StateAuthenticated {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no active session")
	}
	if session.Expired(requestcontext.Now(ctx)) {
		s.discard(ctx, sessionID)
		activeSessions.Dec()
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no active session")
	}
	return session, nil
}

// Authorize checks the session's role against the policy matrix.
func (s *Service) Authorize(ctx context.Context, sessionID id.SessionID, resource Resource, verb Verb) (*Session, error) {
	session, err := s.CurrentSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Check(session.Role, resource, verb); err != nil {
		accessDeniedTotal.WithLabelValues(string(resource)).Inc()
		return nil, err
	}
	return session, nil
}

func (s *Service) pendingSession(ctx context.Context, sessionID id.SessionID) (*Session, error) {
	session, err := s.store.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown login session")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	if session.State != StatePendingSecondFactor {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session is not awaiting verification")
	}
	if session.Expired(requestcontext.Now(ctx)) {
		s.discard(ctx, sessionID)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "login session expired")
	}
	return session, nil
}

func (s *Service) discard(ctx context.Context, sessionID id.SessionID) {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "failed to discard session", "session_id", sessionID, "error", err)
	}
}

func (s *Service) emit(ctx context.Context, userID id.UserID, action audit.Action, details string) {
	if s.sink == nil {
		return
	}
	s.sink.Emit(ctx, audit.Entry{ActorID: userID.String(), Action: action, Details: details})
}
