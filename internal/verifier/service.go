package verifier

import (
	"context"
	"log/slog"

	"alumnet/internal/audit"
	"alumnet/internal/credential"
	"alumnet/internal/cryptox"
	dErrors "alumnet/pkg/domain-errors"
)

// CredentialSource is the slice of the credential service provider the
// verifier reads from. The verifier never writes credentials.
type CredentialSource interface {
	LookupByEmail(ctx context.Context, email string) (*credential.Credential, error)
	RecordAudit(ctx context.Context, actorID string, action audit.Action, details string)
}

// Service checks claimed credentials against stored verification material.
// It decides only "does this password match"; session state belongs to the
// relying party.
type Service struct {
	source CredentialSource
	logger *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(source CredentialSource, opts ...Option) *Service {
	s := &Service{source: source, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate verifies the claimed password against the stored salted
// digest. An unknown email and a wrong password both come back as
// invalid_credentials; the transport layer reports one generic message so
// account existence cannot be probed. A mismatch against a known
// credential leaves a LOGIN_FAIL entry attributed to that identity.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*credential.Credential, error) {
	cred, err := s.source.LookupByEmail(ctx, email)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidCredentials, "unknown email")
		}
		return nil, err
	}

	if !cryptox.HashEqual(cryptox.SaltedHash(password, cred.Salt), cred.PasswordHash) {
		s.source.RecordAudit(ctx, cred.ID.String(), audit.ActionLoginFail, "password verification failed")
		return nil, dErrors.New(dErrors.CodeInvalidCredentials, "password mismatch")
	}

	return cred, nil
}
