package credential

import (
	"context"
	"errors"
	"log/slog"

	"alumnet/internal/audit"
	"alumnet/internal/cryptox"
	id "alumnet/pkg/domain"
	dErrors "alumnet/pkg/domain-errors"
	"alumnet/pkg/platform/sentinel"
	"alumnet/pkg/requestcontext"
)

// AuditSink accepts audit entries best-effort. Emit never blocks and never
// fails the caller; delivery problems stay in the operational channel.
type AuditSink interface {
	Emit(ctx context.Context, entry audit.Entry)
}

// Service is the credential service provider: it owns the credential store
// and the crypto primitives, and exposes both to the other identity actors.
// It holds no policy and no session state.
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

// IssueRequest carries the already-proofed registration material. The
// registration authority has validated the input and hashed the password
// before this point; the plaintext password never reaches the CSP.
type IssueRequest struct {
	Name         string
	Email        string
	Role         id.Role
	PasswordHash string
	Salt         string
	ProfileBlob  string
}

// Issue creates a credential, binding a freshly generated symmetric mailbox
// key to the new identity. Registration proofing has already checked for an
// existing credential; the store-level uniqueness violation is still
// surfaced as a conflict to close the race between concurrent registrations.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*Credential, error) {
	key, err := cryptox.GenerateKey()
	if err != nil {
		return nil, err
	}

	cred := &Credential{
		ID:           id.NewUserID(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: req.PasswordHash,
		Salt:         req.Salt,
		KeyMaterial:  key.Export(),
		ProfileBlob:  req.ProfileBlob,
		CreatedAt:    requestcontext.Now(ctx),
	}

	if err := s.store.CreateIfEmailAvailable(ctx, cred); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "identity already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store credential")
	}

	s.RecordAudit(ctx, cred.ID.String(), audit.ActionRegister, "credential issued for role "+cred.Role.String())
	return cred, nil
}

// LookupByEmail retrieves a credential for the authentication path.
func (s *Service) LookupByEmail(ctx context.Context, email string) (*Credential, error) {
	cred, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no credential for email")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential")
	}
	return cred, nil
}

// LookupByID retrieves a credential by identity.
func (s *Service) LookupByID(ctx context.Context, userID id.UserID) (*Credential, error) {
	cred, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no credential for id")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential")
	}
	return cred, nil
}

// ListIdentities returns the directory view of every credential. Password
// hashes and salts never leave the authentication path.
func (s *Service) ListIdentities(ctx context.Context) ([]PublicIdentity, error) {
	creds, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list identities")
	}
	out := make([]PublicIdentity, 0, len(creds))
	for _, cred := range creds {
		out = append(out, cred.Public())
	}
	return out, nil
}

// SealForRecipient encrypts plaintext under the recipient's mailbox key.
// Used by message senders; the same key opens the message for either party.
func (s *Service) SealForRecipient(ctx context.Context, recipient id.UserID, plaintext string) (cryptox.Ciphertext, error) {
	key, err := s.mailboxKey(ctx, recipient)
	if err != nil {
		return cryptox.Ciphertext{}, err
	}
	return cryptox.Encrypt(plaintext, key)
}

// OpenForRecipient decrypts a message sealed under the recipient's mailbox
// key. Integrity failures propagate as integrity_violation; callers surface
// them as a visible tamper indicator.
func (s *Service) OpenForRecipient(ctx context.Context, recipient id.UserID, contentHex, ivHex string) (string, error) {
	key, err := s.mailboxKey(ctx, recipient)
	if err != nil {
		return "", err
	}
	return cryptox.Decrypt(contentHex, ivHex, key)
}

func (s *Service) mailboxKey(ctx context.Context, userID id.UserID) (*cryptox.Key, error) {
	cred, err := s.LookupByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	key, err := cryptox.ImportKey(cred.KeyMaterial)
	if err != nil {
		// Corrupt key material is an integrity problem, not caller input.
		return nil, dErrors.Wrap(err, dErrors.CodeIntegrityViolation, "stored key material is corrupt")
	}
	return key, nil
}

// RecordAudit writes an audit entry best-effort. Failures never abort the
// triggering operation.
func (s *Service) RecordAudit(ctx context.Context, actorID string, action audit.Action, details string) {
	if s.sink == nil {
		s.logger.WarnContext(ctx, "audit sink not configured", "action", action)
		return
	}
	s.sink.Emit(ctx, audit.Entry{ActorID: actorID, Action: action, Details: details})
}
