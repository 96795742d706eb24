package registration

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"alumnet/internal/credential"
	"alumnet/internal/cryptox"
	id "alumnet/pkg/domain"
	dErrors "alumnet/pkg/domain-errors"
)

// CredentialIssuer is the slice of the credential service provider the
// registration authority needs: proofing lookups and credential issuance.
type CredentialIssuer interface {
	LookupByEmail(ctx context.Context, email string) (*credential.Credential, error)
	Issue(ctx context.Context, req credential.IssueRequest) (*credential.Credential, error)
}

// Service is the registration authority. It proofs applicant submissions
// and hands validated, salted material to the CSP. The plaintext password
// exists only inside ProcessRegistration's frame.
type Service struct {
	issuer CredentialIssuer
	logger *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(issuer CredentialIssuer, opts ...Option) *Service {
	s := &Service{issuer: issuer, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submission is the raw applicant input at the trust boundary.
type Submission struct {
	Name     string
	Email    string
	Password string
	Role     string
	Bio      string
}

const (
	minPasswordLength = 8
	maxNameLength     = 120
	maxBioLength      = 4000
)

// ProcessRegistration proofs the submission and issues a credential.
// Validation failures report every problem found, not just the first.
func (s *Service) ProcessRegistration(ctx context.Context, sub Submission) (*credential.Credential, error) {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)

	role, err := s.validate(sub)
	if err != nil {
		return nil, err
	}

	// Proofing: an email already bound to a credential is rejected before
	// any material is derived. The store's uniqueness check still backstops
	// the race between two concurrent submissions for the same email.
	if _, err := s.issuer.LookupByEmail(ctx, sub.Email); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
	} else if !dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil, err
	}

	salt, err := cryptox.RandomSalt(cryptox.SaltSize)
	if err != nil {
		return nil, err
	}

	cred, err := s.issuer.Issue(ctx, credential.IssueRequest{
		Name:         sub.Name,
		Email:        sub.Email,
		Role:         role,
		PasswordHash: cryptox.SaltedHash(sub.Password, salt),
		Salt:         salt,
		ProfileBlob:  cryptox.Base64Encode(sub.Bio),
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "registration completed", "user_id", cred.ID, "role", cred.Role)
	return cred, nil
}

func (s *Service) validate(sub Submission) (id.Role, error) {
	var problems []string

	if sub.Name == "" {
		problems = append(problems, "name is required")
	} else if len(sub.Name) > maxNameLength {
		problems = append(problems, "name is too long")
	}

	if sub.Email == "" {
		problems = append(problems, "email is required")
	} else if addr, err := mail.ParseAddress(sub.Email); err != nil || addr.Address != sub.Email {
		problems = append(problems, "email is not a valid address")
	}

	if len(sub.Password) < minPasswordLength {
		problems = append(problems, "password must be at least 8 characters")
	}

	if len(sub.Bio) > maxBioLength {
		problems = append(problems, "bio is too long")
	}

	role, err := id.ParseRole(sub.Role)
	if err != nil {
		problems = append(problems, "role must be student or alumni")
	} else if role == id.RoleAdmin {
		// Admin credentials are provisioned out of band, never self-service.
		problems = append(problems, "role must be student or alumni")
	}

	if len(problems) > 0 {
		return "", dErrors.New(dErrors.CodeValidation, strings.Join(problems, "; "))
	}
	return role, nil
}
