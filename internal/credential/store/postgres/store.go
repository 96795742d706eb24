package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"alumnet/internal/credential"
	id "alumnet/pkg/domain"
	"alumnet/pkg/platform/sentinel"
)

// uniqueViolation is the postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// Store persists credentials in the credentials table. Email uniqueness is
// enforced by a unique index, which makes CreateIfEmailAvailable atomic: of
// two concurrent registrations for the same email exactly one insert wins
// and the other surfaces sentinel.ErrConflict.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateIfEmailAvailable(ctx context.Context, cred *credential.Credential) error {
	query := `
		INSERT INTO credentials (id, name, email, role, password_hash, salt, key_material, profile_blob, created_at)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(cred.ID),
		cred.Name,
		cred.Email,
		string(cred.Role),
		cred.PasswordHash,
		cred.Salt,
		cred.KeyMaterial,
		cred.ProfileBlob,
		cred.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*credential.Credential, error) {
	query := selectCredential + ` WHERE email = lower($1)`
	return s.scanOne(s.db.QueryRowContext(ctx, query, email))
}

func (s *Store) FindByID(ctx context.Context, userID id.UserID) (*credential.Credential, error) {
	query := selectCredential + ` WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(userID)))
}

func (s *Store) ListAll(ctx context.Context) ([]*credential.Credential, error) {
	rows, err := s.db.QueryContext(ctx, selectCredential+` ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query credentials: %w", err)
	}
	defer rows.Close()

	var creds []*credential.Credential
	for rows.Next() {
		cred, err := scan(rows.Scan)
		if err != nil {
			return nil, err
		}
		creds = append(creds, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return creds, nil
}

const selectCredential = `
	SELECT id, name, email, role, password_hash, salt, key_material, profile_blob, created_at
	FROM credentials
`

func (s *Store) scanOne(row *sql.Row) (*credential.Credential, error) {
	cred, err := scan(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return cred, err
}

func scan(scanFn func(dest ...any) error) (*credential.Credential, error) {
	var (
		cred credential.Credential
		uid  uuid.UUID
		role string
	)
	err := scanFn(&uid, &cred.Name, &cred.Email, &role, &cred.PasswordHash, &cred.Salt, &cred.KeyMaterial, &cred.ProfileBlob, &cred.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan credential: %w", err)
	}
	cred.ID = id.UserID(uid)
	cred.Role = id.Role(role)
	return &cred, nil
}
