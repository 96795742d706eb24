package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"alumnet/internal/referral"
	id "alumnet/pkg/domain"
)

// Store is the Postgres-backed referral store.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, ref *referral.Referral) error {
	query := `
		INSERT INTO referrals (id, poster_id, company, role, description, integrity_hash, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(ref.ID),
		uuid.UUID(ref.PosterID),
		ref.Company,
		ref.Role,
		ref.Description,
		ref.IntegrityHash,
		ref.PostedAt,
	)
	if err != nil {
		return fmt.Errorf("insert referral: %w", err)
	}
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]*referral.Referral, error) {
	query := `
		SELECT id, poster_id, company, role, description, integrity_hash, posted_at
		FROM referrals
		ORDER BY posted_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	defer rows.Close()

	var out []*referral.Referral
	for rows.Next() {
		var (
			ref      referral.Referral
			refID    uuid.UUID
			posterID uuid.UUID
		)
		if err := rows.Scan(&refID, &posterID, &ref.Company, &ref.Role, &ref.Description, &ref.IntegrityHash, &ref.PostedAt); err != nil {
			return nil, fmt.Errorf("scan referral: %w", err)
		}
		ref.ID = id.ReferralID(refID)
		ref.PosterID = id.UserID(posterID)
		out = append(out, &ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate referrals: %w", err)
	}
	return out, nil
}
