package referral

import (
	"time"

	"alumnet/internal/cryptox"
	id "alumnet/pkg/domain"
)

// Referral is a job referral posting. IntegrityHash covers company, role
// and description as written at post time; readers recompute it to detect
// modification of the stored record.
type Referral struct {
	ID            id.ReferralID
	PosterID      id.UserID
	Company       string
	Role          string
	Description   string
	IntegrityHash string
	PostedAt      time.Time
}

// ComputeIntegrityHash derives the digest over the covered fields.
func ComputeIntegrityHash(company, role, description string) string {
	return cryptox.Digest(company, role, description)
}

// Verified reports whether the stored fields still match the posted hash.
func (r *Referral) Verified() bool {
	return cryptox.HashEqual(ComputeIntegrityHash(r.Company, r.Role, r.Description), r.IntegrityHash)
}

// Listing is the read view: the referral plus its integrity verdict.
type Listing struct {
	Referral
	IntegrityOK bool
}
