package credential

import (
	"time"

	id "alumnet/pkg/domain"
)

// Credential is the durable record binding an identity to its authentication
// secret and its mailbox encryption key.
//
// Invariants:
//   - PasswordHash = SaltedHash(password, Salt)
//   - Salt is generated fresh at issuance and never reused
//   - Email identifies at most one credential (enforced atomically by stores)
//   - The record is never mutated after issuance
type Credential struct {
	ID           id.UserID
	Name         string
	Email        string
	Role         id.Role
	PasswordHash string
	Salt         string
	KeyMaterial  string
	ProfileBlob  string
	CreatedAt    time.Time
}

// PublicIdentity is the directory view of a credential. It never carries the
// password hash or salt; those stay inside the authentication path.
//
// KeyMaterial is the identity's serialized mailbox key. Exposing it to other
// subscribers is integral to the demonstrated mailbox protocol: every message
// addressed to an identity is sealed under that identity's single symmetric
// key, so senders need it. This provides no forward secrecy and no
// confidentiality against the store itself.
type PublicIdentity struct {
	ID          id.UserID `json:"id"`
	Name        string    `json:"name"`
	Role        id.Role   `json:"role"`
	KeyMaterial string    `json:"key_material"`
}

// Public projects the credential into its directory view.
func (c *Credential) Public() PublicIdentity {
	return PublicIdentity{
		ID:          c.ID,
		Name:        c.Name,
		Role:        c.Role,
		KeyMaterial: c.KeyMaterial,
	}
}
