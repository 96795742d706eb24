package domain

import dErrors "alumnet/pkg/domain-errors"

// Role is the coarse access tier bound to a credential at issuance.
type Role string

const (
	RoleStudent Role = "student"
	RoleAlumni  Role = "alumni"
	RoleAdmin   Role = "admin"
)

var validRoles = map[Role]struct{}{
	RoleStudent: {},
	RoleAlumni:  {},
	RoleAdmin:   {},
}

// ParseRole validates a role string coming from a trust boundary.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := validRoles[r]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+s)
	}
	return r, nil
}

func (r Role) String() string { return string(r) }
