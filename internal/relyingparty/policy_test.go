package relyingparty

import (
	"testing"

	"github.com/stretchr/testify/require"

	id "alumnet/pkg/domain"
	dErrors "alumnet/pkg/domain-errors"
)

func TestPolicyMatrix(t *testing.T) {
	policy := NewPolicy()

	allowed := []struct {
		role     id.Role
		resource Resource
		verb     Verb
	}{
		{id.RoleStudent, ResourceMentorship, VerbCreate},
		{id.RoleStudent, ResourceMentorship, VerbView},
		{id.RoleStudent, ResourceReferrals, VerbView},
		{id.RoleStudent, ResourceMessages, VerbSend},
		{id.RoleStudent, ResourceMessages, VerbReceive},
		{id.RoleAlumni, ResourceMentorship, VerbApprove},
		{id.RoleAlumni, ResourceMentorship, VerbView},
		{id.RoleAlumni, ResourceReferrals, VerbCreate},
		{id.RoleAlumni, ResourceReferrals, VerbView},
		{id.RoleAlumni, ResourceMessages, VerbSend},
		{id.RoleAlumni, ResourceMessages, VerbReceive},
	}
	for _, tc := range allowed {
		require.NoError(t, policy.Check(tc.role, tc.resource, tc.verb),
			"%s should be allowed to %s %s", tc.role, tc.verb, tc.resource)
	}

	denied := []struct {
		role     id.Role
		resource Resource
		verb     Verb
	}{
		{id.RoleStudent, ResourceMentorship, VerbApprove},
		{id.RoleStudent, ResourceReferrals, VerbCreate},
		{id.RoleStudent, ResourceAuditTrail, VerbView},
		{id.RoleAlumni, ResourceMentorship, VerbCreate},
		{id.RoleAlumni, ResourceAuditTrail, VerbView},
	}
	for _, tc := range denied {
		err := policy.Check(tc.role, tc.resource, tc.verb)
		require.True(t, dErrors.HasCode(err, dErrors.CodeForbidden),
			"%s should not be allowed to %s %s", tc.role, tc.verb, tc.resource)
	}
}

func TestPolicyAdminOverride(t *testing.T) {
	policy := NewPolicy()
	require.NoError(t, policy.Check(id.RoleAdmin, ResourceAuditTrail, VerbView))
	require.NoError(t, policy.Check(id.RoleAdmin, ResourceMentorship, VerbApprove))
	require.NoError(t, policy.Check(id.RoleAdmin, ResourceReferrals, VerbCreate))
}

func TestPolicyDenyByDefault(t *testing.T) {
	policy := NewPolicy()
	err := policy.Check(id.RoleStudent, Resource("unknown"), Verb("poke"))
	require.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}
