package relyingparty

import (
	id "alumnet/pkg/domain"
	dErrors "alumnet/pkg/domain-errors"
)

// Resource names a protected capability surface.
type Resource string

const (
	ResourceMentorship Resource = "mentorship"
	ResourceReferrals  Resource = "referrals"
	ResourceMessages   Resource = "messages"
	ResourceAuditTrail Resource = "audit_trail"
)

// Verb names an operation on a resource.
type Verb string

const (
	VerbCreate  Verb = "create"
	VerbView    Verb = "view"
	VerbApprove Verb = "approve"
	VerbSend    Verb = "send"
	VerbReceive Verb = "receive"
)

type grant struct {
	resource Resource
	verb     Verb
}

// Policy is the deny-by-default access matrix. Everything not explicitly
// granted is forbidden; admin bypasses the matrix entirely.
type Policy struct {
	grants map[id.Role]map[grant]struct{}
}

func NewPolicy() *Policy {
	p := &Policy{grants: make(map[id.Role]map[grant]struct{})}

	p.allow(id.RoleStudent, ResourceMentorship, VerbCreate)
	p.allow(id.RoleStudent, ResourceMentorship, VerbView)
	p.allow(id.RoleStudent, ResourceReferrals, VerbView)
	p.allow(id.RoleStudent, ResourceMessages, VerbSend)
	p.allow(id.RoleStudent, ResourceMessages, VerbReceive)

	p.allow(id.RoleAlumni, ResourceMentorship, VerbApprove)
	p.allow(id.RoleAlumni, ResourceMentorship, VerbView)
	p.allow(id.RoleAlumni, ResourceReferrals, VerbCreate)
	p.allow(id.RoleAlumni, ResourceReferrals, VerbView)
	p.allow(id.RoleAlumni, ResourceMessages, VerbSend)
	p.allow(id.RoleAlumni, ResourceMessages, VerbReceive)

	return p
}

func (p *Policy) allow(role id.Role, resource Resource, verb Verb) {
	if p.grants[role] == nil {
		p.grants[role] = make(map[grant]struct{})
	}
	p.grants[role][grant{resource, verb}] = struct{}{}
}

// Check returns nil when the role may perform verb on resource.
func (p *Policy) Check(role id.Role, resource Resource, verb Verb) error {
	if role == id.RoleAdmin {
		return nil
	}
	if _, ok := p.grants[role][grant{resource, verb}]; ok {
		return nil
	}
	return dErrors.New(dErrors.CodeForbidden, string(role)+" may not "+string(verb)+" "+string(resource))
}
