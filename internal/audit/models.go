package audit

import "time"

// Action enumerates the security-relevant verbs recorded in the trail.
type Action string

const (
	ActionRegister      Action = "REGISTER"
	ActionLoginSuccess  Action = "LOGIN_SUCCESS"
	ActionLoginFail     Action = "LOGIN_FAIL"
	ActionLogout        Action = "LOGOUT"
	ActionMentorRequest Action = "MENTOR_REQ"
	ActionMentorApprove Action = "MENTOR_APPROVE"
	ActionMentorReject  Action = "MENTOR_REJECT"
	ActionReferralPost  Action = "REF_POST"
	ActionDataTamper    Action = "DATA_TAMPER"
)

// ActorUnknown marks entries that cannot be attributed to an authenticated
// identity, such as probes against nonexistent accounts.
const ActorUnknown = "unknown"

// Entry is a single append-only audit record. Entries are never edited or
// deleted once written.
type Entry struct {
	ActorID   string
	Action    Action
	Details   string
	Timestamp time.Time
}
