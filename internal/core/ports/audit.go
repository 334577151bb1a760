package ports

import "time"

// Audit event types recorded by the account service.
const (
	AuditSignup          = "signup"
	AuditLoginSuccess    = "login_success"
	AuditLoginFailure    = "login_failure"
	AuditPasswordChanged = "password_changed"
	AuditAccountDeleted  = "account_deleted"
)

// AuditEvent describes a single security-relevant action.
type AuditEvent struct {
	Type      string
	AccountID uint64
	// Subject is the client-supplied identifier involved, e.g. the mobile
	// number a failed login targeted. Never a password or hash.
	Subject   string
	Timestamp time.Time
}

// AuditSink accepts audit events for asynchronous recording. Implementations
// must not block the caller.
type AuditSink interface {
	Record(event AuditEvent)
}
