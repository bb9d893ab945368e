package domain

import "time"

// AuditAction names an auditable access event.
type AuditAction string

const (
	AuditLoginSucceeded     AuditAction = "login.succeeded"
	AuditLoginFailed        AuditAction = "login.failed"
	AuditLogout             AuditAction = "logout"
	AuditImpersonationSet   AuditAction = "impersonation.set"
	AuditImpersonationClear AuditAction = "impersonation.cleared"
)

// AuditEvent records who did what. Actor is a username or email and is the
// ordering key: events for one actor are delivered in order.
type AuditEvent struct {
	Action     AuditAction `json:"action"`
	Actor      string      `json:"actor"`
	SessionID  string      `json:"session_id,omitempty"`
	Role       Role        `json:"role,omitempty"`
	Reason     string      `json:"reason,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}
