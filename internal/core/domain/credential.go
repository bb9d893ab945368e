package domain

import "time"

// CredentialStatus is the activity status of a login entry.
type CredentialStatus string

const (
	CredentialActive   CredentialStatus = "Active"
	CredentialInactive CredentialStatus = "Inactive"
)

// Credential is a login entry managed by the admin tooling. The login flow
// only ever touches LastLogin, LoginAttempts and LockedUntil.
type Credential struct {
	ID            string           `json:"id"`
	Username      string           `json:"username"`
	PasswordHash  string           `json:"-"`
	Role          Role             `json:"role"`
	UserEmail     string           `json:"user_email"`
	Status        CredentialStatus `json:"status"`
	LoginAttempts int              `json:"login_attempts"`
	LockedUntil   *time.Time       `json:"locked_until,omitempty"`
	LastLogin     *time.Time       `json:"last_login,omitempty"`
}

// Active reports whether the credential may be used to log in.
func (c *Credential) Active() bool {
	return c.Status == CredentialActive
}

// LockedAt reports whether a lockout window is still open at now.
func (c *Credential) LockedAt(now time.Time) bool {
	return c.LockedUntil != nil && c.LockedUntil.After(now)
}

// LoginUpdate is the partial update applied to a credential by the login flow.
// Nil pointers leave the stored field unchanged; ClearLock unsets locked_until.
type LoginUpdate struct {
	LastLogin     *time.Time
	LoginAttempts *int
	LockedUntil   *time.Time
	ClearLock     bool
}
