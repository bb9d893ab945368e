package domain

import "time"

// User is the account record returned by the identity lookup.
type User struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	FullName  string         `json:"full_name,omitempty"`
	Role      Role           `json:"role"`
	Profile   map[string]any `json:"profile,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Identity is the authenticated principal for a single gating decision.
// It is rebuilt on every check and never cached.
type Identity struct {
	Email       string `json:"email"`
	AccountRole Role   `json:"role"`
	FullName    string `json:"full_name,omitempty"`
}

// IdentityFromUser projects the fields the gate cares about.
func IdentityFromUser(u *User) *Identity {
	if u == nil {
		return nil
	}
	return &Identity{Email: u.Email, AccountRole: u.Role, FullName: u.FullName}
}

// Session carries the claims of a verified session token.
type Session struct {
	ID    string
	Email string
}

// AuthErrorKind classifies why no identity could be produced.
type AuthErrorKind string

const (
	AuthUnauthenticated AuthErrorKind = "unauthenticated"
	AuthLookupFailed    AuthErrorKind = "lookup-failed"
)

// IdentityResult is either an Identity or an AuthError kind, never both.
type IdentityResult struct {
	Identity *Identity
	Kind     AuthErrorKind
	// Cause is the underlying lookup error, kept for logging only.
	Cause error
}

// Resolved builds a successful result.
func Resolved(id *Identity) IdentityResult {
	return IdentityResult{Identity: id}
}

// Unresolved builds a failed result of the given kind.
func Unresolved(kind AuthErrorKind, cause error) IdentityResult {
	return IdentityResult{Kind: kind, Cause: cause}
}

// OK reports whether an identity was resolved.
func (r IdentityResult) OK() bool {
	return r.Identity != nil
}

// RoleContext is the {real, effective} role pair threaded through a request.
type RoleContext struct {
	Real          Role `json:"real_role"`
	Effective     Role `json:"effective_role"`
	Impersonating bool `json:"impersonating"`
}

// NewRoleContext derives the effective role. A present override always wins
// over the account role.
func NewRoleContext(real Role, override *Role) RoleContext {
	rc := RoleContext{Real: real, Effective: real}
	if override != nil {
		rc.Effective = *override
		rc.Impersonating = *override != real
	}
	return rc
}
