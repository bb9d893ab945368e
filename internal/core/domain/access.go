package domain

// DenyReason explains a denied access decision.
type DenyReason string

const (
	DenyUnauthenticated       DenyReason = "unauthenticated"
	DenyInsufficientPrivilege DenyReason = "insufficient-privilege"
)

// Decision is the result of an access check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow is the granted decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny builds a denied decision.
func Deny(reason DenyReason) Decision { return Decision{Reason: reason} }

// Err maps a denied decision onto the error taxonomy. It returns nil when
// access was granted.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == DenyInsufficientPrivilege:
		return ErrInsufficientPrivilege
	default:
		return ErrUnauthenticated
	}
}

// CheckAccess decides whether identity may enter a view gated at required.
// A nil identity is always denied, even for the lowest requirement. The
// override, when present, replaces the account role for the comparison.
func CheckAccess(required Role, identity *Identity, override *Role) Decision {
	if identity == nil {
		return Deny(DenyUnauthenticated)
	}
	rc := NewRoleContext(identity.AccountRole, override)
	if Rank(rc.Effective) >= Rank(required) {
		return Allow()
	}
	return Deny(DenyInsufficientPrivilege)
}
