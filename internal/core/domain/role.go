package domain

import "strings"

// Role is an account or override role. The set is closed; see Roles.
type Role string

const (
	RoleUser       Role = "user"
	RoleTechnician Role = "technician"
	RoleDeveloper  Role = "developer"
	RoleAdmin      Role = "admin"
)

// roleRanks is the privilege ordering. Ranks are strictly increasing.
var roleRanks = map[Role]int{
	RoleUser:       1,
	RoleTechnician: 2,
	RoleDeveloper:  3,
	RoleAdmin:      4,
}

// Roles returns every known role from least to most privileged.
func Roles() []Role {
	return []Role{RoleUser, RoleTechnician, RoleDeveloper, RoleAdmin}
}

// Rank returns the privilege rank of r. Unknown roles rank as RoleUser so
// they fail every gate above the lowest one.
func Rank(r Role) int {
	if rank, ok := roleRanks[r]; ok {
		return rank
	}
	return roleRanks[RoleUser]
}

// ParseRole normalises s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := roleRanks[r]
	return r, ok
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// AtLeast reports whether r ranks at or above required.
func (r Role) AtLeast(required Role) bool {
	return Rank(r) >= Rank(required)
}

func (r Role) String() string { return string(r) }
