package auth

import "strings"

// Role is a tag attached to a caller identity
type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole accepts both "ADMIN" and the "ROLE_ADMIN" form, case-insensitively
func ParseRole(name string) (Role, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "ROLE_")
	switch Role(name) {
	case RoleUser, RoleModerator, RoleAdmin:
		return Role(name), true
	default:
		return "", false
	}
}

// RoleSet is the set of roles held by a caller
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from role names, dropping unknown ones
func NewRoleSet(names ...string) RoleSet {
	set := make(RoleSet, len(names))
	for _, name := range names {
		if role, ok := ParseRole(name); ok {
			set[role] = struct{}{}
		}
	}
	return set
}

// Has reports whether the set contains role
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// HasAny reports whether the set contains at least one of roles
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, role := range roles {
		if s.Has(role) {
			return true
		}
	}
	return false
}

// Caller is the authenticated identity behind a request.
// A nil *Caller is an anonymous request.
type Caller struct {
	ID       int64
	Username string
	Roles    RoleSet
}

// NewCaller builds a caller from raw role names
func NewCaller(id int64, username string, roles ...string) *Caller {
	return &Caller{ID: id, Username: username, Roles: NewRoleSet(roles...)}
}
