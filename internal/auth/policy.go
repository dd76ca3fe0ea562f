package auth

import (
	"fmt"

	"github.com/forum-api/internal/apperr"
)

// Operation is the kind of access requested on a piece of content
type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpBan    Operation = "ban"
)

// Can decides whether caller may perform op on content owned by ownerID.
// ownerID is ignored for read, create and ban.
func Can(caller *Caller, op Operation, ownerID int64) bool {
	switch op {
	case OpRead:
		return true
	case OpCreate:
		return isMember(caller)
	case OpUpdate, OpDelete:
		if !isMember(caller) {
			return false
		}
		return caller.ID == ownerID || isPrivileged(caller)
	case OpBan:
		return caller != nil && isPrivileged(caller)
	default:
		return false
	}
}

// Authorize is Can returning an authorization error on denial
func Authorize(caller *Caller, op Operation, ownerID int64) error {
	if Can(caller, op, ownerID) {
		return nil
	}
	switch op {
	case OpBan:
		return apperr.Forbidden("moderator or admin role required")
	case OpCreate:
		return apperr.Forbidden("user, moderator or admin role required")
	default:
		return apperr.Forbidden(fmt.Sprintf("only the owner, a moderator or an admin may %s this content", op))
	}
}

// isMember reports whether caller holds any forum role
func isMember(caller *Caller) bool {
	return caller != nil && caller.Roles.HasAny(RoleUser, RoleModerator, RoleAdmin)
}

func isPrivileged(caller *Caller) bool {
	return caller.Roles.HasAny(RoleModerator, RoleAdmin)
}
