// Package policy is the single decision surface for role-based access. Every
// resource service consults it instead of testing roles inline. Decisions are
// pure functions over the caller identity and the owning-account reference of
// the resource; no I/O happens here.
package policy

import "github.com/noah-isme/dnothi-api/internal/models"

// Caller is the resolved identity attached to an authenticated request.
type Caller struct {
	ID   int64
	Role models.UserRole
}

// ScopeOwner resolves the effective owner filter for task/leave lists. Agents
// are always forced to owner = self, regardless of any caller-supplied owner
// filter; other roles keep the requested filter, which may be nil (unscoped).
func ScopeOwner(c Caller, requested *int64) *int64 {
	if c.Role == models.RoleAgent {
		self := c.ID
		return &self
	}
	return requested
}

// CanReadTask reports whether the caller may read a task assigned to ownerID.
func CanReadTask(c Caller, ownerID int64) bool {
	if c.Role != models.RoleAgent {
		return true
	}
	return c.ID == ownerID
}

// CanCreateTask reports whether the caller may create a task for assigneeID.
// Agents may only self-assign.
func CanCreateTask(c Caller, assigneeID int64) bool {
	if c.Role != models.RoleAgent {
		return true
	}
	return c.ID == assigneeID
}

// CanUpdateTask reports whether the caller may update task fields. Agents may
// only touch tasks assigned to them.
func CanUpdateTask(c Caller, assigneeID int64) bool {
	if c.Role != models.RoleAgent {
		return true
	}
	return c.ID == assigneeID
}

// CanUpdateTaskStatus reports whether the caller may change a task's status.
// Same rule as field updates: the assignee, or any non-Agent role.
func CanUpdateTaskStatus(c Caller, assigneeID int64) bool {
	return CanUpdateTask(c, assigneeID)
}

// CanDeleteTask reports whether the caller may delete a task. Agents may only
// delete tasks they originally assigned.
func CanDeleteTask(c Caller, assignerID int64) bool {
	if c.Role != models.RoleAgent {
		return true
	}
	return c.ID == assignerID
}

// CanReadLeave reports whether the caller may read a leave requested by
// requesterID.
func CanReadLeave(c Caller, requesterID int64) bool {
	if c.Role != models.RoleAgent {
		return true
	}
	return c.ID == requesterID
}

// CanDecideLeave reports whether the caller may approve or reject a leave.
// Supervisors and above qualify, but never on their own request.
func CanDecideLeave(c Caller, requesterID int64) bool {
	if !c.Role.AtLeast(models.RoleSupervisor) {
		return false
	}
	return c.ID != requesterID
}

// CanManageUsers reports whether the caller may list/create accounts and
// change role or active flags.
func CanManageUsers(c Caller) bool {
	return c.Role.AtLeast(models.RoleAdmin)
}

// CanChangeRole reports whether the caller may move an account from
// currentRole to newRole. Granting or revoking SystemAdmin requires a
// SystemAdmin caller.
func CanChangeRole(c Caller, currentRole, newRole models.UserRole) bool {
	if !c.Role.AtLeast(models.RoleAdmin) {
		return false
	}
	if currentRole == models.RoleSystemAdmin || newRole == models.RoleSystemAdmin {
		return c.Role == models.RoleSystemAdmin
	}
	return true
}

// CanEditProfile reports whether the caller may edit the given account's
// profile fields (self, or Admin and above).
func CanEditProfile(c Caller, targetID int64) bool {
	if c.ID == targetID {
		return true
	}
	return c.Role.AtLeast(models.RoleAdmin)
}

// CanViewReports reports whether the caller may run reports and exports.
func CanViewReports(c Caller) bool {
	return c.Role.AtLeast(models.RoleSupervisor)
}
