package models

import "time"

// UserRole represents the closed set of roles. Roles are totally ordered by
// privilege: SystemAdmin > Admin > Supervisor > Agent.
type UserRole string

const (
	RoleSystemAdmin UserRole = "SystemAdmin"
	RoleAdmin       UserRole = "Admin"
	RoleSupervisor  UserRole = "Supervisor"
	RoleAgent       UserRole = "Agent"
)

var roleRank = map[UserRole]int{
	RoleAgent:       1,
	RoleSupervisor:  2,
	RoleAdmin:       3,
	RoleSystemAdmin: 4,
}

// Valid reports whether the role is a member of the closed enumeration.
func (r UserRole) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r is at least as privileged as other.
func (r UserRole) AtLeast(other UserRole) bool {
	return roleRank[r] >= roleRank[other]
}

// User represents an account stored in the users table. The password hash
// never leaves the API.
type User struct {
	ID           int64     `db:"id" json:"id"`
	EmployeeID   string    `db:"employee_id" json:"employee_id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Department   string    `db:"department" json:"department"`
	Designation  string    `db:"designation" json:"designation"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Search string
	Role   *UserRole
	Active *bool
	Page   int
	Limit  int
}
