package models

import "time"

// UpdateProfileRequest carries editable profile fields.
type UpdateProfileRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Department  string `json:"department" validate:"max=100"`
	Designation string `json:"designation" validate:"max=100"`
}

// UpdateRoleRequest carries a role assignment.
type UpdateRoleRequest struct {
	Role UserRole `json:"role" validate:"required,oneof=SystemAdmin Admin Supervisor Agent"`
}

// SetActiveRequest toggles an account's active flag.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// CreateTaskRequest carries the payload for a new task.
type CreateTaskRequest struct {
	Title       string       `json:"title" validate:"required,min=3,max=200"`
	Description string       `json:"description" validate:"max=2000"`
	Priority    TaskPriority `json:"priority" validate:"omitempty,oneof=Low Medium High Urgent"`
	DueDate     time.Time    `json:"due_date" validate:"required"`
	AssignedTo  int64        `json:"assigned_to" validate:"required,gt=0"`
	CategoryID  *int64       `json:"category_id"`
	ServiceID   *int64       `json:"service_id"`
	OfficeID    *int64       `json:"office_id"`
	SourceID    *int64       `json:"source_id"`
}

// UpdateTaskRequest carries editable task fields.
type UpdateTaskRequest struct {
	Title       string       `json:"title" validate:"required,min=3,max=200"`
	Description string       `json:"description" validate:"max=2000"`
	Priority    TaskPriority `json:"priority" validate:"omitempty,oneof=Low Medium High Urgent"`
	DueDate     time.Time    `json:"due_date" validate:"required"`
	AssignedTo  int64        `json:"assigned_to" validate:"required,gt=0"`
	CategoryID  *int64       `json:"category_id"`
	ServiceID   *int64       `json:"service_id"`
	OfficeID    *int64       `json:"office_id"`
	SourceID    *int64       `json:"source_id"`
}

// UpdateTaskStatusRequest carries a status transition.
type UpdateTaskStatusRequest struct {
	Status TaskStatus `json:"status" validate:"required"`
}

// CreateLeaveRequest carries the payload for a new leave request.
type CreateLeaveRequest struct {
	LeaveTypeID int64     `json:"leave_type_id" validate:"required,gt=0"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	Reason      string    `json:"reason" validate:"required,min=3,max=1000"`
}

// LeaveDecisionRequest carries an approve or reject decision.
type LeaveDecisionRequest struct {
	Status   LeaveStatus `json:"status" validate:"required,oneof=Approved Rejected"`
	Comments *string     `json:"comments" validate:"omitempty,max=1000"`
}
