package models

import "time"

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "Pending"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
	TaskCancelled  TaskStatus = "Cancelled"
)

// Valid reports membership in the enumerated status set.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status accepts no further transitions.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskCancelled
}

// CanTransitionTo implements the strict state machine, consulted only when
// strict transition validation is enabled.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case TaskPending:
		return next == TaskInProgress || next == TaskCancelled
	case TaskInProgress:
		return next == TaskCompleted || next == TaskCancelled
	}
	return false
}

// TaskPriority enumerates task urgency levels.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
	PriorityUrgent TaskPriority = "Urgent"
)

// Valid reports membership in the enumerated priority set.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task represents a unit of work assigned to an account. The *_name fields are
// joined display names populated on reads.
type Task struct {
	ID          int64        `db:"id" json:"id"`
	Title       string       `db:"title" json:"title"`
	Description string       `db:"description" json:"description"`
	Status      TaskStatus   `db:"status" json:"status"`
	Priority    TaskPriority `db:"priority" json:"priority"`
	DueDate     time.Time    `db:"due_date" json:"due_date"`
	AssignedTo  int64        `db:"assigned_to" json:"assigned_to"`
	AssignedBy  int64        `db:"assigned_by" json:"assigned_by"`
	CategoryID  *int64       `db:"category_id" json:"category_id,omitempty"`
	ServiceID   *int64       `db:"service_id" json:"service_id,omitempty"`
	OfficeID    *int64       `db:"office_id" json:"office_id,omitempty"`
	SourceID    *int64       `db:"source_id" json:"source_id,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`

	AssignedToName *string `db:"assigned_to_name" json:"assigned_to_name,omitempty"`
	AssignedByName *string `db:"assigned_by_name" json:"assigned_by_name,omitempty"`
	CategoryName   *string `db:"category_name" json:"category_name,omitempty"`
	ServiceName    *string `db:"service_name" json:"service_name,omitempty"`
	OfficeName     *string `db:"office_name" json:"office_name,omitempty"`
	SourceName     *string `db:"source_name" json:"source_name,omitempty"`
}

// TaskFilter captures optional list criteria. A scoped AssignedTo overrides
// any caller-supplied owner filter for Agent callers.
type TaskFilter struct {
	Status     *TaskStatus
	Priority   *TaskPriority
	AssignedTo *int64
	CategoryID *int64
	DueFrom    *time.Time
	DueTo      *time.Time
	Search     string
	Page       int
	Limit      int
}
