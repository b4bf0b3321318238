package models

import "time"

// LeaveStatus enumerates leave request states. Approved and Rejected are
// terminal; the Pending → decision transition happens exactly once.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

// Valid reports membership in the enumerated status set.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected:
		return true
	}
	return false
}

// Decision reports whether the status is an allowed decision outcome.
func (s LeaveStatus) Decision() bool {
	return s == LeaveApproved || s == LeaveRejected
}

// Leave represents a time-off request.
type Leave struct {
	ID          int64       `db:"id" json:"id"`
	UserID      int64       `db:"user_id" json:"user_id"`
	LeaveTypeID int64       `db:"leave_type_id" json:"leave_type_id"`
	StartDate   time.Time   `db:"start_date" json:"start_date"`
	EndDate     time.Time   `db:"end_date" json:"end_date"`
	Status      LeaveStatus `db:"status" json:"status"`
	ApprovedBy  *int64      `db:"approved_by" json:"approved_by,omitempty"`
	Comments    *string     `db:"comments" json:"comments,omitempty"`
	Reason      string      `db:"reason" json:"reason"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`

	UserName       *string `db:"user_name" json:"user_name,omitempty"`
	ApprovedByName *string `db:"approved_by_name" json:"approved_by_name,omitempty"`
	LeaveTypeName  *string `db:"leave_type_name" json:"leave_type_name,omitempty"`
}

// LeaveFilter captures optional list criteria.
type LeaveFilter struct {
	Status      *LeaveStatus
	UserID      *int64
	LeaveTypeID *int64
	DateFrom    *time.Time
	DateTo      *time.Time
	Page        int
	Limit       int
}
