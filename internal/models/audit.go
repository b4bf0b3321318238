package models

import "time"

// Audit action types recorded per mutation.
const (
	AuditActionCreate       = "CREATE"
	AuditActionUpdate       = "UPDATE"
	AuditActionUpdateStatus = "UPDATE_STATUS"
	AuditActionUpdateRole   = "UPDATE_ROLE"
	AuditActionDelete       = "DELETE"
	AuditActionLogin        = "LOGIN"
	AuditActionLogout       = "LOGOUT"
	AuditActionRegister     = "REGISTER"
)

// AuditLog is an immutable append-only record of who changed what. Old and new
// values are opaque JSON snapshots; an absent snapshot is stored as NULL.
type AuditLog struct {
	ID         int64     `db:"id" json:"id"`
	UserID     *int64    `db:"user_id" json:"user_id,omitempty"`
	TableName  string    `db:"table_name" json:"table_name"`
	ActionType string    `db:"action_type" json:"action_type"`
	RecordID   *int64    `db:"record_id" json:"record_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	UserName *string `db:"user_name" json:"user_name,omitempty"`
}

// AuditFilter captures optional list criteria for the audit trail.
type AuditFilter struct {
	UserID     *int64
	ActionType string
	TableName  string
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
}
