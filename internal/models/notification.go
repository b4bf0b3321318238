package models

import "time"

// Notification is a per-account message surfaced in the dashboard.
type Notification struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Message     string    `db:"message" json:"message"`
	Type        string    `db:"type" json:"type"`
	RelatedID   *int64    `db:"related_id" json:"related_id,omitempty"`
	RelatedType *string   `db:"related_type" json:"related_type,omitempty"`
	IsRead      bool      `db:"is_read" json:"is_read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// NotificationFilter lists a single account's notifications.
type NotificationFilter struct {
	UserID     int64
	UnreadOnly bool
	Page       int
	Limit      int
}
