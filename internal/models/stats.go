package models

// StatusCount is a single bucket of a grouped count.
type StatusCount struct {
	Label string `db:"label" json:"label"`
	Count int    `db:"count" json:"count"`
}

// Statistics is the admin dashboard aggregate.
type Statistics struct {
	TotalUsers      int           `json:"total_users"`
	ActiveUsers     int           `json:"active_users"`
	UsersByRole     []StatusCount `json:"users_by_role"`
	TotalTasks      int           `json:"total_tasks"`
	TasksByStatus   []StatusCount `json:"tasks_by_status"`
	TasksByPriority []StatusCount `json:"tasks_by_priority"`
	OverdueTasks    int           `json:"overdue_tasks"`
	TotalLeaves     int           `json:"total_leaves"`
	LeavesByStatus  []StatusCount `json:"leaves_by_status"`
	RecentActivity  []AuditLog    `json:"recent_activity"`
}
