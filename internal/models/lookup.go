package models

// Lookup is a simple reference row (category, office, source) with no behavior
// beyond a name and an active flag.
type Lookup struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"is_active"`
}

// ServiceItem is a lookup entry grouped under a category.
type ServiceItem struct {
	ID         int64  `db:"id" json:"id"`
	CategoryID int64  `db:"category_id" json:"category_id"`
	Name       string `db:"name" json:"name"`
	IsActive   bool   `db:"is_active" json:"is_active"`
}

// LeaveType is a lookup entry carrying a maximum-days policy.
type LeaveType struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	MaxDays  int    `db:"max_days" json:"max_days"`
	IsActive bool   `db:"is_active" json:"is_active"`
}
