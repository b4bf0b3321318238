package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/query"
)

const leaveColumns = `l.id, l.user_id, l.leave_type_id, l.start_date, l.end_date, l.status,
	l.approved_by, l.comments, l.reason, l.created_at,
	u.name AS user_name, u2.name AS approved_by_name, lt.name AS leave_type_name`

func leaveQuery() *query.Builder {
	return query.New(leaveColumns, "leaves l").
		Join("LEFT JOIN users u ON l.user_id = u.id").
		Join("LEFT JOIN users u2 ON l.approved_by = u2.id").
		Join("LEFT JOIN leave_types lt ON l.leave_type_id = lt.id").
		OrderBy("l.created_at DESC")
}

// LeaveRepository provides database access for leave requests.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository creates a new instance of LeaveRepository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// List returns leaves matching the filter with the total count. The filter's
// UserID is expected to already carry the policy-scoped owner.
func (r *LeaveRepository) List(ctx context.Context, filter models.LeaveFilter) ([]models.Leave, int, error) {
	qb := leaveQuery().
		Equal("l.status", filter.Status).
		Equal("l.user_id", filter.UserID).
		Equal("l.leave_type_id", filter.LeaveTypeID)

	if filter.DateFrom != nil && filter.DateTo != nil {
		qb.Where("(l.start_date BETWEEN ? AND ? OR l.end_date BETWEEN ? AND ?)",
			*filter.DateFrom, *filter.DateTo, *filter.DateFrom, *filter.DateTo)
	}

	dataSQL, countSQL, args := qb.Build(filter.Page, filter.Limit)

	leaves := []models.Leave{}
	if err := r.db.SelectContext(ctx, &leaves, dataSQL, args...); err != nil {
		return nil, 0, fmt.Errorf("list leaves: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countSQL, args...); err != nil {
		return nil, 0, fmt.Errorf("count leaves: %w", err)
	}

	return leaves, total, nil
}

// ListAll returns every leave matching the filter, unpaginated, for report
// extracts.
func (r *LeaveRepository) ListAll(ctx context.Context, filter models.LeaveFilter) ([]models.Leave, error) {
	qb := leaveQuery().
		Equal("l.status", filter.Status).
		Equal("l.user_id", filter.UserID).
		Equal("l.leave_type_id", filter.LeaveTypeID)

	if filter.DateFrom != nil && filter.DateTo != nil {
		qb.Where("(l.start_date BETWEEN ? AND ? OR l.end_date BETWEEN ? AND ?)",
			*filter.DateFrom, *filter.DateTo, *filter.DateFrom, *filter.DateTo)
	}

	dataSQL, args := qb.BuildAll()

	leaves := []models.Leave{}
	if err := r.db.SelectContext(ctx, &leaves, dataSQL, args...); err != nil {
		return nil, fmt.Errorf("list all leaves: %w", err)
	}
	return leaves, nil
}

// FindByID returns a leave with joined display names.
func (r *LeaveRepository) FindByID(ctx context.Context, id int64) (*models.Leave, error) {
	dataSQL, _, args := leaveQuery().Where("l.id = ?", id).Build(1, 1)
	var leave models.Leave
	if err := r.db.GetContext(ctx, &leave, dataSQL, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find leave by id: %w", err)
	}
	return &leave, nil
}

// Create inserts a leave request in Pending state and fills in its id.
func (r *LeaveRepository) Create(ctx context.Context, leave *models.Leave) error {
	if leave.CreatedAt.IsZero() {
		leave.CreatedAt = time.Now().UTC()
	}
	leave.Status = models.LeavePending
	const q = `INSERT INTO leaves (user_id, leave_type_id, start_date, end_date, status, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.QueryRowContext(ctx, q,
		leave.UserID, leave.LeaveTypeID, leave.StartDate, leave.EndDate,
		leave.Status, leave.Reason, leave.CreatedAt,
	).Scan(&leave.ID); err != nil {
		return fmt.Errorf("create leave: %w", err)
	}
	return nil
}

// UpdateStatus records the one-shot decision together with the approver and
// comments.
func (r *LeaveRepository) UpdateStatus(ctx context.Context, id int64, status models.LeaveStatus, approvedBy int64, comments *string) error {
	const q = `UPDATE leaves SET status = $2, approved_by = $3, comments = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id, status, approvedBy, comments); err != nil {
		return fmt.Errorf("update leave status: %w", err)
	}
	return nil
}

// HasOverlap reports whether the account already has a non-Rejected leave
// whose window overlaps [start, end].
func (r *LeaveRepository) HasOverlap(ctx context.Context, userID int64, start, end time.Time, excludeID *int64) (bool, error) {
	qb := query.New("COUNT(*)", "leaves").
		Where("user_id = ?", userID).
		Where("status != ?", models.LeaveRejected).
		OverlapsWindow("start_date", "end_date", start, end)
	if excludeID != nil {
		qb.Where("id != ?", *excludeID)
	}

	_, countSQL, args := qb.Build(1, 1)

	var count int
	if err := r.db.GetContext(ctx, &count, countSQL, args...); err != nil {
		return false, fmt.Errorf("check leave overlap: %w", err)
	}
	return count > 0, nil
}
