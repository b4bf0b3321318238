package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dnothi-api/internal/models"
)

// StatsRepository exposes read-optimised aggregate queries for the dashboard.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository instantiates the repository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// UserCounts returns the total and active account counts plus a per-role
// breakdown.
func (r *StatsRepository) UserCounts(ctx context.Context) (total, active int, byRole []models.StatusCount, err error) {
	const countQ = `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM users`
	if err = r.db.QueryRowContext(ctx, countQ).Scan(&total, &active); err != nil {
		return 0, 0, nil, fmt.Errorf("count users: %w", err)
	}

	const roleQ = `SELECT role AS label, COUNT(*) AS count FROM users GROUP BY role ORDER BY count DESC`
	if err = r.db.SelectContext(ctx, &byRole, roleQ); err != nil {
		return 0, 0, nil, fmt.Errorf("count users by role: %w", err)
	}
	return total, active, byRole, nil
}

// TaskCounts returns the total task count with status and priority breakdowns
// and the number of overdue non-terminal tasks.
func (r *StatsRepository) TaskCounts(ctx context.Context, now time.Time) (total int, byStatus, byPriority []models.StatusCount, overdue int, err error) {
	const totalQ = `SELECT COUNT(*) FROM tasks`
	if err = r.db.GetContext(ctx, &total, totalQ); err != nil {
		return 0, nil, nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	const statusQ = `SELECT status AS label, COUNT(*) AS count FROM tasks GROUP BY status ORDER BY count DESC`
	if err = r.db.SelectContext(ctx, &byStatus, statusQ); err != nil {
		return 0, nil, nil, 0, fmt.Errorf("count tasks by status: %w", err)
	}

	const priorityQ = `SELECT priority AS label, COUNT(*) AS count FROM tasks GROUP BY priority ORDER BY count DESC`
	if err = r.db.SelectContext(ctx, &byPriority, priorityQ); err != nil {
		return 0, nil, nil, 0, fmt.Errorf("count tasks by priority: %w", err)
	}

	const overdueQ = `SELECT COUNT(*) FROM tasks WHERE due_date < $1 AND status NOT IN ($2, $3)`
	if err = r.db.GetContext(ctx, &overdue, overdueQ, now, models.TaskCompleted, models.TaskCancelled); err != nil {
		return 0, nil, nil, 0, fmt.Errorf("count overdue tasks: %w", err)
	}
	return total, byStatus, byPriority, overdue, nil
}

// LeaveCounts returns the total leave count with a status breakdown.
func (r *StatsRepository) LeaveCounts(ctx context.Context) (total int, byStatus []models.StatusCount, err error) {
	const totalQ = `SELECT COUNT(*) FROM leaves`
	if err = r.db.GetContext(ctx, &total, totalQ); err != nil {
		return 0, nil, fmt.Errorf("count leaves: %w", err)
	}

	const statusQ = `SELECT status AS label, COUNT(*) AS count FROM leaves GROUP BY status ORDER BY count DESC`
	if err = r.db.SelectContext(ctx, &byStatus, statusQ); err != nil {
		return 0, nil, fmt.Errorf("count leaves by status: %w", err)
	}
	return total, byStatus, nil
}
