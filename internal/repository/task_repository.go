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

const taskColumns = `t.id, t.title, t.description, t.status, t.priority, t.due_date,
	t.assigned_to, t.assigned_by, t.category_id, t.service_id, t.office_id, t.source_id, t.created_at,
	u.name AS assigned_to_name, u2.name AS assigned_by_name,
	c.name AS category_name, s.name AS service_name, o.name AS office_name, src.name AS source_name`

func taskQuery() *query.Builder {
	return query.New(taskColumns, "tasks t").
		Join("LEFT JOIN users u ON t.assigned_to = u.id").
		Join("LEFT JOIN users u2 ON t.assigned_by = u2.id").
		Join("LEFT JOIN categories c ON t.category_id = c.id").
		Join("LEFT JOIN services s ON t.service_id = s.id").
		Join("LEFT JOIN offices o ON t.office_id = o.id").
		Join("LEFT JOIN sources src ON t.source_id = src.id").
		OrderBy("t.created_at DESC")
}

// TaskRepository provides database access for tasks.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new instance of TaskRepository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns tasks matching the filter with the total count. The filter's
// AssignedTo is expected to already carry the policy-scoped owner.
func (r *TaskRepository) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error) {
	qb := taskQuery().
		Equal("t.status", filter.Status).
		Equal("t.priority", filter.Priority).
		Equal("t.assigned_to", filter.AssignedTo).
		Equal("t.category_id", filter.CategoryID).
		Between("t.due_date", filter.DueFrom, filter.DueTo).
		Search(filter.Search, "t.title", "t.description")

	dataSQL, countSQL, args := qb.Build(filter.Page, filter.Limit)

	tasks := []models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, dataSQL, args...); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countSQL, args...); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	return tasks, total, nil
}

// ListAll returns every task matching the filter, unpaginated, for report
// extracts.
func (r *TaskRepository) ListAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	dataSQL, args := taskQuery().
		Equal("t.status", filter.Status).
		Equal("t.priority", filter.Priority).
		Equal("t.assigned_to", filter.AssignedTo).
		Equal("t.category_id", filter.CategoryID).
		Between("t.due_date", filter.DueFrom, filter.DueTo).
		BuildAll()

	tasks := []models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, dataSQL, args...); err != nil {
		return nil, fmt.Errorf("list all tasks: %w", err)
	}
	return tasks, nil
}

// FindByID returns a task with joined display names.
func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	dataSQL, _, args := taskQuery().Where("t.id = ?", id).Build(1, 1)
	var task models.Task
	if err := r.db.GetContext(ctx, &task, dataSQL, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find task by id: %w", err)
	}
	return &task, nil
}

// Create inserts a task and fills in its generated id.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO tasks (title, description, status, priority, due_date, assigned_to, assigned_by, category_id, service_id, office_id, source_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	if err := r.db.QueryRowContext(ctx, q,
		task.Title, task.Description, task.Status, task.Priority, task.DueDate,
		task.AssignedTo, task.AssignedBy, task.CategoryID, task.ServiceID,
		task.OfficeID, task.SourceID, task.CreatedAt,
	).Scan(&task.ID); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a task.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	const q = `UPDATE tasks SET title = $2, description = $3, status = $4, priority = $5, due_date = $6,
		assigned_to = $7, category_id = $8, service_id = $9, office_id = $10, source_id = $11 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q,
		task.ID, task.Title, task.Description, task.Status, task.Priority, task.DueDate,
		task.AssignedTo, task.CategoryID, task.ServiceID, task.OfficeID, task.SourceID,
	); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// UpdateStatus changes only the task status.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id int64, status models.TaskStatus) error {
	const q = `UPDATE tasks SET status = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id, status); err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	return nil
}

// Delete removes a task row.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM tasks WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ListOverdue returns non-terminal tasks whose due date has passed, oldest
// deadline first.
func (r *TaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]models.Task, error) {
	dataSQL, _, args := taskQuery().
		Where("t.due_date < ?", now).
		Where("t.status NOT IN (?, ?)", models.TaskCompleted, models.TaskCancelled).
		OrderBy("t.due_date ASC").
		Build(1, query.MaxLimit)

	tasks := []models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, dataSQL, args...); err != nil {
		return nil, fmt.Errorf("list overdue tasks: %w", err)
	}
	return tasks, nil
}
