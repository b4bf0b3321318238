package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/policy"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
	"github.com/noah-isme/dnothi-api/pkg/response"
)

type taskRepository interface {
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error)
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	UpdateStatus(ctx context.Context, id int64, status models.TaskStatus) error
	Delete(ctx context.Context, id int64) error
	ListOverdue(ctx context.Context, now time.Time) ([]models.Task, error)
}

type taskUserLookup interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type notifier interface {
	Notify(ctx context.Context, userID int64, title, message, kind string, relatedID *int64, relatedType *string)
}

// TaskService provides task management use cases with role-based scoping.
type TaskService struct {
	repo              taskRepository
	users             taskUserLookup
	audit             auditRecorder
	notifications     notifier
	validator         *validator.Validate
	logger            *zap.Logger
	strictTransitions bool
}

// NewTaskService constructs a TaskService instance.
func NewTaskService(repo taskRepository, users taskUserLookup, audit auditRecorder, notifications notifier, validate *validator.Validate, logger *zap.Logger, strictTransitions bool) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TaskService{
		repo:              repo,
		users:             users,
		audit:             audit,
		notifications:     notifications,
		validator:         validate,
		logger:            logger,
		strictTransitions: strictTransitions,
	}
}

// List returns a page of tasks visible to the caller. Agents only ever see
// tasks assigned to themselves.
func (s *TaskService) List(ctx context.Context, caller policy.Caller, filter models.TaskFilter) ([]models.Task, *response.Pagination, error) {
	filter.AssignedTo = policy.ScopeOwner(caller, filter.AssignedTo)

	tasks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tasks")
	}
	return tasks, response.NewPagination(filter.Page, filter.Limit, total), nil
}

// GetByID returns a single task if the caller may see it.
func (s *TaskService) GetByID(ctx context.Context, caller policy.Caller, id int64) (*models.Task, error) {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadTask(caller, task.AssignedTo) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this task")
	}
	return task, nil
}

// Create stores a new task. Agents may only self-assign, and the assignee must
// be an existing active account.
func (s *TaskService) Create(ctx context.Context, caller policy.Caller, req models.CreateTaskRequest, meta models.RequestMeta) (*models.Task, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}

	if !policy.CanCreateTask(caller, req.AssignedTo) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "agents may only assign tasks to themselves")
	}

	if err := s.requireActiveAssignee(ctx, req.AssignedTo); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskPending,
		Priority:    priority,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		AssignedBy:  caller.ID,
		CategoryID:  req.CategoryID,
		ServiceID:   req.ServiceID,
		OfficeID:    req.OfficeID,
		SourceID:    req.SourceID,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create task")
	}

	s.audit.Record(ctx, caller.ID, "tasks", models.AuditActionCreate, &task.ID, nil, task, meta)

	if task.AssignedTo != caller.ID {
		related := "task"
		s.notifications.Notify(ctx, task.AssignedTo, "New task assigned",
			fmt.Sprintf("You have been assigned the task %q", task.Title),
			"task_assigned", &task.ID, &related)
	}

	return task, nil
}

// Update replaces the editable fields of a task.
func (s *TaskService) Update(ctx context.Context, caller policy.Caller, id int64, req models.UpdateTaskRequest, meta models.RequestMeta) (*models.Task, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}

	before, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanUpdateTask(caller, before.AssignedTo) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to modify this task")
	}

	if req.AssignedTo != before.AssignedTo {
		if !policy.CanCreateTask(caller, req.AssignedTo) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "agents may only assign tasks to themselves")
		}
		if err := s.requireActiveAssignee(ctx, req.AssignedTo); err != nil {
			return nil, err
		}
	}

	task := *before
	task.Title = req.Title
	task.Description = req.Description
	if req.Priority != "" {
		task.Priority = req.Priority
	}
	task.DueDate = req.DueDate
	task.AssignedTo = req.AssignedTo
	task.CategoryID = req.CategoryID
	task.ServiceID = req.ServiceID
	task.OfficeID = req.OfficeID
	task.SourceID = req.SourceID

	if err := s.repo.Update(ctx, &task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update task")
	}

	s.audit.Record(ctx, caller.ID, "tasks", models.AuditActionUpdate, &id, before, &task, meta)

	if task.AssignedTo != before.AssignedTo && task.AssignedTo != caller.ID {
		related := "task"
		s.notifications.Notify(ctx, task.AssignedTo, "Task reassigned to you",
			fmt.Sprintf("The task %q is now assigned to you", task.Title),
			"task_assigned", &id, &related)
	}

	return &task, nil
}

// UpdateStatus moves a task to a new status. When strict transitions are
// enabled only forward moves through the lifecycle are allowed; otherwise any
// valid status is accepted.
func (s *TaskService) UpdateStatus(ctx context.Context, caller policy.Caller, id int64, status models.TaskStatus, meta models.RequestMeta) (*models.Task, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid task status")
	}

	before, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanUpdateTaskStatus(caller, before.AssignedTo) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to modify this task")
	}

	if s.strictTransitions && !before.Status.CanTransitionTo(status) {
		return nil, appErrors.Clone(appErrors.ErrBusinessRule,
			fmt.Sprintf("cannot move task from %s to %s", before.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update task status")
	}

	after := *before
	after.Status = status

	s.audit.Record(ctx, caller.ID, "tasks", models.AuditActionUpdateStatus, &id, before, &after, meta)

	if before.AssignedBy != caller.ID {
		related := "task"
		s.notifications.Notify(ctx, before.AssignedBy, "Task status changed",
			fmt.Sprintf("The task %q is now %s", before.Title, status),
			"task_status", &id, &related)
	}

	return &after, nil
}

// Delete removes a task. Agents may only delete tasks they assigned.
func (s *TaskService) Delete(ctx context.Context, caller policy.Caller, id int64, meta models.RequestMeta) error {
	before, err := s.findTask(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanDeleteTask(caller, before.AssignedBy) {
		return appErrors.Clone(appErrors.ErrForbidden, "not allowed to delete this task")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete task")
	}

	s.audit.Record(ctx, caller.ID, "tasks", models.AuditActionDelete, &id, before, nil, meta)

	return nil
}

// ListOverdue returns non-terminal tasks past their due date, soonest first,
// scoped like any other task list.
func (s *TaskService) ListOverdue(ctx context.Context, caller policy.Caller) ([]models.Task, error) {
	tasks, err := s.repo.ListOverdue(ctx, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list overdue tasks")
	}

	if caller.Role != models.RoleAgent {
		return tasks, nil
	}

	scoped := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.AssignedTo == caller.ID {
			scoped = append(scoped, t)
		}
	}
	return scoped, nil
}

func (s *TaskService) findTask(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}
	return task, nil
}

func (s *TaskService) requireActiveAssignee(ctx context.Context, id int64) error {
	assignee, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrBusinessRule, "assignee does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignee")
	}
	if !assignee.IsActive {
		return appErrors.Clone(appErrors.ErrBusinessRule, "assignee account is deactivated")
	}
	return nil
}
