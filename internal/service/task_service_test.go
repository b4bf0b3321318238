package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/policy"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
)

type mockTaskRepo struct {
	tasks      map[int64]*models.Task
	nextID     int64
	lastFilter models.TaskFilter
}

func (m *mockTaskRepo) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error) {
	m.lastFilter = filter
	var tasks []models.Task
	for _, t := range m.tasks {
		if filter.AssignedTo != nil && t.AssignedTo != *filter.AssignedTo {
			continue
		}
		tasks = append(tasks, *t)
	}
	return tasks, len(tasks), nil
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	if t, ok := m.tasks[id]; ok {
		copy := *t
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTaskRepo) Create(ctx context.Context, task *models.Task) error {
	if m.tasks == nil {
		m.tasks = make(map[int64]*models.Task)
	}
	m.nextID++
	task.ID = m.nextID
	copy := *task
	m.tasks[task.ID] = &copy
	return nil
}

func (m *mockTaskRepo) Update(ctx context.Context, task *models.Task) error {
	if _, ok := m.tasks[task.ID]; !ok {
		return sql.ErrNoRows
	}
	copy := *task
	m.tasks[task.ID] = &copy
	return nil
}

func (m *mockTaskRepo) UpdateStatus(ctx context.Context, id int64, status models.TaskStatus) error {
	t, ok := m.tasks[id]
	if !ok {
		return sql.ErrNoRows
	}
	t.Status = status
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id int64) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskRepo) ListOverdue(ctx context.Context, now time.Time) ([]models.Task, error) {
	var tasks []models.Task
	for _, t := range m.tasks {
		if t.DueDate.Before(now) && !t.Status.Terminal() {
			tasks = append(tasks, *t)
		}
	}
	return tasks, nil
}

type mockTaskUsers struct {
	users map[int64]*models.User
}

func (m *mockTaskUsers) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func newTaskService(repo *mockTaskRepo, users *mockTaskUsers, audit *mockAudit, notes *mockNotifier, strict bool) *TaskService {
	return NewTaskService(repo, users, audit, notes, validator.New(), zap.NewNop(), strict)
}

func taskFixture() (*mockTaskRepo, *mockTaskUsers) {
	due := time.Now().Add(48 * time.Hour)
	repo := &mockTaskRepo{tasks: map[int64]*models.Task{
		1: {ID: 1, Title: "File report", Status: models.TaskPending, Priority: models.PriorityMedium, DueDate: due, AssignedTo: 3, AssignedBy: 2},
		2: {ID: 2, Title: "Audit review", Status: models.TaskInProgress, Priority: models.PriorityHigh, DueDate: due, AssignedTo: 4, AssignedBy: 2},
	}, nextID: 2}
	users := &mockTaskUsers{users: map[int64]*models.User{
		2: {ID: 2, Role: models.RoleSupervisor, IsActive: true},
		3: {ID: 3, Role: models.RoleAgent, IsActive: true},
		4: {ID: 4, Role: models.RoleAgent, IsActive: true},
		5: {ID: 5, Role: models.RoleAgent, IsActive: false},
	}}
	return repo, users
}

func TestTaskListScopesAgentsToThemselves(t *testing.T) {
	repo, users := taskFixture()
	svc := newTaskService(repo, users, &mockAudit{}, &mockNotifier{}, false)
	agent := policy.Caller{ID: 3, Role: models.RoleAgent}

	other := int64(4)
	tasks, _, err := svc.List(context.Background(), agent, models.TaskFilter{AssignedTo: &other, Page: 1, Limit: 10})
	require.NoError(t, err)
	// The owner filter is overridden, not merged.
	require.NotNil(t, repo.lastFilter.AssignedTo)
	assert.Equal(t, int64(3), *repo.lastFilter.AssignedTo)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(3), tasks[0].AssignedTo)
}

func TestTaskCreateAgentCannotAssignOthers(t *testing.T) {
	repo, users := taskFixture()
	svc := newTaskService(repo, users, &mockAudit{}, &mockNotifier{}, false)
	agent := policy.Caller{ID: 3, Role: models.RoleAgent}

	_, err := svc.Create(context.Background(), agent, models.CreateTaskRequest{
		Title: "Shadow work", DueDate: time.Now().Add(time.Hour), AssignedTo: 4,
	}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestTaskCreateRejectsInactiveAssignee(t *testing.T) {
	repo, users := taskFixture()
	svc := newTaskService(repo, users, &mockAudit{}, &mockNotifier{}, false)
	supervisor := policy.Caller{ID: 2, Role: models.RoleSupervisor}

	_, err := svc.Create(context.Background(), supervisor, models.CreateTaskRequest{
		Title: "Dead letter", DueDate: time.Now().Add(time.Hour), AssignedTo: 5,
	}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBusinessRule.Code, appErrors.FromError(err).Code)
}

func TestTaskCreateNotifiesAssigneeAndAudits(t *testing.T) {
	repo, users := taskFixture()
	audit := &mockAudit{}
	notes := &mockNotifier{}
	svc := newTaskService(repo, users, audit, notes, false)
	supervisor := policy.Caller{ID: 2, Role: models.RoleSupervisor}

	task, err := svc.Create(context.Background(), supervisor, models.CreateTaskRequest{
		Title: "Prepare summary", DueDate: time.Now().Add(time.Hour), AssignedTo: 3,
	}, models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionCreate, audit.entries[0].Action)
	require.Len(t, notes.sent, 1)
	assert.Equal(t, int64(3), notes.sent[0].UserID)
}

func TestTaskStatusStrictTransitions(t *testing.T) {
	repo, users := taskFixture()
	svc := newTaskService(repo, users, &mockAudit{}, &mockNotifier{}, true)
	supervisor := policy.Caller{ID: 2, Role: models.RoleSupervisor}

	_, err := svc.UpdateStatus(context.Background(), supervisor, 1, models.TaskCompleted, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBusinessRule.Code, appErrors.FromError(err).Code)

	updated, err := svc.UpdateStatus(context.Background(), supervisor, 1, models.TaskInProgress, models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProgress, updated.Status)
}

func TestTaskStatusLenientWhenStrictDisabled(t *testing.T) {
	repo, users := taskFixture()
	svc := newTaskService(repo, users, &mockAudit{}, &mockNotifier{}, false)
	supervisor := policy.Caller{ID: 2, Role: models.RoleSupervisor}

	updated, err := svc.UpdateStatus(context.Background(), supervisor, 1, models.TaskCompleted, models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, updated.Status)
}

func TestTaskDeleteAgentOnlyAsAssigner(t *testing.T) {
	repo, users := taskFixture()
	audit := &mockAudit{}
	svc := newTaskService(repo, users, audit, &mockNotifier{}, false)

	assignee := policy.Caller{ID: 3, Role: models.RoleAgent}
	err := svc.Delete(context.Background(), assignee, 1, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	supervisor := policy.Caller{ID: 2, Role: models.RoleSupervisor}
	require.NoError(t, svc.Delete(context.Background(), supervisor, 1, models.RequestMeta{}))
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionDelete, audit.entries[0].Action)
}

func TestTaskGetHiddenFromOtherAgents(t *testing.T) {
	repo, users := taskFixture()
	svc := newTaskService(repo, users, &mockAudit{}, &mockNotifier{}, false)
	agent := policy.Caller{ID: 3, Role: models.RoleAgent}

	_, err := svc.GetByID(context.Background(), agent, 2)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	task, err := svc.GetByID(context.Background(), agent, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), task.ID)
}
