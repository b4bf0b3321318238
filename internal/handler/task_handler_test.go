package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/dnothi-api/internal/middleware"
	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/service"
)

type stubTaskRepo struct {
	tasks      []models.Task
	lastFilter models.TaskFilter
}

func (s *stubTaskRepo) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error) {
	s.lastFilter = filter
	return s.tasks, len(s.tasks), nil
}

func (s *stubTaskRepo) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			copy := t
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubTaskRepo) Create(ctx context.Context, task *models.Task) error {
	task.ID = int64(len(s.tasks) + 1)
	s.tasks = append(s.tasks, *task)
	return nil
}

func (s *stubTaskRepo) Update(ctx context.Context, task *models.Task) error      { return nil }
func (s *stubTaskRepo) UpdateStatus(ctx context.Context, id int64, status models.TaskStatus) error {
	return nil
}
func (s *stubTaskRepo) Delete(ctx context.Context, id int64) error { return nil }
func (s *stubTaskRepo) ListOverdue(ctx context.Context, now time.Time) ([]models.Task, error) {
	return nil, nil
}

type stubTaskUsers struct{}

func (s *stubTaskUsers) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return &models.User{ID: id, IsActive: true}, nil
}

type noopAudit struct{}

func (noopAudit) Record(ctx context.Context, actorID int64, table, action string, recordID *int64, oldValue, newValue interface{}, meta models.RequestMeta) {
}

type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, userID int64, title, message, kind string, relatedID *int64, relatedType *string) {
}

func taskTestContext(t *testing.T, claims *models.JWTClaims, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	c.Request = httptest.NewRequest(method, target, reader)
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, rec
}

func newTaskHandler(repo *stubTaskRepo) *TaskHandler {
	svc := service.NewTaskService(repo, &stubTaskUsers{}, noopAudit{}, noopNotifier{}, validator.New(), zap.NewNop(), false)
	return NewTaskHandler(svc)
}

func TestTaskListParsesFiltersAndScopesAgents(t *testing.T) {
	repo := &stubTaskRepo{tasks: []models.Task{{ID: 1, AssignedTo: 3}}}
	handler := newTaskHandler(repo)

	claims := &models.JWTClaims{UserID: 3, Role: models.RoleAgent}
	c, rec := taskTestContext(t, claims, http.MethodGet, "/tasks?status=Pending&assigned_to=99&page=2&limit=5", "")

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, models.TaskPending, *repo.lastFilter.Status)
	assert.Equal(t, 2, repo.lastFilter.Page)
	assert.Equal(t, 5, repo.lastFilter.Limit)
	// The caller-supplied owner filter is overridden for Agents.
	require.NotNil(t, repo.lastFilter.AssignedTo)
	assert.Equal(t, int64(3), *repo.lastFilter.AssignedTo)
}

func TestTaskListRequiresAuthentication(t *testing.T) {
	handler := newTaskHandler(&stubTaskRepo{})
	c, rec := taskTestContext(t, nil, http.MethodGet, "/tasks", "")

	handler.List(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTaskCreateRejectsMalformedBody(t *testing.T) {
	handler := newTaskHandler(&stubTaskRepo{})
	claims := &models.JWTClaims{UserID: 2, Role: models.RoleSupervisor}
	c, rec := taskTestContext(t, claims, http.MethodPost, "/tasks", "{not json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskCreateReturnsCreatedEnvelope(t *testing.T) {
	repo := &stubTaskRepo{}
	handler := newTaskHandler(repo)
	claims := &models.JWTClaims{UserID: 2, Role: models.RoleSupervisor}
	body := `{"title":"Prepare summary","due_date":"2026-09-15T00:00:00Z","assigned_to":3}`
	c, rec := taskTestContext(t, claims, http.MethodPost, "/tasks", body)

	handler.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	var envelope struct {
		Data models.Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Prepare summary", envelope.Data.Title)
	assert.Equal(t, models.TaskPending, envelope.Data.Status)
}

func TestTaskGetRejectsNonNumericID(t *testing.T) {
	handler := newTaskHandler(&stubTaskRepo{})
	claims := &models.JWTClaims{UserID: 2, Role: models.RoleSupervisor}
	c, rec := taskTestContext(t, claims, http.MethodGet, "/tasks/abc", "")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
