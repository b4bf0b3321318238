package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/policy"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
)

type mockReportTasks struct {
	rows []models.Task
}

func (m *mockReportTasks) ListAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	return m.rows, nil
}

type mockReportLeaves struct {
	rows []models.Leave
}

func (m *mockReportLeaves) ListAll(ctx context.Context, filter models.LeaveFilter) ([]models.Leave, error) {
	return m.rows, nil
}

func reportFixture() *ReportService {
	name := "Rahim"
	tasks := &mockReportTasks{rows: []models.Task{{
		ID: 1, Title: "File report", Status: models.TaskPending, Priority: models.PriorityHigh,
		DueDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), AssignedToName: &name,
	}}}
	leaves := &mockReportLeaves{rows: []models.Leave{{
		ID: 1, UserID: 3, Status: models.LeaveApproved,
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		UserName:  &name,
	}}}
	return NewReportService(tasks, leaves, nil, nil, zap.NewNop())
}

func TestReportsForbiddenForAgents(t *testing.T) {
	svc := reportFixture()
	agent := policy.Caller{ID: 3, Role: models.RoleAgent}

	_, err := svc.TaskRows(context.Background(), agent, models.TaskFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.LeaveFile(context.Background(), agent, models.LeaveFilter{}, models.ReportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestTaskReportTalliesByStatusAndPriority(t *testing.T) {
	svc := reportFixture()
	supervisor := policy.Caller{ID: 2, Role: models.RoleSupervisor}

	report, err := svc.TaskReport(context.Background(), supervisor, models.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, []models.StatusCount{{Label: string(models.TaskPending), Count: 1}}, report.ByStatus)
	assert.Equal(t, []models.StatusCount{{Label: string(models.PriorityHigh), Count: 1}}, report.ByPriority)
}

func TestTaskReportCSV(t *testing.T) {
	svc := reportFixture()
	supervisor := policy.Caller{ID: 2, Role: models.RoleSupervisor}

	file, err := svc.TaskFile(context.Background(), supervisor, models.TaskFilter{}, models.ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	body := string(file.Payload)
	assert.Contains(t, body, "ID,Title,Status")
	assert.Contains(t, body, "File report")
	assert.Contains(t, body, "Rahim")
}

func TestLeaveReportPDF(t *testing.T) {
	svc := reportFixture()
	supervisor := policy.Caller{ID: 2, Role: models.RoleSupervisor}

	file, err := svc.LeaveFile(context.Background(), supervisor, models.LeaveFilter{}, models.ReportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Payload), "%PDF"))
}

func TestReportRejectsUnknownFormat(t *testing.T) {
	svc := reportFixture()
	supervisor := policy.Caller{ID: 2, Role: models.RoleSupervisor}

	_, err := svc.TaskFile(context.Background(), supervisor, models.TaskFilter{}, models.ReportFormat("xml"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
