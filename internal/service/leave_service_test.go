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

type mockLeaveRepo struct {
	leaves  map[int64]*models.Leave
	nextID  int64
	overlap bool
}

func (m *mockLeaveRepo) List(ctx context.Context, filter models.LeaveFilter) ([]models.Leave, int, error) {
	var leaves []models.Leave
	for _, l := range m.leaves {
		if filter.UserID != nil && l.UserID != *filter.UserID {
			continue
		}
		leaves = append(leaves, *l)
	}
	return leaves, len(leaves), nil
}

func (m *mockLeaveRepo) FindByID(ctx context.Context, id int64) (*models.Leave, error) {
	if l, ok := m.leaves[id]; ok {
		copy := *l
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockLeaveRepo) Create(ctx context.Context, leave *models.Leave) error {
	if m.leaves == nil {
		m.leaves = make(map[int64]*models.Leave)
	}
	m.nextID++
	leave.ID = m.nextID
	leave.Status = models.LeavePending
	copy := *leave
	m.leaves[leave.ID] = &copy
	return nil
}

func (m *mockLeaveRepo) UpdateStatus(ctx context.Context, id int64, status models.LeaveStatus, approvedBy int64, comments *string) error {
	l, ok := m.leaves[id]
	if !ok {
		return sql.ErrNoRows
	}
	l.Status = status
	l.ApprovedBy = &approvedBy
	l.Comments = comments
	return nil
}

func (m *mockLeaveRepo) HasOverlap(ctx context.Context, userID int64, start, end time.Time, excludeID *int64) (bool, error) {
	return m.overlap, nil
}

type mockLeaveTypes struct {
	types map[int64]*models.LeaveType
}

func (m *mockLeaveTypes) FindLeaveType(ctx context.Context, id int64) (*models.LeaveType, error) {
	if lt, ok := m.types[id]; ok {
		copy := *lt
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func newLeaveService(repo *mockLeaveRepo, audit *mockAudit, notes *mockNotifier, overlapCheck bool) *LeaveService {
	types := &mockLeaveTypes{types: map[int64]*models.LeaveType{
		1: {ID: 1, Name: "Casual Leave", MaxDays: 10, IsActive: true},
		2: {ID: 2, Name: "Sick Leave", MaxDays: 3, IsActive: true},
	}}
	return NewLeaveService(repo, types, audit, notes, validator.New(), zap.NewNop(), overlapCheck)
}

func day(offset int) time.Time {
	return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func leaveFixture() *mockLeaveRepo {
	return &mockLeaveRepo{leaves: map[int64]*models.Leave{
		1: {ID: 1, UserID: 3, LeaveTypeID: 1, StartDate: day(0), EndDate: day(2), Status: models.LeavePending, Reason: "family"},
		2: {ID: 2, UserID: 4, LeaveTypeID: 1, StartDate: day(0), EndDate: day(1), Status: models.LeaveApproved, Reason: "travel"},
	}, nextID: 2}
}

func TestLeaveCreateRejectsReversedDates(t *testing.T) {
	svc := newLeaveService(leaveFixture(), &mockAudit{}, &mockNotifier{}, false)
	agent := policy.Caller{ID: 3, Role: models.RoleAgent}

	_, err := svc.Create(context.Background(), agent, models.CreateLeaveRequest{
		LeaveTypeID: 1, StartDate: day(5), EndDate: day(3), Reason: "typo",
	}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLeaveCreateEnforcesMaxDays(t *testing.T) {
	svc := newLeaveService(leaveFixture(), &mockAudit{}, &mockNotifier{}, false)
	agent := policy.Caller{ID: 3, Role: models.RoleAgent}

	_, err := svc.Create(context.Background(), agent, models.CreateLeaveRequest{
		LeaveTypeID: 2, StartDate: day(0), EndDate: day(5), Reason: "long recovery",
	}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBusinessRule.Code, appErrors.FromError(err).Code)
}

func TestLeaveCreateOverlapCheckFlag(t *testing.T) {
	repo := leaveFixture()
	repo.overlap = true

	// Disabled: overlapping windows are accepted.
	svc := newLeaveService(repo, &mockAudit{}, &mockNotifier{}, false)
	agent := policy.Caller{ID: 3, Role: models.RoleAgent}
	req := models.CreateLeaveRequest{LeaveTypeID: 1, StartDate: day(1), EndDate: day(2), Reason: "errand"}

	leave, err := svc.Create(context.Background(), agent, req, models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.LeavePending, leave.Status)

	// Enabled: the same request is refused.
	svc = newLeaveService(repo, &mockAudit{}, &mockNotifier{}, true)
	_, err = svc.Create(context.Background(), agent, req, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBusinessRule.Code, appErrors.FromError(err).Code)
}

func TestLeaveDecideIsOneShot(t *testing.T) {
	repo := leaveFixture()
	audit := &mockAudit{}
	notes := &mockNotifier{}
	svc := newLeaveService(repo, audit, notes, false)
	supervisor := policy.Caller{ID: 2, Role: models.RoleSupervisor}

	decided, err := svc.Decide(context.Background(), supervisor, 1, models.LeaveDecisionRequest{Status: models.LeaveApproved}, models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.LeaveApproved, decided.Status)
	require.NotNil(t, decided.ApprovedBy)
	assert.Equal(t, int64(2), *decided.ApprovedBy)

	// A second decision on the same request is refused.
	_, err = svc.Decide(context.Background(), supervisor, 1, models.LeaveDecisionRequest{Status: models.LeaveRejected}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBusinessRule.Code, appErrors.FromError(err).Code)
	assert.Equal(t, models.LeaveApproved, repo.leaves[1].Status)

	require.Len(t, audit.entries, 1)
	require.Len(t, notes.sent, 1)
	assert.Equal(t, int64(3), notes.sent[0].UserID)
}

func TestLeaveDecideNeverOnOwnRequest(t *testing.T) {
	repo := leaveFixture()
	repo.leaves[3] = &models.Leave{ID: 3, UserID: 2, LeaveTypeID: 1, StartDate: day(0), EndDate: day(1), Status: models.LeavePending, Reason: "own"}
	svc := newLeaveService(repo, &mockAudit{}, &mockNotifier{}, false)
	supervisor := policy.Caller{ID: 2, Role: models.RoleSupervisor}

	_, err := svc.Decide(context.Background(), supervisor, 3, models.LeaveDecisionRequest{Status: models.LeaveApproved}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestLeaveListScopesAgents(t *testing.T) {
	svc := newLeaveService(leaveFixture(), &mockAudit{}, &mockNotifier{}, false)
	agent := policy.Caller{ID: 3, Role: models.RoleAgent}

	other := int64(4)
	leaves, _, err := svc.List(context.Background(), agent, models.LeaveFilter{UserID: &other, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, int64(3), leaves[0].UserID)
}
