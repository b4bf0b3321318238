package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dnothi-api/internal/models"
)

func leaveRows(now time.Time) *sqlmock.Rows {
	cols := []string{
		"id", "user_id", "leave_type_id", "start_date", "end_date", "status",
		"approved_by", "comments", "reason", "created_at",
		"user_name", "approved_by_name", "leave_type_name",
	}
	return sqlmock.NewRows(cols).
		AddRow(int64(1), int64(3), int64(1), now, now.AddDate(0, 0, 2), string(models.LeavePending),
			nil, nil, "family matter", now,
			"Rahim", nil, "Casual")
}

func TestLeaveListScopedToOwner(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	owner := int64(3)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE l.user_id = $1 ORDER BY l.created_at DESC LIMIT 10 OFFSET 0")).
		WithArgs(owner).
		WillReturnRows(leaveRows(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM leaves l WHERE l.user_id = $1")).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	leaves, total, err := repo.List(context.Background(), models.LeaveFilter{UserID: &owner})
	require.NoError(t, err)
	assert.Len(t, leaves, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveCreateForcesPending(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	mock.ExpectQuery("INSERT INTO leaves").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	leave := &models.Leave{UserID: 3, LeaveTypeID: 1, StartDate: time.Now(), EndDate: time.Now(), Status: models.LeaveApproved, Reason: "x"}
	require.NoError(t, repo.Create(context.Background(), leave))
	assert.Equal(t, int64(9), leave.ID)
	assert.Equal(t, models.LeavePending, leave.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveUpdateStatusRecordsApprover(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	comments := "enjoy"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE leaves SET status = $2, approved_by = $3, comments = $4 WHERE id = $1")).
		WithArgs(int64(1), string(models.LeaveApproved), int64(2), comments).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), 1, models.LeaveApproved, 2, &comments)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveHasOverlapChecksThreeWayWindow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE user_id = $1 AND status != $2 AND ((start_date BETWEEN $3 AND $4) OR (end_date BETWEEN $5 AND $6) OR (start_date <= $7 AND end_date >= $8))")).
		WithArgs(int64(3), string(models.LeaveRejected), start, end, start, end, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	overlap, err := repo.HasOverlap(context.Background(), 3, start, end, nil)
	require.NoError(t, err)
	assert.True(t, overlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}
