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

func auditRows(now time.Time) *sqlmock.Rows {
	cols := []string{
		"id", "user_id", "table_name", "action_type", "record_id",
		"old_values", "new_values", "ip_address", "user_agent", "created_at",
		"user_name",
	}
	return sqlmock.NewRows(cols).
		AddRow(int64(1), int64(2), "tasks", "CREATE", int64(5),
			nil, []byte(`{"title":"File report"}`), "10.0.0.1", "curl", now,
			"Karim")
}

func TestAuditCreateReturnsGeneratedID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectQuery("INSERT INTO audit_logs").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	actor := int64(2)
	entry := &models.AuditLog{UserID: &actor, TableName: "tasks", ActionType: "CREATE", IPAddress: "10.0.0.1", UserAgent: "curl"}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.Equal(t, int64(3), entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditListFiltersByActorAndWindow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	actor := int64(2)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE al.user_id = $1 AND al.created_at BETWEEN $2 AND $3 ORDER BY al.created_at DESC LIMIT 10 OFFSET 0")).
		WithArgs(actor, from, to).
		WillReturnRows(auditRows(from))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM audit_logs al WHERE al.user_id = $1 AND al.created_at BETWEEN $2 AND $3")).
		WithArgs(actor, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	entries, total, err := repo.List(context.Background(), models.AuditFilter{UserID: &actor, DateFrom: &from, DateTo: &to})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditPurgeOlderThanReportsRemoved(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	cutoff := time.Now().AddDate(0, 0, -90)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM audit_logs WHERE created_at < $1")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 42))

	removed, err := repo.PurgeOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(42), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
