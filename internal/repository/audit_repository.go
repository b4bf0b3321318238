package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/query"
)

const auditColumns = `al.id, al.user_id, al.table_name, al.action_type, al.record_id,
	al.old_values, al.new_values, al.ip_address, al.user_agent, al.created_at,
	u.name AS user_name`

// AuditRepository provides append and read access to the audit trail. Entries
// are never updated; the only delete path is the retention purge.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new instance of AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends an audit entry.
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO audit_logs (user_id, table_name, action_type, record_id, old_values, new_values, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowContext(ctx, q,
		entry.UserID, entry.TableName, entry.ActionType, entry.RecordID,
		entry.OldValues, entry.NewValues, entry.IPAddress, entry.UserAgent, entry.CreatedAt,
	).Scan(&entry.ID); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// List returns audit entries matching the filter with the total count.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, int, error) {
	qb := query.New(auditColumns, "audit_logs al").
		Join("LEFT JOIN users u ON al.user_id = u.id").
		Equal("al.user_id", filter.UserID).
		Equal("al.action_type", filter.ActionType).
		Equal("al.table_name", filter.TableName).
		Between("al.created_at", filter.DateFrom, filter.DateTo).
		OrderBy("al.created_at DESC")

	dataSQL, countSQL, args := qb.Build(filter.Page, filter.Limit)

	entries := []models.AuditLog{}
	if err := r.db.SelectContext(ctx, &entries, dataSQL, args...); err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countSQL, args...); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	return entries, total, nil
}

// Recent returns the latest entries for the admin statistics view.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 10
	}
	q := fmt.Sprintf(`SELECT %s FROM audit_logs al LEFT JOIN users u ON al.user_id = u.id ORDER BY al.created_at DESC LIMIT %d`, auditColumns, limit)
	entries := []models.AuditLog{}
	if err := r.db.SelectContext(ctx, &entries, q); err != nil {
		return nil, fmt.Errorf("recent audit logs: %w", err)
	}
	return entries, nil
}

// PurgeOlderThan deletes entries older than the cutoff and reports the count.
func (r *AuditRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM audit_logs WHERE created_at < $1`
	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge audit logs: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge audit logs rows affected: %w", err)
	}
	return removed, nil
}
