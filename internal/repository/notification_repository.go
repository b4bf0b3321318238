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

const notificationColumns = `id, user_id, title, message, type, related_id, related_type, is_read, created_at`

// NotificationRepository provides database access for notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification and fills in its generated id.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO notifications (user_id, title, message, type, related_id, related_type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.QueryRowContext(ctx, q,
		n.UserID, n.Title, n.Message, n.Type, n.RelatedID, n.RelatedType, n.IsRead, n.CreatedAt,
	).Scan(&n.ID); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// FindByID returns a notification by identifier.
func (r *NotificationRepository) FindByID(ctx context.Context, id int64) (*models.Notification, error) {
	q := fmt.Sprintf(`SELECT %s FROM notifications WHERE id = $1 LIMIT 1`, notificationColumns)
	var n models.Notification
	if err := r.db.GetContext(ctx, &n, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find notification by id: %w", err)
	}
	return &n, nil
}

// ListByUser returns one account's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	qb := query.New(notificationColumns, "notifications").
		Where("user_id = ?", filter.UserID)
	if filter.UnreadOnly {
		qb.Where("is_read = ?", false)
	}

	dataSQL, countSQL, args := qb.Build(filter.Page, filter.Limit)

	items := []models.Notification{}
	if err := r.db.SelectContext(ctx, &items, dataSQL, args...); err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countSQL, args...); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	return items, total, nil
}

// UnreadCount returns the number of unread notifications for an account.
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`
	var count int
	if err := r.db.GetContext(ctx, &count, q, userID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags a single notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	const q = `UPDATE notifications SET is_read = TRUE WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead flags every unread notification of an account as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	const q = `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`
	if _, err := r.db.ExecContext(ctx, q, userID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// Delete removes a notification row.
func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM notifications WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

// PurgeReadOlderThan deletes read notifications older than the cutoff.
func (r *NotificationRepository) PurgeReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM notifications WHERE created_at < $1 AND is_read = TRUE`
	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge notifications rows affected: %w", err)
	}
	return removed, nil
}
