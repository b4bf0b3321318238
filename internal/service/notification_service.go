package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dnothi-api/internal/models"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
	"github.com/noah-isme/dnothi-api/pkg/response"
)

type notificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	FindByID(ctx context.Context, id int64) (*models.Notification, error)
	ListByUser(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	Delete(ctx context.Context, id int64) error
	PurgeReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NotificationService manages per-account dashboard notifications. Delivery is
// a side channel of business operations and is never allowed to fail them.
type NotificationService struct {
	repo   notificationRepository
	logger *zap.Logger
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(repo notificationRepository, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, logger: logger}
}

// Notify creates a notification for the given account, best effort.
func (s *NotificationService) Notify(ctx context.Context, userID int64, title, message, kind string, relatedID *int64, relatedType *string) {
	n := &models.Notification{
		UserID:      userID,
		Title:       title,
		Message:     message,
		Type:        kind,
		RelatedID:   relatedID,
		RelatedType: relatedType,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn("failed to create notification",
			zap.Int64("user_id", userID),
			zap.String("type", kind),
			zap.Error(err),
		)
	}
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, *response.Pagination, error) {
	items, total, err := s.repo.ListByUser(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return items, response.NewPagination(filter.Page, filter.Limit, total), nil
}

// UnreadCount returns the caller's unread count for the badge.
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notifications")
	}
	return count, nil
}

// MarkRead marks one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	n, err := s.ownedByCaller(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.MarkRead(ctx, n.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	return nil
}

// MarkAllRead marks every unread notification for the caller as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	return nil
}

// Delete removes one of the caller's notifications.
func (s *NotificationService) Delete(ctx context.Context, userID, id int64) error {
	n, err := s.ownedByCaller(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, n.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notification")
	}
	return nil
}

// PurgeReadOlderThan removes read notifications older than the horizon in days.
func (s *NotificationService) PurgeReadOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	return s.repo.PurgeReadOlderThan(ctx, cutoff)
}

// ownedByCaller loads a notification and hides it from non-owners. Another
// account's notification reads as not found, not forbidden.
func (s *NotificationService) ownedByCaller(ctx context.Context, userID, id int64) (*models.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notification")
	}
	if n.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "notification not found")
	}
	return n, nil
}
