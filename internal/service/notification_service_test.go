package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/dnothi-api/internal/models"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
)

type mockNotificationRepo struct {
	notifications map[int64]*models.Notification
	nextID        int64
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if m.notifications == nil {
		m.notifications = make(map[int64]*models.Notification)
	}
	m.nextID++
	n.ID = m.nextID
	copy := *n
	m.notifications[n.ID] = &copy
	return nil
}

func (m *mockNotificationRepo) FindByID(ctx context.Context, id int64) (*models.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		copy := *n
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockNotificationRepo) ListByUser(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	var items []models.Notification
	for _, n := range m.notifications {
		if n.UserID != filter.UserID {
			continue
		}
		if filter.UnreadOnly && n.IsRead {
			continue
		}
		items = append(items, *n)
	}
	return items, len(items), nil
}

func (m *mockNotificationRepo) UnreadCount(ctx context.Context, userID int64) (int, error) {
	count := 0
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id int64) error {
	n, ok := m.notifications[id]
	if !ok {
		return sql.ErrNoRows
	}
	n.IsRead = true
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID int64) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) Delete(ctx context.Context, id int64) error {
	delete(m.notifications, id)
	return nil
}

func (m *mockNotificationRepo) PurgeReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	for id, n := range m.notifications {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			delete(m.notifications, id)
			removed++
		}
	}
	return removed, nil
}

func notificationFixture() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: map[int64]*models.Notification{
		1: {ID: 1, UserID: 3, Title: "New task assigned", Type: "task_assigned"},
		2: {ID: 2, UserID: 3, Title: "Leave request Approved", Type: "leave_decision", IsRead: true},
		3: {ID: 3, UserID: 4, Title: "New task assigned", Type: "task_assigned"},
	}, nextID: 3}
}

func TestNotificationsHiddenFromOtherUsers(t *testing.T) {
	svc := NewNotificationService(notificationFixture(), zap.NewNop())

	// Another account's notification reads as not found, not forbidden.
	err := svc.MarkRead(context.Background(), 3, 3)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	err = svc.Delete(context.Background(), 3, 3)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestNotificationMarkReadAndCount(t *testing.T) {
	repo := notificationFixture()
	svc := NewNotificationService(repo, zap.NewNop())

	count, err := svc.UnreadCount(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, svc.MarkRead(context.Background(), 3, 1))

	count, err = svc.UnreadCount(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestNotificationPurgeKeepsUnread(t *testing.T) {
	repo := notificationFixture()
	old := time.Now().UTC().AddDate(0, 0, -60)
	for _, n := range repo.notifications {
		n.CreatedAt = old
	}
	svc := NewNotificationService(repo, zap.NewNop())

	removed, err := svc.PurgeReadOlderThan(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Len(t, repo.notifications, 2)
}
