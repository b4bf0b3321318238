package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/dnothi-api/internal/models"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
)

type mockStatsRepo struct {
	calls int
}

func (m *mockStatsRepo) UserCounts(ctx context.Context) (int, int, []models.StatusCount, error) {
	m.calls++
	return 12, 10, []models.StatusCount{{Label: "Agent", Count: 8}}, nil
}

func (m *mockStatsRepo) TaskCounts(ctx context.Context, now time.Time) (int, []models.StatusCount, []models.StatusCount, int, error) {
	return 40, []models.StatusCount{{Label: "Pending", Count: 25}}, []models.StatusCount{{Label: "High", Count: 9}}, 4, nil
}

func (m *mockStatsRepo) LeaveCounts(ctx context.Context) (int, []models.StatusCount, error) {
	return 6, []models.StatusCount{{Label: "Pending", Count: 2}}, nil
}

type mockAuditReader struct{}

func (m *mockAuditReader) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return []models.AuditLog{{ID: 1, TableName: "tasks", ActionType: models.AuditActionCreate}}, nil
}

type memoryCache struct {
	data map[string][]byte
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c.data == nil {
		c.data = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.data[key] = raw
}

func (c *memoryCache) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		delete(c.data, key)
	}
}

func TestDashboardCachesAggregate(t *testing.T) {
	repo := &mockStatsRepo{}
	cache := &memoryCache{}
	svc := NewStatsService(repo, &mockAuditReader{}, cache, zap.NewNop(), time.Minute)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalUsers)
	assert.Equal(t, 4, stats.OverdueTasks)
	assert.Len(t, stats.RecentActivity, 1)
	assert.Equal(t, 1, repo.calls)

	// Second read is served from cache.
	_, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)

	svc.Invalidate(context.Background())
	_, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
