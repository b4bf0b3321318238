package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dnothi-api/internal/models"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
)

const statsCacheKey = "stats:dashboard"

type statsRepository interface {
	UserCounts(ctx context.Context) (total, active int, byRole []models.StatusCount, err error)
	TaskCounts(ctx context.Context, now time.Time) (total int, byStatus, byPriority []models.StatusCount, overdue int, err error)
	LeaveCounts(ctx context.Context) (total int, byStatus []models.StatusCount, err error)
}

type recentAuditReader interface {
	Recent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Invalidate(ctx context.Context, keys ...string)
}

// StatsService assembles the admin dashboard aggregate, cached in Redis for a
// short window since it touches several tables.
type StatsService struct {
	repo   statsRepository
	audits recentAuditReader
	cache  statsCache
	logger *zap.Logger
	ttl    time.Duration
}

// NewStatsService constructs a StatsService instance.
func NewStatsService(repo statsRepository, audits recentAuditReader, cache statsCache, logger *zap.Logger, ttl time.Duration) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StatsService{repo: repo, audits: audits, cache: cache, logger: logger, ttl: ttl}
}

// Dashboard returns the aggregate counters, serving from cache when fresh.
func (s *StatsService) Dashboard(ctx context.Context) (*models.Statistics, error) {
	var cached models.Statistics
	if err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil {
		return &cached, nil
	}

	stats := &models.Statistics{}

	var err error
	if stats.TotalUsers, stats.ActiveUsers, stats.UsersByRole, err = s.repo.UserCounts(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate user stats")
	}

	if stats.TotalTasks, stats.TasksByStatus, stats.TasksByPriority, stats.OverdueTasks, err = s.repo.TaskCounts(ctx, time.Now().UTC()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate task stats")
	}

	if stats.TotalLeaves, stats.LeavesByStatus, err = s.repo.LeaveCounts(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate leave stats")
	}

	if stats.RecentActivity, err = s.audits.Recent(ctx, 10); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent activity")
	}

	s.cache.Set(ctx, statsCacheKey, stats, s.ttl)

	return stats, nil
}

// Invalidate drops the cached dashboard, forcing a rebuild on the next read.
func (s *StatsService) Invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, statsCacheKey)
}
