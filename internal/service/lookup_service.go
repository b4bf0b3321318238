package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dnothi-api/internal/models"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
)

type lookupRepository interface {
	Categories(ctx context.Context) ([]models.Lookup, error)
	Offices(ctx context.Context) ([]models.Lookup, error)
	Sources(ctx context.Context) ([]models.Lookup, error)
	Services(ctx context.Context, categoryID *int64) ([]models.ServiceItem, error)
	LeaveTypes(ctx context.Context) ([]models.LeaveType, error)
}

// LookupService serves the dropdown reference data, cached in Redis since it
// changes rarely and is read on nearly every form load.
type LookupService struct {
	repo   lookupRepository
	cache  statsCache
	logger *zap.Logger
	ttl    time.Duration
}

// NewLookupService constructs a LookupService instance.
func NewLookupService(repo lookupRepository, cache statsCache, logger *zap.Logger, ttl time.Duration) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &LookupService{repo: repo, cache: cache, logger: logger, ttl: ttl}
}

// Categories returns the active task categories.
func (s *LookupService) Categories(ctx context.Context) ([]models.Lookup, error) {
	return cachedLookup(ctx, s, "dropdown:categories", s.repo.Categories)
}

// Offices returns the active offices.
func (s *LookupService) Offices(ctx context.Context) ([]models.Lookup, error) {
	return cachedLookup(ctx, s, "dropdown:offices", s.repo.Offices)
}

// Sources returns the active task sources.
func (s *LookupService) Sources(ctx context.Context) ([]models.Lookup, error) {
	return cachedLookup(ctx, s, "dropdown:sources", s.repo.Sources)
}

// Services returns active services, optionally limited to one category. The
// unfiltered list is cached; category-filtered reads go to the database.
func (s *LookupService) Services(ctx context.Context, categoryID *int64) ([]models.ServiceItem, error) {
	if categoryID != nil {
		items, err := s.repo.Services(ctx, categoryID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load services")
		}
		return items, nil
	}
	return cachedLookup(ctx, s, "dropdown:services", func(ctx context.Context) ([]models.ServiceItem, error) {
		return s.repo.Services(ctx, nil)
	})
}

// LeaveTypes returns the active leave types.
func (s *LookupService) LeaveTypes(ctx context.Context) ([]models.LeaveType, error) {
	return cachedLookup(ctx, s, "dropdown:leave_types", s.repo.LeaveTypes)
}

func cachedLookup[T any](ctx context.Context, s *LookupService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var cached []T
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	items, err := load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s", key))
	}

	s.cache.Set(ctx, key, items, s.ttl)
	return items, nil
}
