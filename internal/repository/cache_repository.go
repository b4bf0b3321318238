package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
)

// CacheRepository wraps Redis for caching read models (statistics, dropdown
// lists). A nil client degrades to a permanent miss so the API works without
// Redis.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository constructs a cache repository.
func NewCacheRepository(client *redis.Client, logger *zap.Logger) *CacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{client: client, logger: logger}
}

// Get retrieves and unmarshals the cached value into the provided destination.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}

	return nil
}

// Set marshals the provided value and stores it with the given TTL. Failures
// are logged and swallowed; the cache is never load-bearing.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if r.client == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("marshal cache value", zap.String("key", key), zap.Error(err))
		return
	}

	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		r.logger.Warn("redis set", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes keys, logging failures.
func (r *CacheRepository) Invalidate(ctx context.Context, keys ...string) {
	if r.client == nil || len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn("redis del", zap.Strings("keys", keys), zap.Error(err))
	}
}
