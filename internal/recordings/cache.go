package recordings

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/meetcapture/backend/internal/models"
)

const (
	cacheKeyUpcoming = "recordings:upcoming"
	cacheKeyPast     = "recordings:past"
	// cacheTTL bounds staleness from writers outside this process (the
	// post-processing worker moves recordings between the two lists).
	cacheTTL = 30 * time.Second
)

// ListCache caches the upcoming/past list responses in Redis. It is a pure
// read accelerator: misses and Redis failures fall through to the gateway,
// and every local mutation invalidates both keys.
type ListCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewListCache creates a list cache. A nil client disables caching.
func NewListCache(client *redis.Client, logger *zap.Logger) *ListCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListCache{client: client, logger: logger}
}

func (c *ListCache) get(ctx context.Context, key string) ([]models.Recording, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("list cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var list []models.Recording
	if err := json.Unmarshal(raw, &list); err != nil {
		c.logger.Warn("list cache decode failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return list, true
}

func (c *ListCache) set(ctx context.Context, key string, list []models.Recording) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		c.logger.Warn("list cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// GetUpcoming returns the cached upcoming list if present.
func (c *ListCache) GetUpcoming(ctx context.Context) ([]models.Recording, bool) {
	return c.get(ctx, cacheKeyUpcoming)
}

// SetUpcoming stores the upcoming list.
func (c *ListCache) SetUpcoming(ctx context.Context, list []models.Recording) {
	c.set(ctx, cacheKeyUpcoming, list)
}

// GetPast returns the cached past list if present.
func (c *ListCache) GetPast(ctx context.Context) ([]models.Recording, bool) {
	return c.get(ctx, cacheKeyPast)
}

// SetPast stores the past list.
func (c *ListCache) SetPast(ctx context.Context, list []models.Recording) {
	c.set(ctx, cacheKeyPast, list)
}

// Invalidate drops both cached lists. Called after every confirmed mutation,
// never before: a failed gateway call must leave the previous view intact.
func (c *ListCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKeyUpcoming, cacheKeyPast).Err(); err != nil {
		c.logger.Warn("list cache invalidate failed", zap.Error(err))
	}
}
