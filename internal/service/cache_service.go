package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ai-shopsearch-be/internal/metrics"
	"ai-shopsearch-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "cache_ns_version"

// ICacheService is the Redis-backed result cache. Every method degrades to a
// no-op when Redis is unreachable, a broken cache must never break search.
type ICacheService interface {
	// GetJSON loads key into dest, reporting whether it was a hit.
	GetJSON(ctx context.Context, key string, dest interface{}) bool
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration)
	// VersionedKey prefixes key with the current namespace version so a
	// version bump invalidates everything at once without scanning keys.
	VersionedKey(ctx context.Context, key string) string
	// BumpVersion moves the namespace forward after catalog mutations.
	BumpVersion(ctx context.Context) error
}

type cacheService struct {
	rdb *redis.Client
	log logger.ILogger
}

func NewCacheService(rdb *redis.Client, log logger.ILogger) ICacheService {
	return &cacheService{
		rdb: rdb,
		log: log,
	}
}

func (c *cacheService) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache", "redis get failed, treating as miss", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
			metrics.CacheTotal.WithLabelValues("bypass").Inc()
			return false
		}
		metrics.CacheTotal.WithLabelValues("miss").Inc()
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("cache", "corrupt cache entry, treating as miss", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		metrics.CacheTotal.WithLabelValues("miss").Inc()
		return false
	}

	metrics.CacheTotal.WithLabelValues("hit").Inc()
	return true
}

func (c *cacheService) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache", "failed to marshal cache value", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	if err := c.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.log.Warn("cache", "redis set failed, skipping store", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (c *cacheService) VersionedKey(ctx context.Context, key string) string {
	// Missing version reads as "0". The first bump INCRs to 1, which differs
	// from the default, so invalidation works from a cold namespace too.
	version, err := c.rdb.Get(ctx, cacheVersionKey).Result()
	if err != nil {
		version = "0"
	}
	return "v" + version + ":" + key
}

func (c *cacheService) BumpVersion(ctx context.Context) error {
	return c.rdb.Incr(ctx, cacheVersionKey).Err()
}
