package service

import (
	"context"
	"testing"
	"time"

	"ai-shopsearch-be/internal/dto"
	"ai-shopsearch-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// unreachableRedis returns a client for an address nothing listens on, so
// every command fails fast with a connection error.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
	})
}

func TestCacheService_UnreachableRedisDegrades(t *testing.T) {
	svc := NewCacheService(unreachableRedis(), logger.NewNopLogger())
	ctx := context.Background()

	var dest dto.SearchResponse
	assert.False(t, svc.GetJSON(ctx, "v0:ai_search:q", &dest))

	// Store failure is swallowed, the caller already has the response.
	svc.SetJSON(ctx, "v0:ai_search:q", &dto.SearchResponse{}, time.Minute)

	// Version lookup falls back to the cold namespace.
	assert.Equal(t, "v0:ai_search:q", svc.VersionedKey(ctx, "ai_search:q"))

	assert.Error(t, svc.BumpVersion(ctx))
}

func TestCacheService_UnmarshalableValueSkipsStore(t *testing.T) {
	svc := NewCacheService(unreachableRedis(), logger.NewNopLogger())

	// A channel cannot be marshaled. The store is skipped before Redis is
	// even dialed, and nothing panics.
	svc.SetJSON(context.Background(), "v0:bad", make(chan int), time.Minute)
}
