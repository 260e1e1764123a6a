package memory

import (
	"context"

	"ai-shopsearch-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const popularSearchesKey = "popular_searches"

// PopularSearchesRepository keeps the query-frequency leaderboard in a Redis
// sorted set. The analytics consumer bumps it, the popular endpoint reads it.
type PopularSearchesRepository struct {
	rdb *redis.Client
}

func NewPopularSearchesRepository(rdb *redis.Client) *PopularSearchesRepository {
	return &PopularSearchesRepository{
		rdb: rdb,
	}
}

// Bump increments the score of a normalized query by one.
func (r *PopularSearchesRepository) Bump(ctx context.Context, query string) error {
	return r.rdb.ZIncrBy(ctx, popularSearchesKey, 1, query).Err()
}

// Top returns the highest scoring queries, best first.
func (r *PopularSearchesRepository) Top(ctx context.Context, limit int) ([]*contract.PopularQuery, error) {
	if limit <= 0 {
		limit = 10
	}

	members, err := r.rdb.ZRevRangeWithScores(ctx, popularSearchesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	queries := make([]*contract.PopularQuery, 0, len(members))
	for _, m := range members {
		query, ok := m.Member.(string)
		if !ok {
			continue
		}
		queries = append(queries, &contract.PopularQuery{
			Query: query,
			Count: int64(m.Score),
		})
	}
	return queries, nil
}
