package contract

import (
	"context"
	"time"

	"ai-shopsearch-be/internal/entity"
	"ai-shopsearch-be/internal/repository/specification"
)

// PopularQuery is one row of the query-frequency aggregate.
type PopularQuery struct {
	Query string
	Count int64
}

type SearchEventRepository interface {
	Create(ctx context.Context, event *entity.SearchEvent) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SearchEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// PopularQueries aggregates query frequency since the given time. Used
	// as the fallback when the Redis leaderboard is unavailable.
	PopularQueries(ctx context.Context, since time.Time, limit int) ([]*PopularQuery, error)
}
