package contract

import (
	"context"

	"ai-shopsearch-be/internal/entity"
	"ai-shopsearch-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredProduct wraps Product with its similarity score
type ScoredProduct struct {
	Product    *entity.Product
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

// PriceStatistics aggregates the live catalog price distribution.
type PriceStatistics struct {
	Min    float64
	Max    float64
	Median float64
	P25    float64
	P75    float64
	Count  int64
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	CreateBulk(ctx context.Context, products []*entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Advanced
	// SearchByEmbedding runs the vector query with the price predicates
	// pushed into the same WHERE clause, so total reflects the filter.
	SearchByEmbedding(ctx context.Context, embedding []float32, minPrice, maxPrice *float64, limit, offset int) ([]*ScoredProduct, int64, error)
	// SearchCheapestByEmbedding is the price-fallback query: no price
	// predicate, cheapest results first.
	SearchCheapestByEmbedding(ctx context.Context, embedding []float32, limit, offset int) ([]*ScoredProduct, int64, error)
	// AutocompleteTitles lists distinct titles matching the prefix, optionally
	// narrowed to a price window.
	AutocompleteTitles(ctx context.Context, prefix string, minPrice, maxPrice *float64, limit int) ([]string, error)
	PriceStatistics(ctx context.Context) (*PriceStatistics, error)
}
