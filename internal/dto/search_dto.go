package dto

import (
	"github.com/google/uuid"
)

// SearchRequest is the validated form of the ai-search query string.
// Controllers fill defaults before validation, so the bounds are strict.
type SearchRequest struct {
	Query          string `json:"query" validate:"required,max=500"`
	Page           int    `json:"page" validate:"min=1"`
	Limit          int    `json:"limit" validate:"min=1,max=100"`
	TargetLanguage string `json:"target_language" validate:"oneof=nl en"`
}

// PriceFilter echoes back what the extractor decided. Applied is true when
// at least one bound made it into the store query. FallbackUsed is true when
// that window matched nothing and the cheapest-alternatives re-query ran.
type PriceFilter struct {
	Min          *float64 `json:"min"`
	Max          *float64 `json:"max"`
	Applied      bool     `json:"applied"`
	FallbackUsed bool     `json:"fallback_used"`
}

type CandidateResult struct {
	ProductId  uuid.UUID `json:"product_id"`
	Title      string    `json:"title"`
	Price      float64   `json:"price"`
	Category   string    `json:"category,omitempty"`
	Tags       []string  `json:"tags"`
	Similarity float64   `json:"similarity"` // 0.0-1.0 cosine similarity
}

type SearchResponse struct {
	Results     []CandidateResult `json:"results"`
	TotalCount  int64             `json:"total_count"`
	Page        int               `json:"page"`
	TotalPages  int               `json:"total_pages"`
	Limit       int               `json:"limit"`
	PriceFilter PriceFilter       `json:"price_filter"`
	Message     *string           `json:"message,omitempty"` // set only on price fallback
	CacheHit    bool              `json:"cache_hit"`
}

type AutocompleteRequest struct {
	Query string `json:"query" validate:"required,max=100"`
	Limit int    `json:"limit" validate:"min=1,max=20"`
}

type AutocompleteResponse struct {
	Suggestions []string `json:"suggestions"`
}

type PopularQueryItem struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

type PopularSearchesResponse struct {
	Queries []PopularQueryItem `json:"queries"`
}
