package dto

import "time"

// SearchPerformedEvent is the immutable snapshot published on the in-process
// bus after a search response is built. The consumer persists it, bumps the
// popular-searches leaderboard and optionally republishes it on NATS.
type SearchPerformedEvent struct {
	Query             string                 `json:"query"`
	SearchType        string                 `json:"search_type"`
	Filters           map[string]interface{} `json:"filters"`
	ResultCount       int                    `json:"result_count"`
	Page              int                    `json:"page"`
	Limit             int                    `json:"limit"`
	ResponseTimeMs    int64                  `json:"response_time_ms"`
	CacheHit          bool                   `json:"cache_hit"`
	FallbackUsed      bool                   `json:"fallback_used"`
	StrategiesApplied []string               `json:"strategies_applied"`
	OccurredAt        time.Time              `json:"occurred_at"`
}
