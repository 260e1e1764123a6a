package pricing

import "context"

// Statistics summarizes the store's price distribution. Budget and Premium
// are derived quantile bands (p25*1.5 and p75*1.2) used to ground the LLM
// prompt and the statistical fallback.
type Statistics struct {
	Min     float64
	Max     float64
	Median  float64
	Budget  float64
	Premium float64
}

// StatisticsProvider supplies current store price statistics. Implementations
// are expected to memoize, the extractor calls this on the request path.
type StatisticsProvider interface {
	Statistics(ctx context.Context) (Statistics, error)
}

// DefaultStatistics are the fallback values for an empty or unreachable
// catalog.
func DefaultStatistics() Statistics {
	return Statistics{
		Min:     10,
		Max:     500,
		Median:  50,
		Budget:  50,
		Premium: 150,
	}
}
