package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopsearch",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"search_type", "status"},
	)

	SearchStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shopsearch",
			Name:      "search_stage_duration_seconds",
			Help:      "Duration per pipeline stage in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"stage"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopsearch",
			Name:      "cache_total",
			Help:      "Result cache hits, misses and bypasses",
		},
		[]string{"result"}, // "hit" / "miss" / "bypass"
	)

	PriceFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shopsearch",
			Name:      "price_fallback_total",
			Help:      "Searches that fell back to cheapest alternatives",
		},
	)

	AdaptiveStrategiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopsearch",
			Name:      "adaptive_strategies_total",
			Help:      "Adaptive filter strategies applied",
		},
		[]string{"strategy"},
	)

	IntentExtractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopsearch",
			Name:      "intent_extractions_total",
			Help:      "Price intent extractions by winning source",
		},
		[]string{"source"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchStageDuration)
	prometheus.MustRegister(CacheTotal)
	prometheus.MustRegister(PriceFallbackTotal)
	prometheus.MustRegister(AdaptiveStrategiesTotal)
	prometheus.MustRegister(IntentExtractionsTotal)
	searchMetricsRegistered = true
}
