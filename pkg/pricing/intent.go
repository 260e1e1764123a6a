package pricing

// Source identifies which extraction strategy produced a price intent.
type Source string

const (
	SourceRegexExact          Source = "regex_exact"
	SourceRegexRange          Source = "regex_range"
	SourceBudgetKeyword       Source = "budget_keyword"
	SourcePremiumKeyword      Source = "premium_keyword"
	SourceLLMInference        Source = "llm_inference"
	SourceStatisticalFallback Source = "store_statistical_fallback"
)

// Confidence scores per extraction strategy.
const (
	ConfidenceRangePattern   = 0.95
	ConfidenceBelowPattern   = 0.9
	ConfidenceAbovePattern   = 0.9
	ConfidenceExactPattern   = 0.85
	ConfidenceApproxPattern  = 0.8
	ConfidenceKeyword        = 0.6
	ConfidenceLLM            = 0.6
	ConfidenceStoreStatistic = 0.3
)

// Exact matches widen to +/-10%, approximate matches ("rond 80") to +/-20%.
const (
	ExactLowerFactor  = 0.9
	ExactUpperFactor  = 1.1
	ApproxLowerFactor = 0.8
	ApproxUpperFactor = 1.2
)

// span marks a matched region [Start, End) in the raw query.
// The normalizer removes exactly these regions, nothing else.
type span struct {
	Start int
	End   int
}

// Intent is the price constraint extracted from a raw query.
// Invariant: when both bounds are set, MinPrice <= MaxPrice.
type Intent struct {
	MinPrice   *float64
	MaxPrice   *float64
	Confidence float64
	Source     Source

	spans []span
}

// Empty reports whether no price constraint was extracted.
func (i Intent) Empty() bool {
	return i.MinPrice == nil && i.MaxPrice == nil
}

// HasFilter reports whether the intent carries at least one usable bound.
func (i Intent) HasFilter() bool {
	return !i.Empty()
}

func ptr(v float64) *float64 {
	return &v
}
