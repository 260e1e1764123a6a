package adaptive

// Metrics summarizes one candidate set for the applicability predicates.
type Metrics struct {
	AvgScore         float64
	ResultCount      int
	AvgPriceTop5     float64
	PriceRange       float64
	CategoryCoverage float64
	DiversityScore   float64
}

// Analysis is the outcome of one signal pass over a candidate set.
type Analysis struct {
	NeedsImprovement bool
	Issues           []string
	Metrics          Metrics
}

// Thresholds holds every tunable the signal pass and the strategy catalog
// read. Zero values are replaced by the defaults.
type Thresholds struct {
	ScorePoor          float64 `yaml:"score_poor"`
	ScoreFair          float64 `yaml:"score_fair"`
	ScoreGood          float64 `yaml:"score_good"`
	ResultCountLow     int     `yaml:"result_count_low"`
	ResultCountMedium  int     `yaml:"result_count_medium"`
	ResultCountHigh    int     `yaml:"result_count_high"`
	CoverageLow        float64 `yaml:"coverage_low"`
	CoverageMedium     float64 `yaml:"coverage_medium"`
	CoverageHigh       float64 `yaml:"coverage_high"`
	DiversityLow       float64 `yaml:"diversity_low"`
	MinImprovement     float64 `yaml:"min_improvement"`
	MaxStrategies      int     `yaml:"max_strategies"`
	MaxSimilarItems    int     `yaml:"max_similar_items"`
	BudgetPriceCeiling float64 `yaml:"budget_price_ceiling"`
	PremiumPriceFloor  float64 `yaml:"premium_price_floor"`
}

// DefaultThresholds returns the tuning the engine ships with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ScorePoor:          0.6,
		ScoreFair:          0.7,
		ScoreGood:          0.8,
		ResultCountLow:     5,
		ResultCountMedium:  8,
		ResultCountHigh:    15,
		CoverageLow:        0.3,
		CoverageMedium:     0.5,
		CoverageHigh:       0.7,
		DiversityLow:       0.4,
		MinImprovement:     0.1,
		MaxStrategies:      3,
		MaxSimilarItems:    3,
		BudgetPriceCeiling: 100,
		PremiumPriceFloor:  150,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.ScorePoor <= 0 {
		t.ScorePoor = d.ScorePoor
	}
	if t.ScoreFair <= 0 {
		t.ScoreFair = d.ScoreFair
	}
	if t.ScoreGood <= 0 {
		t.ScoreGood = d.ScoreGood
	}
	if t.ResultCountLow <= 0 {
		t.ResultCountLow = d.ResultCountLow
	}
	if t.ResultCountMedium <= 0 {
		t.ResultCountMedium = d.ResultCountMedium
	}
	if t.ResultCountHigh <= 0 {
		t.ResultCountHigh = d.ResultCountHigh
	}
	if t.CoverageLow <= 0 {
		t.CoverageLow = d.CoverageLow
	}
	if t.CoverageMedium <= 0 {
		t.CoverageMedium = d.CoverageMedium
	}
	if t.CoverageHigh <= 0 {
		t.CoverageHigh = d.CoverageHigh
	}
	if t.DiversityLow <= 0 {
		t.DiversityLow = d.DiversityLow
	}
	if t.MinImprovement <= 0 {
		t.MinImprovement = d.MinImprovement
	}
	if t.MaxStrategies <= 0 {
		t.MaxStrategies = d.MaxStrategies
	}
	if t.MaxSimilarItems <= 0 {
		t.MaxSimilarItems = d.MaxSimilarItems
	}
	if t.BudgetPriceCeiling <= 0 {
		t.BudgetPriceCeiling = d.BudgetPriceCeiling
	}
	if t.PremiumPriceFloor <= 0 {
		t.PremiumPriceFloor = d.PremiumPriceFloor
	}
	return t
}

// CalculateMetrics computes the performance signals for a candidate set.
func CalculateMetrics(candidates []Candidate) Metrics {
	m := Metrics{ResultCount: len(candidates)}
	if len(candidates) == 0 {
		return m
	}

	var scoreSum float64
	minPrice := candidates[0].Price
	maxPrice := candidates[0].Price
	for _, c := range candidates {
		scoreSum += c.Similarity
		if c.Price < minPrice {
			minPrice = c.Price
		}
		if c.Price > maxPrice {
			maxPrice = c.Price
		}
	}
	m.AvgScore = scoreSum / float64(len(candidates))
	m.PriceRange = maxPrice - minPrice

	top := len(candidates)
	if top > 5 {
		top = 5
	}
	var priceSum float64
	for _, c := range candidates[:top] {
		priceSum += c.Price
	}
	m.AvgPriceTop5 = priceSum / float64(top)

	window := candidates
	if len(window) > signalWindow {
		window = window[:signalWindow]
	}
	m.CategoryCoverage = distinctTagRatio(window, categoryTags)
	m.DiversityScore = diversityScore(window)
	return m
}

// signalWindow bounds the slice the coverage and diversity signals look at.
// Reordering strategies improve what a shopper actually sees first, so the
// signals grade that head window rather than the whole set.
const signalWindow = 10

func distinctTagRatio(candidates []Candidate, vocabulary []string) float64 {
	if len(candidates) == 0 {
		return 0
	}
	seen := make(map[string]struct{})
	for _, c := range candidates {
		if tag, ok := firstMatchingTag(c.Tags, vocabulary); ok {
			seen[tag] = struct{}{}
		}
	}
	return float64(len(seen)) / float64(len(candidates))
}

// diversityScore averages the distinct-tag ratios over the category, brand
// and color vocabularies.
func diversityScore(candidates []Candidate) float64 {
	if len(candidates) == 0 {
		return 0
	}
	sum := distinctTagRatio(candidates, categoryTags) +
		distinctTagRatio(candidates, brandTags) +
		distinctTagRatio(candidates, colorTags)
	return sum / 3
}

// Analyze decides whether a candidate set needs improvement and names the
// issues found.
func Analyze(candidates []Candidate, qc QueryContext, th Thresholds) Analysis {
	th = th.withDefaults()
	m := CalculateMetrics(candidates)
	var issues []string

	if m.ResultCount < th.ResultCountLow {
		issues = append(issues, "insufficient_results")
	}
	if m.ResultCount > 0 && m.AvgScore < th.ScorePoor {
		issues = append(issues, "poor_relevance")
	}
	if m.ResultCount > 0 && m.CategoryCoverage < th.CoverageLow {
		issues = append(issues, "low_category_coverage")
	}
	if m.ResultCount > 0 && m.DiversityScore < th.DiversityLow {
		issues = append(issues, "low_diversity")
	}
	if qc.BudgetIntent && m.AvgPriceTop5 > th.BudgetPriceCeiling {
		issues = append(issues, "price_incoherent_budget")
	}
	if qc.PremiumIntent && m.ResultCount > 0 && m.AvgPriceTop5 < th.PremiumPriceFloor {
		issues = append(issues, "price_incoherent_premium")
	}

	return Analysis{
		NeedsImprovement: len(issues) > 0,
		Issues:           issues,
		Metrics:          m,
	}
}
