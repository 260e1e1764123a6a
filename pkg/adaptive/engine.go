package adaptive

import (
	"sort"
	"strings"

	"ai-shopsearch-be/internal/pkg/logger"
)

// Result reports what the engine did to one candidate set.
type Result struct {
	Candidates  []Candidate
	Applied     []string
	Improvement float64
	Reasoning   string
}

// Engine evaluates result quality signals and applies corrective
// strategies until the signals clear or the strategy budget runs out.
type Engine struct {
	strategies []Strategy
	log        logger.ILogger
}

func NewEngine(log logger.ILogger) *Engine {
	return &Engine{
		strategies: Catalog(),
		log:        log,
	}
}

// Apply runs the improvement loop. The original set is returned untouched
// when no signal fires, no strategy applies, or the measured improvement
// stays below the minimum.
func (e *Engine) Apply(candidates []Candidate, qc QueryContext, th Thresholds) Result {
	th = th.withDefaults()
	original := candidates

	analysis := Analyze(candidates, qc, th)
	if !analysis.NeedsImprovement {
		return Result{Candidates: original, Reasoning: "no_improvement_needed"}
	}

	selected := e.selectStrategies(analysis.Metrics, qc, th)
	if len(selected) == 0 {
		return Result{Candidates: original, Reasoning: "no_applicable_strategy"}
	}

	current := candidates
	applied := make([]string, 0, len(selected))
	for _, s := range selected {
		current = s.Apply(current, original, th)
		applied = append(applied, s.Name)
		e.log.Debug("adaptive", "strategy applied", map[string]interface{}{
			"strategy":     s.Name,
			"result_count": len(current),
		})
		if s.Terminal {
			break
		}
		if !Analyze(current, qc, th).NeedsImprovement {
			break
		}
	}

	improvement := improvementScore(analysis.Metrics, CalculateMetrics(current))
	if improvement < th.MinImprovement {
		e.log.Debug("adaptive", "improvement below minimum, keeping original results", map[string]interface{}{
			"improvement": improvement,
			"strategies":  applied,
		})
		return Result{Candidates: original, Improvement: improvement, Reasoning: "improvement_below_minimum"}
	}

	return Result{
		Candidates:  current,
		Applied:     applied,
		Improvement: improvement,
		Reasoning:   strings.Join(analysis.Issues, ", "),
	}
}

// selectStrategies picks the applicable strategies ordered by priority,
// then expected improvement, capped at the strategy budget.
func (e *Engine) selectStrategies(m Metrics, qc QueryContext, th Thresholds) []Strategy {
	applicable := make([]Strategy, 0, len(e.strategies))
	for _, s := range e.strategies {
		if s.Applies(m, qc, th) {
			applicable = append(applicable, s)
		}
	}
	sort.SliceStable(applicable, func(i, j int) bool {
		if applicable[i].Priority != applicable[j].Priority {
			return applicable[i].Priority < applicable[j].Priority
		}
		return applicable[i].ExpectedImprovement > applicable[j].ExpectedImprovement
	})
	if len(applicable) > th.MaxStrategies {
		applicable = applicable[:th.MaxStrategies]
	}
	return applicable
}

// improvementScore averages the positive relative gains of the score,
// count and diversity signals. Regressions count as zero gain.
func improvementScore(before, after Metrics) float64 {
	var gains []float64
	if before.AvgScore > 0 {
		gains = append(gains, positiveGain(before.AvgScore, after.AvgScore))
	}
	if before.ResultCount > 0 {
		gains = append(gains, positiveGain(float64(before.ResultCount), float64(after.ResultCount)))
	}
	if before.DiversityScore > 0 {
		gains = append(gains, positiveGain(before.DiversityScore, after.DiversityScore))
	}
	if len(gains) == 0 {
		return 0
	}
	var sum float64
	for _, g := range gains {
		sum += g
	}
	return sum / float64(len(gains))
}

func positiveGain(before, after float64) float64 {
	gain := (after - before) / before
	if gain < 0 {
		return 0
	}
	return gain
}
