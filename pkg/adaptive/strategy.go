package adaptive

// Strategy is one corrective transformation the engine can apply to a
// candidate set. Every strategy is idempotent so a re-application after
// the signals are re-evaluated cannot oscillate.
type Strategy struct {
	Name                string
	Priority            int
	ExpectedImprovement float64
	Terminal            bool

	applies func(m Metrics, qc QueryContext, th Thresholds) bool
	apply   func(current, original []Candidate, th Thresholds) []Candidate
}

// Applies reports whether the strategy is worth trying for this set.
func (s Strategy) Applies(m Metrics, qc QueryContext, th Thresholds) bool {
	if s.applies == nil {
		return true
	}
	return s.applies(m, qc, th)
}

// Apply runs the transformation. A strategy never empties the set, when
// its filter would remove everything the input is returned unchanged.
func (s Strategy) Apply(current, original []Candidate, th Thresholds) []Candidate {
	out := s.apply(current, original, th)
	if len(out) == 0 {
		return current
	}
	return out
}

// Catalog returns the built-in strategies in declaration order. The engine
// sorts them by priority and expected improvement before selection.
func Catalog() []Strategy {
	return []Strategy{
		{
			Name:                "price_broaden_low",
			Priority:            1,
			ExpectedImprovement: 0.8,
			applies: func(m Metrics, _ QueryContext, th Thresholds) bool {
				return m.AvgPriceTop5 <= 50 && m.ResultCount <= th.ResultCountLow && m.AvgScore <= th.ScorePoor
			},
			apply: func(current, _ []Candidate, _ Thresholds) []Candidate {
				return keepPriceBetween(current, 0, 100)
			},
		},
		{
			Name:                "price_broaden_high",
			Priority:            1,
			ExpectedImprovement: 0.75,
			applies: func(m Metrics, _ QueryContext, th Thresholds) bool {
				return m.AvgPriceTop5 >= 200 && m.AvgPriceTop5 <= 1000 &&
					m.ResultCount <= th.ResultCountLow && m.AvgScore <= th.ScorePoor
			},
			apply: func(current, _ []Candidate, _ Thresholds) []Candidate {
				return keepPriceBetween(current, 150, 500)
			},
		},
		{
			Name:                "category_broaden",
			Priority:            2,
			ExpectedImprovement: 0.7,
			applies: func(m Metrics, _ QueryContext, th Thresholds) bool {
				return m.CategoryCoverage <= th.CoverageLow &&
					m.ResultCount <= th.ResultCountMedium && m.AvgScore <= th.ScoreFair
			},
			apply: func(current, _ []Candidate, _ Thresholds) []Candidate {
				return interleaveByTag(current, categoryTags)
			},
		},
		{
			Name:                "diversity_improve",
			Priority:            3,
			ExpectedImprovement: 0.65,
			applies: func(m Metrics, _ QueryContext, th Thresholds) bool {
				return m.DiversityScore <= th.DiversityLow &&
					m.ResultCount >= th.ResultCountLow && m.ResultCount <= 20
			},
			apply: func(current, _ []Candidate, th Thresholds) []Candidate {
				return forceDiversity(current, th.MaxSimilarItems)
			},
		},
		{
			Name:                "material_fallback",
			Priority:            4,
			ExpectedImprovement: 0.5,
			applies: func(m Metrics, qc QueryContext, th Thresholds) bool {
				return qc.MaterialIntent &&
					(m.ResultCount < th.ResultCountMedium || m.AvgScore < th.ScoreFair)
			},
			apply: func(current, _ []Candidate, th Thresholds) []Candidate {
				return capPerTag(current, materialTags, th.MaxSimilarItems)
			},
		},
		{
			Name:                "color_fallback",
			Priority:            4,
			ExpectedImprovement: 0.45,
			applies: func(m Metrics, qc QueryContext, th Thresholds) bool {
				return qc.ColorIntent &&
					(m.ResultCount < th.ResultCountMedium || m.AvgScore < th.ScoreFair)
			},
			apply: func(current, _ []Candidate, th Thresholds) []Candidate {
				return capPerTag(current, colorTags, th.MaxSimilarItems)
			},
		},
		{
			Name:                "emergency_fallback",
			Priority:            99,
			ExpectedImprovement: 0.3,
			Terminal:            true,
			apply: func(current, original []Candidate, _ Thresholds) []Candidate {
				if len(current) == 0 {
					return original
				}
				return current
			},
		},
	}
}

func keepPriceBetween(in []Candidate, min, max float64) []Candidate {
	out := make([]Candidate, 0, len(in))
	for _, c := range in {
		if c.Price >= min && c.Price <= max {
			out = append(out, c)
		}
	}
	return out
}

// interleaveByTag regroups the set round-robin over the first matching tag
// so every represented group reaches the head of the list. Order within a
// group is preserved, which keeps the transformation stable.
func interleaveByTag(in []Candidate, vocabulary []string) []Candidate {
	groups := make(map[string][]Candidate)
	var order []string
	for _, c := range in {
		key, _ := firstMatchingTag(c.Tags, vocabulary)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}
	out := make([]Candidate, 0, len(in))
	for len(out) < len(in) {
		for _, key := range order {
			if g := groups[key]; len(g) > 0 {
				out = append(out, g[0])
				groups[key] = g[1:]
			}
		}
	}
	return out
}

// forceDiversity samples every n-th candidate down to maxSimilar entries.
// Sets that are already small are returned untouched.
func forceDiversity(in []Candidate, maxSimilar int) []Candidate {
	if maxSimilar <= 0 || len(in) <= maxSimilar {
		return in
	}
	step := len(in) / maxSimilar
	out := make([]Candidate, 0, maxSimilar)
	for i := 0; i < len(in) && len(out) < maxSimilar; i += step {
		out = append(out, in[i])
	}
	return out
}

// capPerTag keeps at most limit candidates per tag value in the head of the
// list and moves the overflow to the tail. Untagged candidates are never
// capped.
func capPerTag(in []Candidate, vocabulary []string, limit int) []Candidate {
	counts := make(map[string]int)
	head := make([]Candidate, 0, len(in))
	var tail []Candidate
	for _, c := range in {
		key, ok := firstMatchingTag(c.Tags, vocabulary)
		if !ok {
			head = append(head, c)
			continue
		}
		if counts[key] < limit {
			counts[key]++
			head = append(head, c)
		} else {
			tail = append(tail, c)
		}
	}
	return append(head, tail...)
}
