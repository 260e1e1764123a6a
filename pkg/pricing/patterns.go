package pricing

import (
	"regexp"
	"strconv"
	"strings"
)

// Deterministic price patterns, Dutch and English. Compiled once.
// Prices accept a decimal comma ("79,95") or dot.
var (
	rangePattern = regexp.MustCompile(
		`(?i)\b(?:(?:tussen|between)\s+(?P<min>\d+(?:[.,]\d+)?)\s+(?:en|and)\s+(?P<max>\d+(?:[.,]\d+)?)(?:\s*(?:euro|€))?|` +
			`(?P<min2>\d+(?:[.,]\d+)?)\s*[-–—]\s*(?P<max2>\d+(?:[.,]\d+)?)\s*(?:euro|€)?|` +
			`(?:€|euro)\s*(?P<min3>\d+(?:[.,]\d+)?)\s*[-–—]\s*(?P<max3>\d+(?:[.,]\d+)?))`)

	belowPattern = regexp.MustCompile(
		`(?i)\b(?:(?:onder|below|less than|max|tot)\s+(?:€\s*|euro\s+)?(?P<max>\d+(?:[.,]\d+)?)(?:\s*(?:euro|€))?|` +
			`(?:€|euro)?\s*(?P<max2>\d+(?:[.,]\d+)?)\s*(?:euro|€)?\s*(?:of minder|or less))`)

	abovePattern = regexp.MustCompile(
		`(?i)\b(?:(?:boven|above|more than|min|vanaf)\s+(?:€\s*|euro\s+)?(?P<min>\d+(?:[.,]\d+)?)(?:\s*(?:euro|€))?|` +
			`(?:€|euro)?\s*(?P<min2>\d+(?:[.,]\d+)?)\s*(?:euro|€)?\s*(?:of meer|or more))`)

	approxPattern = regexp.MustCompile(
		`(?i)\b(?:ongeveer|about|rond|around)\s+(?:€\s*|euro\s+)?(?P<price>\d+(?:[.,]\d+)?)(?:\s*(?:euro|€))?`)

	exactPattern = regexp.MustCompile(
		`(?i)\b(?:(?P<price>\d+(?:[.,]\d+)?)\s*(?:euro|€)|(?:€|euro)\s*(?P<price2>\d+(?:[.,]\d+)?))`)

	budgetKeywordPattern = regexp.MustCompile(
		`(?i)\b(?:goedkoop|goedkope|budget|betaalbaar|lage\s+prijs|cheap|affordable)\b`)

	premiumKeywordPattern = regexp.MustCompile(
		`(?i)\b(?:duur|dure|premium|luxe|exclusief|high-end|expensive)\b`)

	// priceCuePattern gates the LLM leg: only queries with a digit or an
	// explicit price word are worth an inference call.
	priceCuePattern = regexp.MustCompile(
		`(?i)(?:\d|€|\b(?:euro|prijs|price|onder|boven|tussen|vanaf|tot|goedkoop|goedkope|budget|betaalbaar|cheap|affordable|duur|dure|premium|luxe|exclusief|high-end|expensive)\b)`)

	whitespacePattern = regexp.MustCompile(`\s+`)
)

// parsePrice converts a matched price string to a float, accepting "79,95".
func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// patternMatch is one regex hit with the submatch values resolved by group name.
type patternMatch struct {
	groups map[string]string
	span   span
}

// findNamed runs re against query and resolves named groups of the first match.
func findNamed(re *regexp.Regexp, query string) (patternMatch, bool) {
	idx := re.FindStringSubmatchIndex(query)
	if idx == nil {
		return patternMatch{}, false
	}
	groups := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name == "" {
			continue
		}
		start, end := idx[2*i], idx[2*i+1]
		if start >= 0 {
			groups[name] = query[start:end]
		}
	}
	return patternMatch{
		groups: groups,
		span:   span{Start: idx[0], End: idx[1]},
	}, true
}

// firstGroup returns the first non-empty value among the given group names.
func (m patternMatch) firstGroup(names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := m.groups[n]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func extractRange(query string) (Intent, bool) {
	m, ok := findNamed(rangePattern, query)
	if !ok {
		return Intent{}, false
	}
	minStr, okMin := m.firstGroup("min", "min2", "min3")
	maxStr, okMax := m.firstGroup("max", "max2", "max3")
	if !okMin || !okMax {
		return Intent{}, false
	}
	minVal, ok1 := parsePrice(minStr)
	maxVal, ok2 := parsePrice(maxStr)
	if !ok1 || !ok2 {
		return Intent{}, false
	}
	return Intent{
		MinPrice:   ptr(minVal),
		MaxPrice:   ptr(maxVal),
		Confidence: ConfidenceRangePattern,
		Source:     SourceRegexRange,
		spans:      []span{m.span},
	}, true
}

func extractBelow(query string) (Intent, bool) {
	m, ok := findNamed(belowPattern, query)
	if !ok {
		return Intent{}, false
	}
	maxStr, okMax := m.firstGroup("max", "max2")
	if !okMax {
		return Intent{}, false
	}
	maxVal, parsed := parsePrice(maxStr)
	if !parsed {
		return Intent{}, false
	}
	return Intent{
		MaxPrice:   ptr(maxVal),
		Confidence: ConfidenceBelowPattern,
		Source:     SourceRegexRange,
		spans:      []span{m.span},
	}, true
}

func extractAbove(query string) (Intent, bool) {
	m, ok := findNamed(abovePattern, query)
	if !ok {
		return Intent{}, false
	}
	minStr, okMin := m.firstGroup("min", "min2")
	if !okMin {
		return Intent{}, false
	}
	minVal, parsed := parsePrice(minStr)
	if !parsed {
		return Intent{}, false
	}
	return Intent{
		MinPrice:   ptr(minVal),
		Confidence: ConfidenceAbovePattern,
		Source:     SourceRegexRange,
		spans:      []span{m.span},
	}, true
}

func extractApprox(query string) (Intent, bool) {
	m, ok := findNamed(approxPattern, query)
	if !ok {
		return Intent{}, false
	}
	priceStr, okPrice := m.firstGroup("price")
	if !okPrice {
		return Intent{}, false
	}
	price, parsed := parsePrice(priceStr)
	if !parsed {
		return Intent{}, false
	}
	return Intent{
		MinPrice:   ptr(price * ApproxLowerFactor),
		MaxPrice:   ptr(price * ApproxUpperFactor),
		Confidence: ConfidenceApproxPattern,
		Source:     SourceRegexRange,
		spans:      []span{m.span},
	}, true
}

func extractExact(query string) (Intent, bool) {
	m, ok := findNamed(exactPattern, query)
	if !ok {
		return Intent{}, false
	}
	priceStr, okPrice := m.firstGroup("price", "price2")
	if !okPrice {
		return Intent{}, false
	}
	price, parsed := parsePrice(priceStr)
	if !parsed {
		return Intent{}, false
	}
	return Intent{
		MinPrice:   ptr(price * ExactLowerFactor),
		MaxPrice:   ptr(price * ExactUpperFactor),
		Confidence: ConfidenceExactPattern,
		Source:     SourceRegexExact,
		spans:      []span{m.span},
	}, true
}

// hasPriceCue reports whether the query contains anything price-like at all.
func hasPriceCue(query string) bool {
	return priceCuePattern.MatchString(query)
}
