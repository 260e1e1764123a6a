package adaptive

import (
	"regexp"
	"strings"
)

// Candidate is the engine's view of one search result. ID carries the
// caller's product identifier so improved sets can be mapped back.
type Candidate struct {
	ID         string
	Price      float64
	Similarity float64
	Tags       []string
}

// QueryContext carries the query-derived flags the applicability predicates
// need alongside the result metrics.
type QueryContext struct {
	Query          string
	HasPriceIntent bool
	BudgetIntent   bool
	PremiumIntent  bool
	MaterialIntent bool
	ColorIntent    bool
}

var (
	materialTermPattern = regexp.MustCompile(`(?i)\b(?:leer|leren|suede|katoen|katoenen|wol|wollen|denim|linnen|leather|cotton|wool)\b`)
	colorTermPattern    = regexp.MustCompile(`(?i)\b(?:zwart|zwarte|rood|rode|blauw|blauwe|wit|witte|groen|groene|bruin|bruine|black|red|blue|white|green)\b`)
	budgetTermPattern   = regexp.MustCompile(`(?i)\b(?:goedkoop|goedkope|budget|betaalbaar|cheap|affordable)\b`)
	premiumTermPattern  = regexp.MustCompile(`(?i)\b(?:duur|dure|premium|luxe|exclusief|high-end|expensive)\b`)
	priceTermPattern    = regexp.MustCompile(`(?i)(?:\d|€|\b(?:euro|prijs|price|onder|boven|tussen|vanaf|tot)\b)`)
)

// DetectQueryContext derives the intent flags from the raw query.
func DetectQueryContext(query string) QueryContext {
	q := strings.TrimSpace(query)
	return QueryContext{
		Query:          q,
		HasPriceIntent: priceTermPattern.MatchString(q) || budgetTermPattern.MatchString(q) || premiumTermPattern.MatchString(q),
		BudgetIntent:   budgetTermPattern.MatchString(q),
		PremiumIntent:  premiumTermPattern.MatchString(q),
		MaterialIntent: materialTermPattern.MatchString(q),
		ColorIntent:    colorTermPattern.MatchString(q),
	}
}

// Tag vocabularies used by the coverage and diversity signals.
var (
	categoryTags = []string{"schoenen", "jas", "shirt", "broek", "jurk"}
	brandTags    = []string{"urbanwear", "fashionista", "stylehub"}
	colorTags    = []string{"zwart", "rood", "blauw", "wit", "groen"}
	materialTags = []string{"leer", "suede", "katoen", "wol", "denim", "linnen"}
)

func tagMatchesAny(tag string, vocabulary []string) bool {
	lower := strings.ToLower(tag)
	for _, term := range vocabulary {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func firstMatchingTag(tags []string, vocabulary []string) (string, bool) {
	for _, tag := range tags {
		if tagMatchesAny(tag, vocabulary) {
			return strings.ToLower(tag), true
		}
	}
	return "", false
}
