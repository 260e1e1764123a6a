package pricing

import (
	"regexp"
	"strings"
)

// PriceBand bounds what "cheap" and "expensive" mean for a product category.
// Budget keywords cap the search at BudgetMax, premium keywords floor it at
// PremiumMin.
type PriceBand struct {
	BudgetMax  float64 `yaml:"budget_max"`
	PremiumMin float64 `yaml:"premium_min"`
}

// CategoryBands maps a detected category to its price band. The "default"
// entry is used when no category is recognized in the query.
type CategoryBands struct {
	Default PriceBand            `yaml:"default"`
	ByName  map[string]PriceBand `yaml:"categories"`
}

// DefaultBands returns the compiled-in band table. Values are aligned with
// the store fallback statistics (budget 50, premium 150) with higher bands
// for shoes and coats and lower ones for shirts and accessories.
func DefaultBands() CategoryBands {
	return CategoryBands{
		Default: PriceBand{BudgetMax: 50, PremiumMin: 150},
		ByName: map[string]PriceBand{
			"shoes":       {BudgetMax: 70, PremiumMin: 180},
			"coats":       {BudgetMax: 90, PremiumMin: 200},
			"shirts":      {BudgetMax: 30, PremiumMin: 80},
			"accessories": {BudgetMax: 25, PremiumMin: 75},
		},
	}
}

// BandFor resolves the band for a category name, falling back to Default.
func (b CategoryBands) BandFor(category string) PriceBand {
	if band, ok := b.ByName[category]; ok {
		return band
	}
	return b.Default
}

// categoryTerms maps query tokens to the band table's category keys.
// Dutch first, these are storefront queries.
var categoryTerms = map[string]string{
	"schoenen":   "shoes",
	"schoen":     "shoes",
	"sneakers":   "shoes",
	"sneaker":    "shoes",
	"shoes":      "shoes",
	"jas":        "coats",
	"jassen":     "coats",
	"winterjas":  "coats",
	"coat":       "coats",
	"jacket":     "coats",
	"shirt":      "shirts",
	"shirts":     "shirts",
	"t-shirt":    "shirts",
	"tshirt":     "shirts",
	"blouse":     "shirts",
	"accessoire": "accessories",
	"tas":        "accessories",
	"riem":       "accessories",
	"sjaal":      "accessories",
}

var tokenPattern = regexp.MustCompile(`[\p{L}\d-]+`)

// DetectCategory returns the band-table category for the first recognized
// category token in the query, or "" when none matches.
func DetectCategory(query string) string {
	for _, token := range tokenPattern.FindAllString(strings.ToLower(query), -1) {
		if cat, ok := categoryTerms[token]; ok {
			return cat
		}
		// "accessoires" and similar plurals
		if cat, ok := categoryTerms[strings.TrimSuffix(token, "s")]; ok {
			return cat
		}
	}
	return ""
}
