package pricing

import (
	"context"
	"fmt"
	"math"
	"testing"

	"ai-shopsearch-be/internal/pkg/logger"
)

func newTestExtractor() *Extractor {
	return NewExtractor(nil, nil, logger.NewNopLogger(), Config{})
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func checkBound(t *testing.T, name string, got *float64, want float64, wantSet bool) {
	t.Helper()
	if !wantSet {
		if got != nil {
			t.Errorf("%s = %v, want nil", name, *got)
		}
		return
	}
	if got == nil {
		t.Errorf("%s = nil, want %v", name, want)
		return
	}
	if !floatEq(*got, want) {
		t.Errorf("%s = %v, want %v", name, *got, want)
	}
}

func TestExtractPatterns(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantMin    float64
		wantHasMin bool
		wantMax    float64
		wantHasMax bool
		wantConf   float64
		wantSource Source
	}{
		{
			name:       "dutch range",
			query:      "jurk tussen 50 en 100 euro",
			wantMin:    50, wantHasMin: true,
			wantMax: 100, wantHasMax: true,
			wantConf:   0.95,
			wantSource: SourceRegexRange,
		},
		{
			name:       "english range",
			query:      "dress between 20 and 40",
			wantMin:    20, wantHasMin: true,
			wantMax: 40, wantHasMax: true,
			wantConf:   0.95,
			wantSource: SourceRegexRange,
		},
		{
			name:       "dash range",
			query:      "sneakers 50-100 euro",
			wantMin:    50, wantHasMin: true,
			wantMax: 100, wantHasMax: true,
			wantConf:   0.95,
			wantSource: SourceRegexRange,
		},
		{
			name:       "below dutch",
			query:      "rode jurk onder 50 euro",
			wantMax:    50, wantHasMax: true,
			wantConf:   0.9,
			wantSource: SourceRegexRange,
		},
		{
			name:       "below tot",
			query:      "schoenen tot 75",
			wantMax:    75, wantHasMax: true,
			wantConf:   0.9,
			wantSource: SourceRegexRange,
		},
		{
			name:       "below suffix form",
			query:      "rode jurk 50 euro of minder",
			wantMax:    50, wantHasMax: true,
			wantConf:   0.9,
			wantSource: SourceRegexRange,
		},
		{
			name:       "above dutch",
			query:      "jas boven 200 euro",
			wantMin:    200, wantHasMin: true,
			wantConf:   0.9,
			wantSource: SourceRegexRange,
		},
		{
			name:       "above vanaf",
			query:      "horloge vanaf 80",
			wantMin:    80, wantHasMin: true,
			wantConf:   0.9,
			wantSource: SourceRegexRange,
		},
		{
			name:       "above suffix form",
			query:      "€50 of meer",
			wantMin:    50, wantHasMin: true,
			wantConf:   0.9,
			wantSource: SourceRegexRange,
		},
		{
			name:       "approximate widens twenty percent",
			query:      "broek rond 100 euro",
			wantMin:    80, wantHasMin: true,
			wantMax: 120, wantHasMax: true,
			wantConf:   0.8,
			wantSource: SourceRegexRange,
		},
		{
			name:       "exact widens ten percent",
			query:      "shirt 120 euro",
			wantMin:    108, wantHasMin: true,
			wantMax: 132, wantHasMax: true,
			wantConf:   0.85,
			wantSource: SourceRegexExact,
		},
		{
			name:       "euro sign prefix",
			query:      "tas €60",
			wantMin:    54, wantHasMin: true,
			wantMax: 66, wantHasMax: true,
			wantConf:   0.85,
			wantSource: SourceRegexExact,
		},
		{
			name:       "decimal comma",
			query:      "sjaal onder 79,95 euro",
			wantMax:    79.95, wantHasMax: true,
			wantConf:   0.9,
			wantSource: SourceRegexRange,
		},
		{
			name:       "combined above and below merge",
			query:      "jas vanaf 50 tot 100",
			wantMin:    50, wantHasMin: true,
			wantMax: 100, wantHasMax: true,
			wantConf:   0.9,
			wantSource: SourceRegexRange,
		},
		{
			// "dure" pulls toward premium but the explicit bound is the
			// stronger signal, the keyword tier never runs.
			name:       "pattern beats premium keyword",
			query:      "dure jas onder 10 euro",
			wantMax:    10, wantHasMax: true,
			wantConf:   0.9,
			wantSource: SourceRegexRange,
		},
	}

	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := e.Extract(context.Background(), tt.query)

			checkBound(t, "MinPrice", intent.MinPrice, tt.wantMin, tt.wantHasMin)
			checkBound(t, "MaxPrice", intent.MaxPrice, tt.wantMax, tt.wantHasMax)
			if !floatEq(intent.Confidence, tt.wantConf) {
				t.Errorf("Confidence = %v, want %v", intent.Confidence, tt.wantConf)
			}
			if intent.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", intent.Source, tt.wantSource)
			}
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantMin    float64
		wantHasMin bool
		wantMax    float64
		wantHasMax bool
		wantSource Source
	}{
		{
			name:       "budget keyword uses shoe band",
			query:      "goedkope schoenen",
			wantMax:    70, wantHasMax: true,
			wantSource: SourceBudgetKeyword,
		},
		{
			name:       "premium keywords use coat band",
			query:      "duur exclusief jas",
			wantMin:    200, wantHasMin: true,
			wantSource: SourcePremiumKeyword,
		},
		{
			name:       "budget keyword uses shirt band",
			query:      "budget shirt",
			wantMax:    30, wantHasMax: true,
			wantSource: SourceBudgetKeyword,
		},
		{
			name:       "premium without category uses default band",
			query:      "premium horloge",
			wantMin:    150, wantHasMin: true,
			wantSource: SourcePremiumKeyword,
		},
		{
			name:       "english cheap",
			query:      "cheap sneakers",
			wantMax:    70, wantHasMax: true,
			wantSource: SourceBudgetKeyword,
		},
	}

	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := e.Extract(context.Background(), tt.query)

			checkBound(t, "MinPrice", intent.MinPrice, tt.wantMin, tt.wantHasMin)
			checkBound(t, "MaxPrice", intent.MaxPrice, tt.wantMax, tt.wantHasMax)
			if !floatEq(intent.Confidence, ConfidenceKeyword) {
				t.Errorf("Confidence = %v, want %v", intent.Confidence, ConfidenceKeyword)
			}
			if intent.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", intent.Source, tt.wantSource)
			}
		})
	}
}

func TestExtractConflictingKeywordsKeepsFirst(t *testing.T) {
	e := newTestExtractor()

	intent := e.Extract(context.Background(), "goedkope luxe jas")

	if intent.Source != SourceBudgetKeyword {
		t.Errorf("Source = %q, want %q", intent.Source, SourceBudgetKeyword)
	}
	if intent.MinPrice != nil {
		t.Errorf("MinPrice = %v, want nil after discarding the losing side", *intent.MinPrice)
	}
	checkBound(t, "MaxPrice", intent.MaxPrice, 90, true)
}

func TestExtractNoPriceLanguage(t *testing.T) {
	queries := []string{
		"rode jurk",
		"zwarte jas met capuchon",
		"witte sneakers dames",
		"",
		"   ",
	}

	e := newTestExtractor()
	for _, q := range queries {
		intent := e.Extract(context.Background(), q)
		if !intent.Empty() {
			t.Errorf("Extract(%q) = [%v, %v], want empty intent", q, intent.MinPrice, intent.MaxPrice)
		}
		if intent.Confidence != 0 {
			t.Errorf("Extract(%q) Confidence = %v, want 0", q, intent.Confidence)
		}
	}
}

func TestExtractBoundsAlwaysOrdered(t *testing.T) {
	// Generated range phrases, including deliberately swapped bounds.
	var queries []string
	for lo := 10; lo <= 200; lo += 37 {
		hi := lo + 55
		queries = append(queries,
			fmt.Sprintf("jurk tussen %d en %d euro", lo, hi),
			fmt.Sprintf("jurk tussen %d en %d euro", hi, lo),
			fmt.Sprintf("schoenen %d-%d euro", lo, hi),
			fmt.Sprintf("rond %d euro", lo),
			fmt.Sprintf("%d euro", hi),
		)
	}

	e := newTestExtractor()
	for _, q := range queries {
		intent := e.Extract(context.Background(), q)
		if intent.MinPrice != nil && intent.MaxPrice != nil && *intent.MinPrice > *intent.MaxPrice {
			t.Errorf("Extract(%q) violated min<=max: min=%v max=%v", q, *intent.MinPrice, *intent.MaxPrice)
		}
	}
}

func TestStatisticalFallbackWithPriceCue(t *testing.T) {
	// Price-flavored query that no pattern or keyword resolves, with no LLM
	// wired: store statistics are the last resort.
	e := newTestExtractor()

	intent := e.Extract(context.Background(), "iets voor een goede prijs")

	if intent.Source != SourceStatisticalFallback {
		t.Fatalf("Source = %q, want %q", intent.Source, SourceStatisticalFallback)
	}
	checkBound(t, "MinPrice", intent.MinPrice, 50, true)
	checkBound(t, "MaxPrice", intent.MaxPrice, 150, true)
	if !floatEq(intent.Confidence, ConfidenceStoreStatistic) {
		t.Errorf("Confidence = %v, want %v", intent.Confidence, ConfidenceStoreStatistic)
	}
}

func TestExtractDeterministicStopsAtCheapTiers(t *testing.T) {
	e := newTestExtractor()

	// Same price-flavored query: the full chain reaches statistics, the
	// deterministic entry point returns empty instead.
	if intent := e.ExtractDeterministic("iets voor een goede prijs"); !intent.Empty() {
		t.Errorf("ExtractDeterministic = [%v, %v], want empty intent", intent.MinPrice, intent.MaxPrice)
	}

	intent := e.ExtractDeterministic("schoenen onder 50 euro")
	if intent.Source != SourceRegexRange {
		t.Errorf("Source = %q, want %q", intent.Source, SourceRegexRange)
	}
	checkBound(t, "MaxPrice", intent.MaxPrice, 50, true)
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"goedkope schoenen", "shoes"},
		{"witte sneakers", "shoes"},
		{"warme winterjas", "coats"},
		{"t-shirt met print", "shirts"},
		{"leren tas", "accessories"},
		{"accessoires voor dames", "accessories"},
		{"rode jurk", ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := DetectCategory(tt.query); got != tt.want {
				t.Errorf("DetectCategory(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}
