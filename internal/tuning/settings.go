package tuning

import (
	"time"

	"ai-shopsearch-be/pkg/adaptive"
	"ai-shopsearch-be/pkg/pricing"
)

// CacheTTLs holds the per-kind cache lifetimes in seconds.
type CacheTTLs struct {
	SearchTTLSeconds       int `yaml:"search_ttl_seconds"`
	ListingTTLSeconds      int `yaml:"listing_ttl_seconds"`
	AutocompleteTTLSeconds int `yaml:"autocomplete_ttl_seconds"`
}

func (c CacheTTLs) SearchTTL() time.Duration {
	return time.Duration(c.SearchTTLSeconds) * time.Second
}

func (c CacheTTLs) ListingTTL() time.Duration {
	return time.Duration(c.ListingTTLSeconds) * time.Second
}

func (c CacheTTLs) AutocompleteTTL() time.Duration {
	return time.Duration(c.AutocompleteTTLSeconds) * time.Second
}

// Settings is the operator-tunable part of the search pipeline. It is
// loaded from a YAML artifact and swapped in atomically, request handling
// reads one immutable snapshot.
type Settings struct {
	PriceBands pricing.CategoryBands `yaml:"price_bands"`
	Adaptive   adaptive.Thresholds   `yaml:"adaptive"`
	Cache      CacheTTLs             `yaml:"cache"`
}

// Defaults returns the compiled-in settings used when no artifact exists.
func Defaults() Settings {
	return Settings{
		PriceBands: pricing.DefaultBands(),
		Adaptive:   adaptive.DefaultThresholds(),
		Cache: CacheTTLs{
			SearchTTLSeconds:       900,
			ListingTTLSeconds:      3600,
			AutocompleteTTLSeconds: 300,
		},
	}
}

// normalize backfills values an artifact left at zero.
func (s *Settings) normalize() {
	d := Defaults()
	if s.PriceBands.Default.BudgetMax <= 0 {
		s.PriceBands.Default.BudgetMax = d.PriceBands.Default.BudgetMax
	}
	if s.PriceBands.Default.PremiumMin <= 0 {
		s.PriceBands.Default.PremiumMin = d.PriceBands.Default.PremiumMin
	}
	if s.Cache.SearchTTLSeconds <= 0 {
		s.Cache.SearchTTLSeconds = d.Cache.SearchTTLSeconds
	}
	if s.Cache.ListingTTLSeconds <= 0 {
		s.Cache.ListingTTLSeconds = d.Cache.ListingTTLSeconds
	}
	if s.Cache.AutocompleteTTLSeconds <= 0 {
		s.Cache.AutocompleteTTLSeconds = d.Cache.AutocompleteTTLSeconds
	}
}
