package tuning

import (
	"os"
	"path/filepath"
	"testing"

	"ai-shopsearch-be/internal/pkg/logger"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "search_tuning.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestLoaderMissingFileFallsBackToDefaults(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "missing.yaml"), logger.NewNopLogger())

	s := l.Current()
	if s.Cache.SearchTTLSeconds != 900 {
		t.Errorf("SearchTTLSeconds = %d, want 900", s.Cache.SearchTTLSeconds)
	}
	if s.PriceBands.Default.BudgetMax != 50 {
		t.Errorf("Default.BudgetMax = %v, want 50", s.PriceBands.Default.BudgetMax)
	}
	if s.Adaptive.MaxStrategies != 3 {
		t.Errorf("MaxStrategies = %d, want 3", s.Adaptive.MaxStrategies)
	}
}

func TestLoaderMergesPartialArtifact(t *testing.T) {
	path := writeArtifact(t, `
cache:
  search_ttl_seconds: 120
price_bands:
  categories:
    shoes:
      budget_max: 80
      premium_min: 220
`)
	l := NewLoader(path, logger.NewNopLogger())

	s := l.Current()
	if s.Cache.SearchTTLSeconds != 120 {
		t.Errorf("SearchTTLSeconds = %d, want 120", s.Cache.SearchTTLSeconds)
	}
	if s.Cache.ListingTTLSeconds != 3600 {
		t.Errorf("ListingTTLSeconds = %d, want default 3600", s.Cache.ListingTTLSeconds)
	}
	if got := s.PriceBands.BandFor("shoes").BudgetMax; got != 80 {
		t.Errorf("shoes BudgetMax = %v, want 80", got)
	}
	if got := s.PriceBands.Default.PremiumMin; got != 150 {
		t.Errorf("Default.PremiumMin = %v, want default 150", got)
	}
}

func TestLoaderKeepsSnapshotOnBrokenReload(t *testing.T) {
	path := writeArtifact(t, `
cache:
  search_ttl_seconds: 120
`)
	l := NewLoader(path, logger.NewNopLogger())
	if l.Current().Cache.SearchTTLSeconds != 120 {
		t.Fatalf("initial load failed")
	}

	if err := os.WriteFile(path, []byte("cache: ["), 0o644); err != nil {
		t.Fatalf("overwrite artifact: %v", err)
	}
	if err := l.Reload(); err == nil {
		t.Fatal("expected reload error for broken yaml")
	}

	if l.Current().Cache.SearchTTLSeconds != 120 {
		t.Errorf("snapshot changed after failed reload")
	}
}
