package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"ai-shopsearch-be/internal/pkg/logger"
)

type flakyProvider struct {
	failures int
	calls    int
}

func (f *flakyProvider) Generate(ctx context.Context, text string) (EmbeddingResult, error) {
	f.calls++
	if f.calls <= f.failures {
		return EmbeddingResult{}, errors.New("upstream unavailable")
	}
	return EmbeddingResult{Values: []float32{1, 0, 0}}, nil
}

func (f *flakyProvider) Dimensions() int { return 3 }

func TestRetryProviderRecoversOnce(t *testing.T) {
	inner := &flakyProvider{failures: 1}
	p := NewRetryProvider(inner, logger.NewNopLogger())

	got, err := p.Generate(context.Background(), "rode jurk")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(got.Values) != 3 {
		t.Errorf("len(Values) = %d, want 3", len(got.Values))
	}
	if inner.calls != 2 {
		t.Errorf("calls = %d, want 2", inner.calls)
	}
}

func TestRetryProviderGivesUpAfterMaxTries(t *testing.T) {
	inner := &flakyProvider{failures: 10}
	p := NewRetryProvider(inner, logger.NewNopLogger())

	if _, err := p.Generate(context.Background(), "rode jurk"); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if inner.calls != 2 {
		t.Errorf("calls = %d, want 2", inner.calls)
	}
}

func TestNormalizeVector(t *testing.T) {
	got := normalizeVector([]float32{3, 4})
	var magnitude float64
	for _, v := range got {
		magnitude += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(magnitude)-1) > 1e-6 {
		t.Errorf("magnitude = %v, want 1", math.Sqrt(magnitude))
	}

	zero := normalizeVector([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector should stay zero")
	}
}
