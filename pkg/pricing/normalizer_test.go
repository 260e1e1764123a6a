package pricing

import (
	"context"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no price language is untouched",
			query: "rode jurk",
			want:  "rode jurk",
		},
		{
			name:  "below phrase removed",
			query: "rode jurk onder 50 euro",
			want:  "rode jurk",
		},
		{
			name:  "suffix phrase removed",
			query: "rode jurk 50 euro of minder",
			want:  "rode jurk",
		},
		{
			name:  "range phrase removed",
			query: "sneakers tussen 50 en 100 euro",
			want:  "sneakers",
		},
		{
			name:  "phrase in the middle",
			query: "warme boven 100 euro winterjas",
			want:  "warme winterjas",
		},
		{
			name:  "budget keyword removed",
			query: "goedkope schoenen",
			want:  "schoenen",
		},
		{
			name:  "merged above and below spans both removed",
			query: "jas vanaf 50 tot 100",
			want:  "jas",
		},
		{
			name:  "query that is only a price keeps the raw query",
			query: "onder 50 euro",
			want:  "onder 50 euro",
		},
	}

	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := e.Extract(context.Background(), tt.query)
			if got := Clean(tt.query, intent); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestCleanEquivalentPhrasingsConverge(t *testing.T) {
	// Different phrasings of the same constraint must clean to the same
	// remainder and extract the same bounds, so their cache keys collide.
	e := newTestExtractor()

	a := "rode jurk onder 50 euro"
	b := "rode jurk 50 euro of minder"

	intentA := e.Extract(context.Background(), a)
	intentB := e.Extract(context.Background(), b)

	if Clean(a, intentA) != Clean(b, intentB) {
		t.Errorf("cleaned queries differ: %q vs %q", Clean(a, intentA), Clean(b, intentB))
	}
	if intentA.MaxPrice == nil || intentB.MaxPrice == nil || *intentA.MaxPrice != *intentB.MaxPrice {
		t.Errorf("max bounds differ: %v vs %v", intentA.MaxPrice, intentB.MaxPrice)
	}
	if intentA.MinPrice != nil || intentB.MinPrice != nil {
		t.Error("min bounds should both be nil")
	}
}

func TestCleanLLMIntentLeavesQueryIntact(t *testing.T) {
	// Intents without matched spans (LLM, statistics) have nothing to remove.
	intent := Intent{MinPrice: ptr(20), MaxPrice: ptr(80), Source: SourceLLMInference, Confidence: ConfidenceLLM}

	if got := Clean("iets moois voor het weekend", intent); got != "iets moois voor het weekend" {
		t.Errorf("Clean = %q, want the raw query", got)
	}
}
