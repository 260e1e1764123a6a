package embedding

import "context"

// EmbeddingResult carries the vector and token usage for one input.
type EmbeddingResult struct {
	Values       []float32
	PromptTokens int
	TotalTokens  int
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) (EmbeddingResult, error)

	// Dimensions reports the vector width the provider produces.
	Dimensions() int
}
