//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"

	"ai-shopsearch-be/internal/config"
	"ai-shopsearch-be/pkg/embedding"
)

// Verifies that the configured provider returns vectors matching
// EMBEDDING_DIMENSIONS. A mismatch makes every insert into the
// vector(N) column fail, catch it here instead of at seed time.
func main() {
	cfg := config.Load()
	fmt.Printf("Loaded Config > Embedding Provider: %s\n", cfg.Ai.EmbeddingProvider)
	fmt.Printf("Loaded Config > Expected Dimensions: %d\n", cfg.Ai.EmbeddingDimensions)

	var provider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbeddingModel, cfg.Ai.EmbeddingDimensions)
	case "gemini":
		provider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey, "SEMANTIC_SIMILARITY")
	default:
		provider = embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.OpenAIBaseURL, cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDimensions)
	}

	text := "Zwarte leren schoenen maat 42"
	fmt.Printf("\nGenerating embedding for: \"%s\"\n", text)

	resp, err := provider.Generate(context.Background(), text)
	if err != nil {
		log.Fatalf("Error generating embedding: %v", err)
	}

	dims := len(resp.Values)
	fmt.Printf("Success! Generated Embedding Dimensions: %d\n", dims)

	if dims > 5 {
		fmt.Printf("First 5 values: %v...\n", resp.Values[:5])
	}

	if dims == cfg.Ai.EmbeddingDimensions {
		fmt.Printf("✅ Dimensions match configured EMBEDDING_DIMENSIONS (%d).\n", dims)
	} else {
		fmt.Printf("⚠️  Dimensions %d do NOT match configured %d. Inserts into the vector column will fail.\n", dims, cfg.Ai.EmbeddingDimensions)
	}
}
