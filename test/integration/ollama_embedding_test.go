package integration

import (
	"context"
	"math"
	"net/http"
	"os"
	"testing"
	"time"

	"ai-shopsearch-be/pkg/embedding"
)

const defaultOllamaBaseURL = "http://localhost:11434"

func ollamaBaseURL() string {
	if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
		return url
	}
	return defaultOllamaBaseURL
}

func ollamaModel() string {
	if model := os.Getenv("OLLAMA_EMBEDDING_MODEL"); model != "" {
		return model
	}
	return "nomic-embed-text"
}

func requireOllama(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", ollamaBaseURL(), nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		t.Skipf("Skipping: Ollama not running at %s: %v", ollamaBaseURL(), err)
	}
	defer res.Body.Close()

	t.Logf("✅ Ollama is running at %s (status: %d)", ollamaBaseURL(), res.StatusCode)
}

func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// TestOllamaEmbeddingGenerate verifies the local provider produces a vector
// of the expected width. First call can be slow, the model loads lazily.
func TestOllamaEmbeddingGenerate(t *testing.T) {
	requireOllama(t)

	provider := embedding.NewOllamaProvider(ollamaBaseURL(), ollamaModel(), 768)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	result, err := provider.Generate(ctx, "Zwarte leren schoenen maat 42")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Logf("✅ Got embedding with %d dimensions", len(result.Values))

	if len(result.Values) == 0 {
		t.Fatal("Embedding should not be empty")
	}
	if len(result.Values) != provider.Dimensions() {
		t.Errorf("Dimension mismatch: got %d, provider reports %d. Inserts into the vector column will fail.",
			len(result.Values), provider.Dimensions())
	}
}

// TestOllamaEmbeddingSemantics checks that related product texts land closer
// together than unrelated ones. A model that fails this makes vector search
// return noise even though every API call succeeds.
func TestOllamaEmbeddingSemantics(t *testing.T) {
	requireOllama(t)

	provider := embedding.NewOllamaProvider(ollamaBaseURL(), ollamaModel(), 768)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	texts := map[string]string{
		"anchor":    "Schoenen StyleHub (Zwart, 42). Gemaakt van leer in de kleur zwart.",
		"related":   "Schoenen UrbanWear (Bruin, 43). Gemaakt van suede in de kleur bruin.",
		"unrelated": "Truien ClassicLine (Geel, L). Gemaakt van wol in de kleur geel.",
	}

	vectors := map[string][]float32{}
	for name, text := range texts {
		result, err := provider.Generate(ctx, text)
		if err != nil {
			t.Fatalf("Generate(%s) failed: %v", name, err)
		}
		vectors[name] = result.Values
	}

	simRelated := cosine(vectors["anchor"], vectors["related"])
	simUnrelated := cosine(vectors["anchor"], vectors["unrelated"])

	t.Logf("similarity: shoes/shoes=%.4f shoes/sweater=%.4f", simRelated, simUnrelated)

	if simRelated <= simUnrelated {
		t.Errorf("Expected related products to score higher: shoes/shoes=%.4f <= shoes/sweater=%.4f", simRelated, simUnrelated)
	} else {
		t.Log("✅ Related products rank above unrelated ones")
	}
}
