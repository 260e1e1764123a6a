package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-shopsearch-be/pkg/embedding"
)

const defaultJinaDimensions = 768

// JinaProvider implements EmbeddingProvider against the hosted Jina API.
// jina-embeddings-v2-base-en returns 768-dim vectors, so the vector column
// must be sized for it.
type JinaProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Object    string    `json:"object"`
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Usage *struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewJinaProvider(apiKey string) embedding.EmbeddingProvider {
	return &JinaProvider{
		apiKey:  apiKey,
		baseURL: "https://api.jina.ai/v1/embeddings",
		model:   "jina-embeddings-v2-base-en",
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (p *JinaProvider) Generate(ctx context.Context, text string) (embedding.EmbeddingResult, error) {
	// Jina expects an array of inputs. We wrap the single text.
	reqBody := embeddingRequest{
		Model: p.model,
		Input: []string{text},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return embedding.EmbeddingResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return embedding.EmbeddingResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	resp, err := p.client.Do(req)
	if err != nil {
		return embedding.EmbeddingResult{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return embedding.EmbeddingResult{}, fmt.Errorf("jina api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var jinaResp embeddingResponse
	if err := json.Unmarshal(bodyBytes, &jinaResp); err != nil {
		return embedding.EmbeddingResult{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if jinaResp.Error != nil {
		return embedding.EmbeddingResult{}, fmt.Errorf("jina api returned error: %s", jinaResp.Error.Message)
	}

	if len(jinaResp.Data) == 0 {
		return embedding.EmbeddingResult{}, fmt.Errorf("empty embeddings from jina api")
	}

	result := embedding.EmbeddingResult{
		Values: jinaResp.Data[0].Embedding,
	}
	if jinaResp.Usage != nil {
		result.PromptTokens = jinaResp.Usage.PromptTokens
		result.TotalTokens = jinaResp.Usage.TotalTokens
	}
	return result, nil
}

func (p *JinaProvider) Dimensions() int {
	return defaultJinaDimensions
}
