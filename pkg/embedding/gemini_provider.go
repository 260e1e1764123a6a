package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const geminiDimensions = 768

// GeminiProvider implements EmbeddingProvider for Google text-embedding-004.
type GeminiProvider struct {
	ApiKey   string
	TaskType string
	Client   *http.Client
}

func NewGeminiProvider(apiKey, taskType string) EmbeddingProvider {
	if taskType == "" {
		// Symmetric task type so query and document vectors live in the
		// same space.
		taskType = "SEMANTIC_SIMILARITY"
	}
	return &GeminiProvider{
		ApiKey:   apiKey,
		TaskType: taskType,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type geminiRequestContentPart struct {
	Text string `json:"text"`
}

type geminiRequestContent struct {
	Parts []geminiRequestContentPart `json:"parts"`
}

type geminiRequest struct {
	Model    string               `json:"model"`
	Content  geminiRequestContent `json:"content"`
	TaskType string               `json:"task_type,omitempty"`
}

type geminiResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type geminiResponse struct {
	Embedding geminiResponseEmbedding `json:"embedding"`
}

func (p *GeminiProvider) Generate(ctx context.Context, text string) (EmbeddingResult, error) {
	modelName := "text-embedding-004"

	geminiReq := geminiRequest{
		Model: modelName,
		Content: geminiRequestContent{
			Parts: []geminiRequestContentPart{
				{Text: text},
			},
		},
		TaskType: p.TaskType,
	}
	geminiReqJson, err := json.Marshal(geminiReq)
	if err != nil {
		return EmbeddingResult{}, err
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		modelName,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(geminiReqJson))
	if err != nil {
		return EmbeddingResult{}, err
	}

	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return EmbeddingResult{}, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return EmbeddingResult{}, err
	}

	if res.StatusCode != http.StatusOK {
		return EmbeddingResult{}, fmt.Errorf("error from gemini response, code %d, body %s", res.StatusCode, string(resByte))
	}

	var resEmbedding geminiResponse
	if err := json.Unmarshal(resByte, &resEmbedding); err != nil {
		return EmbeddingResult{}, err
	}

	return EmbeddingResult{Values: resEmbedding.Embedding.Values}, nil
}

func (p *GeminiProvider) Dimensions() int {
	return geminiDimensions
}
