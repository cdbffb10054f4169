package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"vaultsearch/internal/domain"
)

// CohereCrossEncoder scores (query, text) pairs with Cohere's rerank API.
type CohereCrossEncoder struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type cohereRerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	Model     string   `json:"model"`
}

type cohereRerankResponse struct {
	Results []cohereRerankResult `json:"results"`
}

type cohereRerankResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// NewCohereCrossEncoder creates a cross-encoder client.
func NewCohereCrossEncoder(apiKeyEnv, model string) (*CohereCrossEncoder, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key not found in environment variable %s", domain.ErrConfig, apiKeyEnv)
	}

	if model == "" {
		model = "rerank-english-v3.0"
	}

	return &CohereCrossEncoder{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.cohere.ai/v1",
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Score returns the model's relevance score for the pair.
func (c *CohereCrossEncoder) Score(ctx context.Context, query, text string) (float64, error) {
	reqBody := cohereRerankRequest{
		Query:     query,
		Documents: []string{text},
		Model:     c.model,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("%w: marshal request: %v", domain.ErrRerank, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rerank", bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, fmt.Errorf("%w: create request: %v", domain.ErrRerank, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrRerank, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: read response: %v", domain.ErrRerank, err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: API returned status %d: %s", domain.ErrRerank, resp.StatusCode, string(body))
	}

	var rerankResp cohereRerankResponse
	if err := json.Unmarshal(body, &rerankResp); err != nil {
		return 0, fmt.Errorf("%w: parse response: %v", domain.ErrRerank, err)
	}
	if len(rerankResp.Results) == 0 {
		return 0, fmt.Errorf("%w: empty response", domain.ErrRerank)
	}

	return rerankResp.Results[0].RelevanceScore, nil
}

// ModelName returns the scoring model identifier.
func (c *CohereCrossEncoder) ModelName() string {
	return c.model
}
