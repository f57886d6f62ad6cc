// Package cohere provides a result reranker backed by the Cohere
// rerank API. The reranker reorders one search branch by cross-encoder
// relevance to the user's query.
package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yevrah-labs/yevrah-cli/internal/core/domain"
	"github.com/yevrah-labs/yevrah-cli/internal/core/ports/driven"
	"github.com/yevrah-labs/yevrah-cli/internal/logger"
)

// Ensure Reranker implements the interface.
var _ driven.Reranker = (*Reranker)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.cohere.com"
	DefaultModel   = "rerank-v3.5"
	DefaultTimeout = 15 * time.Second
)

// Config holds configuration for the Cohere reranker.
type Config struct {
	// APIKey is the Cohere API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.cohere.com).
	BaseURL string

	// Model is the rerank model to use (default: rerank-v3.5).
	Model string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// Reranker reorders search results using the Cohere /v2/rerank
// endpoint.
type Reranker struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// rerankRequest is the /v2/rerank request format.
type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

// rerankResponse is the /v2/rerank response format.
type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
	Message string `json:"message,omitempty"`
}

// NewReranker creates a new Cohere reranker.
func NewReranker(cfg Config) (*Reranker, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere: API key is required: %w", domain.ErrMissingCredential)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Reranker{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Rerank reorders results by descending cross-encoder relevance. Each
// result keeps its fields, including the source tag, with Score
// replaced by the rerank relevance score. Indices the API omits are
// dropped from the output.
func (r *Reranker) Rerank(
	ctx context.Context, query string, results []domain.SearchResult,
) ([]domain.SearchResult, error) {
	if len(results) == 0 {
		return results, nil
	}

	documents := make([]string, len(results))
	for i, res := range results {
		documents[i] = documentText(res)
	}

	reqBody := rerankRequest{
		Model:     r.model,
		Query:     query,
		Documents: documents,
		TopN:      len(results),
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("cohere: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		r.baseURL+"/v2/rerank",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("cohere: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cohere: send request: %w: %v", domain.ErrRerankUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cohere: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("cohere: status %d: %w", resp.StatusCode, domain.ErrAuthInvalid)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("cohere: status %d: %w", resp.StatusCode, domain.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("cohere: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rerankResp rerankResponse
	if err := json.Unmarshal(body, &rerankResp); err != nil {
		return nil, fmt.Errorf("cohere: decode response: %w", err)
	}
	if len(rerankResp.Results) == 0 {
		return nil, fmt.Errorf("cohere: empty ranking: %w", domain.ErrRerankUnavailable)
	}

	reordered := make([]domain.SearchResult, 0, len(results))
	for _, ranked := range rerankResp.Results {
		if ranked.Index < 0 || ranked.Index >= len(results) {
			logger.Warn("Cohere returned out-of-range index %d", ranked.Index)
			continue
		}
		res := results[ranked.Index]
		res.Score = ranked.RelevanceScore
		reordered = append(reordered, res)
	}

	logger.Debug("Cohere reranked %d results with %s", len(reordered), r.model)
	return reordered, nil
}

// documentText builds the passage the reranker scores. The case name
// anchors the snippet, which carries the matching opinion text.
func documentText(res domain.SearchResult) string {
	parts := make([]string, 0, 3)
	if res.CaseName != "" {
		parts = append(parts, res.CaseName)
	}
	if res.Court != "" {
		parts = append(parts, res.Court)
	}
	if res.Snippet != "" {
		parts = append(parts, res.Snippet)
	}
	if len(parts) == 0 {
		return "(no text)"
	}
	return strings.Join(parts, ". ")
}

// ModelName returns the name of the rerank model being used.
func (r *Reranker) ModelName() string {
	return r.model
}

// Close releases resources.
func (r *Reranker) Close() error {
	return nil
}
