// Package courtlistener provides a case-law search client backed by the
// CourtListener REST API (v4). It supports both lexical (Boolean) and
// semantic search over court opinions, plus full opinion text retrieval.
package courtlistener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yevrah-labs/yevrah-cli/internal/core/domain"
	"github.com/yevrah-labs/yevrah-cli/internal/core/ports/driven"
	"github.com/yevrah-labs/yevrah-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.CaseLawClient = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://www.courtlistener.com/api/rest/v4"
	DefaultTimeout = 30 * time.Second

	// DefaultRequestRate throttles outbound calls. CourtListener allows
	// 5000 queries/hour for authenticated clients; ~1 req/sec stays well
	// under that while keeping interactive latency low.
	DefaultRequestRate = 1.0
)

// Config holds configuration for the CourtListener client.
type Config struct {
	// APIKey is the CourtListener API token (required).
	APIKey string

	// BaseURL is the API base URL (default: the public v4 endpoint).
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RequestRate is the outbound requests-per-second throttle
	// (default: 1.0). Zero uses the default; negative disables.
	RequestRate float64
}

// Client provides case-law search against the CourtListener API.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

// searchResponse is the /search/ response format.
type searchResponse struct {
	Count   int         `json:"count"`
	Results []searchHit `json:"results"`
	Detail  string      `json:"detail,omitempty"`
}

// searchHit is one opinion cluster in search results.
type searchHit struct {
	CaseName  string   `json:"caseName"`
	Court     string   `json:"court"`
	DateFiled string   `json:"dateFiled"`
	Citation  []string `json:"citation"`
	ClusterID int      `json:"cluster_id"`
	Opinions  []struct {
		ID      int    `json:"id"`
		Snippet string `json:"snippet"`
	} `json:"opinions"`
	Meta struct {
		Score struct {
			BM25     float64 `json:"bm25"`
			Semantic float64 `json:"semantic"`
		} `json:"score"`
	} `json:"meta"`
}

// opinionResponse is the /opinions/{id}/ response format. The API
// populates at most a few of the text fields per opinion depending on
// the ingestion source.
type opinionResponse struct {
	PlainText         string `json:"plain_text"`
	HTML              string `json:"html"`
	HTMLWithCitations string `json:"html_with_citations"`
	HTMLLawbox        string `json:"html_lawbox"`
	HTMLColumbia      string `json:"html_columbia"`
	XMLHarvard        string `json:"xml_harvard"`
	Detail            string `json:"detail,omitempty"`
}

// NewClient creates a new CourtListener client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("courtlistener: API key is required: %w", domain.ErrMissingCredential)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestRate == 0 {
		cfg.RequestRate = DefaultRequestRate
	}

	var limiter *rate.Limiter
	if cfg.RequestRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestRate), 1)
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		limiter: limiter,
	}, nil
}

// Search runs one branch search. Results are returned in the backend's
// relevance order and tagged with the source matching req.Mode.
func (c *Client) Search(ctx context.Context, req driven.SearchRequest) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("type", "o")
	params.Set("order_by", "score desc")
	if req.Mode == driven.ModeSemantic {
		params.Set("semantic", "on")
	}
	if len(req.CourtCodes) > 0 {
		params.Set("court", strings.Join(req.CourtCodes, " "))
	}
	if !req.FiledAfter.IsZero() {
		params.Set("filed_after", domain.FormatFilingDate(req.FiledAfter))
	}
	if !req.FiledBefore.IsZero() {
		params.Set("filed_before", domain.FormatFilingDate(req.FiledBefore))
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = domain.BranchFetchSize
	}
	params.Set("page_size", strconv.Itoa(pageSize))

	endpoint := c.baseURL + "/search/?" + params.Encode()
	logger.Debug("CourtListener %s search: %s", req.Mode, endpoint)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("courtlistener: decode search response: %w", err)
	}

	source := domain.SourceKeyword
	if req.Mode == driven.ModeSemantic {
		source = domain.SourceSemantic
	}

	results := make([]domain.SearchResult, 0, len(searchResp.Results))
	for _, hit := range searchResp.Results {
		results = append(results, hitToResult(hit, source, req.Mode))
	}

	logger.Debug("CourtListener returned %d of %d results", len(results), searchResp.Count)
	return results, nil
}

// hitToResult converts one API hit into a domain result.
func hitToResult(hit searchHit, source domain.SourceTag, mode driven.SearchMode) domain.SearchResult {
	result := domain.SearchResult{
		CaseName:  hit.CaseName,
		Court:     hit.Court,
		DateFiled: hit.DateFiled,
		Citation:  strings.Join(hit.Citation, ", "),
		Source:    source,
	}

	if mode == driven.ModeSemantic {
		result.Score = hit.Meta.Score.Semantic
	} else {
		result.Score = hit.Meta.Score.BM25
	}

	if len(hit.Opinions) > 0 {
		result.Snippet = domain.NormalizeWhitespace(hit.Opinions[0].Snippet)
		result.OpinionRef = strconv.Itoa(hit.Opinions[0].ID)
	}

	return result
}

// OpinionText fetches the full text of an opinion. The API stores text
// in different fields depending on how the opinion was ingested; the
// first populated field wins, with HTML variants stripped to plain
// text.
func (c *Client) OpinionText(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("courtlistener: empty opinion reference: %w", domain.ErrInvalidInput)
	}

	endpoint := c.baseURL + "/opinions/" + url.PathEscape(ref) + "/"
	logger.Debug("CourtListener opinion fetch: %s", endpoint)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}

	var opinion opinionResponse
	if err := json.Unmarshal(body, &opinion); err != nil {
		return "", fmt.Errorf("courtlistener: decode opinion response: %w", err)
	}

	if text := strings.TrimSpace(opinion.PlainText); text != "" {
		return domain.NormalizeWhitespace(text), nil
	}
	for _, html := range []string{
		opinion.HTMLWithCitations,
		opinion.HTML,
		opinion.HTMLLawbox,
		opinion.HTMLColumbia,
		opinion.XMLHarvard,
	} {
		if strings.TrimSpace(html) != "" {
			return domain.StripHTML(html), nil
		}
	}

	return "", fmt.Errorf("courtlistener: opinion %s has no text: %w", ref, domain.ErrNotFound)
}

// get issues one throttled GET request and returns the response body.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("courtlistener: rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("courtlistener: create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("courtlistener: send request: %w: %v", domain.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("courtlistener: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("courtlistener: status %d: %w", resp.StatusCode, domain.ErrAuthInvalid)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("courtlistener: status %d: %w", resp.StatusCode, domain.ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("courtlistener: status %d: %w", resp.StatusCode, domain.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("courtlistener: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}

// Ping validates the API key with a minimal search request.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, c.baseURL+"/search/?q=test&type=o&page_size=1")
	return err
}

// Close releases resources. The underlying HTTP client needs no
// explicit teardown.
func (c *Client) Close() error {
	return nil
}
