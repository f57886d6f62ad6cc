package cohere

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yevrah-labs/yevrah-cli/internal/core/domain"
)

// newTestReranker creates a reranker pointed at a test server.
func newTestReranker(t *testing.T, handler http.HandlerFunc) *Reranker {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	reranker, err := NewReranker(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return reranker
}

func semanticResults(names ...string) []domain.SearchResult {
	results := make([]domain.SearchResult, len(names))
	for i, name := range names {
		results[i] = domain.SearchResult{
			CaseName: name,
			Court:    "Supreme Court of California",
			Snippet:  "discussion of " + name,
			Source:   domain.SourceSemantic,
			Score:    0.5,
		}
	}
	return results
}

// rankingResponse builds a /v2/rerank response from (index, score)
// pairs.
func rankingResponse(pairs ...[2]float64) map[string]any {
	ranked := make([]map[string]any, len(pairs))
	for i, p := range pairs {
		ranked[i] = map[string]any{"index": int(p[0]), "relevance_score": p[1]}
	}
	return map[string]any{"results": ranked}
}

// TestNewReranker_RequiresAPIKey tests that a missing key is rejected.
func TestNewReranker_RequiresAPIKey(t *testing.T) {
	reranker, err := NewReranker(Config{})

	assert.Nil(t, reranker)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

// TestNewReranker_Defaults tests default model and base URL.
func TestNewReranker_Defaults(t *testing.T) {
	reranker, err := NewReranker(Config{APIKey: "key"})

	require.NoError(t, err)
	assert.Equal(t, DefaultModel, reranker.ModelName())
	assert.Equal(t, DefaultBaseURL, reranker.baseURL)
}

// TestReranker_Rerank_Reorders tests that results come back in ranking
// order with updated scores and preserved source tags.
func TestReranker_Rerank_Reorders(t *testing.T) {
	var gotReq rerankRequest
	var gotAuth string
	reranker := newTestReranker(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(rankingResponse(
			[2]float64{2, 0.98},
			[2]float64{0, 0.75},
			[2]float64{1, 0.12},
		))
	})

	in := semanticResults("Case A", "Case B", "Case C")
	out, err := reranker.Rerank(context.Background(), "adverse possession", in)

	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, DefaultModel, gotReq.Model)
	assert.Equal(t, "adverse possession", gotReq.Query)
	assert.Len(t, gotReq.Documents, 3)
	assert.Equal(t, 3, gotReq.TopN)
	assert.Contains(t, gotReq.Documents[0], "Case A")
	assert.Contains(t, gotReq.Documents[0], "discussion of Case A")

	require.Len(t, out, 3)
	assert.Equal(t, "Case C", out[0].CaseName)
	assert.Equal(t, "Case A", out[1].CaseName)
	assert.Equal(t, "Case B", out[2].CaseName)
	assert.InDelta(t, 0.98, out[0].Score, 0.001)
	assert.InDelta(t, 0.12, out[2].Score, 0.001)
	for _, res := range out {
		assert.Equal(t, domain.SourceSemantic, res.Source)
	}
}

// TestReranker_Rerank_EmptyInput tests that no results means no API
// call.
func TestReranker_Rerank_EmptyInput(t *testing.T) {
	reranker := newTestReranker(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	out, err := reranker.Rerank(context.Background(), "query", nil)

	require.NoError(t, err)
	assert.Empty(t, out)
}

// TestReranker_Rerank_PartialRanking tests that omitted indices are
// dropped and out-of-range ones skipped.
func TestReranker_Rerank_PartialRanking(t *testing.T) {
	reranker := newTestReranker(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(rankingResponse(
			[2]float64{1, 0.9},
			[2]float64{7, 0.8},
		))
	})

	out, err := reranker.Rerank(context.Background(), "query", semanticResults("Case A", "Case B"))

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Case B", out[0].CaseName)
}

// TestReranker_Rerank_EmptyRanking tests that an empty ranking maps to
// the rerank-unavailable sentinel so the caller can fall back.
func TestReranker_Rerank_EmptyRanking(t *testing.T) {
	reranker := newTestReranker(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	})

	_, err := reranker.Rerank(context.Background(), "query", semanticResults("Case A"))

	assert.ErrorIs(t, err, domain.ErrRerankUnavailable)
}

// TestReranker_Rerank_AuthError tests 401 mapping.
func TestReranker_Rerank_AuthError(t *testing.T) {
	reranker := newTestReranker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "invalid api token"}`))
	})

	_, err := reranker.Rerank(context.Background(), "query", semanticResults("Case A"))

	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}

// TestReranker_Rerank_RateLimited tests 429 mapping.
func TestReranker_Rerank_RateLimited(t *testing.T) {
	reranker := newTestReranker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := reranker.Rerank(context.Background(), "query", semanticResults("Case A"))

	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

// TestReranker_Rerank_TransportError tests that a connection failure
// maps to the rerank-unavailable sentinel.
func TestReranker_Rerank_TransportError(t *testing.T) {
	server := httptest.NewServer(nil)
	server.Close()

	reranker, err := NewReranker(Config{APIKey: "key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = reranker.Rerank(context.Background(), "query", semanticResults("Case A"))

	assert.ErrorIs(t, err, domain.ErrRerankUnavailable)
}
