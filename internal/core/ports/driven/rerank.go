package driven

import (
	"context"

	"github.com/yevrah-labs/yevrah-cli/internal/core/domain"
)

// Reranker reorders search results by relevance to the query. This is
// an optional service: when nil, results keep backend order, and when a
// rerank call fails the caller falls back to backend order rather than
// failing the search.
type Reranker interface {
	// Rerank returns the results reordered by descending relevance, with
	// Score updated to the reranker's relevance score. Source tags and
	// all other fields are preserved.
	Rerank(ctx context.Context, query string, results []domain.SearchResult) ([]domain.SearchResult, error)

	// ModelName returns the name of the rerank model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
