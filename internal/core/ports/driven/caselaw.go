package driven

import (
	"context"
	"time"

	"github.com/yevrah-labs/yevrah-cli/internal/core/domain"
)

// SearchMode selects the backend retrieval strategy for one branch.
type SearchMode string

const (
	// ModeLexical is exact term matching with Boolean operator support.
	ModeLexical SearchMode = "lexical"

	// ModeSemantic is meaning-based retrieval over natural language.
	ModeSemantic SearchMode = "semantic"
)

// SearchRequest describes one branch search against the case-law
// backend.
type SearchRequest struct {
	// Query is the search text. For ModeLexical it may contain Boolean
	// operators, which must reach the backend untouched.
	Query string

	// Mode selects lexical or semantic retrieval.
	Mode SearchMode

	// CourtCodes restricts the search to specific courts. Empty means
	// all courts.
	CourtCodes []string

	// FiledAfter and FiledBefore bound the filing date. Zero values
	// leave that side open.
	FiledAfter  time.Time
	FiledBefore time.Time

	// PageSize is how many results to request.
	PageSize int
}

// CaseLawClient provides access to a court opinion search backend.
type CaseLawClient interface {
	// Search runs one branch search and returns results in backend
	// relevance order, each tagged with the source matching req.Mode.
	Search(ctx context.Context, req SearchRequest) ([]domain.SearchResult, error)

	// OpinionText fetches the full text of an opinion by its reference.
	// Returns domain.ErrNotFound when the backend has no text for it.
	OpinionText(ctx context.Context, ref string) (string, error)

	// Close releases resources.
	Close() error
}
