// Package driving provides interfaces for application entry points
// (primary/inbound ports). The CLI drives the application through
// these interfaces only.
package driving

import (
	"context"

	"github.com/yevrah-labs/yevrah-cli/internal/core/domain"
)

// ResearchService orchestrates the full research turn: interpretation,
// dual-branch search, optional reranking, and merging into the
// presentation list.
type ResearchService interface {
	// Research handles one natural-language turn. The outcome is either
	// a presentation list (a search ran) or a conversational reply from
	// the interpreter (no search was requested).
	Research(ctx context.Context, session *domain.Session, userText string) (ResearchOutcome, error)

	// Search runs the dual search directly from a structured intent,
	// bypassing interpretation. Used by the non-interactive surface.
	Search(ctx context.Context, session *domain.Session, intent domain.SearchIntent) (domain.PresentationList, error)

	// Analyze fetches the opinion at the given 1-based position in the
	// session's presentation list and analyses it against the session's
	// last research question.
	Analyze(ctx context.Context, session *domain.Session, position int) (Analysis, error)
}

// ResearchOutcome is the result of one research turn.
type ResearchOutcome struct {
	// Results is the merged presentation list when a search ran.
	Results domain.PresentationList

	// Reply is the interpreter's conversational answer when no search
	// was requested. Empty when a search ran.
	Reply string

	// Searched reports whether a search was executed this turn.
	Searched bool

	// Degraded names the branch that failed when the other succeeded,
	// empty on a clean turn.
	Degraded string
}

// Analysis is the outcome of opinion drill-down.
type Analysis struct {
	// Result is the selected search result.
	Result domain.SearchResult

	// OpinionText is the cleaned opinion text, truncated for display.
	OpinionText string

	// Commentary is the model's analysis of the opinion against the
	// research question.
	Commentary string
}
