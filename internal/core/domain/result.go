package domain

// SourceTag records which search branch produced a result. It is set
// once at construction and never changes through rerank or merge.
type SourceTag string

const (
	SourceKeyword  SourceTag = "KEYWORD"
	SourceSemantic SourceTag = "SEMANTIC"
)

const (
	// BranchFetchSize is how many results each branch requests from the
	// backend. Larger than the display size so the reranker has depth to
	// work with.
	BranchFetchSize = 20

	// BranchDisplaySize is how many results each branch contributes to
	// the merged presentation.
	BranchDisplaySize = 5

	// MaxPresented caps the merged presentation list.
	MaxPresented = 10
)

// SearchResult is one case-law hit from either branch.
type SearchResult struct {
	CaseName  string
	Court     string
	DateFiled string
	Citation  string
	Snippet   string

	// Source tags the producing branch and is immutable after creation.
	Source SourceTag

	// Score is the backend or reranker relevance score, if any.
	Score float64

	// OpinionRef identifies the opinion document for drill-down.
	// Empty when the backend returned no opinion for the hit.
	OpinionRef string
}

// PresentationList is the ordered, capped set of results shown to the
// user after a search turn. Positions are 1-based in the user surface.
type PresentationList struct {
	Results []SearchResult
}

// Len returns the number of presented results.
func (p PresentationList) Len() int { return len(p.Results) }

// Select returns the result at the given 1-based position.
func (p PresentationList) Select(position int) (SearchResult, error) {
	if position < 1 || position > len(p.Results) {
		return SearchResult{}, ErrSelectionOutOfRange
	}
	return p.Results[position-1], nil
}

// MergeBranches builds the presentation list from the two branch result
// slices. Each branch contributes its first BranchDisplaySize results in
// branch order, keyword first, capped at MaxPresented overall. Results
// are not deduplicated: the same case surfacing in both branches is a
// relevance signal worth showing.
func MergeBranches(keyword, semantic []SearchResult) PresentationList {
	merged := make([]SearchResult, 0, MaxPresented)
	merged = appendCapped(merged, keyword, BranchDisplaySize)
	merged = appendCapped(merged, semantic, BranchDisplaySize)
	if len(merged) > MaxPresented {
		merged = merged[:MaxPresented]
	}
	return PresentationList{Results: merged}
}

func appendCapped(dst, src []SearchResult, n int) []SearchResult {
	if len(src) > n {
		src = src[:n]
	}
	return append(dst, src...)
}
