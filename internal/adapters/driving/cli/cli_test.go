package cli

import (
	"context"
	"fmt"

	"github.com/yevrah-labs/yevrah-cli/internal/core/domain"
	"github.com/yevrah-labs/yevrah-cli/internal/core/ports/driving"
)

// mockResearchService is a scriptable driving.ResearchService.
type mockResearchService struct {
	researchOutcome driving.ResearchOutcome
	researchErr     error
	searchResults   domain.PresentationList
	searchErr       error
	analysis        driving.Analysis
	analyzeErr      error

	lastUserText string
	lastIntent   domain.SearchIntent
	lastPosition int
	closed       bool
}

var _ driving.ResearchService = (*mockResearchService)(nil)

func (m *mockResearchService) Research(
	_ context.Context, session *domain.Session, userText string,
) (driving.ResearchOutcome, error) {
	m.lastUserText = userText
	if m.researchErr == nil && m.researchOutcome.Searched {
		session.SetResults(userText, m.researchOutcome.Results)
	}
	return m.researchOutcome, m.researchErr
}

func (m *mockResearchService) Search(
	_ context.Context, session *domain.Session, intent domain.SearchIntent,
) (domain.PresentationList, error) {
	m.lastIntent = intent
	if m.searchErr == nil {
		session.SetResults(intent.SemanticQuery, m.searchResults)
	}
	return m.searchResults, m.searchErr
}

func (m *mockResearchService) Analyze(
	_ context.Context, _ *domain.Session, position int,
) (driving.Analysis, error) {
	m.lastPosition = position
	return m.analysis, m.analyzeErr
}

func (m *mockResearchService) Close() error {
	m.closed = true
	return nil
}

// setupTestServices injects a mock service and returns it with a
// cleanup that restores the package state.
func setupTestServices() (*mockResearchService, func()) {
	mock := &mockResearchService{}
	SetResearchService(mock)
	return mock, func() {
		researchService = nil
		serviceCleanup = nil
		promptStore = nil
	}
}

// presentationList builds a list with n merged results alternating
// between branches.
func presentationList(n int) domain.PresentationList {
	results := make([]domain.SearchResult, n)
	for i := range results {
		source := domain.SourceKeyword
		if i%2 == 1 {
			source = domain.SourceSemantic
		}
		results[i] = domain.SearchResult{
			CaseName:   fmt.Sprintf("Case %d v. State", i+1),
			Court:      "Supreme Court of California",
			DateFiled:  "2021-03-15",
			Citation:   fmt.Sprintf("%d Cal. 5th 100", i+1),
			Snippet:    "the <mark>duty of care</mark> owed to invitees",
			Source:     source,
			Score:      float64(n-i) * 0.1,
			OpinionRef: fmt.Sprintf("%d", 3000+i),
		}
	}
	return domain.PresentationList{Results: results}
}
