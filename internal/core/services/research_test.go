package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yevrah-labs/yevrah-cli/internal/core/domain"
	"github.com/yevrah-labs/yevrah-cli/internal/core/ports/driven"
	"github.com/yevrah-labs/yevrah-cli/internal/logger"
)

// --- Mock implementations ---

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	interpretation driven.Interpretation
	interpretErr   error
	analysis       string
	analyzeErr     error

	lastHistory  []domain.Message
	lastUserText string
	lastAnalyze  []domain.Message
	lastOpts     driven.GenerateOptions
}

func (m *mockLLM) InterpretQuery(_ context.Context, userText string, history []domain.Message) (driven.Interpretation, error) {
	m.lastUserText = userText
	m.lastHistory = history
	if m.interpretErr != nil {
		return driven.Interpretation{}, m.interpretErr
	}
	return m.interpretation, nil
}

func (m *mockLLM) Analyze(_ context.Context, messages []domain.Message, opts driven.GenerateOptions) (string, error) {
	m.lastAnalyze = messages
	m.lastOpts = opts
	if m.analyzeErr != nil {
		return "", m.analyzeErr
	}
	return m.analysis, nil
}

func (m *mockLLM) ModelName() string { return "mock-model" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockCaseLaw implements driven.CaseLawClient for testing.
type mockCaseLaw struct {
	lexicalResults  []domain.SearchResult
	semanticResults []domain.SearchResult
	lexicalErr      error
	semanticErr     error
	opinionText     string
	opinionErr      error

	requests []driven.SearchRequest
}

func (m *mockCaseLaw) Search(_ context.Context, req driven.SearchRequest) ([]domain.SearchResult, error) {
	m.requests = append(m.requests, req)
	if req.Mode == driven.ModeLexical {
		return m.lexicalResults, m.lexicalErr
	}
	return m.semanticResults, m.semanticErr
}

func (m *mockCaseLaw) OpinionText(_ context.Context, _ string) (string, error) {
	if m.opinionErr != nil {
		return "", m.opinionErr
	}
	return m.opinionText, nil
}

func (m *mockCaseLaw) Close() error { return nil }

// mockReranker implements driven.Reranker for testing.
type mockReranker struct {
	reversed  bool
	rerankErr error
	calls     int
}

func (m *mockReranker) Rerank(_ context.Context, _ string, results []domain.SearchResult) ([]domain.SearchResult, error) {
	m.calls++
	if m.rerankErr != nil {
		return nil, m.rerankErr
	}
	if !m.reversed {
		return results, nil
	}
	out := make([]domain.SearchResult, len(results))
	for i, r := range results {
		out[len(results)-1-i] = r
	}
	return out, nil
}

func (m *mockReranker) ModelName() string { return "mock-rerank" }

func (m *mockReranker) Close() error { return nil }

func branchResults(source domain.SourceTag, n int) []domain.SearchResult {
	out := make([]domain.SearchResult, n)
	for i := range out {
		out[i] = domain.SearchResult{
			CaseName:   fmt.Sprintf("%s v. Case %d", source, i+1),
			Source:     source,
			OpinionRef: fmt.Sprintf("%s-%d", source, i+1),
		}
	}
	return out
}

func searchIntent() *domain.SearchIntent {
	return &domain.SearchIntent{
		SemanticQuery: "premises liability for icy sidewalks",
		KeywordQuery:  "premises AND liability AND sidewalk",
	}
}

// --- Research ---

// TestResearch_DualSearchMergesBothBranches tests the happy path
func TestResearch_DualSearchMergesBothBranches(t *testing.T) {
	llm := &mockLLM{interpretation: driven.Interpretation{Intent: searchIntent()}}
	backend := &mockCaseLaw{
		lexicalResults:  branchResults(domain.SourceKeyword, 20),
		semanticResults: branchResults(domain.SourceSemantic, 20),
	}
	svc := NewResearchService(llm, backend, nil)
	session := domain.NewSession()

	outcome, err := svc.Research(context.Background(), session, "cases about icy sidewalks")

	require.NoError(t, err)
	assert.True(t, outcome.Searched)
	assert.Empty(t, outcome.Degraded)
	assert.Equal(t, domain.MaxPresented, outcome.Results.Len())
	assert.Equal(t, domain.SourceKeyword, outcome.Results.Results[0].Source)
	assert.Equal(t, domain.SourceSemantic, outcome.Results.Results[5].Source)
}

// TestResearch_BothBranchesRequested tests branch dispatch parameters
func TestResearch_BothBranchesRequested(t *testing.T) {
	llm := &mockLLM{interpretation: driven.Interpretation{Intent: searchIntent()}}
	backend := &mockCaseLaw{}
	svc := NewResearchService(llm, backend, nil)

	_, err := svc.Research(context.Background(), domain.NewSession(), "icy sidewalks")

	require.NoError(t, err)
	require.Len(t, backend.requests, 2)
	modes := map[driven.SearchMode]driven.SearchRequest{}
	for _, req := range backend.requests {
		modes[req.Mode] = req
	}
	assert.Equal(t, "premises AND liability AND sidewalk", modes[driven.ModeLexical].Query)
	assert.Equal(t, "premises liability for icy sidewalks", modes[driven.ModeSemantic].Query)
	assert.Equal(t, domain.BranchFetchSize, modes[driven.ModeLexical].PageSize)
	assert.Equal(t, domain.BranchFetchSize, modes[driven.ModeSemantic].PageSize)
}

// TestResearch_ConversationalTurn tests the no-search outcome
func TestResearch_ConversationalTurn(t *testing.T) {
	llm := &mockLLM{interpretation: driven.Interpretation{Reply: "Could you narrow the jurisdiction?"}}
	svc := NewResearchService(llm, &mockCaseLaw{}, nil)
	session := domain.NewSession()

	outcome, err := svc.Research(context.Background(), session, "hmm")

	require.NoError(t, err)
	assert.False(t, outcome.Searched)
	assert.Equal(t, "Could you narrow the jurisdiction?", outcome.Reply)
	assert.Len(t, session.Conversation, 2)
	assert.Equal(t, 0, session.Results.Len())
}

// TestResearch_KeywordBranchFailureDegrades tests one-branch degradation
func TestResearch_KeywordBranchFailureDegrades(t *testing.T) {
	llm := &mockLLM{interpretation: driven.Interpretation{Intent: searchIntent()}}
	backend := &mockCaseLaw{
		lexicalErr:      errors.New("backend 500"),
		semanticResults: branchResults(domain.SourceSemantic, 8),
	}
	svc := NewResearchService(llm, backend, nil)

	outcome, err := svc.Research(context.Background(), domain.NewSession(), "icy sidewalks")

	require.NoError(t, err)
	assert.Equal(t, "keyword", outcome.Degraded)
	assert.Equal(t, domain.BranchDisplaySize, outcome.Results.Len())
	for _, r := range outcome.Results.Results {
		assert.Equal(t, domain.SourceSemantic, r.Source)
	}
}

// TestResearch_BothBranchesFailing tests the hard failure path
func TestResearch_BothBranchesFailing(t *testing.T) {
	llm := &mockLLM{interpretation: driven.Interpretation{Intent: searchIntent()}}
	backend := &mockCaseLaw{
		lexicalErr:  errors.New("down"),
		semanticErr: errors.New("down"),
	}
	svc := NewResearchService(llm, backend, nil)
	session := domain.NewSession()

	_, err := svc.Research(context.Background(), session, "icy sidewalks")

	assert.ErrorIs(t, err, domain.ErrSearchUnavailable)
	assert.Empty(t, session.Conversation)
	assert.Equal(t, 0, session.Results.Len())
}

// TestResearch_InterpreterFailure tests interpretation error propagation
func TestResearch_InterpreterFailure(t *testing.T) {
	llm := &mockLLM{interpretErr: domain.ErrLLMUnavailable}
	svc := NewResearchService(llm, &mockCaseLaw{}, nil)
	session := domain.NewSession()

	_, err := svc.Research(context.Background(), session, "icy sidewalks")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Empty(t, session.Conversation)
}

// TestResearch_EmptyInput tests input validation
func TestResearch_EmptyInput(t *testing.T) {
	svc := NewResearchService(&mockLLM{}, &mockCaseLaw{}, nil)

	_, err := svc.Research(context.Background(), domain.NewSession(), "   ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestResearch_HistoryPassedToInterpreter tests conversation context flow
func TestResearch_HistoryPassedToInterpreter(t *testing.T) {
	llm := &mockLLM{interpretation: driven.Interpretation{Reply: "ok"}}
	svc := NewResearchService(llm, &mockCaseLaw{}, nil)
	session := domain.NewSession()
	session.Append(domain.RoleUser, "earlier question")

	_, err := svc.Research(context.Background(), session, "follow-up")

	require.NoError(t, err)
	require.Len(t, llm.lastHistory, 1)
	assert.Equal(t, "earlier question", llm.lastHistory[0].Content)
}

// TestResearch_BooleanInputLocksKeywordBranch tests operator bifurcation
func TestResearch_BooleanInputLocksKeywordBranch(t *testing.T) {
	userText := `"qualified immunity" AND "excessive force"`
	llm := &mockLLM{interpretation: driven.Interpretation{Intent: &domain.SearchIntent{
		SemanticQuery: "police qualified immunity for excessive force",
		KeywordQuery:  "immunity AND force",
	}}}
	backend := &mockCaseLaw{}
	svc := NewResearchService(llm, backend, nil)

	_, err := svc.Research(context.Background(), domain.NewSession(), userText)

	require.NoError(t, err)
	for _, req := range backend.requests {
		if req.Mode == driven.ModeLexical {
			assert.Equal(t, userText, req.Query)
		} else {
			assert.Equal(t, "police qualified immunity for excessive force", req.Query)
		}
	}
}

// TestResearch_MissingKeywordQuerySynthesised tests the keyword fallback
func TestResearch_MissingKeywordQuerySynthesised(t *testing.T) {
	llm := &mockLLM{interpretation: driven.Interpretation{Intent: &domain.SearchIntent{
		SemanticQuery: "wrongful termination retaliation claims",
	}}}
	backend := &mockCaseLaw{}
	svc := NewResearchService(llm, backend, nil)

	_, err := svc.Research(context.Background(), domain.NewSession(), "wrongful termination")

	require.NoError(t, err)
	for _, req := range backend.requests {
		if req.Mode == driven.ModeLexical {
			assert.Equal(t, "wrongful AND termination AND retaliation AND claims", req.Query)
		}
	}
}

// TestResearch_SessionUpdatedAfterSearch tests transcript and result state
func TestResearch_SessionUpdatedAfterSearch(t *testing.T) {
	llm := &mockLLM{interpretation: driven.Interpretation{Intent: searchIntent()}}
	backend := &mockCaseLaw{lexicalResults: branchResults(domain.SourceKeyword, 3)}
	svc := NewResearchService(llm, backend, nil)
	session := domain.NewSession()

	outcome, err := svc.Research(context.Background(), session, "icy sidewalks")

	require.NoError(t, err)
	assert.Equal(t, outcome.Results.Len(), session.Results.Len())
	assert.Equal(t, "premises liability for icy sidewalks", session.LastQuery)
	require.Len(t, session.Conversation, 2)
	assert.Equal(t, domain.RoleUser, session.Conversation[0].Role)
	assert.Contains(t, session.Conversation[1].Content, "presented 3 results")
}

// TestResearch_LogsSessionID tests that verbose turn logs carry the
// session identity for correlating turns across one conversation
func TestResearch_LogsSessionID(t *testing.T) {
	defer func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	}()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)

	llm := &mockLLM{interpretation: driven.Interpretation{Intent: searchIntent()}}
	backend := &mockCaseLaw{lexicalResults: branchResults(domain.SourceKeyword, 2)}
	svc := NewResearchService(llm, backend, nil)
	session := domain.NewSession()

	_, err := svc.Research(context.Background(), session, "icy sidewalks")
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), session, 1)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Session "+session.ID.String())
}

// --- Reranking ---

// TestResearch_RerankerReordersSemanticBranch tests rerank integration
func TestResearch_RerankerReordersSemanticBranch(t *testing.T) {
	llm := &mockLLM{interpretation: driven.Interpretation{Intent: searchIntent()}}
	backend := &mockCaseLaw{semanticResults: branchResults(domain.SourceSemantic, 6)}
	reranker := &mockReranker{reversed: true}
	svc := NewResearchService(llm, backend, reranker)

	outcome, err := svc.Research(context.Background(), domain.NewSession(), "icy sidewalks")

	require.NoError(t, err)
	assert.Equal(t, 1, reranker.calls)
	assert.Equal(t, "SEMANTIC v. Case 6", outcome.Results.Results[0].CaseName)
}

// TestResearch_RerankFailureKeepsBackendOrder tests rerank degradation
func TestResearch_RerankFailureKeepsBackendOrder(t *testing.T) {
	llm := &mockLLM{interpretation: driven.Interpretation{Intent: searchIntent()}}
	backend := &mockCaseLaw{semanticResults: branchResults(domain.SourceSemantic, 6)}
	reranker := &mockReranker{rerankErr: errors.New("rerank 429")}
	svc := NewResearchService(llm, backend, reranker)

	outcome, err := svc.Research(context.Background(), domain.NewSession(), "icy sidewalks")

	require.NoError(t, err)
	assert.Equal(t, "SEMANTIC v. Case 1", outcome.Results.Results[0].CaseName)
}

// TestResearch_NilRerankerSkipsRerank tests the optional reranker
func TestResearch_NilRerankerSkipsRerank(t *testing.T) {
	llm := &mockLLM{interpretation: driven.Interpretation{Intent: searchIntent()}}
	backend := &mockCaseLaw{semanticResults: branchResults(domain.SourceSemantic, 3)}
	svc := NewResearchService(llm, backend, nil)

	outcome, err := svc.Research(context.Background(), domain.NewSession(), "icy sidewalks")

	require.NoError(t, err)
	assert.Equal(t, 3, outcome.Results.Len())
}

// --- Direct search ---

// TestSearch_DirectIntent tests the interpretation-free surface
func TestSearch_DirectIntent(t *testing.T) {
	backend := &mockCaseLaw{
		lexicalResults:  branchResults(domain.SourceKeyword, 4),
		semanticResults: branchResults(domain.SourceSemantic, 4),
	}
	svc := NewResearchService(&mockLLM{}, backend, nil)
	session := domain.NewSession()

	list, err := svc.Search(context.Background(), session, domain.SearchIntent{
		KeywordQuery:      "easement AND prescriptive",
		JurisdictionCodes: []string{"cal", "ca9"},
	})

	require.NoError(t, err)
	assert.Equal(t, 8, list.Len())
	assert.Equal(t, list.Len(), session.Results.Len())
	for _, req := range backend.requests {
		assert.Equal(t, []string{"cal", "ca9"}, req.CourtCodes)
		if req.Mode == driven.ModeSemantic {
			assert.Equal(t, "easement prescriptive", req.Query)
		}
	}
}

// --- Analyze ---

// TestAnalyze_FetchesOpinionAndCommentary tests the drill-down path
func TestAnalyze_FetchesOpinionAndCommentary(t *testing.T) {
	llm := &mockLLM{analysis: "The court held for the plaintiff."}
	backend := &mockCaseLaw{opinionText: "OPINION. The court held for the plaintiff on all counts."}
	svc := NewResearchService(llm, backend, nil)
	session := domain.NewSession()
	session.SetResults("icy sidewalks", domain.MergeBranches(branchResults(domain.SourceKeyword, 3), nil))

	analysis, err := svc.Analyze(context.Background(), session, 2)

	require.NoError(t, err)
	assert.Equal(t, "KEYWORD v. Case 2", analysis.Result.CaseName)
	assert.Contains(t, analysis.OpinionText, "OPINION")
	assert.Equal(t, "The court held for the plaintiff.", analysis.Commentary)
	assert.Equal(t, analysisMaxTokens, llm.lastOpts.MaxTokens)
	assert.InDelta(t, analysisTemperature, llm.lastOpts.Temperature, 0.001)
}

// TestAnalyze_PromptCarriesQuestionAndCase tests analysis framing
func TestAnalyze_PromptCarriesQuestionAndCase(t *testing.T) {
	llm := &mockLLM{analysis: "commentary"}
	backend := &mockCaseLaw{opinionText: "text"}
	svc := NewResearchService(llm, backend, nil)
	session := domain.NewSession()
	session.SetResults("icy sidewalks", domain.MergeBranches(branchResults(domain.SourceKeyword, 1), nil))

	_, err := svc.Analyze(context.Background(), session, 1)

	require.NoError(t, err)
	require.Len(t, llm.lastAnalyze, 1)
	assert.Contains(t, llm.lastAnalyze[0].Content, "KEYWORD v. Case 1")
	assert.Contains(t, llm.lastAnalyze[0].Content, "icy sidewalks")
}

// TestAnalyze_OutOfRange tests selection validation
func TestAnalyze_OutOfRange(t *testing.T) {
	svc := NewResearchService(&mockLLM{}, &mockCaseLaw{}, nil)
	session := domain.NewSession()

	_, err := svc.Analyze(context.Background(), session, 1)

	assert.ErrorIs(t, err, domain.ErrSelectionOutOfRange)
}

// TestAnalyze_NoOpinionRef tests results without opinion documents
func TestAnalyze_NoOpinionRef(t *testing.T) {
	svc := NewResearchService(&mockLLM{}, &mockCaseLaw{}, nil)
	session := domain.NewSession()
	session.SetResults("q", domain.PresentationList{Results: []domain.SearchResult{
		{CaseName: "No Opinion v. Case"},
	}})

	_, err := svc.Analyze(context.Background(), session, 1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestAnalyze_FetchFailure tests opinion fetch error propagation
func TestAnalyze_FetchFailure(t *testing.T) {
	backend := &mockCaseLaw{opinionErr: domain.ErrNotFound}
	svc := NewResearchService(&mockLLM{}, backend, nil)
	session := domain.NewSession()
	session.SetResults("q", domain.MergeBranches(branchResults(domain.SourceKeyword, 1), nil))

	_, err := svc.Analyze(context.Background(), session, 1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestAnalyze_LLMFailureStillReturnsText tests analysis degradation
func TestAnalyze_LLMFailureStillReturnsText(t *testing.T) {
	llm := &mockLLM{analyzeErr: errors.New("model overloaded")}
	backend := &mockCaseLaw{opinionText: "OPINION text"}
	svc := NewResearchService(llm, backend, nil)
	session := domain.NewSession()
	session.SetResults("q", domain.MergeBranches(branchResults(domain.SourceKeyword, 1), nil))

	analysis, err := svc.Analyze(context.Background(), session, 1)

	require.NoError(t, err)
	assert.Empty(t, analysis.Commentary)
	assert.Contains(t, analysis.OpinionText, "OPINION")
}
