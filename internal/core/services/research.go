package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yevrah-labs/yevrah-cli/internal/core/domain"
	"github.com/yevrah-labs/yevrah-cli/internal/core/ports/driven"
	"github.com/yevrah-labs/yevrah-cli/internal/core/ports/driving"
	"github.com/yevrah-labs/yevrah-cli/internal/logger"
)

// Ensure ResearchService implements the interface.
var _ driving.ResearchService = (*ResearchService)(nil)

const (
	// branchTimeout bounds each search branch independently, so a slow
	// branch cannot stall the whole turn.
	branchTimeout = 30 * time.Second

	// rerankTimeout bounds the optional rerank call.
	rerankTimeout = 15 * time.Second

	analysisMaxTokens   = 1500
	analysisTemperature = 0.3
)

// ResearchService orchestrates query interpretation, dual-branch
// search, optional reranking, and merging.
type ResearchService struct {
	llmService driven.LLMService
	caselaw    driven.CaseLawClient
	reranker   driven.Reranker
	prompts    driven.PromptStore
}

// NewResearchService creates a new research service.
// The reranker parameter is optional (can be nil).
func NewResearchService(
	llmService driven.LLMService,
	caselaw driven.CaseLawClient,
	reranker driven.Reranker,
) *ResearchService {
	return &ResearchService{
		llmService: llmService,
		caselaw:    caselaw,
		reranker:   reranker,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *ResearchService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Research handles one natural-language turn: interpretation, then the
// dual search when the interpreter requested one.
func (s *ResearchService) Research(
	ctx context.Context, session *domain.Session, userText string,
) (driving.ResearchOutcome, error) {
	logger.Section("Research Turn")
	logger.Debug("Session %s: %q", session.ID, userText)

	userText = strings.TrimSpace(userText)
	if userText == "" {
		return driving.ResearchOutcome{}, fmt.Errorf("empty input: %w", domain.ErrInvalidInput)
	}

	interp, err := s.llmService.InterpretQuery(ctx, userText, session.Conversation)
	if err != nil {
		logger.Warn("Interpretation failed: %v", err)
		return driving.ResearchOutcome{}, fmt.Errorf("interpret query: %w", err)
	}

	if interp.Intent == nil {
		logger.Info("Conversational turn, no search requested")
		session.Append(domain.RoleUser, userText)
		session.Append(domain.RoleAssistant, interp.Reply)
		return driving.ResearchOutcome{Reply: interp.Reply}, nil
	}

	intent := s.prepareIntent(userText, *interp.Intent)

	list, degraded, err := s.dualSearch(ctx, intent)
	if err != nil {
		return driving.ResearchOutcome{}, err
	}

	session.Append(domain.RoleUser, userText)
	session.Append(domain.RoleAssistant, searchTranscriptNote(intent, list))
	session.SetResults(intent.SemanticQuery, list)

	return driving.ResearchOutcome{
		Results:  list,
		Searched: true,
		Degraded: degraded,
	}, nil
}

// Search runs the dual search directly from a structured intent.
func (s *ResearchService) Search(
	ctx context.Context, session *domain.Session, intent domain.SearchIntent,
) (domain.PresentationList, error) {
	logger.Section("Direct Search")
	logger.Debug("Session %s: %q", session.ID, intent.KeywordQuery)

	intent = s.prepareIntent(intent.KeywordQuery, intent)
	list, _, err := s.dualSearch(ctx, intent)
	if err != nil {
		return domain.PresentationList{}, err
	}

	session.SetResults(intent.SemanticQuery, list)
	return list, nil
}

// prepareIntent fills the gaps an interpreter (or direct caller) may
// leave: a missing branch query is derived from the other, and Boolean
// operator text locks the keyword branch to the verbatim user input.
func (s *ResearchService) prepareIntent(userText string, intent domain.SearchIntent) domain.SearchIntent {
	if strings.TrimSpace(intent.SemanticQuery) == "" {
		if domain.HasBooleanOperators(intent.KeywordQuery) {
			intent.SemanticQuery = domain.Naturalize(intent.KeywordQuery)
		} else {
			intent.SemanticQuery = intent.KeywordQuery
		}
		logger.Debug("Derived semantic query: %q", intent.SemanticQuery)
	}
	if strings.TrimSpace(intent.KeywordQuery) == "" {
		intent.KeywordQuery = domain.FallbackKeywordQuery(intent.SemanticQuery)
		logger.Debug("Derived keyword query: %q", intent.KeywordQuery)
	}

	intent = domain.Bifurcate(userText, intent)
	logger.Debug("Keyword branch: %q", intent.KeywordQuery)
	logger.Debug("Semantic branch: %q", intent.SemanticQuery)
	return intent
}

// dualSearch runs the keyword and semantic branches in parallel and
// merges their results. One branch failing degrades the turn to the
// surviving branch; both failing fails the turn.
func (s *ResearchService) dualSearch(
	ctx context.Context, intent domain.SearchIntent,
) (domain.PresentationList, string, error) {
	logger.Debug("Dual search: running keyword and semantic branches in parallel")

	var keywordResults, semanticResults []domain.SearchResult
	var keywordErr, semanticErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		keywordResults, keywordErr = s.branchSearch(ctx, intent, driven.ModeLexical)
	}()

	go func() {
		defer wg.Done()
		semanticResults, semanticErr = s.branchSearch(ctx, intent, driven.ModeSemantic)
	}()

	wg.Wait()

	if keywordErr != nil && semanticErr != nil {
		logger.Warn("Dual search: both branches failed")
		return domain.PresentationList{}, "", fmt.Errorf(
			"dual search: keyword=%w, semantic=%v: %w",
			keywordErr, semanticErr, domain.ErrSearchUnavailable)
	}

	degraded := ""
	if keywordErr != nil {
		logger.Warn("Dual search: keyword branch failed, using semantic results only: %v", keywordErr)
		degraded = "keyword"
	}
	if semanticErr != nil {
		logger.Warn("Dual search: semantic branch failed, using keyword results only: %v", semanticErr)
		degraded = "semantic"
	}

	semanticResults = s.rerankBranch(ctx, intent.SemanticQuery, semanticResults)

	list := domain.MergeBranches(keywordResults, semanticResults)
	logger.Info("Presenting %d results (%d keyword, %d semantic fetched)",
		list.Len(), len(keywordResults), len(semanticResults))
	return list, degraded, nil
}

// branchSearch executes one branch with its own timeout.
func (s *ResearchService) branchSearch(
	ctx context.Context, intent domain.SearchIntent, mode driven.SearchMode,
) ([]domain.SearchResult, error) {
	query := intent.KeywordQuery
	if mode == driven.ModeSemantic {
		query = intent.SemanticQuery
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%s branch: empty query: %w", mode, domain.ErrInvalidInput)
	}

	branchCtx, cancel := context.WithTimeout(ctx, branchTimeout)
	defer cancel()

	results, err := s.caselaw.Search(branchCtx, driven.SearchRequest{
		Query:       query,
		Mode:        mode,
		CourtCodes:  intent.JurisdictionCodes,
		FiledAfter:  intent.FiledAfter,
		FiledBefore: intent.FiledBefore,
		PageSize:    domain.BranchFetchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%s branch: %w", mode, err)
	}
	logger.Debug("%s branch: %d hits", mode, len(results))
	return results, nil
}

// rerankBranch reorders semantic results when a reranker is configured.
// Rerank failures fall back to backend order rather than failing the
// search.
func (s *ResearchService) rerankBranch(
	ctx context.Context, query string, results []domain.SearchResult,
) []domain.SearchResult {
	if s.reranker == nil || len(results) == 0 {
		return results
	}

	rerankCtx, cancel := context.WithTimeout(ctx, rerankTimeout)
	defer cancel()

	reranked, err := s.reranker.Rerank(rerankCtx, query, results)
	if err != nil {
		logger.Warn("Rerank failed, keeping backend order: %v", err)
		return results
	}
	logger.Debug("Reranked %d semantic results with %s", len(reranked), s.reranker.ModelName())
	return reranked
}

// Analyze drills into one presented result: fetch the opinion text and
// run model analysis against the session's research question.
func (s *ResearchService) Analyze(
	ctx context.Context, session *domain.Session, position int,
) (driving.Analysis, error) {
	logger.Section("Opinion Analysis")
	logger.Debug("Session %s: result %d selected", session.ID, position)

	result, err := session.Results.Select(position)
	if err != nil {
		return driving.Analysis{}, err
	}
	if result.OpinionRef == "" {
		logger.Warn("Result %d has no opinion reference", position)
		return driving.Analysis{}, fmt.Errorf("no opinion available for %q: %w", result.CaseName, domain.ErrNotFound)
	}

	logger.Debug("Fetching opinion %s for %q", result.OpinionRef, result.CaseName)
	text, err := s.caselaw.OpinionText(ctx, result.OpinionRef)
	if err != nil {
		return driving.Analysis{}, fmt.Errorf("fetch opinion: %w", err)
	}

	commentary, err := s.analyzeOpinion(ctx, session, result, text)
	if err != nil {
		logger.Warn("Opinion analysis failed, returning text only: %v", err)
		commentary = ""
	}

	analysis := driving.Analysis{
		Result:      result,
		OpinionText: domain.Truncate(text, domain.DisplayTextLimit),
		Commentary:  commentary,
	}

	session.Append(domain.RoleUser, fmt.Sprintf("Analyze case %d: %s", position, result.CaseName))
	if commentary != "" {
		session.Append(domain.RoleAssistant, commentary)
	}
	return analysis, nil
}

// analyzeOpinion frames the opinion against the last research question
// and asks the model for commentary.
func (s *ResearchService) analyzeOpinion(
	ctx context.Context, session *domain.Session, result domain.SearchResult, text string,
) (string, error) {
	question := session.LastQuery
	if question == "" {
		question = "the relevance and key holdings of this case"
	}

	prompt := fmt.Sprintf(s.analysisTemplate(), result.CaseName, question,
		domain.Truncate(text, domain.ModelTextLimit))

	return s.llmService.Analyze(ctx, []domain.Message{
		{Role: domain.RoleUser, Content: prompt},
	}, driven.GenerateOptions{
		MaxTokens:   analysisMaxTokens,
		Temperature: analysisTemperature,
	})
}

func (s *ResearchService) analysisTemplate() string {
	if s.prompts != nil {
		if tmpl, err := s.prompts.Load(driven.PromptAnalysis); err == nil && tmpl != "" {
			return tmpl
		}
	}
	return defaultAnalysisPrompt
}

const defaultAnalysisPrompt = `You are a legal research assistant. Analyze the following court opinion.

Case: %s
Research question: %s

Opinion text:
%s

Provide:
1. Summary: what happened and what the court decided
2. Relevance: how this case bears on the research question
3. Key Legal Principles: the rules and holdings a researcher should note
4. Research Utility: how useful this case is as authority, and any limits`

// searchTranscriptNote summarises a search turn for the conversation
// transcript, so follow-up interpretation has context without carrying
// full result payloads.
func searchTranscriptNote(intent domain.SearchIntent, list domain.PresentationList) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Searched case law for %q", intent.SemanticQuery)
	if len(intent.JurisdictionCodes) > 0 {
		fmt.Fprintf(&b, " in %s", strings.Join(intent.JurisdictionCodes, " "))
	}
	fmt.Fprintf(&b, "; presented %d results:", list.Len())
	for i, r := range list.Results {
		fmt.Fprintf(&b, "\n%d. %s (%s, %s)", i+1, r.CaseName, r.Court, r.DateFiled)
	}
	return b.String()
}

// Close releases the service's backing clients.
func (s *ResearchService) Close() error {
	var errs []error
	if s.llmService != nil {
		errs = append(errs, s.llmService.Close())
	}
	if s.caselaw != nil {
		errs = append(errs, s.caselaw.Close())
	}
	if s.reranker != nil {
		errs = append(errs, s.reranker.Close())
	}
	return errors.Join(errs...)
}
