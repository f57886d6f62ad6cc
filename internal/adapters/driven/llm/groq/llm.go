// Package groq provides an LLM service adapter using the Groq API.
// Groq exposes an OpenAI-compatible surface, so the same adapter works
// against any compatible inference server via BaseURL.
package groq

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

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.groq.com/openai/v1"
	DefaultLLMModel   = "llama-3.3-70b-versatile"
	DefaultLLMTimeout = 120 * time.Second
)

const searchToolName = "search_case_law"

// LLMConfig holds configuration for the Groq LLM service.
type LLMConfig struct {
	// APIKey is the Groq API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.groq.com/openai/v1).
	// Can be changed for any OpenAI-compatible API.
	BaseURL string

	// Model is the LLM model to use (default: llama-3.3-70b-versatile).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides LLM operations using the Groq API.
type LLMService struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	promptStore driven.PromptStore
	now         func() time.Time
}

// chatCompletionRequest is the /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	Tools       []toolDefinition    `json:"tools,omitempty"`
	ToolChoice  string              `json:"tool_choice,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

// chatCompletionMsg is the chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// toolDefinition declares a callable function to the model.
type toolDefinition struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// chatCompletionResponse is the /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// searchToolArguments is the argument payload of a search_case_law
// tool call.
type searchToolArguments struct {
	SemanticQuery string `json:"semantic_query"`
	KeywordQuery  string `json:"keyword_query"`
	Jurisdiction  string `json:"jurisdiction"`
	FiledAfter    string `json:"filed_after"`
	FiledBefore   string `json:"filed_before"`
}

// NewLLMService creates a new Groq LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq: API key is required: %w", domain.ErrMissingCredential)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		now:     time.Now,
	}, nil
}

// InterpretQuery extracts a structured search intent from the user's
// request by offering the model the search_case_law tool.
func (s *LLMService) InterpretQuery(
	ctx context.Context, userText string, history []domain.Message,
) (driven.Interpretation, error) {
	messages := make([]chatCompletionMsg, 0, len(history)+2)
	messages = append(messages, chatCompletionMsg{
		Role:    domain.RoleSystem,
		Content: s.systemPrompt(),
	})
	for _, msg := range history {
		messages = append(messages, chatCompletionMsg{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, chatCompletionMsg{Role: domain.RoleUser, Content: userText})

	resp, err := s.chatCompletion(ctx, chatCompletionRequest{
		Model:      s.model,
		Messages:   messages,
		Tools:      []toolDefinition{searchCaseLawTool()},
		ToolChoice: "auto",
	})
	if err != nil {
		return driven.Interpretation{}, err
	}

	if len(resp.Choices) == 0 {
		return driven.Interpretation{}, fmt.Errorf("groq: no response choices returned: %w", domain.ErrNoToolCall)
	}
	msg := resp.Choices[0].Message

	if len(msg.ToolCalls) > 0 {
		call := msg.ToolCalls[0]
		if call.Function.Name != searchToolName {
			return driven.Interpretation{}, fmt.Errorf("groq: unexpected tool call %q: %w", call.Function.Name, domain.ErrNoToolCall)
		}
		intent, err := s.parseToolArguments(call.Function.Arguments)
		if err != nil {
			return driven.Interpretation{}, err
		}
		return driven.Interpretation{Intent: intent}, nil
	}

	reply := strings.TrimSpace(msg.Content)
	if reply == "" {
		return driven.Interpretation{}, fmt.Errorf("groq: response had neither tool call nor content: %w", domain.ErrNoToolCall)
	}
	return driven.Interpretation{Reply: reply}, nil
}

// parseToolArguments turns the tool call's JSON arguments into a search
// intent. Unparseable filing dates drop that bound rather than failing
// the turn.
func (s *LLMService) parseToolArguments(raw string) (*domain.SearchIntent, error) {
	var args searchToolArguments
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("groq: decode tool arguments: %w", err)
	}

	intent := &domain.SearchIntent{
		SemanticQuery: strings.TrimSpace(args.SemanticQuery),
		KeywordQuery:  strings.TrimSpace(args.KeywordQuery),
	}
	if intent.SemanticQuery == "" && intent.KeywordQuery == "" {
		return nil, fmt.Errorf("groq: tool call carried no query: %w", domain.ErrInvalidInput)
	}

	if args.Jurisdiction != "" {
		intent.JurisdictionCodes = domain.MapJurisdiction(args.Jurisdiction)
		if intent.JurisdictionCodes == nil {
			logger.Warn("Unrecognized jurisdiction %q, searching all courts", args.Jurisdiction)
		}
	}

	if args.FiledAfter != "" {
		if t, err := domain.ParseFilingDate(args.FiledAfter); err == nil {
			intent.FiledAfter = t
		} else {
			logger.Warn("Dropping unparseable filed_after %q", args.FiledAfter)
		}
	}
	if args.FiledBefore != "" {
		if t, err := domain.ParseFilingDate(args.FiledBefore); err == nil {
			intent.FiledBefore = t
		} else {
			logger.Warn("Dropping unparseable filed_before %q", args.FiledBefore)
		}
	}

	return intent, nil
}

// Analyze runs a plain chat completion over the given transcript.
func (s *LLMService) Analyze(
	ctx context.Context, messages []domain.Message, opts driven.GenerateOptions,
) (string, error) {
	chatMessages := make([]chatCompletionMsg, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatCompletionMsg{Role: msg.Role, Content: msg.Content}
	}

	req := chatCompletionRequest{
		Model:    s.model,
		Messages: chatMessages,
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		req.Temperature = opts.Temperature
	}

	resp, err := s.chatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq: no response choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// chatCompletion posts one /chat/completions request.
func (s *LLMService) chatCompletion(
	ctx context.Context, reqBody chatCompletionRequest,
) (*chatCompletionResponse, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w: %v", domain.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, fmt.Errorf("groq error: %s", chatResp.Error.Message)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("groq error (status %d): %w", resp.StatusCode, domain.ErrAuthInvalid)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("groq error (status %d): %w", resp.StatusCode, domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("groq error (status %d): %s", resp.StatusCode, string(body))
	}

	return &chatResp, nil
}

// systemPrompt renders the interpreter system prompt with today's date,
// so the model can resolve relative timeframes like "last 5 years".
func (s *LLMService) systemPrompt() string {
	tmpl := s.loadPrompt(driven.PromptInterpreterSystem, defaultInterpreterPrompt)
	return fmt.Sprintf(tmpl, s.now().Format("January 2, 2006"))
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *LLMService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *LLMService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ping validates the service is reachable by checking the /models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("groq: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("groq: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("groq: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("groq: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// searchCaseLawTool declares the search_case_law function to the model.
func searchCaseLawTool() toolDefinition {
	return toolDefinition{
		Type: "function",
		Function: toolFunction{
			Name: searchToolName,
			Description: "Search a database of 8+ million court opinions. " +
				"Runs a keyword search and a semantic search in parallel and presents the merged results. " +
				"Call this whenever the user describes a legal issue to research.",
			Parameters: json.RawMessage(searchToolSchema),
		},
	}
}

const searchToolSchema = `{
  "type": "object",
  "properties": {
    "semantic_query": {
      "type": "string",
      "description": "Natural-language query enriched with legal terminology, synonyms, and related doctrines. No Boolean operators. No jurisdiction or date terms; those go in their own parameters."
    },
    "keyword_query": {
      "type": "string",
      "description": "Boolean query with AND/OR/NOT, quoted phrases, and wildcards. Use 2-3 AND clauses at most and group synonyms with OR. No jurisdiction or date terms."
    },
    "jurisdiction": {
      "type": "string",
      "description": "The user's jurisdiction phrasing, passed through verbatim, e.g. 'california state', 'texas federal', 'ninth circuit', 'supreme court'. Leave empty when the user names no jurisdiction."
    },
    "filed_after": {
      "type": "string",
      "description": "Earliest filing date, MM/DD/YYYY. Calculate relative timeframes like 'last 5 years' from today's date. Leave empty when the user mentions no timeframe."
    },
    "filed_before": {
      "type": "string",
      "description": "Latest filing date, MM/DD/YYYY. Leave empty when the user mentions no timeframe."
    }
  },
  "required": ["semantic_query", "keyword_query"]
}`

// defaultInterpreterPrompt is the fallback system prompt when no
// PromptStore is configured. The %s placeholder receives today's date.
const defaultInterpreterPrompt = `You are Yevrah, an AI-enabled legal research assistant. Today's date is %s.

For EVERY research request, call search_case_law with BOTH queries:
- semantic_query: enriched natural language. Identify the core legal issue, add legal terminology, synonyms, and related doctrines. 8-15 words. Example: "customer injured slip fall grocery store retail premises liability negligence duty of care".
- keyword_query: Boolean form with AND/OR, quoted phrases, wildcards. Use 2-3 AND clauses at most; too many ANDs returns nothing. Example: "premises liability" AND (slip OR fall OR trip) AND (store OR retail).

Never put jurisdiction or date terms inside either query. Extract them instead:
- jurisdiction: pass the user's phrasing verbatim ("california state", "texas federal", "9th circuit"); the system expands it to court codes.
- filed_after / filed_before: only when the user mentions a timeframe. Calculate relative dates ("last 5 years", "recent" means 2 years) from today's date. When no timeframe is mentioned, leave both empty; landmark cases may be decades old.

If the user's message is not a research request (a greeting, a question about how you work, a clarification), answer conversationally without calling the tool.

After results are shown, remind the user they can enter a result number to analyze that opinion in detail.

Persona: a seasoned litigation partner. Professional but personable. Think strategically about which precedent actually helps.`
