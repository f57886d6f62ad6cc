package driven

import (
	"context"

	"github.com/yevrah-labs/yevrah-cli/internal/core/domain"
)

// LLMService provides language model operations: interpreting
// natural-language research requests into structured search intents,
// and analysing opinion text against a research question.
//
// Implementations may include:
//   - Groq (llama, mixtral via the OpenAI-compatible API)
//   - any OpenAI-compatible inference server
type LLMService interface {
	// InterpretQuery extracts a structured search intent from the user's
	// request, using the prior conversation for context. When the model
	// answers in prose instead of invoking the search tool, the result
	// carries a nil Intent and the reply text. A response with neither a
	// tool call nor content is an error wrapping domain.ErrNoToolCall.
	InterpretQuery(ctx context.Context, userText string, history []domain.Message) (Interpretation, error)

	// Analyze runs a chat completion over the given transcript. Used for
	// opinion analysis after drill-down.
	Analyze(ctx context.Context, messages []domain.Message, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before entering the chat loop.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Interpretation is the outcome of one interpretation turn: either a
// structured search intent or a conversational reply, never both.
type Interpretation struct {
	// Intent is the extracted search intent, nil when the model replied
	// conversationally.
	Intent *domain.SearchIntent

	// Reply is the model's prose answer when no search was requested.
	Reply string
}

// GenerateOptions configures completion behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
