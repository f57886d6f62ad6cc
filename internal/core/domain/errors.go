package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoToolCall indicates the language model answered with free text
	// instead of invoking the search tool. The turn cannot be executed;
	// the user is asked to rephrase.
	ErrNoToolCall = errors.New("no search tool call produced")

	// ErrSelectionOutOfRange indicates a drill-down index outside the
	// current presentation list. No external request is made.
	ErrSelectionOutOfRange = errors.New("selection out of range")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Interpretation and opinion analysis are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrSearchUnavailable indicates the case-law backend is not configured.
	ErrSearchUnavailable = errors.New("search backend unavailable")

	// ErrRerankUnavailable indicates the rerank service is not configured.
	// The semantic branch falls back to backend ordering.
	ErrRerankUnavailable = errors.New("rerank service unavailable")

	// ErrMissingCredential indicates a required API credential is absent.
	// This is fatal at startup.
	ErrMissingCredential = errors.New("missing credential")

	// ErrAuthInvalid indicates the API rejected the configured credential.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
