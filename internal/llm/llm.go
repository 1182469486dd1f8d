// Package llm defines the minimal completion interface Lorekeeper needs from
// a language-model backend, together with an adapter for
// github.com/mozilla-ai/any-llm-go.
//
// The only consumer is the model-backed name extractor, which sends one
// prompt and reads one text response, so the interface is deliberately a
// single method rather than a full chat abstraction.
package llm

import "context"

// Request carries a single completion request.
type Request struct {
	// SystemPrompt is an optional high-priority instruction injected before
	// the user prompt.
	SystemPrompt string

	// Prompt is the user-role message driving the response.
	Prompt string

	// Temperature controls output randomness. Zero means the provider default.
	Temperature float64

	// MaxTokens caps the completion length. Zero means the provider default.
	MaxTokens int
}

// Provider is the abstraction over any LLM backend.
//
// Implementations must be safe for concurrent use and must propagate context
// cancellation promptly.
type Provider interface {
	// Complete sends req to the model and returns the full text of the reply.
	Complete(ctx context.Context, req Request) (string, error)
}
