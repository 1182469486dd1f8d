package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/questward/lorekeeper/internal/llm"
)

const modelTemperature = 0.1

// modelSystemPrompt instructs the LLM to return only a JSON array of names.
// The conservative phrasing keeps the model from inventing characters that
// are not actually mentioned in the text.
const modelSystemPrompt = `You are an assistant for a tabletop role-playing game note-taking tool.

Your task: list the names of non-player characters (NPCs) mentioned in the provided session text.

Rules:
- Only list names that actually appear in the text.
- Do NOT list player characters, place names, or generic roles ("the guard").
- Preserve the exact spelling and capitalisation used in the text.

Respond with ONLY a JSON array of name strings (no markdown, no prose), e.g.:
["Thorin the Blacksmith", "Elara"]

If no NPCs are mentioned, return [].`

// Compile-time assertion that ModelExtractor satisfies the Extractor interface.
var _ Extractor = (*ModelExtractor)(nil)

// ModelExtractor proposes candidate NPC names by asking an LLM.
//
// When the model call fails or its reply cannot be parsed, the extractor
// falls back to the configured fallback strategy (a [PatternExtractor] by
// default) instead of surfacing an error, so a flaky or misconfigured model
// backend degrades to pattern scanning rather than breaking suggestions.
//
// It is safe for concurrent use.
type ModelExtractor struct {
	llm      llm.Provider
	fallback Extractor
}

// ModelOption is a functional option for configuring a [ModelExtractor].
type ModelOption func(*ModelExtractor)

// WithFallback sets the extractor consulted when the model path fails.
// Default: a [PatternExtractor].
func WithFallback(e Extractor) ModelOption {
	return func(m *ModelExtractor) {
		m.fallback = e
	}
}

// NewModelExtractor returns a [ModelExtractor] backed by the given provider.
func NewModelExtractor(provider llm.Provider, opts ...ModelOption) *ModelExtractor {
	m := &ModelExtractor{
		llm:      provider,
		fallback: NewPatternExtractor(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Extract implements [Extractor]. The model's raw names pass through the same
// trim/dedupe/stopword post-processing as the pattern scans.
func (m *ModelExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	reply, err := m.llm.Complete(ctx, llm.Request{
		SystemPrompt: modelSystemPrompt,
		Prompt:       text,
		Temperature:  modelTemperature,
	})
	if err != nil {
		return m.fallback.Extract(ctx, text)
	}

	names, ok := parseNameArray(reply)
	if !ok {
		return m.fallback.Extract(ctx, text)
	}
	return FilterCandidates(names), nil
}

// parseNameArray extracts a JSON string array from an LLM reply. Models
// occasionally wrap the array in a markdown code fence or surrounding prose;
// parsing starts at the first '[' and ends at the last ']'.
func parseNameArray(reply string) ([]string, bool) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end <= start {
		return nil, false
	}

	var names []string
	if err := json.Unmarshal([]byte(reply[start:end+1]), &names); err != nil {
		return nil, false
	}
	return names, true
}
