// Package scribe orchestrates name extraction against the NPC roster. It
// exposes the two outward extraction operations: suggesting candidate NPC
// names from arbitrary text, and committing one confirmed mention.
package scribe

import (
	"context"
	"fmt"

	"github.com/questward/lorekeeper/internal/extract"
	"github.com/questward/lorekeeper/internal/roster"
)

// Suggestion is one candidate NPC name proposed from session text.
type Suggestion struct {
	// Name is the candidate as extracted.
	Name string `json:"name"`

	// KnownNPC is the most similar existing roster name, when one clears the
	// similarity threshold. A hint for the user; commits stay exact-name.
	KnownNPC string `json:"known_npc,omitempty"`

	// Context is a bounded excerpt of the scanned text, for display next to
	// the candidate.
	Context string `json:"context"`
}

// Service wires an [extract.Extractor] to the NPC roster.
//
// Suggest is stateless; Commit is a thin pass-through to
// [roster.Registry.CommitMention]. Safe for concurrent use.
type Service struct {
	extractor extract.Extractor
	registry  *roster.Registry
	npcs      roster.Store
	matcher   *roster.Matcher
}

// Option configures a [Service].
type Option func(*Service)

// WithSimilarityThreshold overrides the minimum similarity score for
// annotating a candidate with an existing roster name.
func WithSimilarityThreshold(threshold float64) Option {
	return func(s *Service) {
		s.matcher = roster.NewMatcher(roster.WithSimilarityThreshold(threshold))
	}
}

// New returns a [Service] using the given extraction strategy and roster.
func New(extractor extract.Extractor, registry *roster.Registry, npcs roster.Store, opts ...Option) *Service {
	s := &Service{
		extractor: extractor,
		registry:  registry,
		npcs:      npcs,
		matcher:   roster.NewMatcher(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Suggest scans text for candidate NPC names. Nothing is persisted; result
// order is unspecified. Each candidate is annotated with the closest
// existing roster name when one is similar enough.
func (s *Service) Suggest(ctx context.Context, text string) ([]Suggestion, error) {
	names, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("scribe: extract candidates: %w", err)
	}
	if len(names) == 0 {
		return []Suggestion{}, nil
	}

	known, err := s.npcs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scribe: list roster for annotation: %w", err)
	}
	knownNames := make([]string, len(known))
	for i, npc := range known {
		knownNames[i] = npc.Name
	}

	preview := extract.SummarizeInteraction(text)
	suggestions := make([]Suggestion, len(names))
	for i, name := range names {
		sug := Suggestion{Name: name, Context: preview}
		if match, ok := s.matcher.Closest(name, knownNames); ok {
			sug.KnownNPC = match
		}
		suggestions[i] = sug
	}
	return suggestions, nil
}

// Commit records one confirmed NPC mention. The caller supplies npcName and
// extractedText, typically after a user confirms one of Suggest's candidates.
func (s *Service) Commit(ctx context.Context, sessionID, extractedText, npcName string) (roster.Action, roster.NPC, error) {
	return s.registry.CommitMention(ctx, sessionID, extractedText, npcName)
}
