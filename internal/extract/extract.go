// Package extract implements candidate NPC name detection over free-form
// session text, plus the interaction summariser used to keep suggestion
// previews compact.
//
// Extraction is a swappable strategy behind the [Extractor] interface:
//
//   - [PatternExtractor] scans the text with a small set of capitalised-name
//     regular expressions. Deterministic, no I/O, the default.
//   - [ModelExtractor] asks an LLM to propose names and falls back to the
//     pattern path when the model call fails or returns garbage.
//
// Callers must not rely on result ordering — extraction has set semantics.
package extract

import (
	"context"
	"regexp"
	"strings"
)

// Extractor proposes candidate NPC names found in session text.
//
// Implementations must be safe for concurrent use. The returned slice is
// deduplicated; its order is unspecified.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// namePatterns are the scans applied by [PatternExtractor], in order:
//
//  1. Two capitalised words optionally joined by "the" ("Thorin the Blacksmith").
//  2. Two capitalised words ("John Smith") — a subset of #1, kept so that
//     removing the "the" variant never changes plain-bigram behaviour.
//  3. An explicit "NPC:" marker followed by a run of letters and spaces.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([A-Z][a-z]+ (?:the )?[A-Z][a-z]+)\b`),
	regexp.MustCompile(`\b([A-Z][a-z]+ [A-Z][a-z]+)\b`),
	regexp.MustCompile(`NPC:\s*([A-Za-z\s]+)`),
}

// stopwords are capitalised bigrams that match the name patterns but never
// denote an NPC. Matching is exact on the trimmed candidate.
var stopwords = map[string]struct{}{
	"The Game":       {},
	"The Party":      {},
	"The Group":      {},
	"Game Master":    {},
	"Dungeon Master": {},
}

// Compile-time assertion that PatternExtractor satisfies the Extractor interface.
var _ Extractor = (*PatternExtractor)(nil)

// PatternExtractor detects candidate NPC names with regular-expression scans.
// It is pure and reentrant; the zero value is ready to use.
type PatternExtractor struct{}

// NewPatternExtractor returns a ready-to-use [PatternExtractor].
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Extract implements [Extractor]. It unions the matches of all name patterns,
// trims surrounding whitespace, deduplicates, and drops stopword matches.
// It never returns an error.
func (PatternExtractor) Extract(_ context.Context, text string) ([]string, error) {
	return FilterCandidates(scan(text)), nil
}

// scan returns the raw, untrimmed matches of every name pattern in order.
func scan(text string) []string {
	var matches []string
	for _, re := range namePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			matches = append(matches, m[1])
		}
	}
	return matches
}

// FilterCandidates trims, deduplicates, and stopword-filters a list of raw
// name candidates. It is exported so that alternative extraction backends can
// apply the same post-processing to their own raw output.
func FilterCandidates(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))
	for _, candidate := range raw {
		name := strings.TrimSpace(candidate)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if _, stop := stopwords[name]; stop {
			continue
		}
		names = append(names, name)
	}
	return names
}
