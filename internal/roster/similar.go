package roster

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// defaultSimilarityThreshold is the minimum Jaro-Winkler score for a roster
// name to be reported as similar to a candidate.
const defaultSimilarityThreshold = 0.85

// MatcherOption is a functional option for configuring a [Matcher].
type MatcherOption func(*Matcher)

// WithSimilarityThreshold sets the minimum Jaro-Winkler score required for a
// match. Default: 0.85.
func WithSimilarityThreshold(threshold float64) MatcherOption {
	return func(m *Matcher) {
		m.threshold = threshold
	}
}

// Matcher finds the existing roster name most similar to a candidate name.
//
// It is used to annotate extraction suggestions: when a freshly-detected name
// is close to a known NPC ("Thorin Blacksmith" vs "Thorin the Blacksmith"),
// the suggestion carries the known name as a hint so the user can pick the
// existing record instead of creating a near-duplicate. Matches are never
// merged automatically — mention commits stay exact-name.
//
// A Matcher is read-only after construction and safe for concurrent use.
type Matcher struct {
	threshold float64
}

// NewMatcher returns a [Matcher] configured with the supplied options.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{threshold: defaultSimilarityThreshold}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Closest returns the name from known with the highest Jaro-Winkler
// similarity to candidate, provided the score clears the threshold.
// Comparison is case-insensitive on trimmed strings; an exact match scores
// 1.0 and is reported like any other.
func (m *Matcher) Closest(candidate string, known []string) (name string, ok bool) {
	cand := strings.ToLower(strings.TrimSpace(candidate))
	if cand == "" || len(known) == 0 {
		return "", false
	}

	var (
		best      string
		bestScore float64
	)
	for _, k := range known {
		kl := strings.ToLower(strings.TrimSpace(k))
		if kl == "" {
			continue
		}
		if score := matchr.JaroWinkler(cand, kl, false); score > bestScore {
			best, bestScore = k, score
		}
	}

	if bestScore < m.threshold {
		return "", false
	}
	return best, true
}
