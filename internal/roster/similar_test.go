package roster_test

import (
	"testing"

	"github.com/questward/lorekeeper/internal/roster"
)

func TestMatcherClosest(t *testing.T) {
	t.Parallel()

	known := []string{"Thorin the Blacksmith", "Elara the Barmaid", "Grax"}

	tests := []struct {
		name      string
		candidate string
		wantName  string
		wantOK    bool
	}{
		{
			name:      "exact match",
			candidate: "Elara the Barmaid",
			wantName:  "Elara the Barmaid",
			wantOK:    true,
		},
		{
			name:      "case variant",
			candidate: "elara the barmaid",
			wantName:  "Elara the Barmaid",
			wantOK:    true,
		},
		{
			name:      "near miss spelling",
			candidate: "Thorin the Blacksmit",
			wantName:  "Thorin the Blacksmith",
			wantOK:    true,
		},
		{
			name:      "unrelated name",
			candidate: "Captain Veyra",
			wantOK:    false,
		},
		{
			name:      "blank candidate",
			candidate: "   ",
			wantOK:    false,
		},
	}

	m := roster.NewMatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := m.Closest(tt.candidate, known)
			if ok != tt.wantOK {
				t.Fatalf("Closest(%q) ok = %v, want %v (match %q)", tt.candidate, ok, tt.wantOK, got)
			}
			if ok && got != tt.wantName {
				t.Fatalf("Closest(%q) = %q, want %q", tt.candidate, got, tt.wantName)
			}
		})
	}

	t.Run("empty known list", func(t *testing.T) {
		t.Parallel()
		if _, ok := m.Closest("Anyone", nil); ok {
			t.Fatal("Closest with no known names reported a match")
		}
	})

	t.Run("threshold option", func(t *testing.T) {
		t.Parallel()
		strict := roster.NewMatcher(roster.WithSimilarityThreshold(0.999))
		if _, ok := strict.Closest("Thorin the Blacksmit", known); ok {
			t.Fatal("strict matcher accepted a near miss")
		}
	})
}
