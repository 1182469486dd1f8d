package extract_test

import (
	"context"
	"slices"
	"testing"

	"github.com/questward/lorekeeper/internal/extract"
)

func TestPatternExtract(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := extract.NewPatternExtractor()

	tests := []struct {
		name string
		text string
		want []string // names that must be present
		deny []string // names that must be absent
	}{
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "no capitalised bigrams",
			text: "the party walked into a dark tavern and ordered drinks",
			want: nil,
		},
		{
			name: "name joined by the",
			text: "Thorin the Blacksmith discussed prices.",
			want: []string{"Thorin the Blacksmith"},
		},
		{
			name: "plain two-word name",
			text: "They met John Smith at the gate.",
			want: []string{"John Smith"},
		},
		{
			name: "npc marker",
			text: "NPC: Elara the Barmaid",
			want: []string{"Elara the Barmaid"},
		},
		{
			name: "stopword is filtered",
			text: "The Game continued.",
			deny: []string{"The Game"},
		},
		{
			name: "stopword among real names",
			text: "Dungeon Master ruled that Kira Dawnblade wins.",
			want: []string{"Kira Dawnblade"},
			deny: []string{"Dungeon Master"},
		},
		{
			name: "duplicate across patterns reported once",
			text: "Mira Vane spoke. Later Mira Vane left.",
			want: []string{"Mira Vane"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := e.Extract(ctx, tt.text)
			if err != nil {
				t.Fatalf("Extract: unexpected error: %v", err)
			}
			for _, want := range tt.want {
				if !slices.Contains(got, want) {
					t.Errorf("Extract(%q) = %v; missing %q", tt.text, got, want)
				}
			}
			for _, deny := range tt.deny {
				if slices.Contains(got, deny) {
					t.Errorf("Extract(%q) = %v; must not contain %q", tt.text, got, deny)
				}
			}
			if tt.want == nil && tt.deny == nil && len(got) != 0 {
				t.Errorf("Extract(%q) = %v; want empty", tt.text, got)
			}
		})
	}
}

func TestPatternExtractDeduplicates(t *testing.T) {
	t.Parallel()

	got, err := extract.NewPatternExtractor().Extract(context.Background(),
		"Borin Stonehelm argued with Borin Stonehelm. NPC: Borin Stonehelm")
	if err != nil {
		t.Fatalf("Extract: unexpected error: %v", err)
	}

	count := 0
	for _, name := range got {
		if name == "Borin Stonehelm" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one occurrence of %q, got %d in %v", "Borin Stonehelm", count, got)
	}
}

func TestFilterCandidates(t *testing.T) {
	t.Parallel()

	got := extract.FilterCandidates([]string{
		"  Elara  ",
		"Elara",
		"The Party",
		"",
		"   ",
		"Old Toby",
	})

	want := []string{"Elara", "Old Toby"}
	if !slices.Equal(got, want) {
		t.Fatalf("FilterCandidates = %v, want %v", got, want)
	}
}
