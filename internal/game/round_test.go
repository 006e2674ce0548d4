package game

import (
	"context"
	"strings"
	"testing"
)

func TestRound_Invariants(t *testing.T) {
	g := NewGenerator()
	for i := 0; i < 50; i++ {
		r := g.Round(context.Background())

		if len(r.Letter) != 1 || !strings.Contains(Letters, r.Letter) {
			t.Fatalf("letter %q is not a single uppercase A-Z character", r.Letter)
		}
		if len(r.Categories) != DefaultCategoryCount {
			t.Fatalf("want %d categories, got %d", DefaultCategoryCount, len(r.Categories))
		}
		seen := make(map[string]bool, len(r.Categories))
		for _, cat := range r.Categories {
			if seen[cat] {
				t.Fatalf("duplicate category %q in round", cat)
			}
			seen[cat] = true
		}
		if r.Seconds != DefaultRoundSeconds {
			t.Fatalf("want %d seconds, got %d", DefaultRoundSeconds, r.Seconds)
		}
	}
}

func TestNewGenerator_PanicsOnOversizedCount(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for count larger than master list")
		}
	}()
	NewGenerator(WithCategoryCount(len(Categories) + 1))
}

type rejectProber struct{ reject string }

func (p rejectProber) ProbeCategory(_ context.Context, category, _ string) bool {
	return category != p.reject
}

func TestRound_ProbeResamplesFailingCategory(t *testing.T) {
	g := NewGenerator(WithCategoryCount(5), WithProbe(rejectProber{reject: "Fruit"}))
	for i := 0; i < 50; i++ {
		r := g.Round(context.Background())
		for _, cat := range r.Categories {
			if cat == "Fruit" {
				t.Fatalf("probe-rejected category survived into round: %v", r.Categories)
			}
		}
		if len(r.Categories) != 5 {
			t.Fatalf("resampling changed category count: %v", r.Categories)
		}
	}
}
