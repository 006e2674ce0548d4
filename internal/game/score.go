package game

import (
	"context"
	"strings"
)

const (
	basePoints   = 10
	uniqueBonus  = 5
	votedSuffix  = " (accepted by vote)"
	votedVerdict = "Valid"
)

// Check is one (player, category, word) validity question for the oracle
// gateway. Letter rides along so a batch can span arbitrary rounds.
type Check struct {
	Player   string
	Category string
	Letter   string
	Word     string
}

type Verdict struct {
	Valid       bool
	Unique      bool
	Explanation string
}

// Validator resolves a batch of checks into per-player, per-category
// verdicts. Implementations never fail the batch: unresolvable checks come
// back invalid with an explanation.
type Validator interface {
	Validate(ctx context.Context, checks []Check) map[string]map[string]Verdict
}

type Breakdown struct {
	Answer      string
	Valid       bool
	Unique      bool
	Points      int
	Explanation string
}

type PlayerResult struct {
	ByCategory map[string]Breakdown
	RoundScore int
}

// Normalize is the canonical form answers are graded in: trimmed and
// lowercased. Raw casing is not preserved.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Score grades a completed round. answers maps player id -> category ->
// submitted word (absent or empty meaning no answer); overrides marks
// categories accepted by vote. One batched Validate call covers every
// non-empty answer outside overridden categories.
//
// Per (player, category), in order: vote override wins (full base points,
// verdict suffixed), then no-answer scores zero, then the validator verdict
// decides — valid and unique earns the bonus on top of base.
func Score(ctx context.Context, r Round, answers map[string]map[string]string, overrides map[string]bool, v Validator) map[string]PlayerResult {
	checks := make([]Check, 0, len(answers)*len(r.Categories))
	for player, byCat := range answers {
		for _, cat := range r.Categories {
			if overrides[cat] {
				continue
			}
			word := Normalize(byCat[cat])
			if word == "" {
				continue
			}
			checks = append(checks, Check{Player: player, Category: cat, Letter: r.Letter, Word: word})
		}
	}

	var verdicts map[string]map[string]Verdict
	if len(checks) > 0 {
		verdicts = v.Validate(ctx, checks)
	}

	results := make(map[string]PlayerResult, len(answers))
	for player, byCat := range answers {
		pr := PlayerResult{ByCategory: make(map[string]Breakdown, len(r.Categories))}
		for _, cat := range r.Categories {
			word := Normalize(byCat[cat])

			var b Breakdown
			switch {
			case overrides[cat]:
				b = Breakdown{
					Answer:      word,
					Valid:       true,
					Points:      basePoints,
					Explanation: votedVerdict + votedSuffix,
				}
			case word == "":
				b = Breakdown{Explanation: "No answer submitted"}
			default:
				verdict := verdicts[player][cat]
				b = Breakdown{
					Answer:      word,
					Valid:       verdict.Valid,
					Unique:      verdict.Unique,
					Explanation: verdict.Explanation,
				}
				if verdict.Valid {
					b.Points = basePoints
					if verdict.Unique {
						b.Points += uniqueBonus
					}
				}
			}

			pr.ByCategory[cat] = b
			pr.RoundScore += b.Points
		}
		results[player] = pr
	}
	return results
}
