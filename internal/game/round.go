package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	DefaultCategoryCount = 10
	DefaultRoundSeconds  = 120

	// How many times Round re-samples a category that fails the probe
	// before giving up and keeping the last sample.
	maxProbeResamples = 3
)

// Round is one timed unit of play. Immutable once created; a session
// replaces it wholesale when the next round starts.
type Round struct {
	Letter     string
	Categories []string
	StartedAt  time.Time
	Seconds    int
}

// Prober answers whether a category plausibly has at least one valid word
// for a letter. Heuristic: false negatives are acceptable.
type Prober interface {
	ProbeCategory(ctx context.Context, category, letter string) bool
}

type Generator struct {
	count   int
	seconds int
	probe   Prober
}

type GeneratorOption func(*Generator)

// WithCategoryCount sets how many categories each round samples.
func WithCategoryCount(n int) GeneratorOption {
	return func(g *Generator) { g.count = n }
}

// WithRoundSeconds sets the countdown length of generated rounds.
func WithRoundSeconds(s int) GeneratorOption {
	return func(g *Generator) { g.seconds = s }
}

// WithProbe enables the fairness check: each sampled category is verified
// to accept at least one cheap test word for the chosen letter, re-sampling
// on failure. Adds oracle latency to round generation.
func WithProbe(p Prober) GeneratorOption {
	return func(g *Generator) { g.probe = p }
}

func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{count: DefaultCategoryCount, seconds: DefaultRoundSeconds}
	for _, opt := range opts {
		opt(g)
	}
	if g.count < 1 || g.count > len(Categories) {
		panic(fmt.Sprintf("game: category count %d out of range [1,%d]", g.count, len(Categories)))
	}
	if g.seconds < 1 {
		panic(fmt.Sprintf("game: round seconds %d must be positive", g.seconds))
	}
	return g
}

// Round picks a uniform random letter and samples g.count distinct
// categories without replacement.
func (g *Generator) Round(ctx context.Context) Round {
	letter := string(Letters[rand.IntN(len(Letters))])

	perm := rand.Perm(len(Categories))
	cats := make([]string, 0, g.count)
	for _, i := range perm[:g.count] {
		cats = append(cats, Categories[i])
	}

	if g.probe != nil {
		spare := perm[g.count:]
		for i, cat := range cats {
			if g.probe.ProbeCategory(ctx, cat, letter) {
				continue
			}
			for tries := 0; tries < maxProbeResamples && len(spare) > 0; tries++ {
				next := Categories[spare[0]]
				spare = spare[1:]
				cats[i] = next
				if g.probe.ProbeCategory(ctx, next, letter) {
					break
				}
			}
		}
	}

	return Round{
		Letter:     letter,
		Categories: cats,
		StartedAt:  time.Now(),
		Seconds:    g.seconds,
	}
}
