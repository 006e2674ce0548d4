// Package validator is the gateway to the external word-validity oracle.
// Callers hand it batches of (player, category, letter, word) checks and
// always get a verdict back for every one of them: oracle latency, outages
// and garbled replies degrade to invalid-with-explanation, never to errors.
package validator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/game"
)

var ErrMissingAPIKey = errors.New("validator: oracle API key not configured")

const (
	defaultModel   = "gemini-1.5-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultTimeout = 10 * time.Second
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Gateway struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
	log     *zap.Logger
}

// New builds a gateway. A missing API key is a configuration failure: we
// refuse to run rather than silently invalidate every answer.
func New(cfg Config, log *zap.Logger) (*Gateway, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Gateway{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpc:   &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}, nil
}

// triple is a distinct (category, letter, word) question. Duplicate
// submissions across players collapse onto one triple so the oracle is
// asked once.
type triple struct {
	category string
	letter   string
	word     string
}

// Validate resolves every check, cheapest source first: letter-prefix
// mismatch locally, then the fallback table, then one batched oracle call
// for whatever is left. Uniqueness is relative to the other checks in this
// batch: the same normalized word for the same category from another player
// makes both non-unique.
func (g *Gateway) Validate(ctx context.Context, checks []game.Check) map[string]map[string]game.Verdict {
	type normCheck struct {
		game.Check
		t triple
	}

	norm := make([]normCheck, 0, len(checks))
	submitters := make(map[triple]map[string]struct{})
	dupCount := make(map[string]map[string]int) // category -> word -> distinct players
	for _, c := range checks {
		c.Letter = strings.ToUpper(strings.TrimSpace(c.Letter))
		c.Word = game.Normalize(c.Word)
		t := triple{category: c.Category, letter: c.Letter, word: c.Word}
		norm = append(norm, normCheck{Check: c, t: t})

		if submitters[t] == nil {
			submitters[t] = make(map[string]struct{})
		}
		if _, seen := submitters[t][c.Player]; !seen {
			submitters[t][c.Player] = struct{}{}
			if dupCount[c.Category] == nil {
				dupCount[c.Category] = make(map[string]int)
			}
			dupCount[c.Category][c.Word]++
		}
	}

	resolved := make(map[triple]lineVerdict)
	var pending []triple
	for t := range submitters {
		if v, ok := g.resolveLocal(t); ok {
			resolved[t] = v
		} else {
			pending = append(pending, t)
		}
	}

	if len(pending) > 0 {
		for t, v := range g.resolveOracle(ctx, pending) {
			resolved[t] = v
		}
	}

	out := make(map[string]map[string]game.Verdict)
	for _, c := range norm {
		v := resolved[c.t]
		if out[c.Player] == nil {
			out[c.Player] = make(map[string]game.Verdict)
		}
		out[c.Player][c.Category] = game.Verdict{
			Valid:       v.valid,
			Unique:      dupCount[c.Category][c.Word] == 1,
			Explanation: v.explanation,
		}
	}
	return out
}

// resolveLocal handles a triple without the oracle, when possible.
func (g *Gateway) resolveLocal(t triple) (lineVerdict, bool) {
	if t.word == "" {
		return lineVerdict{valid: false, explanation: "No answer submitted"}, true
	}
	if !strings.HasPrefix(t.word, strings.ToLower(t.letter)) {
		return lineVerdict{
			valid:       false,
			explanation: fmt.Sprintf("'%s' does not start with '%s'", t.word, t.letter),
		}, true
	}
	if canonical, ok := fallbackCanonical(t.category, t.letter); ok {
		if strings.EqualFold(t.word, canonical) {
			return lineVerdict{valid: true, explanation: "Matches fallback example"}, true
		}
		return lineVerdict{
			valid:       false,
			explanation: fmt.Sprintf("Not the expected '%s'", canonical),
		}, true
	}
	return lineVerdict{}, false
}

// resolveOracle asks the oracle about all pending triples in one request,
// retrying once on transport failure. Every pending triple gets a verdict
// even when the oracle is down or its reply is unparseable.
func (g *Gateway) resolveOracle(ctx context.Context, pending []triple) map[triple]lineVerdict {
	out := make(map[triple]lineVerdict, len(pending))

	prompt := buildPrompt(pending)
	text, err := g.callOracle(ctx, prompt)
	if err != nil {
		g.log.Warn("oracle call failed, retrying once", zap.Error(err))
		text, err = g.callOracle(ctx, prompt)
	}
	if err != nil {
		g.log.Warn("oracle unavailable, degrading batch to invalid",
			zap.Int("pending", len(pending)), zap.Error(err))
		for _, t := range pending {
			out[t] = lineVerdict{valid: false, explanation: "API error: " + err.Error()}
		}
		return out
	}

	byIndex := parseVerdicts(text, len(pending))
	for i, t := range pending {
		v, ok := byIndex[i+1]
		if !ok {
			g.log.Debug("oracle reply missing verdict",
				zap.String("category", t.category), zap.String("word", t.word))
			v = lineVerdict{valid: false, explanation: "Could not parse oracle verdict"}
		}
		out[t] = v
	}
	return out
}

// probeSuffixes are cheap test words (letter + vowel) used to guess whether
// a category has any valid word for a letter.
var probeSuffixes = []string{"a", "e", "i", "o", "u"}

// ProbeCategory reports whether some test word passes for the pair. False
// negatives are expected; this backs the optional round fairness check.
func (g *Gateway) ProbeCategory(ctx context.Context, category, letter string) bool {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if _, ok := fallbackCanonical(category, letter); ok {
		return true
	}

	var pending []triple
	for _, suffix := range probeSuffixes {
		t := triple{category: category, letter: letter, word: strings.ToLower(letter) + suffix}
		if v, ok := g.resolveLocal(t); ok {
			if v.valid {
				return true
			}
			continue
		}
		pending = append(pending, t)
	}
	if len(pending) == 0 {
		return false
	}
	for _, v := range g.resolveOracle(ctx, pending) {
		if v.valid {
			return true
		}
	}
	return false
}
