package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// buildPrompt numbers one question per triple and pins the reply grammar
// parseVerdicts expects.
func buildPrompt(triples []triple) string {
	var b strings.Builder
	b.WriteString("Answer each numbered question on its own line in the exact form ")
	b.WriteString("\"<number>: yes or no, <short explanation (max 20 words)>\".\n")
	for i, t := range triples {
		fmt.Fprintf(&b, "%d. Is '%s' a valid example of the category '%s' and does it start with '%s'?\n",
			i+1, t.word, t.category, t.letter)
	}
	return b.String()
}

// callOracle performs one generateContent request and returns the raw reply
// text.
func (g *Gateway) callOracle(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oracle returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

type lineVerdict struct {
	valid       bool
	explanation string
}

// parseVerdicts scans the oracle's free-text reply for numbered yes/no
// lines. The grammar is deliberately small: leading index, separator, a
// yes/no token, optional explanation. Anything that doesn't fit is ignored;
// callers default missing indices to invalid.
func parseVerdicts(text string, n int) map[int]lineVerdict {
	out := make(map[int]lineVerdict, n)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		digits := 0
		for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
			digits++
		}
		if digits == 0 {
			continue
		}
		idx, err := strconv.Atoi(line[:digits])
		if err != nil || idx < 1 || idx > n {
			continue
		}

		rest := strings.TrimLeft(line[digits:], ":.)- \t")
		token := rest
		explanation := ""
		if cut := strings.IndexAny(rest, ",.;:- \t"); cut >= 0 {
			token = rest[:cut]
			explanation = strings.TrimLeft(rest[cut:], ",.;:- \t")
		}

		var valid bool
		switch strings.ToLower(token) {
		case "yes":
			valid = true
		case "no":
			valid = false
		default:
			continue
		}

		if explanation == "" {
			if valid {
				explanation = "Valid"
			} else {
				explanation = "Invalid"
			}
		}
		if _, dup := out[idx]; !dup {
			out[idx] = lineVerdict{valid: valid, explanation: explanation}
		}
	}
	return out
}
