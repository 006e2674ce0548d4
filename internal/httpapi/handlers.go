package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/hub"
	"github.com/wordrush/wordrush-backend/internal/ledger"
	"github.com/wordrush/wordrush-backend/internal/session"
	"github.com/wordrush/wordrush-backend/pkg/types"
)

const (
	codeLength         = 6
	defaultLeaderboard = 10
	maxLeaderboard     = 100
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, codeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// CreateSession allocates a collision-free code and spins up a session.
// Body: {"mode": "solo"|"multi"}, defaulting to multi.
func CreateSession(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Mode string `json:"mode"`
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		mode := session.ModeMulti
		if body.Mode == string(session.ModeSolo) {
			mode = session.ModeSolo
		}

		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *session.Session, 1)
			h.Inbox() <- hub.Get{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			log.Debug("session code collision, regenerating", zap.String("code", c))
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.Create{Code: code, Mode: mode, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create session", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
			Mode string `json:"mode"`
		}{Code: code, Mode: string(mode)})
	}
}

// SessionInfo reports the current round for a session code.
func SessionInfo(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.Get{Code: code, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		viewReply := make(chan session.View, 1)
		sess.Inbox() <- session.GetView{Reply: viewReply}
		var view session.View
		select {
		case view = <-viewReply:
		case <-time.After(2 * time.Second):
			// Session terminated between lookup and query.
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Code    string           `json:"code"`
			Mode    string           `json:"mode"`
			Phase   string           `json:"phase"`
			Round   *types.RoundInfo `json:"round"`
			Players []string         `json:"players"`
			Totals  map[string]int   `json:"totals"`
		}{
			Code:  view.Code,
			Mode:  string(view.Mode),
			Phase: string(view.Phase),
			Round: &types.RoundInfo{
				Letter:     view.Round.Letter,
				Categories: view.Round.Categories,
				Seconds:    view.Remaining,
			},
			Players: view.Players,
			Totals:  view.Totals,
		})
	}
}

// Leaderboard serves the top-N score entries.
func Leaderboard(l ledger.Ledger, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := defaultLeaderboard
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			n = min(parsed, maxLeaderboard)
		}

		entries, err := l.Top(r.Context(), n)
		if err != nil {
			log.Error("leaderboard query failed", zap.Error(err))
			http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Entries []ledger.Entry `json:"entries"`
		}{Entries: entries})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
