package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/game"
	"github.com/wordrush/wordrush-backend/internal/hub"
	"github.com/wordrush/wordrush-backend/internal/ledger"
)

type okValidator struct{}

func (okValidator) Validate(_ context.Context, checks []game.Check) map[string]map[string]game.Verdict {
	out := make(map[string]map[string]game.Verdict)
	for _, c := range checks {
		if out[c.Player] == nil {
			out[c.Player] = make(map[string]game.Verdict)
		}
		out[c.Player][c.Category] = game.Verdict{Valid: true, Unique: true}
	}
	return out
}

func newTestServer(t *testing.T) (*httptest.Server, *ledger.Memory) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	scores := ledger.NewMemory()
	h := hub.New(ctx, hub.Deps{
		Generator: game.NewGenerator(game.WithCategoryCount(3)),
		Validator: okValidator{},
		Ledger:    scores,
	})

	srv := httptest.NewServer(SetupRoutes(h, scores, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv, scores
}

func TestCreateSession_ReturnsShareableCode(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/sessions", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Code string `json:"code"`
		Mode string `json:"mode"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Code, 6)
	require.Equal(t, "multi", body.Mode)
}

func TestCreateSession_SoloMode(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/sessions", "application/json", strings.NewReader(`{"mode":"solo"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Mode string `json:"mode"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "solo", body.Mode)
}

func TestSessionInfo_ReportsCurrentRound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/sessions", "application/json", nil)
	require.NoError(t, err)
	var created struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	infoResp, err := http.Get(srv.URL + "/sessions/" + created.Code)
	require.NoError(t, err)
	defer infoResp.Body.Close()
	require.Equal(t, http.StatusOK, infoResp.StatusCode)

	var info struct {
		Code  string `json:"code"`
		Phase string `json:"phase"`
		Round struct {
			Letter     string   `json:"letter"`
			Categories []string `json:"categories"`
			Seconds    int      `json:"seconds"`
		} `json:"round"`
	}
	require.NoError(t, json.NewDecoder(infoResp.Body).Decode(&info))
	require.Equal(t, created.Code, info.Code)
	require.Equal(t, "awaiting_players", info.Phase)
	require.Len(t, info.Round.Letter, 1)
	require.Len(t, info.Round.Categories, 3)
	require.Positive(t, info.Round.Seconds)
}

func TestSessionInfo_UnknownCodeIs404(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/sessions/ZZZZZZ")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLeaderboard_TopN(t *testing.T) {
	srv, scores := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, scores.Append(ctx, "alice", 45))
	require.NoError(t, scores.Append(ctx, "bob", 70))
	require.NoError(t, scores.Append(ctx, "carol", 20))

	resp, err := http.Get(srv.URL + "/leaderboard?limit=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Entries []ledger.Entry `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Entries, 2)
	require.Equal(t, "bob", body.Entries[0].PlayerName)
	require.Equal(t, "alice", body.Entries[1].PlayerName)
}

func TestLeaderboard_RejectsBadLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/leaderboard?limit=zero")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateCode_Format(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'), "unexpected rune %q", r)
		}
		seen[code] = true
	}
	require.Greater(t, len(seen), 1)
}
