package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/hub"
	"github.com/wordrush/wordrush-backend/internal/ledger"
	"github.com/wordrush/wordrush-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, l ledger.Ledger, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/sessions", CreateSession(h, log))
	r.Get("/sessions/{code}", SessionInfo(h))
	r.Get("/leaderboard", Leaderboard(l, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}
