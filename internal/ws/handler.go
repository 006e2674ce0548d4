package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/hub"
	"github.com/wordrush/wordrush-backend/internal/session"
	"github.com/wordrush/wordrush-backend/pkg/types"
)

const writeTimeout = 3 * time.Second

// Handler upgrades a player connection and bridges it to the session actor:
// one writer goroutine drains the outbox, the request goroutine reads and
// dispatches inbound frames. Disconnection, however it happens, becomes a
// Leave.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "player"
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.Get{Code: code, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		playerID := uuid.NewString()
		out := make(chan types.ServerMessage, 32)

		joinErr := make(chan error, 1)
		sess.Inbox() <- session.Join{
			Player: session.Player{ID: playerID, Name: name, Outbox: out},
			Reply:  joinErr,
		}
		select {
		case err := <-joinErr:
			if err != nil {
				_ = conn.Close(websocket.StatusPolicyViolation, err.Error())
				return
			}
		case <-time.After(5 * time.Second):
			// Session terminated between lookup and join.
			_ = conn.Close(websocket.StatusGoingAway, "session closed")
			return
		}
		defer func() { sess.Inbox() <- session.Leave{PlayerID: playerID} }()

		log = log.With(zap.String("session", code), zap.String("player", name))
		log.Debug("websocket connected")

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, err := json.Marshal(msg)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
			// Outbox closed: the session dropped us or terminated.
			writeCancel()
			_ = conn.Close(websocket.StatusGoingAway, "session closed")
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Any read failure, clean close included, is a disconnect.
				log.Debug("websocket closed", zap.Error(err))
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			msg, ok := toSessionMsg(cm, playerID)
			if !ok {
				writeError(r.Context(), conn, "unknown message type")
				continue
			}
			sess.Inbox() <- msg
		}
	}
}

func toSessionMsg(cm types.ClientMessage, playerID string) (session.Msg, bool) {
	switch cm.Type {
	case types.MsgSubmitAnswers:
		return session.Submit{PlayerID: playerID, Answers: cm.Answers}, true
	case types.MsgCastVote:
		return session.CastVote{PlayerID: playerID, Category: cm.Category}, true
	case types.MsgChat:
		return session.Chat{PlayerID: playerID, Text: cm.Text}, true
	default:
		return nil, false
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, reason string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: types.MsgError, Error: reason})
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(writeCtx, websocket.MessageText, payload)
}
