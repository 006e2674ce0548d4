// Package hub is the process-wide registry of active sessions, keyed by
// their shareable code. Like the sessions it owns, the hub is an actor.
package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/game"
	"github.com/wordrush/wordrush-backend/internal/ledger"
	"github.com/wordrush/wordrush-backend/internal/session"
)

type Msg interface{ isHubMsg() }

type Create struct {
	Code  string
	Mode  session.Mode
	Reply chan *session.Session
}

type Get struct {
	Code  string
	Reply chan *session.Session
}

type Remove struct{ Code string }

type Shutdown struct{}

func (Create) isHubMsg()   {}
func (Get) isHubMsg()      {}
func (Remove) isHubMsg()   {}
func (Shutdown) isHubMsg() {}

// Deps is everything a new session needs injected.
type Deps struct {
	Generator *game.Generator
	Validator game.Validator
	Ledger    ledger.Ledger
	Logger    *zap.Logger
}

type Hub struct {
	inbox    chan Msg
	sessions map[string]*session.Session
	deps     Deps
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(parent context.Context, deps Deps) *Hub {
	ctx, cancel := context.WithCancel(parent)
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		inbox:    make(chan Msg, 64),
		sessions: make(map[string]*session.Session),
		deps:     deps,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- Msg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Create:
				if s := h.sessions[msg.Code]; s != nil {
					msg.Reply <- s
					break
				}
				s := session.New(h.ctx, session.Config{
					Code:      msg.Code,
					Mode:      msg.Mode,
					Generator: h.deps.Generator,
					Validator: h.deps.Validator,
					Ledger:    h.deps.Ledger,
					OnEmpty:   h.sessionEmptied,
					Logger:    h.deps.Logger,
				})
				h.sessions[msg.Code] = s
				h.log.Info("session created", zap.String("session", msg.Code), zap.String("mode", string(msg.Mode)))
				msg.Reply <- s

			case Get:
				msg.Reply <- h.sessions[msg.Code] // may be nil

			case Remove:
				delete(h.sessions, msg.Code)
				h.log.Info("session removed", zap.String("session", msg.Code))

			case Shutdown:
				h.shutdown()
				return
			}
		}
	}
}

// sessionEmptied runs on a session's actor goroutine; it posts the removal
// asynchronously so neither actor can block the other.
func (h *Hub) sessionEmptied(code string) {
	go func() {
		select {
		case h.inbox <- Remove{Code: code}:
		case <-h.ctx.Done():
		}
	}()
}

func (h *Hub) shutdown() {
	for code, s := range h.sessions {
		s.Inbox() <- session.Shutdown{}
		delete(h.sessions, code)
	}
	h.cancel()
}
