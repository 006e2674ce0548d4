package hub

import (
	"context"
	"testing"
	"time"

	"github.com/wordrush/wordrush-backend/internal/game"
	"github.com/wordrush/wordrush-backend/internal/session"
	"github.com/wordrush/wordrush-backend/pkg/types"
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

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, Deps{
		Generator: game.NewGenerator(game.WithCategoryCount(3)),
		Validator: okValidator{},
	})
}

func TestHub_CreateThenGetSamePointer(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *session.Session, 1)

	h.Inbox() <- Create{Code: "ABC123", Mode: session.ModeMulti, Reply: reply}
	s1 := <-reply

	h.Inbox() <- Get{Code: "ABC123", Reply: reply}
	s2 := <-reply

	if s1 == nil || s2 == nil || s1 != s2 {
		t.Fatalf("expected the same session pointer, got %p and %p", s1, s2)
	}
}

func TestHub_GetUnknownCodeIsNil(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *session.Session, 1)

	h.Inbox() <- Get{Code: "NOPE99", Reply: reply}
	if s := <-reply; s != nil {
		t.Fatalf("expected nil for unknown code, got %p", s)
	}
}

func TestHub_SessionRemovedWhenLastPlayerLeaves(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *session.Session, 1)

	h.Inbox() <- Create{Code: "BYE456", Mode: session.ModeMulti, Reply: reply}
	s := <-reply

	out := make(chan types.ServerMessage, 64)
	joinErr := make(chan error, 1)
	s.Inbox() <- session.Join{Player: session.Player{ID: "p1", Name: "alice", Outbox: out}, Reply: joinErr}
	if err := <-joinErr; err != nil {
		t.Fatalf("join: %v", err)
	}
	s.Inbox() <- session.Leave{PlayerID: "p1"}

	deadline := time.After(2 * time.Second)
	for {
		h.Inbox() <- Get{Code: "BYE456", Reply: reply}
		if got := <-reply; got == nil {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("session still registered after last player left")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
