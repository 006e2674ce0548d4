package session

import (
	"github.com/wordrush/wordrush-backend/internal/game"
	"github.com/wordrush/wordrush-backend/pkg/types"
)

type Msg interface{ isSessionMsg() }

// Player is the join-time identity of a connection: an opaque id, a display
// name, and the outbox the session pushes events to.
type Player struct {
	ID     string
	Name   string
	Outbox chan types.ServerMessage
}

type Join struct {
	Player Player
	Reply  chan error
}

type Leave struct{ PlayerID string }

type Submit struct {
	PlayerID string
	Answers  map[string]string
}

type CastVote struct {
	PlayerID string
	Category string
}

type Chat struct {
	PlayerID string
	Text     string
}

type GetView struct{ Reply chan View }

type Shutdown struct{}

// tick is posted by the session's ticker goroutine once per second.
type tick struct{}

// resolved carries a finished scoring computation back onto the actor.
// roundID pins it to the round it was computed for; stale results are
// dropped.
type resolved struct {
	roundID int
	results map[string]game.PlayerResult
}

func (Join) isSessionMsg()     {}
func (Leave) isSessionMsg()    {}
func (Submit) isSessionMsg()   {}
func (CastVote) isSessionMsg() {}
func (Chat) isSessionMsg()     {}
func (GetView) isSessionMsg()  {}
func (Shutdown) isSessionMsg() {}
func (tick) isSessionMsg()     {}
func (resolved) isSessionMsg() {}

// View reflects session state without data races; used by the HTTP info
// endpoint and tests.
type View struct {
	Code       string
	Mode       Mode
	Phase      Phase
	Round      game.Round
	Remaining  int
	NumPlayers int
	Players    []string
	Totals     map[string]int
	RoundID    int
}
