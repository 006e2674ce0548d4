// Package session implements the per-game coordinator. Each session is an
// actor: one goroutine drains an inbox of events (join, submit, vote, chat,
// tick, disconnect), so all state mutation is serialized without locks.
// Scoring runs off the actor goroutine and re-enters through the inbox,
// guarded by a round id.
package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/wordrush/wordrush-backend/internal/game"
	"github.com/wordrush/wordrush-backend/internal/ledger"
	"github.com/wordrush/wordrush-backend/pkg/types"
)

var ErrSessionFull = errors.New("session: solo session already has a player")

type Mode string

const (
	ModeMulti Mode = "multi"
	ModeSolo  Mode = "solo"
)

type Phase string

const (
	PhaseAwaitingPlayers Phase = "awaiting_players"
	PhaseRoundInProgress Phase = "round_in_progress"
	PhaseResolving       Phase = "resolving"
	PhaseTerminated      Phase = "terminated"
)

type playerState struct {
	id        string
	name      string
	score     int
	answers   map[string]string
	submitted bool
	outbox    chan types.ServerMessage
}

type Config struct {
	Code      string
	Mode      Mode
	Generator *game.Generator
	Validator game.Validator
	Ledger    ledger.Ledger
	// OnEmpty is called once, on the actor goroutine, when the last player
	// leaves. It must not block.
	OnEmpty func(code string)
	Logger  *zap.Logger
	// TickInterval is how often the countdown advances by one. Defaults to
	// one second; tests shrink it.
	TickInterval time.Duration
}

type Session struct {
	code      string
	mode      Mode
	inbox     chan Msg
	players   map[string]*playerState
	phase     Phase
	round     game.Round
	roundID   int
	remaining int
	overrides map[string]bool
	gen       *game.Generator
	validator game.Validator
	ledger    ledger.Ledger
	onEmpty   func(code string)
	log       *zap.Logger
	tickEvery time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
}

func New(parent context.Context, cfg Config) *Session {
	ctx, cancel := context.WithCancel(parent)
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeMulti
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}

	s := &Session{
		code:      cfg.Code,
		mode:      cfg.Mode,
		inbox:     make(chan Msg, 64),
		players:   make(map[string]*playerState),
		phase:     PhaseAwaitingPlayers,
		overrides: make(map[string]bool),
		gen:       cfg.Generator,
		validator: cfg.Validator,
		ledger:    cfg.Ledger,
		onEmpty:   cfg.OnEmpty,
		log:       log.With(zap.String("session", cfg.Code)),
		tickEvery: cfg.TickInterval,
		ctx:       ctx,
		cancel:    cancel,
	}

	// Rounds are pre-generated so the first join sees a ready round.
	s.round = s.gen.Round(ctx)
	s.remaining = s.round.Seconds

	go s.loop()
	go s.runTicker()
	return s
}

// Inbox exposes the actor's event queue to the transport layer and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) Code() string { return s.code }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.terminate()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.handleJoin(msg)
			case Leave:
				s.handleLeave(msg.PlayerID)
			case Submit:
				s.handleSubmit(msg)
			case CastVote:
				s.handleVote(msg)
			case Chat:
				s.handleChat(msg)
			case tick:
				s.handleTick()
			case resolved:
				s.handleResolved(msg)
			case GetView:
				msg.Reply <- s.view()
			case Shutdown:
				s.terminate()
				return
			}

			// Slow-client drops during a broadcast can empty the session.
			if s.phase != PhaseTerminated && s.phase != PhaseAwaitingPlayers && len(s.players) == 0 {
				s.terminate()
			}
			if s.phase == PhaseTerminated {
				return
			}
		}
	}
}

// runTicker drives the countdown. It lives for the whole session and stops
// with the session context; the actor decides whether a tick means
// anything.
func (s *Session) runTicker() {
	t := time.NewTicker(s.tickEvery)
	defer t.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-t.C:
			select {
			case s.inbox <- tick{}:
			case <-s.ctx.Done():
				return
			}
		}
	}
}

func (s *Session) handleJoin(msg Join) {
	if s.mode == ModeSolo && len(s.players) >= 1 {
		msg.Reply <- ErrSessionFull
		return
	}

	p := &playerState{
		id:      msg.Player.ID,
		name:    msg.Player.Name,
		answers: make(map[string]string),
		outbox:  msg.Player.Outbox,
	}
	s.players[p.id] = p
	msg.Reply <- nil

	s.log.Info("player joined", zap.String("player", p.name), zap.Int("players", len(s.players)))

	s.sendTo(p, types.ServerMessage{
		Type:     types.MsgWelcome,
		PlayerID: p.id,
		Round:    s.roundInfo(),
		Players:  s.playerNames(),
		Totals:   s.totals(),
	})
	s.broadcastExcept(p.id, types.ServerMessage{
		Type:       types.MsgPlayerJoined,
		PlayerName: p.name,
		Players:    s.playerNames(),
	})

	if s.phase == PhaseAwaitingPlayers {
		s.phase = PhaseRoundInProgress
	}
	s.checkTriggers()
}

func (s *Session) handleLeave(playerID string) {
	p, ok := s.players[playerID]
	if !ok {
		return
	}
	delete(s.players, playerID)
	s.log.Info("player left", zap.String("player", p.name), zap.Int("players", len(s.players)))

	if len(s.players) == 0 {
		s.terminate()
		return
	}

	s.broadcast(types.ServerMessage{
		Type:       types.MsgPlayerLeft,
		PlayerName: p.name,
		Players:    s.playerNames(),
	})
	// The all-submitted predicate is over currently-connected players, so a
	// non-submitter leaving can complete the round.
	s.checkTriggers()
}

func (s *Session) handleSubmit(msg Submit) {
	p, ok := s.players[msg.PlayerID]
	if !ok || s.phase != PhaseRoundInProgress {
		return
	}

	// Resubmission overwrites, never accumulates.
	p.answers = make(map[string]string, len(msg.Answers))
	for cat, word := range msg.Answers {
		p.answers[cat] = game.Normalize(word)
	}
	p.submitted = true

	s.checkTriggers()
}

func (s *Session) handleVote(msg CastVote) {
	p, ok := s.players[msg.PlayerID]
	if !ok || s.phase != PhaseRoundInProgress {
		return
	}
	if !s.roundHasCategory(msg.Category) || s.overrides[msg.Category] {
		return
	}

	s.overrides[msg.Category] = true
	s.broadcast(types.ServerMessage{
		Type:       types.MsgVoteAccepted,
		Category:   msg.Category,
		PlayerName: p.name,
	})
	s.checkTriggers()
}

func (s *Session) handleChat(msg Chat) {
	p, ok := s.players[msg.PlayerID]
	if !ok {
		return
	}
	// Relayed verbatim; chat never touches game state.
	s.broadcast(types.ServerMessage{
		Type:       types.MsgChatRelay,
		PlayerName: p.name,
		Text:       msg.Text,
	})
}

func (s *Session) handleTick() {
	if s.phase != PhaseRoundInProgress {
		return
	}
	s.remaining--
	if s.remaining < 0 {
		s.remaining = 0
	}
	s.broadcast(types.ServerMessage{Type: types.MsgTimer, Seconds: s.remaining})
	if s.remaining == 0 {
		s.beginResolve()
	}
	s.checkTriggers()
}

// checkTriggers fires resolution when every connected player has submitted.
// Safe to call after any event; beginResolve guards against double entry.
func (s *Session) checkTriggers() {
	if s.phase != PhaseRoundInProgress {
		return
	}
	if len(s.players) == 0 {
		return
	}
	for _, p := range s.players {
		if !p.submitted {
			return
		}
	}
	s.beginResolve()
}

// beginResolve snapshots the round and hands scoring to a goroutine so the
// actor never blocks on the oracle. The result re-enters via resolved{} and
// is discarded if this round already moved on.
func (s *Session) beginResolve() {
	if s.phase != PhaseRoundInProgress || len(s.players) == 0 {
		return
	}
	s.phase = PhaseResolving

	id := s.roundID
	r := s.round
	answers := make(map[string]map[string]string, len(s.players))
	for pid, p := range s.players {
		snap := make(map[string]string, len(p.answers))
		for cat, word := range p.answers {
			snap[cat] = word
		}
		answers[pid] = snap
	}
	overrides := make(map[string]bool, len(s.overrides))
	for cat := range s.overrides {
		overrides[cat] = true
	}

	go func() {
		results := game.Score(s.ctx, r, answers, overrides, s.validator)
		select {
		case s.inbox <- resolved{roundID: id, results: results}:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Session) handleResolved(msg resolved) {
	if s.phase != PhaseResolving || msg.roundID != s.roundID {
		s.log.Debug("dropping stale resolution", zap.Int("round_id", msg.roundID))
		return
	}

	for pid, p := range s.players {
		p.score += msg.results[pid].RoundScore
	}
	totals := s.totals()

	for pid, p := range s.players {
		res := msg.results[pid]
		s.sendTo(p, types.ServerMessage{
			Type:       types.MsgRoundResults,
			Results:    toWireResults(res.ByCategory),
			RoundScore: res.RoundScore,
			Totals:     totals,
		})
	}

	if s.ledger != nil {
		// Best-effort; must survive the session ending right after.
		appendCtx := context.WithoutCancel(s.ctx)
		for _, p := range s.players {
			go func(name string, score int) {
				if err := s.ledger.Append(appendCtx, name, score); err != nil {
					s.log.Warn("ledger append failed", zap.String("player", name), zap.Error(err))
				}
			}(p.name, p.score)
		}
	}

	if len(s.players) == 0 {
		s.terminate()
		return
	}

	// Next round, immediately. No lobby between rounds.
	for _, p := range s.players {
		p.answers = make(map[string]string)
		p.submitted = false
	}
	s.overrides = make(map[string]bool)
	s.roundID++
	s.round = s.gen.Round(s.ctx)
	s.remaining = s.round.Seconds
	s.phase = PhaseRoundInProgress

	s.broadcast(types.ServerMessage{
		Type:  types.MsgNewRound,
		Round: s.roundInfo(),
	})
	s.log.Info("round resolved", zap.Int("round_id", msg.roundID), zap.String("next_letter", s.round.Letter))
	s.checkTriggers()
}

func (s *Session) terminate() {
	if s.phase == PhaseTerminated {
		return
	}
	s.phase = PhaseTerminated
	for id, p := range s.players {
		close(p.outbox)
		delete(s.players, id)
	}
	s.cancel()
	if s.onEmpty != nil {
		s.onEmpty(s.code)
	}
	s.log.Info("session terminated")
}

// sendTo delivers one message, dropping the player if their outbox is full.
func (s *Session) sendTo(p *playerState, msg types.ServerMessage) {
	select {
	case p.outbox <- msg:
	default:
		close(p.outbox)
		delete(s.players, p.id)
		s.log.Warn("dropped slow client", zap.String("player", p.name))
	}
}

func (s *Session) broadcast(msg types.ServerMessage) {
	s.broadcastExcept("", msg)
}

func (s *Session) broadcastExcept(skipID string, msg types.ServerMessage) {
	for id, p := range s.players {
		if id == skipID {
			continue
		}
		s.sendTo(p, msg)
	}
}

func (s *Session) roundHasCategory(category string) bool {
	for _, cat := range s.round.Categories {
		if cat == category {
			return true
		}
	}
	return false
}

func (s *Session) roundInfo() *types.RoundInfo {
	cats := make([]string, len(s.round.Categories))
	copy(cats, s.round.Categories)
	return &types.RoundInfo{
		Letter:     s.round.Letter,
		Categories: cats,
		Seconds:    s.remaining,
	}
}

func (s *Session) playerNames() []string {
	names := make([]string, 0, len(s.players))
	for _, p := range s.players {
		names = append(names, p.name)
	}
	return names
}

func (s *Session) totals() map[string]int {
	totals := make(map[string]int, len(s.players))
	for _, p := range s.players {
		totals[p.name] = p.score
	}
	return totals
}

func (s *Session) view() View {
	return View{
		Code:       s.code,
		Mode:       s.mode,
		Phase:      s.phase,
		Round:      s.round,
		Remaining:  s.remaining,
		NumPlayers: len(s.players),
		Players:    s.playerNames(),
		Totals:     s.totals(),
		RoundID:    s.roundID,
	}
}

func toWireResults(byCat map[string]game.Breakdown) map[string]types.CategoryResult {
	out := make(map[string]types.CategoryResult, len(byCat))
	for cat, b := range byCat {
		out[cat] = types.CategoryResult{
			Answer:      b.Answer,
			Valid:       b.Valid,
			Unique:      b.Unique,
			Points:      b.Points,
			Explanation: b.Explanation,
		}
	}
	return out
}
