package game

import (
	stdlog "log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/peterkuimelis/skirmish/internal/log"
)

// Config holds the collaborators of an Engine.
type Config struct {
	Catalog   *Catalog
	Logger    log.EventLogger  // receives every history entry (nil = discard)
	Rand      *rand.Rand       // shuffles and random targets (nil = time-seeded)
	Now       func() time.Time // timestamps (nil = time.Now)
	NoShuffle bool             // keep deck order, first listed id on top (for deterministic tests)
}

// FirstTurn selects who acts first in a new match.
type FirstTurn int

const (
	FirstRandom FirstTurn = iota
	FirstPlayer
	FirstOpponent
)

// MatchSetup describes a match to start.
type MatchSetup struct {
	PlayerDeck   []string // card definition ids
	OpponentDeck []string
	PlayerName   string
	OpponentName string
	First        FirstTurn
}

// Engine owns one match state and is the only way to change it. It assumes
// serialized access: callers must not drive it from two goroutines at once.
type Engine struct {
	catalog   *Catalog
	logger    log.EventLogger
	rng       *rand.Rand
	now       func() time.Time
	noShuffle bool

	state *GameState
	op    *log.Payload // payload of the operation in progress
}

// NewEngine creates an engine. A match must be started before any other call.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		catalog:   cfg.Catalog,
		logger:    cfg.Logger,
		rng:       cfg.Rand,
		now:       cfg.Now,
		noShuffle: cfg.NoShuffle,
		state:     NewGameState(""),
	}
	if e.rng == nil {
		e.rng = NewRNG(0)
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Resume creates an engine that continues from an existing state, such as a
// snapshot from State. The state is not copied.
func Resume(cfg Config, gs *GameState) *Engine {
	e := NewEngine(cfg)
	e.state = gs
	return e
}

// Catalog returns the card catalog the engine resolves decks against.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Rand returns the engine's random source.
func (e *Engine) Rand() *rand.Rand {
	return e.rng
}

// StartMatch replaces any previous match with a fresh one in the mulligan phase.
func (e *Engine) StartMatch(setup MatchSetup) *GameState {
	gs := NewGameState(uuid.NewString())
	gs.StartedAt = e.now()
	if setup.PlayerName != "" {
		gs.Players[SidePlayer].Name = setup.PlayerName
	}
	if setup.OpponentName != "" {
		gs.Players[SideOpponent].Name = setup.OpponentName
	}
	e.state = gs

	for s, ids := range [2][]string{setup.PlayerDeck, setup.OpponentDeck} {
		p := gs.Players[s]
		for i := len(ids) - 1; i >= 0; i-- {
			card, ok := e.catalog.Get(ids[i])
			if !ok {
				stdlog.Printf("warning: %s's deck lists unknown card %q, skipped", p.Name, ids[i])
				continue
			}
			p.Deck = append(p.Deck, gs.CreateCardInstance(card, Side(s)))
		}
		if !e.noShuffle {
			p.ShuffleDeck(e.rng)
		}
	}

	var first Side
	switch setup.First {
	case FirstPlayer:
		first = SidePlayer
	case FirstOpponent:
		first = SideOpponent
	default:
		first = Side(e.rng.Intn(2))
	}
	gs.FirstSide = first
	gs.CurrentTurn = first
	gs.Phase = PhaseMulligan

	e.begin()
	e.draw(first, FirstHandSize)
	e.draw(first.Other(), SecondHandSize)
	e.record(log.NewGameStartEvent(int(first), gs.Players[0].Name, gs.Players[1].Name,
		len(gs.Players[0].Hand), len(gs.Players[1].Hand)))

	return gs.Clone()
}

// Mulligan replaces the named hand cards of one side. Unknown ids are skipped.
func (e *Engine) Mulligan(side Side, instanceIDs []int) error {
	gs := e.state
	if gs.Phase != PhaseMulligan {
		return errNotMulligan
	}
	if side != SidePlayer && side != SideOpponent {
		return reject(ErrNotFound, "unknown side")
	}
	p := gs.Players[side]

	e.begin()
	var replaced []*CardInstance
	for _, id := range instanceIDs {
		card := p.HandCard(id)
		if card == nil {
			continue
		}
		p.RemoveFromHand(card)
		replaced = append(replaced, card)
	}
	e.draw(side, len(replaced))
	p.Deck = append(p.Deck, replaced...)
	p.ShuffleDeck(e.rng)

	e.record(log.NewMulliganEvent(int(side), len(replaced)))
	return nil
}

// BeginPlaying ends the mulligan phase and starts turn 1.
func (e *Engine) BeginPlaying() error {
	gs := e.state
	if gs.Phase != PhaseMulligan {
		return errNotMulligan
	}
	gs.Phase = PhasePlaying
	gs.Turn = 1
	gs.CurrentTurn = gs.FirstSide

	e.begin()
	e.beginTurn(gs.CurrentTurn)
	e.record(log.NewBeginPlayingEvent(gs.Turn, int(gs.CurrentTurn)))
	e.checkGameOver()
	return nil
}

// EndTurn passes control to the other side.
func (e *Engine) EndTurn() error {
	gs := e.state
	if gs.Phase != PhasePlaying {
		return errNotPlaying
	}
	ending := gs.CurrentTurn

	e.begin()
	for _, m := range gs.Players[ending].Field {
		m.ExpireTemporaryBuffs()
	}
	gs.CurrentTurn = ending.Other()
	if gs.CurrentTurn == SidePlayer {
		gs.Turn++
	}
	e.beginTurn(gs.CurrentTurn)

	e.record(log.NewEndTurnEvent(gs.Turn, int(ending), int(gs.CurrentTurn)))
	e.checkGameOver()
	return nil
}

// Concede ends the match in favour of the other side.
func (e *Engine) Concede(side Side) error {
	gs := e.state
	if gs.Phase != PhaseMulligan && gs.Phase != PhasePlaying {
		return errNotPlaying
	}
	if side != SidePlayer && side != SideOpponent {
		return reject(ErrNotFound, "unknown side")
	}
	e.begin()
	e.endMatch(side.Other(), gs.Players[side].Name+" conceded")
	return nil
}

// Abandon ends an unfinished match as a draw, for drivers that give up on it
// (an action limit, a lost connection).
func (e *Engine) Abandon(reason string) error {
	gs := e.state
	if gs.Phase != PhaseMulligan && gs.Phase != PhasePlaying {
		return errNotPlaying
	}
	e.begin()
	e.endMatch(NoSide, reason)
	return nil
}

// beginTurn runs the start-of-turn sequence for a side.
func (e *Engine) beginTurn(s Side) {
	p := e.state.Players[s]
	if p.MaxMana < MaxMana {
		p.MaxMana++
	}
	p.Mana = p.MaxMana
	p.HeroPowerUsed = false
	e.draw(s, 1)

	for _, m := range p.Field {
		m.Frozen = false
		m.AttacksThisTurn = 0
		m.CanAttack = true
	}
}

// draw moves n cards from deck to hand. Empty-deck draws deal escalating
// fatigue damage; draws into a full hand burn the card.
func (e *Engine) draw(s Side, n int) {
	p := e.state.Players[s]
	for i := 0; i < n; i++ {
		card := p.popDeck()
		if card == nil {
			p.Fatigue++
			e.op.Fatigue++
			e.damageHero(s, p.Fatigue, nil, NoSide)
			continue
		}
		if len(p.Hand) >= MaxHandSize {
			p.Graveyard = append(p.Graveyard, card)
			e.op.Burned = append(e.op.Burned, card.Card.ID)
			continue
		}
		p.Hand = append(p.Hand, card)
		e.op.Drawn++
	}
}

// checkGameOver ends the match when a hero has fallen. Both at once is a draw.
func (e *Engine) checkGameOver() bool {
	gs := e.state
	if gs.Phase == PhaseGameOver {
		return true
	}
	p0Dead := gs.Players[0].Health <= 0
	p1Dead := gs.Players[1].Health <= 0

	switch {
	case p0Dead && p1Dead:
		e.endMatch(NoSide, "both heroes destroyed")
	case p0Dead:
		e.endMatch(SideOpponent, gs.Players[0].Name+"'s hero destroyed")
	case p1Dead:
		e.endMatch(SidePlayer, gs.Players[1].Name+"'s hero destroyed")
	default:
		return false
	}
	return true
}

func (e *Engine) endMatch(winner Side, reason string) {
	gs := e.state
	gs.Phase = PhaseGameOver
	gs.Winner = winner
	gs.Result = reason
	gs.EndedAt = e.now()
	e.record(log.NewGameEndEvent(gs.Turn, int(winner), reason))
}

// --- History ---

// begin opens the payload the current operation accumulates into.
func (e *Engine) begin() {
	e.op = &log.Payload{}
}

// record appends one history entry, attaching the accumulated payload.
func (e *Engine) record(ev log.GameEvent) {
	gs := e.state
	if e.op != nil {
		ctor := ev.Payload
		ev.Payload = *e.op
		ev.Payload.Replaced = ctor.Replaced
		ev.Payload.Winner = ctor.Winner
		ev.Payload.Reason = ctor.Reason
		e.op = nil
	}
	ev.Seq = len(gs.History) + 1
	ev.Time = e.now()
	ev.Turn = gs.Turn
	gs.History = append(gs.History, ev)
	if e.logger != nil {
		e.logger.Log(ev)
	}
}
