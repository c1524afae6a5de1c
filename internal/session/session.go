// Package session drives a match between two controllers: mulligans, then
// one action at a time from whichever side is on turn, until a hero falls.
package session

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"

	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/peterkuimelis/skirmish/internal/log"
)

// PlayerController is implemented by every kind of participant: terminal and
// network humans, websocket clients, MCP agents and the built-in AI.
type PlayerController interface {
	// ChooseMulligan returns the hand instance ids to replace.
	ChooseMulligan(ctx context.Context, state *game.GameState, side game.Side) ([]int, error)

	// ChooseAction presents the legal actions and waits for one.
	ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error)

	// Notify forwards a history entry (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// ErrConceded is returned by a controller whose player gives up. The match
// ends in the other side's favour.
var ErrConceded = errors.New("player conceded")

// Config holds everything a Match needs besides its controllers.
type Config struct {
	Engine     *game.Engine
	Setup      game.MatchSetup
	MaxActions int                   // abandon the match after this many actions (0 = 2000)
	OnEnd      func(*game.GameState) // called once with the final state
}

// Match runs one game.
type Match struct {
	engine      *game.Engine
	controllers [2]PlayerController
	setup       game.MatchSetup
	maxActions  int
	onEnd       func(*game.GameState)
	notified    int // history entries already forwarded
}

func New(cfg Config, p0, p1 PlayerController) *Match {
	maxActions := cfg.MaxActions
	if maxActions == 0 {
		maxActions = 2000 // safety limit
	}
	return &Match{
		engine:      cfg.Engine,
		controllers: [2]PlayerController{p0, p1},
		setup:       cfg.Setup,
		maxActions:  maxActions,
		onEnd:       cfg.OnEnd,
	}
}

// Engine returns the engine the match drives.
func (m *Match) Engine() *game.Engine {
	return m.engine
}

// Run plays the match to completion and returns the winner (game.NoSide for
// a draw). Controller errors and context cancellation abandon the match.
func (m *Match) Run(ctx context.Context) (game.Side, error) {
	e := m.engine
	e.StartMatch(m.setup)
	m.flush(ctx)

	for _, side := range []game.Side{game.SidePlayer, game.SideOpponent} {
		ids, err := m.controllers[side].ChooseMulligan(ctx, e.State(), side)
		if errors.Is(err, ErrConceded) {
			_ = e.Concede(side)
			m.finish(ctx)
			return side.Other(), nil
		}
		if err != nil {
			return m.abandon(ctx, fmt.Errorf("mulligan for player %d: %w", side, err))
		}
		if err := e.Mulligan(side, ids); err != nil {
			return m.abandon(ctx, err)
		}
		m.flush(ctx)
	}
	if err := e.BeginPlaying(); err != nil {
		return m.abandon(ctx, err)
	}
	m.flush(ctx)

	for n := 0; e.Phase() == game.PhasePlaying; n++ {
		if err := ctx.Err(); err != nil {
			return m.abandon(ctx, err)
		}
		if n >= m.maxActions {
			_ = e.Abandon(fmt.Sprintf("action limit reached (%d actions)", m.maxActions))
			break
		}

		side := e.CurrentTurn()
		chosen, err := m.controllers[side].ChooseAction(ctx, e.State(), e.LegalActions())
		if errors.Is(err, ErrConceded) {
			_ = e.Concede(side)
			break
		}
		if err != nil {
			return m.abandon(ctx, fmt.Errorf("player %d: %w", side, err))
		}
		chosen.Side = side
		if err := e.Apply(chosen); err != nil {
			stdlog.Printf("session: player %d action rejected: %v", side, err)
		}
		m.flush(ctx)
	}

	m.finish(ctx)
	return e.State().Winner, nil
}

// abandon ends the match as a draw after a driver failure.
func (m *Match) abandon(ctx context.Context, cause error) (game.Side, error) {
	if err := m.engine.Abandon("abandoned: " + cause.Error()); err == nil {
		m.finish(ctx)
	}
	return game.NoSide, cause
}

func (m *Match) finish(ctx context.Context) {
	m.flush(ctx)
	if m.onEnd != nil {
		m.onEnd(m.engine.State())
	}
}

// flush forwards history entries the controllers have not seen yet.
func (m *Match) flush(ctx context.Context) {
	history := m.engine.State().History
	for _, ev := range history[m.notified:] {
		for _, c := range m.controllers {
			// Notify errors are not fatal; a controller that lost its
			// connection fails on its next choice instead.
			_ = c.Notify(context.WithoutCancel(ctx), ev)
		}
	}
	m.notified = len(history)
}
