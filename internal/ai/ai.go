// Package ai plans opponent turns at three difficulty tiers. Planners never
// mutate a match; their decisions are replayed through the engine by Execute,
// which re-checks each one against the live legal actions first.
package ai

import (
	"context"
	"fmt"
	stdlog "log"
	"math/rand"
	"strings"
	"time"

	"github.com/peterkuimelis/skirmish/internal/game"
)

type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty accepts "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium", "":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Easy, fmt.Errorf("unknown difficulty %q", s)
}

// ThinkTime is the pause before a tier produces its decisions.
func (d Difficulty) ThinkTime() time.Duration {
	switch d {
	case Easy:
		return 500 * time.Millisecond
	case Medium:
		return 800 * time.Millisecond
	default:
		return 1200 * time.Millisecond
	}
}

// Board is the read-only query surface a planner needs. *game.Engine
// satisfies it.
type Board interface {
	State() *game.GameState
	PlayableCards() []int
	Attackers() []int
	AttackTargets(attackerID int) []int
	BattlecryTargets(instanceID int) []int
}

// Executor replays decisions. *game.Engine satisfies it.
type Executor interface {
	Phase() game.Phase
	CurrentTurn() game.Side
	LegalActions() []game.Action
	Apply(a game.Action) error
}

// Engine is a live match handle that can be both planned on and driven.
type Engine interface {
	Board
	Executor
}

// Options configures a Planner.
type Options struct {
	Difficulty Difficulty
	ThinkScale float64    // multiplies the tier's think time; 0 disables it
	Rand       *rand.Rand // coin flips and random targets (nil = time-seeded)
}

// Planner produces turn plans for one difficulty tier.
type Planner struct {
	difficulty Difficulty
	thinkScale float64
	rng        *rand.Rand
}

func New(opts Options) *Planner {
	rng := opts.Rand
	if rng == nil {
		rng = game.NewRNG(0)
	}
	return &Planner{difficulty: opts.Difficulty, thinkScale: opts.ThinkScale, rng: rng}
}

func (p *Planner) Difficulty() Difficulty {
	return p.difficulty
}

// Plan computes an ordered decision list for the side on turn from one
// snapshot of the board. The last decision is always END_TURN.
func (p *Planner) Plan(b Board) []game.Action {
	gs := b.State()
	if gs.Phase != game.PhasePlaying {
		return nil
	}
	switch p.difficulty {
	case Easy:
		return p.planEasy(b, gs)
	case Medium:
		return p.planMedium(b, gs)
	default:
		return p.planHard(b, gs)
	}
}

// Decide waits the tier's think time, then plans.
func (p *Planner) Decide(ctx context.Context, b Board) ([]game.Action, error) {
	if err := p.think(ctx); err != nil {
		return nil, err
	}
	return p.Plan(b), nil
}

func (p *Planner) think(ctx context.Context) error {
	d := time.Duration(float64(p.difficulty.ThinkTime()) * p.thinkScale)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// maxReplans bounds how often the hard tier re-plans within one turn.
const maxReplans = 3

// Rounds is how many plans the tier makes per turn.
func (p *Planner) Rounds() int {
	if p.difficulty == Hard {
		return maxReplans
	}
	return 1
}

// PlayTurn plans and executes one full turn for the side on turn, ending it.
// The hard tier re-plans after each pass so that targets opened up by its own
// plays (a taunt dying, say) are used in the same turn.
func (p *Planner) PlayTurn(ctx context.Context, e Engine) (Report, error) {
	var total Report
	side := e.CurrentTurn()

	for round := 0; round < p.Rounds(); round++ {
		decisions, err := p.Decide(ctx, e)
		if err != nil {
			return total, err
		}
		r := Execute(e, WithoutEndTurn(decisions))
		total.Applied += r.Applied
		total.Skipped += r.Skipped
		if r.Applied == 0 || e.Phase() != game.PhasePlaying {
			break
		}
	}

	if e.Phase() == game.PhasePlaying && e.CurrentTurn() == side {
		r := Execute(e, []game.Action{endTurn(side)})
		total.Applied += r.Applied
		total.Skipped += r.Skipped
	}
	return total, nil
}

// Report counts what happened to a decision list.
type Report struct {
	Applied int
	Skipped int
}

// Execute replays decisions in order. Each one is matched against the live
// legal actions first; stale decisions and engine rejections are skipped.
// Execution stops when the match ends or the turn passes.
func Execute(e Executor, decisions []game.Action) Report {
	var r Report
	if len(decisions) == 0 {
		return r
	}
	side := decisions[0].Side
	for _, d := range decisions {
		if e.Phase() != game.PhasePlaying || e.CurrentTurn() != side {
			break
		}
		if _, ok := Find(e.LegalActions(), d); !ok {
			stdlog.Printf("ai: skipping stale decision %s", describe(d))
			r.Skipped++
			continue
		}
		if err := e.Apply(d); err != nil {
			stdlog.Printf("ai: engine rejected %s: %v", describe(d), err)
			r.Skipped++
			continue
		}
		r.Applied++
	}
	return r
}

// Find returns the legal action matching decision d.
func Find(legal []game.Action, d game.Action) (game.Action, bool) {
	for _, a := range legal {
		if a.Same(d) {
			return a, true
		}
	}
	// targeted cards may always be played without a target
	if d.Type == game.ActionPlayCard && d.TargetID == game.NoTarget {
		for _, a := range legal {
			if a.Type == game.ActionPlayCard && a.CardID == d.CardID {
				return d, true
			}
		}
	}
	return game.Action{}, false
}

func describe(a game.Action) string {
	return fmt.Sprintf("%s card=%d target=%d", a.Type, a.CardID, a.TargetID)
}

// WithoutEndTurn drops END_TURN decisions from a plan.
func WithoutEndTurn(decisions []game.Action) []game.Action {
	out := decisions[:0:0]
	for _, d := range decisions {
		if d.Type != game.ActionEndTurn {
			out = append(out, d)
		}
	}
	return out
}

// --- decision constructors ---

func playCard(side game.Side, id, target int) game.Action {
	return game.Action{Type: game.ActionPlayCard, Side: side, CardID: id, TargetID: target}
}

func attack(side game.Side, attacker, target int) game.Action {
	return game.Action{Type: game.ActionAttack, Side: side, CardID: attacker, TargetID: target}
}

func endTurn(side game.Side) game.Action {
	return game.Action{Type: game.ActionEndTurn, Side: side}
}
