package session

import (
	"context"
	stdlog "log"

	"github.com/peterkuimelis/skirmish/internal/ai"
	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/peterkuimelis/skirmish/internal/log"
)

// mulliganCost is the cheapest card the AI sends back during the mulligan.
const mulliganCost = 5

// AIController plays one side with an ai.Planner. It plans from the snapshot
// it is handed, queues the decisions and releases them one per ChooseAction,
// dropping any that are no longer among the offered actions.
type AIController struct {
	planner *ai.Planner
	catalog *game.Catalog

	turn   int
	side   game.Side
	queue  []game.Action
	rounds int
}

func NewAIController(p *ai.Planner, cat *game.Catalog) *AIController {
	return &AIController{planner: p, catalog: cat, side: game.NoSide}
}

// ChooseMulligan sends back expensive cards; the easy tier keeps its hand.
func (c *AIController) ChooseMulligan(ctx context.Context, state *game.GameState, side game.Side) ([]int, error) {
	if c.planner.Difficulty() == ai.Easy {
		return nil, nil
	}
	var ids []int
	for _, card := range state.Players[side].Hand {
		if card.Card.Cost >= mulliganCost {
			ids = append(ids, card.ID)
		}
	}
	return ids, nil
}

func (c *AIController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	if state.Turn != c.turn || state.CurrentTurn != c.side {
		c.turn, c.side = state.Turn, state.CurrentTurn
		c.queue, c.rounds = nil, 0
	}

	for {
		for len(c.queue) > 0 {
			d := c.queue[0]
			c.queue = c.queue[1:]
			if a, ok := ai.Find(actions, d); ok {
				return a, nil
			}
			stdlog.Printf("ai: skipping stale decision %s", d)
		}
		if c.rounds >= c.planner.Rounds() {
			return endTurnFrom(actions), nil
		}

		board := game.Resume(game.Config{Catalog: c.catalog}, state)
		decisions, err := c.planner.Decide(ctx, board)
		if err != nil {
			return game.Action{}, err
		}
		c.rounds++
		c.queue = ai.WithoutEndTurn(decisions)
		if len(c.queue) == 0 {
			c.rounds = c.planner.Rounds()
		}
	}
}

func (c *AIController) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

func endTurnFrom(actions []game.Action) game.Action {
	for _, a := range actions {
		if a.Type == game.ActionEndTurn {
			return a
		}
	}
	return actions[len(actions)-1]
}
