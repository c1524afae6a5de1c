package mcp

import (
	"context"

	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/peterkuimelis/skirmish/internal/log"
	skirmishnet "github.com/peterkuimelis/skirmish/internal/net"
	"github.com/peterkuimelis/skirmish/internal/session"
)

// MCPController implements session.PlayerController by sending decisions
// to the MCP session's pending channel and blocking on a response channel.
type MCPController struct {
	side       game.Side
	session    *GameSession
	responseCh chan any
}

// NewMCPController creates a controller for the given side.
func NewMCPController(side game.Side, sess *GameSession) *MCPController {
	return &MCPController{
		side:       side,
		session:    sess,
		responseCh: make(chan any),
	}
}

func (c *MCPController) await(ctx context.Context, pending *PendingDecision) (any, error) {
	select {
	case c.session.pendingCh <- pending:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case resp := <-c.responseCh:
		if _, ok := resp.(concedeResponse); ok {
			return nil, session.ErrConceded
		}
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ChooseMulligan implements session.PlayerController.
func (c *MCPController) ChooseMulligan(ctx context.Context, state *game.GameState, side game.Side) ([]int, error) {
	hand := state.Players[side].Hand
	resp, err := c.await(ctx, &PendingDecision{
		Type:       DecisionMulligan,
		Side:       side,
		State:      skirmishnet.BuildStateView(state, side),
		Candidates: skirmishnet.HandViews(hand),
	})
	if err != nil {
		return nil, err
	}

	var ids []int
	for _, idx := range resp.(MulliganResponse).Indices {
		if idx >= 0 && idx < len(hand) {
			ids = append(ids, hand[idx].ID)
		}
	}
	return ids, nil
}

// ChooseAction implements session.PlayerController.
func (c *MCPController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	resp, err := c.await(ctx, &PendingDecision{
		Type:    DecisionChooseAction,
		Side:    c.side,
		State:   skirmishnet.BuildStateView(state, c.side),
		Actions: skirmishnet.ActionViews(actions),
	})
	if err != nil {
		return game.Action{}, err
	}

	idx := resp.(ActionResponse).Index
	if idx < 0 || idx >= len(actions) {
		return actions[len(actions)-1], nil
	}
	return actions[idx], nil
}

// Notify implements session.PlayerController. Events are buffered for the
// next tool response.
func (c *MCPController) Notify(ctx context.Context, event log.GameEvent) error {
	c.session.appendEvent(skirmishnet.NewEventView(event))
	return nil
}
