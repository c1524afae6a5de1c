package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/peterkuimelis/skirmish/internal/log"
	"github.com/peterkuimelis/skirmish/internal/session"
)

// NetworkController implements session.PlayerController over a connection.
type NetworkController struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
	side game.Side
	mu   sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn, side game.Side) *NetworkController {
	return newNetworkController(conn, json.NewDecoder(conn), side)
}

// newNetworkController reuses a decoder that already consumed the handshake,
// so bytes it buffered past the join message are not lost.
func newNetworkController(conn net.Conn, dec *json.Decoder, side game.Side) *NetworkController {
	return &NetworkController{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  dec,
		side: side,
	}
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held. Reads are
// abandoned when ctx ends.
func (nc *NetworkController) recv(ctx context.Context) (ClientMessage, error) {
	stop := context.AfterFunc(ctx, func() { nc.conn.Close() })
	defer stop()

	var msg ClientMessage
	if err := nc.dec.Decode(&msg); err != nil {
		if ctx.Err() != nil {
			return msg, ctx.Err()
		}
		return msg, err
	}
	if msg.Type == "concede" {
		return msg, session.ErrConceded
	}
	return msg, nil
}

// ChooseMulligan implements session.PlayerController.
func (nc *NetworkController) ChooseMulligan(ctx context.Context, state *game.GameState, side game.Side) ([]int, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	hand := state.Players[side].Hand
	msg := ServerMessage{
		Type:       "choose_mulligan",
		Candidates: HandViews(hand),
		State:      BuildStateView(state, nc.side),
	}
	if err := nc.send(msg); err != nil {
		return nil, fmt.Errorf("send choose_mulligan: %w", err)
	}

	resp, err := nc.recv(ctx)
	if err != nil {
		return nil, fmt.Errorf("recv mulligan: %w", err)
	}

	var ids []int
	for _, idx := range resp.Indices {
		if idx >= 0 && idx < len(hand) {
			ids = append(ids, hand[idx].ID)
		}
	}
	return ids, nil
}

// ChooseAction implements session.PlayerController.
func (nc *NetworkController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type:    "choose_action",
		Actions: ActionViews(actions),
		State:   BuildStateView(state, nc.side),
	}
	if err := nc.send(msg); err != nil {
		return game.Action{}, fmt.Errorf("send choose_action: %w", err)
	}

	resp, err := nc.recv(ctx)
	if err != nil {
		return game.Action{}, fmt.Errorf("recv action: %w", err)
	}

	if resp.Index < 0 || resp.Index >= len(actions) {
		return actions[len(actions)-1], nil // fall back to ending the turn
	}
	return actions[resp.Index], nil
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(state *game.GameState) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(GameOverMessage(state))
}

// Close closes the underlying connection.
func (nc *NetworkController) Close() error {
	return nc.conn.Close()
}

// Notify implements session.PlayerController.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	ev := NewEventView(event)
	return nc.send(ServerMessage{Type: "notify", Event: &ev})
}
