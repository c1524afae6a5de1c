package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	stdnet "net"
	"sync"

	"github.com/peterkuimelis/skirmish/internal/ai"
	"github.com/peterkuimelis/skirmish/internal/game"
	skirmishnet "github.com/peterkuimelis/skirmish/internal/net"
	"github.com/peterkuimelis/skirmish/internal/session"
)

// DecisionType identifies what kind of decision the match is waiting for.
type DecisionType string

const (
	DecisionMulligan     DecisionType = "mulligan"
	DecisionChooseAction DecisionType = "choose_action"
	DecisionGameOver     DecisionType = "game_over"
)

// Human is the opponent value that waits for a TCP joiner instead of the AI.
const Human = "human"

// PendingDecision represents a decision the match is waiting for.
type PendingDecision struct {
	Type       DecisionType             `json:"type"`
	Side       game.Side                `json:"side"`
	State      *skirmishnet.StateView   `json:"state"`
	Actions    []skirmishnet.ActionView `json:"actions,omitempty"`
	Candidates []skirmishnet.CardView   `json:"candidates,omitempty"`
}

// Response types sent back from MCP tools to controllers.

type ActionResponse struct {
	Index int
}

type MulliganResponse struct {
	Indices []int
}

type concedeResponse struct{}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []skirmishnet.EventView `json:"events"`
	State    *skirmishnet.StateView  `json:"state,omitempty"`
	Pending  *PendingView            `json:"pending,omitempty"`
	GameOver bool                    `json:"game_over"`
	Winner   int                     `json:"winner"`
	Result   string                  `json:"result,omitempty"`
	Port     string                  `json:"port,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type       DecisionType             `json:"type"`
	ForPlayer  string                   `json:"for_player"`
	Actions    []skirmishnet.ActionView `json:"actions,omitempty"`
	Candidates []skirmishnet.CardView   `json:"candidates,omitempty"`
}

// Options configures the matches started through the tools.
type Options struct {
	Catalog    *game.Catalog
	DecksFile  string
	Port       string  // TCP port for a human opponent
	ThinkScale float64 // AI think time multiplier
	Seed       int64   // 0 = time-seeded
	OnEnd      func(gs *game.GameState, opponent string)
}

// StartRequest selects decks, seats and the opponent for one match.
type StartRequest struct {
	AgentDeck    int
	OpponentDeck int
	AgentSide    game.Side
	Opponent     string // an AI difficulty or Human
}

// GameSession holds the state of a single MCP match.
type GameSession struct {
	engine    *game.Engine
	agentCtrl *MCPController
	humanCtrl *skirmishnet.NetworkController
	agentSide game.Side
	opponent  string
	port      string

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []skirmishnet.EventView
	gameOver bool
	winner   int
	result   string
}

// NewGameSession starts a match between the agent and the requested
// opponent. For a human opponent it listens on opts.Port and blocks until
// someone runs `skirmish join`.
func NewGameSession(opts Options, req StartRequest) (*GameSession, error) {
	agentName, agentCards, err := game.DeckByNumber(opts.DecksFile, req.AgentDeck)
	if err != nil {
		return nil, fmt.Errorf("load agent deck: %w", err)
	}

	sess := &GameSession{
		agentSide: req.AgentSide,
		opponent:  req.Opponent,
		pendingCh: make(chan *PendingDecision, 1),
		winner:    int(game.NoSide),
	}
	sess.agentCtrl = NewMCPController(req.AgentSide, sess)

	var opponent session.PlayerController
	var opponentName string
	var opponentCards []string
	if req.Opponent == Human {
		ln, err := stdnet.Listen("tcp", ":"+opts.Port)
		if err != nil {
			return nil, fmt.Errorf("listen on port %s: %w", opts.Port, err)
		}
		ctrl, join, err := skirmishnet.AcceptJoiner(ln, req.AgentSide.Other())
		ln.Close()
		if err != nil {
			return nil, err
		}
		deck := join.DeckNumber
		if deck == 0 {
			deck = 2
		}
		_, opponentCards, err = game.DeckByNumber(opts.DecksFile, deck)
		if err != nil {
			ctrl.Close()
			return nil, fmt.Errorf("load human deck: %w", err)
		}
		opponentName = join.Name
		if opponentName == "" {
			opponentName = "Human"
		}
		sess.humanCtrl = ctrl
		sess.port = opts.Port
		opponent = ctrl
	} else {
		diff, err := ai.ParseDifficulty(req.Opponent)
		if err != nil {
			return nil, err
		}
		deck := req.OpponentDeck
		if deck == 0 {
			deck = 2
		}
		_, opponentCards, err = game.DeckByNumber(opts.DecksFile, deck)
		if err != nil {
			return nil, fmt.Errorf("load opponent deck: %w", err)
		}
		planner := ai.New(ai.Options{Difficulty: diff, ThinkScale: opts.ThinkScale, Rand: seeded(opts.Seed, 1)})
		opponentName = "AI (" + diff.String() + ")"
		opponent = session.NewAIController(planner, opts.Catalog)
	}

	setup := game.MatchSetup{First: game.FirstPlayer}
	ctrls := [2]session.PlayerController{}
	if req.AgentSide == game.SidePlayer {
		setup.PlayerDeck, setup.PlayerName = agentCards, agentName
		setup.OpponentDeck, setup.OpponentName = opponentCards, opponentName
		ctrls[0], ctrls[1] = sess.agentCtrl, opponent
	} else {
		setup.PlayerDeck, setup.PlayerName = opponentCards, opponentName
		setup.OpponentDeck, setup.OpponentName = agentCards, agentName
		ctrls[0], ctrls[1] = opponent, sess.agentCtrl
	}

	sess.engine = game.NewEngine(game.Config{Catalog: opts.Catalog, Rand: seeded(opts.Seed, 0)})
	cfg := session.Config{Engine: sess.engine, Setup: setup}
	if opts.OnEnd != nil {
		cfg.OnEnd = func(gs *game.GameState) { opts.OnEnd(gs, req.Opponent) }
	}
	match := session.New(cfg, ctrls[0], ctrls[1])

	go sess.run(match)
	return sess, nil
}

func seeded(seed, offset int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return game.NewRNG(seed + offset)
}

func (s *GameSession) run(match *session.Match) {
	winner, err := match.Run(context.Background())
	final := s.engine.State()

	result := final.Result
	if err != nil {
		result = fmt.Sprintf("error: %v", err)
	}
	if s.humanCtrl != nil {
		_ = s.humanCtrl.SendGameOver(final)
		s.humanCtrl.Close()
	}

	s.mu.Lock()
	s.gameOver = true
	s.winner = int(winner)
	s.result = result
	s.mu.Unlock()

	s.pendingCh <- &PendingDecision{
		Type:  DecisionGameOver,
		Side:  winner,
		State: skirmishnet.BuildStateView(final, s.agentSide),
	}
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev skirmishnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []skirmishnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []skirmishnet.EventView{}
	}
	return events
}

// waitForPending blocks until the next decision arrives from the match,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *GameSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	select {
	case pending := <-s.pendingCh:
		s.currentPending = pending
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.response(), nil
}

// response describes the current pending decision without waiting.
func (s *GameSession) response() *ToolResponse {
	resp := &ToolResponse{Events: s.drainEvents()}
	pending := s.currentPending
	if pending == nil {
		return resp
	}
	resp.State = pending.State

	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = s.winner
		resp.Result = s.result
		s.mu.Unlock()
		return resp
	}

	resp.Pending = &PendingView{
		Type:       pending.Type,
		ForPlayer:  s.playerLabel(pending.Side),
		Actions:    pending.Actions,
		Candidates: pending.Candidates,
	}
	return resp
}

// respond hands a tool's answer to the waiting controller.
func (s *GameSession) respond(ctx context.Context, answer any) error {
	select {
	case s.agentCtrl.responseCh <- answer:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// playerLabel returns "agent" or "opponent" for the given side.
func (s *GameSession) playerLabel(side game.Side) string {
	if side == s.agentSide {
		return "agent"
	}
	return "opponent"
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
