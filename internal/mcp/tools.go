package mcp

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/peterkuimelis/skirmish/internal/deckbuilder"
	"github.com/peterkuimelis/skirmish/internal/game"
)

// Tools serves one match at a time (one per stdio process) to an MCP client.
type Tools struct {
	opts Options

	mu     sync.Mutex // serializes tool calls
	active *GameSession
}

// NewTools returns the tool set for the given options.
func NewTools(opts Options) *Tools {
	return &Tools{opts: opts}
}

// Register adds all game tools to the MCP server.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(startGameTool(), t.handleStartGame)
	s.AddTool(takeActionTool(), t.handleTakeAction)
	s.AddTool(mulliganTool(), t.handleMulligan)
	s.AddTool(concedeTool(), t.handleConcede)
	s.AddTool(getGameStateTool(), t.handleGetGameState)
	s.AddTool(analyzeDeckTool(), t.handleAnalyzeDeck)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new match. Returns the initial game state and first pending decision. "+
			"Against a human opponent, they connect via `skirmish join --addr localhost:<port> --deck N` "+
			"in a separate terminal and this call blocks until they do."),
		mcp.WithNumber("deck", mcp.Required(), mcp.Description("Your deck number (1-indexed from decks.yaml)")),
		mcp.WithNumber("side", mcp.Description("0 = you go first, 1 = you go second (default 0)")),
		mcp.WithString("opponent", mcp.Description("AI difficulty (easy, medium, hard) or 'human' (default medium)")),
		mcp.WithNumber("opponent_deck", mcp.Description("AI deck number (default 2)")),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Choose an action from the pending action list. Use this when the pending decision type is 'choose_action'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the action to take from the actions list")),
	)
}

func mulliganTool() mcp.Tool {
	return mcp.NewTool("mulligan",
		mcp.WithDescription("Replace cards from your opening hand. Use this when the pending decision type is 'mulligan'."),
		mcp.WithString("indices", mcp.Required(), mcp.Description("Space-separated 0-based indices of cards to replace (e.g. '0 2'), or empty string to keep the hand")),
	)
}

func concedeTool() mcp.Tool {
	return mcp.NewTool("concede",
		mcp.WithDescription("Concede the running match. Only valid while a decision is pending for you."),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

func analyzeDeckTool() mcp.Tool {
	return mcp.NewTool("analyze_deck",
		mcp.WithDescription("Analyze and validate a deck from decks.yaml: mana curve, rarity mix, stat totals, rule errors and warnings."),
		mcp.WithNumber("deck", mcp.Required(), mcp.Description("Deck number (1-indexed from decks.yaml)")),
	)
}

// --- Tool handlers ---

func (t *Tools) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != nil {
		return mcp.NewToolResultError("A game is already running. Only one game at a time is supported."), nil
	}

	req := StartRequest{
		AgentDeck:    request.GetInt("deck", 0),
		OpponentDeck: request.GetInt("opponent_deck", 0),
		AgentSide:    game.Side(request.GetInt("side", 0)),
		Opponent:     strings.ToLower(request.GetString("opponent", "medium")),
	}
	if req.AgentDeck < 1 {
		return mcp.NewToolResultError("deck must be >= 1"), nil
	}
	if req.AgentSide != game.SidePlayer && req.AgentSide != game.SideOpponent {
		return mcp.NewToolResultError("side must be 0 or 1"), nil
	}

	sess, err := NewGameSession(t.opts, req)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	t.active = sess

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	resp.Port = sess.port
	return t.reply(resp), nil
}

// pending returns the running session when it is waiting on the agent for
// a decision of type want (any type when want is empty).
func (t *Tools) pending(want DecisionType) (*GameSession, *mcp.CallToolResult) {
	if t.active == nil {
		return nil, mcp.NewToolResultError("No game is running. Use start_game first.")
	}
	p := t.active.currentPending
	if p == nil || p.Type == DecisionGameOver {
		return nil, mcp.NewToolResultError("No pending decision.")
	}
	if want != "" && p.Type != want {
		return nil, mcp.NewToolResultErrorf("Wrong tool: pending decision is '%s', not '%s'. Use the correct tool.", p.Type, want)
	}
	return t.active, nil
}

// advance submits an answer and waits for the next decision.
func (t *Tools) advance(ctx context.Context, sess *GameSession, answer any) *mcp.CallToolResult {
	if err := sess.respond(ctx, answer); err != nil {
		return mcp.NewToolResultErrorf("Error submitting decision: %v", err)
	}
	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err)
	}
	return t.reply(resp)
}

// reply encodes resp and forgets the session once its match is over.
func (t *Tools) reply(resp *ToolResponse) *mcp.CallToolResult {
	if resp.GameOver {
		t.active = nil
	}
	return mcp.NewToolResultText(respondJSON(resp))
}

func (t *Tools) handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, errResult := t.pending(DecisionChooseAction)
	if errResult != nil {
		return errResult, nil
	}

	actions := sess.currentPending.Actions
	index := request.GetInt("index", -1)
	if index < 0 || index >= len(actions) {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, len(actions)-1), nil
	}
	return t.advance(ctx, sess, ActionResponse{Index: index}), nil
}

func (t *Tools) handleMulligan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, errResult := t.pending(DecisionMulligan)
	if errResult != nil {
		return errResult, nil
	}

	candidates := sess.currentPending.Candidates
	var indices []int
	for _, p := range strings.Fields(request.GetString("indices", "")) {
		idx, err := strconv.Atoi(p)
		if err != nil {
			return mcp.NewToolResultErrorf("Invalid index '%s': must be an integer.", p), nil
		}
		if idx < 0 || idx >= len(candidates) {
			return mcp.NewToolResultErrorf("Index %d out of range. Must be 0-%d.", idx, len(candidates)-1), nil
		}
		indices = append(indices, idx)
	}
	return t.advance(ctx, sess, MulliganResponse{Indices: indices}), nil
}

func (t *Tools) handleConcede(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, errResult := t.pending("")
	if errResult != nil {
		return errResult, nil
	}
	return t.advance(ctx, sess, concedeResponse{}), nil
}

func (t *Tools) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	return mcp.NewToolResultText(respondJSON(t.active.response())), nil
}

func (t *Tools) handleAnalyzeDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, ids, err := game.DeckByNumber(t.opts.DecksFile, request.GetInt("deck", 0))
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to load deck: %v", err), nil
	}
	data, err := json.Marshal(struct {
		Name       string                 `json:"name"`
		Analysis   deckbuilder.Analysis   `json:"analysis"`
		Validation deckbuilder.Validation `json:"validation"`
	}{name, deckbuilder.AnalyzeDeck(ids, t.opts.Catalog), deckbuilder.ValidateDeck(ids, nil, t.opts.Catalog)})
	if err != nil {
		return mcp.NewToolResultErrorf("marshal error: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
