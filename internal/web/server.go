package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/peterkuimelis/skirmish/internal/ai"
	"github.com/peterkuimelis/skirmish/internal/deckbuilder"
	"github.com/peterkuimelis/skirmish/internal/game"
	skirmishnet "github.com/peterkuimelis/skirmish/internal/net"
	"github.com/peterkuimelis/skirmish/internal/session"
	"github.com/peterkuimelis/skirmish/internal/store"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type"`
	Cost        int      `json:"cost"`
	Attack      int      `json:"attack,omitempty"`
	Health      int      `json:"health,omitempty"`
	Rarity      string   `json:"rarity"`
	Keywords    []string `json:"keywords,omitempty"`
	Score       float64  `json:"score"`
}

// Options configures a Server.
type Options struct {
	Catalog    *game.Catalog
	DecksFile  string
	Store      *store.Store // nil disables match history
	Difficulty string       // default AI tier for /ws
	ThinkScale float64
	Seed       int64 // 0 = time-seeded
}

// Server is the skirmish web API server.
type Server struct {
	opts Options
	mux  *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(opts Options) *Server {
	s := &Server{opts: opts, mux: http.NewServeMux()}
	s.setupRoutes()
	return s
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, staticFS, "index.html")
	})
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("POST /api/decks/analyze", s.handleAnalyzeDeck)
	s.mux.HandleFunc("POST /api/decks/validate", s.handleValidateDeck)
	s.mux.HandleFunc("POST /api/decks/generate", s.handleGenerateDeck)
	s.mux.HandleFunc("GET /api/matches", s.handleListMatches)
	s.mux.HandleFunc("GET /api/matches/{id}", s.handleGetMatch)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	cards := []CardInfo{}
	for _, c := range s.opts.Catalog.All() {
		ci := CardInfo{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Type:        c.Type.String(),
			Cost:        c.Cost,
			Attack:      c.Attack,
			Health:      c.Health,
			Rarity:      c.Rarity.String(),
			Score:       deckbuilder.EvaluateCard(c),
		}
		for _, kw := range c.Keywords {
			ci.Keywords = append(ci.Keywords, kw.String())
		}
		cards = append(cards, ci)
	}
	writeJSON(w, http.StatusOK, cards)
}

// startMessage opens a websocket match against the AI.
type startMessage struct {
	Type       string `json:"type"`
	DeckNumber int    `json:"deck_number"`
	AIDeck     int    `json:"ai_deck"`
	Difficulty string `json:"difficulty"`
	Name       string `json:"name"`
}

// handleWebSocket plays one match against the AI. After a "start" message
// the socket speaks the same JSON protocol as the TCP client.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	var start startMessage
	if err := wsjson.Read(ctx, wsConn, &start); err != nil || start.Type != "start" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected start message")
		return
	}

	conn := websocket.NetConn(ctx, wsConn, websocket.MessageText)
	player := skirmishnet.NewNetworkController(conn, game.SidePlayer)
	match, err := s.newMatch(start, player)
	if err != nil {
		_ = wsjson.Write(ctx, wsConn, skirmishnet.ServerMessage{Type: "error", Result: err.Error()})
		wsConn.Close(websocket.StatusNormalClosure, "could not start match")
		return
	}

	engine := match.Engine()
	if _, err := match.Run(ctx); err != nil && ctx.Err() != nil {
		return
	} else if err != nil {
		log.Printf("match %s: %v", engine.State().ID, err)
	}
	if err := player.SendGameOver(engine.State()); err != nil {
		log.Printf("WebSocket write game over: %v", err)
		return
	}
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

// newMatch prepares a match between player on side 0 and the AI on side 1.
func (s *Server) newMatch(start startMessage, player session.PlayerController) (*session.Match, error) {
	if start.DeckNumber == 0 {
		start.DeckNumber = 1
	}
	if start.AIDeck == 0 {
		start.AIDeck = 2
	}
	if start.Difficulty == "" {
		start.Difficulty = s.opts.Difficulty
	}
	diff, err := ai.ParseDifficulty(start.Difficulty)
	if err != nil {
		return nil, err
	}
	_, playerCards, err := game.DeckByNumber(s.opts.DecksFile, start.DeckNumber)
	if err != nil {
		return nil, err
	}
	_, aiCards, err := game.DeckByNumber(s.opts.DecksFile, start.AIDeck)
	if err != nil {
		return nil, err
	}

	aiOpts := ai.Options{Difficulty: diff, ThinkScale: s.opts.ThinkScale}
	engineCfg := game.Config{Catalog: s.opts.Catalog}
	if s.opts.Seed != 0 {
		engineCfg.Rand = game.NewRNG(s.opts.Seed)
		aiOpts.Rand = game.NewRNG(s.opts.Seed + 1)
	}
	engine := game.NewEngine(engineCfg)

	cfg := session.Config{
		Engine: engine,
		Setup: game.MatchSetup{
			PlayerDeck:   playerCards,
			OpponentDeck: aiCards,
			PlayerName:   nameOr(start.Name, "Player"),
			OpponentName: "AI (" + diff.String() + ")",
		},
	}
	if s.opts.Store != nil {
		cfg.OnEnd = s.opts.Store.Recorder(diff.String())
	}
	opponent := session.NewAIController(ai.New(aiOpts), s.opts.Catalog)
	return session.New(cfg, player, opponent), nil
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}
	stop := context.AfterFunc(ctx, func() { _ = srv.Shutdown(context.Background()) })
	defer stop()
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
