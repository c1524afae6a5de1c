package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"

	"github.com/peterkuimelis/skirmish/internal/ai"
	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/peterkuimelis/skirmish/internal/session"
)

// Server hosts a match. The host always plays side 0 through a local REPL;
// side 1 is either a TCP joiner or, when AI is set, the built-in AI.
type Server struct {
	Catalog  *game.Catalog
	DeckFile string
	Port     string
	HostDeck int // host's deck number (1-indexed)
	HostName string
	AI       *ai.Planner // play against the AI instead of waiting for a joiner
	AIDeck   int         // AI's deck number (0 = 2)
	Seed     int64
	OnEnd    func(*game.GameState)
}

// Run starts the server, waits for a client to join (unless playing the AI),
// then runs the match.
func (s *Server) Run(ctx context.Context) error {
	hostName, hostCards, err := game.DeckByNumber(s.DeckFile, s.HostDeck)
	if err != nil {
		return fmt.Errorf("load host deck: %w", err)
	}
	fmt.Printf("Host: %s (%d cards)\n", hostName, len(hostCards))

	setup := game.MatchSetup{
		PlayerDeck: hostCards,
		PlayerName: nameOr(s.HostName, "Host"),
	}

	var opponent session.PlayerController
	var joinerCtrl *NetworkController
	if s.AI != nil {
		deckNum := s.AIDeck
		if deckNum == 0 {
			deckNum = 2
		}
		aiName, aiCards, err := game.DeckByNumber(s.DeckFile, deckNum)
		if err != nil {
			return fmt.Errorf("load ai deck: %w", err)
		}
		fmt.Printf("AI (%s): %s (%d cards)\n", s.AI.Difficulty(), aiName, len(aiCards))
		setup.OpponentDeck = aiCards
		setup.OpponentName = "AI (" + s.AI.Difficulty().String() + ")"
		opponent = session.NewAIController(s.AI, s.Catalog)
	} else {
		ln, err := net.Listen("tcp", ":"+s.Port)
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		fmt.Printf("Waiting for opponent on port %s...\n", s.Port)
		ctrl, join, err := AcceptJoiner(ln, game.SideOpponent)
		ln.Close()
		if err != nil {
			return err
		}
		defer ctrl.Close()

		joinerDeck := join.DeckNumber
		if joinerDeck == 0 {
			joinerDeck = 2
		}
		fmt.Printf("Opponent chose deck %d\n", joinerDeck)
		joinerName, joinerCards, err := game.DeckByNumber(s.DeckFile, joinerDeck)
		if err != nil {
			return fmt.Errorf("load joiner deck: %w", err)
		}
		fmt.Printf("Joiner: %s (%d cards)\n", joinerName, len(joinerCards))
		setup.OpponentDeck = joinerCards
		setup.OpponentName = nameOr(join.Name, "Guest")
		joinerCtrl = ctrl
		opponent = joinerCtrl
	}

	// Create a pipe for the host's local connection
	hostConn, hostServerConn := net.Pipe()
	defer hostServerConn.Close()
	hostCtrl := NewNetworkController(hostServerConn, game.SidePlayer)

	engine := game.NewEngine(game.Config{Catalog: s.Catalog, Rand: game.NewRNG(s.Seed)})
	match := session.New(session.Config{Engine: engine, Setup: setup, OnEnd: s.OnEnd}, hostCtrl, opponent)

	// Run the host's local REPL in a goroutine
	errCh := make(chan error, 2)
	go func() {
		client := NewClient(hostConn)
		errCh <- client.RunREPL(ctx)
	}()

	go func() {
		_, err := match.Run(ctx)
		if err != nil {
			errCh <- fmt.Errorf("match error: %w", err)
			return
		}

		final := engine.State()
		if joinerCtrl != nil {
			_ = joinerCtrl.SendGameOver(final)
		}
		_ = hostCtrl.SendGameOver(final)
	}()

	// The REPL returns once it has shown the result (or the match failed)
	return <-errCh
}

// AcceptJoiner waits for exactly one connection on ln and reads its join
// handshake. The returned controller owns the connection.
func AcceptJoiner(ln net.Listener, side game.Side) (*NetworkController, ClientMessage, error) {
	var join ClientMessage
	conn, err := ln.Accept()
	if err != nil {
		return nil, join, fmt.Errorf("accept: %w", err)
	}

	dec := json.NewDecoder(conn)
	if err := dec.Decode(&join); err != nil || join.Type != "join" {
		conn.Close()
		if err == nil {
			err = fmt.Errorf("unexpected %q message", join.Type)
		}
		return nil, join, fmt.Errorf("read join message: %w", err)
	}
	return newNetworkController(conn, dec, side), join, nil
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
