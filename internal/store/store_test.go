package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/peterkuimelis/skirmish/internal/log"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(" "); err == nil {
		t.Fatal("expected error for an empty path")
	}
}

func TestOpenFileIsReusable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rec := MatchRecord{ID: "m1", PlayerName: "A", OpponentName: "B", Winner: 0, Result: "B conceded"}
	if err := s.SaveMatch(context.Background(), &rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.GetMatch(context.Background(), "m1"); err != nil {
		t.Fatalf("record lost after reopen: %v", err)
	}
}

func TestSaveListGet(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	older := MatchRecord{
		PlayerName: "Alice", OpponentName: "AI (easy)", Opponent: "easy",
		Winner: 0, Result: "AI (easy)'s hero was destroyed", Turns: 9,
		StartedAt: base, EndedAt: base.Add(5 * time.Minute),
		Stats: log.MatchStats{Turns: 9, Winner: 0, DamageDealt: [2]int{30, 12}},
		History: []log.GameEvent{
			{Seq: 1, Type: log.EventGameStart, Details: "start"},
			{Seq: 2, Type: log.EventGameEnd, Player: log.NoPlayer, Details: "end"},
		},
	}
	newer := MatchRecord{
		ID: "fixed", PlayerName: "Bob", OpponentName: "Carol", Opponent: "human",
		Winner: -1, Result: "draw", Turns: 20,
		StartedAt: base.Add(time.Hour), EndedAt: base.Add(2 * time.Hour),
	}
	for _, rec := range []*MatchRecord{&older, &newer} {
		if err := s.SaveMatch(ctx, rec); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if older.ID == "" {
		t.Fatal("SaveMatch should assign an id")
	}

	list, err := s.ListMatches(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "fixed" || list[1].ID != older.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if list[1].History != nil {
		t.Error("list should not load histories")
	}
	if list[1].Stats.DamageDealt != [2]int{30, 12} || !list[1].EndedAt.Equal(older.EndedAt) {
		t.Errorf("summary did not round-trip: %+v", list[1])
	}

	got, err := s.GetMatch(ctx, older.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.History) != 2 || got.History[1].Type != log.EventGameEnd || got.History[1].Player != log.NoPlayer {
		t.Fatalf("history did not round-trip: %+v", got.History)
	}
	if got.Opponent != "easy" || got.Turns != 9 {
		t.Errorf("unexpected record %+v", got)
	}

	if limited, _ := s.ListMatches(ctx, 1); len(limited) != 1 {
		t.Errorf("limit ignored: %d records", len(limited))
	}
	if _, err := s.ListMatches(ctx, 0); err == nil {
		t.Error("expected error for a zero limit")
	}
	if _, err := s.GetMatch(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecorderSavesFinishedMatch(t *testing.T) {
	s := openMemory(t)
	filler := &game.Card{ID: "filler", Name: "Filler", Type: game.CardTypeMinion, Cost: 1, Attack: 1, Health: 1}
	deck := make([]string, game.DeckSize)
	for i := range deck {
		deck[i] = filler.ID
	}

	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	e := game.NewEngine(game.Config{
		Catalog: game.NewCatalog(filler),
		Rand:    game.NewRNG(3),
		Now:     func() time.Time { clock = clock.Add(time.Second); return clock },
	})
	e.StartMatch(game.MatchSetup{PlayerDeck: deck, OpponentDeck: deck, PlayerName: "Alice", OpponentName: "AI (hard)"})
	if err := e.Concede(game.SidePlayer); err != nil {
		t.Fatalf("concede: %v", err)
	}
	final := e.State()

	s.Recorder("hard")(final)

	got, err := s.GetMatch(context.Background(), final.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Winner != int(game.SideOpponent) || got.Result != "Alice conceded" || got.Opponent != "hard" {
		t.Fatalf("unexpected record %+v", got)
	}
	if len(got.History) != len(final.History) || got.Stats.Winner != int(game.SideOpponent) {
		t.Fatalf("expected %d history entries and stats, got %+v", len(final.History), got)
	}
	if got.EndedAt.Before(got.StartedAt) {
		t.Errorf("end %v before start %v", got.EndedAt, got.StartedAt)
	}
}
