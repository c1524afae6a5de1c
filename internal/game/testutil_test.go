package game

import (
	"errors"
	"testing"
	"time"

	"github.com/peterkuimelis/skirmish/internal/log"
)

var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// minion creates a minion definition with the given stats and keywords.
func minion(id string, cost, atk, hp int, kws ...Keyword) *Card {
	return &Card{
		ID:       id,
		Name:     id,
		Type:     CardTypeMinion,
		Cost:     cost,
		Attack:   atk,
		Health:   hp,
		Keywords: kws,
	}
}

// spell creates a spell definition that resolves eff when played.
func spell(id string, cost int, eff *Effect) *Card {
	return &Card{
		ID:        id,
		Name:      id,
		Type:      CardTypeSpell,
		Cost:      cost,
		Battlecry: eff,
	}
}

// filler is the vanilla card used to pad decks.
var filler = minion("filler", 1, 1, 1)

func testCatalog(cards ...*Card) *Catalog {
	return NewCatalog(append([]*Card{filler}, cards...)...)
}

// paddedDeck puts front on top of the deck and fills the rest with filler.
func paddedDeck(front []string, size int) []string {
	deck := append([]string(nil), front...)
	for len(deck) < size {
		deck = append(deck, filler.ID)
	}
	return deck
}

type testEngine struct {
	*Engine
	t      *testing.T
	logger *log.MemoryLogger
}

// newTestEngine starts an unshuffled match where the player goes first and
// play has begun (player on turn 1 with 1 mana).
func newTestEngine(t *testing.T, cat *Catalog, deck0, deck1 []string) *testEngine {
	t.Helper()
	te := newMulliganEngine(t, cat, deck0, deck1)
	if err := te.BeginPlaying(); err != nil {
		t.Fatalf("BeginPlaying: %v", err)
	}
	return te
}

// newMulliganEngine starts an unshuffled match and stops in the mulligan phase.
func newMulliganEngine(t *testing.T, cat *Catalog, deck0, deck1 []string) *testEngine {
	t.Helper()
	logger := log.NewMemoryLogger()
	e := NewEngine(Config{
		Catalog:   cat,
		Logger:    logger,
		Rand:      NewRNG(1),
		Now:       func() time.Time { return testEpoch },
		NoShuffle: true,
	})
	e.StartMatch(MatchSetup{
		PlayerDeck:   deck0,
		OpponentDeck: deck1,
		PlayerName:   "Alice",
		OpponentName: "Bob",
		First:        FirstPlayer,
	})
	return &testEngine{Engine: e, t: t, logger: logger}
}

// place puts a fresh, ready-to-attack instance of card on a side's field.
func (te *testEngine) place(side Side, card *Card) *CardInstance {
	te.t.Helper()
	m := te.state.CreateCardInstance(card, side)
	m.CanAttack = true
	te.state.Players[side].Field = append(te.state.Players[side].Field, m)
	return m
}

// give puts a fresh instance of card into a side's hand.
func (te *testEngine) give(side Side, card *Card) *CardInstance {
	te.t.Helper()
	c := te.state.CreateCardInstance(card, side)
	te.state.Players[side].Hand = append(te.state.Players[side].Hand, c)
	return c
}

// setMana gives the side on turn the stated mana.
func (te *testEngine) setMana(n int) {
	p := te.state.CurrentPlayer()
	p.Mana = n
	p.MaxMana = n
}

func (te *testEngine) player(s Side) *Player {
	return te.state.Players[s]
}

func (te *testEngine) mustPlay(id, target int) {
	te.t.Helper()
	if err := te.PlayCard(id, target); err != nil {
		te.t.Fatalf("PlayCard(%d, %d): %v", id, target, err)
	}
}

func (te *testEngine) mustAttack(attacker, target int) {
	te.t.Helper()
	if err := te.Attack(attacker, target); err != nil {
		te.t.Fatalf("Attack(%d, %d): %v", attacker, target, err)
	}
}

func (te *testEngine) mustEndTurn() {
	te.t.Helper()
	if err := te.EndTurn(); err != nil {
		te.t.Fatalf("EndTurn: %v", err)
	}
}

func inGraveyard(p *Player, id int) bool {
	for _, c := range p.Graveyard {
		if c.ID == id {
			return true
		}
	}
	return false
}

func expectReason(t *testing.T, err error, kind error, reason string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %q, got nil", reason)
	}
	if !errors.Is(err, kind) {
		t.Errorf("expected kind %v, got %v", kind, err)
	}
	if got := Reason(err); got != reason {
		t.Errorf("expected reason %q, got %q", reason, got)
	}
}
