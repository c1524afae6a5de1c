package game

import (
	"math/rand"
	"time"

	"github.com/peterkuimelis/skirmish/internal/log"
)

const (
	StartingHealth = 30
	MaxMana        = 10
	MaxHandSize    = 10
	MaxFieldSize   = 7

	FirstHandSize  = 3
	SecondHandSize = 4
)

// Player represents one side's entire state.
type Player struct {
	Name      string
	Health    int
	MaxHealth int
	Mana      int
	MaxMana   int

	Deck      []*CardInstance // top of deck is last element (pop from end)
	Hand      []*CardInstance
	Field     []*CardInstance // left to right, at most MaxFieldSize
	Graveyard []*CardInstance

	Fatigue       int // empty-deck draws so far
	HeroPowerUsed bool
}

func newPlayer(name string) *Player {
	return &Player{Name: name, Health: StartingHealth, MaxHealth: StartingHealth}
}

// DeckCount returns the number of cards remaining in the deck.
func (p *Player) DeckCount() int {
	return len(p.Deck)
}

// HandCount returns the number of cards in hand.
func (p *Player) HandCount() int {
	return len(p.Hand)
}

// popDeck removes and returns the top card, or nil if the deck is empty.
func (p *Player) popDeck() *CardInstance {
	if len(p.Deck) == 0 {
		return nil
	}
	card := p.Deck[len(p.Deck)-1]
	p.Deck = p.Deck[:len(p.Deck)-1]
	return card
}

// HandCard finds a card in hand by instance ID.
func (p *Player) HandCard(id int) *CardInstance {
	for _, c := range p.Hand {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Minion finds a minion on the field by instance ID.
func (p *Player) Minion(id int) *CardInstance {
	for _, m := range p.Field {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// RemoveFromHand removes a card from the hand by instance ID.
func (p *Player) RemoveFromHand(card *CardInstance) {
	for i, c := range p.Hand {
		if c.ID == card.ID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return
		}
	}
}

// RemoveFromField removes a minion from the field by instance ID.
func (p *Player) RemoveFromField(card *CardInstance) bool {
	for i, m := range p.Field {
		if m.ID == card.ID {
			p.Field = append(p.Field[:i], p.Field[i+1:]...)
			return true
		}
	}
	return false
}

// FieldFull reports whether another minion can be placed.
func (p *Player) FieldFull() bool {
	return len(p.Field) >= MaxFieldSize
}

// Taunts returns the minions that currently force attacks onto themselves.
func (p *Player) Taunts() []*CardInstance {
	var result []*CardInstance
	for _, m := range p.Field {
		if m.HasKeyword(KeywordTaunt) && !m.Stealthed {
			result = append(result, m)
		}
	}
	return result
}

// ShuffleDeck randomizes the deck order.
func (p *Player) ShuffleDeck(rng *rand.Rand) {
	rng.Shuffle(len(p.Deck), func(i, j int) {
		p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
	})
}

func (p *Player) clone() *Player {
	c := *p
	c.Deck = cloneInstances(p.Deck)
	c.Hand = cloneInstances(p.Hand)
	c.Field = cloneInstances(p.Field)
	c.Graveyard = cloneInstances(p.Graveyard)
	return &c
}

func cloneInstances(in []*CardInstance) []*CardInstance {
	if in == nil {
		return nil
	}
	out := make([]*CardInstance, len(in))
	for i, ci := range in {
		out[i] = ci.clone()
	}
	return out
}

// --- GameState ---

// GameState holds the complete state of a match.
type GameState struct {
	ID          string
	Phase       Phase
	Turn        int  // 1-based once playing starts
	CurrentTurn Side // whose turn it is
	FirstSide   Side // who acted first
	Players     [2]*Player

	Winner Side // NoSide until decided, and for a draw
	Result string

	History   []log.GameEvent
	StartedAt time.Time
	EndedAt   time.Time

	// ID counter for card instances
	nextID int
}

// NewGameState creates an empty, not-yet-started match.
func NewGameState(id string) *GameState {
	return &GameState{
		ID:      id,
		Phase:   PhaseNotStarted,
		Players: [2]*Player{newPlayer("Player"), newPlayer("Opponent")},
		Winner:  NoSide,
	}
}

// NextID generates a unique card instance ID.
func (gs *GameState) NextID() int {
	gs.nextID++
	return gs.nextID
}

// Player returns the state of one side.
func (gs *GameState) Player(s Side) *Player {
	return gs.Players[s]
}

// CurrentPlayer returns the Player struct for the side on turn.
func (gs *GameState) CurrentPlayer() *Player {
	return gs.Players[gs.CurrentTurn]
}

// OpponentPlayer returns the Player struct for the side not on turn.
func (gs *GameState) OpponentPlayer() *Player {
	return gs.Players[gs.CurrentTurn.Other()]
}

// Over reports whether the match has ended.
func (gs *GameState) Over() bool {
	return gs.Phase == PhaseGameOver
}

// FindMinion locates a minion on either field.
func (gs *GameState) FindMinion(id int) (*CardInstance, Side) {
	for s := SidePlayer; s <= SideOpponent; s++ {
		if m := gs.Players[s].Minion(id); m != nil {
			return m, s
		}
	}
	return nil, NoSide
}

// CreateCardInstance creates a CardInstance from a Card definition, assigned to a side.
func (gs *GameState) CreateCardInstance(card *Card, owner Side) *CardInstance {
	return &CardInstance{
		Card:         card,
		ID:           gs.NextID(),
		Owner:        owner,
		Attack:       card.Attack,
		Health:       card.Health,
		MaxHealth:    card.Health,
		DivineShield: card.HasKeyword(KeywordDivineShield),
		Stealthed:    card.HasKeyword(KeywordStealth),
	}
}

// Clone returns a deep copy. Card definitions stay shared.
func (gs *GameState) Clone() *GameState {
	c := *gs
	c.Players = [2]*Player{gs.Players[0].clone(), gs.Players[1].clone()}
	if gs.History != nil {
		c.History = append([]log.GameEvent(nil), gs.History...)
	}
	return &c
}
