package net

import (
	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/peterkuimelis/skirmish/internal/log"
)

// BuildStateView creates a StateView from the perspective of the given side.
// The opponent's hand is reduced to a count.
func BuildStateView(state *game.GameState, side game.Side) *StateView {
	return &StateView{
		MatchID:    state.ID,
		You:        playerView(state.Players[side], true),
		Opponent:   playerView(state.Players[side.Other()], false),
		Turn:       state.Turn,
		Phase:      state.Phase.String(),
		IsYourTurn: state.Phase == game.PhasePlaying && state.CurrentTurn == side,
	}
}

func playerView(p *game.Player, owner bool) PlayerView {
	pv := PlayerView{
		Name:           p.Name,
		Health:         p.Health,
		MaxHealth:      p.MaxHealth,
		Mana:           p.Mana,
		MaxMana:        p.MaxMana,
		HandCount:      p.HandCount(),
		Field:          []MinionView{},
		DeckCount:      p.DeckCount(),
		GraveyardCount: len(p.Graveyard),
		Fatigue:        p.Fatigue,
	}
	if owner {
		pv.Hand = HandViews(p.Hand)
	}
	for _, m := range p.Field {
		pv.Field = append(pv.Field, MinionView{
			ID:           m.ID,
			Name:         m.Card.Name,
			Attack:       m.Attack,
			Health:       m.Health,
			MaxHealth:    m.MaxHealth,
			Keywords:     keywordNames(m),
			CanAttack:    m.CanAttack && !m.Frozen && m.AttacksThisTurn < m.AttackLimit(),
			Frozen:       m.Frozen,
			DivineShield: m.DivineShield,
			Stealthed:    m.Stealthed,
			Silenced:     m.Silenced,
		})
	}
	return pv
}

// HandViews numbers hand cards for selection.
func HandViews(hand []*game.CardInstance) []CardView {
	views := make([]CardView, 0, len(hand))
	for i, c := range hand {
		views = append(views, CardView{
			Index:    i,
			ID:       c.ID,
			CardID:   c.Card.ID,
			Name:     c.Card.Name,
			Type:     c.Card.Type.String(),
			Cost:     c.Card.Cost,
			Attack:   c.Card.Attack,
			Health:   c.Card.Health,
			Keywords: keywordNames(c),
			Text:     c.Card.Description,
		})
	}
	return views
}

func keywordNames(ci *game.CardInstance) []string {
	if ci.Silenced {
		return nil
	}
	var out []string
	for _, kw := range ci.Card.Keywords {
		out = append(out, kw.String())
	}
	return out
}

// ActionViews numbers legal actions for selection.
func ActionViews(actions []game.Action) []ActionView {
	views := make([]ActionView, 0, len(actions))
	for i, a := range actions {
		views = append(views, ActionView{
			Index:    i,
			Type:     a.Type.String(),
			CardID:   a.CardID,
			TargetID: a.TargetID,
			Desc:     a.String(),
		})
	}
	return views
}

// NewEventView converts a history entry.
func NewEventView(ev log.GameEvent) EventView {
	return EventView{
		Seq:     ev.Seq,
		Turn:    ev.Turn,
		Player:  ev.Player,
		Type:    ev.Type.String(),
		Card:    ev.Card,
		Details: ev.Details,
	}
}

// GameOverMessage reports the final result of a match.
func GameOverMessage(state *game.GameState) ServerMessage {
	return ServerMessage{Type: "game_over", Winner: int(state.Winner), Result: state.Result}
}
