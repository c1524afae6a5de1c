package game

import (
	"github.com/peterkuimelis/skirmish/internal/log"
)

// PlayCard plays a card from the active side's hand. Minions enter the field
// and resolve their battlecry; spells resolve and go to the graveyard.
// targetID feeds effects that need an explicit target and is ignored otherwise.
func (e *Engine) PlayCard(instanceID, targetID int) error {
	gs := e.state
	if gs.Phase != PhasePlaying {
		return errNotPlaying
	}
	side := gs.CurrentTurn
	p := gs.Players[side]

	card := p.HandCard(instanceID)
	if card == nil {
		return errCardNotInHand
	}
	cost := card.Card.Cost
	if cost > p.Mana {
		return errNotEnoughMana
	}
	if card.Card.IsMinion() && p.FieldFull() {
		return errBoardFull
	}

	e.begin()
	e.op.CardID = card.Card.ID
	e.op.InstanceID = card.ID
	e.op.TargetID = targetID
	e.op.ManaSpent = cost
	targetName := e.targetName(side, targetID)

	p.RemoveFromHand(card)
	p.Mana -= cost

	if card.Card.IsMinion() {
		card.CanAttack = card.Card.HasKeyword(KeywordCharge)
		card.AttacksThisTurn = 0
		p.Field = append(p.Field, card)
		if eff := card.Battlecry(); eff != nil {
			e.resolveLogged(eff, side, card, targetID)
		}
	} else {
		if eff := card.Card.Battlecry; eff != nil {
			e.resolveLogged(eff, side, card, targetID)
		}
		p.Graveyard = append(p.Graveyard, card)
	}
	e.reap()

	e.record(log.NewPlayCardEvent(gs.Turn, int(side), card.Card.Name, cost, targetName))
	e.checkGameOver()
	return nil
}

// summon puts a fresh instance of card on side's field. Reports false when
// the field is full.
func (e *Engine) summon(card *Card, side Side) bool {
	p := e.state.Players[side]
	if p.FieldFull() {
		return false
	}
	m := e.state.CreateCardInstance(card, side)
	m.CanAttack = card.HasKeyword(KeywordCharge)
	p.Field = append(p.Field, m)
	return true
}

// targetName describes a target id for history details, empty for none.
func (e *Engine) targetName(side Side, targetID int) string {
	switch targetID {
	case NoTarget:
		return ""
	case HeroTarget:
		return e.state.Players[side.Other()].Name + "'s hero"
	case OwnHeroTarget:
		return e.state.Players[side].Name + "'s hero"
	}
	if m, _ := e.state.FindMinion(targetID); m != nil {
		return m.Card.Name
	}
	return ""
}
