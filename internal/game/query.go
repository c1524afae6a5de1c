package game

import "fmt"

// State returns a deep copy of the match. Mutating it does not affect the engine.
func (e *Engine) State() *GameState {
	return e.state.Clone()
}

// Phase returns the current phase without copying state.
func (e *Engine) Phase() Phase {
	return e.state.Phase
}

// CurrentTurn returns the side on turn without copying state.
func (e *Engine) CurrentTurn() Side {
	return e.state.CurrentTurn
}

// PlayableCards returns hand card ids the active side can afford and place.
func (e *Engine) PlayableCards() []int {
	gs := e.state
	if gs.Phase != PhasePlaying {
		return nil
	}
	p := gs.CurrentPlayer()
	var ids []int
	for _, c := range p.Hand {
		if c.Card.Cost > p.Mana {
			continue
		}
		if c.Card.IsMinion() && p.FieldFull() {
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids
}

// Attackers returns the active side's minions that may still attack this turn.
func (e *Engine) Attackers() []int {
	gs := e.state
	if gs.Phase != PhasePlaying {
		return nil
	}
	var ids []int
	for _, m := range gs.CurrentPlayer().Field {
		if canAttackNow(m) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func canAttackNow(m *CardInstance) bool {
	return m.CanAttack && !m.Frozen && m.AttacksThisTurn < m.AttackLimit()
}

// AttackTargets returns the legal targets for an attacker, HeroTarget
// included. Empty when the attacker itself cannot attack.
func (e *Engine) AttackTargets(attackerID int) []int {
	gs := e.state
	if gs.Phase != PhasePlaying {
		return nil
	}
	attacker := gs.CurrentPlayer().Minion(attackerID)
	if attacker == nil || !canAttackNow(attacker) {
		return nil
	}

	opp := gs.OpponentPlayer()
	var ids []int
	if taunts := opp.Taunts(); len(taunts) > 0 {
		for _, m := range taunts {
			ids = append(ids, m.ID)
		}
		return ids
	}
	for _, m := range opp.Field {
		if !m.Stealthed {
			ids = append(ids, m.ID)
		}
	}
	return append(ids, HeroTarget)
}

// BattlecryTargets returns the ids a hand card's on-play effect may target.
// Empty for effects that pick their own targets.
func (e *Engine) BattlecryTargets(instanceID int) []int {
	gs := e.state
	if gs.Phase != PhasePlaying {
		return nil
	}
	card := gs.CurrentPlayer().HandCard(instanceID)
	if card == nil || card.Card.Battlecry == nil || !card.Card.Battlecry.Target.NeedsTarget() {
		return nil
	}
	return e.explicitTargets(card.Card.Battlecry.Target, gs.CurrentTurn)
}

// LegalActions enumerates every operation the active side may submit now.
// A targeted card with no legal target may still be played without one.
func (e *Engine) LegalActions() []Action {
	gs := e.state
	if gs.Phase != PhasePlaying {
		return nil
	}
	side := gs.CurrentTurn
	p := gs.CurrentPlayer()
	var actions []Action

	for _, id := range e.PlayableCards() {
		card := p.HandCard(id)
		targets := e.BattlecryTargets(id)
		if len(targets) == 0 {
			actions = append(actions, Action{
				Type:   ActionPlayCard,
				Side:   side,
				CardID: id,
				Desc:   fmt.Sprintf("Play %s (%d mana)", card.Card.Name, card.Card.Cost),
			})
			continue
		}
		for _, t := range targets {
			actions = append(actions, Action{
				Type:     ActionPlayCard,
				Side:     side,
				CardID:   id,
				TargetID: t,
				Desc:     fmt.Sprintf("Play %s (%d mana) → %s", card.Card.Name, card.Card.Cost, e.targetName(side, t)),
			})
		}
	}

	for _, id := range e.Attackers() {
		m := p.Minion(id)
		for _, t := range e.AttackTargets(id) {
			actions = append(actions, Action{
				Type:     ActionAttack,
				Side:     side,
				CardID:   id,
				TargetID: t,
				Desc:     fmt.Sprintf("Attack with %s → %s", m, e.targetName(side, t)),
			})
		}
	}

	return append(actions, Action{Type: ActionEndTurn, Side: side, Desc: "End turn"})
}

// Apply submits an action through the matching operation.
func (e *Engine) Apply(a Action) error {
	if e.state.Phase == PhasePlaying && a.Side != e.state.CurrentTurn {
		return reject(ErrRuleViolation, "not your turn")
	}
	switch a.Type {
	case ActionPlayCard:
		return e.PlayCard(a.CardID, a.TargetID)
	case ActionAttack:
		return e.Attack(a.CardID, a.TargetID)
	case ActionEndTurn:
		return e.EndTurn()
	default:
		return reject(ErrRuleViolation, fmt.Sprintf("unknown action %d", a.Type))
	}
}
