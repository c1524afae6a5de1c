package game

import (
	"github.com/peterkuimelis/skirmish/internal/log"
)

// Attack resolves combat between an attacker on the active side and an enemy
// minion or the enemy hero (HeroTarget).
func (e *Engine) Attack(attackerID, targetID int) error {
	gs := e.state
	if gs.Phase != PhasePlaying {
		return errNotPlaying
	}
	side := gs.CurrentTurn
	p := gs.Players[side]
	opp := gs.Players[side.Other()]

	attacker := p.Minion(attackerID)
	if attacker == nil {
		return errNoAttacker
	}
	if !attacker.CanAttack {
		return errSummonSick
	}
	if attacker.Frozen {
		return errFrozen
	}
	if attacker.AttacksThisTurn >= attacker.AttackLimit() {
		return errAttacked
	}

	var defender *CardInstance
	if targetID != HeroTarget {
		defender = opp.Minion(targetID)
		if defender == nil {
			return errNoTarget
		}
	}
	if taunts := opp.Taunts(); len(taunts) > 0 && !containsInstance(taunts, defender) {
		return errMustHitTaunt
	}
	if defender != nil && defender.Stealthed {
		return errStealthed
	}

	e.begin()
	e.op.InstanceID = attacker.ID
	e.op.CardID = attacker.Card.ID
	e.op.TargetID = targetID
	defenderName := "enemy hero"
	if defender != nil {
		defenderName = defender.Card.Name
	}

	atk := attacker.Attack
	if defender == nil {
		e.damageHero(side.Other(), atk, attacker, side)
	} else {
		def := defender.Attack
		e.damageMinion(defender, atk, attacker, side)
		if def > 0 {
			e.damageMinion(attacker, def, defender, side.Other())
		}
	}
	if attacker.HasKeyword(KeywordLifesteal) && atk > 0 {
		e.healHero(side, atk)
	}
	attacker.Stealthed = false
	attacker.AttacksThisTurn++
	e.reap()

	e.record(log.NewAttackEvent(gs.Turn, int(side), attacker.Card.Name, defenderName))
	e.checkGameOver()
	return nil
}

func containsInstance(list []*CardInstance, ci *CardInstance) bool {
	if ci == nil {
		return false
	}
	for _, c := range list {
		if c.ID == ci.ID {
			return true
		}
	}
	return false
}

// damageMinion applies one damage instance. Divine shield absorbs it whole;
// poisonous sources destroy whatever they hurt. Destruction happens in reap.
func (e *Engine) damageMinion(m *CardInstance, amount int, source *CardInstance, sourceSide Side) {
	if amount <= 0 {
		return
	}
	rec := log.DamageRecord{
		SourceSide: int(sourceSide),
		Target:     m.ID,
		TargetSide: int(m.Owner),
		Amount:     amount,
	}
	if source != nil {
		rec.Source = source.ID
	}
	if m.DivineShield {
		m.DivineShield = false
		rec.Absorbed = true
		e.op.Damage = append(e.op.Damage, rec)
		return
	}
	m.Health -= amount
	if source != nil && source.HasKeyword(KeywordPoisonous) && m.Health > 0 {
		m.Health = 0
	}
	e.op.Damage = append(e.op.Damage, rec)
}

// damageHero lowers a hero's health with no floor. A nil source is fatigue.
func (e *Engine) damageHero(s Side, amount int, source *CardInstance, sourceSide Side) {
	if amount <= 0 {
		return
	}
	rec := log.DamageRecord{
		SourceSide: int(sourceSide),
		TargetSide: int(s),
		Amount:     amount,
	}
	if source != nil {
		rec.Source = source.ID
	}
	e.state.Players[s].Health -= amount
	e.op.Damage = append(e.op.Damage, rec)
}

func (e *Engine) healHero(s Side, amount int) {
	p := e.state.Players[s]
	before := p.Health
	p.Health = min(p.Health+amount, p.MaxHealth)
	if p.Health > before {
		e.op.Healed += p.Health - before
	}
}

func (e *Engine) healMinion(m *CardInstance, amount int) {
	before := m.Health
	m.Health = min(m.Health+amount, m.MaxHealth)
	if m.Health > before {
		e.op.Healed += m.Health - before
	}
}

// reap moves every minion at zero health or less to its graveyard and
// resolves deathrattles, repeating until no further minion dies. The active
// side's minions go first, left to right.
func (e *Engine) reap() {
	gs := e.state
	for {
		var dead []*CardInstance
		for _, s := range [2]Side{gs.CurrentTurn, gs.CurrentTurn.Other()} {
			p := gs.Players[s]
			for _, m := range append([]*CardInstance(nil), p.Field...) {
				if m.Health > 0 {
					continue
				}
				p.RemoveFromField(m)
				p.Graveyard = append(p.Graveyard, m)
				e.op.Destroyed = append(e.op.Destroyed, log.Casualty{
					InstanceID: m.ID,
					Name:       m.Card.Name,
					Side:       int(m.Owner),
				})
				dead = append(dead, m)
			}
		}
		if len(dead) == 0 {
			return
		}
		for _, m := range dead {
			if eff := m.Deathrattle(); eff != nil {
				e.resolveEffect(eff, m.Owner, m, NoTarget)
			}
		}
	}
}
