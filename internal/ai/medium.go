package ai

import (
	"sort"

	"github.com/peterkuimelis/skirmish/internal/game"
)

// lethalScore outranks every other trade.
const lethalScore = 1000

// planMedium plays the most expensive affordable cards first, then sends each
// attacker at its locally best trade.
func (p *Planner) planMedium(b Board, gs *game.GameState) []game.Action {
	side := gs.CurrentTurn
	me := gs.Players[side]
	opp := gs.Players[side.Other()]
	var out []game.Action

	playable := handCards(me, b.PlayableCards())
	sort.SliceStable(playable, func(i, j int) bool {
		return playable[i].Card.Cost > playable[j].Card.Cost
	})

	mana, field := me.Mana, len(me.Field)
	for _, c := range playable {
		if c.Card.Cost > mana {
			continue
		}
		if c.Card.IsMinion() && field >= game.MaxFieldSize {
			continue
		}
		out = append(out, playCard(side, c.ID, mediumTarget(gs, c, b.BattlecryTargets(c.ID))))
		mana -= c.Card.Cost
		if c.Card.IsMinion() {
			field++
		}
	}

	for _, id := range b.Attackers() {
		a := me.Minion(id)
		best, bestScore := 0, 0
		found := false
		for _, t := range b.AttackTargets(id) {
			s := tradeScore(a, targetMinion(opp, t), opp.Health)
			if !found || s > bestScore {
				best, bestScore, found = t, s, true
			}
		}
		if found {
			out = append(out, attack(side, id, best))
		}
	}

	return append(out, endTurn(side))
}

// mediumTarget aims damage at the sturdiest enemy minion, then the enemy hero.
// Other harmful effects take the first enemy target and helpful ones the first
// legal target. A harmful effect with only friendly targets goes untargeted.
func mediumTarget(gs *game.GameState, c *game.CardInstance, targets []int) int {
	if len(targets) == 0 {
		return game.NoTarget
	}
	opp := gs.Players[gs.CurrentTurn.Other()]
	enemy := func(t int) bool { return t == game.HeroTarget || opp.Minion(t) != nil }

	switch eff := c.Card.Battlecry; eff.Kind {
	case game.EffectDamage:
		best, bestHealth := game.NoTarget, 0
		for _, t := range targets {
			if m := opp.Minion(t); m != nil && m.Health > bestHealth {
				best, bestHealth = t, m.Health
			}
		}
		if best != game.NoTarget {
			return best
		}
		for _, t := range targets {
			if t == game.HeroTarget {
				return t
			}
		}
		return game.NoTarget
	case game.EffectDebuff, game.EffectDestroy, game.EffectFreeze, game.EffectSilence:
		for _, t := range targets {
			if enemy(t) {
				return t
			}
		}
		return game.NoTarget
	}
	return targets[0]
}

// tradeScore rates an attack. A nil defender is the enemy hero.
func tradeScore(a, d *game.CardInstance, enemyHealth int) int {
	if d == nil {
		if a.Attack >= enemyHealth {
			return lethalScore
		}
		return a.Attack
	}
	kills := a.Attack >= d.Health
	survives := d.Attack < a.Health
	stats := d.Attack + d.Health
	switch {
	case kills && survives:
		return stats + 10
	case kills:
		return stats - a.Attack
	default:
		return a.Attack
	}
}

func handCards(p *game.Player, ids []int) []*game.CardInstance {
	out := make([]*game.CardInstance, 0, len(ids))
	for _, id := range ids {
		if c := p.HandCard(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func targetMinion(opp *game.Player, id int) *game.CardInstance {
	if id == game.HeroTarget {
		return nil
	}
	return opp.Minion(id)
}
