package ai

import (
	"sort"

	"github.com/peterkuimelis/skirmish/internal/game"
)

// planHard goes for lethal when the board and hand can reach it; otherwise it
// spends mana on the best-scoring plays and makes value trades.
func (p *Planner) planHard(b Board, gs *game.GameState) []game.Action {
	side := gs.CurrentTurn
	if plan := lethalPlan(b, gs); plan != nil {
		return append(plan, endTurn(side))
	}
	out := hardPlays(b, gs)
	out = append(out, hardAttacks(b, gs)...)
	return append(out, endTurn(side))
}

// --- lethal ---

// lethalPlan returns the charge plays and face attacks that finish the enemy
// hero this turn, or nil when the reachable damage falls short. A taunt on
// the enemy board blocks all face damage.
func lethalPlan(b Board, gs *game.GameState) []game.Action {
	side := gs.CurrentTurn
	me := gs.Players[side]
	opp := gs.Players[side.Other()]
	if len(opp.Taunts()) > 0 {
		return nil
	}

	type swing struct {
		id    int
		times int
	}
	var swings []swing
	damage := 0
	for _, id := range b.Attackers() {
		m := me.Minion(id)
		n := m.AttackLimit() - m.AttacksThisTurn
		damage += m.Attack * n
		swings = append(swings, swing{id, n})
	}

	var charges []*game.CardInstance
	for _, c := range handCards(me, b.PlayableCards()) {
		if c.Card.IsMinion() && c.Card.HasKeyword(game.KeywordCharge) {
			charges = append(charges, c)
		}
	}
	sort.SliceStable(charges, func(i, j int) bool { return charges[i].Card.Attack > charges[j].Card.Attack })

	var plays []game.Action
	mana, field := me.Mana, len(me.Field)
	for _, c := range charges {
		if c.Card.Cost > mana || field >= game.MaxFieldSize {
			continue
		}
		mana -= c.Card.Cost
		field++
		n := 1
		if c.Card.HasKeyword(game.KeywordWindfury) {
			n = 2
		}
		damage += c.Card.Attack * n
		plays = append(plays, playCard(side, c.ID, faceTarget(b.BattlecryTargets(c.ID))))
		swings = append(swings, swing{c.ID, n})
	}

	if damage < opp.Health {
		return nil
	}
	for _, s := range swings {
		for i := 0; i < s.times; i++ {
			plays = append(plays, attack(side, s.id, game.HeroTarget))
		}
	}
	return plays
}

// faceTarget prefers the enemy hero for a battlecry during a lethal turn.
func faceTarget(targets []int) int {
	for _, t := range targets {
		if t == game.HeroTarget {
			return t
		}
	}
	return game.NoTarget
}

// --- card plays ---

type candidate struct {
	card   *game.CardInstance
	target int
	score  float64
}

func hardPlays(b Board, gs *game.GameState) []game.Action {
	side := gs.CurrentTurn
	me := gs.Players[side]
	opp := gs.Players[side.Other()]

	var cands []candidate
	for _, c := range handCards(me, b.PlayableCards()) {
		cand := candidate{card: c, target: game.NoTarget, score: cardValue(c.Card, me, opp)}
		if eff := c.Card.Battlecry; eff != nil {
			if targets := b.BattlecryTargets(c.ID); len(targets) > 0 {
				best := 0.0
				for i, t := range targets {
					if v := effectValue(eff, gs, side, t); i == 0 || v > best {
						cand.target, best = t, v
					}
				}
				// every target hurts us: play it untargeted and let it fizzle
				if best < 0 {
					cand.target, best = game.NoTarget, 0
				}
				cand.score += best
			} else if !eff.Target.NeedsTarget() {
				cand.score += effectValue(eff, gs, side, game.NoTarget)
			}
		}
		cands = append(cands, cand)
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })

	var out []game.Action
	mana, field := me.Mana, len(me.Field)
	for _, c := range cands {
		if c.score <= 0 || c.card.Card.Cost > mana {
			continue
		}
		if c.card.Card.IsMinion() {
			if field >= game.MaxFieldSize {
				continue
			}
			field++
		}
		mana -= c.card.Card.Cost
		out = append(out, playCard(side, c.card.ID, c.target))
	}
	return out
}

// cardValue scores a minion body: stat efficiency plus keyword bonuses that
// depend on the situation. Spells are worth only their effect.
func cardValue(c *game.Card, me, opp *game.Player) float64 {
	if !c.IsMinion() {
		return 0
	}
	atk := float64(c.Attack)
	stats := float64(c.Attack + c.Health)
	v := stats/float64(max(c.Cost, 1)) + stats*0.5

	for _, kw := range c.Keywords {
		switch kw {
		case game.KeywordTaunt:
			v += 2
			if me.Health < 15 {
				v += 4
			}
		case game.KeywordDivineShield:
			v += 3
		case game.KeywordCharge:
			v += atk * 0.5
			if opp.Health <= 10 {
				v += atk
			}
		case game.KeywordWindfury:
			v += atk
		case game.KeywordLifesteal:
			v += 2
			if me.Health < 20 {
				v += 3
			}
		case game.KeywordPoisonous:
			v += 3
		case game.KeywordStealth:
			v += 1.5
		}
	}
	return v
}

// hit is one character an effect would land on.
type hit struct {
	minion *game.CardInstance
	side   game.Side
}

// affected approximates the characters an effect hits. Random selectors
// return the whole pool with a weight of one over its size.
func affected(sel game.TargetSelector, gs *game.GameState, side game.Side, targetID int) ([]hit, float64) {
	me := gs.Players[side]
	opp := gs.Players[side.Other()]
	minions := func(p *game.Player, s game.Side) []hit {
		var out []hit
		for _, m := range p.Field {
			out = append(out, hit{minion: m, side: s})
		}
		return out
	}

	if sel.NeedsTarget() {
		switch targetID {
		case game.NoTarget:
			return nil, 1
		case game.HeroTarget:
			return []hit{{side: side.Other()}}, 1
		case game.OwnHeroTarget:
			return []hit{{side: side}}, 1
		}
		if m, s := gs.FindMinion(targetID); m != nil {
			return []hit{{minion: m, side: s}}, 1
		}
		return nil, 1
	}

	switch sel {
	case game.TargetEnemyHero:
		return []hit{{side: side.Other()}}, 1
	case game.TargetFriendlyHero:
		return []hit{{side: side}}, 1
	case game.TargetAllEnemyMinions:
		return minions(opp, side.Other()), 1
	case game.TargetAllFriendlyMinions:
		return minions(me, side), 1
	case game.TargetAllMinions:
		return append(minions(me, side), minions(opp, side.Other())...), 1
	case game.TargetAllEnemies:
		return append(minions(opp, side.Other()), hit{side: side.Other()}), 1
	case game.TargetRandomEnemyMinion:
		pool := minions(opp, side.Other())
		if len(pool) == 0 {
			return nil, 1
		}
		return pool, 1 / float64(len(pool))
	case game.TargetRandomEnemy:
		pool := append(minions(opp, side.Other()), hit{side: side.Other()})
		return pool, 1 / float64(len(pool))
	}
	return nil, 1
}

// effectValue scores an effect for side against a chosen target. Harm to
// friendly characters and help to enemy ones count negative.
func effectValue(eff *game.Effect, gs *game.GameState, side game.Side, targetID int) float64 {
	switch eff.Kind {
	case game.EffectDraw:
		if eff.Target == game.TargetEnemyHero {
			return -2 * float64(eff.Value)
		}
		return 2 * float64(eff.Value)
	case game.EffectSummon:
		return 3 * float64(max(eff.Value, 1))
	}

	hits, weight := affected(eff.Target, gs, side, targetID)
	enemyHealth := gs.Players[side.Other()].Health
	var v float64
	for _, h := range hits {
		sign := 1.0
		if h.side == side {
			sign = -1
		}
		v += sign * harm(eff, h, gs, enemyHealth)
	}
	return v * weight
}

// harm is how much an effect hurts the character it lands on. Beneficial
// effects return negative harm.
func harm(eff *game.Effect, h hit, gs *game.GameState, enemyHealth int) float64 {
	m := h.minion
	val := float64(eff.Value)
	switch eff.Kind {
	case game.EffectDamage:
		if m == nil {
			if eff.Value >= enemyHealth && h.side != gs.CurrentTurn {
				return lethalScore
			}
			return val * 0.8
		}
		if m.DivineShield {
			return 1
		}
		if eff.Value >= m.Health {
			return minionValue(m) + 3
		}
		return val
	case game.EffectHeal:
		if m == nil {
			p := gs.Players[h.side]
			return -0.4 * float64(min(eff.Value, p.MaxHealth-p.Health))
		}
		return -0.5 * float64(min(eff.Value, m.MaxHealth-m.Health))
	case game.EffectBuff:
		if m == nil {
			return 0
		}
		if eff.Temporary {
			return -val
		}
		return -1.5 * float64(eff.Value+eff.Health)
	case game.EffectDebuff:
		if m == nil {
			return 0
		}
		return 1.2 * float64(min(eff.Value, m.Attack)+eff.Health)
	case game.EffectFreeze:
		// the frozen side thaws at its next begin-turn, so only minions of
		// the side on turn lose an attack
		if m == nil || h.side != gs.CurrentTurn {
			return 0
		}
		return float64(m.Attack)*0.5 + 0.5
	case game.EffectSilence:
		if m == nil || m.Silenced {
			return 0
		}
		v := 2 * float64(len(m.Card.Keywords))
		for _, b := range m.Buffs {
			v += float64(b.Attack + b.Health)
		}
		if m.Card.Deathrattle != nil {
			v += 2
		}
		return v
	case game.EffectDestroy:
		if m == nil {
			return 0
		}
		return minionValue(m)
	}
	return 0
}

// minionValue is the board worth of a minion with its keywords folded in.
func minionValue(m *game.CardInstance) float64 {
	atk := float64(m.Attack)
	v := atk + float64(m.Health)
	if m.DivineShield {
		v += atk
	}
	if m.HasKeyword(game.KeywordTaunt) {
		v += 2
	}
	if m.HasKeyword(game.KeywordPoisonous) {
		v += 3
	}
	if m.HasKeyword(game.KeywordWindfury) {
		v += atk
	}
	if m.HasKeyword(game.KeywordLifesteal) {
		v += 1.5
	}
	if m.Stealthed {
		v++
	}
	return v
}

// --- attacks ---

// hardAttacks assigns every swing greedily, tracking planned kills and face
// damage so later attackers do not waste swings on dead minions. Any taunt
// among the legal targets must be hit first.
func hardAttacks(b Board, gs *game.GameState) []game.Action {
	side := gs.CurrentTurn
	me := gs.Players[side]
	opp := gs.Players[side.Other()]
	enemyHealth := opp.Health
	dead := make(map[int]bool)
	var out []game.Action

	for _, id := range b.Attackers() {
		a := me.Minion(id)
		if a.Attack <= 0 {
			continue
		}
		legal := b.AttackTargets(id)
		for n := a.AttackLimit() - a.AttacksThisTurn; n > 0; n-- {
			var live, taunts []int
			for _, t := range legal {
				if dead[t] {
					continue
				}
				live = append(live, t)
				if d := opp.Minion(t); d != nil && d.HasKeyword(game.KeywordTaunt) && !d.Stealthed {
					taunts = append(taunts, t)
				}
			}
			if len(taunts) > 0 {
				live = taunts
			}
			if len(live) == 0 {
				break
			}

			best, bestScore := live[0], 0.0
			for i, t := range live {
				if s := hardTradeScore(a, targetMinion(opp, t), enemyHealth); i == 0 || s > bestScore {
					best, bestScore = t, s
				}
			}
			if bestScore < 0 && len(taunts) == 0 {
				break
			}
			out = append(out, attack(side, id, best))

			d := targetMinion(opp, best)
			if d == nil {
				enemyHealth -= a.Attack
				continue
			}
			if killsMinion(a, d) {
				dead[best] = true
			}
			if killsMinion(d, a) {
				break
			}
		}
	}
	return out
}

// killsMinion reports whether one swing from a destroys d outright.
func killsMinion(a, d *game.CardInstance) bool {
	if a.Attack <= 0 || d.DivineShield {
		return false
	}
	return a.Attack >= d.Health || a.HasKeyword(game.KeywordPoisonous)
}

// hardTradeScore mirrors tradeScore with shields, poison and keyword values
// taken into account. A nil defender is the enemy hero.
func hardTradeScore(a, d *game.CardInstance, enemyHealth int) float64 {
	if d == nil {
		if a.Attack >= enemyHealth {
			return lethalScore
		}
		return float64(a.Attack)
	}
	kills := killsMinion(a, d)
	dies := killsMinion(d, a)
	switch {
	case kills && !dies:
		return minionValue(d) + 10
	case kills:
		return minionValue(d) - minionValue(a)
	case dies:
		return -minionValue(a)
	case d.DivineShield:
		return float64(d.Attack)*0.5 + 2
	default:
		return float64(a.Attack) * 0.5
	}
}
