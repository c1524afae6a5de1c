package ai

import "github.com/peterkuimelis/skirmish/internal/game"

const (
	easyPlayChance   = 0.5
	easyAttackChance = 0.7
)

// planEasy flips a coin per playable card and per attacker, with random
// targets throughout.
func (p *Planner) planEasy(b Board, gs *game.GameState) []game.Action {
	side := gs.CurrentTurn
	var out []game.Action

	for _, id := range b.PlayableCards() {
		if p.rng.Float64() >= easyPlayChance {
			continue
		}
		target := game.NoTarget
		if targets := b.BattlecryTargets(id); len(targets) > 0 {
			target = targets[p.rng.Intn(len(targets))]
		}
		out = append(out, playCard(side, id, target))
	}

	for _, id := range b.Attackers() {
		if p.rng.Float64() >= easyAttackChance {
			continue
		}
		targets := b.AttackTargets(id)
		if len(targets) == 0 {
			continue
		}
		out = append(out, attack(side, id, targets[p.rng.Intn(len(targets))]))
	}

	return append(out, endTurn(side))
}
