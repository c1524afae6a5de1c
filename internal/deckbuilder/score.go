// Package deckbuilder scores cards, builds curve-balanced decks and checks
// deck lists against a catalog and a player's collection.
package deckbuilder

import "github.com/peterkuimelis/skirmish/internal/game"

// rarityBonus is indexed by game.Rarity.
var rarityBonus = [...]float64{0, 2, 4, 6}

// EvaluateCard rates a card definition by stats, mana efficiency, rarity,
// keywords and effects. Higher is better.
func EvaluateCard(c *game.Card) float64 {
	stats := float64(c.Attack + c.Health)
	score := stats + stats/float64(max(c.Cost, 1))
	if int(c.Rarity) >= 0 && int(c.Rarity) < len(rarityBonus) {
		score += rarityBonus[c.Rarity]
	}

	atk := float64(c.Attack)
	for _, kw := range c.Keywords {
		switch kw {
		case game.KeywordTaunt:
			score += 3
		case game.KeywordDivineShield:
			score += 4
		case game.KeywordLifesteal:
			score += 3
		case game.KeywordPoisonous:
			score += 4
		case game.KeywordStealth:
			score += 2
		case game.KeywordWindfury:
			score += atk
		case game.KeywordCharge:
			score += atk * 0.5
		}
	}

	for _, eff := range []*game.Effect{c.Battlecry, c.Deathrattle} {
		if eff != nil {
			score += 2 + float64(eff.Value)
		}
	}
	return score
}
