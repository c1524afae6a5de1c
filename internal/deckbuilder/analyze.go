package deckbuilder

import (
	"fmt"

	"github.com/peterkuimelis/skirmish/internal/game"
)

// Analysis aggregates the resolvable cards of a deck list.
type Analysis struct {
	CardCount       int                       `json:"card_count"`
	ManaCurve       [game.MaxCardCost + 1]int `json:"mana_curve"`
	AverageManaCost float64                   `json:"average_mana_cost"`
	RarityCount     map[game.Rarity]int       `json:"rarity_count"`
	TotalAttack     int                       `json:"total_attack"`
	TotalHealth     int                       `json:"total_health"`
	TotalScore      float64                   `json:"total_score"`
	IsValid         bool                      `json:"is_valid"`
}

// AnalyzeDeck summarizes a deck list. Ids missing from the catalog are left
// out of every aggregate. IsValid depends only on the list length.
func AnalyzeDeck(ids []string, cat *game.Catalog) Analysis {
	a := Analysis{RarityCount: make(map[game.Rarity]int)}
	totalCost := 0
	for _, id := range ids {
		c, ok := cat.Get(id)
		if !ok {
			continue
		}
		a.CardCount++
		a.ManaCurve[costBucket(c.Cost)]++
		a.RarityCount[c.Rarity]++
		a.TotalAttack += c.Attack
		a.TotalHealth += c.Health
		a.TotalScore += EvaluateCard(c)
		totalCost += c.Cost
	}
	if a.CardCount > 0 {
		a.AverageManaCost = float64(totalCost) / float64(a.CardCount)
	}
	a.IsValid = len(ids) == game.DeckSize
	return a
}

// Validation is the outcome of ValidateDeck. Errors make a deck unplayable;
// warnings are advice.
type Validation struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

const (
	minAverageCost = 2.5
	maxAverageCost = 5
	minEarlyGame   = 8 // cards costing 1-3
)

// ValidateDeck checks a deck list for size, ownership and copy limits, and
// warns about a lopsided curve. A nil owned set skips the ownership check.
func ValidateDeck(ids []string, owned map[string]bool, cat *game.Catalog) Validation {
	v := Validation{Errors: []string{}, Warnings: []string{}}
	if len(ids) != game.DeckSize {
		v.Errors = append(v.Errors, fmt.Sprintf("deck has %d cards, need exactly %d", len(ids), game.DeckSize))
	}

	counts := make(map[string]int)
	var order []string
	for _, id := range ids {
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}

	for _, id := range order {
		c, ok := cat.Get(id)
		if !ok {
			v.Errors = append(v.Errors, fmt.Sprintf("unknown card %q", id))
			continue
		}
		if owned != nil && !owned[id] {
			v.Errors = append(v.Errors, fmt.Sprintf("%s is not in your collection", c.Name))
		}
		if limit := c.CopyLimit(); counts[id] > limit {
			v.Errors = append(v.Errors, fmt.Sprintf("%s: %d copies, at most %d allowed", c.Name, counts[id], limit))
		}
	}

	a := AnalyzeDeck(ids, cat)
	if a.CardCount > 0 && (a.AverageManaCost < minAverageCost || a.AverageManaCost > maxAverageCost) {
		v.Warnings = append(v.Warnings, fmt.Sprintf("average mana cost %.1f is outside %.1f-%.1f", a.AverageManaCost, minAverageCost, float64(maxAverageCost)))
	}
	if early := a.ManaCurve[1] + a.ManaCurve[2] + a.ManaCurve[3]; early < minEarlyGame {
		v.Warnings = append(v.Warnings, fmt.Sprintf("only %d cards cost 1-3 mana, consider at least %d", early, minEarlyGame))
	}

	v.IsValid = len(v.Errors) == 0
	return v
}
