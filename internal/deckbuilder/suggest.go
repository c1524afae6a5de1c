package deckbuilder

import (
	"fmt"
	"sort"

	"github.com/peterkuimelis/skirmish/internal/game"
)

// Suggestion is a card worth adding to a deck.
type Suggestion struct {
	Card   *game.Card `json:"card"`
	Score  float64    `json:"score"`
	Reason string     `json:"reason"`
}

// curveGapWeight is added per missing card in the suggested card's cost bucket.
const curveGapWeight = 2.0

// SuggestCards ranks up to n cards that could still be added to the deck.
// Candidates come from owned (every catalog card when owned is nil) and must
// have a copy to spare; cards filling a gap in the curve rank higher.
func SuggestCards(ids []string, owned map[string]bool, cat *game.Catalog, n int) []Suggestion {
	a := AnalyzeDeck(ids, cat)
	counts := make(map[string]int)
	for _, id := range ids {
		counts[id]++
	}

	var out []Suggestion
	for _, c := range cat.All() {
		if owned != nil && !owned[c.ID] {
			continue
		}
		if counts[c.ID] >= c.CopyLimit() {
			continue
		}
		s := Suggestion{Card: c, Score: EvaluateCard(c), Reason: "strong card"}
		bucket := costBucket(c.Cost)
		if gap := IdealCurve[bucket] - a.ManaCurve[bucket]; gap > 0 {
			s.Score += curveGapWeight * float64(gap)
			s.Reason = fmt.Sprintf("fills the %d-mana slot (%d short)", bucket, gap)
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
