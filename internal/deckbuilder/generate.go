package deckbuilder

import (
	"math/rand"
	"sort"
	"time"

	"github.com/peterkuimelis/skirmish/internal/game"
)

// IdealCurve is the target number of cards per mana cost, 0 through 10.
var IdealCurve = [game.MaxCardCost + 1]int{0, 2, 4, 5, 5, 4, 3, 3, 2, 1, 1}

// costBucket clamps a cost onto the curve.
func costBucket(cost int) int {
	return min(max(cost, 0), game.MaxCardCost)
}

type scored struct {
	card  *game.Card
	score float64
}

// rank dedupes the pool by id and sorts it best first. Ties keep pool order.
func rank(pool []*game.Card) []scored {
	seen := make(map[string]bool, len(pool))
	out := make([]scored, 0, len(pool))
	for _, c := range pool {
		if c == nil || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, scored{c, EvaluateCard(c)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

// GenerateBalancedDeck builds a deck from pool shaped after IdealCurve. It
// fills each cost bucket with its best cards, tops up with the best unused
// cards overall, then adds second copies. A small pool yields a short deck.
// The result is shuffled with rng (nil = time-seeded) and stamped with now.
func GenerateBalancedDeck(pool []*game.Card, name string, now time.Time, rng *rand.Rand) *game.Deck {
	if rng == nil {
		rng = game.NewRNG(0)
	}
	ranked := rank(pool)
	copies := make(map[string]int)
	var ids []string
	add := func(c *game.Card) {
		ids = append(ids, c.ID)
		copies[c.ID]++
	}

	for bucket, want := range IdealCurve {
		n := 0
		for _, s := range ranked {
			if n >= want || len(ids) >= game.DeckSize {
				break
			}
			if costBucket(s.card.Cost) == bucket && copies[s.card.ID] == 0 {
				add(s.card)
				n++
			}
		}
	}

	for _, s := range ranked {
		if len(ids) >= game.DeckSize {
			break
		}
		if copies[s.card.ID] == 0 {
			add(s.card)
		}
	}

	for len(ids) < game.DeckSize {
		added := false
		for _, s := range ranked {
			if len(ids) >= game.DeckSize {
				break
			}
			if copies[s.card.ID] < s.card.CopyLimit() {
				add(s.card)
				added = true
			}
		}
		if !added {
			break
		}
	}

	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return game.NewDeck(name, ids, now)
}
