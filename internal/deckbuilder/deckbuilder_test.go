package deckbuilder

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/peterkuimelis/skirmish/internal/game"
)

var stamp = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func card(id string, cost, atk, hp int, r game.Rarity) *game.Card {
	return &game.Card{ID: id, Name: id, Type: game.CardTypeMinion, Cost: cost, Attack: atk, Health: hp, Rarity: r}
}

// pool returns n distinct cards spread over costs 1-10, every fifth one legendary.
func pool(n int) []*game.Card {
	var out []*game.Card
	for i := 0; i < n; i++ {
		r := game.RarityCommon
		if i%5 == 4 {
			r = game.RarityLegendary
		}
		cost := i%10 + 1
		out = append(out, card(fmt.Sprintf("c%02d", i), cost, cost, cost+1, r))
	}
	return out
}

func countCopies(ids []string) map[string]int {
	m := make(map[string]int)
	for _, id := range ids {
		m[id]++
	}
	return m
}

func checkCaps(t *testing.T, ids []string, cat *game.Catalog) {
	t.Helper()
	for id, n := range countCopies(ids) {
		c, ok := cat.Get(id)
		if !ok {
			t.Fatalf("generated unknown card %q", id)
		}
		if n > c.CopyLimit() {
			t.Errorf("%s: %d copies, limit %d", id, n, c.CopyLimit())
		}
	}
}

func TestEvaluateCard(t *testing.T) {
	vanilla := card("v", 2, 2, 3, game.RarityCommon)
	if got, want := EvaluateCard(vanilla), 5+2.5; got != want {
		t.Fatalf("vanilla: expected %v, got %v", want, got)
	}

	rich := card("r", 2, 2, 3, game.RarityEpic)
	rich.Keywords = []game.Keyword{game.KeywordTaunt, game.KeywordWindfury}
	rich.Battlecry = &game.Effect{Kind: game.EffectDamage, Target: game.TargetEnemyHero, Value: 2}
	// 7.5 base + 4 epic + 3 taunt + 2 windfury + (2+2) battlecry
	if got, want := EvaluateCard(rich), 20.5; got != want {
		t.Fatalf("rich: expected %v, got %v", want, got)
	}

	free := card("f", 0, 1, 1, game.RarityCommon)
	if got := EvaluateCard(free); got != 4 {
		t.Fatalf("zero-cost card should divide by one, got %v", got)
	}
}

func TestGenerateBalancedDeckFullPool(t *testing.T) {
	cards := pool(40)
	cat := game.NewCatalog(cards...)
	deck := GenerateBalancedDeck(cards, "Balanced", stamp, game.NewRNG(3))

	if deck.Name != "Balanced" || deck.ID == "" {
		t.Fatalf("unexpected deck header %+v", deck)
	}
	if !deck.CreatedAt.Equal(stamp) || !deck.UpdatedAt.Equal(stamp) {
		t.Errorf("expected deck stamped %v, got %v / %v", stamp, deck.CreatedAt, deck.UpdatedAt)
	}
	if len(deck.CardIDs) != game.DeckSize {
		t.Fatalf("expected %d cards, got %d", game.DeckSize, len(deck.CardIDs))
	}
	checkCaps(t, deck.CardIDs, cat)
	for id, n := range countCopies(deck.CardIDs) {
		if n != 1 {
			t.Errorf("%s: expected a single copy from a large pool, got %d", id, n)
		}
	}
	if !AnalyzeDeck(deck.CardIDs, cat).IsValid {
		t.Error("generated deck should analyze as valid")
	}
}

func TestGenerateBalancedDeckSmallPool(t *testing.T) {
	cards := pool(10) // two legendaries
	cat := game.NewCatalog(cards...)
	deck := GenerateBalancedDeck(cards, "Small", stamp, game.NewRNG(3))

	if len(deck.CardIDs) != 18 {
		t.Fatalf("expected 8*2 + 2*1 = 18 cards, got %d", len(deck.CardIDs))
	}
	checkCaps(t, deck.CardIDs, cat)
}

func TestGenerateBalancedDeckFollowsCurve(t *testing.T) {
	var cards []*game.Card
	for cost := 1; cost <= game.MaxCardCost; cost++ {
		for i := 0; i < 6; i++ {
			cards = append(cards, card(fmt.Sprintf("c%d-%d", cost, i), cost, cost, cost, game.RarityCommon))
		}
	}
	cat := game.NewCatalog(cards...)
	deck := GenerateBalancedDeck(cards, "Curve", stamp, game.NewRNG(1))

	a := AnalyzeDeck(deck.CardIDs, cat)
	if a.ManaCurve != IdealCurve {
		t.Fatalf("expected curve %v, got %v", IdealCurve, a.ManaCurve)
	}
}

func TestGenerateBalancedDeckShuffles(t *testing.T) {
	cards := pool(40)
	a := GenerateBalancedDeck(cards, "a", stamp, game.NewRNG(1)).CardIDs
	b := GenerateBalancedDeck(cards, "b", stamp, game.NewRNG(2)).CardIDs
	if strings.Join(a, ",") == strings.Join(b, ",") {
		t.Fatal("different seeds should give different orders")
	}
	if len(countCopies(a)) != len(countCopies(b)) {
		t.Fatal("seed should not change the card selection")
	}
}

func TestAnalyzeDeck(t *testing.T) {
	cat := game.NewCatalog(
		card("a", 1, 1, 2, game.RarityCommon),
		card("b", 4, 3, 5, game.RarityRare),
		card("z", 12, 9, 9, game.RarityLegendary),
	)
	a := AnalyzeDeck([]string{"a", "a", "b", "ghost", "z"}, cat)

	if a.CardCount != 4 {
		t.Fatalf("expected 4 resolvable cards, got %d", a.CardCount)
	}
	if a.ManaCurve[1] != 2 || a.ManaCurve[4] != 1 || a.ManaCurve[10] != 1 {
		t.Errorf("unexpected curve %v", a.ManaCurve)
	}
	if a.AverageManaCost != 18.0/4 {
		t.Errorf("expected average 4.5, got %v", a.AverageManaCost)
	}
	if a.TotalAttack != 14 || a.TotalHealth != 18 {
		t.Errorf("expected 14/18 totals, got %d/%d", a.TotalAttack, a.TotalHealth)
	}
	if a.RarityCount[game.RarityCommon] != 2 || a.RarityCount[game.RarityLegendary] != 1 {
		t.Errorf("unexpected rarity counts %v", a.RarityCount)
	}
	if a.IsValid {
		t.Error("a five-card list is not a valid deck")
	}
}

func TestAnalyzeDeckValidityIgnoresContent(t *testing.T) {
	ids := make([]string, game.DeckSize)
	for i := range ids {
		ids[i] = "nothing"
	}
	a := AnalyzeDeck(ids, game.NewCatalog())
	if !a.IsValid || a.CardCount != 0 {
		t.Fatalf("expected valid with no resolvable cards, got %+v", a)
	}
}

func TestValidateDeck(t *testing.T) {
	legend := card("king", 10, 8, 8, game.RarityLegendary)
	cheap := card("cheap", 2, 2, 2, game.RarityCommon)
	cat := game.NewCatalog(legend, cheap)

	ids := []string{"king", "king", "cheap", "cheap", "cheap", "ghost"}
	owned := map[string]bool{"cheap": true}
	v := ValidateDeck(ids, owned, cat)

	if v.IsValid {
		t.Fatal("expected invalid deck")
	}
	want := []string{
		"deck has 6 cards, need exactly 30",
		"king is not in your collection",
		"king: 2 copies, at most 1 allowed",
		"cheap: 3 copies, at most 2 allowed",
		`unknown card "ghost"`,
	}
	if len(v.Errors) != len(want) {
		t.Fatalf("expected %d errors, got %q", len(want), v.Errors)
	}
	for i := range want {
		if v.Errors[i] != want[i] {
			t.Errorf("error %d: expected %q, got %q", i, want[i], v.Errors[i])
		}
	}
	if len(v.Warnings) != 2 {
		t.Errorf("expected curve and early-game warnings, got %q", v.Warnings)
	}
}

func TestValidateDeckClean(t *testing.T) {
	var cards []*game.Card
	var ids []string
	for i := 0; i < 15; i++ {
		c := card(fmt.Sprintf("c%d", i), i%5+1, 2, 2, game.RarityCommon)
		cards = append(cards, c)
		ids = append(ids, c.ID, c.ID)
	}
	v := ValidateDeck(ids, nil, game.NewCatalog(cards...))
	if !v.IsValid || len(v.Errors) != 0 || len(v.Warnings) != 0 {
		t.Fatalf("expected clean deck, got %+v", v)
	}
}

func TestSuggestCards(t *testing.T) {
	two := card("two", 2, 2, 2, game.RarityCommon)
	big := card("big", 8, 8, 8, game.RarityCommon)
	unowned := card("unowned", 3, 9, 9, game.RarityLegendary)
	cat := game.NewCatalog(two, big, unowned)

	got := SuggestCards([]string{"big", "big"}, map[string]bool{"two": true, "big": true}, cat, 5)
	if len(got) != 1 || got[0].Card.ID != "two" {
		t.Fatalf("expected only the spare owned card, got %+v", got)
	}
	if !strings.Contains(got[0].Reason, "2-mana") {
		t.Errorf("expected curve reason, got %q", got[0].Reason)
	}

	if got := SuggestCards(nil, nil, cat, 2); len(got) != 2 {
		t.Fatalf("expected 2 suggestions from the whole catalog, got %d", len(got))
	}
}

func TestSampleDecksAreLegal(t *testing.T) {
	cat, err := game.LoadCatalogFile("../../cards.yaml")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	for n := 1; n <= 2; n++ {
		name, ids, err := game.DeckByNumber("../../decks.yaml", n)
		if err != nil {
			t.Fatalf("deck %d: %v", n, err)
		}
		if v := ValidateDeck(ids, nil, cat); !v.IsValid {
			t.Errorf("%s: %v", name, v.Errors)
		}
	}
}
