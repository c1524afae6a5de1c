package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleCatalog = `
cards:
  - id: wisp
    name: Wisp
    cost: 0
    attack: 1
    health: 1
  - id: guard
    name: Shield Guard
    cost: 3
    attack: 2
    health: 4
    rarity: rare
    keywords: [taunt, divine_shield]
  - id: fireball
    name: Fireball
    type: spell
    cost: 4
    battlecry:
      kind: damage
      target: enemy_character
      value: 6
  - id: hatchling
    name: Hatchling
    cost: 2
    attack: 1
    health: 1
    rarity: legendary
    deathrattle:
      kind: summon
      target: none
      value: 2
      summon: wisp
`

func TestParseCatalog(t *testing.T) {
	cat, err := ParseCatalog([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if cat.Len() != 4 {
		t.Fatalf("expected 4 cards, got %d", cat.Len())
	}

	guard, ok := cat.Get("guard")
	if !ok || guard.Rarity != RarityRare || !guard.HasKeyword(KeywordDivineShield) || !guard.IsMinion() {
		t.Errorf("guard parsed wrong: %+v", guard)
	}
	fb, _ := cat.Get("fireball")
	if fb.Type != CardTypeSpell || fb.Battlecry.Kind != EffectDamage || fb.Battlecry.Target != TargetEnemyCharacter {
		t.Errorf("fireball parsed wrong: %+v", fb)
	}
	h, _ := cat.Get("hatchling")
	if h.CopyLimit() != 1 || h.Deathrattle.Summon != "wisp" {
		t.Errorf("hatchling parsed wrong: %+v", h)
	}
	if all := cat.All(); all[0].ID != "wisp" || all[3].ID != "hatchling" {
		t.Error("All should keep file order")
	}
}

func TestParseCatalogRejectsBadCards(t *testing.T) {
	cases := map[string]string{
		"keyword":  "cards:\n  - {id: a, cost: 1, health: 1, keywords: [flying]}\n",
		"cost":     "cards:\n  - {id: a, cost: 11, health: 1}\n",
		"health":   "cards:\n  - {id: a, cost: 1, health: 0}\n",
		"summon":   "cards:\n  - {id: a, cost: 1, health: 1, battlecry: {kind: summon, target: none, summon: zz}}\n",
		"selector": "cards:\n  - {id: a, cost: 1, health: 1, battlecry: {kind: damage, target: everyone}}\n",
	}
	for name, doc := range cases {
		if _, err := ParseCatalog([]byte(doc)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func testPrizes() []Prize {
	return []Prize{
		{ID: "zombie", Name: "Zombie", Category: "undead", Rarity: RarityCommon},
		{ID: "creeper", Name: "Creeper", Rarity: RarityRare},
		{ID: "enderman", Name: "Enderman", Category: "end", Rarity: RarityEpic},
		{ID: "wither", Name: "Wither", Category: "boss", Rarity: RarityLegendary},
	}
}

func TestGenerateCatalogIsDeterministic(t *testing.T) {
	a := GenerateCatalog(testPrizes())
	prizes := testPrizes()
	prizes[0], prizes[3] = prizes[3], prizes[0]
	b := GenerateCatalog(prizes)

	if a.Len() != 4 || b.Len() != 4 {
		t.Fatalf("expected one card per prize")
	}
	for _, ca := range a.All() {
		cb, ok := b.Get(ca.ID)
		if !ok {
			t.Fatalf("%s missing from second catalog", ca.ID)
		}
		if ca.Cost != cb.Cost || ca.Attack != cb.Attack || ca.Health != cb.Health {
			t.Errorf("%s differs: %d/%d/%d vs %d/%d/%d", ca.ID, ca.Cost, ca.Attack, ca.Health, cb.Cost, cb.Attack, cb.Health)
		}
	}
	if err := a.Validate(); err != nil {
		t.Errorf("generated catalog invalid: %v", err)
	}
	for _, c := range a.All() {
		if c.Cost < 1 || c.Cost > MaxCardCost || c.Attack < 1 || c.Health < 1 {
			t.Errorf("%s has out-of-range stats %d/%d/%d", c.ID, c.Cost, c.Attack, c.Health)
		}
	}
	if w, _ := a.Get("wither"); w.Battlecry == nil || w.Deathrattle == nil {
		t.Error("legendary prizes should carry effects")
	}
}

func TestCatalogCache(t *testing.T) {
	calls := 0
	prizes := testPrizes()
	cache := NewCatalogCache(func() ([]Prize, error) {
		calls++
		return prizes, nil
	})

	first, err := cache.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	second, _ := cache.Catalog()
	if first != second || calls != 1 {
		t.Errorf("expected one generation, got %d", calls)
	}

	prizes = append(prizes, Prize{ID: "ghast", Name: "Ghast", Rarity: RarityRare})
	cache.Invalidate()
	third, _ := cache.Catalog()
	if calls != 2 || third.Len() != 5 {
		t.Errorf("expected regeneration with 5 cards, got %d calls and %d cards", calls, third.Len())
	}
	if first.Len() != 4 {
		t.Error("an invalidated catalog must not change under its holders")
	}

	boom := errors.New("boom")
	failing := NewCatalogCache(func() ([]Prize, error) { return nil, boom })
	if _, err := failing.Catalog(); !errors.Is(err, boom) {
		t.Errorf("expected wrapped source error, got %v", err)
	}
}

func TestDeckFileRoundTrip(t *testing.T) {
	deck := NewDeck("Aggro", []string{"wisp", "wisp", "guard"}, testEpoch)
	if deck.ID == "" || !deck.CreatedAt.Equal(testEpoch) {
		t.Fatalf("unexpected deck %+v", deck)
	}
	data, err := EncodeDeckFile([]*Deck{deck})
	if err != nil {
		t.Fatal(err)
	}
	df, err := ParseDeckYAML(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(df.Decks) != 1 || len(df.Decks[0].Cards) != 2 || df.Decks[0].Cards[0].Count != 2 {
		t.Fatalf("unexpected deck file %+v", df)
	}
	ids := df.Decks[0].CardIDs()
	if len(ids) != 3 || ids[0] != "wisp" || ids[2] != "guard" {
		t.Errorf("unexpected ids %v", ids)
	}
}

func TestLoadPrizesFile(t *testing.T) {
	prizes, err := LoadPrizesFile("../../prizes.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(prizes) != 7 {
		t.Fatalf("expected 7 prizes, got %d", len(prizes))
	}
	cat, err := NewCatalogCache(func() ([]Prize, error) { return prizes, nil }).Catalog()
	if err != nil {
		t.Fatal(err)
	}
	if c, ok := cat.Get("golden_crown"); !ok || c.Rarity != RarityLegendary {
		t.Errorf("expected legendary golden_crown, got %+v", c)
	}

	bad := filepath.Join(t.TempDir(), "prizes.yaml")
	if err := os.WriteFile(bad, []byte("prizes:\n  - name: Nameless\n    rarity: common\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPrizesFile(bad); err == nil {
		t.Error("expected error for a prize without an id")
	}
}
