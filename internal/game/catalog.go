package game

import (
	"fmt"
	"hash/fnv"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	MaxCardCost = 10
	DeckSize    = 30
)

// Catalog maps card ids to their definitions. It is built once and treated as
// read-only by every engine, planner and deck tool that receives it.
type Catalog struct {
	cards map[string]*Card
	order []string
}

// NewCatalog builds a catalog from definitions. Later duplicates replace
// earlier ones.
func NewCatalog(cards ...*Card) *Catalog {
	c := &Catalog{cards: make(map[string]*Card, len(cards))}
	for _, card := range cards {
		if _, exists := c.cards[card.ID]; !exists {
			c.order = append(c.order, card.ID)
		}
		c.cards[card.ID] = card
	}
	return c
}

// Get looks up a definition by id.
func (c *Catalog) Get(id string) (*Card, bool) {
	if c == nil {
		return nil, false
	}
	card, ok := c.cards[id]
	return card, ok
}

// All returns every definition in insertion order.
func (c *Catalog) All() []*Card {
	if c == nil {
		return nil
	}
	out := make([]*Card, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.cards[id])
	}
	return out
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.cards)
}

// Validate checks every definition for values the engine cannot resolve.
func (c *Catalog) Validate() error {
	for _, card := range c.All() {
		if card.ID == "" {
			return fmt.Errorf("card %q has no id", card.Name)
		}
		if card.Cost < 0 || card.Cost > MaxCardCost {
			return fmt.Errorf("card %s: cost %d out of range 0-%d", card.ID, card.Cost, MaxCardCost)
		}
		if card.IsMinion() && card.Health < 1 {
			return fmt.Errorf("card %s: minion needs at least 1 health", card.ID)
		}
		for _, eff := range []*Effect{card.Battlecry, card.Deathrattle} {
			if eff == nil {
				continue
			}
			if eff.Kind < 0 || eff.Kind >= effectKindCount {
				return fmt.Errorf("card %s: unknown effect kind %d", card.ID, eff.Kind)
			}
			if eff.Target < 0 || eff.Target >= targetSelectorCount {
				return fmt.Errorf("card %s: unknown target selector %d", card.ID, eff.Target)
			}
			if eff.Kind == EffectSummon {
				if _, ok := c.cards[eff.Summon]; !ok {
					return fmt.Errorf("card %s: summons unknown card %q", card.ID, eff.Summon)
				}
			}
		}
	}
	return nil
}

// catalogFile is the top-level YAML structure of a catalog file.
type catalogFile struct {
	Cards []*Card `yaml:"cards"`
}

// LoadCatalogFile reads and validates a YAML catalog.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// ParseCatalog parses catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	cat := NewCatalog(cf.Cards...)
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	return cat, nil
}

// --- Prize-driven catalog generation ---

// Prize is a collectible record from the reward layer. Each prize becomes
// exactly one card definition.
type Prize struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category,omitempty" json:"category,omitempty"`
	Rarity   Rarity `yaml:"rarity" json:"rarity"`
}

type prizeFile struct {
	Prizes []Prize `yaml:"prizes"`
}

// LoadPrizesFile reads prize records from a YAML file with a top-level
// "prizes" list.
func LoadPrizesFile(path string) ([]Prize, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf prizeFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse prizes YAML: %w", err)
	}
	for i, p := range pf.Prizes {
		if p.ID == "" {
			return nil, fmt.Errorf("prize %d: missing id", i+1)
		}
	}
	return pf.Prizes, nil
}

// rarityBudget is the extra stat points a rarity tier grants on top of cost.
var rarityBudget = [...]int{0, 1, 2, 4}

// GenerateCatalog derives card definitions from prize records. The result
// depends only on the prize fields, so the same prizes always produce the same
// catalog.
func GenerateCatalog(prizes []Prize) *Catalog {
	sorted := append([]Prize(nil), prizes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	cards := make([]*Card, 0, len(sorted))
	for _, p := range sorted {
		cards = append(cards, cardFromPrize(p))
	}
	return NewCatalog(cards...)
}

func cardFromPrize(p Prize) *Card {
	h := fnv.New64a()
	h.Write([]byte(p.ID))
	seed := h.Sum64()

	// pull successive small numbers out of the hash
	next := func(n uint64) int {
		v := int(seed % n)
		seed /= n
		return v
	}

	cost := 1 + next(8) + int(p.Rarity)
	if cost > MaxCardCost {
		cost = MaxCardCost
	}
	budget := cost*2 + 1 + rarityBudget[p.Rarity]
	attack := 1 + next(uint64(budget-1))
	if attack >= budget {
		attack = budget - 1
	}
	health := budget - attack

	card := &Card{
		ID:          p.ID,
		Name:        p.Name,
		Description: fmt.Sprintf("A %s %s.", p.Rarity, categoryOrDefault(p.Category)),
		Type:        CardTypeMinion,
		Cost:        cost,
		Attack:      attack,
		Health:      health,
		Rarity:      p.Rarity,
		Tribe:       p.Category,
	}

	// one keyword for rare and above, picked from the hash
	if p.Rarity >= RarityRare {
		card.Keywords = []Keyword{Keyword(next(uint64(len(keywordNames))))}
	}

	switch p.Rarity {
	case RarityEpic:
		card.Battlecry = &Effect{Kind: EffectDamage, Target: TargetEnemyCharacter, Value: 1 + next(3)}
	case RarityLegendary:
		card.Battlecry = &Effect{Kind: EffectBuff, Target: TargetAllFriendlyMinions, Value: 1, Health: 1}
		card.Deathrattle = &Effect{Kind: EffectDraw, Target: TargetNone, Value: 1}
	}
	return card
}

func categoryOrDefault(c string) string {
	if c == "" {
		return "creature"
	}
	return c
}

// CatalogCache memoizes a generated catalog for one owner. Callers invalidate
// it explicitly when the prize source changes; there is no process-wide copy.
type CatalogCache struct {
	source func() ([]Prize, error)

	mu      sync.Mutex
	catalog *Catalog
}

// NewCatalogCache returns a cache that generates from source on first use.
func NewCatalogCache(source func() ([]Prize, error)) *CatalogCache {
	return &CatalogCache{source: source}
}

// Catalog returns the cached catalog, generating it when needed.
func (c *CatalogCache) Catalog() (*Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.catalog != nil {
		return c.catalog, nil
	}
	prizes, err := c.source()
	if err != nil {
		return nil, fmt.Errorf("load prizes: %w", err)
	}
	c.catalog = GenerateCatalog(prizes)
	return c.catalog, nil
}

// Invalidate drops the cached catalog. Engines already holding the old
// catalog keep using it.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	c.catalog = nil
	c.mu.Unlock()
}
