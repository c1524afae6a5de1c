package game

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Deck is a persisted list of card definition ids. It may hold an invalid
// card count while being edited; validation happens elsewhere.
type Deck struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CardIDs   []string  `json:"card_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDeck creates a deck with a fresh id.
func NewDeck(name string, cardIDs []string, now time.Time) *Deck {
	return &Deck{
		ID:        uuid.NewString(),
		Name:      name,
		CardIDs:   cardIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry represents a card and its count in a deck.
type CardEntry struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// CardIDs expands the entry counts into an ordered id list.
func (d DeckEntry) CardIDs() []string {
	var ids []string
	for _, entry := range d.Cards {
		for i := 0; i < entry.Count; i++ {
			ids = append(ids, entry.ID)
		}
	}
	return ids
}

// ParseDeckYAML parses deck file contents.
func ParseDeckYAML(data []byte) (DeckFile, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return df, fmt.Errorf("parse deck YAML: %w", err)
	}
	return df, nil
}

// ParseDeckFile parses a YAML deck file and returns a map of deck name → card ids.
func ParseDeckFile(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	df, err := ParseDeckYAML(data)
	if err != nil {
		return nil, err
	}

	decks := make(map[string][]string)
	for _, deck := range df.Decks {
		decks[deck.Name] = deck.CardIDs()
	}
	return decks, nil
}

// DeckByNumber returns the Nth deck (1-indexed) from the deck file.
func DeckByNumber(path string, n int) (string, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	df, err := ParseDeckYAML(data)
	if err != nil {
		return "", nil, err
	}

	if n < 1 || n > len(df.Decks) {
		return "", nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}

	deck := df.Decks[n-1]
	return deck.Name, deck.CardIDs(), nil
}

// EncodeDeckFile renders decks back into the YAML file format, grouping
// repeated ids into counts in first-seen order.
func EncodeDeckFile(decks []*Deck) ([]byte, error) {
	var df DeckFile
	for _, d := range decks {
		entry := DeckEntry{Name: d.Name}
		index := make(map[string]int)
		for _, id := range d.CardIDs {
			if i, ok := index[id]; ok {
				entry.Cards[i].Count++
				continue
			}
			index[id] = len(entry.Cards)
			entry.Cards = append(entry.Cards, CardEntry{ID: id, Count: 1})
		}
		df.Decks = append(df.Decks, entry)
	}
	return yaml.Marshal(df)
}
