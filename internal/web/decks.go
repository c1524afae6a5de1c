package web

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/peterkuimelis/skirmish/internal/deckbuilder"
	"github.com/peterkuimelis/skirmish/internal/game"
)

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number   int                  `json:"number"`
	Name     string               `json:"name"`
	Cards    []string             `json:"cards"`
	Analysis deckbuilder.Analysis `json:"analysis"`
}

// deckRequest is the body of the analyze and validate endpoints.
type deckRequest struct {
	Cards []string `json:"cards"`
	Owned []string `json:"owned,omitempty"` // omitted = every card is owned
}

func (r deckRequest) owned() map[string]bool {
	if r.Owned == nil {
		return nil
	}
	owned := make(map[string]bool, len(r.Owned))
	for _, id := range r.Owned {
		owned[id] = true
	}
	return owned
}

// analyzeResponse bundles everything the deck editor shows.
type analyzeResponse struct {
	Analysis    deckbuilder.Analysis     `json:"analysis"`
	Validation  deckbuilder.Validation   `json:"validation"`
	Suggestions []deckbuilder.Suggestion `json:"suggestions"`
}

const suggestionCount = 5

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.opts.DecksFile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not read decks file")
		return
	}
	df, err := game.ParseDeckYAML(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not parse decks file")
		return
	}

	decks := []DeckInfo{}
	for i, d := range df.Decks {
		ids := d.CardIDs()
		di := DeckInfo{
			Number:   i + 1,
			Name:     d.Name,
			Analysis: deckbuilder.AnalyzeDeck(ids, s.opts.Catalog),
		}
		// Unique card names for display
		seen := make(map[string]bool)
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			if c, ok := s.opts.Catalog.Get(id); ok {
				di.Cards = append(di.Cards, c.Name)
			}
		}
		decks = append(decks, di)
	}
	writeJSON(w, http.StatusOK, decks)
}

func decodeDeck(w http.ResponseWriter, r *http.Request) (deckRequest, bool) {
	var req deckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return req, false
	}
	return req, true
}

func (s *Server) handleAnalyzeDeck(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDeck(w, r)
	if !ok {
		return
	}
	owned := req.owned()
	writeJSON(w, http.StatusOK, analyzeResponse{
		Analysis:    deckbuilder.AnalyzeDeck(req.Cards, s.opts.Catalog),
		Validation:  deckbuilder.ValidateDeck(req.Cards, owned, s.opts.Catalog),
		Suggestions: deckbuilder.SuggestCards(req.Cards, owned, s.opts.Catalog, suggestionCount),
	})
}

func (s *Server) handleValidateDeck(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDeck(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, deckbuilder.ValidateDeck(req.Cards, req.owned(), s.opts.Catalog))
}

// generateRequest asks for a balanced deck from a card pool.
type generateRequest struct {
	Name string   `json:"name"`
	Pool []string `json:"pool,omitempty"` // omitted = the whole catalog
	Seed int64    `json:"seed,omitempty"`
}

func (s *Server) handleGenerateDeck(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
	}

	pool := s.opts.Catalog.All()
	if req.Pool != nil {
		pool = pool[:0:0]
		for _, id := range req.Pool {
			c, ok := s.opts.Catalog.Get(id)
			if !ok {
				writeError(w, http.StatusBadRequest, "unknown card "+id)
				return
			}
			pool = append(pool, c)
		}
	}
	if req.Name == "" {
		req.Name = "Generated " + time.Now().Format("2006-01-02 15:04")
	}

	deck := deckbuilder.GenerateBalancedDeck(pool, req.Name, time.Now(), game.NewRNG(req.Seed))
	writeJSON(w, http.StatusOK, struct {
		Deck     *game.Deck           `json:"deck"`
		Analysis deckbuilder.Analysis `json:"analysis"`
	}{deck, deckbuilder.AnalyzeDeck(deck.CardIDs, s.opts.Catalog)})
}
