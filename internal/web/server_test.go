package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/peterkuimelis/skirmish/internal/deckbuilder"
	"github.com/peterkuimelis/skirmish/internal/game"
	skirmishnet "github.com/peterkuimelis/skirmish/internal/net"
	"github.com/peterkuimelis/skirmish/internal/store"
)

const decksYAML = `decks:
  - name: Footmen
    cards:
      - id: footman
        count: 30
  - name: Mixed
    cards:
      - id: footman
        count: 2
      - id: knight
        count: 2
`

func testCatalog() *game.Catalog {
	return game.NewCatalog(
		&game.Card{ID: "footman", Name: "Footman", Type: game.CardTypeMinion, Cost: 1, Attack: 1, Health: 2},
		&game.Card{ID: "knight", Name: "Knight", Type: game.CardTypeMinion, Cost: 4, Attack: 4, Health: 5,
			Rarity: game.RarityRare, Keywords: []game.Keyword{game.KeywordTaunt}},
		&game.Card{ID: "bolt", Name: "Bolt", Type: game.CardTypeSpell, Cost: 2,
			Battlecry: &game.Effect{Kind: game.EffectDamage, Target: game.TargetEnemyCharacter, Value: 3}},
	)
}

func newTestServer(t *testing.T, st *store.Store) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "decks.yaml")
	if err := os.WriteFile(path, []byte(decksYAML), 0o644); err != nil {
		t.Fatalf("write decks: %v", err)
	}
	s := NewServer(Options{Catalog: testCatalog(), DecksFile: path, Store: st, Difficulty: "easy", Seed: 11})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, wantStatus int, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: expected %d, got %d", url, wantStatus, resp.StatusCode)
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

func postJSON(t *testing.T, url string, body any, wantStatus int, v any) {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s: expected %d, got %d", url, wantStatus, resp.StatusCode)
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

func TestIndexAndCards(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("expected the index page, got %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	getJSON(t, srv.URL+"/nope", http.StatusNotFound, nil)

	var cards []CardInfo
	getJSON(t, srv.URL+"/api/cards", http.StatusOK, &cards)
	if len(cards) != 3 || cards[1].Name != "Knight" || cards[1].Rarity != "rare" || cards[1].Keywords[0] != "taunt" {
		t.Fatalf("unexpected cards %+v", cards)
	}
	if cards[2].Type != "spell" || cards[1].Score <= cards[0].Score {
		t.Errorf("expected spell type and scored cards, got %+v", cards)
	}
}

func TestDecksEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	var decks []DeckInfo
	getJSON(t, srv.URL+"/api/decks", http.StatusOK, &decks)
	if len(decks) != 2 || decks[1].Number != 2 || len(decks[1].Cards) != 2 {
		t.Fatalf("unexpected decks %+v", decks)
	}
	if !decks[0].Analysis.IsValid || decks[1].Analysis.IsValid {
		t.Errorf("only the 30-card deck should count as valid")
	}

	var analyzed analyzeResponse
	postJSON(t, srv.URL+"/api/decks/analyze", deckRequest{Cards: []string{"footman", "knight", "knight", "knight"}},
		http.StatusOK, &analyzed)
	if analyzed.Analysis.CardCount != 4 || analyzed.Validation.IsValid {
		t.Fatalf("unexpected analysis %+v", analyzed)
	}
	if len(analyzed.Suggestions) == 0 {
		t.Error("expected suggestions for a short deck")
	}

	var v deckbuilder.Validation
	postJSON(t, srv.URL+"/api/decks/validate", deckRequest{Cards: []string{"bolt"}, Owned: []string{"footman"}},
		http.StatusOK, &v)
	var notOwned bool
	for _, e := range v.Errors {
		if strings.Contains(e, "not in your collection") {
			notOwned = true
		}
	}
	if v.IsValid || !notOwned {
		t.Fatalf("expected an ownership error, got %+v", v)
	}

	resp, err := http.Post(srv.URL+"/api/decks/validate", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body: expected 400, got %d", resp.StatusCode)
	}
}

func TestGenerateDeck(t *testing.T) {
	srv := newTestServer(t, nil)

	var got struct {
		Deck     game.Deck            `json:"deck"`
		Analysis deckbuilder.Analysis `json:"analysis"`
	}
	postJSON(t, srv.URL+"/api/decks/generate", generateRequest{Name: "Auto", Seed: 5}, http.StatusOK, &got)
	if got.Deck.Name != "Auto" || got.Deck.ID == "" {
		t.Fatalf("unexpected deck %+v", got.Deck)
	}
	// three cards at two copies each is all the pool allows
	if len(got.Deck.CardIDs) != 6 || got.Analysis.CardCount != 6 {
		t.Fatalf("expected 6 cards, got %d", len(got.Deck.CardIDs))
	}

	postJSON(t, srv.URL+"/api/decks/generate", generateRequest{Pool: []string{"ghost"}}, http.StatusBadRequest, nil)
}

func TestMatchesDisabledWithoutStore(t *testing.T) {
	srv := newTestServer(t, nil)
	getJSON(t, srv.URL+"/api/matches", http.StatusServiceUnavailable, nil)
}

func TestPlayOverWebSocket(t *testing.T) {
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	srv := newTestServer(t, st)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	if err := wsjson.Write(ctx, conn, startMessage{Type: "start", DeckNumber: 1, AIDeck: 1, Name: "Web"}); err != nil {
		t.Fatalf("write start: %v", err)
	}

	var sawAction bool
	var result string
	for result == "" {
		var msg skirmishnet.ServerMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		switch msg.Type {
		case "choose_mulligan":
			_ = wsjson.Write(ctx, conn, skirmishnet.ClientMessage{Type: "mulligan"})
		case "choose_action":
			sawAction = true
			_ = wsjson.Write(ctx, conn, skirmishnet.ClientMessage{Type: "concede"})
		case "game_over", "error":
			result = msg.Result
		}
	}
	if !sawAction || result != "Web conceded" {
		t.Fatalf("expected a concession after an action prompt, got %q", result)
	}

	var matches []store.MatchRecord
	getJSON(t, srv.URL+"/api/matches", http.StatusOK, &matches)
	if len(matches) != 1 || matches[0].Opponent != "easy" || matches[0].Winner != int(game.SideOpponent) {
		t.Fatalf("expected the match in history, got %+v", matches)
	}

	var rec store.MatchRecord
	getJSON(t, srv.URL+"/api/matches/"+matches[0].ID, http.StatusOK, &rec)
	if len(rec.History) == 0 {
		t.Error("expected the match history to be stored")
	}
	getJSON(t, srv.URL+"/api/matches/unknown", http.StatusNotFound, nil)
	getJSON(t, srv.URL+"/api/matches?limit=0", http.StatusBadRequest, nil)
}

func TestWebSocketRejectsUnknownDeck(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	_ = wsjson.Write(ctx, conn, startMessage{Type: "start", DeckNumber: 7})
	var msg skirmishnet.ServerMessage
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "error" || !strings.Contains(msg.Result, "deck 7 not found") {
		t.Fatalf("unexpected message %+v", msg)
	}
}
