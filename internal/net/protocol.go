package net

// Message types for the JSON protocol over TCP. The same views are served
// over the websocket endpoint and returned by the MCP tools.

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_action" and "choose_mulligan"
	Actions []ActionView `json:"actions,omitempty"`
	State   *StateView   `json:"state,omitempty"`

	// For "choose_mulligan": the hand, any subset may be replaced
	Candidates []CardView `json:"candidates,omitempty"`

	// For "game_over" (winner -1 is a draw) and "error"
	Winner int    `json:"winner"`
	Result string `json:"result,omitempty"`
}

// EventView is a simplified history entry for the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index    int    `json:"index"`
	Type     string `json:"type"`
	CardID   int    `json:"card_id,omitempty"`
	TargetID int    `json:"target_id,omitempty"`
	Desc     string `json:"desc"`
}

// CardView describes a card in hand.
type CardView struct {
	Index    int      `json:"index"`
	ID       int      `json:"id"`
	CardID   string   `json:"card_id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Cost     int      `json:"cost"`
	Attack   int      `json:"attack,omitempty"`
	Health   int      `json:"health,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Text     string   `json:"text,omitempty"`
}

// MinionView describes a minion on the field.
type MinionView struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Attack       int      `json:"attack"`
	Health       int      `json:"health"`
	MaxHealth    int      `json:"max_health"`
	Keywords     []string `json:"keywords,omitempty"`
	CanAttack    bool     `json:"can_attack,omitempty"`
	Frozen       bool     `json:"frozen,omitempty"`
	DivineShield bool     `json:"divine_shield,omitempty"`
	Stealthed    bool     `json:"stealthed,omitempty"`
	Silenced     bool     `json:"silenced,omitempty"`
}

// StateView is the game state from one player's perspective.
type StateView struct {
	MatchID    string     `json:"match_id"`
	You        PlayerView `json:"you"`
	Opponent   PlayerView `json:"opponent"`
	Turn       int        `json:"turn"`
	Phase      string     `json:"phase"`
	IsYourTurn bool       `json:"is_your_turn"`
}

// PlayerView shows one side of the board.
type PlayerView struct {
	Name           string       `json:"name"`
	Health         int          `json:"health"`
	MaxHealth      int          `json:"max_health"`
	Mana           int          `json:"mana"`
	MaxMana        int          `json:"max_mana"`
	HandCount      int          `json:"hand_count"`
	Hand           []CardView   `json:"hand,omitempty"` // only for "you"
	Field          []MinionView `json:"field"`
	DeckCount      int          `json:"deck_count"`
	GraveyardCount int          `json:"graveyard_count"`
	Fatigue        int          `json:"fatigue,omitempty"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"` // "join", "action", "mulligan" or "concede"

	// For "action"
	Index int `json:"index,omitempty"`

	// For "mulligan": candidate indices to replace
	Indices []int `json:"indices,omitempty"`

	// For "join" (initial handshake)
	DeckNumber int    `json:"deck_number,omitempty"`
	Name       string `json:"name,omitempty"`
}
