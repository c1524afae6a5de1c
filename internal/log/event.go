package log

import "time"

// EventType enumerates the state-changing operations recorded in a match history.
type EventType int

const (
	EventGameStart EventType = iota
	EventMulligan
	EventBeginPlaying
	EventPlayCard
	EventAttack
	EventEndTurn
	EventGameEnd
)

func (e EventType) String() string {
	switch e {
	case EventGameStart:
		return "GAME_START"
	case EventMulligan:
		return "MULLIGAN"
	case EventBeginPlaying:
		return "BEGIN_PLAYING"
	case EventPlayCard:
		return "PLAY_CARD"
	case EventAttack:
		return "ATTACK"
	case EventEndTurn:
		return "END_TURN"
	case EventGameEnd:
		return "GAME_END"
	default:
		return "UNKNOWN"
	}
}

// NoPlayer marks events without an acting side, such as a drawn game end.
const NoPlayer = -1

// DamageRecord is one damage application resolved during an operation.
type DamageRecord struct {
	Source     int  `json:"source"`      // instance id of the dealing card, 0 for fatigue
	SourceSide int  `json:"source_side"` // side that controlled the source
	Target     int  `json:"target"`      // instance id, or 0 for a hero
	TargetSide int  `json:"target_side"`
	Amount     int  `json:"amount"`
	Absorbed   bool `json:"absorbed,omitempty"` // nullified by divine shield
}

// Casualty is a minion destroyed during an operation.
type Casualty struct {
	InstanceID int    `json:"instance_id"`
	Name       string `json:"name"`
	Side       int    `json:"side"`
}

// Payload carries the action-specific data of an event.
type Payload struct {
	CardID     string `json:"card_id,omitempty"`
	InstanceID int    `json:"instance_id,omitempty"`
	TargetID   int    `json:"target_id,omitempty"`
	ManaSpent  int    `json:"mana_spent,omitempty"`

	Damage    []DamageRecord `json:"damage,omitempty"`
	Healed    int            `json:"healed,omitempty"`
	Destroyed []Casualty     `json:"destroyed,omitempty"`

	Drawn    int      `json:"drawn,omitempty"`
	Burned   []string `json:"burned,omitempty"`  // card ids discarded by a full hand
	Fatigue  int      `json:"fatigue,omitempty"` // draws attempted against an empty deck
	Replaced int      `json:"replaced,omitempty"`

	Winner int    `json:"winner,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// GameEvent is one entry of a match's append-only history.
type GameEvent struct {
	Seq     int       `json:"seq"`    // monotonic sequence number within the match
	Time    time.Time `json:"time"`   // when the operation completed
	Turn    int       `json:"turn"`   // turn number (0 before play begins)
	Player  int       `json:"player"` // acting side (0 or 1), NoPlayer if none
	Type    EventType `json:"type"`
	Card    string    `json:"card,omitempty"`    // card name (if applicable)
	Details string    `json:"details,omitempty"` // human-readable detail string
	Payload Payload   `json:"payload"`
}
