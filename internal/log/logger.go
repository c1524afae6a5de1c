package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	return Filter(l.events, t)
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// Filter returns the events of the given type, in order.
func Filter(events []GameEvent, t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// playerName returns "P1" or "P2" for display.
func playerName(p int) string {
	if p == NoPlayer {
		return "--"
	}
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	return fmt.Sprintf("T%-2d %-2s %-13s| %s", e.Turn, playerName(e.Player), e.Type, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewGameStartEvent(first int, nameA, nameB string, handA, handB int) GameEvent {
	return GameEvent{
		Player:  first,
		Type:    EventGameStart,
		Details: fmt.Sprintf("%s vs %s, %s goes first (hands %d/%d)", nameA, nameB, playerName(first), handA, handB),
	}
}

func NewMulliganEvent(player int, replaced int) GameEvent {
	return GameEvent{
		Player:  player,
		Type:    EventMulligan,
		Details: fmt.Sprintf("%s replaces %d card(s)", playerName(player), replaced),
		Payload: Payload{Replaced: replaced},
	}
}

func NewBeginPlayingEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventBeginPlaying,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, playerName(player)),
	}
}

func NewPlayCardEvent(turn int, player int, cardName string, cost int, target string) GameEvent {
	details := fmt.Sprintf("%s plays %s (%d mana)", playerName(player), cardName, cost)
	if target != "" {
		details += " targeting " + target
	}
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventPlayCard,
		Card:    cardName,
		Details: details,
	}
}

func NewAttackEvent(turn int, player int, attacker string, defender string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventAttack,
		Card:    attacker,
		Details: fmt.Sprintf("%s attacks: %s → %s", playerName(player), attacker, defender),
	}
}

func NewEndTurnEvent(turn int, player int, next int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventEndTurn,
		Details: fmt.Sprintf("%s ends turn; %s to act", playerName(player), playerName(next)),
	}
}

func NewGameEndEvent(turn int, winner int, reason string) GameEvent {
	details := fmt.Sprintf("%s wins! (%s)", playerName(winner), reason)
	if winner == NoPlayer {
		details = fmt.Sprintf("Draw (%s)", reason)
	}
	return GameEvent{
		Turn:    turn,
		Player:  winner,
		Type:    EventGameEnd,
		Details: details,
		Payload: Payload{Winner: winner, Reason: reason},
	}
}
