package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	at := func(s int) time.Time { return start.Add(time.Duration(s) * time.Second) }

	events := []GameEvent{
		{Time: at(0), Type: EventGameStart},
		{Time: at(1), Turn: 1, Player: 0, Type: EventBeginPlaying},
		{Time: at(2), Turn: 1, Player: 0, Type: EventPlayCard, Payload: Payload{
			Damage:    []DamageRecord{{Source: 5, SourceSide: 0, Target: 9, TargetSide: 1, Amount: 3}},
			Destroyed: []Casualty{{InstanceID: 9, Side: 1}},
		}},
		{Time: at(3), Turn: 1, Player: 0, Type: EventAttack, Payload: Payload{
			Damage: []DamageRecord{
				{Source: 6, SourceSide: 0, Target: 10, TargetSide: 1, Amount: 2, Absorbed: true},
				{Source: 10, SourceSide: 1, Target: 6, TargetSide: 0, Amount: 4},
			},
			Destroyed: []Casualty{{InstanceID: 6, Side: 0}},
		}},
		{Time: at(4), Turn: 1, Player: 0, Type: EventEndTurn, Payload: Payload{
			Fatigue: 1,
			Damage:  []DamageRecord{{SourceSide: NoPlayer, TargetSide: 1, Amount: 1}},
		}},
		{Time: at(5), Turn: 2, Player: 1, Type: EventAttack, Payload: Payload{
			Damage: []DamageRecord{{Source: 10, SourceSide: 1, TargetSide: 0, Amount: 5}},
		}},
		{Time: at(9), Turn: 2, Player: NoPlayer, Type: EventGameEnd, Payload: Payload{Winner: 1, Reason: "Alice conceded"}},
	}

	s := Summarize(events)
	if s.Duration != 9*time.Second {
		t.Errorf("duration: expected 9s, got %v", s.Duration)
	}
	if s.Turns != 2 {
		t.Errorf("turns: expected 2, got %d", s.Turns)
	}
	if s.Winner != 1 {
		t.Errorf("winner: expected 1, got %d", s.Winner)
	}
	if s.CardsPlayed != [2]int{1, 0} {
		t.Errorf("cards played: got %v", s.CardsPlayed)
	}
	if s.Attacks != [2]int{1, 1} {
		t.Errorf("attacks: got %v", s.Attacks)
	}
	if s.DamageDealt != [2]int{3, 9} {
		t.Errorf("damage dealt: expected [3 9], got %v", s.DamageDealt)
	}
	if s.MinionsKilled != [2]int{1, 1} {
		t.Errorf("minions killed: got %v", s.MinionsKilled)
	}
	if s.Fatigue != [2]int{0, 1} {
		t.Errorf("fatigue: got %v", s.Fatigue)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Winner != NoPlayer || s.Turns != 0 || s.Duration != 0 {
		t.Fatalf("expected zero stats, got %+v", s)
	}
}

func TestTextLoggerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)
	l.Log(NewBeginPlayingEvent(1, 0))
	l.Log(NewGameEndEvent(3, NoPlayer, "both heroes destroyed"))

	if len(l.Events()) != 2 {
		t.Fatalf("expected 2 stored events, got %d", len(l.Events()))
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "P1") || !strings.Contains(lines[0], "BEGIN_PLAYING") {
		t.Errorf("unexpected line %q", lines[0])
	}
	if !strings.Contains(lines[1], "--") {
		t.Errorf("drawn game end should have no player: %q", lines[1])
	}
	if got := len(Filter(l.Events(), EventGameEnd)); got != 1 {
		t.Errorf("expected 1 GAME_END, got %d", got)
	}
}

func TestGameEventJSONKeys(t *testing.T) {
	ev := NewGameEndEvent(4, 0, "hero destroyed")
	ev.Seq = 12
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"seq", "time", "turn", "player", "type", "payload"} {
		if _, ok := raw[k]; !ok {
			t.Errorf("missing key %q in %s", k, data)
		}
	}
	if _, ok := raw["Seq"]; ok {
		t.Errorf("unexpected Go field name in %s", data)
	}
}
