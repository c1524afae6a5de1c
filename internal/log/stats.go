package log

import "time"

// MatchStats are derived from a match history after the fact.
type MatchStats struct {
	Duration      time.Duration `json:"duration"`
	Turns         int           `json:"turns"`
	Winner        int           `json:"winner"`
	CardsPlayed   [2]int        `json:"cards_played"`
	Attacks       [2]int        `json:"attacks"`
	DamageDealt   [2]int        `json:"damage_dealt"`
	MinionsKilled [2]int        `json:"minions_killed"`
	Fatigue       [2]int        `json:"fatigue"`
}

// Summarize computes statistics from an action history. Damage is credited to
// the side that controlled the source and kills to the side opposite the
// casualty. Sourceless damage is fatigue.
func Summarize(events []GameEvent) MatchStats {
	s := MatchStats{Winner: NoPlayer}
	if len(events) == 0 {
		return s
	}
	s.Duration = events[len(events)-1].Time.Sub(events[0].Time)

	for _, e := range events {
		if e.Turn > s.Turns {
			s.Turns = e.Turn
		}
		switch e.Type {
		case EventPlayCard:
			if validSide(e.Player) {
				s.CardsPlayed[e.Player]++
			}
		case EventAttack:
			if validSide(e.Player) {
				s.Attacks[e.Player]++
			}
		case EventGameEnd:
			s.Winner = e.Payload.Winner
		}

		for _, d := range e.Payload.Damage {
			switch {
			case d.Absorbed:
			case d.Source == 0 && validSide(d.TargetSide):
				s.Fatigue[d.TargetSide] += d.Amount
			case validSide(d.SourceSide):
				s.DamageDealt[d.SourceSide] += d.Amount
			}
		}
		for _, c := range e.Payload.Destroyed {
			if validSide(c.Side) {
				s.MinionsKilled[1-c.Side]++
			}
		}
	}
	return s
}

func validSide(p int) bool {
	return p == 0 || p == 1
}
