package game

import (
	"fmt"
	stdlog "log"
)

// character is an effect target: a minion, or a hero when minion is nil.
type character struct {
	minion *CardInstance
	hero   Side
}

// resolveEffect applies a battlecry, deathrattle or spell effect for side.
// Invalid explicit targets make the effect fizzle. Dead minions are left for
// the caller to reap.
func (e *Engine) resolveEffect(eff *Effect, side Side, source *CardInstance, targetID int) error {
	targets, err := e.selectTargets(eff.Target, side, source, targetID)
	if err != nil {
		return err
	}

	switch eff.Kind {
	case EffectDamage:
		for _, t := range targets {
			if t.minion != nil {
				e.damageMinion(t.minion, eff.Value, source, side)
			} else {
				e.damageHero(t.hero, eff.Value, source, side)
			}
		}
	case EffectHeal:
		for _, t := range targets {
			if t.minion != nil {
				e.healMinion(t.minion, eff.Value)
			} else {
				e.healHero(t.hero, eff.Value)
			}
		}
	case EffectDraw:
		drawer := side
		if eff.Target == TargetEnemyHero {
			drawer = side.Other()
		}
		e.draw(drawer, eff.Value)
	case EffectBuff:
		for _, t := range targets {
			if t.minion != nil {
				t.minion.AddBuff(Buff{
					Source:    sourceID(source),
					Attack:    eff.Value,
					Health:    eff.Health,
					Permanent: !eff.Temporary,
				})
			}
		}
	case EffectDebuff:
		for _, t := range targets {
			if t.minion == nil {
				continue
			}
			// attack never drops below zero; the record keeps the applied amount
			t.minion.AddBuff(Buff{
				Source:    sourceID(source),
				Attack:    -min(eff.Value, t.minion.Attack),
				Health:    -eff.Health,
				Permanent: !eff.Temporary,
			})
		}
	case EffectFreeze:
		for _, t := range targets {
			if t.minion != nil {
				t.minion.Frozen = true
			}
		}
	case EffectSilence:
		for _, t := range targets {
			if t.minion != nil {
				t.minion.Silence()
			}
		}
	case EffectDestroy:
		for _, t := range targets {
			if t.minion != nil {
				t.minion.Health = 0
			}
		}
	case EffectSummon:
		card, ok := e.catalog.Get(eff.Summon)
		if !ok {
			return fmt.Errorf("summon: unknown card %q", eff.Summon)
		}
		for i := 0; i < max(eff.Value, 1); i++ {
			if !e.summon(card, side) {
				break
			}
		}
	default:
		return fmt.Errorf("unknown effect kind %d", eff.Kind)
	}
	return nil
}

// resolveLogged resolves an effect and reports failures as warnings; a bad
// effect definition must not abort an operation that has already mutated state.
func (e *Engine) resolveLogged(eff *Effect, side Side, source *CardInstance, targetID int) {
	if err := e.resolveEffect(eff, side, source, targetID); err != nil {
		stdlog.Printf("warning: %s: %v", source.Card.ID, err)
	}
}

func sourceID(ci *CardInstance) int {
	if ci == nil {
		return 0
	}
	return ci.ID
}

// selectTargets expands a selector into concrete characters. Area selectors
// never include the source itself.
func (e *Engine) selectTargets(sel TargetSelector, side Side, source *CardInstance, targetID int) ([]character, error) {
	gs := e.state
	own := gs.Players[side]
	opp := gs.Players[side.Other()]

	if sel.NeedsTarget() {
		if !containsID(e.explicitTargets(sel, side), targetID) {
			return nil, nil
		}
		switch targetID {
		case HeroTarget:
			return []character{{hero: side.Other()}}, nil
		case OwnHeroTarget:
			return []character{{hero: side}}, nil
		}
		m, _ := gs.FindMinion(targetID)
		return []character{{minion: m}}, nil
	}

	switch sel {
	case TargetNone:
		return nil, nil
	case TargetEnemyHero:
		return []character{{hero: side.Other()}}, nil
	case TargetFriendlyHero:
		return []character{{hero: side}}, nil
	case TargetAllEnemyMinions:
		return minionsExcept(opp.Field, source), nil
	case TargetAllFriendlyMinions:
		return minionsExcept(own.Field, source), nil
	case TargetAllMinions:
		return append(minionsExcept(own.Field, source), minionsExcept(opp.Field, source)...), nil
	case TargetAllEnemies:
		return append(minionsExcept(opp.Field, source), character{hero: side.Other()}), nil
	case TargetRandomEnemyMinion:
		if len(opp.Field) == 0 {
			return nil, nil
		}
		return []character{{minion: opp.Field[e.rng.Intn(len(opp.Field))]}}, nil
	case TargetRandomEnemy:
		pool := append(minionsExcept(opp.Field, source), character{hero: side.Other()})
		return []character{pool[e.rng.Intn(len(pool))]}, nil
	default:
		return nil, fmt.Errorf("unknown target selector %d", sel)
	}
}

func minionsExcept(field []*CardInstance, skip *CardInstance) []character {
	var out []character
	for _, m := range field {
		if skip != nil && m.ID == skip.ID {
			continue
		}
		out = append(out, character{minion: m})
	}
	return out
}

// explicitTargets lists the target ids a caller may pick for a selector that
// needs one. Stealthed enemy minions cannot be picked.
func (e *Engine) explicitTargets(sel TargetSelector, side Side) []int {
	own := e.state.Players[side]
	opp := e.state.Players[side.Other()]

	var ids []int
	enemies := func() {
		for _, m := range opp.Field {
			if !m.Stealthed {
				ids = append(ids, m.ID)
			}
		}
	}
	friends := func() {
		for _, m := range own.Field {
			ids = append(ids, m.ID)
		}
	}

	switch sel {
	case TargetEnemyMinion:
		enemies()
	case TargetFriendlyMinion:
		friends()
	case TargetAnyMinion:
		friends()
		enemies()
	case TargetEnemyCharacter:
		enemies()
		ids = append(ids, HeroTarget)
	case TargetAnyCharacter:
		friends()
		enemies()
		ids = append(ids, HeroTarget, OwnHeroTarget)
	}
	return ids
}

func containsID(ids []int, id int) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
