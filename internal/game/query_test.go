package game

import "testing"

func TestPlayableCards(t *testing.T) {
	ogre := minion("ogre", 6, 6, 7)
	zap := spell("zap", 1, &Effect{Kind: EffectDamage, Target: TargetEnemyHero, Value: 1})
	te := newBattleEngine(t, ogre, zap)
	p := te.player(SidePlayer)
	p.Hand = nil

	cheap := te.give(SidePlayer, filler)
	te.give(SidePlayer, ogre)
	z := te.give(SidePlayer, zap)

	got := te.PlayableCards()
	if len(got) != 2 || got[0] != cheap.ID || got[1] != z.ID {
		t.Errorf("expected [%d %d], got %v", cheap.ID, z.ID, got)
	}

	for i := 0; i < MaxFieldSize; i++ {
		te.place(SidePlayer, filler)
	}
	got = te.PlayableCards()
	if len(got) != 1 || got[0] != z.ID {
		t.Errorf("with a full board only the spell is playable, got %v", got)
	}
}

func TestAttackersAndTargets(t *testing.T) {
	te := newBattleEngine(t)
	ready := te.place(SidePlayer, filler)
	sick := te.place(SidePlayer, filler)
	sick.CanAttack = false
	spent := te.place(SidePlayer, filler)
	spent.AttacksThisTurn = 1

	got := te.Attackers()
	if len(got) != 1 || got[0] != ready.ID {
		t.Fatalf("expected only %d, got %v", ready.ID, got)
	}
	if len(te.AttackTargets(sick.ID)) != 0 {
		t.Error("ineligible attacker should have no targets")
	}

	visible := te.place(SideOpponent, filler)
	te.place(SideOpponent, minion("ghost", 1, 1, 1, KeywordStealth))
	targets := te.AttackTargets(ready.ID)
	if len(targets) != 2 || targets[0] != visible.ID || targets[1] != HeroTarget {
		t.Errorf("expected [%d hero], got %v", visible.ID, targets)
	}
}

func TestLegalActions(t *testing.T) {
	bolt := spell("bolt", 1, &Effect{Kind: EffectDamage, Target: TargetEnemyCharacter, Value: 1})
	te := newBattleEngine(t, bolt)
	p := te.player(SidePlayer)
	p.Hand = nil
	card := te.give(SidePlayer, bolt)
	a := te.place(SidePlayer, filler)
	enemy := te.place(SideOpponent, filler)

	actions := te.LegalActions()
	// bolt → enemy, bolt → hero, attack → enemy, attack → hero, end turn
	if len(actions) != 5 {
		t.Fatalf("expected 5 actions, got %d: %v", len(actions), actions)
	}
	if actions[len(actions)-1].Type != ActionEndTurn {
		t.Error("end turn should come last")
	}
	for _, act := range actions {
		if act.Side != SidePlayer {
			t.Errorf("%s: wrong side", act)
		}
		if act.Desc == "" {
			t.Errorf("%s: missing description", act.Type)
		}
	}
	if !actions[0].Same(Action{Type: ActionPlayCard, Side: SidePlayer, CardID: card.ID, TargetID: enemy.ID}) {
		t.Errorf("unexpected first action %+v", actions[0])
	}
	if !actions[3].Same(Action{Type: ActionAttack, Side: SidePlayer, CardID: a.ID, TargetID: HeroTarget}) {
		t.Errorf("unexpected fourth action %+v", actions[3])
	}
}

func TestApply(t *testing.T) {
	te := newBattleEngine(t)
	a := te.place(SidePlayer, filler)

	err := te.Apply(Action{Type: ActionAttack, Side: SideOpponent, CardID: a.ID, TargetID: HeroTarget})
	expectReason(t, err, ErrRuleViolation, "not your turn")

	if err := te.Apply(Action{Type: ActionAttack, Side: SidePlayer, CardID: a.ID, TargetID: HeroTarget}); err != nil {
		t.Fatalf("Apply attack: %v", err)
	}
	if err := te.Apply(Action{Type: ActionEndTurn, Side: SidePlayer}); err != nil {
		t.Fatalf("Apply end turn: %v", err)
	}
	if te.CurrentTurn() != SideOpponent {
		t.Error("expected the opponent on turn")
	}
}
