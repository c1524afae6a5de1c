package game

import "fmt"

// --- Enums ---

// enumNames backs the String/MarshalText/UnmarshalText trio shared by the
// catalog enums so YAML files and JSON views use the same lowercase names.
type enumNames []string

func (n enumNames) name(v int) string {
	if v < 0 || v >= len(n) {
		return "unknown"
	}
	return n[v]
}

func (n enumNames) parse(kind, s string) (int, error) {
	for i, name := range n {
		if name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

type Side int

const (
	SidePlayer   Side = 0
	SideOpponent Side = 1

	// NoSide marks an undecided or drawn result.
	NoSide Side = -1
)

// Other returns the opposing side.
func (s Side) Other() Side {
	return 1 - s
}

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideOpponent:
		return "opponent"
	default:
		return "none"
	}
}

type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseMulligan
	PhasePlaying
	PhaseGameOver
)

var phaseNames = enumNames{"not_started", "mulligan", "playing", "game_over"}

func (p Phase) String() string               { return phaseNames.name(int(p)) }
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

type CardType int

const (
	CardTypeMinion CardType = iota
	CardTypeSpell
)

var cardTypeNames = enumNames{"minion", "spell"}

func (ct CardType) String() string               { return cardTypeNames.name(int(ct)) }
func (ct CardType) MarshalText() ([]byte, error) { return []byte(ct.String()), nil }

func (ct *CardType) UnmarshalText(b []byte) error {
	v, err := cardTypeNames.parse("card type", string(b))
	*ct = CardType(v)
	return err
}

type Rarity int

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityNames = enumNames{"common", "rare", "epic", "legendary"}

func (r Rarity) String() string               { return rarityNames.name(int(r)) }
func (r Rarity) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Rarity) UnmarshalText(b []byte) error {
	v, err := rarityNames.parse("rarity", string(b))
	*r = Rarity(v)
	return err
}

type Keyword int

const (
	KeywordTaunt Keyword = iota
	KeywordCharge
	KeywordDivineShield
	KeywordWindfury
	KeywordStealth
	KeywordLifesteal
	KeywordPoisonous
)

var keywordNames = enumNames{"taunt", "charge", "divine_shield", "windfury", "stealth", "lifesteal", "poisonous"}

func (k Keyword) String() string               { return keywordNames.name(int(k)) }
func (k Keyword) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Keyword) UnmarshalText(b []byte) error {
	v, err := keywordNames.parse("keyword", string(b))
	*k = Keyword(v)
	return err
}

// EffectKind is the closed set of battlecry/deathrattle/spell effects.
type EffectKind int

const (
	EffectDamage EffectKind = iota
	EffectHeal
	EffectDraw
	EffectBuff
	EffectDebuff
	EffectFreeze
	EffectSilence
	EffectDestroy
	EffectSummon
	effectKindCount
)

var effectKindNames = enumNames{"damage", "heal", "draw", "buff", "debuff", "freeze", "silence", "destroy", "summon"}

func (k EffectKind) String() string               { return effectKindNames.name(int(k)) }
func (k EffectKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *EffectKind) UnmarshalText(b []byte) error {
	v, err := effectKindNames.parse("effect kind", string(b))
	*k = EffectKind(v)
	return err
}

// TargetSelector says which characters an effect lands on.
type TargetSelector int

const (
	TargetNone TargetSelector = iota // applies to the source side (draw, summon)
	TargetEnemyMinion
	TargetFriendlyMinion
	TargetAnyMinion
	TargetEnemyCharacter
	TargetAnyCharacter
	TargetEnemyHero
	TargetFriendlyHero
	TargetAllEnemyMinions
	TargetAllFriendlyMinions
	TargetAllMinions
	TargetAllEnemies
	TargetRandomEnemyMinion
	TargetRandomEnemy
	targetSelectorCount
)

var targetSelectorNames = enumNames{
	"none", "enemy_minion", "friendly_minion", "any_minion", "enemy_character", "any_character",
	"enemy_hero", "friendly_hero", "all_enemy_minions", "all_friendly_minions", "all_minions",
	"all_enemies", "random_enemy_minion", "random_enemy",
}

func (t TargetSelector) String() string               { return targetSelectorNames.name(int(t)) }
func (t TargetSelector) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TargetSelector) UnmarshalText(b []byte) error {
	v, err := targetSelectorNames.parse("target selector", string(b))
	*t = TargetSelector(v)
	return err
}

// NeedsTarget reports whether the selector resolves against an explicit,
// caller-chosen target.
func (t TargetSelector) NeedsTarget() bool {
	switch t {
	case TargetEnemyMinion, TargetFriendlyMinion, TargetAnyMinion, TargetEnemyCharacter, TargetAnyCharacter:
		return true
	}
	return false
}

// --- Card definition (static, from the catalog) ---

// Effect is a battlecry, deathrattle or spell payload.
type Effect struct {
	Kind   EffectKind     `yaml:"kind" json:"kind"`
	Target TargetSelector `yaml:"target" json:"target"`
	Value  int            `yaml:"value" json:"value"`                       // damage, heal, draw count, attack change
	Health int            `yaml:"health,omitempty" json:"health,omitempty"` // health change for buff/debuff
	Summon string         `yaml:"summon,omitempty" json:"summon,omitempty"` // card id for summon effects

	// Temporary buffs expire at the end of their controller's turn.
	Temporary bool `yaml:"temporary,omitempty" json:"temporary,omitempty"`
}

// Card is an immutable card definition shared by every match.
type Card struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Type        CardType  `yaml:"type" json:"type"`
	Cost        int       `yaml:"cost" json:"cost"`
	Attack      int       `yaml:"attack" json:"attack"`
	Health      int       `yaml:"health" json:"health"`
	Rarity      Rarity    `yaml:"rarity" json:"rarity"`
	Tribe       string    `yaml:"tribe,omitempty" json:"tribe,omitempty"`
	Keywords    []Keyword `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Battlecry   *Effect   `yaml:"battlecry,omitempty" json:"battlecry,omitempty"`
	Deathrattle *Effect   `yaml:"deathrattle,omitempty" json:"deathrattle,omitempty"`
}

func (c *Card) String() string {
	return c.Name
}

// HasKeyword reports whether the definition carries the keyword.
func (c *Card) HasKeyword(k Keyword) bool {
	for _, kw := range c.Keywords {
		if kw == k {
			return true
		}
	}
	return false
}

// CopyLimit returns how many copies of this card a deck may hold.
func (c *Card) CopyLimit() int {
	if c.Rarity == RarityLegendary {
		return 1
	}
	return 2
}

// IsMinion reports whether the card goes to the field when played.
func (c *Card) IsMinion() bool {
	return c.Type == CardTypeMinion
}

// --- Buffs ---

// Buff records a stat change applied to an instance.
type Buff struct {
	Source    int // instance id of the card that applied it
	Attack    int
	Health    int
	Permanent bool
}

// --- CardInstance (runtime copy of a card inside a match) ---

type CardInstance struct {
	Card  *Card
	ID    int // unique within a match, never 0
	Owner Side

	Attack    int
	Health    int
	MaxHealth int

	CanAttack       bool
	AttacksThisTurn int
	DivineShield    bool
	Frozen          bool
	Silenced        bool
	Stealthed       bool

	Buffs []Buff
}

func (ci *CardInstance) String() string {
	if ci == nil {
		return "(empty)"
	}
	if ci.Card.IsMinion() {
		return fmt.Sprintf("%s (%d/%d)", ci.Card.Name, ci.Attack, ci.Health)
	}
	return ci.Card.Name
}

// HasKeyword reports whether the instance still carries the keyword.
// Silenced minions lose all keywords.
func (ci *CardInstance) HasKeyword(k Keyword) bool {
	if ci.Silenced {
		return false
	}
	return ci.Card.HasKeyword(k)
}

// AttackLimit returns the number of attacks allowed per turn.
func (ci *CardInstance) AttackLimit() int {
	if ci.HasKeyword(KeywordWindfury) {
		return 2
	}
	return 1
}

// Battlecry returns the on-play effect unless the instance is silenced.
func (ci *CardInstance) Battlecry() *Effect {
	if ci.Silenced {
		return nil
	}
	return ci.Card.Battlecry
}

// Deathrattle returns the on-death effect unless the instance is silenced.
func (ci *CardInstance) Deathrattle() *Effect {
	if ci.Silenced {
		return nil
	}
	return ci.Card.Deathrattle
}

// AddBuff applies a stat change and records it.
func (ci *CardInstance) AddBuff(b Buff) {
	ci.Attack += b.Attack
	ci.Health += b.Health
	ci.MaxHealth += b.Health
	ci.Buffs = append(ci.Buffs, b)
}

// ExpireTemporaryBuffs reverts every non-permanent buff.
func (ci *CardInstance) ExpireTemporaryBuffs() {
	kept := ci.Buffs[:0]
	for _, b := range ci.Buffs {
		if b.Permanent {
			kept = append(kept, b)
			continue
		}
		ci.Attack -= b.Attack
		ci.MaxHealth -= b.Health
		if ci.Health > ci.MaxHealth {
			ci.Health = ci.MaxHealth
		}
	}
	ci.Buffs = kept
	if ci.Attack < 0 {
		ci.Attack = 0
	}
}

// Silence strips keywords, buffs and triggered effects. Damage taken stays.
func (ci *CardInstance) Silence() {
	for _, b := range ci.Buffs {
		ci.Attack -= b.Attack
		ci.MaxHealth -= b.Health
	}
	ci.Buffs = nil
	if ci.Attack < 0 {
		ci.Attack = 0
	}
	if ci.MaxHealth < 1 {
		ci.MaxHealth = 1
	}
	if ci.Health > ci.MaxHealth {
		ci.Health = ci.MaxHealth
	}
	ci.Silenced = true
	ci.DivineShield = false
	ci.Stealthed = false
	ci.Frozen = false
}

func (ci *CardInstance) clone() *CardInstance {
	c := *ci
	if ci.Buffs != nil {
		c.Buffs = append([]Buff(nil), ci.Buffs...)
	}
	return &c
}

// --- Actions ---

type ActionType int

const (
	ActionPlayCard ActionType = iota
	ActionAttack
	ActionEndTurn
)

var actionTypeNames = enumNames{"play_card", "attack", "end_turn"}

func (a ActionType) String() string               { return actionTypeNames.name(int(a)) }
func (a ActionType) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *ActionType) UnmarshalText(b []byte) error {
	v, err := actionTypeNames.parse("action type", string(b))
	*a = ActionType(v)
	return err
}

// Target ids reserved for heroes. Instance ids start at 1.
const (
	NoTarget      = 0
	HeroTarget    = -1 // the opposing hero, relative to the acting side
	OwnHeroTarget = -2 // the acting side's own hero
)

// Action is one operation a side can submit to the engine.
type Action struct {
	Type     ActionType `json:"type"`
	Side     Side       `json:"side"`
	CardID   int        `json:"card_id,omitempty"`   // hand card or attacker instance id
	TargetID int        `json:"target_id,omitempty"` // NoTarget, HeroTarget, OwnHeroTarget or an instance id
	Desc     string     `json:"desc,omitempty"`
}

func (a Action) String() string {
	if a.Desc != "" {
		return a.Desc
	}
	return a.Type.String()
}

// Same reports whether two actions describe the same operation, ignoring Desc.
func (a Action) Same(b Action) bool {
	return a.Type == b.Type && a.Side == b.Side && a.CardID == b.CardID && a.TargetID == b.TargetID
}
