// Package types defines the shared data structures for the game-master engine.
// This package contains only type definitions, no logic and no methods.
package types

// GameMode distinguishes exploration from combat.
type GameMode string

const (
	ModeExploration GameMode = "exploration"
	ModeEncounter   GameMode = "encounter"
)

// SessionResult is the terminal result of a whole session.
type SessionResult string

const (
	SessionInProgress SessionResult = "IN_PROGRESS"
	SessionComplete   SessionResult = "GAME_COMPLETE"
	SessionGameOver   SessionResult = "GAME_OVER"
	SessionAbandoned  SessionResult = "ABANDONED"
)

// EncounterResult is the terminal result of a single encounter.
type EncounterResult string

const (
	EncounterVictory EncounterResult = "victory"
	EncounterDefeat  EncounterResult = "defeat"
)

// ActionType enumerates the closed set of structured commands the engine accepts.
type ActionType string

const (
	ActionMove      ActionType = "move"
	ActionAttack    ActionType = "attack"
	ActionCastSpell ActionType = "cast_spell"
	ActionRest      ActionType = "rest"
	ActionEndTurn   ActionType = "end_turn"
	ActionExplore   ActionType = "explore"
)

// RestKind selects between the two rest formulas.
type RestKind string

const (
	RestShort RestKind = "short"
	RestLong  RestKind = "long"
)

// Action is one structured command, built by an intake collaborator and
// consumed exactly once by the validate→resolve pipeline. Target is a room ID
// for move, an entity ID for attack/cast_spell, and empty for self-targeted,
// AoE, or no-target actions. Only the fields relevant to Type are set.
type Action struct {
	Actor    string
	Type     ActionType
	Target   string
	AttackID string
	SpellID  string
	Rest     RestKind
}

// SpellCategory dispatches spell resolution.
type SpellCategory string

const (
	SpellDamage  SpellCategory = "damage"
	SpellHeal    SpellCategory = "heal"
	SpellStatus  SpellCategory = "status"
	SpellCleanse SpellCategory = "cleanse"
)

// TargetRule describes who a spell may be aimed at. The plural rules are AoE:
// they resolve against every matching living entity and take no target ID.
type TargetRule string

const (
	TargetSelf    TargetRule = "self"
	TargetEnemy   TargetRule = "enemy"
	TargetAlly    TargetRule = "ally"
	TargetEnemies TargetRule = "enemies"
	TargetAllies  TargetRule = "allies"
)

// StatusSpec is a status-effect payload carried by an attack or spell definition.
type StatusSpec struct {
	Type      string `json:"type"`
	Duration  int    `json:"duration"`
	Magnitude int    `json:"magnitude"`
}

// GameDef holds session metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
	Dungeon string // starting dungeon ID
}

// DungeonDef is a static dungeon: an undirected room graph with one entry
// and one exit.
type DungeonDef struct {
	ID        string
	Name      string
	EntryRoom string
	ExitRoom  string
}

// RoomDef is static room reference data, immutable after load.
type RoomDef struct {
	ID          string
	Dungeon     string
	Description string
	Connections []string // symmetric: if A lists B, B lists A
	Encounter   string   // encounter ID, empty if none
	RestAllowed bool
	Exit        bool
}

// EncounterDef is a combat roster tied to a room.
type EncounterDef struct {
	ID      string
	Enemies []string // enemy template IDs; duplicates spawn numbered instances
	Reward  int
}

// AttackDef is a weapon or natural attack definition.
type AttackDef struct {
	ID     string
	Name   string
	Damage string // dice expression, e.g. "1d6+1"
	ToHit  int    // bonus added to the d20 attack roll
	Status *StatusSpec
}

// SpellDef is a spell definition. Damage spells roll to-hit like attacks;
// heal, status and cleanse spells always land.
type SpellDef struct {
	ID       string
	Name     string
	Category SpellCategory
	Target   TargetRule
	Damage   string // dice expression for damage spells
	Heal     string // dice expression for heal spells
	Status   *StatusSpec
	Cleanses []string // status types removed by cleanse spells
}

// EnemyDef is a spawnable enemy template.
type EnemyDef struct {
	ID         string
	Name       string
	Race       string
	Class      string
	HP         int
	AC         int
	AttackMod  int
	SpellSlots int
	Attacks    []string
	Spells     []string
}

// PlayerDef is a party-member template; combat stats derive from class and race.
type PlayerDef struct {
	ID      string
	Name    string
	Race    string
	Class   string
	Attacks []string
	Spells  []string
}

// ClassDef supplies the base combat stats for a character class.
type ClassDef struct {
	ID         string
	Name       string
	StartingHP int
	BaseAC     int
	AttackMod  int
	SpellSlots int
	Attacks    []string
	Spells     []string
}

// RaceDef supplies additive stat bonuses for a character race.
type RaceDef struct {
	ID          string
	Name        string
	HPBonus     int
	ACBonus     int
	AttackBonus int
}

// DiceOutcome records one evaluated dice expression.
type DiceOutcome struct {
	Expression string `json:"expression"`
	Rolls      []int  `json:"rolls"`
	Modifier   int    `json:"modifier"`
	Total      int    `json:"total"`
}

// HitResult records a to-hit contest against a target's effective AC.
// A roll total equal to the AC counts as a hit.
type HitResult struct {
	Roll      int  `json:"roll"`
	AttackMod int  `json:"attack_mod"`
	Bonus     int  `json:"bonus"`
	Total     int  `json:"total"`
	TargetAC  int  `json:"target_ac"`
	Hit       bool `json:"hit"`
}

// TargetOutcome records what one action did to one target.
type TargetOutcome struct {
	TargetID      string       `json:"target_id"`
	TargetName    string       `json:"target_name"`
	ToHit         *HitResult   `json:"to_hit,omitempty"`
	Damage        *DiceOutcome `json:"damage,omitempty"`
	DamageApplied int          `json:"damage_applied,omitempty"`
	Heal          *DiceOutcome `json:"heal,omitempty"`
	HealApplied   int          `json:"heal_applied,omitempty"`
	HPAfter       int          `json:"hp_after"`
	Downed        bool         `json:"downed,omitempty"`
	StatusApplied *StatusSpec  `json:"status_applied,omitempty"`
	StatusRemoved []string     `json:"status_removed,omitempty"`
}

// EffectTick records one status effect firing during a start-of-turn pass.
type EffectTick struct {
	Effect  string `json:"effect"`
	Damage  int    `json:"damage"`
	Expired bool   `json:"expired"`
}

// TurnTick records the start-of-turn pass for one entity during turn
// advancement, including stun auto-skips.
type TurnTick struct {
	EntityID   string       `json:"entity_id"`
	EntityName string       `json:"entity_name"`
	Triggered  []EffectTick `json:"triggered,omitempty"`
	Skipped    bool         `json:"skipped,omitempty"` // stunned, turn auto-passed
	Downed     bool         `json:"downed,omitempty"`  // dropped to 0 hp by the pass
}

// RestEntry records the effect of a rest on one party member.
type RestEntry struct {
	EntityID    string `json:"entity_id"`
	Name        string `json:"name"`
	HPBefore    int    `json:"hp_before"`
	HPAfter     int    `json:"hp_after"`
	SlotsBefore int    `json:"slots_before"`
	SlotsAfter  int    `json:"slots_after"`
	Revived     bool   `json:"revived,omitempty"`
}

// RestOutcome records a completed rest.
type RestOutcome struct {
	Kind    RestKind    `json:"kind"`
	RoomID  string      `json:"room_id"`
	Players []RestEntry `json:"players"`
}

// Outcome is the structured record of one resolved action, consumed by the
// narration collaborator. The engine never renders presentation text.
type Outcome struct {
	Action Action   `json:"action"`
	Mode   GameMode `json:"mode"`

	// Exploration fields.
	RoomID          string   `json:"room_id,omitempty"`
	RoomDescription string   `json:"room_description,omitempty"`
	Connections     []string `json:"connections,omitempty"`
	RestAllowed     bool     `json:"rest_allowed,omitempty"`

	// Combat fields.
	Round      int             `json:"round,omitempty"`
	ActorName  string          `json:"actor_name,omitempty"`
	AttackName string          `json:"attack_name,omitempty"`
	SpellName  string          `json:"spell_name,omitempty"`
	SlotSpent  bool            `json:"slot_spent,omitempty"`
	Targets    []TargetOutcome `json:"targets,omitempty"`
	Rest       *RestOutcome    `json:"rest,omitempty"`

	// Encounter lifecycle.
	EncounterStarted string          `json:"encounter_started,omitempty"`
	Initiative       []string        `json:"initiative,omitempty"`
	StartOfTurn      []TurnTick      `json:"start_of_turn,omitempty"`
	NextActive       string          `json:"next_active,omitempty"`
	EncounterResult  EncounterResult `json:"encounter_result,omitempty"`
	Reward           int             `json:"reward,omitempty"`

	// Session lifecycle and degradation notes.
	Session SessionResult `json:"session,omitempty"`
	Fault   string        `json:"fault,omitempty"` // data-integrity no-op note
}
