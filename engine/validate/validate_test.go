package validate

import (
	"testing"

	"github.com/chicocaine/game-master-ai/engine/entity"
	"github.com/chicocaine/game-master-ai/engine/state"
	"github.com/chicocaine/game-master-ai/types"
)

func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{Title: "Test", Dungeon: "crypt"},
		Dungeons: map[string]types.DungeonDef{
			"crypt": {ID: "crypt", EntryRoom: "entrance", ExitRoom: "sanctum"},
		},
		Rooms: map[string]types.RoomDef{
			"entrance": {ID: "entrance", Connections: []string{"hall"}, RestAllowed: true},
			"hall":     {ID: "hall", Connections: []string{"entrance", "sanctum"}},
			"sanctum":  {ID: "sanctum", Connections: []string{"hall"}, Exit: true},
		},
		Attacks: map[string]types.AttackDef{
			"slash": {ID: "slash", Name: "Slash", Damage: "1d8+1", ToHit: 1},
		},
		Spells: map[string]types.SpellDef{
			"firebolt":  {ID: "firebolt", Name: "Firebolt", Category: types.SpellDamage, Target: types.TargetEnemy, Damage: "2d6"},
			"fire_nova": {ID: "fire_nova", Name: "Fire Nova", Category: types.SpellDamage, Target: types.TargetEnemies, Damage: "1d6"},
			"bless":     {ID: "bless", Name: "Bless", Category: types.SpellStatus, Target: types.TargetSelf, Status: &types.StatusSpec{Type: "strengthened", Duration: 2, Magnitude: 1}},
		},
	}
}

func testGlobal() *state.Global {
	return &state.Global{
		Mode:      types.ModeExploration,
		DungeonID: "crypt",
		RoomID:    "entrance",
		Party: []*entity.Entity{
			{ID: "theron", Name: "Theron", Role: entity.RolePlayer, HP: 20, MaxHP: 20},
		},
		Cleared: map[string]bool{},
		Visited: map[string]bool{"entrance": true},
		Rested:  map[string]bool{},
		Result:  types.SessionInProgress,
	}
}

func testEncounter() *state.Encounter {
	return &state.Encounter{
		ID:     "guard",
		RoomID: "hall",
		Round:  1,
		Entities: []*entity.Entity{
			{ID: "theron", Name: "Theron", Role: entity.RolePlayer, HP: 20, MaxHP: 20,
				Attacks: []string{"slash"}, Spells: []string{"firebolt", "fire_nova", "bless"},
				Slots: entity.SpellSlots{Current: 2, Max: 3}},
			{ID: "skeleton", Name: "Skeleton", Role: entity.RoleEnemy, HP: 8, MaxHP: 8,
				Attacks: []string{"slash"}},
		},
		Initiative: []string{"theron", "skeleton"},
	}
}

func wantReason(t *testing.T, rej *Rejection, reason Reason) {
	t.Helper()
	if rej == nil {
		t.Fatalf("expected rejection %s, got nil", reason)
	}
	if rej.Reason != reason {
		t.Fatalf("reason = %s (%s), want %s", rej.Reason, rej.Detail, reason)
	}
}

func TestValidate_UnknownActor(t *testing.T) {
	g := testGlobal()
	rej := Action(types.Action{Actor: "ghost", Type: types.ActionExplore}, g, nil, testDefs())
	wantReason(t, rej, ReasonUnknownActor)
}

func TestValidate_ModeGating(t *testing.T) {
	defs := testDefs()
	g := testGlobal()

	rej := Action(types.Action{Actor: "theron", Type: types.ActionAttack, Target: "skeleton", AttackID: "slash"}, g, nil, defs)
	wantReason(t, rej, ReasonWrongMode)

	g.Mode = types.ModeEncounter
	enc := testEncounter()
	rej = Action(types.Action{Actor: "theron", Type: types.ActionMove, Target: "hall"}, g, enc, defs)
	wantReason(t, rej, ReasonWrongMode)
}

func TestValidate_Move(t *testing.T) {
	defs := testDefs()
	g := testGlobal()

	if rej := Action(types.Action{Actor: "theron", Type: types.ActionMove, Target: "hall"}, g, nil, defs); rej != nil {
		t.Fatalf("valid move rejected: %v", rej)
	}

	rej := Action(types.Action{Actor: "theron", Type: types.ActionMove, Target: "sanctum"}, g, nil, defs)
	wantReason(t, rej, ReasonNotConnected)

	rej = Action(types.Action{Actor: "theron", Type: types.ActionMove}, g, nil, defs)
	wantReason(t, rej, ReasonMissingTarget)
}

func TestValidate_Rest(t *testing.T) {
	defs := testDefs()
	g := testGlobal()

	if rej := Action(types.Action{Actor: "theron", Type: types.ActionRest, Rest: types.RestShort}, g, nil, defs); rej != nil {
		t.Fatalf("valid rest rejected: %v", rej)
	}

	rej := Action(types.Action{Actor: "theron", Type: types.ActionRest}, g, nil, defs)
	wantReason(t, rej, ReasonBadRestKind)

	g.RoomID = "hall"
	rej = Action(types.Action{Actor: "theron", Type: types.ActionRest, Rest: types.RestLong}, g, nil, defs)
	wantReason(t, rej, ReasonRestForbidden)
}

func TestValidate_RepeatRestAllowed(t *testing.T) {
	defs := testDefs()
	g := testGlobal()
	g.Rested["entrance"] = true

	if rej := Action(types.Action{Actor: "theron", Type: types.ActionRest, Rest: types.RestShort}, g, nil, defs); rej != nil {
		t.Fatalf("repeat rest in the same room should be allowed: %v", rej)
	}
}

func TestValidate_TurnOrder(t *testing.T) {
	defs := testDefs()
	g := testGlobal()
	g.Mode = types.ModeEncounter
	enc := testEncounter()

	rej := Action(types.Action{Actor: "skeleton", Type: types.ActionAttack, Target: "theron", AttackID: "slash"}, g, enc, defs)
	wantReason(t, rej, ReasonNotYourTurn)
}

func TestValidate_StunnedActor(t *testing.T) {
	defs := testDefs()
	g := testGlobal()
	g.Mode = types.ModeEncounter
	enc := testEncounter()
	enc.Entities[0].AddEffect(entity.StatusEffect{Type: entity.Stunned, Duration: 1})

	rej := Action(types.Action{Actor: "theron", Type: types.ActionEndTurn}, g, enc, defs)
	wantReason(t, rej, ReasonActorStunned)
}

func TestValidate_DownedActor(t *testing.T) {
	defs := testDefs()
	g := testGlobal()
	g.Mode = types.ModeEncounter
	enc := testEncounter()
	enc.Entities[0].HP = 0

	rej := Action(types.Action{Actor: "theron", Type: types.ActionEndTurn}, g, enc, defs)
	wantReason(t, rej, ReasonActorDown)
}

func TestValidate_Attack(t *testing.T) {
	defs := testDefs()
	g := testGlobal()
	g.Mode = types.ModeEncounter
	enc := testEncounter()

	if rej := Action(types.Action{Actor: "theron", Type: types.ActionAttack, Target: "skeleton", AttackID: "slash"}, g, enc, defs); rej != nil {
		t.Fatalf("valid attack rejected: %v", rej)
	}

	rej := Action(types.Action{Actor: "theron", Type: types.ActionAttack, Target: "skeleton", AttackID: "headbutt"}, g, enc, defs)
	wantReason(t, rej, ReasonUnknownAttack)

	rej = Action(types.Action{Actor: "theron", Type: types.ActionAttack, Target: "wraith", AttackID: "slash"}, g, enc, defs)
	wantReason(t, rej, ReasonUnknownTarget)

	enc.Entities[1].HP = 0
	rej = Action(types.Action{Actor: "theron", Type: types.ActionAttack, Target: "skeleton", AttackID: "slash"}, g, enc, defs)
	wantReason(t, rej, ReasonTargetDown)
}

func TestValidate_Cast(t *testing.T) {
	defs := testDefs()
	g := testGlobal()
	g.Mode = types.ModeEncounter
	enc := testEncounter()

	if rej := Action(types.Action{Actor: "theron", Type: types.ActionCastSpell, SpellID: "firebolt", Target: "skeleton"}, g, enc, defs); rej != nil {
		t.Fatalf("valid cast rejected: %v", rej)
	}

	// Single-target spells need a target.
	rej := Action(types.Action{Actor: "theron", Type: types.ActionCastSpell, SpellID: "firebolt"}, g, enc, defs)
	wantReason(t, rej, ReasonMissingTarget)

	// AoE spells refuse one.
	rej = Action(types.Action{Actor: "theron", Type: types.ActionCastSpell, SpellID: "fire_nova", Target: "skeleton"}, g, enc, defs)
	wantReason(t, rej, ReasonExtraTarget)

	// Self spells accept only the caster.
	rej = Action(types.Action{Actor: "theron", Type: types.ActionCastSpell, SpellID: "bless", Target: "skeleton"}, g, enc, defs)
	wantReason(t, rej, ReasonExtraTarget)
	if rej := Action(types.Action{Actor: "theron", Type: types.ActionCastSpell, SpellID: "bless"}, g, enc, defs); rej != nil {
		t.Fatalf("self cast rejected: %v", rej)
	}
}

func TestValidate_CastWithoutSlots(t *testing.T) {
	defs := testDefs()
	g := testGlobal()
	g.Mode = types.ModeEncounter
	enc := testEncounter()
	enc.Entities[0].Slots.Current = 0

	rej := Action(types.Action{Actor: "theron", Type: types.ActionCastSpell, SpellID: "firebolt", Target: "skeleton"}, g, enc, defs)
	wantReason(t, rej, ReasonNoSpellSlots)

	// Validation must not mutate: slots stay at zero, no side effects.
	if enc.Entities[0].Slots.Current != 0 {
		t.Error("validation mutated slots")
	}
}
