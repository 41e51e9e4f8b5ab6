package resolve

import (
	"testing"

	"github.com/chicocaine/game-master-ai/engine/entity"
	"github.com/chicocaine/game-master-ai/engine/state"
	"github.com/chicocaine/game-master-ai/types"
)

// scriptRoller returns scripted rolls in order and fails the test if the
// script runs dry.
type scriptRoller struct {
	t     *testing.T
	rolls []int
	i     int
}

func (r *scriptRoller) Roll(sides int) int {
	if r.i >= len(r.rolls) {
		r.t.Fatalf("roller script exhausted after %d rolls", r.i)
	}
	v := r.rolls[r.i]
	r.i++
	return v
}

func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{Title: "Test", Dungeon: "crypt"},
		Dungeons: map[string]types.DungeonDef{
			"crypt": {ID: "crypt", EntryRoom: "entrance", ExitRoom: "sanctum"},
		},
		Rooms: map[string]types.RoomDef{
			"entrance": {ID: "entrance", Description: "The way in.", Connections: []string{"hall"}, RestAllowed: true},
			"hall":     {ID: "hall", Description: "A long hall.", Connections: []string{"entrance"}, Encounter: "guard"},
		},
		Encounters: map[string]types.EncounterDef{
			"guard": {ID: "guard", Enemies: []string{"skeleton"}, Reward: 10},
		},
		Attacks: map[string]types.AttackDef{
			"slash": {ID: "slash", Name: "Slash", Damage: "1d8+1", ToHit: 1},
			"venom_bite": {ID: "venom_bite", Name: "Venom Bite", Damage: "1d4",
				Status: &types.StatusSpec{Type: "poisoned", Duration: 2, Magnitude: 2}},
		},
		Spells: map[string]types.SpellDef{
			"firebolt":  {ID: "firebolt", Name: "Firebolt", Category: types.SpellDamage, Target: types.TargetEnemy, Damage: "2d6"},
			"fire_nova": {ID: "fire_nova", Name: "Fire Nova", Category: types.SpellDamage, Target: types.TargetEnemies, Damage: "1d6"},
			"mend":      {ID: "mend", Name: "Mend", Category: types.SpellHeal, Target: types.TargetAlly, Heal: "1d8+2"},
			"grasp":     {ID: "grasp", Name: "Stunning Grasp", Category: types.SpellStatus, Target: types.TargetEnemy, Status: &types.StatusSpec{Type: "stunned", Duration: 2}},
			"purify":    {ID: "purify", Name: "Purify", Category: types.SpellCleanse, Target: types.TargetAlly, Cleanses: []string{"poisoned", "burned"}},
		},
		Enemies: map[string]types.EnemyDef{
			"skeleton": {ID: "skeleton", Name: "Skeleton", HP: 8, AC: 12, Attacks: []string{"slash"}},
		},
	}
}

func player(id, name string) *entity.Entity {
	return &entity.Entity{
		ID: id, Name: name, Role: entity.RolePlayer,
		HP: 20, MaxHP: 20, AC: 14, AttackMod: 2,
		Attacks: []string{"slash", "venom_bite"},
		Spells:  []string{"firebolt", "fire_nova", "mend", "grasp", "purify"},
		Slots:   entity.SpellSlots{Current: 3, Max: 3},
	}
}

func enemy(id, name string, hp int) *entity.Entity {
	return &entity.Entity{
		ID: id, Name: name, Role: entity.RoleEnemy,
		HP: hp, MaxHP: hp, AC: 12, AttackMod: 1,
		Attacks: []string{"slash"},
	}
}

func testEncounter(entities ...*entity.Entity) *state.Encounter {
	enc := &state.Encounter{ID: "guard", RoomID: "hall", Round: 1, Entities: entities}
	for _, e := range entities {
		enc.Initiative = append(enc.Initiative, e.ID)
	}
	return enc
}

func encounterGlobal() *state.Global {
	return &state.Global{
		Mode:    types.ModeEncounter,
		RoomID:  "hall",
		Cleared: map[string]bool{},
		Visited: map[string]bool{},
		Rested:  map[string]bool{},
		Result:  types.SessionInProgress,
	}
}

func explorationGlobal(party ...*entity.Entity) *state.Global {
	return &state.Global{
		Mode:      types.ModeExploration,
		DungeonID: "crypt",
		RoomID:    "entrance",
		Party:     party,
		Cleared:   map[string]bool{},
		Visited:   map[string]bool{"entrance": true},
		Rested:    map[string]bool{},
		Result:    types.SessionInProgress,
	}
}

func TestAttack_HitDealsDamage(t *testing.T) {
	skel := enemy("skeleton", "Skeleton", 14)
	enc := testEncounter(player("theron", "Theron"), skel)
	// d20=15 +2 mod +1 bonus = 18 vs AC 12: hit. Damage 1d8+1 with roll 5 = 6.
	r := &scriptRoller{t: t, rolls: []int{15, 5}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionAttack, Target: "skeleton", AttackID: "slash"},
		encounterGlobal(), enc, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}

	if len(out.Targets) != 1 {
		t.Fatalf("targets = %d, want 1", len(out.Targets))
	}
	to := out.Targets[0]
	if to.ToHit == nil || !to.ToHit.Hit || to.ToHit.Total != 18 || to.ToHit.TargetAC != 12 {
		t.Fatalf("to-hit = %+v", to.ToHit)
	}
	if to.DamageApplied != 6 || skel.HP != 8 {
		t.Errorf("damage=%d hp=%d, want 6/8", to.DamageApplied, skel.HP)
	}
	if to.Downed {
		t.Error("target at 8 hp is not down")
	}
}

func TestAttack_TieHits(t *testing.T) {
	skel := enemy("skeleton", "Skeleton", 8)
	enc := testEncounter(player("theron", "Theron"), skel)
	// d20=9 +2 +1 = 12 vs AC 12: a tie is a hit.
	r := &scriptRoller{t: t, rolls: []int{9, 3}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionAttack, Target: "skeleton", AttackID: "slash"},
		encounterGlobal(), enc, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Targets[0].ToHit.Hit {
		t.Error("roll equal to AC should hit")
	}
}

func TestAttack_MissLeavesTargetUntouched(t *testing.T) {
	skel := enemy("skeleton", "Skeleton", 8)
	enc := testEncounter(player("theron", "Theron"), skel)
	// d20=5 +2 +1 = 8 vs AC 12: miss. No damage roll consumed.
	r := &scriptRoller{t: t, rolls: []int{5}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionAttack, Target: "skeleton", AttackID: "slash"},
		encounterGlobal(), enc, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}
	to := out.Targets[0]
	if to.ToHit.Hit || to.Damage != nil || skel.HP != 8 {
		t.Errorf("miss should not touch the target: %+v, hp=%d", to, skel.HP)
	}
	if r.i != 1 {
		t.Errorf("miss should not roll damage: %d rolls", r.i)
	}
}

func TestAttack_OverkillClampsToZero(t *testing.T) {
	skel := enemy("skeleton", "Skeleton", 3)
	enc := testEncounter(player("theron", "Theron"), skel)
	// Hit for 1d8+1 with roll 8 = 9 against 3 hp.
	r := &scriptRoller{t: t, rolls: []int{15, 8}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionAttack, Target: "skeleton", AttackID: "slash"},
		encounterGlobal(), enc, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}
	to := out.Targets[0]
	if to.DamageApplied != 3 {
		t.Errorf("applied = %d, want 3 (clamped)", to.DamageApplied)
	}
	if skel.HP != 0 || !to.Downed {
		t.Errorf("hp=%d downed=%v, want 0/true", skel.HP, to.Downed)
	}
}

func TestAttack_OnHitStatus(t *testing.T) {
	skel := enemy("skeleton", "Skeleton", 10)
	enc := testEncounter(player("theron", "Theron"), skel)
	r := &scriptRoller{t: t, rolls: []int{15, 2}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionAttack, Target: "skeleton", AttackID: "venom_bite"},
		encounterGlobal(), enc, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}
	if out.Targets[0].StatusApplied == nil {
		t.Fatal("status should be applied on hit")
	}
	if !skel.HasEffect(entity.Poisoned) {
		t.Error("target should be poisoned")
	}
}

func TestAttack_NoStatusOnDownedTarget(t *testing.T) {
	skel := enemy("skeleton", "Skeleton", 1)
	enc := testEncounter(player("theron", "Theron"), skel)
	r := &scriptRoller{t: t, rolls: []int{15, 4}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionAttack, Target: "skeleton", AttackID: "venom_bite"},
		encounterGlobal(), enc, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}
	if out.Targets[0].StatusApplied != nil || skel.HasEffect(entity.Poisoned) {
		t.Error("a downed target should not gain status effects")
	}
}

func TestAttack_EffectiveModifiers(t *testing.T) {
	theron := player("theron", "Theron")
	theron.AddEffect(entity.StatusEffect{Type: entity.Weakened, Duration: 2, Magnitude: 2})
	skel := enemy("skeleton", "Skeleton", 8)
	skel.AddEffect(entity.StatusEffect{Type: entity.Fortified, Duration: 2, Magnitude: 2})
	enc := testEncounter(theron, skel)
	// d20=13 +(2-2) +1 = 14 vs AC 12+2=14: tie, still a hit.
	r := &scriptRoller{t: t, rolls: []int{13, 1}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionAttack, Target: "skeleton", AttackID: "slash"},
		encounterGlobal(), enc, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}
	h := out.Targets[0].ToHit
	if h.AttackMod != 0 || h.TargetAC != 14 || !h.Hit {
		t.Errorf("hit contest = %+v", h)
	}
}

func TestCast_AoEResolvesTargetsIndependently(t *testing.T) {
	theron := player("theron", "Theron")
	s1 := enemy("skeleton_1", "Skeleton 1", 8)
	s2 := enemy("skeleton_2", "Skeleton 2", 8)
	enc := testEncounter(theron, s1, s2)
	// Target 1: d20=18 hit, 1d6=4. Target 2: d20=3 miss.
	r := &scriptRoller{t: t, rolls: []int{18, 4, 3}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionCastSpell, SpellID: "fire_nova"},
		encounterGlobal(), enc, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Targets) != 2 {
		t.Fatalf("targets = %d, want 2", len(out.Targets))
	}
	if s1.HP != 4 {
		t.Errorf("first target hp = %d, want 4", s1.HP)
	}
	if s2.HP != 8 {
		t.Errorf("missed target hp = %d, want 8", s2.HP)
	}
	if !out.SlotSpent || theron.Slots.Current != 2 {
		t.Errorf("one slot should be spent: spent=%v slots=%d", out.SlotSpent, theron.Slots.Current)
	}
}

func TestCast_HealClampsAtMax(t *testing.T) {
	theron := player("theron", "Theron")
	lyra := player("lyra", "Lyra")
	lyra.HP = 17
	enc := testEncounter(theron, lyra, enemy("skeleton", "Skeleton", 8))
	// Heal 1d8+2 with roll 6 = 8, but only 3 hp missing.
	r := &scriptRoller{t: t, rolls: []int{6}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionCastSpell, SpellID: "mend", Target: "lyra"},
		encounterGlobal(), enc, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}
	to := out.Targets[0]
	if to.Heal.Total != 8 || to.HealApplied != 3 || lyra.HP != 20 {
		t.Errorf("heal=%d applied=%d hp=%d, want 8/3/20", to.Heal.Total, to.HealApplied, lyra.HP)
	}
}

func TestCast_StatusAlwaysLands(t *testing.T) {
	skel := enemy("skeleton", "Skeleton", 8)
	enc := testEncounter(player("theron", "Theron"), skel)
	// No to-hit roll for status spells: no dice consumed.
	r := &scriptRoller{t: t, rolls: []int{}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionCastSpell, SpellID: "grasp", Target: "skeleton"},
		encounterGlobal(), enc, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}
	if out.Targets[0].StatusApplied == nil || !skel.HasEffect(entity.Stunned) {
		t.Error("status spell should land without a roll")
	}
}

func TestCast_CleanseRemovesNamedTypes(t *testing.T) {
	theron := player("theron", "Theron")
	lyra := player("lyra", "Lyra")
	lyra.AddEffect(entity.StatusEffect{Type: entity.Poisoned, Duration: 3, Magnitude: 2})
	lyra.AddEffect(entity.StatusEffect{Type: entity.Stunned, Duration: 2})
	enc := testEncounter(theron, lyra, enemy("skeleton", "Skeleton", 8))
	r := &scriptRoller{t: t, rolls: []int{}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionCastSpell, SpellID: "purify", Target: "lyra"},
		encounterGlobal(), enc, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Targets[0].StatusRemoved) != 1 || out.Targets[0].StatusRemoved[0] != "poisoned" {
		t.Errorf("removed = %v, want [poisoned]", out.Targets[0].StatusRemoved)
	}
	if lyra.HasEffect(entity.Poisoned) || !lyra.HasEffect(entity.Stunned) {
		t.Error("cleanse removed the wrong effects")
	}
}

func TestMove_StartsUnclearedEncounter(t *testing.T) {
	g := explorationGlobal(player("theron", "Theron"))
	r := &scriptRoller{t: t, rolls: []int{}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionMove, Target: "hall"}, g, nil, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}
	if g.RoomID != "hall" || !g.Visited["hall"] {
		t.Errorf("room=%s visited=%v", g.RoomID, g.Visited)
	}
	if out.EncounterStarted != "guard" {
		t.Errorf("encounter started = %q, want guard", out.EncounterStarted)
	}
}

func TestMove_ClearedEncounterStaysQuiet(t *testing.T) {
	g := explorationGlobal(player("theron", "Theron"))
	g.Cleared["guard"] = true
	r := &scriptRoller{t: t, rolls: []int{}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionMove, Target: "hall"}, g, nil, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}
	if out.EncounterStarted != "" {
		t.Error("cleared encounter should not restart")
	}
}

func TestRest_ShortHealsQuarterAndOneSlot(t *testing.T) {
	theron := player("theron", "Theron") // 20 max
	theron.HP = 10
	theron.Slots.Current = 0
	lyra := player("lyra", "Lyra")
	lyra.MaxHP = 3 // floor(3/4) = 0: small pools heal nothing
	lyra.HP = 1
	down := player("gale", "Gale")
	down.HP = 0

	g := explorationGlobal(theron, lyra, down)
	r := &scriptRoller{t: t, rolls: []int{}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionRest, Rest: types.RestShort}, g, nil, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}

	if theron.HP != 15 || theron.Slots.Current != 1 {
		t.Errorf("theron hp=%d slots=%d, want 15/1", theron.HP, theron.Slots.Current)
	}
	if lyra.HP != 1 {
		t.Errorf("lyra hp=%d, want 1 (floor of a quarter of 3 is 0)", lyra.HP)
	}
	if down.HP != 0 {
		t.Error("short rest must not touch downed members")
	}
	if len(out.Rest.Players) != 2 {
		t.Errorf("rest entries = %d, want 2 (living only)", len(out.Rest.Players))
	}
	if !g.Rested["entrance"] {
		t.Error("room should be marked rested")
	}
}

func TestRest_LongRevivesAndRefills(t *testing.T) {
	theron := player("theron", "Theron")
	theron.HP = 5
	theron.Slots.Current = 0
	down := player("gale", "Gale")
	down.HP = 0

	g := explorationGlobal(theron, down)
	r := &scriptRoller{t: t, rolls: []int{}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionRest, Rest: types.RestLong}, g, nil, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}

	if theron.HP != 20 || theron.Slots.Current != 3 {
		t.Errorf("theron hp=%d slots=%d, want 20/3", theron.HP, theron.Slots.Current)
	}
	if down.HP != down.MaxHP {
		t.Errorf("downed member hp=%d, want full", down.HP)
	}

	var revived bool
	for _, entry := range out.Rest.Players {
		if entry.EntityID == "gale" && entry.Revived {
			revived = true
		}
	}
	if !revived {
		t.Error("long rest should report the revival")
	}
}

func TestResolve_UnknownAttackIsFault(t *testing.T) {
	skel := enemy("skeleton", "Skeleton", 8)
	enc := testEncounter(player("theron", "Theron"), skel)
	r := &scriptRoller{t: t, rolls: []int{}}

	out, err := Action(types.Action{Actor: "theron", Type: types.ActionAttack, Target: "skeleton", AttackID: "ghost_punch"},
		encounterGlobal(), enc, testDefs(), r)
	if err != nil {
		t.Fatal(err)
	}
	if out.Fault == "" {
		t.Fatal("dangling attack reference should report a fault")
	}
	if skel.HP != 8 {
		t.Error("fault must not mutate state")
	}
}
