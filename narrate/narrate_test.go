package narrate

import (
	"strings"
	"testing"

	"github.com/chicocaine/game-master-ai/types"
)

func joined(out types.Outcome) string {
	return strings.Join(Render(out), "\n")
}

func TestRender_Room(t *testing.T) {
	out := types.Outcome{
		Action:          types.Action{Type: types.ActionExplore},
		RoomDescription: "A damp stone landing.",
		Connections:     []string{"bone_hall", "flooded_cell"},
		RestAllowed:     true,
	}
	text := joined(out)
	if !strings.Contains(text, "A damp stone landing.") {
		t.Error("expected the room description")
	}
	if !strings.Contains(text, "Paths lead to: bone_hall, flooded_cell") {
		t.Error("expected the connection list")
	}
	if !strings.Contains(text, "quiet enough to rest") {
		t.Error("expected the rest hint")
	}
}

func TestRender_AttackHit(t *testing.T) {
	out := types.Outcome{
		Action:     types.Action{Type: types.ActionAttack},
		ActorName:  "Theron",
		AttackName: "Sword Slash",
		Targets: []types.TargetOutcome{{
			TargetID:   "skeleton",
			TargetName: "Skeleton",
			ToHit:      &types.HitResult{Roll: 15, AttackMod: 2, Bonus: 1, Total: 18, TargetAC: 12, Hit: true},
			Damage:     &types.DiceOutcome{Expression: "1d8+1", Rolls: []int{5}, Modifier: 1, Total: 6},

			DamageApplied: 6,
			HPAfter:       2,
		}},
	}
	text := joined(out)
	if !strings.Contains(text, "Theron attacks with Sword Slash.") {
		t.Error("expected the attack line")
	}
	if !strings.Contains(text, "d20 → 15+2+1 = 18 vs AC 12") {
		t.Errorf("expected the full roll breakdown, got:\n%s", text)
	}
	if !strings.Contains(text, "hit!") {
		t.Error("expected the hit verdict")
	}
	if !strings.Contains(text, "1d8+1 → [5]+1 = 6. Skeleton drops to 2 hp.") {
		t.Errorf("expected the damage line, got:\n%s", text)
	}
}

func TestRender_AttackMissShowsNoDamage(t *testing.T) {
	out := types.Outcome{
		Action:     types.Action{Type: types.ActionAttack},
		ActorName:  "Theron",
		AttackName: "Sword Slash",
		Targets: []types.TargetOutcome{{
			TargetName: "Skeleton",
			ToHit:      &types.HitResult{Roll: 3, AttackMod: 2, Bonus: 1, Total: 6, TargetAC: 12},
		}},
	}
	text := joined(out)
	if !strings.Contains(text, "miss") {
		t.Error("expected the miss verdict")
	}
	if strings.Contains(text, "Damage:") {
		t.Error("a miss must not render a damage line")
	}
}

func TestRender_DownedTarget(t *testing.T) {
	out := types.Outcome{
		Action:     types.Action{Type: types.ActionAttack},
		ActorName:  "Theron",
		AttackName: "Sword Slash",
		Targets: []types.TargetOutcome{{
			TargetName:    "Skeleton",
			ToHit:         &types.HitResult{Roll: 18, Total: 18, TargetAC: 12, Hit: true},
			Damage:        &types.DiceOutcome{Expression: "1d8", Rolls: []int{8}, Total: 8},
			DamageApplied: 8,
			Downed:        true,
		}},
	}
	if !strings.Contains(joined(out), "Skeleton goes down!") {
		t.Error("expected the downed line")
	}
}

func TestRender_CastStatusAndCleanse(t *testing.T) {
	out := types.Outcome{
		Action:    types.Action{Type: types.ActionCastSpell},
		ActorName: "Lyra",
		SpellName: "Stunning Grasp",
		Targets: []types.TargetOutcome{{
			TargetName:    "Ghoul",
			StatusApplied: &types.StatusSpec{Type: "stunned", Duration: 2},
		}},
	}
	if !strings.Contains(joined(out), "Ghoul is stunned for 2 turns.") {
		t.Error("expected the status line")
	}

	out = types.Outcome{
		Action:    types.Action{Type: types.ActionCastSpell},
		ActorName: "Lyra",
		SpellName: "Purify",
		Targets: []types.TargetOutcome{{
			TargetName:    "Theron",
			StatusRemoved: []string{"poisoned", "burned"},
		}},
	}
	if !strings.Contains(joined(out), "Theron is cleansed of poisoned, burned.") {
		t.Error("expected the cleanse line")
	}
}

func TestRender_Rest(t *testing.T) {
	out := types.Outcome{
		Action: types.Action{Type: types.ActionRest},
		Rest: &types.RestOutcome{
			Kind: types.RestLong,
			Players: []types.RestEntry{
				{Name: "Theron", HPBefore: 0, HPAfter: 22, SlotsAfter: 0, Revived: true},
				{Name: "Lyra", HPBefore: 8, HPAfter: 12, SlotsAfter: 3},
			},
		},
	}
	text := joined(out)
	if !strings.Contains(text, "makes camp for a long rest") {
		t.Error("expected the long rest line")
	}
	if !strings.Contains(text, "Theron: 0 → 22 hp, 0 slots (back on their feet)") {
		t.Errorf("expected the revive note, got:\n%s", text)
	}
	if !strings.Contains(text, "Lyra: 8 → 12 hp, 3 slots") {
		t.Error("expected the heal note")
	}
}

func TestRender_EncounterLifecycle(t *testing.T) {
	out := types.Outcome{
		Action:           types.Action{Type: types.ActionMove},
		EncounterStarted: "bone_hall_guard",
		Initiative:       []string{"lyra", "theron", "skeleton_1"},
		Round:            1,
		NextActive:       "lyra",
	}
	text := joined(out)
	if !strings.Contains(text, "an encounter begins!") {
		t.Error("expected the encounter start line")
	}
	if !strings.Contains(text, "Initiative: lyra, theron, skeleton_1") {
		t.Error("expected the initiative order")
	}
	if !strings.Contains(text, "Round 1 — lyra acts next.") {
		t.Errorf("expected the next-active line, got:\n%s", text)
	}
}

func TestRender_StartOfTurnTicks(t *testing.T) {
	out := types.Outcome{
		Action:    types.Action{Type: types.ActionEndTurn},
		ActorName: "Theron",
		StartOfTurn: []types.TurnTick{
			{EntityID: "ghoul", EntityName: "Ghoul",
				Triggered: []types.EffectTick{{Effect: "poisoned", Damage: 2, Expired: true}}},
			{EntityID: "lyra", EntityName: "Lyra", Skipped: true},
			{EntityID: "skeleton_1", EntityName: "Skeleton 1",
				Triggered: []types.EffectTick{{Effect: "burned", Damage: 4}}, Downed: true},
		},
		NextActive: "theron",
		Round:      2,
	}
	text := joined(out)
	if !strings.Contains(text, "Ghoul suffers 2 from poisoned. The effect fades.") {
		t.Errorf("expected the tick with expiry, got:\n%s", text)
	}
	if !strings.Contains(text, "Lyra is stunned and loses their turn.") {
		t.Error("expected the stun skip line")
	}
	if !strings.Contains(text, "Skeleton 1 succumbs to their wounds!") {
		t.Error("expected the downed-by-dot line")
	}
}

func TestRender_VictoryAndDefeat(t *testing.T) {
	out := types.Outcome{
		Action:          types.Action{Type: types.ActionAttack},
		ActorName:       "Theron",
		AttackName:      "Sword Slash",
		EncounterResult: types.EncounterVictory,
		Reward:          25,
	}
	text := joined(out)
	if !strings.Contains(text, "The last enemy falls. Victory!") {
		t.Error("expected the victory line")
	}
	if !strings.Contains(text, "claims 25 gold") {
		t.Error("expected the reward line")
	}

	out.EncounterResult = types.EncounterDefeat
	out.Reward = 0
	out.Session = types.SessionGameOver
	text = joined(out)
	if !strings.Contains(text, "The party has fallen. Defeat.") {
		t.Error("expected the defeat line")
	}
	if !strings.Contains(text, "Game over.") {
		t.Error("expected the game over line")
	}
}

func TestRender_SessionComplete(t *testing.T) {
	out := types.Outcome{
		Action:  types.Action{Type: types.ActionMove},
		Session: types.SessionComplete,
	}
	if !strings.Contains(joined(out), "The quest is complete.") {
		t.Error("expected the completion line")
	}
}

func TestRender_Fault(t *testing.T) {
	out := types.Outcome{
		Action: types.Action{Type: types.ActionMove},
		Fault:  `room "void" referenced but not defined`,
	}
	lines := Render(out)
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "Nothing happens.") {
		t.Errorf("fault should render a single no-op line, got %v", lines)
	}
}
