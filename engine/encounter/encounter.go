// Package encounter implements the combat turn state machine: initiative
// rolls, turn advancement with the start-of-turn effect pass, stun auto-skips,
// and terminal detection.
package encounter

import (
	"sort"

	"github.com/chicocaine/game-master-ai/engine/dice"
	"github.com/chicocaine/game-master-ai/engine/effects"
	"github.com/chicocaine/game-master-ai/engine/entity"
	"github.com/chicocaine/game-master-ai/engine/state"
	"github.com/chicocaine/game-master-ai/types"
)

// RollInitiative orders the living participants by a flat d20 each, highest
// first. Ties keep roster order (players before the enemies that follow them),
// so the result is stable for a given roll sequence. The order is fixed for
// the whole encounter.
func RollInitiative(entities []*entity.Entity, r dice.Roller) []string {
	type rolled struct {
		id   string
		roll int
	}
	var rolls []rolled
	for _, e := range entities {
		if !e.Alive() {
			continue
		}
		rolls = append(rolls, rolled{id: e.ID, roll: dice.D20(r)})
	}
	sort.SliceStable(rolls, func(i, j int) bool {
		return rolls[i].roll > rolls[j].roll
	})

	order := make([]string, len(rolls))
	for i, rr := range rolls {
		order[i] = rr.id
	}
	return order
}

// Terminal reports whether the encounter has ended. Defeat is checked first:
// when the last members of both sides drop in the same resolution, the
// encounter is a defeat.
func Terminal(enc *state.Encounter) (types.EncounterResult, bool) {
	if enc.AllPlayersDown() {
		return types.EncounterDefeat, true
	}
	if enc.AllEnemiesDown() {
		return types.EncounterVictory, true
	}
	return "", false
}

// StartTurns runs the start-of-turn protocol for the first entity in a fresh
// encounter, continuing through stun-skips and downed entities until an entity
// that can act is active or the encounter ends. It mirrors AdvanceTurn but
// does not move the pointer first.
func StartTurns(enc *state.Encounter) ([]types.TurnTick, types.EncounterResult, bool) {
	return settle(enc, false)
}

// AdvanceTurn moves to the next turn and runs the start-of-turn protocol,
// skipping downed entities and auto-passing stunned ones. Damage-over-time
// ticks can end the encounter mid-advancement; the ticks recorded up to that
// point are still returned.
func AdvanceTurn(enc *state.Encounter) ([]types.TurnTick, types.EncounterResult, bool) {
	return settle(enc, true)
}

// settle advances (when step is true) and keeps stepping until the active
// entity can act. The loop terminates: every skipped stun decays during its
// owner's begin-turn pass, and downed entities never gain turns back.
func settle(enc *state.Encounter, step bool) ([]types.TurnTick, types.EncounterResult, bool) {
	var ticks []types.TurnTick

	for {
		if res, done := Terminal(enc); done {
			return ticks, res, true
		}
		if step {
			enc.Advance()
		}
		step = true

		active, ok := enc.ActiveEntity()
		if !ok || !active.Alive() {
			// Downed entities stay in the initiative list but never act.
			continue
		}

		// Stun is checked before the effect pass: the pass decays the stun,
		// and a decaying stun still costs this turn.
		stunned := active.HasEffect(entity.Stunned)

		tick := effects.BeginTurn(active)
		tick.Skipped = stunned
		ticks = append(ticks, tick)

		if tick.Downed {
			enc.Append("%s succumbs to their wounds", active.Name)
			continue
		}
		if stunned {
			enc.Append("%s is stunned and loses their turn", active.Name)
			continue
		}
		return ticks, "", false
	}
}
