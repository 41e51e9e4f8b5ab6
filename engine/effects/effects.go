// Package effects implements the per-turn status effect protocol: trigger
// damage-over-time effects, then decay durations and drop expired effects.
// Stun skipping is decided by the encounter state machine; this package only
// reports what fired and what expired.
package effects

import (
	"github.com/chicocaine/game-master-ai/engine/entity"
	"github.com/chicocaine/game-master-ai/types"
)

// BeginTurn runs the start-of-turn pass for one entity, exactly once per
// affected turn:
//
//  1. Every poisoned/burned effect deals its magnitude via ApplyDamage.
//     The hp-zero check happens after the full pass, not per effect.
//  2. Every effect decays one turn; effects reaching 0 are removed.
//
// The pass runs even when the turn will be skipped for stun, so stun decays
// on skipped turns too.
func BeginTurn(e *entity.Entity) types.TurnTick {
	tick := types.TurnTick{EntityID: e.ID, EntityName: e.Name}

	// Trigger pass first, over a snapshot: decay must not run mid-trigger.
	for _, eff := range e.Effects {
		if !eff.Type.TicksAtTurnStart() {
			continue
		}
		dmg := eff.Magnitude
		if dmg < 0 {
			dmg = 0
		}
		applied := e.ApplyDamage(dmg)
		tick.Triggered = append(tick.Triggered, types.EffectTick{
			Effect:  string(eff.Type),
			Damage:  applied,
			Expired: eff.Duration-1 <= 0,
		})
	}

	// Decay pass: all defined types decay per turn.
	kept := e.Effects[:0]
	for _, eff := range e.Effects {
		eff.Duration--
		if eff.Duration > 0 {
			kept = append(kept, eff)
		}
	}
	e.Effects = kept

	tick.Downed = !e.Alive()
	return tick
}

// Cleanse removes the named status types from the target immediately,
// independent of the per-turn pass. Returns the types actually removed.
func Cleanse(e *entity.Entity, kinds ...entity.StatusType) []entity.StatusType {
	return e.RemoveEffects(kinds...)
}
