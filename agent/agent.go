// Package agent supplies enemy actions during encounters. The policy is a
// deterministic heuristic over visible state, so replays with the same seed
// produce the same fights.
package agent

import (
	"github.com/chicocaine/game-master-ai/engine/entity"
	"github.com/chicocaine/game-master-ai/engine/state"
	"github.com/chicocaine/game-master-ai/types"
)

// ChooseAction picks the active enemy's action. Preference order:
//
//  1. An AoE damage spell when a slot remains and at least two players stand.
//  2. A single-target damage spell on the weakest player when a slot remains.
//  3. The first known attack on the weakest player.
//  4. Pass.
func ChooseAction(enc *state.Encounter, defs *state.Defs) types.Action {
	actor, ok := enc.ActiveEntity()
	if !ok {
		return types.Action{}
	}

	players := enc.LivingPlayers()
	target := weakest(players)

	if actor.Slots.Current > 0 {
		if id, ok := findSpell(actor, defs, types.TargetEnemies); ok && len(players) >= 2 {
			return types.Action{Actor: actor.ID, Type: types.ActionCastSpell, SpellID: id}
		}
		if id, ok := findSpell(actor, defs, types.TargetEnemy); ok && target != nil {
			return types.Action{Actor: actor.ID, Type: types.ActionCastSpell, SpellID: id, Target: target.ID}
		}
	}

	if len(actor.Attacks) > 0 && target != nil {
		return types.Action{Actor: actor.ID, Type: types.ActionAttack, AttackID: actor.Attacks[0], Target: target.ID}
	}

	return types.Action{Actor: actor.ID, Type: types.ActionEndTurn}
}

// weakest returns the living player with the lowest hp, ties kept in roster
// order.
func weakest(players []*entity.Entity) *entity.Entity {
	var pick *entity.Entity
	for _, p := range players {
		if pick == nil || p.HP < pick.HP {
			pick = p
		}
	}
	return pick
}

// findSpell returns the actor's first known damage spell with the given
// target rule.
func findSpell(actor *entity.Entity, defs *state.Defs, rule types.TargetRule) (string, bool) {
	for _, id := range actor.Spells {
		spell, ok := defs.Spell(id)
		if !ok {
			continue
		}
		if spell.Category == types.SpellDamage && spell.Target == rule {
			return id, true
		}
	}
	return "", false
}
