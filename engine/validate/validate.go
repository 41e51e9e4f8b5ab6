// Package validate checks a structured Action against the current mode and
// state for legality. Validation never mutates state: re-validating the same
// action against unchanged state yields the same answer.
package validate

import (
	"fmt"

	"github.com/chicocaine/game-master-ai/engine/entity"
	"github.com/chicocaine/game-master-ai/engine/state"
	"github.com/chicocaine/game-master-ai/types"
)

// Reason is a machine-readable rejection code, consumed by the narration
// collaborator. A rejection is always recoverable.
type Reason string

const (
	ReasonUnknownActor  Reason = "unknown_actor"
	ReasonActorDown     Reason = "actor_down"
	ReasonWrongMode     Reason = "wrong_mode"
	ReasonNotYourTurn   Reason = "not_your_turn"
	ReasonActorStunned  Reason = "actor_stunned"
	ReasonMissingTarget Reason = "missing_target"
	ReasonUnknownTarget Reason = "unknown_target"
	ReasonTargetDown    Reason = "target_down"
	ReasonNotConnected  Reason = "not_connected"
	ReasonUnknownAttack Reason = "unknown_attack"
	ReasonUnknownSpell  Reason = "unknown_spell"
	ReasonNoSpellSlots  Reason = "no_spell_slots"
	ReasonRestForbidden Reason = "rest_forbidden"
	ReasonBadRestKind   Reason = "bad_rest_kind"
	ReasonExtraTarget   Reason = "extra_target"
)

// Rejection explains why an action is invalid. It is an error value so the
// pipeline can return it, but it is never fatal: state is untouched.
type Rejection struct {
	Reason Reason
	Detail string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("invalid action (%s): %s", r.Reason, r.Detail)
}

func reject(reason Reason, format string, args ...any) *Rejection {
	return &Rejection{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// explorationActions and encounterActions gate action types by mode.
var explorationActions = map[types.ActionType]bool{
	types.ActionMove:    true,
	types.ActionRest:    true,
	types.ActionExplore: true,
}

var encounterActions = map[types.ActionType]bool{
	types.ActionAttack:    true,
	types.ActionCastSpell: true,
	types.ActionEndTurn:   true,
}

// Action checks an action for legality. It returns nil when the action may be
// resolved, or a *Rejection describing the first unmet precondition. Checks
// run in a fixed order and short-circuit on the first failure.
func Action(a types.Action, g *state.Global, enc *state.Encounter, defs *state.Defs) *Rejection {
	switch g.Mode {
	case types.ModeExploration:
		return validateExploration(a, g, defs)
	case types.ModeEncounter:
		if enc == nil {
			return reject(ReasonWrongMode, "encounter state is missing")
		}
		return validateEncounter(a, enc, defs)
	default:
		return reject(ReasonWrongMode, "unsupported mode %q", g.Mode)
	}
}

func validateExploration(a types.Action, g *state.Global, defs *state.Defs) *Rejection {
	if _, ok := g.Player(a.Actor); !ok {
		return reject(ReasonUnknownActor, "actor %q is not in the party", a.Actor)
	}
	if !explorationActions[a.Type] {
		return reject(ReasonWrongMode, "%s is not allowed during exploration", a.Type)
	}

	switch a.Type {
	case types.ActionMove:
		return validateMove(a, g, defs)
	case types.ActionRest:
		return validateRest(a, g, defs)
	case types.ActionExplore:
		return nil
	}
	return nil
}

func validateEncounter(a types.Action, enc *state.Encounter, defs *state.Defs) *Rejection {
	actor, ok := enc.Entity(a.Actor)
	if !ok {
		return reject(ReasonUnknownActor, "actor %q is not in this encounter", a.Actor)
	}
	if !actor.Alive() {
		return reject(ReasonActorDown, "%s is down and cannot act", actor.Name)
	}
	if !encounterActions[a.Type] {
		return reject(ReasonWrongMode, "%s is not allowed during an encounter", a.Type)
	}
	if enc.ActiveID() != a.Actor {
		return reject(ReasonNotYourTurn, "it is not %s's turn", actor.Name)
	}
	if actor.HasEffect(entity.Stunned) {
		return reject(ReasonActorStunned, "%s is stunned and cannot act", actor.Name)
	}

	switch a.Type {
	case types.ActionAttack:
		return validateAttack(a, enc, actor, defs)
	case types.ActionCastSpell:
		return validateCast(a, enc, actor, defs)
	case types.ActionEndTurn:
		return nil
	}
	return nil
}

func validateMove(a types.Action, g *state.Global, defs *state.Defs) *Rejection {
	if a.Target == "" {
		return reject(ReasonMissingTarget, "move requires a target room")
	}
	room, ok := defs.Room(g.RoomID)
	if !ok {
		return reject(ReasonUnknownTarget, "current room %q is not defined", g.RoomID)
	}
	for _, conn := range room.Connections {
		if conn == a.Target {
			return nil
		}
	}
	return reject(ReasonNotConnected, "room %q is not connected to %q", a.Target, g.RoomID)
}

func validateRest(a types.Action, g *state.Global, defs *state.Defs) *Rejection {
	if a.Rest != types.RestShort && a.Rest != types.RestLong {
		return reject(ReasonBadRestKind, "rest kind must be short or long")
	}
	room, ok := defs.Room(g.RoomID)
	if !ok {
		return reject(ReasonUnknownTarget, "current room %q is not defined", g.RoomID)
	}
	if !room.RestAllowed {
		return reject(ReasonRestForbidden, "resting is not allowed in this room")
	}
	return nil
}

func validateAttack(a types.Action, enc *state.Encounter, actor *entity.Entity, defs *state.Defs) *Rejection {
	if a.AttackID == "" {
		return reject(ReasonUnknownAttack, "attack requires an attack id")
	}
	if !actor.KnowsAttack(a.AttackID) {
		return reject(ReasonUnknownAttack, "%s does not know attack %q", actor.Name, a.AttackID)
	}
	if _, ok := defs.Attack(a.AttackID); !ok {
		return reject(ReasonUnknownAttack, "attack %q is not defined", a.AttackID)
	}
	if a.Target == "" {
		return reject(ReasonMissingTarget, "attack requires a target")
	}
	target, ok := enc.Entity(a.Target)
	if !ok {
		return reject(ReasonUnknownTarget, "target %q is not in this encounter", a.Target)
	}
	if !target.Alive() {
		return reject(ReasonTargetDown, "%s is already down", target.Name)
	}
	return nil
}

func validateCast(a types.Action, enc *state.Encounter, actor *entity.Entity, defs *state.Defs) *Rejection {
	if a.SpellID == "" {
		return reject(ReasonUnknownSpell, "cast requires a spell id")
	}
	if !actor.KnowsSpell(a.SpellID) {
		return reject(ReasonUnknownSpell, "%s does not know spell %q", actor.Name, a.SpellID)
	}
	spell, ok := defs.Spell(a.SpellID)
	if !ok {
		return reject(ReasonUnknownSpell, "spell %q is not defined", a.SpellID)
	}
	if actor.Slots.Current <= 0 {
		return reject(ReasonNoSpellSlots, "%s has no spell slots left", actor.Name)
	}

	switch spell.Target {
	case types.TargetSelf:
		// Self-targeted: an explicit target, if given, must be the actor.
		if a.Target != "" && a.Target != a.Actor {
			return reject(ReasonExtraTarget, "%s targets the caster only", spell.Name)
		}
		return nil
	case types.TargetEnemies, types.TargetAllies:
		if a.Target != "" {
			return reject(ReasonExtraTarget, "%s affects all valid targets; no single target allowed", spell.Name)
		}
		return nil
	case types.TargetEnemy, types.TargetAlly:
		if a.Target == "" {
			return reject(ReasonMissingTarget, "%s requires a single target", spell.Name)
		}
		target, ok := enc.Entity(a.Target)
		if !ok {
			return reject(ReasonUnknownTarget, "target %q is not in this encounter", a.Target)
		}
		if !target.Alive() {
			return reject(ReasonTargetDown, "%s is already down", target.Name)
		}
		return nil
	}
	return reject(ReasonUnknownSpell, "spell %q has unknown target rule %q", a.SpellID, spell.Target)
}
