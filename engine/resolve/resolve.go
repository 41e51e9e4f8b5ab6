// Package resolve applies validated actions to state and produces the
// structured Outcome record. Resolution assumes validation already passed;
// dangling content references found here are reported as a Fault and leave
// state untouched rather than panicking.
package resolve

import (
	"fmt"

	"github.com/chicocaine/game-master-ai/engine/dice"
	"github.com/chicocaine/game-master-ai/engine/entity"
	"github.com/chicocaine/game-master-ai/engine/state"
	"github.com/chicocaine/game-master-ai/types"
)

// Action resolves one validated action. Exploration actions mutate the global
// state; encounter actions mutate the encounter snapshot. The returned error
// is reserved for pipeline invariant violations, not game outcomes.
func Action(a types.Action, g *state.Global, enc *state.Encounter, defs *state.Defs, r dice.Roller) (types.Outcome, error) {
	out := types.Outcome{Action: a, Mode: g.Mode}

	switch a.Type {
	case types.ActionMove:
		resolveMove(a, g, defs, &out)
	case types.ActionExplore:
		resolveExplore(g, defs, &out)
	case types.ActionRest:
		resolveRest(a, g, &out)
	case types.ActionAttack:
		return out, resolveAttack(a, enc, defs, r, &out)
	case types.ActionCastSpell:
		return out, resolveCast(a, enc, defs, r, &out)
	case types.ActionEndTurn:
		actor, _ := enc.Entity(a.Actor)
		if actor != nil {
			out.ActorName = actor.Name
			enc.Append("%s ends their turn", actor.Name)
		}
		out.Round = enc.Round
	default:
		return out, fmt.Errorf("unresolvable action type %q", a.Type)
	}
	return out, nil
}

func resolveMove(a types.Action, g *state.Global, defs *state.Defs, out *types.Outcome) {
	room, ok := defs.Room(a.Target)
	if !ok {
		out.Fault = fmt.Sprintf("room %q referenced but not defined", a.Target)
		return
	}
	g.RoomID = room.ID
	g.Visited[room.ID] = true
	fillRoom(room, out)

	// An uncleared encounter in the destination interrupts exploration.
	if room.Encounter != "" && !g.Cleared[room.Encounter] {
		out.EncounterStarted = room.Encounter
	}
}

func resolveExplore(g *state.Global, defs *state.Defs, out *types.Outcome) {
	room, ok := defs.Room(g.RoomID)
	if !ok {
		out.Fault = fmt.Sprintf("current room %q is not defined", g.RoomID)
		return
	}
	fillRoom(room, out)
}

func fillRoom(room types.RoomDef, out *types.Outcome) {
	out.RoomID = room.ID
	out.RoomDescription = room.Description
	out.Connections = append([]string(nil), room.Connections...)
	out.RestAllowed = room.RestAllowed
}

// resolveRest applies the rest formulas. Short: each living member regains
// 25% of max hp (rounded down) and one spell slot. Long: every member,
// including downed ones, returns to full hp and full slots.
func resolveRest(a types.Action, g *state.Global, out *types.Outcome) {
	rest := &types.RestOutcome{Kind: a.Rest, RoomID: g.RoomID}

	for _, p := range g.Party {
		entry := types.RestEntry{
			EntityID:    p.ID,
			Name:        p.Name,
			HPBefore:    p.HP,
			SlotsBefore: p.Slots.Current,
		}
		switch a.Rest {
		case types.RestShort:
			if !p.Alive() {
				continue
			}
			p.ApplyHeal(p.MaxHP / 4)
			p.RestoreSlots(1)
		case types.RestLong:
			entry.Revived = !p.Alive()
			p.HP = p.MaxHP
			p.RestoreAllSlots()
		}
		entry.HPAfter = p.HP
		entry.SlotsAfter = p.Slots.Current
		rest.Players = append(rest.Players, entry)
	}

	g.Rested[g.RoomID] = true
	out.Rest = rest
}

func resolveAttack(a types.Action, enc *state.Encounter, defs *state.Defs, r dice.Roller, out *types.Outcome) error {
	actor, _ := enc.Entity(a.Actor)
	target, _ := enc.Entity(a.Target)
	atk, ok := defs.Attack(a.AttackID)
	if !ok {
		out.Fault = fmt.Sprintf("attack %q referenced but not defined", a.AttackID)
		return nil
	}

	out.Round = enc.Round
	out.ActorName = actor.Name
	out.AttackName = atk.Name

	to, err := strike(actor, target, atk.Damage, atk.ToHit, atk.Status, r)
	if err != nil {
		out.Fault = err.Error()
		return nil
	}
	out.Targets = []types.TargetOutcome{to}
	logStrike(enc, actor.Name, atk.Name, to)
	return nil
}

// strike runs one to-hit contest and, on a hit, the damage roll and any
// on-hit status. A total equal to the effective AC hits.
func strike(actor, target *entity.Entity, damage string, bonus int, status *types.StatusSpec, r dice.Roller) (types.TargetOutcome, error) {
	to := types.TargetOutcome{TargetID: target.ID, TargetName: target.Name}

	roll := dice.D20(r)
	hit := types.HitResult{
		Roll:      roll,
		AttackMod: actor.EffectiveAttackMod(),
		Bonus:     bonus,
		TargetAC:  target.EffectiveAC(),
	}
	hit.Total = hit.Roll + hit.AttackMod + hit.Bonus
	hit.Hit = hit.Total >= hit.TargetAC
	to.ToHit = &hit

	if !hit.Hit {
		to.HPAfter = target.HP
		return to, nil
	}

	dmg, err := dice.Roll(damage, r)
	if err != nil {
		return to, fmt.Errorf("damage expression %q: %v", damage, err)
	}
	to.Damage = &dmg
	to.DamageApplied = target.ApplyDamage(dmg.Total)
	to.HPAfter = target.HP
	to.Downed = !target.Alive()

	if status != nil && target.Alive() {
		applyStatus(target, status, actor.ID, &to)
	}
	return to, nil
}

func applyStatus(target *entity.Entity, spec *types.StatusSpec, source string, to *types.TargetOutcome) {
	st := entity.StatusType(spec.Type)
	if !entity.KnownStatus(st) {
		return
	}
	target.AddEffect(entity.StatusEffect{
		Type:      st,
		Duration:  spec.Duration,
		Magnitude: spec.Magnitude,
		Source:    source,
	})
	to.StatusApplied = spec
}

func resolveCast(a types.Action, enc *state.Encounter, defs *state.Defs, r dice.Roller, out *types.Outcome) error {
	actor, _ := enc.Entity(a.Actor)
	spell, ok := defs.Spell(a.SpellID)
	if !ok {
		out.Fault = fmt.Sprintf("spell %q referenced but not defined", a.SpellID)
		return nil
	}

	out.Round = enc.Round
	out.ActorName = actor.Name
	out.SpellName = spell.Name

	targets, fault := selectTargets(a, spell, enc, actor)
	if fault != "" {
		out.Fault = fault
		return nil
	}

	// The validator guarantees a slot; hitting this error means the pipeline
	// skipped validation.
	if err := actor.ConsumeSlot(); err != nil {
		return fmt.Errorf("cast %s by %s: %w", spell.ID, actor.ID, err)
	}
	out.SlotSpent = true

	for _, target := range targets {
		var to types.TargetOutcome
		switch spell.Category {
		case types.SpellDamage:
			// Damage spells contest AC like weapon attacks, each target rolled
			// independently.
			st, err := strike(actor, target, spell.Damage, 0, spell.Status, r)
			if err != nil {
				out.Fault = err.Error()
				return nil
			}
			to = st
		case types.SpellHeal:
			heal, err := dice.Roll(spell.Heal, r)
			if err != nil {
				out.Fault = fmt.Sprintf("heal expression %q: %v", spell.Heal, err)
				return nil
			}
			to = types.TargetOutcome{TargetID: target.ID, TargetName: target.Name}
			to.Heal = &heal
			to.HealApplied = target.ApplyHeal(heal.Total)
			to.HPAfter = target.HP
		case types.SpellStatus:
			to = types.TargetOutcome{TargetID: target.ID, TargetName: target.Name, HPAfter: target.HP}
			if spell.Status != nil {
				applyStatus(target, spell.Status, actor.ID, &to)
			}
		case types.SpellCleanse:
			to = types.TargetOutcome{TargetID: target.ID, TargetName: target.Name, HPAfter: target.HP}
			kinds := make([]entity.StatusType, 0, len(spell.Cleanses))
			for _, c := range spell.Cleanses {
				kinds = append(kinds, entity.StatusType(c))
			}
			for _, removed := range target.RemoveEffects(kinds...) {
				to.StatusRemoved = append(to.StatusRemoved, string(removed))
			}
		default:
			out.Fault = fmt.Sprintf("spell %q has unknown category %q", spell.ID, spell.Category)
			return nil
		}
		out.Targets = append(out.Targets, to)
		logSpell(enc, actor.Name, spell, to)
	}
	return nil
}

// selectTargets expands a spell's target rule into concrete entities. Enemy
// and ally are relative to the caster's role, so enemy casters aim their
// "enemy" spells at players.
func selectTargets(a types.Action, spell types.SpellDef, enc *state.Encounter, actor *entity.Entity) ([]*entity.Entity, string) {
	hostile := entity.RoleEnemy
	friendly := entity.RolePlayer
	if actor.Role == entity.RoleEnemy {
		hostile, friendly = friendly, hostile
	}

	switch spell.Target {
	case types.TargetSelf:
		return []*entity.Entity{actor}, ""
	case types.TargetEnemy, types.TargetAlly:
		target, ok := enc.Entity(a.Target)
		if !ok {
			return nil, fmt.Sprintf("target %q is not in this encounter", a.Target)
		}
		return []*entity.Entity{target}, ""
	case types.TargetEnemies:
		return livingByRole(enc, hostile), ""
	case types.TargetAllies:
		return livingByRole(enc, friendly), ""
	}
	return nil, fmt.Sprintf("spell %q has unknown target rule %q", spell.ID, spell.Target)
}

func livingByRole(enc *state.Encounter, role entity.Role) []*entity.Entity {
	if role == entity.RolePlayer {
		return enc.LivingPlayers()
	}
	return enc.LivingEnemies()
}

func logStrike(enc *state.Encounter, actor, attack string, to types.TargetOutcome) {
	if to.ToHit != nil && !to.ToHit.Hit {
		enc.Append("%s misses %s with %s (%d vs %d)", actor, to.TargetName, attack, to.ToHit.Total, to.ToHit.TargetAC)
		return
	}
	enc.Append("%s hits %s with %s for %d damage", actor, to.TargetName, attack, to.DamageApplied)
	if to.Downed {
		enc.Append("%s goes down", to.TargetName)
	}
}

func logSpell(enc *state.Encounter, actor string, spell types.SpellDef, to types.TargetOutcome) {
	switch spell.Category {
	case types.SpellDamage:
		logStrike(enc, actor, spell.Name, to)
	case types.SpellHeal:
		enc.Append("%s heals %s for %d with %s", actor, to.TargetName, to.HealApplied, spell.Name)
	case types.SpellStatus:
		if to.StatusApplied != nil {
			enc.Append("%s afflicts %s with %s (%s)", actor, to.TargetName, to.StatusApplied.Type, spell.Name)
		}
	case types.SpellCleanse:
		enc.Append("%s cleanses %s with %s", actor, to.TargetName, spell.Name)
	}
}
