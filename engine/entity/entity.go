// Package entity models a combatant, player or enemy, with clamped hit
// points, spell slots, and an ordered list of active status effects. All
// combat math is role-agnostic; Role only gates which collaborator supplies
// the next action.
package entity

import "errors"

// ErrNoSpellSlots is returned by ConsumeSlot when no slot remains. The
// validator catches this case first; seeing it surface from the resolver
// means a pipeline invariant was violated.
var ErrNoSpellSlots = errors.New("no spell slots available")

// Role discriminates players from enemies.
type Role string

const (
	RolePlayer Role = "player"
	RoleEnemy  Role = "enemy"
)

// SpellSlots tracks a spell-slot pool. 0 ≤ Current ≤ Max always holds.
type SpellSlots struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Entity is one combatant. An entity at 0 hp is "down": excluded from turn
// order and unable to act, but it persists as data. Players remain party
// members and can be revived by a long rest.
type Entity struct {
	ID        string         `json:"entity_id"`
	Name      string         `json:"name"`
	Role      Role           `json:"role"`
	Race      string         `json:"race"`
	Class     string         `json:"class"`
	HP        int            `json:"hp"`
	MaxHP     int            `json:"max_hp"`
	AC        int            `json:"ac"`
	AttackMod int            `json:"attack_modifier"`
	Attacks   []string       `json:"known_attacks"`
	Spells    []string       `json:"known_spells"`
	Slots     SpellSlots     `json:"spell_slots"`
	Effects   []StatusEffect `json:"status_effects"`
}

// Alive reports whether the entity can still act.
func (e *Entity) Alive() bool {
	return e.HP > 0
}

// ApplyDamage reduces hp, clamping at 0. Returns the amount actually
// subtracted, which never exceeds the pre-damage hp.
func (e *Entity) ApplyDamage(amount int) int {
	if amount < 0 {
		amount = 0
	}
	actual := amount
	if actual > e.HP {
		actual = e.HP
	}
	e.HP -= actual
	return actual
}

// ApplyHeal raises hp, clamping at MaxHP. Returns the amount actually restored.
func (e *Entity) ApplyHeal(amount int) int {
	if amount < 0 {
		amount = 0
	}
	actual := amount
	if e.HP+actual > e.MaxHP {
		actual = e.MaxHP - e.HP
	}
	e.HP += actual
	return actual
}

// AddEffect attaches a status effect. An existing effect of the same type is
// replaced outright: the newer application wins, no stacking or merging.
// Returns true if an effect was replaced.
func (e *Entity) AddEffect(eff StatusEffect) bool {
	for i := range e.Effects {
		if e.Effects[i].Type == eff.Type {
			e.Effects[i] = eff
			return true
		}
	}
	e.Effects = append(e.Effects, eff)
	return false
}

// RemoveEffects strips every effect whose type is in kinds, immediately and
// regardless of remaining duration. Returns the types actually removed.
func (e *Entity) RemoveEffects(kinds ...StatusType) []StatusType {
	drop := make(map[StatusType]bool, len(kinds))
	for _, k := range kinds {
		drop[k] = true
	}
	var removed []StatusType
	kept := e.Effects[:0]
	for _, eff := range e.Effects {
		if drop[eff.Type] {
			removed = append(removed, eff.Type)
			continue
		}
		kept = append(kept, eff)
	}
	e.Effects = kept
	return removed
}

// HasEffect reports whether an effect of the given type is active.
func (e *Entity) HasEffect(kind StatusType) bool {
	for _, eff := range e.Effects {
		if eff.Type == kind {
			return true
		}
	}
	return false
}

// EffectiveAC is base AC plus the signed sum of fortified/vulnerable magnitudes.
func (e *Entity) EffectiveAC() int {
	ac := e.AC
	for _, eff := range e.Effects {
		switch eff.Type {
		case Fortified:
			ac += eff.Magnitude
		case Vulnerable:
			ac -= eff.Magnitude
		}
	}
	return ac
}

// EffectiveAttackMod is the base attack modifier plus the signed sum of
// strengthened/weakened magnitudes.
func (e *Entity) EffectiveAttackMod() int {
	mod := e.AttackMod
	for _, eff := range e.Effects {
		switch eff.Type {
		case Strengthened:
			mod += eff.Magnitude
		case Weakened:
			mod -= eff.Magnitude
		}
	}
	return mod
}

// ConsumeSlot spends one spell slot.
func (e *Entity) ConsumeSlot() error {
	if e.Slots.Current <= 0 {
		return ErrNoSpellSlots
	}
	e.Slots.Current--
	return nil
}

// RestoreSlots restores up to amount spell slots, clamped to Max.
func (e *Entity) RestoreSlots(amount int) {
	e.Slots.Current += amount
	if e.Slots.Current > e.Slots.Max {
		e.Slots.Current = e.Slots.Max
	}
}

// RestoreAllSlots refills the pool.
func (e *Entity) RestoreAllSlots() {
	e.Slots.Current = e.Slots.Max
}

// KnowsAttack reports whether the attack ID is in the entity's known list.
func (e *Entity) KnowsAttack(id string) bool {
	return contains(e.Attacks, id)
}

// KnowsSpell reports whether the spell ID is in the entity's known list.
func (e *Entity) KnowsSpell(id string) bool {
	return contains(e.Spells, id)
}

// Clone returns a deep copy. Encounter snapshots use this so combat never
// mutates the persistent party through shared references.
func (e *Entity) Clone() *Entity {
	c := *e
	c.Attacks = append([]string(nil), e.Attacks...)
	c.Spells = append([]string(nil), e.Spells...)
	c.Effects = append([]StatusEffect(nil), e.Effects...)
	return &c
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
