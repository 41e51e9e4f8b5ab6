// Package state holds the immutable content definitions and the two mutable
// state containers: the persistent Global session state and the ephemeral
// Encounter state.
package state

import (
	"fmt"

	"github.com/chicocaine/game-master-ai/engine/entity"
	"github.com/chicocaine/game-master-ai/types"
)

// Defs holds the immutable game content compiled by the loader. The engine
// trusts referential integrity: unknown IDs are the loader's validation
// responsibility.
type Defs struct {
	Game       types.GameDef
	Dungeons   map[string]types.DungeonDef
	Rooms      map[string]types.RoomDef
	Encounters map[string]types.EncounterDef
	Attacks    map[string]types.AttackDef
	Spells     map[string]types.SpellDef
	Enemies    map[string]types.EnemyDef
	Players    map[string]types.PlayerDef
	Classes    map[string]types.ClassDef
	Races      map[string]types.RaceDef
}

// Room looks up a room definition.
func (d *Defs) Room(id string) (types.RoomDef, bool) {
	r, ok := d.Rooms[id]
	return r, ok
}

// Attack looks up an attack definition.
func (d *Defs) Attack(id string) (types.AttackDef, bool) {
	a, ok := d.Attacks[id]
	return a, ok
}

// Spell looks up a spell definition.
func (d *Defs) Spell(id string) (types.SpellDef, bool) {
	s, ok := d.Spells[id]
	return s, ok
}

// NewPlayer builds a party entity from a player template, deriving combat
// stats from its class and race definitions.
func (d *Defs) NewPlayer(def types.PlayerDef) (*entity.Entity, error) {
	class, ok := d.Classes[def.Class]
	if !ok {
		return nil, fmt.Errorf("player %s: unknown class %q", def.ID, def.Class)
	}
	race, ok := d.Races[def.Race]
	if !ok {
		return nil, fmt.Errorf("player %s: unknown race %q", def.ID, def.Race)
	}

	hp := class.StartingHP + race.HPBonus
	attacks := append(append([]string(nil), class.Attacks...), def.Attacks...)
	spells := append(append([]string(nil), class.Spells...), def.Spells...)

	return &entity.Entity{
		ID:        def.ID,
		Name:      def.Name,
		Role:      entity.RolePlayer,
		Race:      def.Race,
		Class:     def.Class,
		HP:        hp,
		MaxHP:     hp,
		AC:        class.BaseAC + race.ACBonus,
		AttackMod: class.AttackMod + race.AttackBonus,
		Attacks:   attacks,
		Spells:    spells,
		Slots:     entity.SpellSlots{Current: class.SpellSlots, Max: class.SpellSlots},
		Effects:   []entity.StatusEffect{},
	}, nil
}

// NewEnemy builds a combat entity from an enemy template. The instance ID may
// differ from the template ID when an encounter spawns duplicates.
func (d *Defs) NewEnemy(templateID, instanceID string) (*entity.Entity, error) {
	def, ok := d.Enemies[templateID]
	if !ok {
		return nil, fmt.Errorf("unknown enemy template %q", templateID)
	}
	return &entity.Entity{
		ID:        instanceID,
		Name:      def.Name,
		Role:      entity.RoleEnemy,
		Race:      def.Race,
		Class:     def.Class,
		HP:        def.HP,
		MaxHP:     def.HP,
		AC:        def.AC,
		AttackMod: def.AttackMod,
		Attacks:   append([]string(nil), def.Attacks...),
		Spells:    append([]string(nil), def.Spells...),
		Slots:     entity.SpellSlots{Current: def.SpellSlots, Max: def.SpellSlots},
		Effects:   []entity.StatusEffect{},
	}, nil
}
