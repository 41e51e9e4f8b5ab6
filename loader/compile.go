// Package loader loads Lua game content into Go structs at startup.
// The Lua VM is discarded after loading; zero Lua at runtime.
package loader

import (
	"fmt"

	"github.com/chicocaine/game-master-ai/engine/state"
	"github.com/chicocaine/game-master-ai/types"
	lua "github.com/yuin/gopher-lua"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// stringList converts an array-style table field into a string slice.
func stringList(tbl *lua.LTable, key string) []string {
	inner := getTable(tbl, key)
	if inner == nil {
		return nil
	}
	var out []string
	inner.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		if s, ok := v.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}

// statusSpec compiles an optional status payload table.
func statusSpec(tbl *lua.LTable, key string) *types.StatusSpec {
	inner := getTable(tbl, key)
	if inner == nil {
		return nil
	}
	return &types.StatusSpec{
		Type:      getString(inner, "type"),
		Duration:  getInt(inner, "duration"),
		Magnitude: getInt(inner, "magnitude"),
	}
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Dungeons:   map[string]types.DungeonDef{},
		Rooms:      map[string]types.RoomDef{},
		Encounters: map[string]types.EncounterDef{},
		Attacks:    map[string]types.AttackDef{},
		Spells:     map[string]types.SpellDef{},
		Enemies:    map[string]types.EnemyDef{},
		Players:    map[string]types.PlayerDef{},
		Classes:    map[string]types.ClassDef{},
		Races:      map[string]types.RaceDef{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = types.GameDef{
		Title:   getString(coll.game, "title"),
		Author:  getString(coll.game, "author"),
		Version: getString(coll.game, "version"),
		Intro:   getString(coll.game, "intro"),
		Dungeon: getString(coll.game, "dungeon"),
	}

	for _, raw := range coll.dungeons {
		if _, dup := defs.Dungeons[raw.id]; dup {
			return nil, fmt.Errorf("duplicate dungeon %q", raw.id)
		}
		defs.Dungeons[raw.id] = types.DungeonDef{
			ID:        raw.id,
			Name:      getString(raw.table, "name"),
			EntryRoom: getString(raw.table, "entry"),
			ExitRoom:  getString(raw.table, "exit"),
		}
	}

	for _, raw := range coll.rooms {
		if _, dup := defs.Rooms[raw.id]; dup {
			return nil, fmt.Errorf("duplicate room %q", raw.id)
		}
		defs.Rooms[raw.id] = types.RoomDef{
			ID:          raw.id,
			Dungeon:     getString(raw.table, "dungeon"),
			Description: getString(raw.table, "description"),
			Connections: stringList(raw.table, "connections"),
			Encounter:   getString(raw.table, "encounter"),
			RestAllowed: getBool(raw.table, "rest_allowed", false),
		}
	}

	// Mark exit rooms from their dungeon definitions.
	for _, dungeon := range defs.Dungeons {
		if room, ok := defs.Rooms[dungeon.ExitRoom]; ok {
			room.Exit = true
			defs.Rooms[room.ID] = room
		}
	}

	for _, raw := range coll.encounters {
		if _, dup := defs.Encounters[raw.id]; dup {
			return nil, fmt.Errorf("duplicate encounter %q", raw.id)
		}
		defs.Encounters[raw.id] = types.EncounterDef{
			ID:      raw.id,
			Enemies: stringList(raw.table, "enemies"),
			Reward:  getInt(raw.table, "reward"),
		}
	}

	for _, raw := range coll.attacks {
		if _, dup := defs.Attacks[raw.id]; dup {
			return nil, fmt.Errorf("duplicate attack %q", raw.id)
		}
		defs.Attacks[raw.id] = types.AttackDef{
			ID:     raw.id,
			Name:   getString(raw.table, "name"),
			Damage: getString(raw.table, "damage"),
			ToHit:  getInt(raw.table, "to_hit"),
			Status: statusSpec(raw.table, "status"),
		}
	}

	for _, raw := range coll.spells {
		if _, dup := defs.Spells[raw.id]; dup {
			return nil, fmt.Errorf("duplicate spell %q", raw.id)
		}
		defs.Spells[raw.id] = types.SpellDef{
			ID:       raw.id,
			Name:     getString(raw.table, "name"),
			Category: types.SpellCategory(getString(raw.table, "category")),
			Target:   types.TargetRule(getString(raw.table, "target")),
			Damage:   getString(raw.table, "damage"),
			Heal:     getString(raw.table, "heal"),
			Status:   statusSpec(raw.table, "status"),
			Cleanses: stringList(raw.table, "cleanses"),
		}
	}

	for _, raw := range coll.enemies {
		if _, dup := defs.Enemies[raw.id]; dup {
			return nil, fmt.Errorf("duplicate enemy %q", raw.id)
		}
		defs.Enemies[raw.id] = types.EnemyDef{
			ID:         raw.id,
			Name:       getString(raw.table, "name"),
			Race:       getString(raw.table, "race"),
			Class:      getString(raw.table, "class"),
			HP:         getInt(raw.table, "hp"),
			AC:         getInt(raw.table, "ac"),
			AttackMod:  getInt(raw.table, "attack_modifier"),
			SpellSlots: getInt(raw.table, "spell_slots"),
			Attacks:    stringList(raw.table, "attacks"),
			Spells:     stringList(raw.table, "spells"),
		}
	}

	for _, raw := range coll.players {
		if _, dup := defs.Players[raw.id]; dup {
			return nil, fmt.Errorf("duplicate player %q", raw.id)
		}
		defs.Players[raw.id] = types.PlayerDef{
			ID:      raw.id,
			Name:    getString(raw.table, "name"),
			Race:    getString(raw.table, "race"),
			Class:   getString(raw.table, "class"),
			Attacks: stringList(raw.table, "attacks"),
			Spells:  stringList(raw.table, "spells"),
		}
	}

	for _, raw := range coll.classes {
		if _, dup := defs.Classes[raw.id]; dup {
			return nil, fmt.Errorf("duplicate class %q", raw.id)
		}
		defs.Classes[raw.id] = types.ClassDef{
			ID:         raw.id,
			Name:       getString(raw.table, "name"),
			StartingHP: getInt(raw.table, "starting_hp"),
			BaseAC:     getInt(raw.table, "base_ac"),
			AttackMod:  getInt(raw.table, "attack_modifier"),
			SpellSlots: getInt(raw.table, "spell_slots"),
			Attacks:    stringList(raw.table, "attacks"),
			Spells:     stringList(raw.table, "spells"),
		}
	}

	for _, raw := range coll.races {
		if _, dup := defs.Races[raw.id]; dup {
			return nil, fmt.Errorf("duplicate race %q", raw.id)
		}
		defs.Races[raw.id] = types.RaceDef{
			ID:          raw.id,
			Name:        getString(raw.table, "name"),
			HPBonus:     getInt(raw.table, "hp_bonus"),
			ACBonus:     getInt(raw.table, "ac_bonus"),
			AttackBonus: getInt(raw.table, "attack_bonus"),
		}
	}

	return defs, nil
}
