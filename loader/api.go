package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors as globals. Except for Game,
// every constructor is curried: Room("id") returns a function that takes the
// definition table, so content reads as Room "crypt_hall" { ... }.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	curried := func(sink *[]rawDef) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				*sink = append(*sink, rawDef{id: id, table: tbl})
				return 0
			}))
			return 1
		})
	}

	L.SetGlobal("Dungeon", curried(&coll.dungeons))
	L.SetGlobal("Room", curried(&coll.rooms))
	L.SetGlobal("Encounter", curried(&coll.encounters))
	L.SetGlobal("Enemy", curried(&coll.enemies))
	L.SetGlobal("Player", curried(&coll.players))
	L.SetGlobal("Class", curried(&coll.classes))
	L.SetGlobal("Race", curried(&coll.races))
	L.SetGlobal("Attack", curried(&coll.attacks))
	L.SetGlobal("Spell", curried(&coll.spells))

	// Status("type", duration, magnitude) builds a status payload table for
	// attack and spell definitions.
	L.SetGlobal("Status", L.NewFunction(func(L *lua.LState) int {
		statusType := L.CheckString(1)
		duration := L.CheckNumber(2)
		magnitude := L.OptNumber(3, 0)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(statusType))
		tbl.RawSetString("duration", duration)
		tbl.RawSetString("magnitude", magnitude)
		L.Push(tbl)
		return 1
	}))
}
