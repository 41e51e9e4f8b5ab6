// Package intake turns player text into structured actions: tokenize the
// command, pick the acting entity for the current mode, and resolve names to
// content IDs. Everything downstream of intake works with IDs only.
package intake

import (
	"fmt"
	"strings"

	"github.com/chicocaine/game-master-ai/engine"
	"github.com/chicocaine/game-master-ai/engine/entity"
	"github.com/chicocaine/game-master-ai/types"
)

// ParseError reports an input the intake could not turn into an action.
type ParseError struct {
	Input  string
	Detail string
}

func (e *ParseError) Error() string {
	return e.Detail
}

func parseErr(input, format string, args ...any) *ParseError {
	return &ParseError{Input: input, Detail: fmt.Sprintf(format, args...)}
}

// Parse converts one line of player input into a structured action against
// the current engine state. The actor is implicit: the first living party
// member during exploration, the active combatant during an encounter.
func Parse(input string, eng *engine.Engine) (types.Action, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) == 0 {
		return types.Action{}, parseErr(input, "empty command")
	}

	actor, err := currentActor(eng)
	if err != nil {
		return types.Action{}, err
	}

	verb, rest := fields[0], fields[1:]
	switch verb {
	case "move", "go":
		return parseMove(input, actor, rest, eng)
	case "explore", "look":
		return types.Action{Actor: actor.ID, Type: types.ActionExplore}, nil
	case "rest":
		return parseRest(input, actor, rest)
	case "attack":
		return parseAttack(input, actor, rest, eng)
	case "cast":
		return parseCast(input, actor, rest, eng)
	case "end", "pass", "done":
		return types.Action{Actor: actor.ID, Type: types.ActionEndTurn}, nil
	}
	return types.Action{}, parseErr(input, "unknown command %q", verb)
}

func currentActor(eng *engine.Engine) (*entity.Entity, error) {
	if eng.Global.Mode == types.ModeEncounter {
		active := eng.ActiveEntity()
		if active == nil {
			return nil, fmt.Errorf("no active combatant")
		}
		return active, nil
	}
	living := eng.Global.LivingPlayers()
	if len(living) == 0 {
		return nil, fmt.Errorf("no living party members")
	}
	return living[0], nil
}

func parseMove(input string, actor *entity.Entity, rest []string, eng *engine.Engine) (types.Action, error) {
	if len(rest) == 0 {
		return types.Action{}, parseErr(input, "move where? (move <room>)")
	}
	roomID, ok := resolveRoom(strings.Join(rest, " "), eng)
	if !ok {
		return types.Action{}, parseErr(input, "no room called %q from here", strings.Join(rest, " "))
	}
	return types.Action{Actor: actor.ID, Type: types.ActionMove, Target: roomID}, nil
}

func parseRest(input string, actor *entity.Entity, rest []string) (types.Action, error) {
	if len(rest) == 0 {
		return types.Action{}, parseErr(input, "rest how? (rest short | rest long)")
	}
	switch rest[0] {
	case "short":
		return types.Action{Actor: actor.ID, Type: types.ActionRest, Rest: types.RestShort}, nil
	case "long":
		return types.Action{Actor: actor.ID, Type: types.ActionRest, Rest: types.RestLong}, nil
	}
	return types.Action{}, parseErr(input, "rest kind must be short or long")
}

// parseAttack handles "attack <target>" and "attack <target> with <attack>".
// Without a "with" clause the actor's first known attack is used.
func parseAttack(input string, actor *entity.Entity, rest []string, eng *engine.Engine) (types.Action, error) {
	targetWords, attackWords := splitClause(rest, "with")
	if len(targetWords) == 0 {
		return types.Action{}, parseErr(input, "attack whom? (attack <target> [with <attack>])")
	}

	targetID, ok := resolveCombatant(strings.Join(targetWords, " "), eng)
	if !ok {
		return types.Action{}, parseErr(input, "no combatant called %q", strings.Join(targetWords, " "))
	}

	attackID := ""
	if len(attackWords) > 0 {
		attackID, ok = resolveAttack(strings.Join(attackWords, " "), actor, eng)
		if !ok {
			return types.Action{}, parseErr(input, "%s has no attack called %q", actor.Name, strings.Join(attackWords, " "))
		}
	} else if len(actor.Attacks) > 0 {
		attackID = actor.Attacks[0]
	} else {
		return types.Action{}, parseErr(input, "%s has no attacks", actor.Name)
	}

	return types.Action{Actor: actor.ID, Type: types.ActionAttack, Target: targetID, AttackID: attackID}, nil
}

// parseCast handles "cast <spell>" and "cast <spell> on <target>".
func parseCast(input string, actor *entity.Entity, rest []string, eng *engine.Engine) (types.Action, error) {
	spellWords, targetWords := splitClause(rest, "on")
	if len(spellWords) == 0 {
		return types.Action{}, parseErr(input, "cast what? (cast <spell> [on <target>])")
	}

	spellID, ok := resolveSpell(strings.Join(spellWords, " "), actor, eng)
	if !ok {
		return types.Action{}, parseErr(input, "%s has no spell called %q", actor.Name, strings.Join(spellWords, " "))
	}

	targetID := ""
	if len(targetWords) > 0 {
		targetID, ok = resolveCombatant(strings.Join(targetWords, " "), eng)
		if !ok {
			return types.Action{}, parseErr(input, "no combatant called %q", strings.Join(targetWords, " "))
		}
	}

	return types.Action{Actor: actor.ID, Type: types.ActionCastSpell, SpellID: spellID, Target: targetID}, nil
}

// splitClause splits words at the first occurrence of sep, dropping it.
func splitClause(words []string, sep string) (before, after []string) {
	for i, w := range words {
		if w == sep {
			return words[:i], words[i+1:]
		}
	}
	return words, nil
}

// normalize folds case and maps spaces to underscores so "Bone Chapel"
// matches the ID bone_chapel and the display name alike.
func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

func resolveRoom(name string, eng *engine.Engine) (string, bool) {
	want := normalize(name)
	room, ok := eng.Defs.Room(eng.Global.RoomID)
	if !ok {
		return "", false
	}
	// Only connected rooms are candidates; validation rechecks anyway.
	for _, conn := range room.Connections {
		if normalize(conn) == want {
			return conn, true
		}
	}
	// Fall back to any defined room ID so validation can name the rejection.
	if _, ok := eng.Defs.Room(want); ok {
		return want, true
	}
	return "", false
}

func resolveCombatant(name string, eng *engine.Engine) (string, bool) {
	want := normalize(name)
	var candidates []*entity.Entity
	if eng.Encounter != nil {
		candidates = eng.Encounter.Entities
	} else {
		candidates = eng.Global.Party
	}
	for _, e := range candidates {
		if normalize(e.ID) == want || normalize(e.Name) == want {
			return e.ID, true
		}
	}
	return "", false
}

func resolveAttack(name string, actor *entity.Entity, eng *engine.Engine) (string, bool) {
	want := normalize(name)
	for _, id := range actor.Attacks {
		if normalize(id) == want {
			return id, true
		}
		if def, ok := eng.Defs.Attack(id); ok && normalize(def.Name) == want {
			return id, true
		}
	}
	return "", false
}

func resolveSpell(name string, actor *entity.Entity, eng *engine.Engine) (string, bool) {
	want := normalize(name)
	for _, id := range actor.Spells {
		if normalize(id) == want {
			return id, true
		}
		if def, ok := eng.Defs.Spell(id); ok && normalize(def.Name) == want {
			return id, true
		}
	}
	return "", false
}
