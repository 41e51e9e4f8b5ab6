package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/chicocaine/game-master-ai/engine/dice"
	"github.com/chicocaine/game-master-ai/engine/entity"
	"github.com/chicocaine/game-master-ai/engine/state"
	"github.com/chicocaine/game-master-ai/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

var validCategories = map[types.SpellCategory]bool{
	types.SpellDamage:  true,
	types.SpellHeal:    true,
	types.SpellStatus:  true,
	types.SpellCleanse: true,
}

var validTargetRules = map[types.TargetRule]bool{
	types.TargetSelf:    true,
	types.TargetEnemy:   true,
	types.TargetAlly:    true,
	types.TargetEnemies: true,
	types.TargetAllies:  true,
}

// validate checks the compiled defs for referential integrity and consistency.
// The engine trusts every ID after this passes.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}

	// Game metadata and starting dungeon.
	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}
	if defs.Game.Dungeon == "" {
		ve.Errors = append(ve.Errors, "Game.dungeon is required")
	} else if _, ok := defs.Dungeons[defs.Game.Dungeon]; !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"starting dungeon %q not found in defined dungeons", defs.Game.Dungeon))
	}

	validateDungeons(defs, ve)
	validateRooms(defs, ve)
	validateEncounters(defs, ve)
	validateAttacks(defs, ve)
	validateSpells(defs, ve)
	validateCombatants(defs, ve)

	// Print warnings to stderr.
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateDungeons(defs *state.Defs, ve *ValidationError) {
	for id, d := range defs.Dungeons {
		if _, ok := defs.Rooms[d.EntryRoom]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"dungeon %q entry room %q is not defined", id, d.EntryRoom))
		}
		if _, ok := defs.Rooms[d.ExitRoom]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"dungeon %q exit room %q is not defined", id, d.ExitRoom))
		}
	}
}

func validateRooms(defs *state.Defs, ve *ValidationError) {
	for id, room := range defs.Rooms {
		for _, conn := range room.Connections {
			other, ok := defs.Rooms[conn]
			if !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"room %q connects to undefined room %q", id, conn))
				continue
			}
			// Connections are undirected: the reverse edge must exist too.
			if !containsString(other.Connections, id) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"room %q connects to %q but %q does not connect back", id, conn, conn))
			}
		}
		if room.Encounter != "" {
			if _, ok := defs.Encounters[room.Encounter]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"room %q references undefined encounter %q", id, room.Encounter))
			}
		}
		if room.Dungeon != "" {
			if _, ok := defs.Dungeons[room.Dungeon]; !ok {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"room %q names undefined dungeon %q", id, room.Dungeon))
			}
		}
	}
}

func validateEncounters(defs *state.Defs, ve *ValidationError) {
	for id, enc := range defs.Encounters {
		if len(enc.Enemies) == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("encounter %q has no enemies", id))
		}
		for _, templateID := range enc.Enemies {
			if _, ok := defs.Enemies[templateID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"encounter %q references undefined enemy %q", id, templateID))
			}
		}
	}
}

func validateAttacks(defs *state.Defs, ve *ValidationError) {
	for id, atk := range defs.Attacks {
		if _, err := dice.Parse(atk.Damage); err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"attack %q damage: %v", id, err))
		}
		validateStatus(atk.Status, fmt.Sprintf("attack %q", id), ve)
	}
}

func validateSpells(defs *state.Defs, ve *ValidationError) {
	for id, spell := range defs.Spells {
		if !validCategories[spell.Category] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"spell %q has unknown category %q", id, spell.Category))
			continue
		}
		if !validTargetRules[spell.Target] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"spell %q has unknown target rule %q", id, spell.Target))
		}

		switch spell.Category {
		case types.SpellDamage:
			if _, err := dice.Parse(spell.Damage); err != nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf("spell %q damage: %v", id, err))
			}
		case types.SpellHeal:
			if _, err := dice.Parse(spell.Heal); err != nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf("spell %q heal: %v", id, err))
			}
		case types.SpellStatus:
			if spell.Status == nil {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"spell %q is a status spell but carries no status", id))
			}
		case types.SpellCleanse:
			if len(spell.Cleanses) == 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"spell %q is a cleanse spell but cleanses nothing", id))
			}
			for _, c := range spell.Cleanses {
				if !entity.KnownStatus(entity.StatusType(c)) {
					ve.Errors = append(ve.Errors, fmt.Sprintf(
						"spell %q cleanses unknown status %q", id, c))
				}
			}
		}
		validateStatus(spell.Status, fmt.Sprintf("spell %q", id), ve)
	}
}

func validateCombatants(defs *state.Defs, ve *ValidationError) {
	if len(defs.Players) == 0 {
		ve.Errors = append(ve.Errors, "at least one Player is required")
	}

	for id, p := range defs.Players {
		if _, ok := defs.Classes[p.Class]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"player %q references undefined class %q", id, p.Class))
		}
		if _, ok := defs.Races[p.Race]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"player %q references undefined race %q", id, p.Race))
		}
		validateMoveRefs(defs, fmt.Sprintf("player %q", id), p.Attacks, p.Spells, ve)
	}

	for id, e := range defs.Enemies {
		if e.HP <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("enemy %q must have positive hp", id))
		}
		if len(e.Attacks) == 0 && len(e.Spells) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"enemy %q has no attacks or spells", id))
		}
		validateMoveRefs(defs, fmt.Sprintf("enemy %q", id), e.Attacks, e.Spells, ve)
	}

	for id, c := range defs.Classes {
		if c.StartingHP <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"class %q must have positive starting_hp", id))
		}
		validateMoveRefs(defs, fmt.Sprintf("class %q", id), c.Attacks, c.Spells, ve)
	}
}

func validateMoveRefs(defs *state.Defs, owner string, attacks, spells []string, ve *ValidationError) {
	for _, id := range attacks {
		if _, ok := defs.Attacks[id]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s references undefined attack %q", owner, id))
		}
	}
	for _, id := range spells {
		if _, ok := defs.Spells[id]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"%s references undefined spell %q", owner, id))
		}
	}
}

func validateStatus(spec *types.StatusSpec, owner string, ve *ValidationError) {
	if spec == nil {
		return
	}
	if !entity.KnownStatus(entity.StatusType(spec.Type)) {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"%s carries unknown status type %q", owner, spec.Type))
	}
	if spec.Duration <= 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"%s status duration must be positive", owner))
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
