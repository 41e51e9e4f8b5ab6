// Package gsync manages the boundary between the persistent session state and
// the ephemeral encounter snapshot: spawning an encounter from room content
// and folding the results back afterwards.
package gsync

import (
	"fmt"

	"github.com/chicocaine/game-master-ai/engine/dice"
	"github.com/chicocaine/game-master-ai/engine/encounter"
	"github.com/chicocaine/game-master-ai/engine/entity"
	"github.com/chicocaine/game-master-ai/engine/state"
	"github.com/chicocaine/game-master-ai/types"
)

// EnterEncounter builds the combat snapshot for the given encounter and flips
// the session into encounter mode. Living party members are deep-copied so
// combat never writes through to the persistent party; enemies are spawned
// from templates, duplicates getting numbered instance IDs.
func EnterEncounter(g *state.Global, encounterID string, defs *state.Defs, r dice.Roller) (*state.Encounter, error) {
	def, ok := defs.Encounters[encounterID]
	if !ok {
		return nil, fmt.Errorf("encounter %q not defined", encounterID)
	}

	var entities []*entity.Entity
	for _, p := range g.LivingPlayers() {
		entities = append(entities, p.Clone())
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("encounter %q: no living party members", encounterID)
	}

	enemies, err := spawnEnemies(def, defs)
	if err != nil {
		return nil, err
	}
	entities = append(entities, enemies...)

	enc := &state.Encounter{
		ID:         def.ID,
		RoomID:     g.RoomID,
		Round:      1,
		Entities:   entities,
		Initiative: encounter.RollInitiative(entities, r),
	}
	g.Mode = types.ModeEncounter
	return enc, nil
}

// spawnEnemies instantiates the roster. A template listed once keeps its
// plain ID; duplicated templates get 1-based numbered instance IDs so every
// participant ID is unique.
func spawnEnemies(def types.EncounterDef, defs *state.Defs) ([]*entity.Entity, error) {
	counts := map[string]int{}
	for _, id := range def.Enemies {
		counts[id]++
	}

	var out []*entity.Entity
	seen := map[string]int{}
	for _, templateID := range def.Enemies {
		instanceID := templateID
		if counts[templateID] > 1 {
			seen[templateID]++
			instanceID = fmt.Sprintf("%s_%d", templateID, seen[templateID])
		}
		e, err := defs.NewEnemy(templateID, instanceID)
		if err != nil {
			return nil, fmt.Errorf("encounter %s: %w", def.ID, err)
		}
		if counts[templateID] > 1 {
			e.Name = fmt.Sprintf("%s %d", e.Name, seen[templateID])
		}
		out = append(out, e)
	}
	return out, nil
}

// ExitEncounter folds a finished encounter back into the session and flips
// the mode. On victory each surviving participant's hp, slots and effects are
// copied back to the matching party member, and the encounter is marked
// cleared. On defeat nothing is synchronized: the session is over and the
// persistent party keeps its pre-encounter state for inspection.
func ExitEncounter(g *state.Global, enc *state.Encounter, result types.EncounterResult, defs *state.Defs) int {
	g.Mode = types.ModeExploration

	if result == types.EncounterDefeat {
		g.Result = types.SessionGameOver
		return 0
	}

	for _, combatant := range enc.Entities {
		if combatant.Role != entity.RolePlayer {
			continue
		}
		p, ok := g.Player(combatant.ID)
		if !ok {
			continue
		}
		p.HP = combatant.HP
		p.Slots = combatant.Slots
		p.Effects = append([]entity.StatusEffect(nil), combatant.Effects...)
	}

	reward := 0
	if def, ok := defs.Encounters[enc.ID]; ok {
		reward = def.Reward
	}
	g.MarkCleared(enc.ID, reward)
	return reward
}
