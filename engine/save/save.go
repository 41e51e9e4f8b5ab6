// Package save implements JSON serialization and deserialization of session
// state. Saves capture exploration state only: the ephemeral encounter
// snapshot is never serialized, so saving mid-combat is refused upstream.
package save

import (
	"encoding/json"
	"errors"

	"github.com/chicocaine/game-master-ai/engine/entity"
	"github.com/chicocaine/game-master-ai/engine/state"
	"github.com/chicocaine/game-master-ai/types"
)

// ErrInCombat is returned when a save is attempted during an encounter.
var ErrInCombat = errors.New("cannot save during an encounter")

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version           string              `json:"version"`
	Game              string              `json:"game"`
	Turn              int                 `json:"turn"`
	DungeonID         string              `json:"dungeon_id"`
	RoomID            string              `json:"room_id"`
	Party             []*entity.Entity    `json:"party"`
	Cleared           map[string]bool     `json:"cleared"`
	Visited           map[string]bool     `json:"visited"`
	Rested            map[string]bool     `json:"rested"`
	TotalReward       int                 `json:"total_reward"`
	EncountersCleared int                 `json:"encounters_cleared"`
	Result            types.SessionResult `json:"result"`
	RNGSeed           int64               `json:"rng_seed"`
	RNGPosition       int64               `json:"rng_position"`
}

// Save serializes session state to JSON bytes. Refused during an encounter.
func Save(g *state.Global, defs *state.Defs) ([]byte, error) {
	if g.Mode == types.ModeEncounter {
		return nil, ErrInCombat
	}
	data := SaveData{
		Version:           defs.Game.Version,
		Game:              defs.Game.Title,
		Turn:              g.TurnCount,
		DungeonID:         g.DungeonID,
		RoomID:            g.RoomID,
		Party:             g.Party,
		Cleared:           g.Cleared,
		Visited:           g.Visited,
		Rested:            g.Rested,
		TotalReward:       g.TotalReward,
		EncountersCleared: g.EncountersCleared,
		Result:            g.Result,
		RNGSeed:           g.RNGSeed,
		RNGPosition:       g.RNGPosition,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	// Ensure maps and slices are never nil after load.
	if sd.Cleared == nil {
		sd.Cleared = map[string]bool{}
	}
	if sd.Visited == nil {
		sd.Visited = map[string]bool{}
	}
	if sd.Rested == nil {
		sd.Rested = map[string]bool{}
	}
	for _, p := range sd.Party {
		if p.Attacks == nil {
			p.Attacks = []string{}
		}
		if p.Spells == nil {
			p.Spells = []string{}
		}
		if p.Effects == nil {
			p.Effects = []entity.StatusEffect{}
		}
	}
	if sd.Result == "" {
		sd.Result = types.SessionInProgress
	}
	return &sd, nil
}

// Apply applies loaded save data onto a session state. The state is always
// restored in exploration mode.
func Apply(g *state.Global, sd *SaveData) {
	g.Mode = types.ModeExploration
	g.DungeonID = sd.DungeonID
	g.RoomID = sd.RoomID
	g.Party = sd.Party
	g.Cleared = sd.Cleared
	g.Visited = sd.Visited
	g.Rested = sd.Rested
	g.TotalReward = sd.TotalReward
	g.EncountersCleared = sd.EncountersCleared
	g.Result = sd.Result
	g.TurnCount = sd.Turn
	g.RNGSeed = sd.RNGSeed
	g.RNGPosition = sd.RNGPosition
}
