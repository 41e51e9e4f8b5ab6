package state

import (
	"fmt"
	"sort"

	"github.com/chicocaine/game-master-ai/engine/entity"
	"github.com/chicocaine/game-master-ai/types"
)

// Global is the persistent world state for one session. It is mutated only
// through action resolution, rest, and encounter sync; one instance exists
// per session and is passed explicitly to every engine call.
type Global struct {
	Mode      types.GameMode
	DungeonID string
	RoomID    string

	// Party order is display order, not turn order.
	Party []*entity.Entity

	Cleared map[string]bool // encounter IDs
	Visited map[string]bool // room IDs
	Rested  map[string]bool // room IDs

	TotalReward       int
	EncountersCleared int

	Result    types.SessionResult
	TurnCount int

	// RNG bookkeeping for save/restore.
	RNGSeed     int64
	RNGPosition int64
}

// NewGlobal creates a fresh session state: party formed from player
// templates, positioned at the starting dungeon's entry room.
func NewGlobal(defs *Defs, seed int64) (*Global, error) {
	dungeon, ok := defs.Dungeons[defs.Game.Dungeon]
	if !ok {
		return nil, fmt.Errorf("starting dungeon %q not defined", defs.Game.Dungeon)
	}

	// Stable party order: sorted template IDs.
	ids := make([]string, 0, len(defs.Players))
	for id := range defs.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var party []*entity.Entity
	for _, id := range ids {
		p, err := defs.NewPlayer(defs.Players[id])
		if err != nil {
			return nil, err
		}
		party = append(party, p)
	}
	if len(party) == 0 {
		return nil, fmt.Errorf("no player templates defined")
	}

	return &Global{
		Mode:      types.ModeExploration,
		DungeonID: dungeon.ID,
		RoomID:    dungeon.EntryRoom,
		Party:     party,
		Cleared:   map[string]bool{},
		Visited:   map[string]bool{dungeon.EntryRoom: true},
		Rested:    map[string]bool{},
		Result:    types.SessionInProgress,
		RNGSeed:   seed,
	}, nil
}

// Player returns the party member with the given ID.
func (g *Global) Player(id string) (*entity.Entity, bool) {
	for _, p := range g.Party {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// LivingPlayers returns party members with hp > 0, in party order.
func (g *Global) LivingPlayers() []*entity.Entity {
	var living []*entity.Entity
	for _, p := range g.Party {
		if p.Alive() {
			living = append(living, p)
		}
	}
	return living
}

// AllPlayersDown reports whether the whole party is at 0 hp.
func (g *Global) AllPlayersDown() bool {
	return len(g.LivingPlayers()) == 0
}

// MarkCleared records a cleared encounter and its reward. Idempotent.
func (g *Global) MarkCleared(encounterID string, reward int) {
	if g.Cleared[encounterID] {
		return
	}
	g.Cleared[encounterID] = true
	g.TotalReward += reward
	g.EncountersCleared++
}
