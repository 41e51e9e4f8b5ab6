package state

import (
	"fmt"

	"github.com/chicocaine/game-master-ai/engine/entity"
)

// Encounter is the ephemeral combat state. Its entities are copies, so the
// persistent party is untouched until the synchronizer folds results back.
// Initiative is computed once at creation and never changes afterwards.
type Encounter struct {
	ID     string
	RoomID string
	Round  int

	Entities []*entity.Entity

	// Initiative is the fixed turn order (entity IDs). Active indexes into it.
	Initiative []string
	Active     int

	// Log is append-only.
	Log []string
}

// Entity returns the participant with the given ID.
func (e *Encounter) Entity(id string) (*entity.Entity, bool) {
	for _, ent := range e.Entities {
		if ent.ID == id {
			return ent, true
		}
	}
	return nil, false
}

// ActiveID returns the ID of the entity whose turn it is.
func (e *Encounter) ActiveID() string {
	if len(e.Initiative) == 0 {
		return ""
	}
	return e.Initiative[e.Active]
}

// ActiveEntity returns the entity whose turn it is.
func (e *Encounter) ActiveEntity() (*entity.Entity, bool) {
	return e.Entity(e.ActiveID())
}

// LivingPlayers returns living player participants in entity order.
func (e *Encounter) LivingPlayers() []*entity.Entity {
	return e.living(entity.RolePlayer)
}

// LivingEnemies returns living enemy participants in entity order.
func (e *Encounter) LivingEnemies() []*entity.Entity {
	return e.living(entity.RoleEnemy)
}

func (e *Encounter) living(role entity.Role) []*entity.Entity {
	var out []*entity.Entity
	for _, ent := range e.Entities {
		if ent.Role == role && ent.Alive() {
			out = append(out, ent)
		}
	}
	return out
}

// AllEnemiesDown reports whether every enemy is at 0 hp.
func (e *Encounter) AllEnemiesDown() bool {
	return len(e.LivingEnemies()) == 0
}

// AllPlayersDown reports whether every player participant is at 0 hp.
func (e *Encounter) AllPlayersDown() bool {
	return len(e.LivingPlayers()) == 0
}

// Advance moves the active pointer one step through the fixed initiative
// order, circularly. Returns true when the pointer wrapped, which increments
// the round counter. Advance does not skip downed or stunned entities; the
// encounter state machine owns that policy.
func (e *Encounter) Advance() bool {
	if len(e.Initiative) == 0 {
		return false
	}
	e.Active++
	if e.Active >= len(e.Initiative) {
		e.Active = 0
		e.Round++
		return true
	}
	return false
}

// Append adds a line to the combat log.
func (e *Encounter) Append(format string, args ...any) {
	e.Log = append(e.Log, fmt.Sprintf(format, args...))
}
