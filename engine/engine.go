// Package engine provides the Submit() orchestrator that wires together
// validation, resolution, the encounter state machine, and state sync into a
// single action step.
package engine

import (
	"errors"

	"github.com/chicocaine/game-master-ai/engine/encounter"
	"github.com/chicocaine/game-master-ai/engine/entity"
	"github.com/chicocaine/game-master-ai/engine/gsync"
	"github.com/chicocaine/game-master-ai/engine/resolve"
	"github.com/chicocaine/game-master-ai/engine/state"
	"github.com/chicocaine/game-master-ai/engine/validate"
	"github.com/chicocaine/game-master-ai/types"
)

// ErrSessionOver is returned by Submit once the session has reached a
// terminal result. Loading a save is the only way to continue.
var ErrSessionOver = errors.New("session is over")

// Engine holds the game definitions and mutable state for one session.
type Engine struct {
	Defs      *state.Defs
	Global    *state.Global
	Encounter *state.Encounter
	RNG       *RNG
}

// New creates a new engine from definitions with the given RNG seed.
func New(defs *state.Defs, seed int64) (*Engine, error) {
	g, err := state.NewGlobal(defs, seed)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Defs:   defs,
		Global: g,
		RNG:    NewRNG(seed),
	}, nil
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (e *Engine) RestoreRNG(seed int64, position int64) {
	e.RNG = RestoreRNG(seed, position)
}

// ActiveEntity returns the combatant whose turn it is, or nil outside combat.
func (e *Engine) ActiveEntity() *entity.Entity {
	if e.Encounter == nil {
		return nil
	}
	active, ok := e.Encounter.ActiveEntity()
	if !ok {
		return nil
	}
	return active
}

// ActiveIsEnemy reports whether the engine is waiting on an enemy action.
func (e *Engine) ActiveIsEnemy() bool {
	active := e.ActiveEntity()
	return active != nil && active.Role == entity.RoleEnemy
}

// Submit processes one structured action through the full pipeline:
// validate, resolve, then run the encounter state machine. Invalid actions
// return a *validate.Rejection and leave state untouched.
func (e *Engine) Submit(a types.Action) (types.Outcome, error) {
	if e.Global.Result != types.SessionInProgress {
		return types.Outcome{Action: a, Mode: e.Global.Mode, Session: e.Global.Result}, ErrSessionOver
	}

	if rej := validate.Action(a, e.Global, e.Encounter, e.Defs); rej != nil {
		return types.Outcome{Action: a, Mode: e.Global.Mode}, rej
	}

	out, err := resolve.Action(a, e.Global, e.Encounter, e.Defs, e.RNG)
	if err != nil {
		return out, err
	}
	if out.Fault != "" {
		// Data-integrity faults resolve to a no-op: no state advanced.
		e.trackRNG()
		return out, nil
	}
	e.Global.TurnCount++

	switch e.Global.Mode {
	case types.ModeExploration:
		e.afterExploration(a, &out)
	case types.ModeEncounter:
		e.afterEncounterAction(&out)
	}

	e.trackRNG()
	if e.Global.Result != types.SessionInProgress {
		out.Session = e.Global.Result
	}
	return out, nil
}

// afterExploration handles the exploration-side transitions: entering an
// encounter the move uncovered, or completing the session at the exit room.
func (e *Engine) afterExploration(a types.Action, out *types.Outcome) {
	if out.EncounterStarted != "" {
		enc, err := gsync.EnterEncounter(e.Global, out.EncounterStarted, e.Defs, e.RNG)
		if err != nil {
			out.Fault = err.Error()
			out.EncounterStarted = ""
			return
		}
		e.Encounter = enc
		out.Initiative = append([]string(nil), enc.Initiative...)

		// The first turn may chain through stun-skips, and damage-over-time
		// carried into the fight can even end it before anyone acts.
		ticks, res, done := encounter.StartTurns(enc)
		out.StartOfTurn = ticks
		if done {
			e.finishEncounter(res, out)
			return
		}
		out.Round = enc.Round
		out.NextActive = enc.ActiveID()
		return
	}

	if a.Type == types.ActionMove {
		if room, ok := e.Defs.Room(e.Global.RoomID); ok && room.Exit {
			e.Global.Result = types.SessionComplete
		}
	}
}

// afterEncounterAction runs the turn state machine after a resolved combat
// action: terminal check first (defeat wins a simultaneous wipe), then turn
// advancement with its start-of-turn passes.
func (e *Engine) afterEncounterAction(out *types.Outcome) {
	if res, done := encounter.Terminal(e.Encounter); done {
		e.finishEncounter(res, out)
		return
	}

	ticks, res, done := encounter.AdvanceTurn(e.Encounter)
	out.StartOfTurn = ticks
	if done {
		e.finishEncounter(res, out)
		return
	}
	out.Round = e.Encounter.Round
	out.NextActive = e.Encounter.ActiveID()
}

func (e *Engine) finishEncounter(res types.EncounterResult, out *types.Outcome) {
	reward := gsync.ExitEncounter(e.Global, e.Encounter, res, e.Defs)
	e.Encounter = nil
	out.EncounterResult = res
	out.Reward = reward

	if res == types.EncounterVictory {
		// Clearing the exit room's encounter completes the session in place.
		if room, ok := e.Defs.Room(e.Global.RoomID); ok && room.Exit {
			e.Global.Result = types.SessionComplete
		}
	}
}

func (e *Engine) trackRNG() {
	e.Global.RNGSeed = e.RNG.Seed()
	e.Global.RNGPosition = e.RNG.Position()
}
