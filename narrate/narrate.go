// Package narrate renders structured outcomes into player-facing text. It is
// the only place presentation strings live; the engine never formats prose.
package narrate

import (
	"fmt"
	"strings"

	"github.com/chicocaine/game-master-ai/types"
)

// Render turns one outcome into display lines.
func Render(out types.Outcome) []string {
	var lines []string

	if out.Fault != "" {
		lines = append(lines, fmt.Sprintf("Nothing happens. (%s)", out.Fault))
		return lines
	}

	switch out.Action.Type {
	case types.ActionMove, types.ActionExplore:
		lines = append(lines, renderRoom(out)...)
	case types.ActionRest:
		lines = append(lines, renderRest(out)...)
	case types.ActionAttack:
		lines = append(lines, fmt.Sprintf("%s attacks with %s.", out.ActorName, out.AttackName))
		lines = append(lines, renderTargets(out.Targets)...)
	case types.ActionCastSpell:
		lines = append(lines, fmt.Sprintf("%s casts %s.", out.ActorName, out.SpellName))
		lines = append(lines, renderTargets(out.Targets)...)
	case types.ActionEndTurn:
		lines = append(lines, fmt.Sprintf("%s holds back.", out.ActorName))
	}

	lines = append(lines, renderLifecycle(out)...)
	return lines
}

func renderRoom(out types.Outcome) []string {
	var lines []string
	if out.RoomDescription != "" {
		lines = append(lines, out.RoomDescription)
	}
	if len(out.Connections) > 0 {
		lines = append(lines, "Paths lead to: "+strings.Join(out.Connections, ", "))
	}
	if out.RestAllowed {
		lines = append(lines, "This place is quiet enough to rest.")
	}
	return lines
}

func renderRest(out types.Outcome) []string {
	if out.Rest == nil {
		return nil
	}
	var lines []string
	switch out.Rest.Kind {
	case types.RestShort:
		lines = append(lines, "The party takes a short rest.")
	case types.RestLong:
		lines = append(lines, "The party makes camp for a long rest.")
	}
	for _, p := range out.Rest.Players {
		note := fmt.Sprintf("%s: %d → %d hp, %d slots", p.Name, p.HPBefore, p.HPAfter, p.SlotsAfter)
		if p.Revived {
			note += " (back on their feet)"
		}
		lines = append(lines, "  "+note)
	}
	return lines
}

func renderTargets(targets []types.TargetOutcome) []string {
	var lines []string
	for _, t := range targets {
		if t.ToHit != nil {
			lines = append(lines, renderHit(t))
			if !t.ToHit.Hit {
				continue
			}
		}
		if t.Damage != nil {
			lines = append(lines, fmt.Sprintf("  Damage: %s → %s = %d. %s drops to %d hp.",
				t.Damage.Expression, renderRolls(*t.Damage), t.DamageApplied, t.TargetName, t.HPAfter))
		}
		if t.Heal != nil {
			lines = append(lines, fmt.Sprintf("  Heal: %s → %s = %d. %s rises to %d hp.",
				t.Heal.Expression, renderRolls(*t.Heal), t.HealApplied, t.TargetName, t.HPAfter))
		}
		if t.StatusApplied != nil {
			lines = append(lines, fmt.Sprintf("  %s is %s for %d turns.",
				t.TargetName, t.StatusApplied.Type, t.StatusApplied.Duration))
		}
		if len(t.StatusRemoved) > 0 {
			lines = append(lines, fmt.Sprintf("  %s is cleansed of %s.",
				t.TargetName, strings.Join(t.StatusRemoved, ", ")))
		}
		if t.Downed {
			lines = append(lines, fmt.Sprintf("  %s goes down!", t.TargetName))
		}
	}
	return lines
}

func renderHit(t types.TargetOutcome) string {
	h := t.ToHit
	verdict := "miss"
	if h.Hit {
		verdict = "hit!"
	}
	return fmt.Sprintf("  Roll vs %s: d20 → %d%+d%+d = %d vs AC %d — %s",
		t.TargetName, h.Roll, h.AttackMod, h.Bonus, h.Total, h.TargetAC, verdict)
}

func renderRolls(d types.DiceOutcome) string {
	parts := make([]string, len(d.Rolls))
	for i, r := range d.Rolls {
		parts[i] = fmt.Sprintf("%d", r)
	}
	s := "[" + strings.Join(parts, ",") + "]"
	if d.Modifier != 0 {
		s += fmt.Sprintf("%+d", d.Modifier)
	}
	return s
}

func renderLifecycle(out types.Outcome) []string {
	var lines []string

	if out.EncounterStarted != "" {
		lines = append(lines, "Enemies block your path — an encounter begins!")
		if len(out.Initiative) > 0 {
			lines = append(lines, "Initiative: "+strings.Join(out.Initiative, ", "))
		}
	}

	for _, tick := range out.StartOfTurn {
		for _, eff := range tick.Triggered {
			note := fmt.Sprintf("%s suffers %d from %s.", tick.EntityName, eff.Damage, eff.Effect)
			if eff.Expired {
				note += " The effect fades."
			}
			lines = append(lines, note)
		}
		if tick.Downed {
			lines = append(lines, fmt.Sprintf("%s succumbs to their wounds!", tick.EntityName))
		} else if tick.Skipped {
			lines = append(lines, fmt.Sprintf("%s is stunned and loses their turn.", tick.EntityName))
		}
	}

	switch out.EncounterResult {
	case types.EncounterVictory:
		lines = append(lines, "The last enemy falls. Victory!")
		if out.Reward > 0 {
			lines = append(lines, fmt.Sprintf("The party claims %d gold.", out.Reward))
		}
	case types.EncounterDefeat:
		lines = append(lines, "The party has fallen. Defeat.")
	}

	if out.NextActive != "" && out.EncounterResult == "" {
		lines = append(lines, fmt.Sprintf("Round %d — %s acts next.", out.Round, out.NextActive))
	}

	switch out.Session {
	case types.SessionComplete:
		lines = append(lines, "You emerge from the dungeon. The quest is complete.")
	case types.SessionGameOver:
		lines = append(lines, "Game over.")
	}

	return lines
}
