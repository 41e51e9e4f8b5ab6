package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chicocaine/game-master-ai/types"
)

// roomDisplayName derives a human-readable name from a room ID.
// "bone_chapel" -> "Bone Chapel".
func roomDisplayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// renderStatusBar produces a full-width inverted status line: party hp and
// slots on the left, location and round info on the right.
func (m Model) renderStatusBar() string {
	g := m.engine.Global

	var party []string
	for _, p := range g.Party {
		party = append(party, fmt.Sprintf("%s %d/%d (%d)", p.Name, p.HP, p.MaxHP, p.Slots.Current))
	}
	left := " " + strings.Join(party, " | ")

	var right string
	if g.Mode == types.ModeEncounter && m.engine.Encounter != nil {
		enc := m.engine.Encounter
		right = fmt.Sprintf("R%d: %s | Gold: %d ", enc.Round, roomDisplayName(enc.ActiveID()), g.TotalReward)
	} else {
		right = fmt.Sprintf("%s | Gold: %d | T:%d ", roomDisplayName(g.RoomID), g.TotalReward, g.TurnCount)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
