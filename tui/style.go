package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	stylePaths = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleRoll = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleVictory = lipgloss.NewStyle().
			Foreground(lipgloss.Color("76")).
			Bold(true)

	styleDefeat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindPaths
	kindRoll
	kindVictory
	kindDefeat
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(trimmed, "Roll vs"),
		strings.HasPrefix(trimmed, "Damage:"),
		strings.HasPrefix(trimmed, "Heal:"):
		return kindRoll
	case strings.HasPrefix(line, "Paths lead to:"),
		strings.HasPrefix(line, "Initiative:"):
		return kindPaths
	case strings.Contains(line, "Victory!"),
		strings.Contains(line, "quest is complete"):
		return kindVictory
	case strings.Contains(line, "Defeat."),
		strings.Contains(line, "Game over."):
		return kindDefeat
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "Nothing happens"):
		return kindError
	default:
		return kindNarrative
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindPaths:
		return stylePaths.Render(line)
	case kindRoll:
		return styleRoll.Render(line)
	case kindVictory:
		return styleVictory.Render(line)
	case kindDefeat:
		return styleDefeat.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
