// Package tui provides a Bubble Tea terminal UI for the game-master engine.
package tui

// history keeps recently submitted commands for up/down recall. Browsing
// walks backwards from the newest entry; submitting anything resets it.
type history struct {
	entries []string
	max     int
	// browse counts how far back the cursor is: 0 = not browsing,
	// 1 = newest entry, len(entries) = oldest.
	browse int
}

func newHistory(max int) *history {
	return &history{max: max}
}

// push records a command, dropping the oldest entry past capacity.
// Consecutive duplicates are skipped.
func (h *history) push(cmd string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// prev steps to an older entry.
func (h *history) prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.browse < len(h.entries) {
		h.browse++
	}
	return h.entries[len(h.entries)-h.browse], true
}

// next steps back towards fresh input. The second return is false once the
// cursor leaves history entirely.
func (h *history) next() (string, bool) {
	if h.browse <= 1 {
		h.browse = 0
		return "", false
	}
	h.browse--
	return h.entries[len(h.entries)-h.browse], true
}

func (h *history) reset() {
	h.browse = 0
}
