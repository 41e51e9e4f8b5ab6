// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the game-master engine.
package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chicocaine/game-master-ai/agent"
	"github.com/chicocaine/game-master-ai/engine"
	"github.com/chicocaine/game-master-ai/engine/save"
	"github.com/chicocaine/game-master-ai/engine/state"
	"github.com/chicocaine/game-master-ai/engine/validate"
	"github.com/chicocaine/game-master-ai/intake"
	"github.com/chicocaine/game-master-ai/narrate"
	"github.com/chicocaine/game-master-ai/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) *CLI {
	home, _ := os.UserHomeDir()
	saveDir := filepath.Join(home, ".gamemaster", "saves")
	return &CLI{
		Engine:  eng,
		Defs:    defs,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: saveDir,
	}
}

// Run starts the game loop. It shows the intro, describes the starting room,
// then loops: prompt → input → dispatch → output. Enemy turns run
// automatically after each player action.
func (c *CLI) Run() {
	if c.Defs.Game.Intro != "" {
		c.printLine(c.Defs.Game.Intro)
		c.printLine("")
	}

	c.step("explore")

	scanner := bufio.NewScanner(c.In)
	for {
		c.print(c.prompt())
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.step(input)
		c.runEnemyTurns()
	}
}

// prompt names the acting combatant in combat, or stays bare while exploring.
func (c *CLI) prompt() string {
	if active := c.Engine.ActiveEntity(); active != nil {
		return fmt.Sprintf("[%s] > ", active.Name)
	}
	return "> "
}

// step parses and submits one player command, printing the narration.
func (c *CLI) step(input string) {
	action, err := intake.Parse(input, c.Engine)
	if err != nil {
		c.printLine(err.Error())
		return
	}

	out, err := c.Engine.Submit(action)
	if err != nil {
		var rej *validate.Rejection
		if errors.As(err, &rej) {
			c.printLine("You can't do that: " + rej.Detail)
			return
		}
		if errors.Is(err, engine.ErrSessionOver) {
			c.printLine("The session is over. Use /load to restore a save or /quit to exit.")
			return
		}
		c.printSystem(fmt.Sprintf("Engine error: %v", err))
		return
	}

	for _, line := range narrate.Render(out) {
		c.printLine(line)
	}
	if c.Trace {
		c.printTrace(out)
	}
}

// runEnemyTurns lets the agent play every consecutive enemy turn until a
// player is active again or the encounter ends.
func (c *CLI) runEnemyTurns() {
	for c.Engine.ActiveIsEnemy() {
		action := agent.ChooseAction(c.Engine.Encounter, c.Defs)
		out, err := c.Engine.Submit(action)
		if err != nil {
			c.printSystem(fmt.Sprintf("Enemy turn failed: %v", err))
			return
		}
		for _, line := range narrate.Render(out) {
			c.printLine(line)
		}
		if c.Trace {
			c.printTrace(out)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Save(c.Engine.Global, c.Defs)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	sd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	save.Apply(c.Engine.Global, sd)
	c.Engine.Encounter = nil
	c.Engine.RestoreRNG(sd.RNGSeed, sd.RNGPosition)
	c.printSystem(fmt.Sprintf("Game loaded from %s (turn %d).", name, sd.Turn))

	// Show current room after loading.
	c.step("explore")
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  — Save game (default: quicksave, exploration only)",
		"  /load [name]  — Load game (default: quicksave)",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /state        — Debug: dump current state",
		"  /trace        — Toggle debug trace output",
		"",
		"Exploration:",
		"  explore / look          — Describe the room",
		"  move/go <room>          — Travel to a connected room",
		"  rest short | rest long  — Recover hp and spell slots (safe rooms)",
		"",
		"Combat:",
		"  attack <target> [with <attack>]",
		"  cast <spell> [on <target>]",
		"  end / pass              — End the turn",
		"  again (g)               — Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	g := c.Engine.Global
	c.printSystem(fmt.Sprintf("Turn: %d  Mode: %s", g.TurnCount, g.Mode))
	c.printSystem(fmt.Sprintf("Location: %s (%s)", g.RoomID, g.DungeonID))
	for _, p := range g.Party {
		c.printSystem(fmt.Sprintf("%s: %d/%d hp, %d/%d slots", p.Name, p.HP, p.MaxHP, p.Slots.Current, p.Slots.Max))
	}
	c.printSystem(fmt.Sprintf("Cleared: %d  Gold: %d", g.EncountersCleared, g.TotalReward))
	if enc := c.Engine.Encounter; enc != nil {
		c.printSystem(fmt.Sprintf("Encounter %s, round %d, active %s", enc.ID, enc.Round, enc.ActiveID()))
		for _, e := range enc.Entities {
			c.printSystem(fmt.Sprintf("  %s (%s): %d/%d hp", e.Name, e.Role, e.HP, e.MaxHP))
		}
	}
}

func (c *CLI) printTrace(out types.Outcome) {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		c.printSystem(fmt.Sprintf("[trace] marshal failed: %v", err))
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		c.printSystem("[trace] " + line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
