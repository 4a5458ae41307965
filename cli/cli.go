// Package cli provides line-oriented terminal play, output formatting, and
// meta-command dispatch for the signstrike engine. Every input line is a
// guess; the engine advances a fixed number of steps after each one.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nathoo/signstrike/engine"
	"github.com/nathoo/signstrike/engine/recognizer"
	"github.com/nathoo/signstrike/engine/snapshot"
	"github.com/nathoo/signstrike/engine/state"
	"github.com/nathoo/signstrike/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine       *engine.Engine
	Defs         *state.Defs
	Rec          *recognizer.Typed
	In           io.Reader
	Out          io.Writer
	StepsPerLine int
	Trace        bool
	EchoInput    bool   // echo each input line after the prompt (for script playback)
	lastGuess    string // for "again"/"g" repeat

	score, coins int
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) *CLI {
	return &CLI{
		Engine:       eng,
		Defs:         defs,
		Rec:          recognizer.NewTyped(),
		In:           os.Stdin,
		Out:          os.Stdout,
		StepsPerLine: 1,
	}
}

// SetScore implements engine.HUD.
func (c *CLI) SetScore(score, coins int) {
	c.score, c.coins = score, coins
}

// SetGuess implements engine.HUD. Guess feedback is printed from the step
// result instead.
func (c *CLI) SetGuess(string, types.Feedback) {}

// Run binds the engine to the starting scene and loops: prompt → input →
// guess → advance → output.
func (c *CLI) Run() error {
	if c.Defs.Game.Intro != "" {
		c.printLine(c.Defs.Game.Intro)
		c.printLine("")
	}
	if err := c.Engine.Start(c.Rec, c); err != nil {
		return fmt.Errorf("starting game: %w", err)
	}
	c.printResult(c.Engine.Drain())

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
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

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return nil // /quit
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastGuess == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastGuess
		} else {
			c.lastGuess = input
		}

		c.Rec.Submit(input)
		c.printResult(c.Engine.Drain())
		c.advance(c.StepsPerLine)
	}
	return scanner.Err()
}

// advance runs n engine steps, printing whatever they produce.
func (c *CLI) advance(n int) {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		c.printResult(c.Engine.Step())
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

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/words":
		c.cmdWords()

	case "/hint":
		c.cmdHint(arg)

	case "/pool":
		c.cmdPool(arg)

	case "/wait":
		c.cmdWait(arg)

	case "/kill":
		if _, ok := c.Engine.ForceKill(); !ok {
			c.printSystem("Nothing to kill.")
		}
		c.printResult(c.Engine.Drain())

	case "/hit":
		c.cmdHit()

	case "/coin":
		c.Engine.CollectCoin()
		c.printResult(c.Engine.Drain())
		c.printSystem(fmt.Sprintf("Coins: %d", c.coins))

	case "/restart":
		if err := c.Engine.Restart(); err != nil {
			c.printSystem(fmt.Sprintf("Restart failed: %v", err))
			return false
		}
		c.lastGuess = ""
		c.printResult(c.Engine.Drain())

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

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         - Exit game",
		"  /help         - Show this help",
		"  /state        - Debug: dump the session as YAML",
		"  /trace        - Toggle debug trace output",
		"",
		"Play:",
		"  <word>        - Fire at the ship carrying that word",
		"  again (g)     - Repeat your last guess",
		"  /words        - List the words in play",
		"  /hint <pre>   - Words in play starting with <pre>",
		"  /wait [n]     - Let n steps pass (default 1)",
		"  /pool [q]     - Words still to come (prefix or min-max length)",
		"  /restart      - Start over with a fresh score",
		"",
		"Debug:",
		"  /kill         - Destroy the oldest ship (scores normally)",
		"  /hit          - Collide with the oldest ship",
		"  /coin         - Collect a coin",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	data, err := snapshot.Dump(c.Engine)
	if err != nil {
		c.printSystem(fmt.Sprintf("State dump failed: %v", err))
		return
	}
	c.print(string(data))
}

func (c *CLI) cmdWords() {
	live := c.Engine.Live()
	if len(live) == 0 {
		c.printSystem("No ships in play.")
		return
	}
	var ws []string
	for _, b := range live {
		ws = append(ws, b.Word)
	}
	c.printSystem(fmt.Sprintf("In play: %s", strings.Join(ws, ", ")))
	if p := c.Engine.Pool(); p != nil {
		c.printSystem(fmt.Sprintf("Words left: %d", p.Len()))
	}
}

func (c *CLI) cmdHint(prefix string) {
	matches := c.Rec.Suggest(prefix)
	if len(matches) == 0 {
		c.printSystem("No matching words.")
		return
	}
	c.printSystem(strings.Join(matches, ", "))
}

func (c *CLI) cmdPool(query string) {
	if c.Engine.Pool() == nil {
		c.printSystem("This scene has no words.")
		return
	}
	ws := c.Engine.Drawable(query)
	if len(ws) == 0 {
		c.printSystem("No words left to match that.")
		return
	}
	c.printSystem(fmt.Sprintf("To come (%d): %s", len(ws), strings.Join(ws, ", ")))
}

func (c *CLI) cmdWait(arg string) {
	n := 1
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 1 {
			c.printSystem(fmt.Sprintf("Invalid step count: %s", arg))
			return
		}
		n = v
	}
	c.advance(n)
}

func (c *CLI) cmdHit() {
	live := c.Engine.Live()
	if len(live) == 0 {
		c.printSystem("Nothing to collide with.")
		return
	}
	c.Engine.PlayerHit(live[0].Entity)
	c.printResult(c.Engine.Drain())
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			c.printSystem(fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
}

func (c *CLI) printResult(result types.Result) {
	if m := result.Match; m != nil {
		c.printMatch(*m)
	}
	for _, line := range result.Output {
		c.printLine(line)
	}
	if c.Trace {
		c.printTrace(result)
	}
}

func (c *CLI) printMatch(m types.MatchResult) {
	switch m.Feedback {
	case types.FeedbackHit:
		c.printLine(fmt.Sprintf("Hit! %s +%d (score %d)", m.Word, m.Points, c.score))
	case types.FeedbackMiss:
		c.printLine(fmt.Sprintf("Miss: %s", m.Text))
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
