package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/signstrike/engine"
	"github.com/nathoo/signstrike/engine/recognizer"
	"github.com/nathoo/signstrike/engine/snapshot"
	"github.com/nathoo/signstrike/engine/state"
	"github.com/nathoo/signstrike/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the signstrike TUI. The engine is only
// touched from Update, so the scheduler keeps a single owner.
type Model struct {
	engine *engine.Engine
	defs   *state.Defs
	rec    *recognizer.Typed
	hud    *hud

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine

	tickRate  time.Duration
	width     int
	height    int
	ready     bool
	trace     bool
	paused    bool
	quitting  bool
	lastGuess string
}

// tickMsg advances the engine by one step.
type tickMsg time.Time

// gameOutputMsg carries output into the narrative log.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for engine output)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model and binds the engine to the starting scene.
func New(eng *engine.Engine, defs *state.Defs, tickRate time.Duration) (Model, error) {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 64
	ti.PromptStyle = styleInputPrompt

	if tickRate <= 0 {
		tickRate = 250 * time.Millisecond
	}
	m := Model{
		engine:   eng,
		defs:     defs,
		rec:      recognizer.NewTyped(),
		hud:      &hud{},
		input:    ti,
		history:  NewHistory(50),
		tickRate: tickRate,
	}
	if err := eng.Start(m.rec, m.hud); err != nil {
		return Model{}, fmt.Errorf("starting game: %w", err)
	}

	var lines []string
	title := defs.Game.Title
	if defs.Game.Version != "" {
		title += " v" + defs.Game.Version
	}
	if defs.Game.Author != "" {
		title += " by " + defs.Game.Author
	}
	lines = append(lines, title, "")
	if defs.Game.Intro != "" {
		lines = append(lines, defs.Game.Intro, "")
	}
	lines = append(lines, eng.Drain().Output...)
	m = m.appendOutput(gameOutputMsg{lines: lines})
	return m, nil
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, defs *state.Defs, tickRate time.Duration) error {
	m, err := New(eng, defs, tickRate)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// Init starts the cursor blink and the engine clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.tickRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages (key presses, window resize, clock ticks).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 3 // status bar + guess line + input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		if !m.paused {
			m = m.appendResult("", m.engine.Step())
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "esc":
			if m.rec.Active() {
				m.engine.EndSign(false)
				m.input.SetValue("")
				m = m.appendOutput(gameOutputMsg{lines: []string{"Sign cancelled."}, isSystem: true})
			}
			return m, nil

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)

	// The capture window opens with the first keystroke of a guess.
	value := m.input.Value()
	if value != "" && !strings.HasPrefix(value, "/") && !m.rec.Active() {
		m.engine.BeginSign()
	}
	return m, inputCmd
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		if m.rec.Active() {
			m.engine.EndSign(false)
		}
		return m, nil
	}

	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastGuess == "" {
			m.engine.EndSign(false)
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastGuess
	} else if !strings.HasPrefix(input, "/") {
		m.lastGuess = input
	}

	if strings.HasPrefix(input, "/") {
		if m.rec.Active() {
			m.engine.EndSign(false)
		}
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// The whole line is the signed word: replace whatever the window holds.
	m.engine.EndSign(false)
	m.engine.BeginSign()
	m.rec.Type(input)
	if match := m.engine.EndSign(true); match != nil {
		m.history.Record(match.Text, match.Feedback)
	}
	m = m.appendResult(input, m.engine.Drain())
	return m, nil
}

// appendResult adds an engine result to the log. Quiet steps add nothing.
func (m Model) appendResult(input string, res types.Result) Model {
	var lines []string
	if res.Match != nil {
		lines = append(lines, formatMatch(*res.Match, m.hud.score)...)
	}
	lines = append(lines, res.Output...)
	if m.trace {
		lines = append(lines, m.formatTrace(res)...)
	}
	if input == "" && len(lines) == 0 {
		return m
	}
	return m.appendOutput(gameOutputMsg{input: input, lines: lines})
}

func formatMatch(mr types.MatchResult, score int) []string {
	switch mr.Feedback {
	case types.FeedbackHit:
		return []string{fmt.Sprintf("Hit! %s +%d (score %d)", mr.Word, mr.Points, score)}
	case types.FeedbackMiss:
		return []string{fmt.Sprintf("Miss: %s", mr.Text)}
	default:
		return nil
	}
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	styled := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := wordWrap(rl.text, width)
		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap breaks text at spaces so no line exceeds width display cells.
// A single word wider than width gets a line of its own.
func wordWrap(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}

	var lines []string
	var cur strings.Builder
	for _, w := range strings.Fields(text) {
		switch {
		case cur.Len() == 0:
			cur.WriteString(w)
		case lipgloss.Width(cur.String())+1+lipgloss.Width(w) > width:
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(w)
		default:
			cur.WriteByte(' ')
			cur.WriteString(w)
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return strings.Join(lines, "\n")
}

// View renders the full layout: log, status bar, guess strip, input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	prompt := m.input.View()
	if m.rec.Active() {
		prompt = styleSigning.Render("● ") + prompt
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.renderGuessLine() + "\n" + prompt
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/pause":
		m.paused = !m.paused
		if m.paused {
			return []string{"Paused."}, false
		}
		return []string{"Resumed."}, false

	case "/kill":
		if _, ok := m.engine.ForceKill(); !ok {
			return []string{"Nothing to kill."}, false
		}
		res := m.engine.Drain()
		return append(formatMatch(*res.Match, m.hud.score), res.Output...), false

	case "/hit":
		live := m.engine.Live()
		if len(live) == 0 {
			return []string{"Nothing to collide with."}, false
		}
		m.engine.PlayerHit(live[0].Entity)
		return append([]string{"Collision!"}, m.engine.Drain().Output...), false

	case "/pool":
		if m.engine.Pool() == nil {
			return []string{"This scene has no words."}, false
		}
		ws := m.engine.Drawable(strings.Join(parts[1:], " "))
		if len(ws) == 0 {
			return []string{"No words left to match that."}, false
		}
		return []string{fmt.Sprintf("To come (%d): %s", len(ws), strings.Join(ws, ", "))}, false

	case "/coin":
		m.engine.CollectCoin()
		out := m.engine.Drain().Output
		return append(out, fmt.Sprintf("Coins: %d", m.hud.coins)), false

	case "/restart":
		if err := m.engine.Restart(); err != nil {
			return []string{fmt.Sprintf("Restart failed: %v", err)}, false
		}
		m.lastGuess = ""
		m.paused = false
		return append([]string{"Restarted."}, m.engine.Drain().Output...), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"System:",
		"  /quit         - Exit game",
		"  /help         - Show this help",
		"  /state        - Debug: dump the session as YAML",
		"  /trace        - Toggle debug trace output",
		"  /pause        - Stop or restart the clock",
		"  /restart      - Start over with a fresh score",
		"",
		"Play:",
		"  Type a word in play and press Enter to fire.",
		"  Esc cancels the word being signed.",
		"  again (g)     - Repeat your last guess",
		"  /pool [q]     - Words still to come (prefix or min-max length)",
		"",
		"Debug:",
		"  /kill         - Destroy the oldest ship (scores normally)",
		"  /hit          - Collide with the oldest ship",
		"  /coin         - Collect a coin",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for guess history",
	}
}

func (m *Model) cmdState() []string {
	data, err := snapshot.Dump(m.engine)
	if err != nil {
		return []string{fmt.Sprintf("State dump failed: %v", err)}
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func (m *Model) formatTrace(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for guess history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
