package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/signstrike/types"
)

// hud is the engine.HUD the TUI binds. It is shared by pointer because the
// Bubble Tea model is copied on every update.
type hud struct {
	score, coins int
	guess        string
	feedback     types.Feedback
}

func (h *hud) SetScore(score, coins int) { h.score, h.coins = score, coins }

func (h *hud) SetGuess(text string, fb types.Feedback) { h.guess, h.feedback = text, fb }

// sceneDisplayName derives a human-readable name from a scene ID.
// "level_1" -> "Level 1", "final_wave" -> "Final Wave".
func sceneDisplayName(id string) string {
	parts := strings.Split(id, "_")
	for i, w := range parts {
		if len(w) > 0 {
			parts[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(parts, " ")
}

// renderStatusBar produces a full-width inverted status line showing the
// scene, the words in play, words left, score and coins.
func (m Model) renderStatusBar() string {
	left := " " + sceneDisplayName(m.engine.Scene().ID)
	if m.paused {
		left += " (paused)"
	}
	if m.engine.Down() {
		left += " (hit!)"
	}
	right := fmt.Sprintf("Score:%d Coins:%d ", m.hud.score, m.hud.coins)
	if p := m.engine.Pool(); p != nil {
		right = fmt.Sprintf("Left:%d | %s", p.Len(), right)
	}

	var live []string
	for _, b := range m.engine.Live() {
		live = append(live, b.Word)
	}
	if len(live) > 0 {
		candidate := left + " | " + strings.Join(live, " ")
		if lipgloss.Width(candidate)+lipgloss.Width(right)+2 < m.width {
			left = candidate
		} else {
			left = fmt.Sprintf("%s | %d in play", left, len(live))
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderGuessLine shows the live words and the last few guesses colored by
// outcome.
func (m Model) renderGuessLine() string {
	var parts []string
	for _, w := range m.rec.Filter() {
		parts = append(parts, styleLiveWord.Render(w))
	}
	line := strings.Join(parts, " ")

	var recent []string
	for _, g := range m.history.Recent(3) {
		recent = append(recent, feedbackStyle(g.feedback).Render(g.text))
	}
	if len(recent) > 0 {
		line += styleSystem.Render("  last: ") + strings.Join(recent, " ")
	}
	return line
}
