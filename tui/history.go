// Package tui provides a Bubble Tea terminal UI for signstrike.
package tui

import "github.com/nathoo/signstrike/types"

// guess is one submitted guess and how it was judged.
type guess struct {
	text     string
	feedback types.Feedback
}

// History keeps the most recent guesses for Up/Down recall and for the
// recent-guesses strip under the log. Empty guesses are not recorded.
type History struct {
	entries []guess
	max     int
	cursor  int // -1 = not navigating
}

// NewHistory creates a history holding at most max guesses.
func NewHistory(max int) *History {
	return &History{max: max, cursor: -1}
}

// Record stores a judged guess, dropping the oldest beyond max. Repeating
// the newest guess only updates its feedback.
func (h *History) Record(text string, fb types.Feedback) {
	if text == "" {
		return
	}
	h.cursor = -1
	if n := len(h.entries); n > 0 && h.entries[n-1].text == text {
		h.entries[n-1].feedback = fb
		return
	}
	h.entries = append(h.entries, guess{text: text, feedback: fb})
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Prev moves toward older guesses, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor].text, true
}

// Next moves toward newer guesses. Past the newest it returns false and the
// caller should show an empty prompt.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor].text, true
}

// Recent returns up to n guesses, newest last.
func (h *History) Recent(n int) []guess {
	if n > len(h.entries) {
		n = len(h.entries)
	}
	return append([]guess(nil), h.entries[len(h.entries)-n:]...)
}

// Len returns the number of recorded guesses.
func (h *History) Len() int { return len(h.entries) }
