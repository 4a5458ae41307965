// Package recognizer defines the narrow contract the engine needs from a
// guess source, plus a keyboard implementation.
package recognizer

import (
	"sort"
	"strings"

	"github.com/nathoo/signstrike/engine/words"
)

// Recognizer delivers guesses to registered callbacks and accepts a focus
// filter restricting which words it should produce.
type Recognizer interface {
	AddCallback(name string, fn func(string))
	SetFilter(words []string)
}

// Gesture is implemented by recognizers that capture input inside a
// hold-to-submit window. Abort ends the window without producing a guess.
type Gesture interface {
	Begin()
	Commit()
	Abort()
}

type callback struct {
	name string
	fn   func(string)
}

// Typed is a keyboard recognizer. Text typed while the capture window is open
// is buffered and delivered on Commit. The focus filter does not reject typed
// text; it is exposed for completion hints.
type Typed struct {
	callbacks []callback
	filter    []string
	buf       []rune
	active    bool
}

// NewTyped creates an idle keyboard recognizer.
func NewTyped() *Typed {
	return &Typed{}
}

// AddCallback registers fn under name. Registering a name twice replaces the
// earlier handler, so a rebind never doubles delivery.
func (t *Typed) AddCallback(name string, fn func(string)) {
	for i, cb := range t.callbacks {
		if cb.name == name {
			t.callbacks[i].fn = fn
			return
		}
	}
	t.callbacks = append(t.callbacks, callback{name: name, fn: fn})
}

// SetFilter replaces the focus filter.
func (t *Typed) SetFilter(filter []string) {
	t.filter = append(t.filter[:0:0], filter...)
	sort.Strings(t.filter)
}

// Filter returns a copy of the current focus filter, sorted.
func (t *Typed) Filter() []string {
	return append([]string(nil), t.filter...)
}

// Suggest returns filter words starting with prefix, normalized the way
// guesses are.
func (t *Typed) Suggest(prefix string) []string {
	prefix = words.Normalize(prefix)
	if prefix == "" {
		return nil
	}
	var out []string
	for _, w := range t.filter {
		if strings.HasPrefix(w, prefix) {
			out = append(out, w)
		}
	}
	return out
}

// Begin opens the capture window and clears the buffer.
func (t *Typed) Begin() {
	t.active = true
	t.buf = t.buf[:0]
}

// Type appends text to the buffer while the window is open.
func (t *Typed) Type(text string) {
	if !t.active {
		return
	}
	t.buf = append(t.buf, []rune(text)...)
}

// Backspace removes the last buffered rune.
func (t *Typed) Backspace() {
	if t.active && len(t.buf) > 0 {
		t.buf = t.buf[:len(t.buf)-1]
	}
}

// Buffer returns the text captured so far.
func (t *Typed) Buffer() string { return string(t.buf) }

// Active reports whether the capture window is open.
func (t *Typed) Active() bool { return t.active }

// Commit closes the window and delivers the buffered text to every callback.
// Without an open window it does nothing.
func (t *Typed) Commit() {
	if !t.active {
		return
	}
	text := string(t.buf)
	t.active = false
	t.buf = t.buf[:0]
	for _, cb := range t.callbacks {
		cb.fn(text)
	}
}

// Abort closes the window and discards the buffer.
func (t *Typed) Abort() {
	t.active = false
	t.buf = t.buf[:0]
}

// Submit is a full gesture for line-oriented input: begin, type, commit.
func (t *Typed) Submit(text string) {
	t.Begin()
	t.Type(text)
	t.Commit()
}
