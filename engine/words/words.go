// Package words owns the master vocabulary and the shuffled, depletable
// working set that spawners draw from.
package words

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Sentinel is returned by draws from an empty working set.
const Sentinel = "Out of Words!"

// commentPrefix marks vocabulary lines that are skipped at ingestion.
const commentPrefix = "#"

// Source supplies uniform random integers in [0, n).
type Source interface {
	Intn(n int) int
}

// ConfigError reports a missing or empty vocabulary source. It is not fatal:
// the pool stays empty and every draw returns Sentinel.
type ConfigError struct {
	Source string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("vocabulary: %s", e.Reason)
	}
	return fmt.Sprintf("vocabulary %s: %s", e.Source, e.Reason)
}

// Normalize trims surrounding whitespace and case-folds s.
func Normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Points returns the score awarded for eliminating an entity bound to word:
// max(1, runes/3 + 1).
func Points(word string) int {
	p := len([]rune(word))/3 + 1
	if p < 1 {
		return 1
	}
	return p
}

// Pool holds the master vocabulary and the working set.
type Pool struct {
	master  []string
	working []string
	rng     Source
}

// NewPool creates an empty pool drawing randomness from rng.
func NewPool(rng Source) *Pool {
	return &Pool{rng: rng}
}

// Load replaces the master vocabulary with the words parsed from raw and
// resets the working set. A source with no usable words yields a
// *ConfigError and leaves the pool empty.
func (p *Pool) Load(raw string) error {
	return p.LoadFrom("", raw)
}

// LoadFrom is Load with the source name recorded in any error.
func (p *Pool) LoadFrom(source, raw string) error {
	p.master = dedupe(parseLines(raw))
	p.ResetWorking()
	if len(p.master) == 0 {
		reason := "no words"
		if strings.TrimSpace(raw) == "" {
			reason = "source is empty"
		}
		return &ConfigError{Source: source, Reason: reason}
	}
	return nil
}

// ResetWorking makes the working set a fresh shuffled copy of the master
// vocabulary.
func (p *Pool) ResetWorking() {
	p.working = make([]string, len(p.master))
	copy(p.working, p.master)
	p.shuffle(p.working)
}

// Peek returns the last word of the working set without removing it.
func (p *Pool) Peek() string {
	if len(p.working) == 0 {
		return Sentinel
	}
	return p.working[len(p.working)-1]
}

// PopRandom removes and returns a uniformly chosen word.
func (p *Pool) PopRandom() string {
	if len(p.working) == 0 {
		return Sentinel
	}
	i := p.rng.Intn(len(p.working))
	w := p.working[i]
	p.removeAt(i)
	return w
}

// PeekNUnique returns up to n distinct words in random order without
// touching the working set.
func (p *Pool) PeekNUnique(n int) []string {
	if n <= 0 || len(p.working) == 0 {
		return []string{}
	}
	picked := make([]string, len(p.working))
	copy(picked, p.working)
	p.shuffle(picked)
	if n < len(picked) {
		picked = picked[:n]
	}
	return picked
}

// PopNUnique removes and returns up to n distinct words in random order.
func (p *Pool) PopNUnique(n int) []string {
	picked := p.PeekNUnique(n)
	for _, w := range picked {
		p.Remove(w)
	}
	return picked
}

// Remove deletes one occurrence of word from the working set. Returns false
// if it was not there.
func (p *Pool) Remove(word string) bool {
	for i, w := range p.working {
		if w == word {
			p.removeAt(i)
			return true
		}
	}
	return false
}

// Contains reports whether word is still drawable.
func (p *Pool) Contains(word string) bool {
	for _, w := range p.working {
		if w == word {
			return true
		}
	}
	return false
}

// FilterByPrefix returns the drawable words starting with prefix, ignoring case.
func (p *Pool) FilterByPrefix(prefix string) []string {
	prefix = Normalize(prefix)
	var out []string
	for _, w := range p.working {
		if strings.HasPrefix(w, prefix) {
			out = append(out, w)
		}
	}
	return out
}

// FilterByLength returns the drawable words whose rune length is within
// [minLen, maxLen]. Swapped or negative bounds are corrected.
func (p *Pool) FilterByLength(minLen, maxLen int) []string {
	if minLen < 0 {
		minLen = 0
	}
	if maxLen < minLen {
		minLen, maxLen = maxLen, minLen
	}
	var out []string
	for _, w := range p.working {
		if n := len([]rune(w)); n >= minLen && n <= maxLen {
			out = append(out, w)
		}
	}
	return out
}

// Words returns a copy of the working set.
func (p *Pool) Words() []string {
	out := make([]string, len(p.working))
	copy(out, p.working)
	return out
}

// Master returns a copy of the master vocabulary in ingestion order.
func (p *Pool) Master() []string {
	out := make([]string, len(p.master))
	copy(out, p.master)
	return out
}

// Len returns the number of drawable words.
func (p *Pool) Len() int { return len(p.working) }

// MasterLen returns the size of the master vocabulary.
func (p *Pool) MasterLen() int { return len(p.master) }

func (p *Pool) removeAt(i int) {
	last := len(p.working) - 1
	p.working[i] = p.working[last]
	p.working = p.working[:last]
}

// shuffle is a Fisher-Yates pass over list.
func (p *Pool) shuffle(list []string) {
	for i := len(list) - 1; i > 0; i-- {
		j := p.rng.Intn(i + 1)
		list[i], list[j] = list[j], list[i]
	}
}

// parseLines splits raw into normalized words, skipping blanks and comments.
func parseLines(raw string) []string {
	var out []string
	lines := strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == '\r' })
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		if w := Normalize(line); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// dedupe keeps the first occurrence of each word, preserving order.
func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, w := range list {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
