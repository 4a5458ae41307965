package recognizer

import (
	"strings"
	"testing"

	"github.com/nathoo/signstrike/engine/words"
)

var (
	_ Recognizer = (*Typed)(nil)
	_ Gesture    = (*Typed)(nil)
)

func TestTyped_CommitDeliversBuffer(t *testing.T) {
	r := NewTyped()
	var got []string
	r.AddCallback("check", func(s string) { got = append(got, s) })

	r.Begin()
	r.Type("ca")
	r.Type("tz")
	r.Backspace()
	r.Commit()

	if len(got) != 1 || got[0] != "cat" {
		t.Fatalf("delivered %v, want [cat]", got)
	}
	if r.Active() {
		t.Error("window still open after Commit")
	}
	if r.Buffer() != "" {
		t.Errorf("buffer = %q after Commit", r.Buffer())
	}
}

func TestTyped_AbortDeliversNothing(t *testing.T) {
	r := NewTyped()
	calls := 0
	r.AddCallback("check", func(string) { calls++ })

	r.Begin()
	r.Type("dog")
	r.Abort()
	r.Commit() // no window open

	if calls != 0 {
		t.Errorf("callbacks ran %d times", calls)
	}
}

func TestTyped_TypeOutsideWindowIgnored(t *testing.T) {
	r := NewTyped()
	r.Type("lost")
	r.Begin()
	if r.Buffer() != "" {
		t.Errorf("buffer = %q", r.Buffer())
	}
}

func TestTyped_AddCallbackReplacesByName(t *testing.T) {
	r := NewTyped()
	var first, second int
	r.AddCallback("check", func(string) { first++ })
	r.AddCallback("check", func(string) { second++ })
	r.AddCallback("log", func(string) {})

	r.Submit("x")
	if first != 0 || second != 1 {
		t.Errorf("first=%d second=%d, want 0/1", first, second)
	}
}

func TestTyped_SetFilterReplaces(t *testing.T) {
	r := NewTyped()
	r.SetFilter([]string{"dog", "cat"})
	r.SetFilter([]string{"owl"})
	if got := strings.Join(r.Filter(), ","); got != "owl" {
		t.Errorf("Filter() = %s, want owl", got)
	}

	words := []string{"b", "a"}
	r.SetFilter(words)
	words[0] = "mutated"
	if got := strings.Join(r.Filter(), ","); got != "a,b" {
		t.Errorf("Filter() = %s, want a,b", got)
	}
	r.SetFilter(nil)
	if len(r.Filter()) != 0 {
		t.Errorf("Filter() = %v after clearing", r.Filter())
	}
}

func TestTyped_Suggest(t *testing.T) {
	r := NewTyped()
	r.SetFilter([]string{"cat", "car", "dog"})
	if got := strings.Join(r.Suggest(" CA"), ","); got != "car,cat" {
		t.Errorf("Suggest(CA) = %s", got)
	}
	if got := r.Suggest(""); got != nil {
		t.Errorf("Suggest(\"\") = %v", got)
	}
}

func TestTyped_SuggestFoldsLikeGuesses(t *testing.T) {
	r := NewTyped()
	r.SetFilter([]string{words.Normalize("Straße"), "strom"})
	tests := []struct {
		prefix string
		want   string
	}{
		{"STRAß", "strasse"},
		{"strass", "strasse"},
		{"STR", "strasse,strom"},
	}
	for _, tt := range tests {
		if got := strings.Join(r.Suggest(tt.prefix), ","); got != tt.want {
			t.Errorf("Suggest(%q) = %s, want %s", tt.prefix, got, tt.want)
		}
	}
}
