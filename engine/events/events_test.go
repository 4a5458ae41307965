package events

import (
	"testing"

	"github.com/nathoo/signstrike/engine/state"
	"github.com/nathoo/signstrike/types"
)

func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{Start: "sector"},
		Scenes: map[string]types.SceneDef{
			"sector": {ID: "sector"},
		},
		Handlers: []types.EventHandler{
			{EventType: EntityEliminated, Text: "The {word} ship explodes! +{points}"},
			{EventType: SceneWon, Scene: "sector", Text: "Sector clear."},
			{EventType: SceneWon, Scene: "elsewhere", Text: "Wrong scene."},
			{EventType: EntitySpawned, Text: ""},
		},
	}
}

func TestDispatch_MatchesTypeAndScene(t *testing.T) {
	evts := []types.Event{
		{Type: EntityEliminated, Data: map[string]any{"word": "cat", "points": 2}},
		{Type: SceneWon},
	}
	out := Dispatch(evts, testDefs(), "sector")

	if len(out) != 2 {
		t.Fatalf("expected 2 lines, got %v", out)
	}
	if out[0] != "The cat ship explodes! +2" {
		t.Errorf("line 0 = %q", out[0])
	}
	if out[1] != "Sector clear." {
		t.Errorf("line 1 = %q", out[1])
	}
}

func TestDispatch_EmptyTextSkipped(t *testing.T) {
	out := Dispatch([]types.Event{{Type: EntitySpawned}}, testDefs(), "sector")
	if len(out) != 0 {
		t.Errorf("expected no output, got %v", out)
	}
}

func TestDispatch_NoHandlers(t *testing.T) {
	out := Dispatch([]types.Event{{Type: PlayerHit}}, testDefs(), "sector")
	if out != nil {
		t.Errorf("expected nil, got %v", out)
	}
	if out := Dispatch(nil, nil, ""); out != nil {
		t.Errorf("expected nil for nil defs, got %v", out)
	}
}

func TestInterpolate(t *testing.T) {
	tests := []struct {
		text string
		data map[string]any
		want string
	}{
		{"plain", nil, "plain"},
		{"{word}!", map[string]any{"word": "owl"}, "owl!"},
		{"{word} {missing}", map[string]any{"word": "owl"}, "owl {missing}"},
		{"{n}{n}", map[string]any{"n": 3}, "33"},
	}
	for _, tt := range tests {
		if got := Interpolate(tt.text, tt.data); got != tt.want {
			t.Errorf("Interpolate(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
