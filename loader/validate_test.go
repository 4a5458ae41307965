package loader

import (
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nathoo/signstrike/engine/state"
	"github.com/nathoo/signstrike/types"
)

// validDefs returns a minimal valid Defs for testing.
func validDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title: "Test",
			Start: "wave",
		},
		Scenes: map[string]types.SceneDef{
			"wave": {
				ID:         "wave",
				Vocabulary: []string{"cat"},
				Slots:      1,
				WinScene:   "won",
			},
			"won": {ID: "won"},
		},
	}
}

func TestValidate_ValidDefs(t *testing.T) {
	if err := validate(validDefs(), zap.NewNop()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*state.Defs)
		want   string
	}{
		{"empty title", func(d *state.Defs) { d.Game.Title = "" }, "Game.Title is required"},
		{"empty start", func(d *state.Defs) { d.Game.Start = "" }, "Game.Start is required"},
		{"missing start", func(d *state.Defs) { d.Game.Start = "nowhere" }, "start scene"},
		{"bad win scene", func(d *state.Defs) {
			sc := d.Scenes["wave"]
			sc.WinScene = "gone"
			d.Scenes["wave"] = sc
		}, "win_scene points to undefined scene"},
		{"bad defeat scene", func(d *state.Defs) {
			sc := d.Scenes["wave"]
			sc.DefeatScene = "gone"
			d.Scenes["wave"] = sc
		}, "defeat_scene points to undefined scene"},
		{"negative reward", func(d *state.Defs) {
			sc := d.Scenes["wave"]
			sc.Reward = -2
			d.Scenes["wave"] = sc
		}, "reward must not be negative"},
		{"unknown event", func(d *state.Defs) {
			d.Handlers = append(d.Handlers, types.EventHandler{EventType: "teleport", Text: "x"})
		}, "unknown event type"},
		{"handler scene", func(d *state.Defs) {
			d.Handlers = append(d.Handlers, types.EventHandler{EventType: "scene_won", Scene: "gone", Text: "x"})
		}, "references undefined scene"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := validDefs()
			tt.mutate(defs)
			err := validate(defs, zap.NewNop())
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			assertContains(t, ve.Errors, tt.want)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	defs := validDefs()
	defs.Game.Title = ""
	defs.Game.Start = "nowhere"
	err := validate(defs, zap.NewNop())
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", ve.Errors)
	}
	if !strings.Contains(ve.Error(), "2 error(s)") {
		t.Errorf("Error() = %s", ve.Error())
	}
}

func TestValidate_Warnings(t *testing.T) {
	defs := validDefs()
	defs.Scenes["empty"] = types.SceneDef{ID: "empty", Slots: 2}
	defs.Scenes["idle"] = types.SceneDef{ID: "idle", Vocabulary: []string{"x"}}
	defs.Scenes["file"] = types.SceneDef{
		ID:             "file",
		VocabularyPath: filepath.Join(t.TempDir(), "missing.txt"),
		Slots:          1,
	}
	defs.Handlers = []types.EventHandler{{EventType: "scene_won"}}

	core, logs := observer.New(zapcore.WarnLevel)
	if err := validate(defs, zap.New(core)); err != nil {
		t.Fatalf("warnings must not fail validation: %v", err)
	}

	var msgs []string
	for _, entry := range logs.All() {
		msgs = append(msgs, entry.Message)
	}
	assertContains(t, msgs, "spawns enemies but has no words")
	assertContains(t, msgs, "never spawns an enemy")
	assertContains(t, msgs, "is not readable")
	assertContains(t, msgs, "has no text")
}

func assertContains(t *testing.T, strs []string, substr string) {
	t.Helper()
	for _, s := range strs {
		if strings.Contains(s, substr) {
			return
		}
	}
	t.Errorf("expected one of %v to contain %q", strs, substr)
}
