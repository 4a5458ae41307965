package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/signstrike/types"
)

func testDefs() *Defs {
	return &Defs{
		Game: types.GameDef{Title: "Test", Start: "one"},
		Scenes: map[string]types.SceneDef{
			"one":     {ID: "one", Vocabulary: []string{"cat"}},
			"victory": {ID: "victory"},
		},
		Handlers: []types.EventHandler{
			{EventType: "scene_won", Text: "global"},
			{EventType: "scene_won", Scene: "one", Text: "scoped"},
			{EventType: "scene_won", Scene: "two", Text: "other"},
			{EventType: "entity_spawned", Text: "spawn"},
		},
	}
}

func TestScene(t *testing.T) {
	defs := testDefs()
	if sc, ok := Scene(defs, "one"); !ok || sc.ID != "one" {
		t.Errorf("Scene(one) = %+v, %v", sc, ok)
	}
	if _, ok := Scene(defs, "missing"); ok {
		t.Error("Scene(missing) found")
	}
	if _, ok := Scene(nil, "one"); ok {
		t.Error("Scene on nil defs found")
	}
	if got := strings.Join(SceneIDs(defs), ","); got != "one,victory" {
		t.Errorf("SceneIDs = %s", got)
	}
}

func TestHasVocabulary(t *testing.T) {
	if HasVocabulary(types.SceneDef{}) {
		t.Error("empty scene has vocabulary")
	}
	if !HasVocabulary(types.SceneDef{VocabularyPath: "x.txt"}) {
		t.Error("path not counted")
	}
	if !HasVocabulary(types.SceneDef{Vocabulary: []string{"a"}}) {
		t.Error("inline words not counted")
	}
}

func TestReadVocabulary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(path, []byte("# comment\ndog\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	raw, err := ReadVocabulary(types.SceneDef{ID: "s", Vocabulary: []string{"cat"}, VocabularyPath: path})
	if err != nil {
		t.Fatalf("ReadVocabulary failed: %v", err)
	}
	if raw != "cat\n# comment\ndog\n" {
		t.Errorf("raw = %q", raw)
	}
}

func TestReadVocabulary_MissingFile(t *testing.T) {
	raw, err := ReadVocabulary(types.SceneDef{
		ID:             "s",
		Vocabulary:     []string{"cat"},
		VocabularyPath: filepath.Join(t.TempDir(), "nope.txt"),
	})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "scene s") {
		t.Errorf("error = %v", err)
	}
	if raw != "cat\n" {
		t.Errorf("inline words lost: %q", raw)
	}
}

func TestHandlersFor(t *testing.T) {
	defs := testDefs()
	got := HandlersFor(defs, "scene_won", "one")
	if len(got) != 2 || got[0].Text != "global" || got[1].Text != "scoped" {
		t.Errorf("HandlersFor(scene_won, one) = %+v", got)
	}
	if got := HandlersFor(defs, "scene_won", "victory"); len(got) != 1 {
		t.Errorf("HandlersFor(scene_won, victory) = %+v", got)
	}
	if got := HandlersFor(nil, "scene_won", "one"); got != nil {
		t.Errorf("nil defs returned %v", got)
	}
}
