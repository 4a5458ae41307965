package loader

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nathoo/signstrike/engine"
	"github.com/nathoo/signstrike/engine/events"
)

func TestLoad_MinimalGame(t *testing.T) {
	defs, err := Load("testdata/minimal", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if defs.Game.Title != "Minimal Test Game" {
		t.Errorf("Title = %q, want %q", defs.Game.Title, "Minimal Test Game")
	}
	wave, ok := defs.Scenes["wave"]
	if !ok {
		t.Fatal("scene 'wave' not found")
	}
	if strings.Join(wave.Vocabulary, ",") != "cat,dog" || wave.InitialEnemies != 2 {
		t.Errorf("wave = %+v", wave)
	}
}

func TestLoad_FullGame(t *testing.T) {
	defs, err := Load("testdata/full", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if defs.Game.Author != "Tester" || defs.Game.Version != "0.2" || defs.Game.Start != "level1" {
		t.Errorf("Game = %+v", defs.Game)
	}
	if len(defs.Scenes) != 3 {
		t.Errorf("expected 3 scenes, got %d", len(defs.Scenes))
	}

	lvl := defs.Scenes["level1"]
	want := filepath.Join("testdata/full", "words/level1.txt")
	if lvl.VocabularyPath != want {
		t.Errorf("VocabularyPath = %q, want %q", lvl.VocabularyPath, want)
	}
	if lvl.Slots != 3 || lvl.FirstSpawn != 2 || lvl.SpawnInterval != 4 {
		t.Errorf("spawner = %d/%d/%d", lvl.Slots, lvl.FirstSpawn, lvl.SpawnInterval)
	}
	if lvl.ExplodeSteps != 2 || lvl.DefeatDelay != 3 || lvl.Reward != 5 {
		t.Errorf("level1 = %+v", lvl)
	}
	if lvl.WinScene != "victory" || lvl.DefeatScene != "defeat" {
		t.Errorf("transitions = %s/%s", lvl.WinScene, lvl.DefeatScene)
	}

	if len(defs.Handlers) != 2 {
		t.Fatalf("expected 2 handlers, got %d", len(defs.Handlers))
	}
	if defs.Handlers[0].EventType != events.EntityEliminated || defs.Handlers[1].Scene != "level1" {
		t.Errorf("handlers = %+v", defs.Handlers)
	}
}

func TestLoad_FullGameRuns(t *testing.T) {
	defs, err := Load("testdata/full", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	e := engine.New(defs, engine.Options{Seed: 1})
	if err := e.Start(nil, nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	// Inline words plus the file, case-folded and deduplicated.
	if got := e.Pool().MasterLen(); got != 4 {
		t.Errorf("MasterLen() = %d, want 4 (%v)", got, e.Pool().Master())
	}
	res := e.Drain()
	if len(res.Output) == 0 || res.Output[0] != "Ships incoming." {
		t.Errorf("output = %v", res.Output)
	}
}

func TestLoad_InvalidRefs(t *testing.T) {
	_, err := Load("testdata/invalid_refs", nil)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	assertContains(t, ve.Errors, "undefined scene \"nowhere\"")
	assertContains(t, ve.Errors, "slots must not be negative")
	assertContains(t, ve.Errors, "unknown event type \"ship_landed\"")
	assertContains(t, ve.Errors, "undefined scene \"missing\"")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"testdata/bad_lua", "executing game.lua"},
		{"testdata/no_game", "no Game{} definition found"},
		{"testdata/no_lua", "no .lua files found"},
		{"testdata/sandbox", "executing game.lua"},
		{"testdata/duplicate_scene", "scene wave defined twice"},
		{"testdata/does_not_exist", "reading game directory"},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.dir), func(t *testing.T) {
			_, err := Load(tt.dir, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoad_WarningsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	if _, err := Load("testdata/minimal", zap.New(core)); err != nil {
		t.Fatal(err)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %v", logs.All())
	}
}

func TestSortedLuaFiles(t *testing.T) {
	got := sortedLuaFiles([]string{"z.lua", "game.lua", "a.lua"})
	if strings.Join(got, ",") != "game.lua,a.lua,z.lua" {
		t.Errorf("sortedLuaFiles = %v", got)
	}
}
