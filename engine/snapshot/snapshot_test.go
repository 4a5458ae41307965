package snapshot

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/signstrike/engine"
	"github.com/nathoo/signstrike/engine/recognizer"
	"github.com/nathoo/signstrike/engine/state"
	"github.com/nathoo/signstrike/types"
)

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	defs := &state.Defs{
		Game: types.GameDef{Title: "Snap Test", Version: "0.1", Start: "wave"},
		Scenes: map[string]types.SceneDef{
			"wave": {
				ID:            "wave",
				Vocabulary:    []string{"cat", "dog", "owl"},
				Slots:         2,
				FirstSpawn:    1,
				SpawnInterval: 1,
			},
		},
	}
	e := engine.New(defs, engine.Options{Seed: 42})
	if err := e.Start(recognizer.NewTyped(), nil); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return e
}

func TestTake_CapturesSession(t *testing.T) {
	e := testEngine(t)
	e.Step()
	e.Step()
	word := e.Live()[0].Word
	e.SubmitGuess(word)

	snap := Take(e)
	if snap.Game != "Snap Test" || snap.Scene != "wave" {
		t.Errorf("header = %+v", snap)
	}
	if snap.Step != 2 || snap.Score != 2 {
		t.Errorf("step=%d score=%d", snap.Step, snap.Score)
	}
	if len(snap.Live) != 1 || snap.Live[0].Word == word {
		t.Errorf("live = %+v", snap.Live)
	}
	if snap.Pool.Remaining != 1 || snap.Pool.Master != 3 {
		t.Errorf("pool = %+v", snap.Pool)
	}
	if len(snap.Pool.Spent) != 2 || !containsName(snap.Pool.Spent, word) {
		t.Errorf("spent = %v, want 2 words including %s", snap.Pool.Spent, word)
	}
	if len(snap.Exploding) != 1 {
		t.Errorf("exploding = %v, want the matched ship", snap.Exploding)
	}
	if len(snap.Filter) != 1 || snap.Filter[0] != snap.Live[0].Word {
		t.Errorf("filter = %v", snap.Filter)
	}
	if !containsName(snap.Pending, "win_check") || !containsName(snap.Pending, "spawn") {
		t.Errorf("pending = %v", snap.Pending)
	}
	if snap.RNGSeed != 42 || snap.RNGDraws == 0 {
		t.Errorf("rng = %d/%d", snap.RNGSeed, snap.RNGDraws)
	}
}

func TestDump_ProducesYAML(t *testing.T) {
	e := testEngine(t)
	e.Step()

	data, err := Dump(e)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	text := string(data)
	for _, key := range []string{"game: Snap Test", "scene: wave", "live:", "remaining: 2"} {
		if !strings.Contains(text, key) {
			t.Errorf("dump missing %q:\n%s", key, text)
		}
	}

	var back Snapshot
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("dump is not valid YAML: %v", err)
	}
	if back.Scene != "wave" || len(back.Live) != 1 {
		t.Errorf("decoded = %+v", back)
	}
}

func TestTake_IdleScene(t *testing.T) {
	e := engine.New(&state.Defs{
		Game:   types.GameDef{Title: "Idle", Start: "end"},
		Scenes: map[string]types.SceneDef{"end": {ID: "end"}},
	}, engine.Options{})
	if err := e.Start(nil, nil); err != nil {
		t.Fatal(err)
	}
	snap := Take(e)
	if snap.Pool.Master != 0 || len(snap.Live) != 0 || snap.Filter == nil {
		t.Errorf("idle snapshot = %+v", snap)
	}
}

func TestTake_ExplodingShipsAfterSettling(t *testing.T) {
	e := testEngine(t)
	e.Step()
	e.SubmitGuess(e.Live()[0].Word)
	if got := len(Take(e).Exploding); got != 1 {
		t.Fatalf("exploding = %d, want 1", got)
	}
	e.Step()
	if got := Take(e).Exploding; len(got) != 0 {
		t.Errorf("exploding after destroy = %v", got)
	}
}

func containsName(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}
