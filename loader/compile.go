// Package loader loads Lua game content into Go structs at compile time.
// The Lua VM is discarded after loading; no Lua runs at runtime.
package loader

import (
	"fmt"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/signstrike/engine/state"
	"github.com/nathoo/signstrike/types"
)

// rawScene holds a scene table before compilation.
type rawScene struct {
	id    string
	table *lua.LTable
}

// rawHandler holds an event handler before compilation.
type rawHandler struct {
	eventType string
	table     *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getInt returns an integer field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStrings returns the string elements of a Lua array in order.
// Non-string elements are skipped.
func tableToStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector, dir string) (*state.Defs, error) {
	defs := &state.Defs{
		Scenes: map[string]types.SceneDef{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	for _, raw := range coll.scenes {
		if _, dup := defs.Scenes[raw.id]; dup {
			return nil, fmt.Errorf("scene %s defined twice", raw.id)
		}
		defs.Scenes[raw.id] = compileScene(raw, dir)
	}

	for _, raw := range coll.handlers {
		defs.Handlers = append(defs.Handlers, compileHandler(raw))
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Start:   getString(tbl, "start"),
		Intro:   getString(tbl, "intro"),
	}
}

func compileScene(raw rawScene, dir string) types.SceneDef {
	tbl := raw.table
	sc := types.SceneDef{
		ID:             raw.id,
		Intro:          getString(tbl, "intro"),
		Vocabulary:     tableToStrings(getTable(tbl, "vocabulary")),
		Slots:          getInt(tbl, "slots"),
		FirstSpawn:     getInt(tbl, "first_spawn"),
		SpawnInterval:  getInt(tbl, "spawn_interval"),
		InitialEnemies: getInt(tbl, "initial_enemies"),
		ExplodeSteps:   getInt(tbl, "explode_steps"),
		WinScene:       getString(tbl, "win_scene"),
		DefeatScene:    getString(tbl, "defeat_scene"),
		DefeatDelay:    getInt(tbl, "defeat_delay"),
		Reward:         getInt(tbl, "reward"),
	}
	if path := getString(tbl, "words"); path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		sc.VocabularyPath = path
	}
	return sc
}

func compileHandler(raw rawHandler) types.EventHandler {
	return types.EventHandler{
		EventType: raw.eventType,
		Scene:     getString(raw.table, "scene"),
		Text:      getString(raw.table, "text"),
	}
}

// sortedLuaFiles returns .lua files with game.lua first and the rest sorted
// alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
