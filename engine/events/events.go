// Package events implements single-pass narration dispatch for engine events.
// Handlers produce output text but do not emit further events.
package events

import (
	"fmt"
	"strings"

	"github.com/nathoo/signstrike/engine/state"
	"github.com/nathoo/signstrike/types"
)

// Event types emitted by the engine.
const (
	SceneStarted     = "scene_started"
	EntitySpawned    = "entity_spawned"
	EntityEliminated = "entity_eliminated"
	SceneWon         = "scene_won"
	PlayerHit        = "player_hit"
	OutOfWords       = "out_of_words"
	CoinCollected    = "coin_collected"
)

// Dispatch runs event handlers against the emitted events. Single pass,
// no recursion. Returns the narration lines of matching handlers.
func Dispatch(evts []types.Event, defs *state.Defs, sceneID string) []string {
	var out []string
	for _, ev := range evts {
		for _, h := range state.HandlersFor(defs, ev.Type, sceneID) {
			if text := Interpolate(h.Text, ev.Data); text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

// Interpolate replaces {key} placeholders with event data values.
// Unknown placeholders are left as written.
func Interpolate(text string, data map[string]any) string {
	if !strings.Contains(text, "{") {
		return text
	}
	for k, v := range data {
		text = strings.ReplaceAll(text, "{"+k+"}", fmt.Sprint(v))
	}
	return text
}
