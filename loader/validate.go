package loader

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/signstrike/engine/events"
	"github.com/nathoo/signstrike/engine/state"
	"github.com/nathoo/signstrike/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Event types a handler may listen for.
var validEventTypes = map[string]bool{
	events.SceneStarted:     true,
	events.EntitySpawned:    true,
	events.EntityEliminated: true,
	events.SceneWon:         true,
	events.PlayerHit:        true,
	events.OutOfWords:       true,
	events.CoinCollected:    true,
}

// validate checks the compiled defs for referential integrity and
// consistency. Warnings are logged; errors are returned together.
func validate(defs *state.Defs, log *zap.Logger) error {
	ve := check(defs)
	for _, w := range ve.Warnings {
		log.Warn(w)
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func check(defs *state.Defs) *ValidationError {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.Title is required")
	}
	if defs.Game.Start == "" {
		ve.Errors = append(ve.Errors, "Game.Start is required")
	} else if _, ok := defs.Scenes[defs.Game.Start]; !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"start scene %q not found in defined scenes", defs.Game.Start))
	}

	for _, id := range state.SceneIDs(defs) {
		validateScene(defs, defs.Scenes[id], ve)
	}

	for _, h := range defs.Handlers {
		if !validEventTypes[h.EventType] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("unknown event type %q in On()", h.EventType))
		}
		if h.Scene != "" {
			if _, ok := defs.Scenes[h.Scene]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"handler for %q references undefined scene %q", h.EventType, h.Scene))
			}
		}
		if h.Text == "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("handler for %q has no text", h.EventType))
		}
	}

	return ve
}

func validateScene(defs *state.Defs, sc types.SceneDef, ve *ValidationError) {
	for _, ref := range []struct{ field, target string }{
		{"win_scene", sc.WinScene},
		{"defeat_scene", sc.DefeatScene},
	} {
		if ref.target == "" {
			continue
		}
		if _, ok := defs.Scenes[ref.target]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"scene %q %s points to undefined scene %q", sc.ID, ref.field, ref.target))
		}
	}

	for _, num := range []struct {
		field string
		value int
	}{
		{"slots", sc.Slots},
		{"first_spawn", sc.FirstSpawn},
		{"spawn_interval", sc.SpawnInterval},
		{"initial_enemies", sc.InitialEnemies},
		{"explode_steps", sc.ExplodeSteps},
		{"defeat_delay", sc.DefeatDelay},
		{"reward", sc.Reward},
	} {
		if num.value < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"scene %q %s must not be negative, got %d", sc.ID, num.field, num.value))
		}
	}

	hasWords := state.HasVocabulary(sc)
	if !hasWords && (sc.Slots > 0 || sc.InitialEnemies > 0) {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(
			"scene %q spawns enemies but has no words", sc.ID))
	}
	if hasWords && sc.Slots == 0 && sc.InitialEnemies == 0 {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(
			"scene %q has words but never spawns an enemy", sc.ID))
	}
	if sc.VocabularyPath != "" {
		if _, err := os.Stat(sc.VocabularyPath); err != nil {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"scene %q word file %s is not readable", sc.ID, sc.VocabularyPath))
		}
	}
}
