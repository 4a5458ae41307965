// Package state holds the immutable game definitions and the lookups the
// engine runs against them.
package state

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/nathoo/signstrike/types"
)

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game     types.GameDef
	Scenes   map[string]types.SceneDef
	Handlers []types.EventHandler
}

// Scene returns the scene definition for id.
func Scene(defs *Defs, id string) (types.SceneDef, bool) {
	if defs == nil {
		return types.SceneDef{}, false
	}
	sc, ok := defs.Scenes[id]
	return sc, ok
}

// SceneIDs returns every scene ID, sorted.
func SceneIDs(defs *Defs) []string {
	ids := make([]string, 0, len(defs.Scenes))
	for id := range defs.Scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasVocabulary reports whether the scene names any word source.
func HasVocabulary(sc types.SceneDef) bool {
	return sc.VocabularyPath != "" || len(sc.Vocabulary) > 0
}

// ReadVocabulary returns the raw line-delimited vocabulary text of a scene:
// inline words followed by the contents of its word file. A missing word
// file is reported, but inline words are still returned.
func ReadVocabulary(sc types.SceneDef) (string, error) {
	var b strings.Builder
	for _, w := range sc.Vocabulary {
		b.WriteString(w)
		b.WriteByte('\n')
	}
	if sc.VocabularyPath == "" {
		return b.String(), nil
	}
	data, err := os.ReadFile(sc.VocabularyPath)
	if err != nil {
		return b.String(), fmt.Errorf("reading word file for scene %s: %w", sc.ID, err)
	}
	b.Write(data)
	return b.String(), nil
}

// HandlersFor returns the handlers for an event type in a scene, in
// definition order.
func HandlersFor(defs *Defs, eventType, sceneID string) []types.EventHandler {
	if defs == nil {
		return nil
	}
	var out []types.EventHandler
	for _, h := range defs.Handlers {
		if h.EventType != eventType {
			continue
		}
		if h.Scene != "" && h.Scene != sceneID {
			continue
		}
		out = append(out, h)
	}
	return out
}
