// Package types defines the shared data structures for the signstrike engine.
// This package contains only type definitions, no logic.
package types

// EntityID is an opaque handle for a spawned enemy. The zero value is never
// issued to a live entity.
type EntityID uint64

// Binding associates one live entity with one word. Slot is -1 when the
// entity does not occupy a fixed placement position.
type Binding struct {
	Entity EntityID
	Word   string
	Slot   int
}

// Feedback tells a HUD how to color the last guess.
type Feedback int

const (
	FeedbackNone Feedback = iota // empty guess, nothing to show
	FeedbackMiss                 // shown but wrong
	FeedbackHit                  // matched a live word
)

// MatchResult is the outcome of one submitted guess.
type MatchResult struct {
	Matched  bool
	Feedback Feedback
	Text     string   // normalized guess, surfaced for UI feedback
	Word     string   // bound word that was matched (empty on miss)
	Entity   EntityID // eliminated entity (zero on miss)
	Points   int
}

// Result is the output of a single engine step or command.
type Result struct {
	Match  *MatchResult // nil when the command was not a guess
	Events []Event
	Output []string
}

// Event is emitted after the engine mutates session state.
type Event struct {
	Type string
	Data map[string]any
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Start   string // starting scene ID
	Intro   string
}

// SceneDef is one playable (or idle) scene. Scenes without a vocabulary are
// legitimate: victory and defeat screens carry only text and transitions.
type SceneDef struct {
	ID             string
	Intro          string
	VocabularyPath string   // resolved path of a line-delimited word file
	Vocabulary     []string // inline words from Lua
	Slots          int      // fixed placement positions for the spawner
	FirstSpawn     int      // steps before the first spawn
	SpawnInterval  int      // steps between spawn attempts
	InitialEnemies int      // entities labeled in one batch at scene start
	ExplodeSteps   int      // steps an exploding entity takes to disappear
	WinScene       string
	DefeatScene    string
	DefeatDelay    int
	Reward         int // coins credited when the scene is won
}

// EventHandler is narration triggered by an engine event rather than a
// player guess. An empty Scene matches every scene.
type EventHandler struct {
	EventType string
	Scene     string
	Text      string
}
