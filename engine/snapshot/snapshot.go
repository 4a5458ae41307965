// Package snapshot renders the running session as YAML for debugging.
// Snapshots are read-only views; they are never loaded back into an engine.
package snapshot

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/signstrike/engine"
)

// Snapshot is the YAML-serializable view of a session.
type Snapshot struct {
	Game      string    `yaml:"game"`
	Version   string    `yaml:"version,omitempty"`
	Scene     string    `yaml:"scene"`
	Step      uint64    `yaml:"step"`
	Score     int       `yaml:"score"`
	Coins     int       `yaml:"coins"`
	Won       bool      `yaml:"won"`
	Live      []Binding `yaml:"live"`
	Exploding []uint64  `yaml:"exploding"`
	Pool      Pool      `yaml:"pool"`
	Filter    []string  `yaml:"filter"`
	Pending   []string  `yaml:"pending"`
	RNGSeed   int64     `yaml:"rng_seed"`
	RNGDraws  int64     `yaml:"rng_draws"`
}

// Binding is one live entity and its word.
type Binding struct {
	Entity uint64 `yaml:"entity"`
	Word   string `yaml:"word"`
	Slot   int    `yaml:"slot"`
}

// Pool summarizes the word pool. Spent lists master words no longer
// drawable, in master order.
type Pool struct {
	Remaining int      `yaml:"remaining"`
	Master    int      `yaml:"master"`
	Spent     []string `yaml:"spent,omitempty"`
}

// Take captures the engine's current session.
func Take(e *engine.Engine) Snapshot {
	snap := Snapshot{
		Game:      e.Defs.Game.Title,
		Version:   e.Defs.Game.Version,
		Scene:     e.Scene().ID,
		Step:      e.Sched.Now(),
		Score:     e.Ledger.Score(),
		Coins:     e.Ledger.Coins(),
		Won:       e.Won(),
		Live:      []Binding{},
		Exploding: []uint64{},
		Filter:    e.Focus.Published(),
		Pending:   e.Sched.Pending(),
		RNGSeed:   e.RNG.Seed(),
		RNGDraws:  e.RNG.Position(),
	}
	for _, b := range e.Live() {
		snap.Live = append(snap.Live, Binding{Entity: uint64(b.Entity), Word: b.Word, Slot: b.Slot})
	}
	for _, ship := range e.Fleet.Ships() {
		if ship.Exploding {
			snap.Exploding = append(snap.Exploding, uint64(ship.ID))
		}
	}
	if p := e.Pool(); p != nil {
		snap.Pool = Pool{Remaining: p.Len(), Master: p.MasterLen()}
		for _, w := range p.Master() {
			if !p.Contains(w) {
				snap.Pool.Spent = append(snap.Pool.Spent, w)
			}
		}
	}
	if snap.Filter == nil {
		snap.Filter = []string{}
	}
	if snap.Pending == nil {
		snap.Pending = []string{}
	}
	return snap
}

// Marshal serializes a snapshot to YAML bytes.
func Marshal(snap Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	return data, nil
}

// Dump is Take followed by Marshal.
func Dump(e *engine.Engine) ([]byte, error) {
	return Marshal(Take(e))
}
