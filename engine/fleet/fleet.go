// Package fleet is the in-process entity lifecycle collaborator: it hands out
// enemy handles and destroys exploded enemies after their explosion settles.
package fleet

import (
	"sort"

	"github.com/nathoo/signstrike/engine/sched"
	"github.com/nathoo/signstrike/types"
)

// newID packs a 32-bit index in the lower bits and a 32-bit generation in
// the upper bits. Generation increments on destroy to invalidate stale handles.
func newID(index, generation uint32) types.EntityID {
	return types.EntityID(uint64(generation)<<32 | uint64(index))
}

func indexOf(id types.EntityID) uint32      { return uint32(id) }
func generationOf(id types.EntityID) uint32 { return uint32(id >> 32) }

// handles allocates generational indices with a free list. Index 0 is
// reserved so the zero EntityID is never issued.
type handles struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func newHandles() *handles {
	return &handles{
		generations: make([]uint32, 1, 64),
		freeList:    make([]uint32, 0, 16),
		nextIndex:   1,
	}
}

func (h *handles) create() types.EntityID {
	if len(h.freeList) > 0 {
		idx := h.freeList[len(h.freeList)-1]
		h.freeList = h.freeList[:len(h.freeList)-1]
		return newID(idx, h.generations[idx])
	}
	idx := h.nextIndex
	h.nextIndex++
	if int(idx) >= len(h.generations) {
		h.generations = append(h.generations, 0)
	}
	return newID(idx, h.generations[idx])
}

func (h *handles) alive(id types.EntityID) bool {
	idx := indexOf(id)
	if idx == 0 || idx >= h.nextIndex {
		return false
	}
	return h.generations[idx] == generationOf(id)
}

func (h *handles) destroy(id types.EntityID) {
	if !h.alive(id) {
		return // already destroyed (stale reference)
	}
	idx := indexOf(id)
	h.generations[idx]++
	h.freeList = append(h.freeList, idx)
}

// Ship is one spawned enemy.
type Ship struct {
	ID        types.EntityID
	Slot      int
	Exploding bool
}

// Fleet tracks spawned enemies. Destruction is deferred by ExplodeSteps so
// that explosion effects settle before the enemy disappears.
type Fleet struct {
	ExplodeSteps int

	handles   *handles
	ships     map[types.EntityID]*Ship
	scheduler *sched.Scheduler
	onDestroy func(types.EntityID)
}

// New creates a fleet that defers destruction on s.
func New(s *sched.Scheduler, explodeSteps int) *Fleet {
	return &Fleet{
		ExplodeSteps: explodeSteps,
		handles:      newHandles(),
		ships:        map[types.EntityID]*Ship{},
		scheduler:    s,
	}
}

// OnDestroy registers the hook called after an enemy is removed by any path.
func (f *Fleet) OnDestroy(fn func(types.EntityID)) {
	f.onDestroy = fn
}

// Spawn creates an enemy locked to slot (or -1) and returns its handle.
func (f *Fleet) Spawn(slot int) types.EntityID {
	id := f.handles.create()
	f.ships[id] = &Ship{ID: id, Slot: slot}
	return id
}

// Explode starts the enemy's explosion; it is destroyed ExplodeSteps later.
// Unknown or already exploding enemies are ignored.
func (f *Fleet) Explode(id types.EntityID) {
	ship, ok := f.ships[id]
	if !ok || ship.Exploding {
		return
	}
	ship.Exploding = true
	if f.scheduler == nil {
		f.Destroy(id)
		return
	}
	f.scheduler.After(f.ExplodeSteps, "destroy", func() { f.Destroy(id) })
}

// Destroy removes the enemy immediately.
func (f *Fleet) Destroy(id types.EntityID) {
	if _, ok := f.ships[id]; !ok {
		return
	}
	delete(f.ships, id)
	f.handles.destroy(id)
	if f.onDestroy != nil {
		f.onDestroy(id)
	}
}

// Alive reports whether id refers to an enemy that has not been destroyed.
func (f *Fleet) Alive(id types.EntityID) bool {
	_, ok := f.ships[id]
	return ok && f.handles.alive(id)
}

// Get returns the ship for id.
func (f *Fleet) Get(id types.EntityID) (Ship, bool) {
	ship, ok := f.ships[id]
	if !ok {
		return Ship{}, false
	}
	return *ship, true
}

// Count returns the number of enemies not yet destroyed, exploding included.
func (f *Fleet) Count() int { return len(f.ships) }

// Ships returns a snapshot ordered by handle index.
func (f *Fleet) Ships() []Ship {
	out := make([]Ship, 0, len(f.ships))
	for _, s := range f.ships {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return indexOf(out[i].ID) < indexOf(out[j].ID) })
	return out
}

// Clear drops every enemy without calling the destroy hook. Used when a
// session ends and its enemies go with it.
func (f *Fleet) Clear() {
	for id := range f.ships {
		f.handles.destroy(id)
	}
	f.ships = map[types.EntityID]*Ship{}
}
