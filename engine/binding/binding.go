// Package binding tracks which live entity carries which word and which
// placement slots are occupied.
package binding

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/signstrike/types"
)

// NoSlot marks a binding that does not occupy a placement slot.
const NoSlot = -1

// DuplicateWordError is returned when a word is already bound to a live entity.
type DuplicateWordError struct {
	Word   string
	Holder types.EntityID
}

func (e *DuplicateWordError) Error() string {
	return fmt.Sprintf("word %q already bound to entity %d", e.Word, e.Holder)
}

// SlotConflictError is returned when a slot is already occupied.
type SlotConflictError struct {
	Slot   int
	Holder types.EntityID
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot %d already occupied by entity %d", e.Slot, e.Holder)
}

// SlotRangeError is returned for a slot outside [0, slotCount).
type SlotRangeError struct {
	Slot  int
	Count int
}

func (e *SlotRangeError) Error() string {
	return fmt.Sprintf("slot %d out of range [0, %d)", e.Slot, e.Count)
}

// DuplicateEntityError is returned when an entity already carries a word.
type DuplicateEntityError struct {
	Entity types.EntityID
	Word   string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("entity %d already bound to %q", e.Entity, e.Word)
}

type entry struct {
	binding types.Binding
	seq     uint64
}

// Registry holds the live bindings, indexed by entity, word and slot.
type Registry struct {
	byEntity map[types.EntityID]*entry
	byWord   map[string]*entry
	slots    []types.EntityID // 0 = free
	seq      uint64
}

// New creates a registry with slotCount placement slots.
func New(slotCount int) *Registry {
	if slotCount < 0 {
		slotCount = 0
	}
	return &Registry{
		byEntity: map[types.EntityID]*entry{},
		byWord:   map[string]*entry{},
		slots:    make([]types.EntityID, slotCount),
	}
}

// Attach binds word to entity, optionally locking slot. On error the
// registry is unchanged.
func (r *Registry) Attach(entity types.EntityID, word string, slot int) (types.Binding, error) {
	if e, ok := r.byEntity[entity]; ok {
		return types.Binding{}, &DuplicateEntityError{Entity: entity, Word: e.binding.Word}
	}
	if e, ok := r.byWord[word]; ok {
		return types.Binding{}, &DuplicateWordError{Word: word, Holder: e.binding.Entity}
	}
	if slot != NoSlot {
		if slot < 0 || slot >= len(r.slots) {
			return types.Binding{}, &SlotRangeError{Slot: slot, Count: len(r.slots)}
		}
		if holder := r.slots[slot]; holder != 0 {
			return types.Binding{}, &SlotConflictError{Slot: slot, Holder: holder}
		}
	}

	r.seq++
	e := &entry{
		binding: types.Binding{Entity: entity, Word: word, Slot: slot},
		seq:     r.seq,
	}
	r.byEntity[entity] = e
	r.byWord[word] = e
	if slot != NoSlot {
		r.slots[slot] = entity
	}
	return e.binding, nil
}

// Detach removes the entity's binding and returns its word. An entity that
// is not bound is not an error: it may already have been destroyed.
func (r *Registry) Detach(entity types.EntityID) (string, bool) {
	e, ok := r.byEntity[entity]
	if !ok {
		return "", false
	}
	delete(r.byEntity, entity)
	delete(r.byWord, e.binding.Word)
	if s := e.binding.Slot; s != NoSlot && s < len(r.slots) && r.slots[s] == entity {
		r.slots[s] = 0
	}
	return e.binding.Word, true
}

// FindByWord returns the live binding for word.
func (r *Registry) FindByWord(word string, caseInsensitive bool) (types.Binding, bool) {
	if e, ok := r.byWord[word]; ok {
		return e.binding, true
	}
	if !caseInsensitive {
		return types.Binding{}, false
	}
	for w, e := range r.byWord {
		if strings.EqualFold(w, word) {
			return e.binding, true
		}
	}
	return types.Binding{}, false
}

// Get returns the binding held by entity.
func (r *Registry) Get(entity types.EntityID) (types.Binding, bool) {
	e, ok := r.byEntity[entity]
	if !ok {
		return types.Binding{}, false
	}
	return e.binding, true
}

// Live returns a snapshot of all bindings in attach order.
func (r *Registry) Live() []types.Binding {
	entries := make([]*entry, 0, len(r.byEntity))
	for _, e := range r.byEntity {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]types.Binding, len(entries))
	for i, e := range entries {
		out[i] = e.binding
	}
	return out
}

// Words returns the live words, sorted.
func (r *Registry) Words() []string {
	out := make([]string, 0, len(r.byWord))
	for w := range r.byWord {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Oldest returns the earliest attached live binding.
func (r *Registry) Oldest() (types.Binding, bool) {
	var best *entry
	for _, e := range r.byEntity {
		if best == nil || e.seq < best.seq {
			best = e
		}
	}
	if best == nil {
		return types.Binding{}, false
	}
	return best.binding, true
}

// FirstFreeSlot returns the lowest unoccupied slot, or NoSlot when all are taken.
func (r *Registry) FirstFreeSlot() int {
	for i, holder := range r.slots {
		if holder == 0 {
			return i
		}
	}
	return NoSlot
}

// SlotCount returns the number of placement slots.
func (r *Registry) SlotCount() int { return len(r.slots) }

// Len returns the number of live bindings.
func (r *Registry) Len() int { return len(r.byEntity) }

// Clear drops every binding and frees every slot.
func (r *Registry) Clear() {
	r.byEntity = map[types.EntityID]*entry{}
	r.byWord = map[string]*entry{}
	for i := range r.slots {
		r.slots[i] = 0
	}
}
