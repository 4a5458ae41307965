package fleet

import (
	"testing"

	"github.com/nathoo/signstrike/engine/sched"
	"github.com/nathoo/signstrike/types"
)

func TestSpawn_NeverIssuesZero(t *testing.T) {
	f := New(sched.New(), 1)
	for i := 0; i < 10; i++ {
		id := f.Spawn(-1)
		if id == 0 {
			t.Fatal("Spawn issued the zero handle")
		}
		if !f.Alive(id) {
			t.Errorf("spawned %d not alive", id)
		}
	}
	if f.Count() != 10 {
		t.Errorf("Count() = %d, want 10", f.Count())
	}
}

func TestExplode_DeferredDestroy(t *testing.T) {
	s := sched.New()
	f := New(s, 2)
	var destroyed []types.EntityID
	f.OnDestroy(func(id types.EntityID) { destroyed = append(destroyed, id) })

	id := f.Spawn(0)
	f.Explode(id)
	f.Explode(id) // second call ignored

	ship, ok := f.Get(id)
	if !ok || !ship.Exploding {
		t.Fatalf("ship = %+v, %v", ship, ok)
	}

	s.Step()
	if !f.Alive(id) {
		t.Fatal("destroyed before explosion settled")
	}
	s.Step()
	if f.Alive(id) {
		t.Fatal("still alive after ExplodeSteps")
	}
	if len(destroyed) != 1 || destroyed[0] != id {
		t.Errorf("destroy hook calls = %v", destroyed)
	}
}

func TestExplode_NoSchedulerDestroysImmediately(t *testing.T) {
	f := New(nil, 3)
	id := f.Spawn(-1)
	f.Explode(id)
	if f.Alive(id) {
		t.Error("expected immediate destroy without a scheduler")
	}
}

func TestDestroy_StaleHandle(t *testing.T) {
	f := New(sched.New(), 1)
	a := f.Spawn(-1)
	f.Destroy(a)
	b := f.Spawn(-1) // reuses a's index with a new generation

	if a == b {
		t.Fatal("reused handle has same generation")
	}
	if indexOf(a) != indexOf(b) {
		t.Fatalf("expected index reuse: %d vs %d", indexOf(a), indexOf(b))
	}
	if f.Alive(a) {
		t.Error("stale handle reported alive")
	}
	f.Destroy(a) // stale, no effect
	if !f.Alive(b) {
		t.Error("destroying a stale handle removed the new ship")
	}
}

func TestShipsAndClear(t *testing.T) {
	f := New(sched.New(), 1)
	calls := 0
	f.OnDestroy(func(types.EntityID) { calls++ })
	a := f.Spawn(2)
	b := f.Spawn(0)

	ships := f.Ships()
	if len(ships) != 2 || ships[0].ID != a || ships[1].ID != b {
		t.Fatalf("Ships() = %+v", ships)
	}
	if ships[0].Slot != 2 {
		t.Errorf("slot = %d, want 2", ships[0].Slot)
	}

	f.Clear()
	if f.Count() != 0 || f.Alive(a) {
		t.Error("Clear left ships behind")
	}
	if calls != 0 {
		t.Errorf("Clear called destroy hook %d times", calls)
	}
}
