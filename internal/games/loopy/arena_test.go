package loopy

import (
	"testing"

	"github.com/vovakirdan/loopy/internal/core"
)

func TestArenaHandlesGoStale(t *testing.T) {
	a := NewArena()
	h := a.Spawn(Entity{Kind: KindFood})
	if !a.Alive(h) {
		t.Fatal("fresh handle should be alive")
	}
	if !a.Destroy(h) {
		t.Fatal("first destroy should succeed")
	}
	if a.Destroy(h) {
		t.Error("second destroy should report false")
	}

	// The freed slot is reused, but the old handle must not see the new entity.
	h2 := a.Spawn(Entity{Kind: KindShot})
	if a.Get(h) != nil {
		t.Error("stale handle resolved to the reused slot")
	}
	if e := a.Get(h2); e == nil || e.Kind != KindShot {
		t.Errorf("new handle resolved to %+v", e)
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", a.Len())
	}
}

func TestArenaZeroHandle(t *testing.T) {
	a := NewArena()
	a.Spawn(Entity{Kind: KindFood})
	var h Handle
	if !h.IsZero() || a.Get(h) != nil {
		t.Error("zero handle must never resolve")
	}
}

func TestArenaDestroyMarksInactive(t *testing.T) {
	a := NewArena()
	h := a.Spawn(Entity{Kind: KindPredator})
	e := a.Get(h)
	a.Destroy(h)
	if e.Active {
		t.Error("destroyed record should be inactive")
	}
}

func TestGroupEvictsOldestFirst(t *testing.T) {
	a := NewArena()
	g := NewGroup("shots", a, 2)

	h1, ev1 := g.Add(Entity{Kind: KindShot})
	h2, _ := g.Add(Entity{Kind: KindShot})
	h3, ev3 := g.Add(Entity{Kind: KindShot})

	if ev1 != 0 || ev3 != 1 {
		t.Errorf("evictions = %d, %d; expected 0, 1", ev1, ev3)
	}
	if a.Alive(h1) {
		t.Error("oldest member should have been evicted")
	}
	if !a.Alive(h2) || !a.Alive(h3) {
		t.Error("newer members should survive")
	}
	if g.Count() != 2 {
		t.Errorf("Count() = %d, expected 2", g.Count())
	}
}

func TestGroupEvictionSkipsDeadMembers(t *testing.T) {
	a := NewArena()
	g := NewGroup("pickups", a, 2)
	h1, _ := g.Add(Entity{Kind: KindPickup})
	h2, _ := g.Add(Entity{Kind: KindPickup})
	a.Destroy(h1)

	_, evicted := g.Add(Entity{Kind: KindPickup})
	if evicted != 0 {
		t.Errorf("expected no eviction after a member died, got %d", evicted)
	}
	if !a.Alive(h2) {
		t.Error("live member was evicted although a slot was free")
	}
}

func TestGroupEachSkipsDestroyedDuringWalk(t *testing.T) {
	a := NewArena()
	g := NewGroup("enemies", a, 0)
	var handles []Handle
	for range 4 {
		h, _ := g.Add(Entity{Kind: KindPredator})
		handles = append(handles, h)
	}

	visited := 0
	g.Each(func(h Handle, _ *Entity) {
		visited++
		if h == handles[0] {
			a.Destroy(handles[2])
			g.Add(Entity{Kind: KindPredator})
		}
	})
	if visited != 3 {
		t.Errorf("visited %d members, expected 3", visited)
	}
	g.Sweep()
	if len(g.Handles()) != 4 {
		t.Errorf("Handles() = %d after sweep, expected 4", len(g.Handles()))
	}
}

func TestSchedulerOrderAndOwnerGuard(t *testing.T) {
	a := NewArena()
	s := NewScheduler(a)
	owner := a.Spawn(Entity{Kind: KindPredator, Pos: core.Vec2{X: 5}})

	var order []string
	s.At(200, Handle{}, func(float64, *Entity) { order = append(order, "late") })
	s.At(100, Handle{}, func(float64, *Entity) { order = append(order, "first") })
	s.At(100, Handle{}, func(float64, *Entity) { order = append(order, "second") })
	s.At(150, owner, func(_ float64, e *Entity) {
		order = append(order, "owned")
		if e == nil || e.Pos.X != 5 {
			t.Error("owned callback should receive the owner record")
		}
	})
	s.At(160, owner, func(float64, *Entity) { order = append(order, "orphan") })

	if ran := s.RunDue(155); ran != 3 {
		t.Errorf("RunDue(155) ran %d, expected 3", ran)
	}
	a.Destroy(owner)
	s.RunDue(1000)

	expected := []string{"first", "second", "owned", "late"}
	if len(order) != len(expected) {
		t.Fatalf("order = %v, expected %v", order, expected)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("order[%d] = %q, expected %q", i, order[i], expected[i])
		}
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", s.Pending())
	}
}

func TestRingClampsToOldest(t *testing.T) {
	r := newRing(3)
	for i := 1; i <= 5; i++ {
		r.Push(core.Vec2{X: float64(i)})
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, expected 3", r.Len())
	}
	if got := r.At(0).X; got != 5 {
		t.Errorf("At(0) = %v, expected 5", got)
	}
	if got := r.At(10).X; got != 3 {
		t.Errorf("At(10) = %v, expected oldest sample 3", got)
	}
}
