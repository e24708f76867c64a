package loopy

// Handle addresses an entity in the arena. A handle goes stale as soon as
// its entity is destroyed, even if the slot is later reused.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether the handle was never assigned.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

type slot struct {
	gen uint32
	ent *Entity
}

// Arena owns every entity record of a level attempt.
type Arena struct {
	slots []slot
	free  []uint32
	live  int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Spawn stores e and returns its handle. The record is marked active.
func (a *Arena) Spawn(e Entity) Handle {
	e.Active = true
	rec := &e
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[idx].ent = rec
	} else {
		idx = uint32(len(a.slots)) //#nosec G115 -- arena size is bounded by group capacities
		a.slots = append(a.slots, slot{gen: 1, ent: rec})
	}
	a.live++
	return Handle{index: idx, gen: a.slots[idx].gen}
}

// Get returns the entity for h, or nil if h is stale.
func (a *Arena) Get(h Handle) *Entity {
	if h.gen == 0 || int(h.index) >= len(a.slots) {
		return nil
	}
	s := a.slots[h.index]
	if s.gen != h.gen || s.ent == nil {
		return nil
	}
	return s.ent
}

// Alive reports whether h still addresses an active entity.
func (a *Arena) Alive(h Handle) bool {
	return a.Get(h) != nil
}

// Destroy deactivates the entity and frees its slot. It returns true only
// for the call that actually destroyed it.
func (a *Arena) Destroy(h Handle) bool {
	e := a.Get(h)
	if e == nil {
		return false
	}
	e.Active = false
	s := &a.slots[h.index]
	s.ent = nil
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.free = append(a.free, h.index)
	a.live--
	return true
}

// Len returns the number of live entities.
func (a *Arena) Len() int {
	return a.live
}

// Clear drops every entity. All outstanding handles go stale.
func (a *Arena) Clear() {
	for i := range a.slots {
		if a.slots[i].ent != nil {
			a.slots[i].ent.Active = false
			a.slots[i].ent = nil
		}
		a.slots[i].gen++
		if a.slots[i].gen == 0 {
			a.slots[i].gen = 1
		}
	}
	a.free = a.free[:0]
	for i := len(a.slots) - 1; i >= 0; i-- {
		a.free = append(a.free, uint32(i)) //#nosec G115 -- bounded by slot count
	}
	a.live = 0
}
