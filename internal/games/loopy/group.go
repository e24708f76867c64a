package loopy

// Group is a bounded, insertion-ordered set of entity handles.
// When an insert would exceed MaxActive the earliest inserted live member is
// destroyed first, so the bound holds immediately after Add returns.
type Group struct {
	Name      string
	MaxActive int // 0 means unbounded

	arena   *Arena
	members []Handle
}

// NewGroup creates a group over arena with the given capacity.
func NewGroup(name string, arena *Arena, maxActive int) *Group {
	return &Group{Name: name, MaxActive: maxActive, arena: arena}
}

// Add spawns e into the arena and appends it, evicting the oldest members
// as needed. It returns the new handle and the number of evictions.
func (g *Group) Add(e Entity) (Handle, int) {
	g.compact()
	evicted := 0
	if g.MaxActive > 0 {
		for len(g.members) >= g.MaxActive {
			g.arena.Destroy(g.members[0])
			g.members = g.members[1:]
			evicted++
		}
	}
	h := g.arena.Spawn(e)
	g.members = append(g.members, h)
	return h, evicted
}

// Count returns the number of live members.
func (g *Group) Count() int {
	n := 0
	for _, h := range g.members {
		if g.arena.Alive(h) {
			n++
		}
	}
	return n
}

// Each calls fn for every live member present when the call started.
// Members destroyed during the walk are skipped; members added during the
// walk are not visited.
func (g *Group) Each(fn func(h Handle, e *Entity)) {
	members := g.members
	for _, h := range members {
		if e := g.arena.Get(h); e != nil {
			fn(h, e)
		}
	}
}

// Handles returns a copy of the live member handles in insertion order.
func (g *Group) Handles() []Handle {
	out := make([]Handle, 0, len(g.members))
	for _, h := range g.members {
		if g.arena.Alive(h) {
			out = append(out, h)
		}
	}
	return out
}

// DestroyAll destroys every member.
func (g *Group) DestroyAll() {
	for _, h := range g.members {
		g.arena.Destroy(h)
	}
	g.members = nil
}

// Sweep drops stale handles. Called once per tick.
func (g *Group) Sweep() {
	g.compact()
}

// compact rebuilds the member list without stale handles. A fresh slice is
// used so an ongoing Each over the old slice is not disturbed.
func (g *Group) compact() {
	stale := false
	for _, h := range g.members {
		if !g.arena.Alive(h) {
			stale = true
			break
		}
	}
	if !stale {
		return
	}
	kept := make([]Handle, 0, len(g.members))
	for _, h := range g.members {
		if g.arena.Alive(h) {
			kept = append(kept, h)
		}
	}
	g.members = kept
}
