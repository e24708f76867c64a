package loopy

import "container/heap"

// task is a deferred one-shot callback. When owner is set the callback only
// runs if the owner is still alive, and receives the owner's record.
type task struct {
	at    float64
	seq   uint64
	owner Handle
	fn    func(now float64, e *Entity)
}

type taskHeap []task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)   { *h = append(*h, x.(task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[:n-1]
	return t
}

// Scheduler runs deferred callbacks at tick boundaries in (time, insertion)
// order.
type Scheduler struct {
	arena *Arena
	tasks taskHeap
	seq   uint64
}

// NewScheduler creates a scheduler that guards callbacks against arena.
func NewScheduler(arena *Arena) *Scheduler {
	return &Scheduler{arena: arena}
}

// At schedules fn to run at the given time. A zero owner is never skipped.
func (s *Scheduler) At(at float64, owner Handle, fn func(now float64, e *Entity)) {
	s.seq++
	heap.Push(&s.tasks, task{at: at, seq: s.seq, owner: owner, fn: fn})
}

// RunDue runs every task due at or before now and returns how many ran.
// Tasks whose owner has been destroyed are dropped silently.
func (s *Scheduler) RunDue(now float64) int {
	ran := 0
	for len(s.tasks) > 0 && s.tasks[0].at <= now {
		t := heap.Pop(&s.tasks).(task)
		var e *Entity
		if !t.owner.IsZero() {
			e = s.arena.Get(t.owner)
			if e == nil {
				continue
			}
		}
		t.fn(now, e)
		ran++
	}
	return ran
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Clear drops every queued task.
func (s *Scheduler) Clear() {
	s.tasks = nil
}
