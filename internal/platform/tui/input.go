package tui

import (
	"time"

	"github.com/vovakirdan/loopy/internal/core"
)

// holdWindow is how long a key counts as held after its last press or
// auto-repeat. Terminals report no key releases, so holding is inferred
// from repeats.
const holdWindow = 220 * time.Millisecond

// repeatGap is the longest gap between two presses of the same key that
// still reads as terminal auto-repeat. Deliberate double taps are slower.
const repeatGap = 70 * time.Millisecond

// inputTracker folds key presses into per-tick input frames.
type inputTracker struct {
	lastDir   map[Direction]time.Time
	lastSpace time.Time
	holding   bool
	taps      core.InputFrame
}

func newInputTracker() *inputTracker {
	return &inputTracker{
		lastDir: make(map[Direction]time.Time),
		taps:    core.NewInputFrame(),
	}
}

// press records a movement key.
func (t *inputTracker) press(d Direction, now time.Time) {
	if d == DirNone {
		return
	}
	switch d {
	case DirLeft:
		delete(t.lastDir, DirRight)
	case DirRight:
		delete(t.lastDir, DirLeft)
	case DirUp:
		delete(t.lastDir, DirDown)
	case DirDown:
		delete(t.lastDir, DirUp)
	}
	t.lastDir[d] = now
}

// space records a primary key press. Every physical press is a tap; an
// auto-repeat turns into continuous fire.
func (t *inputTracker) space(now time.Time) {
	if !t.lastSpace.IsZero() && now.Sub(t.lastSpace) <= repeatGap {
		t.holding = true
	} else {
		t.holding = false
		t.taps.Set(core.ActionPrimary)
	}
	t.lastSpace = now
}

// tap records an edge-triggered action for the next frame.
func (t *inputTracker) tap(a core.Action) {
	t.taps.Set(a)
}

// frame builds the input for a tick at now and clears the taps.
func (t *inputTracker) frame(now time.Time) core.InputFrame {
	in := t.taps.Clone()
	t.taps.Clear()

	x, y := 0.0, 0.0
	for d, at := range t.lastDir {
		if now.Sub(at) > holdWindow {
			delete(t.lastDir, d)
			continue
		}
		switch d {
		case DirLeft:
			x = -1
		case DirRight:
			x = 1
		case DirUp:
			y = -1
		case DirDown:
			y = 1
		}
	}
	in.SetMove(x, y)

	if t.holding && now.Sub(t.lastSpace) <= holdWindow {
		in.Set(core.ActionHold)
	} else {
		t.holding = false
	}
	return in
}

// reset forgets every held key.
func (t *inputTracker) reset() {
	clear(t.lastDir)
	t.lastSpace = time.Time{}
	t.holding = false
	t.taps.Clear()
}
