package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/core"
	"github.com/vovakirdan/loopy/internal/games/loopy"
	"github.com/vovakirdan/loopy/internal/storage"
)

func emptyDef() config.LevelDef {
	return config.LevelDef{
		ID:          1,
		Name:        "Test Grove",
		Biome:       "jungle",
		Quota:       3,
		ExitGateX:   2000,
		PlayerStart: config.Point{X: 200, Y: 350},
		Checkpoints: []float64{600, 1200},
	}
}

// fakeClock advances by a fixed frame on every read.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) read() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func newTestModel(t *testing.T, deps Deps) (Model, *loopy.Level) {
	t.Helper()
	lvl := loopy.New(emptyDef(), loopy.WithStore(loopy.NewMemoryStore()))
	m := NewModel(lvl, deps, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 3})
	clock := &fakeClock{now: time.Unix(1000, 0), step: 16 * time.Millisecond}
	m.clock = clock.read
	m.Init()
	return m, lvl
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return nm
}

func TestModelMovesPlayer(t *testing.T) {
	m, lvl := newTestModel(t, Deps{})
	startX := lvl.Player().Pos.X

	for range 10 {
		m = update(t, m, runeKey('d'))
		m = update(t, m, TickMsg{})
	}
	if lvl.Player().Pos.X <= startX {
		t.Errorf("player x = %v, expected to move right of %v", lvl.Player().Pos.X, startX)
	}
	if lvl.Now() <= 0 {
		t.Error("level clock did not advance")
	}
}

func TestModelShowsHints(t *testing.T) {
	m, lvl := newTestModel(t, Deps{})
	lvl.ChargeBloom()
	m = update(t, m, TickMsg{})
	if m.hint != "Universe Bloom charged" {
		t.Errorf("hint = %q", m.hint)
	}
	if !strings.Contains(m.View(), "Universe Bloom charged") {
		t.Error("hint missing from the view")
	}
}

func TestModelRecordsRunOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m, lvl := newTestModel(t, Deps{Store: store})
	lvl.ForceComplete()
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})

	if !m.State().Completed {
		t.Fatal("model did not observe completion")
	}
	runs, err := store.RecentRuns(1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("recorded %d runs, expected 1", len(runs))
	}
	if runs[0].Outcome != storage.OutcomeCompleted {
		t.Errorf("outcome = %q", runs[0].Outcome)
	}
	if !strings.Contains(m.View(), "LEVEL COMPLETE") {
		t.Error("completion banner missing")
	}

	// A restart starts a fresh attempt that records its own run.
	m = update(t, m, runeKey('r'))
	if m.State().Ended() || lvl.State().Completed {
		t.Error("restart should begin a new attempt")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.IsQuitting() {
		t.Error("ctrl+c should quit")
	}
	runs, _ = store.RecentRuns(1, 10)
	if len(runs) != 2 || runs[0].Outcome != storage.OutcomeAbandoned {
		t.Errorf("runs after quitting = %+v", runs)
	}
}

func TestModelBackOnlyWhenStopped(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.BackToMenu() {
		t.Fatal("enter during play should not leave the level")
	}

	m = update(t, m, runeKey('p'))
	m = update(t, m, TickMsg{})
	if !m.State().Paused {
		t.Fatal("p should pause")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.BackToMenu() {
		t.Error("enter while paused should return to the menu")
	}
}

func TestModelResizeKeepsStatusRow(t *testing.T) {
	m, _ := newTestModel(t, Deps{})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.screen.Width() != 100 || m.screen.Height() != 29 {
		t.Errorf("screen = %dx%d, expected 100x29", m.screen.Width(), m.screen.Height())
	}
	if lines := strings.Count(m.View(), "\n"); lines != 29 {
		t.Errorf("view has %d line breaks, expected 29", lines)
	}
}
