package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/loopy/internal/ability"
	"github.com/vovakirdan/loopy/internal/audio"
	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/core"
	"github.com/vovakirdan/loopy/internal/games/loopy"
	"github.com/vovakirdan/loopy/internal/registry"
	"github.com/vovakirdan/loopy/internal/storage"
)

// Frame timing bounds for real-time stepping, in milliseconds.
const (
	minFrameMs = 1
	maxFrameMs = 125
)

// hintDuration is how long a hint stays on the status line.
const hintDuration = 2500 * time.Millisecond

// Deps bundles the collaborators shared by every screen of a session.
// Every field except Games may be nil or empty.
type Deps struct {
	Games   *registry.Registry
	Catalog config.Catalog
	Store   *storage.Store
	Audio   *audio.Player
	Logger  *log.Logger
}

func (d Deps) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}

// Optional capabilities a game may offer beyond registry.Game.
type (
	eventSource interface {
		DrainEvents() []loopy.Event
	}
	deltaStepper interface {
		StepDelta(in core.InputFrame, dtMs float64) core.StepResult
	}
	snapshotter interface {
		Snapshot(withBodies bool) loopy.DebugSnapshot
	}
	levelInfo interface {
		Def() config.LevelDef
	}
)

// Model is the Bubble Tea model for one level attempt.
type Model struct {
	game       registry.Game
	deps       Deps
	screen     *core.Screen
	config     core.RuntimeConfig
	fixedSeed  bool
	keys       *KeyMapper
	input      *inputTracker
	state      core.GameState
	hint       string
	hintUntil  time.Time
	lastTick   time.Time
	runSaved   bool
	quitting   bool
	backToMenu bool
	clock      func() time.Time
}

// NewModel creates a play model for the given game. A zero seed picks a
// time-based one for every attempt.
func NewModel(game registry.Game, deps Deps, cfg core.RuntimeConfig) Model {
	fixed := cfg.Seed != 0
	if !fixed {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	return Model{
		game:      game,
		deps:      deps,
		screen:    core.NewScreen(cfg.ScreenW, playRows(cfg.ScreenH)),
		config:    cfg,
		fixedSeed: fixed,
		keys:      NewKeyMapper(),
		input:     newInputTracker(),
		clock:     time.Now,
	}
}

// playRows leaves one terminal row for the status line.
func playRows(h int) int {
	return max(1, h-1)
}

// Init starts the attempt and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.startMusic()
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, playRows(msg.Height))
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := m.clock()

	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if d := m.keys.MapDirection(msg); d != DirNone {
		m.input.press(d, now)
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.finishRun()
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		if m.state.Ended() || m.state.Paused {
			m.finishRun()
			m.backToMenu = true
		}
	case core.ActionRestart:
		if m.state.Ended() {
			m.restart()
		}
	case core.ActionPrimary:
		m.input.space(now)
	case core.ActionNone:
	default:
		m.input.tap(action)
	}

	return m, nil
}

// restart begins a new attempt at the same level.
func (m *Model) restart() {
	if !m.fixedSeed {
		m.config.Seed = time.Now().UnixNano()
	}
	m.game.Reset(m.config)
	m.state = m.game.State()
	m.input.reset()
	m.runSaved = false
	m.hint = ""
	m.lastTick = time.Time{}
	m.startMusic()
}

// handleTick processes one simulation tick with the measured frame delta.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu || m.quitting {
		return m, nil
	}

	now := m.clock()
	dt := m.config.TickMs()
	if !m.lastTick.IsZero() {
		dt = core.ClampF(float64(now.Sub(m.lastTick))/float64(time.Millisecond), minFrameMs, maxFrameMs)
	}
	m.lastTick = now

	in := m.input.frame(now)
	var result core.StepResult
	if s, ok := m.game.(deltaStepper); ok {
		result = s.StepDelta(in, dt)
	} else {
		result = m.game.Step(in)
	}
	m.state = result.State

	m.handleEvents(now)
	if m.hint != "" && now.After(m.hintUntil) {
		m.hint = ""
	}

	if m.state.Ended() && !m.runSaved {
		m.finishRun()
	}

	return m, tickCmd(m.config.TickRate)
}

// handleEvents routes simulation events to the status line and audio.
func (m *Model) handleEvents(now time.Time) {
	src, ok := m.game.(eventSource)
	if !ok {
		return
	}
	for _, ev := range src.DrainEvents() {
		switch e := ev.(type) {
		case loopy.HintEvent:
			m.setHint(e.Text, now)
		case loopy.SoundEvent:
			if m.deps.Audio != nil {
				m.deps.Audio.Play(e.Cue)
			}
		case loopy.AbilityUnlockedEvent:
			m.setHint(fmt.Sprintf("Ability unlocked: %s", ability.Title(e.Ability)), now)
		case loopy.RespawnEvent:
			m.setHint(fmt.Sprintf("Respawned, %d lives left", e.LivesLeft), now)
		case loopy.BossSpawnedEvent:
			m.setHint("The guardian awakens", now)
		case loopy.BossDefeatedEvent:
			m.setHint("Guardian defeated, the exit is open", now)
		case loopy.LevelCompletedEvent, loopy.GameOverEvent:
			if m.deps.Audio != nil {
				m.deps.Audio.StopMusic()
			}
		}
	}
}

func (m *Model) setHint(text string, now time.Time) {
	m.hint = text
	m.hintUntil = now.Add(hintDuration)
}

// finishRun records the attempt in the run history once.
func (m *Model) finishRun() {
	if m.runSaved {
		return
	}
	m.runSaved = true
	if m.deps.Audio != nil {
		m.deps.Audio.StopMusic()
	}

	snap, ok := m.game.(snapshotter)
	if !ok || m.deps.Store == nil {
		return
	}
	rec := storage.RunFromSnapshot(snap.Snapshot(false))
	id, err := m.deps.Store.RecordRun(rec)
	if err != nil {
		m.deps.logger().Warn("could not record run", "level", rec.LevelID, "error", err)
		return
	}
	m.deps.logger().Debug("run recorded", "id", id, "level", rec.LevelID, "outcome", rec.Outcome)
}

func (m Model) startMusic() {
	if m.deps.Audio == nil {
		return
	}
	if li, ok := m.game.(levelInfo); ok {
		m.deps.Audio.StartMusic(li.Def().Biome)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".loopy", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the playfield and the status line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + renderStatus(m.screen.Width(), m.state, m.hint)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the level list.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// State returns the last observed run state.
func (m Model) State() core.GameState {
	return m.state
}

// Run plays a single game until the player quits or leaves it.
func Run(game registry.Game, deps Deps, cfg core.RuntimeConfig) error {
	model := NewModel(game, deps, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	if deps.Audio != nil {
		deps.Audio.StopMusic()
	}
	return err
}
