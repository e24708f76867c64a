package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/loopy/internal/core"
	"github.com/vovakirdan/loopy/internal/games/loopy"
)

// screen identifies the active part of a session.
type screen int

const (
	screenMenu screen = iota
	screenScores
	screenGame
)

// SessionModel manages the full session flow: menu -> level -> menu, with
// the scoreboard reachable from the menu. It backs both local menu play and
// SSH sessions.
type SessionModel struct {
	deps     Deps
	config   core.RuntimeConfig
	active   screen
	menu     MenuModel
	scores   ScoreboardModel
	game     *Model
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps Deps, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		deps:   deps,
		config: cfg,
		menu:   NewMenuModel(deps, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.active {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// Child models signal their exit with tea.Quit; the session swallows it
// and switches screens instead of ending the program.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if mm, ok := next.(MenuModel); ok {
		m.menu = mm
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.deps, m.config.ScreenW, m.config.ScreenH)
		m.active = screenScores
		return m, m.scores.Init()

	case m.menu.Selected() != 0:
		return m.startLevel(m.menu.Selected())
	}

	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if sm, ok := next.(ScoreboardModel); ok {
		m.scores = sm
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gm, ok := next.(Model); ok {
		m.game = &gm
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.backToMenu()
	}
	return m, cmd
}

// startLevel creates the level and switches to play.
func (m SessionModel) startLevel(id int) (tea.Model, tea.Cmd) {
	m.config = m.menu.Config()
	game, err := m.deps.Games.Create(loopy.LevelKey(id))
	if err != nil {
		m.deps.logger().Warn("cannot start level", "level", id, "error", err)
		return m.backToMenu()
	}

	gm := NewModel(game, m.deps, m.config)
	m.game = &gm
	m.active = screenGame
	return m, m.game.Init()
}

// backToMenu rebuilds the menu so it shows fresh progress.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.game = nil
	m.menu = NewMenuModel(m.deps, m.config)
	m.active = screenMenu
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.active {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu-driven session until the player quits.
func RunSession(deps Deps, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSessionModel(deps, cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	if deps.Audio != nil {
		deps.Audio.StopMusic()
	}
	return err
}
