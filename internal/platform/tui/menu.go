package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/core"
	"github.com/vovakirdan/loopy/internal/progress"
)

// MenuKeyMap defines the key bindings for the level list.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Scores key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Scores, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select}, {k.Scores, k.Quit}}
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MenuModel is the Bubble Tea model for the level list.
type MenuModel struct {
	levels         []config.LevelDef
	save           progress.SaveState
	table          table.Model
	help           help.Model
	keys           MenuKeyMap
	width          int
	height         int
	config         core.RuntimeConfig
	notice         string
	quitting       bool
	selected       int // Level id, 0 until one is picked
	openScoreboard bool
}

// NewMenuModel creates a level list from the catalogue and the save.
func NewMenuModel(deps Deps, cfg core.RuntimeConfig) MenuModel {
	save := progress.Defaults()
	if deps.Store != nil {
		if s, err := deps.Store.Load(); err == nil {
			save = s
		} else {
			deps.logger().Warn("could not load save", "error", err)
		}
	}

	h := help.New()
	m := MenuModel{
		levels: deps.Catalog.Levels,
		save:   save,
		help:   h,
		keys:   DefaultMenuKeyMap(),
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		config: cfg,
	}
	m.table = m.createTable()
	m.table.SetCursor(m.defaultCursor())
	return m
}

// createTable builds the level table for the current size.
func (m *MenuModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Level", Width: 22},
		{Title: "Biome", Width: 7},
		{Title: "Quota", Width: 6},
		{Title: "Best", Width: 7},
		{Title: "", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-9)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// rows renders one table row per level.
func (m MenuModel) rows() []table.Row {
	rows := make([]table.Row, len(m.levels))
	for i, l := range m.levels {
		best := "-"
		if score, ok := m.save.LevelBest[l.ID]; ok {
			best = fmt.Sprintf("%d", score)
		}
		tag := ""
		switch {
		case !m.save.IsUnlocked(l.ID):
			tag = "locked"
		case l.Boss:
			tag = "guardian"
		case l.Milestone:
			tag = "milestone"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", l.ID),
			l.Name,
			l.Biome,
			fmt.Sprintf("%d", l.Quota),
			best,
			tag,
		}
	}
	return rows
}

// defaultCursor points at the highest unlocked level.
func (m MenuModel) defaultCursor() int {
	cursor := 0
	for i, l := range m.levels {
		if m.save.IsUnlocked(l.ID) {
			cursor = i
		}
	}
	return cursor
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Scores):
			m.openScoreboard = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			return m.selectCurrent()

		case key.Matches(msg, m.keys.Up):
			m.table.MoveUp(1)
			m.notice = ""
			return m, nil

		case key.Matches(msg, m.keys.Down):
			m.table.MoveDown(1)
			m.notice = ""
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// selectCurrent picks the level under the cursor if it is unlocked.
func (m MenuModel) selectCurrent() (tea.Model, tea.Cmd) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.levels) {
		return m, nil
	}
	l := m.levels[i]
	if !m.save.IsUnlocked(l.ID) {
		m.notice = fmt.Sprintf("Clear level %d to unlock %s", l.ID-1, l.Name)
		return m, nil
	}
	m.selected = l.ID
	return m, tea.Quit
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("L O O P Y", m.width)))
	b.WriteString("\n")

	sub := fmt.Sprintf("Total best %d  |  seeds %d  |  universe seeds %d",
		m.save.TotalBest(), m.save.Totals.Seeds, m.save.Totals.UniverseSeeds)
	b.WriteString(statusStyle.Render(centerText(sub, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.table.View()))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(hintStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(statusStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// Selected returns the picked level id, or 0 if none was picked.
func (m MenuModel) Selected() int {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}
