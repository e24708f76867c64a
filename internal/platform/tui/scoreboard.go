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
	"github.com/vovakirdan/loopy/internal/progress"
	"github.com/vovakirdan/loopy/internal/storage"
)

// Scoreboard layout constants
const (
	maxRecentRuns = 100 // Max runs to load for the history view
)

// scoreView selects what the scoreboard table shows.
type scoreView int

const (
	viewLevels scoreView = iota
	viewRecent
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	SwitchView key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.SwitchView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchView},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		SwitchView: key.NewBinding(
			key.WithKeys("tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "levels/history"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	levels    []config.LevelDef
	save      progress.SaveState
	stats     map[int]*storage.LevelStats
	runs      []storage.RunRecord
	view      scoreView
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool // True if user pressed back (not quit)
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(deps Deps, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		levels: deps.Catalog.Levels,
		save:   progress.Defaults(),
		stats:  map[int]*storage.LevelStats{},
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.load(deps)
	m.table = m.createTable()
	return m
}

// load reads the save and the history. Failures leave the views empty.
func (m *ScoreboardModel) load(deps Deps) {
	if deps.Store == nil {
		return
	}
	lg := deps.logger()
	if s, err := deps.Store.Load(); err == nil {
		m.save = s
	} else {
		lg.Warn("could not load save", "error", err)
	}
	if stats, err := deps.Store.AllLevelStats(); err == nil {
		m.stats = stats
	} else {
		lg.Warn("could not load level stats", "error", err)
	}
	if runs, err := deps.Store.RecentRuns(0, maxRecentRuns); err == nil {
		m.runs = runs
	} else {
		lg.Warn("could not load runs", "error", err)
	}
}

// createTable creates a table with the columns of the current view.
func (m *ScoreboardModel) createTable() table.Model {
	var columns []table.Column
	if m.view == viewLevels {
		columns = []table.Column{
			{Title: "#", Width: 3},
			{Title: "Level", Width: 22},
			{Title: "Best", Width: 7},
			{Title: "Runs", Width: 5},
			{Title: "Cleared", Width: 8},
			{Title: "Avg", Width: 7},
		}
	} else {
		columns = []table.Column{
			{Title: "#", Width: 3},
			{Title: "Outcome", Width: 10},
			{Title: "Score", Width: 7},
			{Title: "Deaths", Width: 6},
			{Title: "Time", Width: 7},
			{Title: "Date", Width: 14},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-8)), // Leave room for header, help, and margins
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

// rows renders the rows of the current view.
func (m ScoreboardModel) rows() []table.Row {
	if m.view == viewRecent {
		rows := make([]table.Row, len(m.runs))
		for i, r := range m.runs {
			rows[i] = table.Row{
				fmt.Sprintf("%d", r.LevelID),
				r.Outcome,
				fmt.Sprintf("%d", r.Score),
				fmt.Sprintf("%d", r.Deaths),
				fmt.Sprintf("%.1fs", float64(r.DurationMs)/1000),
				r.CreatedAt.Format("Jan 02 15:04"),
			}
		}
		return rows
	}

	rows := make([]table.Row, 0, len(m.levels))
	for _, l := range m.levels {
		best := "-"
		if score, ok := m.save.LevelBest[l.ID]; ok {
			best = fmt.Sprintf("%d", score)
		}
		runs, cleared, avg := "0", "0", "-"
		if st := m.stats[l.ID]; st != nil {
			runs = fmt.Sprintf("%d", st.Runs)
			cleared = fmt.Sprintf("%d", st.Completed)
			avg = fmt.Sprintf("%.0f", st.AvgScore)
		}
		rows = append(rows, table.Row{fmt.Sprintf("%d", l.ID), l.Name, best, runs, cleared, avg})
	}
	return rows
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.SwitchView):
			if m.view == viewLevels {
				m.view = viewRecent
			} else {
				m.view = viewLevels
			}
			m.table = m.createTable()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "BEST SCORES"
	if m.view == viewRecent {
		title = "RECENT RUNS"
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(centerText(fmt.Sprintf("Total best %d", m.save.TotalBest()), m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if m.view == viewRecent && len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nPlay a level to start a history!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(deps Deps, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(deps, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
