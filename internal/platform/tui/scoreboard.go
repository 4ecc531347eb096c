package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/grid-arcade/internal/registry"
	"github.com/vovakirdan/grid-arcade/internal/storage"
)

const (
	minWidthForSidebar = 80
	sidebarWidth       = 24
	maxScores          = 100
	dateLayout         = "Jan 02 15:04"
)

var (
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tabStyle    = activeStyle.Background(lipgloss.Color("57")).Padding(0, 1)
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		NextGame: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("→/tab", "next game")),
		PrevGame: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("←", "prev game")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows the top scores of one game at a time, with every
// game's best score in a sidebar on wide terminals.
type ScoreboardModel struct {
	games  []registry.GameInfo
	cursor int
	store  *storage.Store

	scores []storage.ScoreEntry
	stats  map[string]*storage.GameStats // per game, nil without a store

	table table.Model
	help  help.Model
	keys  ScoreboardKeyMap

	width, height int
	quitting      bool
	goingBack     bool
}

// NewScoreboardModel creates a new scoreboard model opened on gameID, or on
// the first game when gameID is empty or unknown.
func NewScoreboardModel(store *storage.Store, gameID string, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	for i, g := range m.games {
		if g.ID == gameID {
			m.cursor = i
		}
	}
	if store != nil {
		if stats, err := store.GetAllGamesStats(); err == nil {
			m.stats = stats
		}
	}
	m.table = m.newTable()
	m.load()
	return m
}

func (m ScoreboardModel) wide() bool { return m.width >= minWidthForSidebar }

// newTable sizes the score table to the space left by the sidebar.
func (m ScoreboardModel) newTable() table.Model {
	avail := m.width - 6
	if m.wide() {
		avail -= sidebarWidth + 4
	}
	dateW := min(max(avail-20, len(dateLayout)), 20)

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 10},
			{Title: "Date", Width: dateW},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)
	return t
}

// selected returns the game under the cursor.
func (m ScoreboardModel) selected() (registry.GameInfo, bool) {
	if len(m.games) == 0 {
		return registry.GameInfo{}, false
	}
	return m.games[m.cursor], true
}

// load fetches the selected game's scores into the table.
func (m *ScoreboardModel) load() {
	m.scores = nil
	if g, ok := m.selected(); ok && m.store != nil {
		if scores, err := m.store.TopScores(g.ID, maxScores); err == nil {
			m.scores = scores
		}
	}

	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{"#" + strconv.Itoa(i+1), strconv.Itoa(s.Score), s.CreatedAt.Format(dateLayout)}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// statsLine summarises the selected game's history.
func (m ScoreboardModel) statsLine() string {
	g, ok := m.selected()
	if !ok {
		return ""
	}
	st := m.stats[g.ID]
	if st == nil || st.GamesCount == 0 {
		return ""
	}
	return fmt.Sprintf("Played %d  |  Best %d  |  Avg %.0f  |  Last %s",
		st.GamesCount, st.HighScore, st.AvgScore, st.LastPlayed.Format(dateLayout))
}

// moveGame shifts the cursor by delta, wrapping around.
func (m *ScoreboardModel) moveGame(delta int) {
	if n := len(m.games); n > 0 {
		m.cursor = (m.cursor + delta + n) % n
		m.load()
	}
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextGame):
			m.moveGame(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevGame):
			m.moveGame(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		rows := m.table.Rows()
		m.table = m.newTable()
		m.table.SetRows(rows)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "HIGH SCORES"
	if g, ok := m.selected(); ok {
		title += " - " + g.Title
	}

	var b strings.Builder
	b.WriteString(menuTitleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(menuDimStyle.Render(centerText(m.statsLine(), m.width)))
	b.WriteString("\n\n")

	scores := boxStyle.Render(m.tableView())
	if m.wide() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(), "  ", scores))
	} else {
		b.WriteString(centerText(m.tabs(), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(scores, m.width))
	}

	b.WriteString("\n")
	b.WriteString(menuDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// sidebar lists every game with its best score.
func (m ScoreboardModel) sidebar() string {
	var sb strings.Builder
	sb.WriteString("Games\n")
	sb.WriteString(strings.Repeat("─", sidebarWidth-4))
	for i, g := range m.games {
		best := "-"
		if st := m.stats[g.ID]; st != nil && st.GamesCount > 0 {
			best = strconv.Itoa(st.HighScore)
		}
		nameW := sidebarWidth - 6 - len(best)
		name := g.Title
		if len(name) > nameW {
			name = name[:nameW-1] + "."
		}
		line := fmt.Sprintf("%-*s %s", nameW, name, best)
		if i == m.cursor {
			line = activeStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString("\n" + line)
	}
	return boxStyle.Width(sidebarWidth).Render(sb.String())
}

// tabs shows the game titles in a row, or just the selected one when they
// do not fit.
func (m ScoreboardModel) tabs() string {
	g, ok := m.selected()
	if !ok {
		return ""
	}
	parts := make([]string, len(m.games))
	for i, gi := range m.games {
		if i == m.cursor {
			parts[i] = tabStyle.Render(gi.Title)
		} else {
			parts[i] = menuDimStyle.Render(" " + gi.Title + " ")
		}
	}
	line := strings.Join(parts, " ")
	if lipgloss.Width(line) > m.width-4 {
		return "< " + g.Title + " >"
	}
	return line
}

func (m ScoreboardModel) tableView() string {
	if len(m.scores) == 0 {
		return menuDimStyle.Italic(true).Padding(2, 4).
			Render("No scores recorded yet.\nPlay a game to set a high score!")
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
func RunScoreboard(store *storage.Store, gameID string, width, height int) (goBack bool, err error) {
	finalModel, err := tea.NewProgram(NewScoreboardModel(store, gameID, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
