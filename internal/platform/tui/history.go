package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/bomb-arena/internal/registry"
	"github.com/vovakirdan/bomb-arena/internal/storage"
)

const (
	minWidthForStats = 90  // Minimum width to show the per-slot panel
	statsWidth       = 30  // Width of the per-slot panel
	maxMatches       = 100 // Max matches to load
)

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next variant"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev variant"),
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

// historyTab is one filter of the history screen; an empty id shows every
// variant.
type historyTab struct {
	id    string
	title string
}

// HistoryModel is the Bubble Tea model for the match history screen.
type HistoryModel struct {
	tabs      []historyTab
	tab       int
	store     *storage.Store
	matches   []storage.Match
	stats     []storage.SlotStats
	loadErr   error
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	width     int
	height    int
	showStats bool
	quitting  bool
	goingBack bool
}

// NewHistoryModel creates a history screen over store. A nil store shows an
// empty history.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	tabs := []historyTab{{id: "", title: "All"}}
	for _, g := range registry.List() {
		tabs = append(tabs, historyTab{id: g.ID, title: g.Title})
	}

	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		tabs:      tabs,
		store:     store,
		keys:      DefaultHistoryKeyMap(),
		help:      h,
		width:     width,
		height:    height,
		showStats: width >= minWidthForStats,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table sized to the window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Variant", Width: 12},
		{Title: "Winner", Width: 10},
		{Title: "Time", Width: 6},
		{Title: "K/D", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
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

// load reads the current tab from the store.
func (m *HistoryModel) load() {
	m.matches, m.stats, m.loadErr = nil, nil, nil
	if m.store != nil {
		id := m.tabs[m.tab].id
		m.matches, m.loadErr = m.store.RecentMatches(id, maxMatches)
		if m.loadErr == nil {
			m.stats, m.loadErr = m.store.SlotStats(id)
		}
	}
	m.updateTableRows()
}

// updateTableRows rebuilds the table from the loaded matches.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.matches))
	for i, mt := range m.matches {
		winner := "draw"
		if w, ok := mt.Winner(); ok {
			winner = fmt.Sprintf("P%d", w.Slot+1)
		}
		rows[i] = table.Row{
			mt.CreatedAt.Local().Format("Jan 02 15:04"),
			strings.TrimPrefix(mt.GameID, "bomber_"),
			winner,
			formatDuration(mt.Duration),
			killLine(mt.Lines),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// killLine renders every slot's kills/deaths as "k/d k/d ...".
func killLine(lines []storage.PlayerLine) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = fmt.Sprintf("%d/%d", l.Kills, l.Deaths)
	}
	return strings.Join(parts, " ")
}

// formatDuration renders d as m:ss.
func formatDuration(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

		case key.Matches(msg, m.keys.NextGame):
			m.tab = (m.tab + 1) % len(m.tabs)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			m.tab = (m.tab + len(m.tabs) - 1) % len(m.tabs)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showStats = m.width >= minWidthForStats
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var (
	historyTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	historyBoxStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)
	historyDimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	title := fmt.Sprintf("MATCH HISTORY - %s", m.tabs[m.tab].title)
	b.WriteString(centerText(historyTitleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	body := historyBoxStyle.Render(m.renderTable())
	if m.showStats {
		stats := historyBoxStyle.Width(statsWidth).Render(m.renderStats())
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", stats)
	}
	b.WriteString(body)

	b.WriteString("\n")
	b.WriteString(historyDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderTable renders the table or a placeholder.
func (m HistoryModel) renderTable() string {
	switch {
	case m.loadErr != nil:
		return historyDimStyle.Render("Cannot read history: " + m.loadErr.Error())
	case len(m.matches) == 0:
		return historyDimStyle.Italic(true).Padding(2, 4).Render("No matches recorded yet.")
	}
	return m.table.View()
}

// renderStats renders the per-slot aggregates.
func (m HistoryModel) renderStats() string {
	var b strings.Builder
	b.WriteString("Slot  Wins  Kills  Deaths\n")
	b.WriteString(strings.Repeat("-", statsWidth-4))
	b.WriteString("\n")
	if len(m.stats) == 0 {
		b.WriteString(historyDimStyle.Render("no data"))
		return b.String()
	}
	for _, st := range m.stats {
		fmt.Fprintf(&b, "P%-3d  %4d  %5d  %6d\n", st.Slot+1, st.Wins, st.Kills, st.Deaths)
	}
	return strings.TrimRight(b.String(), "\n")
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history screen. It returns true if the user wants to
// go back to the menu, false if quitting.
func RunHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewHistoryModel(store, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("tui: %w", err)
	}
	m, ok := final.(HistoryModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
