// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/verte-zerg/tapdrill/internal/finger"
	"github.com/verte-zerg/tapdrill/internal/stats"
	"github.com/verte-zerg/tapdrill/internal/theme"
)

const (
	tabOverview = iota
	tabWeakChars
	tabSessions
)

// WeakCharRows caps the weak characters table.
const WeakCharRows = 30

type styles struct {
	activeNav   lipgloss.Style
	inactiveNav lipgloss.Style
	header      lipgloss.Style
	errorText   lipgloss.Style
	card        lipgloss.Style
	cardTitle   lipgloss.Style
	cardValue   lipgloss.Style
	tableMuted  lipgloss.Style
	modal       lipgloss.Style
	table       table.Styles
}

func newStyles(p theme.Palette) styles {
	border := lipgloss.Color(p.Pending)
	accent := lipgloss.Color(p.Primary)
	return styles{
		activeNav: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Primary)).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(accent),
		inactiveNav: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Subtitle)).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(border),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Subtitle)),
		errorText: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)),
		card: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(border),
		cardTitle:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Subtitle)),
		cardValue:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Primary)).Bold(true),
		tableMuted: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Subtitle)),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(accent).
			Padding(1, 2),
		table: tableStyles(p),
	}
}

func tableStyles(p theme.Palette) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color(p.Pending)).
		Foreground(lipgloss.Color(p.Secondary)).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	s.Cell = s.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	s.Selected = s.Cell.
		Foreground(lipgloss.Color(p.Primary)).
		Bold(true)
	return s
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	progress *stats.Progress
	last     int
	window   int
	styles   styles

	tabs         []string
	activeTab    int
	overview     viewport.Model
	weakTable    table.Model
	sessionTable table.Model

	width  int
	height int

	filterMode  bool
	filterInput textinput.Model
	filterError string
}

// NewModel constructs a stats UI model over p, limited to the last results
// (0 for all) with a rolling average over window sessions.
func NewModel(p *stats.Progress, th theme.Theme, last, window int) *Model {
	m := &Model{
		progress: p,
		last:     max(0, last),
		window:   max(1, window),
		styles:   newStyles(th.Palette()),
		tabs:     []string{"Overview", "Weak Chars", "Sessions"},
		overview: viewport.New(0, 0),
	}
	m.filterInput = textinput.New()
	m.filterInput.Prompt = "Last N sessions (0 = all): "
	m.filterInput.CharLimit = 6
	m.filterInput.Cursor.SetMode(cursor.CursorBlink)
	m.weakTable = table.New(table.WithHeight(1))
	m.weakTable.SetStyles(m.styles.table)
	m.sessionTable = table.New(table.WithHeight(1))
	m.sessionTable.SetStyles(m.styles.table)
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.window = nextWindow(m.window)
			m.renderOverview()
			return m, nil
		case "-":
			m.window = prevWindow(m.window)
			m.renderOverview()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			m.gotoEdge(true)
			return m, nil
		case "G", "end":
			m.gotoEdge(false)
			return m, nil
		default:
			return m, m.forward(msg)
		}
	}
	return m, nil
}

func (m *Model) forward(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabWeakChars:
		m.weakTable, cmd = m.weakTable.Update(msg)
	case tabSessions:
		m.sessionTable, cmd = m.sessionTable.Update(msg)
	default:
		m.overview, cmd = m.overview.Update(msg)
	}
	return cmd
}

func (m *Model) gotoEdge(top bool) {
	switch m.activeTab {
	case tabWeakChars:
		if top {
			m.weakTable.GotoTop()
		} else {
			m.weakTable.GotoBottom()
		}
	case tabSessions:
		if top {
			m.sessionTable.GotoTop()
		} else {
			m.sessionTable.GotoBottom()
		}
	default:
		if top {
			m.overview.GotoTop()
		} else {
			m.overview.GotoBottom()
		}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.filterMode {
		return fitLines(m.renderFilterModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderHelp(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) view() *stats.Progress {
	return m.progress.Recent(m.last)
}

func (m *Model) refresh() {
	view := m.view()
	cols, rows := weakCharTableData(view, WeakCharRows)
	m.weakTable.SetRows(nil)
	m.weakTable.SetColumns(cols)
	m.weakTable.SetRows(rows)
	cols, rows = sessionTableData(view)
	m.sessionTable.SetRows(nil)
	m.sessionTable.SetColumns(cols)
	m.sessionTable.SetRows(rows)
	m.renderOverview()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(m.styles.activeNav.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	for _, t := range []*table.Model{&m.weakTable, &m.sessionTable} {
		t.SetWidth(m.width)
		t.SetHeight(max(1, bodyHeight-1))
	}
	m.filterInput.Width = max(10, modalWidth(m.width)-6-lipgloss.Width(m.filterInput.Prompt))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	m.weakTable.Blur()
	m.sessionTable.Blur()
	switch m.activeTab {
	case tabWeakChars:
		m.weakTable.Focus()
	case tabSessions:
		m.sessionTable.Focus()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, m.styles.activeNav.Render(tab))
		} else {
			parts = append(parts, m.styles.inactiveNav.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	last := "all"
	if m.last > 0 {
		last = strconv.Itoa(m.last)
	}
	summary := truncateLine(fmt.Sprintf("Settings: last=%s  window=%d  sessions=%d", last, m.window, m.view().Len()), m.width)
	return padLines(m.renderTabs(), m.width) + "\n" + m.styles.header.Render(summary)
}

func (m *Model) renderHelp() string {
	return m.styles.header.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Last N: /  Quit: q")
}

func (m *Model) renderBody() string {
	if m.view().Len() == 0 {
		return "No sessions found."
	}
	switch m.activeTab {
	case tabWeakChars:
		if len(m.weakTable.Rows()) == 0 {
			return "No character errors recorded."
		}
		return m.styles.tableMuted.Render(m.weakTable.View())
	case tabSessions:
		return m.styles.tableMuted.Render(m.sessionTable.View())
	default:
		return m.overview.View()
	}
}

func (m *Model) renderOverview() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.view(), m.window, width, m.styles))
}

func renderOverview(p *stats.Progress, window, width int, st styles) string {
	if p.Len() == 0 {
		return "No sessions found."
	}
	cards := []string{
		metricCard(st, "Sessions", strconv.Itoa(p.Len())),
		metricCard(st, "Avg WPM", fmt.Sprintf("%.1f", p.AverageWPM())),
		metricCard(st, "Best WPM", fmt.Sprintf("%.1f", p.BestWPM())),
		metricCard(st, "Avg Acc", fmt.Sprintf("%.1f%%", p.AverageAccuracy())),
	}
	summary := strings.Join(cards, "\n")
	if width >= 80 {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	var trend bytes.Buffer
	if err := stats.RenderTrend(&trend, p, p.Len(), window); err != nil {
		return fmt.Sprintf("Failed to render trend: %v", err)
	}
	sections := []string{summary, strings.TrimRight(trend.String(), "\n")}
	if fingers := renderFingerErrors(p, st); fingers != "" {
		sections = append(sections, fingers)
	}
	return strings.Join(sections, "\n\n")
}

func metricCard(st styles, label, value string) string {
	content := fmt.Sprintf("%s\n%s", st.cardTitle.Render(label), st.cardValue.Render(value))
	return st.card.Render(content)
}

// renderFingerErrors totals historical errors per finger.
func renderFingerErrors(p *stats.Progress, st styles) string {
	totals := map[finger.Finger]int{}
	for ch, cs := range p.CharErrorAnalysis() {
		if f, ok := finger.ForKey(ch); ok {
			totals[f] += cs.TotalErrors
		}
	}
	if len(totals) == 0 {
		return ""
	}
	lines := []string{st.header.Render("Errors by finger")}
	for _, f := range finger.All() {
		lines = append(lines, fmt.Sprintf("%-13s %d", f.Name(), totals[f]))
	}
	return strings.Join(lines, "\n")
}

func weakCharTableData(p *stats.Progress, top int) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Char", Width: 7},
		{Title: "Errors/Session", Width: 14},
		{Title: "Errors", Width: 7},
		{Title: "Sessions", Width: 8},
		{Title: "Finger", Width: 13},
	}
	analysis := p.CharErrorAnalysis()
	rows := lo.Map(p.WeakestChars(top), func(wc stats.WeakChar, _ int) table.Row {
		cs := analysis[wc.Char]
		fingerName := "-"
		if f, ok := finger.ForKey(wc.Char); ok {
			fingerName = f.Name()
		}
		return table.Row{
			stats.CharLabel(wc.Char),
			fmt.Sprintf("%.2f", wc.Rate),
			strconv.Itoa(cs.TotalErrors),
			strconv.Itoa(cs.Appearances),
			fingerName,
		}
	})
	return columns, rows
}

// sessionTableData lists results newest first.
func sessionTableData(p *stats.Progress) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Date", Width: 16},
		{Title: "WPM", Width: 6},
		{Title: "Accuracy", Width: 8},
		{Title: "Time", Width: 6},
		{Title: "Missed", Width: 20},
	}
	rows := make([]table.Row, 0, p.Len())
	for i := p.Len() - 1; i >= 0; i-- {
		r := p.Results[i]
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%.1f%%", r.Accuracy),
			fmt.Sprintf("%ds", r.DurationSecs),
			missedChars(r.CharErrors),
		})
	}
	return columns, rows
}

// missedChars lists a session's mistyped characters, most errors first.
func missedChars(errs stats.CharCounts) string {
	chars := lo.Keys(errs)
	sort.Slice(chars, func(i, j int) bool {
		if errs[chars[i]] == errs[chars[j]] {
			return chars[i] < chars[j]
		}
		return errs[chars[i]] > errs[chars[j]]
	})
	return strings.Join(lo.Map(chars, func(ch rune, _ int) string {
		return stats.CharLabel(ch)
	}), " ")
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.filterInput.SetValue(strconv.Itoa(m.last))
	return m, m.filterInput.Focus()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		last, err := parseLast(m.filterInput.Value())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.last = last
		m.filterMode = false
		m.filterError = ""
		m.filterInput.Blur()
		m.refresh()
		m.updateLayout()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func parseLast(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid last value (use 0 or positive integer)")
	}
	return n, nil
}

func (m *Model) renderFilterModal() string {
	body := []string{
		m.styles.cardValue.Render("Limit Sessions"),
		m.filterInput.View(),
		m.styles.header.Render("Enter to apply / Esc to cancel"),
	}
	if m.filterError != "" {
		body = append(body, m.styles.errorText.Render(m.filterError))
	}
	box := m.styles.modal.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func nextWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func modalWidth(width int) int {
	return max(40, min(width-4, 80))
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
