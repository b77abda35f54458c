package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/tapdrill/internal/session"
	"github.com/verte-zerg/tapdrill/internal/stats"
	"github.com/verte-zerg/tapdrill/internal/theme"
)

const (
	tickInterval   = 100 * time.Millisecond
	historyWindow  = 20
	progressCells  = 20
	minTextWidth   = 20
	maxTextWidth   = 100
	defaultWidth   = 80
	appTitle       = "TAPDRILL"
	resetTitle     = "⚠ Reset All History?"
	resetMessage   = "This will delete all test results\nand statistics.\n\nThis action cannot be undone."
	completeBanner = "✓ Test Complete!"
)

type tickMsg time.Time

// Model implements the Bubble Tea typing UI.
type Model struct {
	engine    *session.Engine
	theme     theme.Theme
	themePath string
	logger    logrus.FieldLogger

	keys   keyMap
	help   help.Model
	styles styles

	width  int
	height int
}

// NewModel constructs a typing TUI model. Theme changes are persisted to
// themePath unless it is empty.
func NewModel(engine *session.Engine, th theme.Theme, themePath string, logger logrus.FieldLogger) *Model {
	m := &Model{
		engine:    engine,
		themePath: themePath,
		logger:    logger,
		keys:      newKeyMap(),
		help:      help.New(),
	}
	m.setTheme(th)
	return m
}

// Theme returns the active theme.
func (m *Model) Theme() theme.Theme {
	return m.theme
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		return m, tick()
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.engine.PendingReset() {
		switch {
		case msg.Type == tea.KeyCtrlC:
			return tea.Quit
		case key.Matches(msg, m.keys.Confirm):
			// Failures are logged by the engine; the UI just moves on.
			_ = m.engine.ConfirmPending(context.Background())
		case key.Matches(msg, m.keys.Cancel):
			m.engine.CancelPending()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.NextMode):
		m.engine.CycleMode(true)
	case key.Matches(msg, m.keys.PrevMode):
		m.engine.CycleMode(false)
	case key.Matches(msg, m.keys.Length):
		m.engine.CycleLength()
	case key.Matches(msg, m.keys.Theme):
		m.cycleTheme()
	case key.Matches(msg, m.keys.ResetStats):
		m.engine.RequestHistoryReset()
	case key.Matches(msg, m.keys.Finish):
		m.engine.Finish()
	case key.Matches(msg, m.keys.Backspace):
		m.engine.Backspace()
	case key.Matches(msg, m.keys.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Finger) && !m.engine.Complete():
		m.engine.SelectFinger(m.keys.fingerByKey[msg.String()])
	case msg.Type == tea.KeySpace:
		m.engine.Type(' ')
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			m.engine.Type(r)
		}
	}
	return nil
}

func (m *Model) setTheme(th theme.Theme) {
	m.theme = th
	m.styles = newStyles(th)
	p := th.Palette()
	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Primary)).Bold(true)
	m.help.Styles.FullKey = m.help.Styles.ShortKey
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Subtitle))
	m.help.Styles.FullDesc = m.help.Styles.ShortDesc
	m.help.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Pending))
	m.help.Styles.FullSeparator = m.help.Styles.ShortSeparator
}

func (m *Model) cycleTheme() {
	m.setTheme(m.theme.Next())
	if m.themePath == "" {
		return
	}
	if err := theme.Save(m.themePath, m.theme); err != nil {
		m.logger.WithError(err).WithField("theme", m.theme.Name()).Warn("failed to save theme")
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.engine.PendingReset() {
		return m.place(m.renderDialog())
	}
	width := m.contentWidth()
	header := m.renderTitle()
	text := m.styles.textPanel.Width(width).Render(m.styles.subtitle.Render("Text to Type") + "\n" + m.renderText(width-4))
	statsBlock := m.renderStats()
	history := m.renderHistory()
	footer := m.help.View(m.keys)

	sections := []string{header, text, statsBlock, history, footer}
	if kb := m.renderKeyboardSection(); kb != "" {
		used := lipgloss.Height(lipgloss.JoinVertical(lipgloss.Center, sections...))
		if m.height == 0 || used+lipgloss.Height(kb) <= m.height {
			sections = []string{header, text, kb, statsBlock, history, footer}
		}
	}
	return m.place(lipgloss.JoinVertical(lipgloss.Center, sections...))
}

func (m *Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) contentWidth() int {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	width = int(float64(width) * 0.8)
	return max(minTextWidth, min(width, maxTextWidth))
}

func (m *Model) renderTitle() string {
	runes := []rune(appTitle)
	var b strings.Builder
	for i, r := range runes {
		ratio := float64(i) / float64(max(1, len(runes)-1))
		color := theme.Blend(m.styles.palette.Primary, m.styles.palette.Secondary, ratio)
		b.WriteString(m.styles.fg(color).Bold(true).Render(string(r)))
	}
	indicator := fmt.Sprintf("[%s] %s (%s)", m.theme.Name(), m.engine.Mode().Name(), m.engine.Length().Name())
	return lipgloss.JoinVertical(lipgloss.Center, b.String(), m.styles.subtitle.Render(indicator))
}

func (m *Model) renderText(width int) string {
	target := m.engine.Target()
	if len(target) == 0 {
		return m.styles.warning.Render("Nothing to practice in this mode")
	}
	typed := m.engine.Typed()
	cursorIndex := -1
	if !m.engine.Complete() && len(typed) < len(target) {
		cursorIndex = len(typed)
	}
	return wrapStyledRunes(buildStyledRunes(m.styles, target, typed, cursorIndex), width)
}

func (m *Model) renderKeyboardSection() string {
	heat := keyHeat(m.engine.Progress().CharErrorAnalysis(), m.engine.SessionErrors())
	current, ok := m.engine.CurrentChar()
	return renderKeyboard(m.styles, heat, current, ok)
}

func (m *Model) renderStats() string {
	e := m.engine
	p := m.styles.palette
	label := m.styles.subtitle.Render
	metrics := label("WPM: ") + m.styles.fg(p.WPMColor(e.WPM())).Bold(true).Render(fmt.Sprintf("%.1f", e.WPM())) +
		"  " + label("Acc: ")
	if e.Complete() {
		metrics += m.styles.correct.Render(fmt.Sprintf("%.1f%%", e.Accuracy()))
		return lipgloss.JoinVertical(lipgloss.Center,
			m.styles.correct.Bold(true).Render(completeBanner),
			metrics,
			label("Press Enter for new test"),
		)
	}
	metrics += m.styles.fg(p.AccuracyColor(e.Accuracy())).Render(fmt.Sprintf("%.1f%%", e.Accuracy()))

	errCount := lo.Sum(lo.Values(e.SessionErrors()))
	errStyle := m.styles.correct
	if errCount > 0 {
		errStyle = m.styles.incorrect.Underline(false)
	}
	timing := label("Time: ") + m.styles.primary.Render(fmt.Sprintf("%.1fs", e.Elapsed().Seconds())) +
		"  " + label("Errors: ") + errStyle.Render(fmt.Sprintf("%d", errCount))
	return lipgloss.JoinVertical(lipgloss.Center, metrics, timing, m.renderProgress(e.Index(), len(e.Target())))
}

func (m *Model) renderProgress(current, total int) string {
	ratio := 0.0
	if total > 0 {
		ratio = float64(current) / float64(total)
	}
	filled := int(ratio * progressCells)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressCells-filled)
	return m.styles.fg(m.styles.palette.ProgressColor(ratio)).Render(bar) +
		m.styles.primary.Render(fmt.Sprintf(" %.0f%%", ratio*100))
}

func (m *Model) renderHistory() string {
	p := m.engine.Progress()
	label := m.styles.subtitle.Render
	summary := label("Tests: ") + m.styles.primary.Render(fmt.Sprintf("%d", p.Len())) +
		"  " + label("Avg WPM: ") + m.styles.fg(m.styles.palette.WPMColor(p.AverageWPM())).Render(fmt.Sprintf("%.1f", p.AverageWPM())) +
		"  " + label("Avg Acc: ") + m.styles.correct.Render(fmt.Sprintf("%.1f%%", p.AverageAccuracy()))

	trend := label("No history yet")
	if history := p.WPMHistory(historyWindow); len(history) > 0 {
		trend = label("WPM History ") + m.styles.primary.Render(stats.Sparkline(history))
	}
	return lipgloss.JoinVertical(lipgloss.Center, summary, trend)
}

func (m *Model) renderDialog() string {
	p := m.styles.palette
	controls := m.styles.fg(p.Correct).Bold(true).Render("[Y]") + " Yes  " +
		m.styles.fg(p.Error).Bold(true).Render("[N]") + " No  " +
		m.styles.subtitle.Render("[Esc]") + " Cancel"
	body := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.warning.Render(resetTitle),
		"",
		m.styles.subtitle.Render(resetMessage),
		"",
		controls,
	)
	return m.styles.dialog.Render(body)
}
