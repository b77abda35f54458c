package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tapdrill/internal/theme"
)

type styles struct {
	palette theme.Palette

	correct     lipgloss.Style
	incorrect   lipgloss.Style
	pending     lipgloss.Style
	currentWord lipgloss.Style
	cursor      lipgloss.Style
	subtitle    lipgloss.Style
	primary     lipgloss.Style
	warning     lipgloss.Style
	panel       lipgloss.Style
	textPanel   lipgloss.Style
	dialog      lipgloss.Style
	currentKey  lipgloss.Style
}

func newStyles(t theme.Theme) styles {
	p := t.Palette()
	color := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	return styles{
		palette:     p,
		correct:     color(p.Correct),
		incorrect:   color(p.Error).Underline(true),
		pending:     color(p.Pending),
		currentWord: color(p.Subtitle),
		cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.CurrentFg)).
			Background(lipgloss.Color(p.CurrentBg)).
			Bold(true),
		subtitle: color(p.Subtitle),
		primary:  color(p.Primary).Bold(true),
		warning:  color(p.Warning).Bold(true),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(p.Primary)).
			Padding(0, 1),
		textPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(p.Secondary)).
			Padding(0, 1),
		dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(p.Error)).
			Padding(1, 2),
		currentKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.CurrentFg)).
			Background(lipgloss.Color(p.CurrentBg)).
			Bold(true),
	}
}

func (s styles) fg(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
