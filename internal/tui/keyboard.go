package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tapdrill/internal/stats"
)

var keyboardRows = [][]rune{
	[]rune("`1234567890-="),
	[]rune("qwertyuiop[]\\"),
	[]rune("asdfghjkl;'"),
	[]rune("zxcvbnm,./"),
}

// keyHeat merges historical error totals with the errors of the session in
// progress.
func keyHeat(history map[rune]stats.CharStats, session stats.CharCounts) map[rune]int {
	heat := make(map[rune]int, len(history)+len(session))
	for ch, cs := range history {
		heat[unicode.ToLower(ch)] += cs.TotalErrors
	}
	for ch, n := range session {
		heat[unicode.ToLower(ch)] += n
	}
	return heat
}

func renderKeyboard(st styles, heat map[rune]int, current rune, hasCurrent bool) string {
	current = unicode.ToLower(current)
	keyStyle := func(r rune) lipgloss.Style {
		if hasCurrent && r == current {
			return st.currentKey
		}
		return st.fg(st.palette.KeyErrorColor(heat[r])).Bold(heat[r] > 0)
	}

	lines := make([]string, 0, len(keyboardRows)+1)
	for _, row := range keyboardRows {
		var b strings.Builder
		for _, r := range row {
			b.WriteString(keyStyle(r).Render(" " + strings.ToUpper(string(r)) + " "))
		}
		lines = append(lines, b.String())
	}
	lines = append(lines, keyStyle(' ').Render("     [ SPACE ]     "))

	body := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return st.panel.Render(st.subtitle.Render("Keyboard") + "\n" + body)
}
