package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// table lays out rows in aligned, space-separated columns.
type table struct {
	headers    []string
	rows       [][]string
	rightAlign map[int]bool
}

func newTable(headers ...string) *table {
	return &table{headers: headers, rightAlign: map[int]bool{}}
}

func (t *table) alignRight(cols ...int) *table {
	for _, c := range cols {
		t.rightAlign[c] = true
	}
	return t
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) lines() []string {
	colCount := len(t.headers)
	for _, row := range t.rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	measure := func(row []string) {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}

	out := make([]string, 0, len(t.rows)+1)
	if len(t.headers) > 0 {
		out = append(out, t.formatRow(t.headers, widths))
	}
	for _, row := range t.rows {
		out = append(out, t.formatRow(row, widths))
	}
	return out
}

func (t *table) formatRow(row []string, widths []int) string {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		pad := width - runewidth.StringWidth(cell)
		if pad < 0 {
			pad = 0
		}
		if t.rightAlign[i] {
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(cell)
		} else {
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	return strings.TrimRight(b.String(), " ")
}
