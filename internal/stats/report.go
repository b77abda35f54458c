package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if minVal == maxVal {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	span := float64(maxVal - minVal)
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round(float64(v-minVal) / span * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// CharLabel renders a character for tables, spelling out whitespace.
func CharLabel(ch rune) string {
	switch ch {
	case ' ':
		return "<space>"
	case '\t':
		return "<tab>"
	default:
		return string(ch)
	}
}

// RenderSummary prints aggregate figures for the history.
func RenderSummary(w io.Writer, p *Progress) error {
	if p.Len() == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", p.Len()),
		fmt.Sprintf("Avg WPM: %.1f", p.AverageWPM()),
		fmt.Sprintf("Best WPM: %.1f", p.BestWPM()),
		fmt.Sprintf("Avg Accuracy: %.1f%%", p.AverageAccuracy()),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints the recent WPM series as a sparkline with its rolling mean.
func RenderTrend(w io.Writer, p *Progress, count, window int) error {
	history := p.WPMHistory(count)
	if len(history) == 0 {
		return nil
	}
	low, high := history[0], history[0]
	values := make([]float64, len(history))
	for i, v := range history {
		low = min(low, v)
		high = max(high, v)
		values[i] = float64(v)
	}
	smoothed := MovingAverage(values, window)
	_, err := fmt.Fprintf(w, "Recent WPM (last %d): %s  [%d-%d]  rolling avg %.1f\n\n",
		len(history), Sparkline(history), low, high, smoothed[len(smoothed)-1])
	return err
}

// RenderWeakChars prints the weakest characters with their error figures.
func RenderWeakChars(w io.Writer, p *Progress, top int) error {
	weak := p.WeakestChars(top)
	if len(weak) == 0 {
		_, err := fmt.Fprintln(w, "No character errors recorded.")
		return err
	}
	analysis := p.CharErrorAnalysis()
	if _, err := fmt.Fprintln(w, "Weakest Characters"); err != nil {
		return err
	}
	t := newTable("Char", "Errors/Session", "Errors", "Sessions").alignRight(1, 2, 3)
	for _, wc := range weak {
		cs := analysis[wc.Char]
		t.addRow(
			CharLabel(wc.Char),
			fmt.Sprintf("%.2f", wc.Rate),
			fmt.Sprintf("%d", cs.TotalErrors),
			fmt.Sprintf("%d", cs.Appearances),
		)
	}
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
