package theme

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Blend mixes two hex colors in RGB space. ratio is clamped to [0, 1]; 0 yields
// from and 1 yields to. Unparseable input returns from unchanged.
func Blend(from, to string, ratio float64) string {
	a, err := colorful.Hex(from)
	if err != nil {
		return from
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return from
	}
	switch {
	case ratio <= 0:
		return a.Hex()
	case ratio >= 1:
		return b.Hex()
	}
	return a.BlendRgb(b, ratio).Clamped().Hex()
}

// KeyErrorColor grades a key by its accumulated error count.
func (p Palette) KeyErrorColor(errors int) string {
	switch {
	case errors <= 3:
		return p.Correct
	case errors <= 8:
		return Blend(p.Correct, p.Warning, 0.5)
	case errors <= 15:
		return p.Warning
	case errors <= 25:
		return Blend(p.Warning, p.Error, 0.5)
	default:
		return p.Error
	}
}

// WPMColor grades a speed.
func (p Palette) WPMColor(wpm float64) string {
	switch {
	case wpm >= 60:
		return p.Correct
	case wpm >= 40:
		return "#C8FF64"
	case wpm >= 20:
		return p.Warning
	default:
		return p.Error
	}
}

// AccuracyColor grades an accuracy percentage.
func (p Palette) AccuracyColor(accuracy float64) string {
	switch {
	case accuracy >= 95:
		return p.Correct
	case accuracy >= 90:
		return p.Secondary
	default:
		return p.Error
	}
}

// ProgressColor shades from Error at 0 to Correct at 1.
func (p Palette) ProgressColor(ratio float64) string {
	return Blend(p.Error, p.Correct, ratio)
}
