// Package stats contains session history, aggregate calculations and reporting.
package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
)

// CharCounts maps a character to a count. It encodes as a JSON object keyed by
// the character itself rather than its code point.
type CharCounts map[rune]int

// MarshalJSON implements json.Marshaler.
func (c CharCounts) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, len(c))
	for r, n := range c {
		out[string(r)] = n
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *CharCounts) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(CharCounts, len(raw))
	for key, n := range raw {
		r, err := ParseCharKey(key)
		if err != nil {
			return err
		}
		out[r] = n
	}
	*c = out
	return nil
}

// ParseCharKey decodes a stored character key, which must hold exactly one rune.
func ParseCharKey(key string) (rune, error) {
	if utf8.RuneCountInString(key) != 1 {
		return 0, fmt.Errorf("invalid character key %q", key)
	}
	r, _ := utf8.DecodeRuneInString(key)
	return r, nil
}

// Clone returns an independent copy. A nil receiver yields an empty map.
func (c CharCounts) Clone() CharCounts {
	out := make(CharCounts, len(c))
	for r, n := range c {
		out[r] = n
	}
	return out
}

// TestResult captures one finished typing session.
type TestResult struct {
	WPM          float64    `json:"wpm"`
	Accuracy     float64    `json:"accuracy"`
	Timestamp    time.Time  `json:"timestamp"`
	DurationSecs uint64     `json:"duration_secs"`
	CharErrors   CharCounts `json:"char_errors"`
}

// Progress is the chronological history of finished sessions.
type Progress struct {
	Results []TestResult `json:"results"`
}

// Normalize fills defaults for fields older records may lack.
func (p *Progress) Normalize() {
	if p.Results == nil {
		p.Results = []TestResult{}
	}
	for i := range p.Results {
		if p.Results[i].CharErrors == nil {
			p.Results[i].CharErrors = CharCounts{}
		}
	}
}

// Append adds a result to the end of the history.
func (p *Progress) Append(result TestResult) {
	p.Results = append(p.Results, result)
}

// Len returns the number of recorded results.
func (p *Progress) Len() int {
	return len(p.Results)
}

// AverageWPM returns the mean WPM, or 0 for an empty history.
func (p *Progress) AverageWPM() float64 {
	if len(p.Results) == 0 {
		return 0
	}
	return lo.SumBy(p.Results, func(r TestResult) float64 { return r.WPM }) / float64(len(p.Results))
}

// AverageAccuracy returns the mean accuracy percentage, or 0 for an empty history.
func (p *Progress) AverageAccuracy() float64 {
	if len(p.Results) == 0 {
		return 0
	}
	return lo.SumBy(p.Results, func(r TestResult) float64 { return r.Accuracy }) / float64(len(p.Results))
}

// BestWPM returns the highest recorded WPM.
func (p *Progress) BestWPM() float64 {
	best := 0.0
	for _, r := range p.Results {
		if r.WPM > best {
			best = r.WPM
		}
	}
	return best
}

// WPMHistory returns the rounded WPM of the last count results, oldest first.
func (p *Progress) WPMHistory(count int) []int {
	if count <= 0 || len(p.Results) == 0 {
		return []int{}
	}
	window := p.Results
	if len(window) > count {
		window = window[len(window)-count:]
	}
	return lo.Map(window, func(r TestResult, _ int) int {
		return int(math.Round(r.WPM))
	})
}

// Recent returns a history holding only the last n results. n <= 0 keeps
// everything. The results slice is shared with p.
func (p *Progress) Recent(n int) *Progress {
	if n <= 0 || n >= len(p.Results) {
		return &Progress{Results: p.Results}
	}
	return &Progress{Results: p.Results[len(p.Results)-n:]}
}
