package stats

import "sort"

// CharStats aggregates a character's errors across sessions.
type CharStats struct {
	TotalErrors int
	// Appearances counts sessions with at least one error on the character,
	// not how often the character was typed.
	Appearances int
}

// WeakChar is a character and its error rate per appearance.
type WeakChar struct {
	Char rune
	Rate float64
}

// CharErrorAnalysis sums errors per character over the whole history.
func (p *Progress) CharErrorAnalysis() map[rune]CharStats {
	out := map[rune]CharStats{}
	for _, result := range p.Results {
		for ch, n := range result.CharErrors {
			entry := out[ch]
			entry.TotalErrors += n
			entry.Appearances++
			out[ch] = entry
		}
	}
	return out
}

// WeakestChars ranks characters by errors per appearance, highest first.
func (p *Progress) WeakestChars(count int) []WeakChar {
	analysis := p.CharErrorAnalysis()
	candidates := make([]WeakChar, 0, len(analysis))
	for ch, cs := range analysis {
		if cs.Appearances == 0 {
			continue
		}
		candidates = append(candidates, WeakChar{
			Char: ch,
			Rate: float64(cs.TotalErrors) / float64(cs.Appearances),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Rate == candidates[j].Rate {
			return candidates[i].Char < candidates[j].Char
		}
		return candidates[i].Rate > candidates[j].Rate
	})
	if count < 0 {
		count = 0
	}
	if count > len(candidates) {
		count = len(candidates)
	}
	return candidates[:count]
}

// WeakSet returns the characters of WeakestChars(count) as a set.
func (p *Progress) WeakSet(count int) map[rune]struct{} {
	set := map[rune]struct{}{}
	for _, wc := range p.WeakestChars(count) {
		set[wc.Char] = struct{}{}
	}
	return set
}
