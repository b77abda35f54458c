package generator

import (
	"unicode"

	"github.com/samber/lo"

	"github.com/verte-zerg/tapdrill/internal/stats"
)

func (g *Generator) weakWords(progress *stats.Progress, count int) []string {
	if progress == nil {
		return g.draw(g.words, count)
	}
	weakSet := progress.WeakSet(WeakCharCount)
	if len(weakSet) == 0 {
		return g.draw(g.words, count)
	}
	pool := filterByChars(g.words, weakSet)
	if len(pool) == 0 {
		return g.draw(g.words, count)
	}
	return g.draw(pool, count)
}

// filterByChars keeps words with at least one rune whose lowercase form is in set.
func filterByChars(words []string, set map[rune]struct{}) []string {
	return lo.Filter(words, func(word string, _ int) bool {
		for _, r := range word {
			if _, ok := set[unicode.ToLower(r)]; ok {
				return true
			}
		}
		return false
	})
}
