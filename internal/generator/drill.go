package generator

import (
	"unicode"

	"github.com/samber/lo"

	"github.com/verte-zerg/tapdrill/internal/finger"
)

func (g *Generator) drillPatterns(f finger.Finger, count int) []string {
	return g.draw(DrillPatterns(finger.Keys(f)), count)
}

// DrillPatterns builds the drill vocabulary from the letter keys among keys:
// every ordered pair doubled ("asas"), every key tripled ("aaa") and every
// ordered triple ("asd"). Non-letter keys are skipped.
func DrillPatterns(keys []rune) []string {
	letters := lo.Filter(keys, func(r rune, _ int) bool { return unicode.IsLetter(r) })
	n := len(letters)
	out := make([]string, 0, n*n+n+n*n*n)
	for _, a := range letters {
		for _, b := range letters {
			pair := string([]rune{a, b})
			out = append(out, pair+pair)
		}
	}
	for _, a := range letters {
		out = append(out, string([]rune{a, a, a}))
	}
	for _, a := range letters {
		for _, b := range letters {
			for _, c := range letters {
				out = append(out, string([]rune{a, b, c}))
			}
		}
	}
	return out
}
