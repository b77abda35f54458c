// Package generator builds practice passages for each practice mode.
package generator

import (
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/tapdrill/internal/model"
	"github.com/verte-zerg/tapdrill/internal/stats"
	"github.com/verte-zerg/tapdrill/internal/wordlist"
)

// WeakCharCount is how many of the weakest characters steer WeakLetter passages.
const WeakCharCount = 10

// Generator produces randomized practice passages.
type Generator struct {
	rnd   *rand.Rand
	words []string
}

// New returns a Generator over the curated word list, seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src), words: wordlist.Common()}
}

// WithWords replaces the word pool used by Normal and WeakLetter passages.
// An empty pool is ignored.
func (g *Generator) WithWords(words []string) *Generator {
	if len(words) > 0 {
		g.words = append([]string(nil), words...)
	}
	return g
}

// Generate returns count space-separated words or drill patterns for mode.
// progress is only consulted by WeakLetter and may be nil.
func (g *Generator) Generate(mode model.Mode, count int, progress *stats.Progress) string {
	var picks []string
	switch mode.Kind {
	case model.KindWeakLetter:
		picks = g.weakWords(progress, count)
	case model.KindFingerDrill:
		picks = g.drillPatterns(mode.Finger, count)
	default:
		picks = g.draw(g.words, count)
	}
	return strings.Join(picks, " ")
}

// draw picks count entries uniformly with replacement.
func (g *Generator) draw(pool []string, count int) []string {
	if len(pool) == 0 || count <= 0 {
		return nil
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, pool[g.rnd.Intn(len(pool))])
	}
	return out
}
