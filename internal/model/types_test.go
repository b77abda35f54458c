package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tapdrill/internal/finger"
)

func TestModeNextCycle(t *testing.T) {
	want := []Mode{WeakLetter()}
	for _, f := range finger.All() {
		want = append(want, FingerDrill(f))
	}
	want = append(want, Normal())

	m := Normal()
	for i, expected := range want {
		m = m.Next()
		require.Equalf(t, expected, m, "step %d", i)
	}
}

func TestModePrevInvertsNext(t *testing.T) {
	m := Normal()
	for i := 0; i < 10; i++ {
		assert.Equal(t, m, m.Next().Prev())
		assert.Equal(t, m, m.Prev().Next())
		m = m.Next()
	}
	assert.Equal(t, FingerDrill(finger.RightPinky), Normal().Prev())
	assert.Equal(t, WeakLetter(), FingerDrill(finger.LeftPinky).Prev())
}

func TestModeNames(t *testing.T) {
	assert.Equal(t, "Normal", Normal().Name())
	assert.Equal(t, "Weak Letters", WeakLetter().Name())
	assert.Equal(t, "Left Ring Drill", FingerDrill(finger.LeftRing).Name())
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"normal":            Normal(),
		"":                  Normal(),
		"weak":              WeakLetter(),
		"right-index":       FingerDrill(finger.RightIndex),
		"Right-Index-Drill": FingerDrill(finger.RightIndex),
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		require.NoErrorf(t, err, "input %q", in)
		assert.Equalf(t, want, got, "input %q", in)
	}
	for _, m := range []Mode{Normal(), WeakLetter(), FingerDrill(finger.LeftMiddle)} {
		got, err := ParseMode(m.Slug())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("thumb")
	assert.Error(t, err)
}

func TestPassageLength(t *testing.T) {
	assert.Equal(t, 10, Short.WordCount())
	assert.Equal(t, 25, Medium.WordCount())
	assert.Equal(t, 50, Long.WordCount())
	assert.Equal(t, Medium, Short.Next())
	assert.Equal(t, Long, Medium.Next())
	assert.Equal(t, Short, Long.Next())

	l, err := ParsePassageLength("LONG")
	require.NoError(t, err)
	assert.Equal(t, Long, l)
	_, err = ParsePassageLength("huge")
	assert.Error(t, err)
}
