package session

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tapdrill/internal/finger"
	"github.com/verte-zerg/tapdrill/internal/generator"
	"github.com/verte-zerg/tapdrill/internal/model"
	"github.com/verte-zerg/tapdrill/internal/stats"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type memStore struct {
	data     stats.Progress
	saves    int
	clears   int
	saveErr  error
	clearErr error
}

func (m *memStore) Load(context.Context) (stats.Progress, error) {
	return stats.Progress{Results: append([]stats.TestResult(nil), m.data.Results...)}, nil
}

func (m *memStore) Save(_ context.Context, p stats.Progress) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data = stats.Progress{Results: append([]stats.TestResult(nil), p.Results...)}
	return nil
}

func (m *memStore) Clear(context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.clears++
	m.data = stats.Progress{}
	return nil
}

func (m *memStore) Close() error { return nil }

type fixture struct {
	engine *Engine
	clock  *fakeClock
	store  *memStore
	hook   *logtest.Hook
}

func newFixture(t *testing.T, st *memStore, opts ...Option) *fixture {
	t.Helper()
	if st == nil {
		st = &memStore{}
	}
	clock := &fakeClock{t: time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)}
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	gen := generator.NewWithSource(rand.NewSource(7))
	opts = append([]Option{WithClock(clock.Now), WithLogger(logger)}, opts...)
	e := New(context.Background(), gen, st, opts...)
	return &fixture{engine: e, clock: clock, store: st, hook: hook}
}

// withTarget replaces the generated passage so tests control the text.
func (f *fixture) withTarget(text string) *fixture {
	f.engine.Reset()
	f.engine.target = []rune(text)
	return f
}

func (f *fixture) typeString(s string) {
	for _, r := range s {
		f.engine.Type(r)
	}
}

func TestNewGeneratesPassage(t *testing.T) {
	f := newFixture(t, nil, WithLength(model.Short))
	e := f.engine
	assert.Equal(t, Idle, e.State())
	assert.Len(t, strings.Fields(string(e.Target())), 10)
	assert.Equal(t, 0, e.Index())
	assert.Zero(t, e.WPM())
	assert.Zero(t, e.Accuracy())
	assert.Zero(t, e.Elapsed())
	assert.NotNil(t, e.Progress())
}

func TestErrorsRecordedAgainstExpectedChar(t *testing.T) {
	f := newFixture(t, nil).withTarget("abc")
	f.engine.Type('a')
	f.clock.Advance(time.Second)
	f.engine.Type('x')
	f.clock.Advance(time.Second)
	f.engine.Type('c')

	e := f.engine
	require.Equal(t, Complete, e.State())
	assert.Equal(t, stats.CharCounts{'b': 1}, e.SessionErrors())
	assert.Equal(t, 1, f.store.saves)

	result, ok := e.LastResult()
	require.True(t, ok)
	assert.Equal(t, stats.CharCounts{'b': 1}, result.CharErrors)
	assert.InDelta(t, 100*2.0/3.0, result.Accuracy, 1e-9)
	assert.Equal(t, uint64(2), result.DurationSecs)
	assert.Equal(t, 1, e.Progress().Len())
}

func TestWPMFromCorrectCharacters(t *testing.T) {
	f := newFixture(t, nil).withTarget("ab")
	f.engine.Type('a')
	// The first keystroke lands at zero elapsed time; metrics stay untouched.
	assert.Zero(t, f.engine.WPM())
	assert.Zero(t, f.engine.Accuracy())

	f.clock.Advance(6 * time.Second)
	f.engine.recompute(f.clock.Now())
	assert.InDelta(t, 2.0, f.engine.WPM(), 1e-9)
	assert.InDelta(t, 100.0, f.engine.Accuracy(), 1e-9)

	// Recomputing with no change yields the same values.
	f.engine.recompute(f.clock.Now())
	assert.InDelta(t, 2.0, f.engine.WPM(), 1e-9)
	assert.Equal(t, Active, f.engine.State())
	assert.Equal(t, 6*time.Second, f.engine.Elapsed())
}

func TestBackspaceRecomputes(t *testing.T) {
	f := newFixture(t, nil).withTarget("abc")
	f.engine.Type('a')
	f.clock.Advance(6 * time.Second)
	f.engine.Type('q')
	assert.InDelta(t, 50.0, f.engine.Accuracy(), 1e-9)

	f.engine.Backspace()
	assert.Equal(t, []rune("a"), f.engine.Typed())
	assert.InDelta(t, 2.0, f.engine.WPM(), 1e-9)
	assert.InDelta(t, 100.0, f.engine.Accuracy(), 1e-9)
	// Errors already made are not forgotten by deleting them.
	assert.Equal(t, stats.CharCounts{'b': 1}, f.engine.SessionErrors())

	cur, ok := f.engine.CurrentChar()
	require.True(t, ok)
	assert.Equal(t, 'b', cur)
}

func TestBackspaceOnEmptyIsNoop(t *testing.T) {
	f := newFixture(t, nil).withTarget("abc")
	f.engine.Backspace()
	assert.Equal(t, Idle, f.engine.State())
	assert.Empty(t, f.engine.Typed())
}

func TestRepeatedErrorsAtSamePosition(t *testing.T) {
	f := newFixture(t, nil).withTarget("abc")
	f.typeString("ax")
	f.engine.Backspace()
	f.engine.Type('y')
	require.Equal(t, Active, f.engine.State())
	assert.Equal(t, stats.CharCounts{'b': 2}, f.engine.SessionErrors())

	f.engine.Backspace()
	f.typeString("bc")
	require.True(t, f.engine.Complete())
	result, ok := f.engine.LastResult()
	require.True(t, ok)
	assert.Equal(t, stats.CharCounts{'b': 2}, result.CharErrors)
}

func TestCompleteIgnoresInput(t *testing.T) {
	f := newFixture(t, nil).withTarget("ab")
	f.typeString("ab")
	require.True(t, f.engine.Complete())
	frozen := f.engine.Elapsed()

	f.clock.Advance(time.Minute)
	f.engine.Type('z')
	f.engine.Backspace()
	assert.Equal(t, []rune("ab"), f.engine.Typed())
	assert.Equal(t, frozen, f.engine.Elapsed())
	assert.Equal(t, 1, f.store.saves)
	assert.Equal(t, 1, f.engine.Progress().Len())
	_, ok := f.engine.CurrentChar()
	assert.False(t, ok)
}

func TestFinishEarly(t *testing.T) {
	f := newFixture(t, nil).withTarget("hello world")
	f.engine.Type('h')
	f.clock.Advance(3 * time.Second)
	f.typeString("el")
	liveWPM, liveAccuracy := f.engine.WPM(), f.engine.Accuracy()
	require.InDelta(t, 12.0, liveWPM, 1e-9)

	// Idle time before finishing stretches the duration, not the saved metrics.
	f.clock.Advance(57*time.Second + 700*time.Millisecond)
	f.engine.Finish()

	require.Equal(t, Complete, f.engine.State())
	result, ok := f.engine.LastResult()
	require.True(t, ok)
	assert.Equal(t, uint64(60), result.DurationSecs)
	assert.Equal(t, liveWPM, result.WPM)
	assert.Equal(t, liveAccuracy, result.Accuracy)
	assert.Equal(t, liveWPM, f.engine.WPM())
	assert.InDelta(t, 100.0, result.Accuracy, 1e-9)
	assert.Equal(t, 1, f.store.saves)

	// Finishing a complete test starts a new one without saving again.
	f.engine.Finish()
	assert.Equal(t, Idle, f.engine.State())
	assert.Empty(t, f.engine.Typed())
	assert.Zero(t, f.engine.WPM())
	assert.Equal(t, 1, f.store.saves)
	assert.Equal(t, 1, f.engine.Progress().Len())
}

func TestFinishWithNothingTyped(t *testing.T) {
	f := newFixture(t, nil).withTarget("abc")
	f.engine.Finish()
	assert.Equal(t, Idle, f.engine.State())
	assert.Zero(t, f.store.saves)
	_, ok := f.engine.LastResult()
	assert.False(t, ok)
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	st := &memStore{saveErr: errors.New("disk full")}
	f := newFixture(t, st).withTarget("ab")
	f.typeString("ab")

	assert.True(t, f.engine.Complete())
	assert.Equal(t, 1, f.engine.Progress().Len())
	entry := f.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "failed to save history", entry.Message)
}

func TestHistoryIsLoadedAtStart(t *testing.T) {
	st := &memStore{data: stats.Progress{Results: []stats.TestResult{
		{WPM: 30, Accuracy: 90, CharErrors: stats.CharCounts{'q': 2}},
	}}}
	f := newFixture(t, st).withTarget("ab")
	require.Equal(t, 1, f.engine.Progress().Len())

	f.typeString("ab")
	assert.Equal(t, 2, f.engine.Progress().Len())
	assert.Len(t, st.data.Results, 2)
}

func TestModeAndLengthChangesReset(t *testing.T) {
	f := newFixture(t, nil).withTarget("abc")
	f.engine.Type('a')

	f.engine.CycleMode(true)
	assert.Equal(t, model.WeakLetter(), f.engine.Mode())
	assert.Equal(t, Idle, f.engine.State())
	assert.Empty(t, f.engine.Typed())

	f.engine.CycleMode(false)
	assert.Equal(t, model.Normal(), f.engine.Mode())

	f.engine.CycleLength()
	assert.Equal(t, model.Long, f.engine.Length())
	assert.Len(t, strings.Fields(string(f.engine.Target())), 50)
}

func TestSelectFingerDrill(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.SelectFinger(finger.LeftIndex)
	assert.Equal(t, model.FingerDrill(finger.LeftIndex), f.engine.Mode())

	allowed := map[rune]bool{' ': true}
	for _, r := range finger.Keys(finger.LeftIndex) {
		allowed[r] = true
	}
	for _, r := range f.engine.Target() {
		assert.True(t, allowed[r], "unexpected %q in drill passage", r)
	}

	f.engine.SelectFinger(finger.Finger(42))
	assert.Equal(t, model.FingerDrill(finger.LeftIndex), f.engine.Mode())
}

func TestEmptyPassageIgnoresInput(t *testing.T) {
	f := newFixture(t, nil).withTarget("")
	f.engine.Type('a')
	assert.Equal(t, Idle, f.engine.State())
	f.engine.Finish()
	assert.Zero(t, f.store.saves)
}

func TestHistoryResetFlow(t *testing.T) {
	st := &memStore{data: stats.Progress{Results: []stats.TestResult{{WPM: 30, Accuracy: 90}}}}
	f := newFixture(t, st).withTarget("abc")

	f.engine.Type('a')
	assert.False(t, f.engine.RequestHistoryReset())
	assert.False(t, f.engine.PendingReset())

	f.withTarget("abc")
	require.True(t, f.engine.RequestHistoryReset())
	assert.True(t, f.engine.PendingReset())

	// Input is held while the confirmation is open.
	f.engine.Type('a')
	f.engine.Finish()
	assert.Empty(t, f.engine.Typed())

	f.engine.CancelPending()
	assert.False(t, f.engine.PendingReset())
	assert.Equal(t, 1, f.engine.Progress().Len())
	assert.Zero(t, st.clears)

	require.True(t, f.engine.RequestHistoryReset())
	require.NoError(t, f.engine.ConfirmPending(context.Background()))
	assert.False(t, f.engine.PendingReset())
	assert.Equal(t, 1, st.clears)
	assert.Zero(t, f.engine.Progress().Len())
	assert.Equal(t, Idle, f.engine.State())
}

func TestHistoryResetClearFailure(t *testing.T) {
	st := &memStore{clearErr: errors.New("locked")}
	f := newFixture(t, st)
	require.True(t, f.engine.RequestHistoryReset())
	err := f.engine.ConfirmPending(context.Background())
	assert.Error(t, err)
	assert.False(t, f.engine.PendingReset())
	assert.Equal(t, logrus.WarnLevel, f.hook.LastEntry().Level)
}

func TestConfirmWithoutRequestIsNoop(t *testing.T) {
	st := &memStore{}
	f := newFixture(t, st)
	require.NoError(t, f.engine.ConfirmPending(context.Background()))
	assert.Zero(t, st.clears)
}

func TestRandomInputKeepsInvariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))
	f := newFixture(t, nil).withTarget("the quick brown fox")
	target := f.engine.Target()
	for i := 0; i < 200 && !f.engine.Complete(); i++ {
		f.clock.Advance(time.Duration(rnd.Intn(400)) * time.Millisecond)
		if rnd.Intn(4) == 0 {
			f.engine.Backspace()
		} else {
			f.engine.Type(rune('a' + rnd.Intn(26)))
		}
		typed := f.engine.Typed()
		assert.LessOrEqual(t, len(typed), len(target))
		assert.GreaterOrEqual(t, f.engine.WPM(), 0.0)
		assert.GreaterOrEqual(t, f.engine.Accuracy(), 0.0)
		assert.LessOrEqual(t, f.engine.Accuracy(), 100.0)
		if len(typed) == len(target) {
			assert.True(t, f.engine.Complete())
		}
	}
	assert.LessOrEqual(t, f.store.saves, 1)
}
