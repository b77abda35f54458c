// Package session implements the typing test state machine.
package session

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/tapdrill/internal/generator"
	"github.com/verte-zerg/tapdrill/internal/model"
	"github.com/verte-zerg/tapdrill/internal/stats"
	"github.com/verte-zerg/tapdrill/internal/store"
)

// State is the lifecycle stage of the current test.
type State int

// Test states.
const (
	Idle State = iota
	Active
	Complete
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Complete:
		return "complete"
	default:
		return "idle"
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger for persistence failures.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMode sets the initial practice mode.
func WithMode(m model.Mode) Option {
	return func(e *Engine) { e.mode = m }
}

// WithLength sets the initial passage length.
func WithLength(l model.PassageLength) Option {
	return func(e *Engine) { e.length = l }
}

// Engine owns the test in progress, the loaded history and the settings that
// shape the next passage. It is not safe for concurrent use.
type Engine struct {
	gen      *generator.Generator
	store    store.HistoryStore
	progress *stats.Progress
	logger   logrus.FieldLogger
	now      func() time.Time

	mode   model.Mode
	length model.PassageLength

	target     []rune
	typed      []rune
	started    bool
	startedAt  time.Time
	ended      bool
	endedAt    time.Time
	charErrors stats.CharCounts
	wpm        float64
	accuracy   float64

	pendingReset bool
	lastResult   *stats.TestResult
}

// New loads the history from st and prepares the first passage.
func New(ctx context.Context, gen *generator.Generator, st store.HistoryStore, opts ...Option) *Engine {
	e := &Engine{
		gen:    gen,
		store:  st,
		logger: logrus.StandardLogger(),
		now:    time.Now,
		mode:   model.Normal(),
		length: model.DefaultLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.progress = store.LoadOrEmpty(ctx, st, e.logger)
	e.Reset()
	return e
}

// Reset discards the current test and generates a new passage.
func (e *Engine) Reset() {
	e.target = []rune(e.gen.Generate(e.mode, e.length.WordCount(), e.progress))
	e.typed = make([]rune, 0, len(e.target))
	e.started = false
	e.startedAt = time.Time{}
	e.ended = false
	e.endedAt = time.Time{}
	e.charErrors = stats.CharCounts{}
	e.wpm = 0
	e.accuracy = 0
}

// Type handles one typed character.
func (e *Engine) Type(r rune) {
	if e.ended || e.pendingReset || len(e.target) == 0 {
		return
	}
	if !e.started {
		e.started = true
		e.startedAt = e.now()
	}
	if len(e.typed) >= len(e.target) {
		return
	}
	pos := len(e.typed)
	e.typed = append(e.typed, r)
	if expected := e.target[pos]; r != expected {
		e.charErrors[expected]++
	}
	e.recompute(e.now())
	if len(e.typed) == len(e.target) {
		e.finalize()
	}
}

// Backspace removes the last typed character.
func (e *Engine) Backspace() {
	if e.ended || e.pendingReset || len(e.typed) == 0 {
		return
	}
	e.typed = e.typed[:len(e.typed)-1]
	e.recompute(e.now())
}

// Finish ends the test early when something was typed, or starts a new
// passage when the test is already complete.
func (e *Engine) Finish() {
	if e.pendingReset {
		return
	}
	switch {
	case e.ended:
		e.Reset()
	case len(e.typed) > 0:
		e.finalize()
	}
}

// recompute derives live metrics from the buffers and the elapsed time.
func (e *Engine) recompute(now time.Time) {
	if !e.started {
		return
	}
	elapsed := now.Sub(e.startedAt).Seconds()
	if elapsed <= 0 {
		return
	}
	correct := e.correctCount()
	if len(e.typed) > 0 {
		e.accuracy = 100 * float64(correct) / float64(len(e.typed))
	} else {
		e.accuracy = 100
	}
	e.wpm = (float64(correct) / 5.0) / (elapsed / 60.0)
}

func (e *Engine) correctCount() int {
	n := min(len(e.typed), len(e.target))
	correct := 0
	for i := 0; i < n; i++ {
		if e.typed[i] == e.target[i] {
			correct++
		}
	}
	return correct
}

func (e *Engine) finalize() {
	if e.ended || !e.started {
		return
	}
	end := e.now()
	e.ended = true
	e.endedAt = end

	duration := end.Sub(e.startedAt)
	if duration < 0 {
		duration = 0
	}
	result := stats.TestResult{
		WPM:          e.wpm,
		Accuracy:     e.accuracy,
		Timestamp:    end.UTC(),
		DurationSecs: uint64(duration / time.Second),
		CharErrors:   e.charErrors.Clone(),
	}
	e.progress.Append(result)
	e.lastResult = &result

	fields := logrus.Fields{"wpm": result.WPM, "accuracy": result.Accuracy, "duration_secs": result.DurationSecs}
	if err := e.store.Save(context.Background(), *e.progress); err != nil {
		e.logger.WithFields(fields).WithError(err).Warn("failed to save history")
		return
	}
	e.logger.WithFields(fields).Debug("session saved")
}
