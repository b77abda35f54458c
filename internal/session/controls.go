package session

import (
	"context"
	"time"

	"github.com/verte-zerg/tapdrill/internal/finger"
	"github.com/verte-zerg/tapdrill/internal/model"
	"github.com/verte-zerg/tapdrill/internal/stats"
	"github.com/verte-zerg/tapdrill/internal/store"
)

// SetMode switches the practice mode and starts a new passage.
func (e *Engine) SetMode(m model.Mode) {
	e.mode = m
	e.Reset()
}

// CycleMode moves to the next (or previous) practice mode.
func (e *Engine) CycleMode(forward bool) {
	if forward {
		e.SetMode(e.mode.Next())
		return
	}
	e.SetMode(e.mode.Prev())
}

// SelectFinger switches to the drill for f. Invalid fingers are ignored.
func (e *Engine) SelectFinger(f finger.Finger) {
	if !f.Valid() {
		return
	}
	e.SetMode(model.FingerDrill(f))
}

// SetLength changes the passage length and starts a new passage.
func (e *Engine) SetLength(l model.PassageLength) {
	e.length = l
	e.Reset()
}

// CycleLength moves to the next passage length.
func (e *Engine) CycleLength() {
	e.SetLength(e.length.Next())
}

// RequestHistoryReset asks for confirmation before clearing history. It is
// refused once typing has begun.
func (e *Engine) RequestHistoryReset() bool {
	if len(e.typed) > 0 {
		return false
	}
	e.pendingReset = true
	return true
}

// ConfirmPending clears the stored history and starts over. It returns the
// store error, which is also logged.
func (e *Engine) ConfirmPending(ctx context.Context) error {
	if !e.pendingReset {
		return nil
	}
	e.pendingReset = false
	err := e.store.Clear(ctx)
	if err != nil {
		e.logger.WithError(err).Warn("failed to clear history")
	}
	e.progress = store.LoadOrEmpty(ctx, e.store, e.logger)
	e.lastResult = nil
	e.Reset()
	return err
}

// CancelPending dismisses a pending history reset.
func (e *Engine) CancelPending() {
	e.pendingReset = false
}

// PendingReset reports whether a history reset awaits confirmation.
func (e *Engine) PendingReset() bool { return e.pendingReset }

// Mode returns the active practice mode.
func (e *Engine) Mode() model.Mode { return e.mode }

// Length returns the active passage length.
func (e *Engine) Length() model.PassageLength { return e.length }

// Target returns the passage to type.
func (e *Engine) Target() []rune { return append([]rune(nil), e.target...) }

// Typed returns what has been typed so far.
func (e *Engine) Typed() []rune { return append([]rune(nil), e.typed...) }

// Index is the position of the next character to type.
func (e *Engine) Index() int { return len(e.typed) }

// CurrentChar returns the next expected character.
func (e *Engine) CurrentChar() (rune, bool) {
	if e.ended || len(e.typed) >= len(e.target) {
		return 0, false
	}
	return e.target[len(e.typed)], true
}

// WPM returns the live net words per minute.
func (e *Engine) WPM() float64 { return e.wpm }

// Accuracy returns the live accuracy percentage.
func (e *Engine) Accuracy() float64 { return e.accuracy }

// Elapsed returns the time since the first keystroke, frozen once complete.
func (e *Engine) Elapsed() time.Duration {
	switch {
	case !e.started:
		return 0
	case e.ended:
		return e.endedAt.Sub(e.startedAt)
	default:
		return e.now().Sub(e.startedAt)
	}
}

// SessionErrors returns a copy of the per-character errors of the current test.
func (e *Engine) SessionErrors() stats.CharCounts { return e.charErrors.Clone() }

// Progress returns the loaded history.
func (e *Engine) Progress() *stats.Progress { return e.progress }

// State returns the current lifecycle stage.
func (e *Engine) State() State {
	switch {
	case e.ended:
		return Complete
	case e.started:
		return Active
	default:
		return Idle
	}
}

// Complete reports whether the current test has been finalized.
func (e *Engine) Complete() bool { return e.ended }

// LastResult returns the most recently finalized result.
func (e *Engine) LastResult() (stats.TestResult, bool) {
	if e.lastResult == nil {
		return stats.TestResult{}, false
	}
	return *e.lastResult, true
}
