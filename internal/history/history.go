// Package history applies undo/redo steps to canvas frames and paces
// delayed undo-all / redo-all replays.
package history

import (
	"time"

	"github.com/example/wayscriber/internal/canvas"
	"github.com/example/wayscriber/internal/logger"
)

// Direction selects which stack a replay drains.
type Direction int

const (
	DirUndo Direction = iota
	DirRedo
)

// Undo reverts the newest undo entry on f. Undo past the bottom is a
// no-op returning false. A failing replay is a bug; it is logged and
// the step reported as consumed so the stacks stay consistent.
func Undo(f *canvas.Frame) bool {
	a, ok := f.UndoLast()
	if !ok {
		return false
	}
	if err := a.Invert().Apply(f); err != nil {
		logger.WithComponent("history").Error().Err(err).Msg("undo replay failed")
	}
	return true
}

// Redo re-applies the newest redo entry on f.
func Redo(f *canvas.Frame) bool {
	a, ok := f.RedoLast()
	if !ok {
		return false
	}
	if err := a.Apply(f); err != nil {
		logger.WithComponent("history").Error().Err(err).Msg("redo replay failed")
	}
	return true
}

// UndoAll drains the undo stack immediately, returning the step count.
func UndoAll(f *canvas.Frame) int {
	n := 0
	for Undo(f) {
		n++
	}
	return n
}

// RedoAll drains the redo stack immediately.
func RedoAll(f *canvas.Frame) int {
	n := 0
	for Redo(f) {
		n++
	}
	return n
}

const (
	// MinStepInterval and MaxStepInterval clamp the configured replay
	// pacing.
	MinStepInterval = 50 * time.Millisecond
	MaxStepInterval = 5 * time.Second
)

// ClampInterval bounds a configured per-step delay.
func ClampInterval(d time.Duration) time.Duration {
	if d < MinStepInterval {
		return MinStepInterval
	}
	if d > MaxStepInterval {
		return MaxStepInterval
	}
	return d
}

// Scheduler paces a delayed replay: one step per interval until the
// remaining budget or the stack is exhausted. Any new user input that
// would push undo/redo cancels it; the partial replay stays visible.
type Scheduler struct {
	active    bool
	direction Direction
	remaining int // -1 means until the stack runs out
	interval  time.Duration
	nextAt    time.Time
}

// Start begins a delayed replay. steps < 0 replays until the stack is
// empty.
func (s *Scheduler) Start(dir Direction, steps int, interval time.Duration, now time.Time) {
	s.active = true
	s.direction = dir
	s.remaining = steps
	s.interval = ClampInterval(interval)
	s.nextAt = now.Add(s.interval)
}

// Cancel discards the pending queue.
func (s *Scheduler) Cancel() { s.active = false }

// Active reports whether a replay is in flight.
func (s *Scheduler) Active() bool { return s.active }

// NextDeadline returns the next step time for event-wait computation.
func (s *Scheduler) NextDeadline() (time.Time, bool) {
	if !s.active {
		return time.Time{}, false
	}
	return s.nextAt, true
}

// Tick applies at most one due step to f, reporting whether the frame
// changed. The replay stops when the stack or the budget runs out.
func (s *Scheduler) Tick(f *canvas.Frame, now time.Time) bool {
	if !s.active || now.Before(s.nextAt) {
		return false
	}
	var stepped bool
	switch s.direction {
	case DirUndo:
		stepped = Undo(f)
	case DirRedo:
		stepped = Redo(f)
	}
	if !stepped {
		s.active = false
		return false
	}
	if s.remaining > 0 {
		s.remaining--
		if s.remaining == 0 {
			s.active = false
			return true
		}
	}
	s.nextAt = now.Add(s.interval)
	return true
}
