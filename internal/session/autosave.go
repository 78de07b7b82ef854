package session

import "time"

// AutosaveOptions paces the autosave scheduler.
type AutosaveOptions struct {
	// IdleDebounce saves after the canvas has been quiet this long.
	IdleDebounce time.Duration
	// Interval bounds the time between saves while editing continues.
	Interval time.Duration
	// Backoff delays the next attempt after a failed save.
	Backoff time.Duration
}

// Autosave tracks dirtiness and decides when a save is due. It is a
// pure state machine polled by the event loop; wall time is always
// passed in.
type Autosave struct {
	dirty      bool
	firstDirty time.Time
	lastDirty  time.Time
	lastSave   time.Time
	retryAt    time.Time
	failures   int
}

// RecordDirty marks the session dirty at now.
func (a *Autosave) RecordDirty(now time.Time) {
	if !a.dirty {
		a.firstDirty = now
	}
	a.dirty = true
	a.lastDirty = now
}

// Dirty reports whether unsaved changes exist.
func (a *Autosave) Dirty() bool { return a.dirty }

// Due reports whether a save should run at now: the session is dirty,
// any retry backoff has elapsed, and either the idle debounce or the
// periodic interval has been reached.
func (a *Autosave) Due(now time.Time, opts AutosaveOptions) bool {
	if !a.dirty || now.Before(a.retryAt) {
		return false
	}
	if !now.Before(a.lastDirty.Add(opts.IdleDebounce)) {
		return true
	}
	base := a.firstDirty
	if a.lastSave.After(base) {
		base = a.lastSave
	}
	return !now.Before(base.Add(opts.Interval))
}

// MarkSaved records a successful save, clearing dirt and retry state.
func (a *Autosave) MarkSaved(now time.Time) {
	a.dirty = false
	a.lastSave = now
	a.retryAt = time.Time{}
	a.failures = 0
}

// MarkFailed schedules a retry after the backoff. It returns the
// consecutive failure count so the caller can notify the user exactly
// once per episode.
func (a *Autosave) MarkFailed(now time.Time, opts AutosaveOptions) int {
	a.failures++
	a.retryAt = now.Add(opts.Backoff)
	return a.failures
}

// NextDeadline returns the earliest future instant at which Due can
// flip true, for the event-wait computation. ok is false when nothing
// is pending.
func (a *Autosave) NextDeadline(opts AutosaveOptions) (time.Time, bool) {
	if !a.dirty {
		return time.Time{}, false
	}
	idle := a.lastDirty.Add(opts.IdleDebounce)
	base := a.firstDirty
	if a.lastSave.After(base) {
		base = a.lastSave
	}
	periodic := base.Add(opts.Interval)
	deadline := idle
	if periodic.Before(deadline) {
		deadline = periodic
	}
	if deadline.Before(a.retryAt) {
		deadline = a.retryAt
	}
	return deadline, true
}
