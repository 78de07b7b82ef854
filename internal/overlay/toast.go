package overlay

import "time"

const (
	// DefaultToastDuration is used when a caller does not pick one.
	DefaultToastDuration = 2500 * time.Millisecond

	presetFlashDuration = 900 * time.Millisecond
	maxToasts           = 4
)

// Toast is one transient message.
type Toast struct {
	Text     string
	ShownAt  time.Time
	Duration time.Duration
}

// ActiveToast is a toast with its animation progress in [0,1].
type ActiveToast struct {
	Text     string
	Progress float64
}

// Toasts queues transient messages. Expired toasts are pruned on read.
type Toasts struct {
	items []Toast
}

// Push queues a toast. The oldest toast is dropped beyond the cap.
func (t *Toasts) Push(text string, d time.Duration, now time.Time) {
	if d <= 0 {
		d = DefaultToastDuration
	}
	t.items = append(t.items, Toast{Text: text, ShownAt: now, Duration: d})
	if len(t.items) > maxToasts {
		t.items = t.items[len(t.items)-maxToasts:]
	}
}

// Active prunes expired toasts and returns the live ones with their
// timeline progress.
func (t *Toasts) Active(now time.Time) []ActiveToast {
	var live []Toast
	var out []ActiveToast
	for _, item := range t.items {
		elapsed := now.Sub(item.ShownAt)
		if elapsed < 0 || elapsed >= item.Duration {
			continue
		}
		live = append(live, item)
		out = append(out, ActiveToast{
			Text:     item.Text,
			Progress: float64(elapsed) / float64(item.Duration),
		})
	}
	t.items = live
	return out
}

// KeepRendering reports whether any toast still needs frames.
func (t *Toasts) KeepRendering(now time.Time) bool {
	return len(t.Active(now)) > 0
}

// Clear drops all queued toasts.
func (t *Toasts) Clear() { t.items = nil }

// PresetFlash is the short confirmation shown when a preset slot is
// applied, saved, or cleared.
type PresetFlash struct {
	Slot     int
	Name     string
	Saved    bool
	Progress float64
}

// PresetFeedback tracks the single active preset confirmation.
type PresetFeedback struct {
	slot    int
	name    string
	saved   bool
	shownAt time.Time
	active  bool
}

// Show starts the confirmation timeline, replacing any running one.
func (f *PresetFeedback) Show(slot int, name string, saved bool, now time.Time) {
	f.slot = slot
	f.name = name
	f.saved = saved
	f.shownAt = now
	f.active = true
}

// Active returns the running confirmation with its progress.
func (f *PresetFeedback) Active(now time.Time) (PresetFlash, bool) {
	if !f.active {
		return PresetFlash{}, false
	}
	elapsed := now.Sub(f.shownAt)
	if elapsed < 0 || elapsed >= presetFlashDuration {
		f.active = false
		return PresetFlash{}, false
	}
	return PresetFlash{
		Slot:     f.slot,
		Name:     f.name,
		Saved:    f.saved,
		Progress: float64(elapsed) / float64(presetFlashDuration),
	}, true
}
