package overlay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToastLifetimeAndProgress(t *testing.T) {
	var ts Toasts
	start := time.Now()
	ts.Push("saved", 1*time.Second, start)

	active := ts.Active(start.Add(500 * time.Millisecond))
	require.Len(t, active, 1)
	require.InDelta(t, 0.5, active[0].Progress, 0.001)
	require.True(t, ts.KeepRendering(start.Add(999*time.Millisecond)))

	require.Empty(t, ts.Active(start.Add(1*time.Second)))
	require.False(t, ts.KeepRendering(start.Add(2*time.Second)))
}

func TestToastCapDropsOldest(t *testing.T) {
	var ts Toasts
	start := time.Now()
	for i := 0; i < maxToasts+2; i++ {
		ts.Push(string(rune('a'+i)), time.Minute, start)
	}
	active := ts.Active(start.Add(time.Second))
	require.Len(t, active, maxToasts)
	require.Equal(t, "c", active[0].Text)
}

func TestToastDefaultDuration(t *testing.T) {
	var ts Toasts
	start := time.Now()
	ts.Push("hello", 0, start)
	require.NotEmpty(t, ts.Active(start.Add(DefaultToastDuration-time.Millisecond)))
	require.Empty(t, ts.Active(start.Add(DefaultToastDuration)))
}

func TestPresetFeedbackTimeline(t *testing.T) {
	var f PresetFeedback
	start := time.Now()
	f.Show(2, "red marker", true, start)

	flash, ok := f.Active(start.Add(450 * time.Millisecond))
	require.True(t, ok)
	require.Equal(t, 2, flash.Slot)
	require.Equal(t, "red marker", flash.Name)
	require.True(t, flash.Saved)
	require.InDelta(t, 0.5, flash.Progress, 0.001)

	_, ok = f.Active(start.Add(time.Second))
	require.False(t, ok)
	_, ok = f.Active(start.Add(100 * time.Millisecond))
	require.False(t, ok, "timeline does not restart after expiry")
}

func TestHintsWalkthrough(t *testing.T) {
	h := NewHints(DefaultHints(), nil)

	first, ok := h.Current()
	require.True(t, ok)
	require.Equal(t, "draw", first.ID)

	require.True(t, h.DismissCurrent())
	second, ok := h.Current()
	require.True(t, ok)
	require.Equal(t, "help", second.ID)

	// Dismissing twice reports false.
	require.True(t, h.Dismiss("help"))
	require.False(t, h.Dismiss("help"))
	require.False(t, h.Dismiss("unknown"))

	require.Equal(t, []string{"draw", "help"}, h.DismissedIDs())
}

func TestHintsRestoreFromConfig(t *testing.T) {
	all := DefaultHints()
	ids := make([]string, len(all))
	for i, hint := range all {
		ids[i] = hint.ID
	}
	h := NewHints(all, ids)
	_, ok := h.Current()
	require.False(t, ok)
}
