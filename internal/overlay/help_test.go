package overlay

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/wayscriber/internal/keybind"
)

func TestHelpEntriesFollowBindings(t *testing.T) {
	entries := HelpEntries(keybind.DefaultBindings())
	require.NotEmpty(t, entries)

	var undo HelpEntry
	for _, e := range entries {
		if e.Label == "Undo" {
			undo = e
		}
	}
	require.Equal(t, "ctrl+z", undo.Combo)
	require.Equal(t, "History", undo.Section)
}

func TestHelpFilterAndScrollReset(t *testing.T) {
	h := NewHelpOverlay(HelpEntries(keybind.DefaultBindings()))
	h.Open()
	h.ScrollBy(10, 800, 200)
	require.Greater(t, h.Scroll(), 0)

	h.SetQuery("zoom")
	require.Equal(t, 0, h.Scroll())
	for _, e := range h.Filtered() {
		require.Contains(t, e.Section, "Capture")
	}

	h.SetQuery("no such binding")
	require.Empty(t, h.Filtered())
}

func TestHelpScrollClampsToContent(t *testing.T) {
	h := NewHelpOverlay(HelpEntries(keybind.DefaultBindings()))
	h.Open()

	// Small viewport forces a scrollable content area.
	layout := h.Layout(800, 200)
	require.Greater(t, layout.MaxScroll, 0)
	require.Equal(t, (len(h.Filtered())+1)/2*layout.RowHeight, layout.ContentHeight)

	h.ScrollBy(-50, 800, 200)
	require.Equal(t, 0, h.Scroll())

	h.ScrollBy(layout.MaxScroll+500, 800, 200)
	require.Equal(t, layout.MaxScroll, h.Scroll())
}

func TestHelpColumnsSplitEvenly(t *testing.T) {
	h := NewHelpOverlay(HelpEntries(keybind.DefaultBindings()))
	h.Open()
	layout := h.Layout(1920, 1080)

	total := len(layout.Left) + len(layout.Right)
	require.Equal(t, len(h.Filtered()), total)
	require.True(t, len(layout.Left) == len(layout.Right) || len(layout.Left) == len(layout.Right)+1)
}

func TestHelpClosedLayoutEmpty(t *testing.T) {
	h := NewHelpOverlay(HelpEntries(keybind.DefaultBindings()))
	require.Equal(t, HelpLayout{}, h.Layout(1920, 1080))
}
