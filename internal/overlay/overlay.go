// Package overlay holds the small interactive surfaces drawn above the
// canvas: context menu, command palette, help, board picker, properties
// panel, radial menu, toasts, and onboarding hints. Each overlay keeps
// only its open flag and selection state; layout geometry is recomputed
// from the viewport on every frame.
package overlay

import "github.com/example/wayscriber/internal/geom"

// Item is a selectable menu entry.
type Item struct {
	ID       string
	Label    string
	Shortcut string
	Disabled bool
}

const (
	itemHeight  = 28
	framePad    = 8
	menuWidth   = 240
	screenInset = 12
)

// clampFrame shifts r so it lies inside the viewport, preferring the
// top-left edge when the viewport is too small.
func clampFrame(r geom.Rect, viewW, viewH int) geom.Rect {
	if r.MaxX() > viewW-screenInset {
		r.X = viewW - screenInset - r.W
	}
	if r.MaxY() > viewH-screenInset {
		r.Y = viewH - screenInset - r.H
	}
	if r.X < screenInset {
		r.X = screenInset
	}
	if r.Y < screenInset {
		r.Y = screenInset
	}
	return r
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
