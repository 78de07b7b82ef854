package input

import "github.com/example/wayscriber/internal/geom"

// dirtyTracker accumulates damage between renders, either "everything"
// or a bag of rectangles in logical pixels.
type dirtyTracker struct {
	full  bool
	rects []geom.Rect
}

// Cap on tracked rectangles before collapsing to a full redraw.
const maxDirtyRects = 32

func (d *dirtyTracker) MarkFull() {
	d.full = true
	d.rects = d.rects[:0]
}

func (d *dirtyTracker) MarkRect(r geom.Rect) {
	if d.full || r.Empty() {
		return
	}
	if len(d.rects) >= maxDirtyRects {
		d.MarkFull()
		return
	}
	d.rects = append(d.rects, r)
}

func (d *dirtyTracker) Dirty() bool {
	return d.full || len(d.rects) > 0
}

// Consume returns and clears the accumulated damage.
func (d *dirtyTracker) Consume() (full bool, rects []geom.Rect) {
	full = d.full
	rects = d.rects
	d.full = false
	d.rects = nil
	return full, rects
}

// MarkDirtyRect records a damaged region for the next render.
func (s *State) MarkDirtyRect(r geom.Rect) { s.dirty.MarkRect(r) }

// MarkDirtyFull requests a full redraw.
func (s *State) MarkDirtyFull() { s.dirty.MarkFull() }

// NeedsRedraw reports whether damage is pending.
func (s *State) NeedsRedraw() bool { return s.dirty.Dirty() }

// ConsumeDirty drains the damage accumulator for the renderer.
func (s *State) ConsumeDirty() (full bool, rects []geom.Rect) {
	return s.dirty.Consume()
}
