package capture

import (
	"image"

	"github.com/example/wayscriber/internal/geom"
)

const (
	zoomMinScale  = 1.0
	zoomMaxScale  = 8.0
	zoomStep      = 1.25
	zoomInitScale = 2.0
)

// Zoom holds the magnification transform. When engaged over a
// transparent board it carries a screencopy image; over a solid board
// the renderer transforms the live background instead.
type Zoom struct {
	engaged    bool
	scale      float64
	viewOffset geom.Point
	locked     bool
	panning    bool
	panAnchor  geom.Point
	image      *Image
}

// Engaged reports whether zoom is active.
func (z *Zoom) Engaged() bool { return z.engaged }

// Scale returns the current magnification factor.
func (z *Zoom) Scale() float64 { return z.scale }

// ViewOffset returns the top-left of the magnified viewport in source
// coordinates.
func (z *Zoom) ViewOffset() geom.Point { return z.viewOffset }

// Locked reports whether the viewport follows the pointer.
func (z *Zoom) Locked() bool { return z.locked }

// Panning reports whether a drag-pan is in progress.
func (z *Zoom) Panning() bool { return z.panning }

// Image returns the captured backdrop, or nil in board mode.
func (z *Zoom) Image() *Image { return z.image }

// Engage activates zoom centered on the given point at the initial
// scale.
func (z *Zoom) Engage(center geom.Point) {
	z.engaged = true
	z.scale = zoomInitScale
	z.locked = false
	z.panning = false
	z.image = nil
	z.CenterOn(center)
}

// Disengage resets all zoom state.
func (z *Zoom) Disengage() {
	*z = Zoom{}
}

// CenterOn moves the viewport so the given source point sits at its
// center. No-op while locked.
func (z *Zoom) CenterOn(p geom.Point) {
	if z.locked {
		return
	}
	z.viewOffset = p
}

// StepIn raises the scale one step, clamped to the maximum.
func (z *Zoom) StepIn() {
	if !z.engaged {
		return
	}
	z.scale *= zoomStep
	if z.scale > zoomMaxScale {
		z.scale = zoomMaxScale
	}
}

// StepOut lowers the scale one step, clamped to the minimum.
func (z *Zoom) StepOut() {
	if !z.engaged {
		return
	}
	z.scale /= zoomStep
	if z.scale < zoomMinScale {
		z.scale = zoomMinScale
	}
}

// Reset returns the scale to the initial factor without moving the
// viewport.
func (z *Zoom) Reset() {
	if !z.engaged {
		return
	}
	z.scale = zoomInitScale
}

// ToggleLock flips viewport locking. A locked viewport ignores pointer
// tracking but still accepts drag pans.
func (z *Zoom) ToggleLock() {
	if z.engaged {
		z.locked = !z.locked
	}
}

// BeginPan starts a drag pan from the given pointer position.
func (z *Zoom) BeginPan(at geom.Point) {
	if !z.engaged {
		return
	}
	z.panning = true
	z.panAnchor = at
}

// PanTo moves the viewport opposite the pointer delta, scaled so the
// magnified content tracks the drag.
func (z *Zoom) PanTo(at geom.Point) {
	if !z.panning {
		return
	}
	d := at.Sub(z.panAnchor)
	z.viewOffset.X -= d.X / z.scale
	z.viewOffset.Y -= d.Y / z.scale
	z.panAnchor = at
}

// EndPan finishes a drag pan.
func (z *Zoom) EndPan() { z.panning = false }

// Render magnifies the backdrop around the viewport center into a
// view-sized RGBA image. Returns nil without a captured backdrop.
func (z *Zoom) Render(viewW, viewH int) *image.RGBA {
	if !z.engaged || z.image == nil {
		return nil
	}
	return z.image.Magnify(z.viewOffset, z.scale, viewW, viewH)
}
