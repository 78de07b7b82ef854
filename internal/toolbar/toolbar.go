// Package toolbar tracks the tool and palette docks: which edge they
// sit on, whether they are visible, how far the user dragged them, and
// whether they render on their own layer surface or inline on the main
// overlay when the compositor lacks layer-shell support.
package toolbar

import "github.com/example/wayscriber/internal/geom"

// Placement selects where dock pixels land.
type Placement int

const (
	// PlacementLayer renders each dock on a dedicated layer surface.
	PlacementLayer Placement = iota
	// PlacementInline composites docks into the main overlay buffer.
	PlacementInline
)

// Edge is the screen edge a dock is attached to.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeLeft
)

// Button is one dock cell. Active marks the currently selected tool or
// color.
type Button struct {
	ID     string
	Label  string
	Active bool
}

const (
	buttonSize = 36
	buttonGap  = 4
	dockPad    = 6
	edgeMargin = 10
)

// Dock is one draggable strip of buttons.
type Dock struct {
	edge    Edge
	visible bool
	buttons []Button

	// dragOffset shifts the dock along its edge from the centered
	// position, in pixels.
	dragOffset int

	dragging   bool
	dragAnchor float64
	dragStart  int
}

// DockLayout is the dock geometry for one frame.
type DockLayout struct {
	Frame   geom.Rect
	Buttons []geom.Rect
}

// NewDock returns a visible dock attached to edge.
func NewDock(edge Edge, buttons []Button) *Dock {
	return &Dock{edge: edge, visible: true, buttons: buttons}
}

func (d *Dock) Edge() Edge        { return d.edge }
func (d *Dock) Visible() bool     { return d.visible }
func (d *Dock) Buttons() []Button { return d.buttons }
func (d *Dock) DragOffset() int   { return d.dragOffset }
func (d *Dock) Dragging() bool    { return d.dragging }

// SetVisible shows or hides the dock.
func (d *Dock) SetVisible(v bool) { d.visible = v }

// SetButtons replaces the cells. The engine refreshes Active flags each
// tick.
func (d *Dock) SetButtons(buttons []Button) { d.buttons = buttons }

// SetActive marks exactly the button with id as active.
func (d *Dock) SetActive(id string) {
	for i := range d.buttons {
		d.buttons[i].Active = d.buttons[i].ID == id
	}
}

// length is the dock extent along its edge.
func (d *Dock) length() int {
	n := len(d.buttons)
	if n == 0 {
		return 0
	}
	return n*buttonSize + (n-1)*buttonGap + 2*dockPad
}

func (d *Dock) thickness() int { return buttonSize + 2*dockPad }

// maxOffset bounds the drag so the dock stays on screen.
func (d *Dock) maxOffset(viewW, viewH int) int {
	span := viewW
	if d.edge == EdgeLeft {
		span = viewH
	}
	limit := (span-d.length())/2 - edgeMargin
	if limit < 0 {
		limit = 0
	}
	return limit
}

// Layout computes the dock frame for the current viewport. The dock is
// centered along its edge, shifted by the drag offset.
func (d *Dock) Layout(viewW, viewH int) DockLayout {
	if !d.visible || len(d.buttons) == 0 {
		return DockLayout{}
	}
	offset := d.dragOffset
	if limit := d.maxOffset(viewW, viewH); offset > limit {
		offset = limit
	} else if offset < -limit {
		offset = -limit
	}
	var frame geom.Rect
	switch d.edge {
	case EdgeTop:
		frame = geom.Rect{
			X: (viewW-d.length())/2 + offset,
			Y: edgeMargin,
			W: d.length(),
			H: d.thickness(),
		}
	case EdgeLeft:
		frame = geom.Rect{
			X: edgeMargin,
			Y: (viewH-d.length())/2 + offset,
			W: d.thickness(),
			H: d.length(),
		}
	}
	rects := make([]geom.Rect, len(d.buttons))
	for i := range d.buttons {
		step := i * (buttonSize + buttonGap)
		if d.edge == EdgeTop {
			rects[i] = geom.Rect{X: frame.X + dockPad + step, Y: frame.Y + dockPad, W: buttonSize, H: buttonSize}
		} else {
			rects[i] = geom.Rect{X: frame.X + dockPad, Y: frame.Y + dockPad + step, W: buttonSize, H: buttonSize}
		}
	}
	return DockLayout{Frame: frame, Buttons: rects}
}

// HitTest maps a pointer position to a button id.
func (d *Dock) HitTest(p geom.Point, viewW, viewH int) (string, bool) {
	if !d.visible {
		return "", false
	}
	layout := d.Layout(viewW, viewH)
	for i, r := range layout.Buttons {
		if r.Contains(p) {
			return d.buttons[i].ID, true
		}
	}
	return "", false
}

// Contains reports whether p lands anywhere on the dock frame.
func (d *Dock) Contains(p geom.Point, viewW, viewH int) bool {
	if !d.visible {
		return false
	}
	return d.Layout(viewW, viewH).Frame.Contains(p)
}

// BeginDrag starts moving the dock along its edge from p.
func (d *Dock) BeginDrag(p geom.Point) {
	d.dragging = true
	d.dragStart = d.dragOffset
	if d.edge == EdgeTop {
		d.dragAnchor = p.X
	} else {
		d.dragAnchor = p.Y
	}
}

// DragTo updates the offset while dragging, clamped to the viewport.
func (d *Dock) DragTo(p geom.Point, viewW, viewH int) {
	if !d.dragging {
		return
	}
	pos := p.X
	if d.edge == EdgeLeft {
		pos = p.Y
	}
	offset := d.dragStart + int(pos-d.dragAnchor)
	limit := d.maxOffset(viewW, viewH)
	if offset > limit {
		offset = limit
	} else if offset < -limit {
		offset = -limit
	}
	d.dragOffset = offset
}

// EndDrag finishes a drag gesture.
func (d *Dock) EndDrag() { d.dragging = false }

// Toolbars bundles the two docks and the placement policy.
type Toolbars struct {
	Top  *Dock
	Side *Dock

	placement Placement
	hidden    bool
}

// DefaultToolButtons is the top dock: one cell per drawing tool.
func DefaultToolButtons() []Button {
	return []Button{
		{ID: "pen", Label: "Pen", Active: true},
		{ID: "marker", Label: "Marker"},
		{ID: "line", Label: "Line"},
		{ID: "rect", Label: "Rectangle"},
		{ID: "ellipse", Label: "Ellipse"},
		{ID: "arrow", Label: "Arrow"},
		{ID: "text", Label: "Text"},
		{ID: "sticky", Label: "Sticky note"},
		{ID: "eraser", Label: "Eraser"},
		{ID: "select", Label: "Select"},
	}
}

// DefaultColorButtons is the side dock: the quick color palette.
func DefaultColorButtons() []Button {
	return []Button{
		{ID: "#FF0000", Label: "Red", Active: true},
		{ID: "#FF8800", Label: "Orange"},
		{ID: "#FFD900", Label: "Yellow"},
		{ID: "#00C853", Label: "Green"},
		{ID: "#2196F3", Label: "Blue"},
		{ID: "#AA00FF", Label: "Purple"},
		{ID: "#FFFFFF", Label: "White"},
		{ID: "#000000", Label: "Black"},
	}
}

// New returns the default dock pair on layer placement.
func New() *Toolbars {
	return &Toolbars{
		Top:  NewDock(EdgeTop, DefaultToolButtons()),
		Side: NewDock(EdgeLeft, DefaultColorButtons()),
	}
}

func (t *Toolbars) Placement() Placement { return t.placement }

// SetPlacement switches between layer surfaces and inline compositing.
// The engine falls back to inline when layer-shell is unavailable.
func (t *Toolbars) SetPlacement(p Placement) { t.placement = p }

// Hidden reports whether both docks are suppressed, as in presenter
// mode.
func (t *Toolbars) Hidden() bool { return t.hidden }

// SetHidden suppresses or restores both docks without touching their
// individual visibility flags.
func (t *Toolbars) SetHidden(hidden bool) {
	t.hidden = hidden
	t.Top.SetVisible(!hidden)
	t.Side.SetVisible(!hidden)
}

// HitTest checks both docks, top first.
func (t *Toolbars) HitTest(p geom.Point, viewW, viewH int) (Edge, string, bool) {
	if t.hidden {
		return 0, "", false
	}
	if id, ok := t.Top.HitTest(p, viewW, viewH); ok {
		return EdgeTop, id, true
	}
	if id, ok := t.Side.HitTest(p, viewW, viewH); ok {
		return EdgeLeft, id, true
	}
	return 0, "", false
}
