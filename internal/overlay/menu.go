package overlay

import "github.com/example/wayscriber/internal/geom"

// ContextMenu is a pointer-anchored list of actions over the current
// selection or canvas position.
type ContextMenu struct {
	open   bool
	anchor geom.Point
	items  []Item
	hover  int
}

// MenuLayout is the frame geometry for one frame.
type MenuLayout struct {
	Frame geom.Rect
	Items []geom.Rect
}

// OpenAt opens the menu with items anchored at the pointer. The frame
// is shifted to stay on screen.
func (m *ContextMenu) OpenAt(p geom.Point, items []Item) {
	m.open = true
	m.anchor = p
	m.items = items
	m.hover = -1
}

func (m *ContextMenu) Close()        { m.open = false }
func (m *ContextMenu) IsOpen() bool  { return m.open }
func (m *ContextMenu) Items() []Item { return m.items }

// Hover reports the hovered item index, -1 when none.
func (m *ContextMenu) Hover() int { return m.hover }

// SetHover records the item under the pointer for the renderer.
func (m *ContextMenu) SetHover(idx int) {
	if idx < -1 || idx >= len(m.items) {
		idx = -1
	}
	m.hover = idx
}

// Layout computes the frame for the current viewport.
func (m *ContextMenu) Layout(viewW, viewH int) MenuLayout {
	if !m.open || len(m.items) == 0 {
		return MenuLayout{}
	}
	frame := geom.Rect{
		X: int(m.anchor.X),
		Y: int(m.anchor.Y),
		W: menuWidth,
		H: len(m.items)*itemHeight + 2*framePad,
	}
	frame = clampFrame(frame, viewW, viewH)
	rects := make([]geom.Rect, len(m.items))
	for i := range m.items {
		rects[i] = geom.Rect{
			X: frame.X + framePad,
			Y: frame.Y + framePad + i*itemHeight,
			W: frame.W - 2*framePad,
			H: itemHeight,
		}
	}
	return MenuLayout{Frame: frame, Items: rects}
}

// HitTest maps a pointer position to an enabled item index.
func (m *ContextMenu) HitTest(p geom.Point, viewW, viewH int) (int, bool) {
	if !m.open {
		return 0, false
	}
	layout := m.Layout(viewW, viewH)
	for i, r := range layout.Items {
		if r.Contains(p) && !m.items[i].Disabled {
			return i, true
		}
	}
	return 0, false
}

// Activate resolves a click: inside an item returns it and closes the
// menu, outside the frame closes without a result.
func (m *ContextMenu) Activate(p geom.Point, viewW, viewH int) (Item, bool) {
	if !m.open {
		return Item{}, false
	}
	if idx, ok := m.HitTest(p, viewW, viewH); ok {
		item := m.items[idx]
		m.Close()
		return item, true
	}
	if !m.Layout(viewW, viewH).Frame.Contains(p) {
		m.Close()
	}
	return Item{}, false
}
