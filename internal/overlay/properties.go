package overlay

import "github.com/example/wayscriber/internal/geom"

const propsWidth = 280

// Property is one label/value row in the properties panel.
type Property struct {
	Label string
	Value string
}

// PropertiesPanel shows the current tool or selection attributes along
// the right screen edge.
type PropertiesPanel struct {
	open  bool
	props []Property
}

// PropsLayout is the frame geometry for one frame.
type PropsLayout struct {
	Frame geom.Rect
	Rows  []geom.Rect
}

func (p *PropertiesPanel) IsOpen() bool { return p.open }

func (p *PropertiesPanel) Toggle() { p.open = !p.open }
func (p *PropertiesPanel) Close()  { p.open = false }

// SetProperties replaces the displayed rows. The engine refreshes them
// each tick from the input state.
func (p *PropertiesPanel) SetProperties(props []Property) {
	p.props = props
}

func (p *PropertiesPanel) Properties() []Property { return p.props }

// Layout anchors the panel to the right edge below the top toolbar
// band.
func (p *PropertiesPanel) Layout(viewW, viewH int) PropsLayout {
	if !p.open {
		return PropsLayout{}
	}
	frame := clampFrame(geom.Rect{
		X: viewW - propsWidth - screenInset,
		Y: 64,
		W: propsWidth,
		H: len(p.props)*itemHeight + 2*framePad,
	}, viewW, viewH)
	rows := make([]geom.Rect, len(p.props))
	for i := range rows {
		rows[i] = geom.Rect{
			X: frame.X + framePad,
			Y: frame.Y + framePad + i*itemHeight,
			W: frame.W - 2*framePad,
			H: itemHeight,
		}
	}
	return PropsLayout{Frame: frame, Rows: rows}
}

// HitTest maps a pointer position to a row index.
func (p *PropertiesPanel) HitTest(pt geom.Point, viewW, viewH int) (int, bool) {
	if !p.open {
		return 0, false
	}
	layout := p.Layout(viewW, viewH)
	for i, r := range layout.Rows {
		if r.Contains(pt) {
			return i, true
		}
	}
	return 0, false
}
