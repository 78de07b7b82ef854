package overlay

import "github.com/example/wayscriber/internal/geom"

const pickerWidth = 360

// BoardRow is one board slot shown in the picker.
type BoardRow struct {
	Slot   int
	Name   string
	Shapes int
	Pinned bool
	Active bool
}

// BoardPicker lists board slots for keyboard or pointer switching.
type BoardPicker struct {
	open      bool
	selection int
	rows      []BoardRow
}

// PickerLayout is the frame geometry for one frame.
type PickerLayout struct {
	Frame geom.Rect
	Rows  []geom.Rect
}

func (b *BoardPicker) IsOpen() bool     { return b.open }
func (b *BoardPicker) Rows() []BoardRow { return b.rows }
func (b *BoardPicker) Selection() int   { return b.selection }

// Open shows the picker with the active board preselected.
func (b *BoardPicker) Open(rows []BoardRow) {
	b.open = true
	b.rows = rows
	b.selection = 0
	for i, r := range rows {
		if r.Active {
			b.selection = i
			break
		}
	}
}

func (b *BoardPicker) Close() { b.open = false }

// SetRows refreshes the slot list while open, keeping the selection in
// range.
func (b *BoardPicker) SetRows(rows []BoardRow) {
	b.rows = rows
	if len(rows) == 0 {
		b.selection = 0
		return
	}
	b.selection = clamp(b.selection, 0, len(rows)-1)
}

// MoveSelection shifts the highlighted slot with wraparound.
func (b *BoardPicker) MoveSelection(delta int) {
	n := len(b.rows)
	if n == 0 {
		return
	}
	b.selection = ((b.selection+delta)%n + n) % n
}

// Accept closes the picker and returns the chosen slot.
func (b *BoardPicker) Accept() (BoardRow, bool) {
	if !b.open || b.selection >= len(b.rows) {
		return BoardRow{}, false
	}
	row := b.rows[b.selection]
	b.Close()
	return row, true
}

// Layout centers the picker on screen.
func (b *BoardPicker) Layout(viewW, viewH int) PickerLayout {
	if !b.open {
		return PickerLayout{}
	}
	w := pickerWidth
	if w > viewW-2*screenInset {
		w = viewW - 2*screenInset
	}
	h := len(b.rows)*itemHeight + 2*framePad
	frame := clampFrame(geom.Rect{
		X: (viewW - w) / 2,
		Y: (viewH - h) / 2,
		W: w,
		H: h,
	}, viewW, viewH)
	rows := make([]geom.Rect, len(b.rows))
	for i := range rows {
		rows[i] = geom.Rect{
			X: frame.X + framePad,
			Y: frame.Y + framePad + i*itemHeight,
			W: frame.W - 2*framePad,
			H: itemHeight,
		}
	}
	return PickerLayout{Frame: frame, Rows: rows}
}

// HitTest maps a pointer position to a row index.
func (b *BoardPicker) HitTest(p geom.Point, viewW, viewH int) (int, bool) {
	if !b.open {
		return 0, false
	}
	layout := b.Layout(viewW, viewH)
	for i, r := range layout.Rows {
		if r.Contains(p) {
			return i, true
		}
	}
	return 0, false
}
