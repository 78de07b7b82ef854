package input

import (
	"github.com/example/wayscriber/internal/canvas"
	"github.com/example/wayscriber/internal/geom"
	"github.com/example/wayscriber/internal/shape"
)

// Minimum wrap width a resize can reach, in pixels.
const minWrapWidth = 40

const resizeHandleSize = 8

// textEdit tracks the active text gesture: either a new block being
// typed at pos, or an edit of an existing shape with its original
// snapshot kept for cancel.
type textEdit struct {
	buffer []rune
	cursor int
	pos    geom.Point
	sticky bool

	editing bool
	target  shape.ID
	before  shape.Shape

	resizeID     shape.ID
	resizeBefore shape.Shape
}

func (s *State) pressText(f *canvas.Frame, p geom.Point) {
	if id, ok := f.HitTest(p, s.hitTolerance); ok {
		if sh, ok := f.Shape(id); ok && isTextual(sh.Data) && !sh.Locked {
			s.beginTextEdit(sh)
			return
		}
	}
	s.phase = phasePendingTextClick
	s.start = p
}

func (s *State) beginTextInput(p geom.Point) {
	s.phase = phaseTextInput
	s.text = textEdit{pos: p, sticky: s.Tool == ToolSticky}
	s.dirty.MarkFull()
}

func (s *State) beginTextEdit(sh shape.Shape) {
	if sh.Locked {
		return
	}
	var content string
	var pos geom.Point
	sticky := false
	switch d := sh.Data.(type) {
	case shape.Text:
		content = d.Text
		pos = geom.Pt(d.X, d.Y)
	case shape.StickyNote:
		content = d.Text
		pos = geom.Pt(d.X, d.Y)
		sticky = true
	default:
		return
	}
	s.phase = phaseTextInput
	s.text = textEdit{
		buffer:  []rune(content),
		cursor:  len([]rune(content)),
		pos:     pos,
		sticky:  sticky,
		editing: true,
		target:  sh.ID,
		before:  sh.Clone(),
	}
	s.dirty.MarkFull()
}

// TextBuffer returns the live text and cursor position for rendering.
func (s *State) TextBuffer() (string, int, bool) {
	if s.phase != phaseTextInput {
		return "", 0, false
	}
	return string(s.text.buffer), s.text.cursor, true
}

// InsertRune adds a character at the cursor.
func (s *State) InsertRune(r rune) {
	if s.phase != phaseTextInput {
		return
	}
	t := &s.text
	t.buffer = append(t.buffer[:t.cursor], append([]rune{r}, t.buffer[t.cursor:]...)...)
	t.cursor++
	s.dirty.MarkFull()
}

// InsertNewline adds a line break (Shift+Return).
func (s *State) InsertNewline() { s.InsertRune('\n') }

// Backspace removes the character before the cursor.
func (s *State) Backspace() {
	if s.phase != phaseTextInput || s.text.cursor == 0 {
		return
	}
	t := &s.text
	t.buffer = append(t.buffer[:t.cursor-1], t.buffer[t.cursor:]...)
	t.cursor--
	s.dirty.MarkFull()
}

// CursorLeft moves the text cursor one rune left.
func (s *State) CursorLeft() {
	if s.phase == phaseTextInput && s.text.cursor > 0 {
		s.text.cursor--
		s.dirty.MarkFull()
	}
}

// CursorRight moves the text cursor one rune right.
func (s *State) CursorRight() {
	if s.phase == phaseTextInput && s.text.cursor < len(s.text.buffer) {
		s.text.cursor++
		s.dirty.MarkFull()
	}
}

// CommitText finalizes the buffer: Create for a new block, Replace for
// an edit, Delete when an edit empties the text.
func (s *State) CommitText(f *canvas.Frame) {
	if s.phase != phaseTextInput {
		return
	}
	t := s.text
	s.phase = phaseIdle
	s.text = textEdit{}
	content := string(t.buffer)
	s.dirty.MarkFull()

	if !t.editing {
		if content == "" {
			return
		}
		s.pushCreate(f, s.newTextData(t, content))
		return
	}

	sh, ok := f.Shape(t.target)
	if !ok {
		return
	}
	if content == "" {
		placements := f.RemoveByIDs([]shape.ID{t.target})
		if len(placements) > 0 {
			f.PushUndo(canvas.Delete{Positions: placements}, s.undoLimit)
			s.pruneSelection(f)
		}
		return
	}
	after := sh
	switch d := sh.Data.(type) {
	case shape.Text:
		d.Text = content
		after.Data = d
	case shape.StickyNote:
		d.Text = content
		after.Data = d
	}
	if !f.SetShape(t.target, after) {
		return
	}
	f.PushUndo(canvas.Replace{ID: t.target, Before: t.before, After: after.Clone()}, s.undoLimit)
}

func (s *State) newTextData(t textEdit, content string) shape.Data {
	if t.sticky {
		return shape.StickyNote{
			X: t.pos.X, Y: t.pos.Y,
			Text:            content,
			BackgroundColor: geom.RGB(1, 0.95, 0.6),
			Size:            s.Style.FontSize,
			Font:            s.Style.Font,
		}
	}
	return shape.Text{
		X: t.pos.X, Y: t.pos.Y,
		Text:              content,
		Color:             s.Style.Color,
		Size:              s.Style.FontSize,
		Font:              s.Style.Font,
		BackgroundEnabled: s.Style.TextBackground,
	}
}

// cancelTextInput aborts the gesture. An interrupted edit restores the
// original shape with no history entry.
func (s *State) cancelTextInput(f *canvas.Frame) {
	t := s.text
	s.phase = phaseIdle
	s.text = textEdit{}
	s.dirty.MarkFull()
	if t.editing {
		f.SetShape(t.target, t.before.Clone())
	}
}

// resizeHandleRect is the draggable wrap-width handle on the right
// edge of a text block's padded box.
func resizeHandleRect(sh shape.Shape) geom.Rect {
	b := sh.Bounds()
	return geom.Rect{
		X: b.MaxX() - resizeHandleSize/2,
		Y: b.Y + b.H/2 - resizeHandleSize/2,
		W: resizeHandleSize,
		H: resizeHandleSize,
	}
}

func (s *State) resizeHandleHit(f *canvas.Frame, p geom.Point) (shape.ID, bool) {
	if len(s.selection) != 1 {
		return 0, false
	}
	sh, ok := f.Shape(s.selection[0])
	if !ok || sh.Locked || !isTextual(sh.Data) {
		return 0, false
	}
	if resizeHandleRect(sh).Inflate(int(s.hitTolerance)).Contains(p) {
		return sh.ID, true
	}
	return 0, false
}

func (s *State) beginResize(f *canvas.Frame, id shape.ID) {
	sh, ok := f.Shape(id)
	if !ok {
		return
	}
	s.phase = phaseResizingText
	s.text.resizeID = id
	s.text.resizeBefore = sh.Clone()
}

func (s *State) motionResize(f *canvas.Frame, p geom.Point) {
	sh, ok := f.Shape(s.text.resizeID)
	if !ok {
		return
	}
	s.dirty.MarkRect(sh.Bounds().Inflate(2))
	switch d := sh.Data.(type) {
	case shape.Text:
		d.WrapWidth = clampWrap(p.X-d.X, s.width, d.X)
		sh.Data = d
	case shape.StickyNote:
		d.WrapWidth = clampWrap(p.X-d.X, s.width, d.X)
		sh.Data = d
	}
	f.SetShape(sh.ID, sh)
	s.dirty.MarkRect(sh.Bounds().Inflate(2))
}

func clampWrap(w float64, screenWidth int, x float64) float64 {
	if w < minWrapWidth {
		return minWrapWidth
	}
	if max := float64(screenWidth) - x; w > max {
		return max
	}
	return w
}

func (s *State) releaseResize(f *canvas.Frame) bool {
	s.phase = phaseIdle
	id := s.text.resizeID
	before := s.text.resizeBefore
	s.text = textEdit{}
	sh, ok := f.Shape(id)
	if !ok || wrapWidth(sh.Data) == wrapWidth(before.Data) {
		return false
	}
	f.PushUndo(canvas.Replace{ID: id, Before: before, After: sh.Clone()}, s.undoLimit)
	s.dirty.MarkFull()
	return true
}

func wrapWidth(d shape.Data) float64 {
	switch v := d.(type) {
	case shape.Text:
		return v.WrapWidth
	case shape.StickyNote:
		return v.WrapWidth
	}
	return 0
}
