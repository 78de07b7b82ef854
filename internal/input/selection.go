package input

import (
	"math"
	"time"

	"github.com/example/wayscriber/internal/canvas"
	"github.com/example/wayscriber/internal/geom"
	"github.com/example/wayscriber/internal/shape"
)

// NudgeStep and NudgeStepLarge are the arrow-key translation distances
// in pixels.
const (
	NudgeStep      = 1
	NudgeStepLarge = 16
)

func (s *State) pressSelect(f *canvas.Frame, p geom.Point, now time.Time) {
	if id, ok := s.resizeHandleHit(f, p); ok {
		s.beginResize(f, id)
		return
	}

	id, hit := f.HitTest(p, s.hitTolerance)

	doubleClick := hit && id == s.lastClickID && now.Sub(s.lastClickAt) <= doubleClickWindow
	s.lastClickAt = now
	if hit {
		s.lastClickID = id
	} else {
		s.lastClickID = 0
	}

	if doubleClick {
		if sh, ok := f.Shape(id); ok && isTextual(sh.Data) && !sh.Locked {
			s.lastClickAt = time.Time{}
			s.beginTextEdit(sh)
			return
		}
	}

	switch {
	case hit && s.selected(id):
		s.beginMove(f, p)
	case hit && (s.shiftHeld() || s.ctrlHeld()):
		s.toggleSelection(id)
	case hit:
		s.selection = append(s.selection[:0], id)
		s.dirty.MarkFull()
		s.beginMove(f, p)
	default:
		s.phase = phaseMarquee
		s.marqueeFrom = p
		s.marqueeTo = p
	}
}

func isTextual(d shape.Data) bool {
	k := d.Kind()
	return k == shape.KindText || k == shape.KindStickyNote
}

func (s *State) toggleSelection(id shape.ID) {
	for i, v := range s.selection {
		if v == id {
			s.selection = append(s.selection[:i], s.selection[i+1:]...)
			s.dirty.MarkFull()
			return
		}
	}
	s.selection = append(s.selection, id)
	s.dirty.MarkFull()
}

func (s *State) beginMove(f *canvas.Frame, p geom.Point) {
	s.phase = phaseMovingSelection
	s.dragStart = p
	s.dragLast = p
	s.dragBefore = make(map[shape.ID]shape.Data, len(s.selection))
	for _, id := range s.selection {
		if sh, ok := f.Shape(id); ok && !sh.Locked {
			s.dragBefore[id] = sh.Data.Clone()
		}
	}
}

func (s *State) motionSelect(f *canvas.Frame, p geom.Point) {
	switch s.phase {
	case phaseMovingSelection:
		dx := math.Round(p.X - s.dragStart.X)
		dy := math.Round(p.Y - s.dragStart.Y)
		for id, before := range s.dragBefore {
			if sh, ok := f.Shape(id); ok {
				s.dirty.MarkRect(sh.Bounds().Inflate(2))
				sh.Data = before.Translated(dx, dy)
				f.SetShape(id, sh)
				s.dirty.MarkRect(sh.Bounds().Inflate(2))
			}
		}
		s.dragLast = p
	case phaseMarquee:
		old := geom.RectFromPoints(s.marqueeFrom, s.marqueeTo)
		s.marqueeTo = p
		s.dirty.MarkRect(old.Union(geom.RectFromPoints(s.marqueeFrom, p)).Inflate(2))
	}
}

func (s *State) releaseSelect(f *canvas.Frame, p geom.Point) bool {
	switch s.phase {
	case phaseMovingSelection:
		return s.finishMove(f, p)
	case phaseMarquee:
		s.finishMarquee(f, p)
	}
	return false
}

func (s *State) finishMove(f *canvas.Frame, p geom.Point) bool {
	s.phase = phaseIdle
	dx := math.Round(p.X - s.dragStart.X)
	dy := math.Round(p.Y - s.dragStart.Y)
	before := s.dragBefore
	s.dragBefore = nil
	if dx == 0 && dy == 0 {
		// Plain click on an already-selected shape; positions unchanged.
		for id, data := range before {
			if sh, ok := f.Shape(id); ok {
				sh.Data = data
				f.SetShape(id, sh)
			}
		}
		return false
	}
	var actions []canvas.Action
	for id, data := range before {
		sh, ok := f.Shape(id)
		if !ok {
			continue
		}
		prev := sh
		prev.Data = data
		actions = append(actions, canvas.Replace{ID: id, Before: prev, After: sh.Clone()})
	}
	if len(actions) == 0 {
		return false
	}
	f.PushUndo(canvas.Composite{Actions: actions}, s.undoLimit)
	s.dirty.MarkFull()
	return true
}

func (s *State) cancelMove(f *canvas.Frame) {
	s.phase = phaseIdle
	for id, data := range s.dragBefore {
		if sh, ok := f.Shape(id); ok {
			sh.Data = data
			f.SetShape(id, sh)
		}
	}
	s.dragBefore = nil
	s.dirty.MarkFull()
}

func (s *State) finishMarquee(f *canvas.Frame, p geom.Point) {
	s.phase = phaseIdle
	r := geom.RectFromPoints(s.marqueeFrom, p)
	contained := !s.ctrlHeld()
	s.selection = s.selection[:0]
	for _, id := range f.ShapesInRect(r, contained) {
		if sh, ok := f.Shape(id); ok && !sh.Locked {
			s.selection = append(s.selection, id)
		}
	}
	s.dirty.MarkFull()
}

// MarqueeRect returns the live rubber-band rectangle while one is
// being dragged.
func (s *State) MarqueeRect() (geom.Rect, bool) {
	if s.phase != phaseMarquee {
		return geom.Rect{}, false
	}
	return geom.RectFromPoints(s.marqueeFrom, s.marqueeTo), true
}

func (s *State) selectionBounds(f *canvas.Frame) (geom.Rect, bool) {
	var r geom.Rect
	found := false
	for _, id := range s.selection {
		sh, ok := f.Shape(id)
		if !ok {
			continue
		}
		if !found {
			r = sh.Bounds()
			found = true
		} else {
			r = r.Union(sh.Bounds())
		}
	}
	return r, found
}

// Nudge translates the selection by one step in the given direction.
// Shift enlarges the step. The translation is clamped so the selection
// bounding box stays on screen.
func (s *State) Nudge(f *canvas.Frame, dirX, dirY int) bool {
	if len(s.selection) == 0 || s.phase != phaseIdle {
		return false
	}
	step := float64(NudgeStep)
	if s.shiftHeld() {
		step = NudgeStepLarge
	}
	dx := float64(dirX) * step
	dy := float64(dirY) * step
	bounds, ok := s.selectionBounds(f)
	if !ok {
		return false
	}
	dx, dy = clampDelta(bounds, dx, dy, s.width, s.height)
	if dx == 0 && dy == 0 {
		return false
	}
	return s.translateSelection(f, dx, dy)
}

// clampDelta limits a translation so the rect stays within the screen.
func clampDelta(r geom.Rect, dx, dy float64, width, height int) (float64, float64) {
	if dx < 0 && float64(r.X)+dx < 0 {
		dx = -float64(r.X)
	}
	if dx > 0 && float64(r.MaxX())+dx > float64(width) {
		dx = float64(width - r.MaxX())
	}
	if dy < 0 && float64(r.Y)+dy < 0 {
		dy = -float64(r.Y)
	}
	if dy > 0 && float64(r.MaxY())+dy > float64(height) {
		dy = float64(height - r.MaxY())
	}
	return dx, dy
}

func (s *State) translateSelection(f *canvas.Frame, dx, dy float64) bool {
	var actions []canvas.Action
	for _, id := range s.selection {
		if sh, ok := f.Shape(id); !ok || sh.Locked {
			continue
		}
		if rep, ok := f.Translate(id, dx, dy); ok {
			actions = append(actions, rep)
		}
	}
	if len(actions) == 0 {
		return false
	}
	f.PushUndo(canvas.Composite{Actions: actions}, s.undoLimit)
	s.dirty.MarkFull()
	return true
}

// Edge names a screen edge for selection jumps.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// MoveToEdge jumps the selection to a screen edge, preserving the
// orthogonal coordinate.
func (s *State) MoveToEdge(f *canvas.Frame, e Edge) bool {
	if len(s.selection) == 0 || s.phase != phaseIdle {
		return false
	}
	bounds, ok := s.selectionBounds(f)
	if !ok {
		return false
	}
	var dx, dy float64
	switch e {
	case EdgeLeft:
		dx = -float64(bounds.X)
	case EdgeRight:
		dx = float64(s.width - bounds.MaxX())
	case EdgeTop:
		dy = -float64(bounds.Y)
	case EdgeBottom:
		dy = float64(s.height - bounds.MaxY())
	}
	if dx == 0 && dy == 0 {
		return false
	}
	return s.translateSelection(f, dx, dy)
}

// Copy deep-clones the selection into the paste buffer.
func (s *State) Copy(f *canvas.Frame) bool {
	if len(s.selection) == 0 {
		return false
	}
	s.clipboard = s.clipboard[:0]
	for _, id := range s.selection {
		if sh, ok := f.Shape(id); ok {
			s.clipboard = append(s.clipboard, sh.Clone())
		}
	}
	s.pasteCount = 0
	return len(s.clipboard) > 0
}

// Paste inserts the buffered shapes with fresh ids, offset so repeated
// pastes fan out. The paste becomes the new selection.
func (s *State) Paste(f *canvas.Frame) bool {
	if len(s.clipboard) == 0 || s.phase != phaseIdle {
		return false
	}
	s.pasteCount++
	offset := float64(pasteOffset * s.pasteCount)
	var placements []canvas.Placement
	s.selection = s.selection[:0]
	for _, sh := range s.clipboard {
		added := f.AddShape(sh.Data.Translated(offset, offset))
		added.Locked = false
		placements = append(placements, canvas.Placement{Index: f.Len() - 1, Shape: added.Clone()})
		s.selection = append(s.selection, added.ID)
	}
	f.PushUndo(canvas.Create{Positions: placements}, s.undoLimit)
	s.dirty.MarkFull()
	return true
}

// Duplicate copies and pastes the selection in one step.
func (s *State) Duplicate(f *canvas.Frame) bool {
	if !s.Copy(f) {
		return false
	}
	return s.Paste(f)
}

// DeleteSelection removes the unlocked members of the selection as one
// undoable action. Returns false when nothing was deleted.
func (s *State) DeleteSelection(f *canvas.Frame) bool {
	if len(s.selection) == 0 || s.phase != phaseIdle {
		return false
	}
	var ids []shape.ID
	for _, id := range s.selection {
		if sh, ok := f.Shape(id); ok && !sh.Locked {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return false
	}
	placements := f.RemoveByIDs(ids)
	if len(placements) == 0 {
		return false
	}
	f.PushUndo(canvas.Delete{Positions: placements}, s.undoLimit)
	s.clearSelection()
	s.dirty.MarkFull()
	return true
}

// ClearCanvas deletes every unlocked shape on the frame as a single
// undoable action.
func (s *State) ClearCanvas(f *canvas.Frame) bool {
	if s.phase != phaseIdle {
		return false
	}
	var ids []shape.ID
	for _, sh := range f.Shapes() {
		if !sh.Locked {
			ids = append(ids, sh.ID)
		}
	}
	if len(ids) == 0 {
		return false
	}
	placements := f.RemoveByIDs(ids)
	f.PushUndo(canvas.Delete{Positions: placements}, s.undoLimit)
	s.clearSelection()
	s.dirty.MarkFull()
	return true
}

// SelectAll selects every unlocked shape.
func (s *State) SelectAll(f *canvas.Frame) {
	s.selection = s.selection[:0]
	for _, sh := range f.Shapes() {
		if !sh.Locked {
			s.selection = append(s.selection, sh.ID)
		}
	}
	s.dirty.MarkFull()
}

// BringToFront raises each selected shape to the top of the z-order.
func (s *State) BringToFront(f *canvas.Frame) bool {
	var actions []canvas.Action
	for _, id := range s.selection {
		if z, ok := f.BringToFront(id); ok {
			actions = append(actions, z)
		}
	}
	if len(actions) == 0 {
		return false
	}
	f.PushUndo(canvas.Composite{Actions: actions}, s.undoLimit)
	s.dirty.MarkFull()
	return true
}

// SendToBack lowers each selected shape to the bottom of the z-order.
func (s *State) SendToBack(f *canvas.Frame) bool {
	var actions []canvas.Action
	for _, id := range s.selection {
		if z, ok := f.SendToBack(id); ok {
			actions = append(actions, z)
		}
	}
	if len(actions) == 0 {
		return false
	}
	f.PushUndo(canvas.Composite{Actions: actions}, s.undoLimit)
	s.dirty.MarkFull()
	return true
}

// ToggleLockSelection flips the lock flag on every selected shape.
func (s *State) ToggleLockSelection(f *canvas.Frame) bool {
	var actions []canvas.Action
	for _, id := range s.selection {
		sh, ok := f.Shape(id)
		if !ok {
			continue
		}
		before := sh.Clone()
		sh.Locked = !sh.Locked
		f.SetShape(id, sh)
		actions = append(actions, canvas.Replace{ID: id, Before: before, After: sh.Clone()})
	}
	if len(actions) == 0 {
		return false
	}
	f.PushUndo(canvas.Composite{Actions: actions}, s.undoLimit)
	s.dirty.MarkFull()
	return true
}
