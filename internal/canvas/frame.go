// Package canvas holds the mutable shape container of a page: an
// ordered back-to-front sequence of shapes with per-frame undo/redo
// stacks and a lazily rebuilt spatial index.
package canvas

import (
	"fmt"

	"github.com/example/wayscriber/internal/geom"
	"github.com/example/wayscriber/internal/shape"
)

// IDSource allocates shape ids, monotonic across every frame of a
// canvas set. The engine is single-threaded; no locking is needed.
type IDSource struct {
	next shape.ID
}

// Next returns a fresh id. Zero is never returned.
func (s *IDSource) Next() shape.ID {
	s.next++
	return s.next
}

// Frame is one page of annotations.
type Frame struct {
	shapes []shape.Shape
	undo   []Action
	redo   []Action

	ids   *IDSource
	index *spatialIndex
	byID  map[shape.ID]int
}

// NewFrame creates an empty frame drawing ids from src.
func NewFrame(src *IDSource) *Frame {
	return &Frame{ids: src}
}

// Len returns the number of shapes.
func (f *Frame) Len() int { return len(f.shapes) }

// Shapes returns the back-to-front shape slice. Callers must not
// mutate it.
func (f *Frame) Shapes() []shape.Shape { return f.shapes }

// UndoDepth returns the undo stack length.
func (f *Frame) UndoDepth() int { return len(f.undo) }

// RedoDepth returns the redo stack length.
func (f *Frame) RedoDepth() int { return len(f.redo) }

func (f *Frame) invalidate() {
	f.index = nil
	f.byID = nil
}

func (f *Frame) idMap() map[shape.ID]int {
	if f.byID == nil {
		f.byID = make(map[shape.ID]int, len(f.shapes))
		for i, s := range f.shapes {
			f.byID[s.ID] = i
		}
	}
	return f.byID
}

// AddShape appends a new shape built from data and returns its id.
func (f *Frame) AddShape(data shape.Data) shape.Shape {
	s := shape.Shape{ID: f.ids.Next(), Data: data}
	f.shapes = append(f.shapes, s)
	f.invalidate()
	return s
}

// Adopt appends a shape that already carries an id, assigning a fresh
// one if the id is zero or collides with an existing shape.
func (f *Frame) Adopt(s shape.Shape) shape.Shape {
	if s.ID == 0 {
		s.ID = f.ids.Next()
	} else if _, exists := f.idMap()[s.ID]; exists {
		s.ID = f.ids.Next()
	}
	f.shapes = append(f.shapes, s)
	f.invalidate()
	return s
}

// InsertAt places a shape that already carries an id at index i. Used
// by undo of Delete.
func (f *Frame) InsertAt(i int, s shape.Shape) error {
	if i < 0 || i > len(f.shapes) {
		return fmt.Errorf("insert index %d out of range [0,%d]", i, len(f.shapes))
	}
	f.shapes = append(f.shapes, shape.Shape{})
	copy(f.shapes[i+1:], f.shapes[i:])
	f.shapes[i] = s
	f.invalidate()
	return nil
}

// RemoveAt removes and returns the shape at index i. Used by undo of
// Create.
func (f *Frame) RemoveAt(i int) (shape.Shape, error) {
	if i < 0 || i >= len(f.shapes) {
		return shape.Shape{}, fmt.Errorf("remove index %d out of range [0,%d)", i, len(f.shapes))
	}
	s := f.shapes[i]
	f.shapes = append(f.shapes[:i], f.shapes[i+1:]...)
	f.invalidate()
	return s, nil
}

// FindIndex returns the index of the shape with the given id, or -1.
func (f *Frame) FindIndex(id shape.ID) int {
	if i, ok := f.idMap()[id]; ok {
		return i
	}
	return -1
}

// Shape returns the shape with the given id.
func (f *Frame) Shape(id shape.ID) (shape.Shape, bool) {
	if i := f.FindIndex(id); i >= 0 {
		return f.shapes[i], true
	}
	return shape.Shape{}, false
}

// SetShape overwrites the record with the matching id, keeping its
// z-position.
func (f *Frame) SetShape(id shape.ID, s shape.Shape) bool {
	i := f.FindIndex(id)
	if i < 0 {
		return false
	}
	s.ID = id
	f.shapes[i] = s
	f.invalidate()
	return true
}

// RemoveByIDs removes every listed shape, returning the removed
// placements sorted descending by index so a Delete action built from
// them replays correctly.
func (f *Frame) RemoveByIDs(ids []shape.ID) []Placement {
	want := make(map[shape.ID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var removed []Placement
	kept := f.shapes[:0]
	for i, s := range f.shapes {
		if want[s.ID] {
			removed = append(removed, Placement{Index: i, Shape: s})
		} else {
			kept = append(kept, s)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	f.shapes = kept
	f.invalidate()
	// Descending by index; replay by ascending undo restores order.
	for i, j := 0, len(removed)-1; i < j; i, j = i+1, j-1 {
		removed[i], removed[j] = removed[j], removed[i]
	}
	return removed
}

// Translate moves a shape and returns the Replace action describing the
// edit, suitable for grouping into a Composite.
func (f *Frame) Translate(id shape.ID, dx, dy float64) (Replace, bool) {
	i := f.FindIndex(id)
	if i < 0 {
		return Replace{}, false
	}
	before := f.shapes[i].Clone()
	after := before.Translated(dx, dy)
	f.shapes[i] = after
	f.invalidate()
	return Replace{ID: id, Before: before, After: after.Clone()}, true
}

// Reorder moves the shape at from to index to, shifting the range
// between.
func (f *Frame) Reorder(from, to int) error {
	n := len(f.shapes)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("reorder %d -> %d out of range [0,%d)", from, to, n)
	}
	if from == to {
		return nil
	}
	s := f.shapes[from]
	if from < to {
		copy(f.shapes[from:], f.shapes[from+1:to+1])
	} else {
		copy(f.shapes[to+1:], f.shapes[to:from])
	}
	f.shapes[to] = s
	f.invalidate()
	return nil
}

// BringToFront moves the shape to the top of the z-order and returns
// the recorded action.
func (f *Frame) BringToFront(id shape.ID) (ZOrder, bool) {
	i := f.FindIndex(id)
	if i < 0 || i == len(f.shapes)-1 {
		return ZOrder{}, false
	}
	a := ZOrder{ID: id, BeforeIndex: i, AfterIndex: len(f.shapes) - 1}
	_ = f.Reorder(i, a.AfterIndex)
	return a, true
}

// SendToBack moves the shape to the bottom of the z-order.
func (f *Frame) SendToBack(id shape.ID) (ZOrder, bool) {
	i := f.FindIndex(id)
	if i <= 0 {
		return ZOrder{}, false
	}
	a := ZOrder{ID: id, BeforeIndex: i, AfterIndex: 0}
	_ = f.Reorder(i, 0)
	return a, true
}

// PushUndo records an action, clearing redo. When the stack exceeds
// cap, the oldest entry is dropped.
func (f *Frame) PushUndo(a Action, cap int) {
	f.undo = append(f.undo, a)
	if cap > 0 && len(f.undo) > cap {
		f.undo = append(f.undo[:0:0], f.undo[len(f.undo)-cap:]...)
	}
	f.redo = nil
}

// UndoLast moves the newest undo entry to the redo stack and returns it
// for side-effect application.
func (f *Frame) UndoLast() (Action, bool) {
	if len(f.undo) == 0 {
		return nil, false
	}
	a := f.undo[len(f.undo)-1]
	f.undo = f.undo[:len(f.undo)-1]
	f.redo = append(f.redo, a)
	return a, true
}

// RedoLast moves the newest redo entry back to the undo stack and
// returns it.
func (f *Frame) RedoLast() (Action, bool) {
	if len(f.redo) == 0 {
		return nil, false
	}
	a := f.redo[len(f.redo)-1]
	f.redo = f.redo[:len(f.redo)-1]
	f.undo = append(f.undo, a)
	return a, true
}

// UndoActions exposes the undo stack oldest-first for persistence.
func (f *Frame) UndoActions() []Action { return f.undo }

// RedoActions exposes the redo stack oldest-first for persistence.
func (f *Frame) RedoActions() []Action { return f.redo }

// RestoreHistory replaces both stacks, used when loading a snapshot.
func (f *Frame) RestoreHistory(undo, redo []Action) {
	f.undo = undo
	f.redo = redo
}

// HitTest returns the topmost selectable shape at p. Tolerance expands
// non-filled strokes. Stored eraser paths are background repair, not
// annotations, so they are skipped.
func (f *Frame) HitTest(p geom.Point, tol float64) (shape.ID, bool) {
	for i := len(f.shapes) - 1; i >= 0; i-- {
		s := f.shapes[i]
		if s.Data.Kind() == shape.KindEraser {
			continue
		}
		if s.Data.Hit(p, tol) {
			return s.ID, true
		}
	}
	return 0, false
}

// HitTestAllPoints returns every shape whose geometry lies within
// radius of any segment of the polyline, in z-order. Segments are
// subsampled at most maxStep pixels apart. Used by the stroke eraser.
func (f *Frame) HitTestAllPoints(pts []geom.Point, radius, maxStep float64) []shape.ID {
	if len(pts) == 0 {
		return nil
	}
	var query geom.Rect
	for _, p := range pts {
		query = query.Union(geom.RectFromPoints(p, p))
	}
	query = query.Inflate(int(radius) + 1)

	var out []shape.ID
	for _, i := range f.spatial().query(query) {
		s := f.shapes[i]
		if shape.HitPath(s.Data, pts, radius, maxStep) {
			out = append(out, s.ID)
		}
	}
	return out
}

// ShapesInRect returns shapes for marquee selection. When contained is
// true only shapes whose bounding box lies fully inside the rect match;
// otherwise intersecting boxes match too.
func (f *Frame) ShapesInRect(r geom.Rect, contained bool) []shape.ID {
	var out []shape.ID
	for _, i := range f.spatial().query(r) {
		s := f.shapes[i]
		if s.Data.Kind() == shape.KindEraser {
			continue
		}
		b := s.Bounds()
		if contained && !r.ContainsRect(b) {
			continue
		}
		if !contained && !r.Intersects(b) {
			continue
		}
		out = append(out, s.ID)
	}
	return out
}

func (f *Frame) spatial() *spatialIndex {
	if f.index == nil {
		f.index = buildSpatialIndex(f.shapes)
	}
	return f.index
}

// Clone deep-copies the frame's shapes into a new frame sharing the
// same id source. History stacks are not copied.
func (f *Frame) Clone() *Frame {
	out := NewFrame(f.ids)
	for _, s := range f.shapes {
		c := s.Clone()
		c.ID = f.ids.Next()
		out.shapes = append(out.shapes, c)
	}
	return out
}
