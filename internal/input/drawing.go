package input

import (
	"math"
	"time"

	"github.com/example/wayscriber/internal/canvas"
	"github.com/example/wayscriber/internal/geom"
	"github.com/example/wayscriber/internal/shape"
)

// Minimum extent for a committed two-point shape. Anything smaller is
// treated as an accidental click and discarded.
const minShapeExtent = 2

// PointerPress feeds a left-button press into the state machine.
func (s *State) PointerPress(f *canvas.Frame, p geom.Point, now time.Time) {
	s.recordClickHighlight(p, now)

	if s.phase != phaseIdle {
		return
	}

	switch s.Tool {
	case ToolSelect:
		s.pressSelect(f, p, now)
	case ToolText, ToolSticky:
		s.pressText(f, p)
	case ToolEraser:
		s.pressEraser(f, p)
	case ToolPen, ToolMarker:
		s.phase = phaseDrawing
		s.drawKind = shape.KindFreehand
		s.start = p
		s.points = append(s.points[:0], p)
	case ToolLine, ToolRect, ToolEllipse, ToolArrow:
		s.phase = phaseDrawing
		s.drawKind = toolKind(s.Tool)
		s.start = p
		s.points = append(s.points[:0], p)
	}
}

func toolKind(t Tool) shape.Kind {
	switch t {
	case ToolLine:
		return shape.KindLine
	case ToolRect:
		return shape.KindRect
	case ToolEllipse:
		return shape.KindEllipse
	case ToolArrow:
		return shape.KindArrow
	}
	return shape.KindFreehand
}

func (s *State) pressEraser(f *canvas.Frame, p geom.Point) {
	if s.Style.EraserMode == shape.EraseStroke || s.Style.EraserKind == shape.EraserRect {
		s.phase = phaseEraserStroke
		s.points = append(s.points[:0], p)
		s.eraserCandidates = make(map[shape.ID]bool)
		s.sampleEraser(f, p, p)
		return
	}
	s.phase = phaseDrawing
	s.drawKind = shape.KindEraser
	s.start = p
	s.points = append(s.points[:0], p)
}

// PointerMotion feeds pointer movement into the state machine.
func (s *State) PointerMotion(f *canvas.Frame, p geom.Point) {
	switch s.phase {
	case phasePendingTextClick:
		if s.start.Dist(p) > dragThreshold {
			// A drag with the text tool is not a click; abandon it.
			s.phase = phaseIdle
		}
	case phaseDrawing:
		s.motionDrawing(p)
	case phaseEraserStroke:
		last := s.points[len(s.points)-1]
		s.points = append(s.points, p)
		s.sampleEraser(f, last, p)
		s.dirty.MarkRect(geom.RectFromPoints(last, p).Inflate(int(s.Style.EraserSize) + 2))
	case phaseMovingSelection, phaseMarquee:
		s.motionSelect(f, p)
	case phaseResizingText:
		s.motionResize(f, p)
	}
}

func (s *State) motionDrawing(p geom.Point) {
	switch s.drawKind {
	case shape.KindFreehand, shape.KindEraser:
		last := s.points[len(s.points)-1]
		if p == last {
			return
		}
		s.points = append(s.points, p)
		pad := int(s.Style.Thickness) + 2
		if s.drawKind == shape.KindEraser {
			pad = int(s.Style.EraserSize) + 2
		}
		s.dirty.MarkRect(geom.RectFromPoints(last, p).Inflate(pad))
	default:
		if old, ok := s.previewData(s.points[len(s.points)-1]); ok {
			s.dirty.MarkRect(old.Bounds().Inflate(2))
		}
		s.points[len(s.points)-1] = p
		s.snapActive = s.shiftHeld()
		if d, ok := s.previewData(p); ok {
			s.dirty.MarkRect(d.Bounds().Inflate(2))
		}
	}
}

// PointerRelease completes the active gesture. It reports whether the
// release committed a history entry, so callers can tell real edits
// from idle clicks.
func (s *State) PointerRelease(f *canvas.Frame, p geom.Point, now time.Time) bool {
	switch s.phase {
	case phasePendingTextClick:
		s.phase = phaseIdle
		if s.start.Dist(p) <= dragThreshold {
			s.beginTextInput(s.start)
		}
	case phaseDrawing:
		s.motionDrawing(p)
		return s.commitDrawing(f)
	case phaseEraserStroke:
		return s.commitEraserStroke(f)
	case phaseMovingSelection, phaseMarquee:
		return s.releaseSelect(f, p)
	case phaseResizingText:
		return s.releaseResize(f)
	}
	return false
}

// Cancel aborts the active gesture without a history entry.
func (s *State) Cancel(f *canvas.Frame) {
	switch s.phase {
	case phaseTextInput:
		s.cancelTextInput(f)
	case phaseMovingSelection:
		s.cancelMove(f)
	case phaseResizingText:
		f.SetShape(s.text.resizeID, s.text.resizeBefore.Clone())
		s.text = textEdit{}
		s.phase = phaseIdle
		s.dirty.MarkFull()
	default:
		s.phase = phaseIdle
		s.points = s.points[:0]
		s.eraserCandidates = nil
		s.dirty.MarkFull()
	}
}

func (s *State) commitDrawing(f *canvas.Frame) bool {
	s.phase = phaseIdle
	data, ok := s.previewData(s.points[len(s.points)-1])
	s.points = s.points[:0]
	s.snapActive = false
	if !ok {
		return false
	}
	s.pushCreate(f, data)
	return true
}

func (s *State) pushCreate(f *canvas.Frame, data shape.Data) {
	sh := f.AddShape(data)
	f.PushUndo(canvas.Create{Positions: []canvas.Placement{{Index: f.Len() - 1, Shape: sh.Clone()}}}, s.undoLimit)
	s.dirty.MarkRect(sh.Bounds().Inflate(2))
}

// previewData builds the in-progress shape with the cursor at p.
// Returns false for degenerate geometry.
func (s *State) previewData(p geom.Point) (shape.Data, bool) {
	switch s.drawKind {
	case shape.KindFreehand:
		if len(s.points) < 2 {
			return nil, false
		}
		return shape.Freehand{
			Points:        append([]geom.Point(nil), s.points...),
			Color:         s.strokeColor(),
			Thick:         s.Style.Thickness,
			IsMarker:      s.Tool == ToolMarker,
			MarkerOpacity: s.Style.MarkerOpacity,
		}, true
	case shape.KindEraser:
		if len(s.points) < 2 {
			return nil, false
		}
		return shape.Eraser{
			Points: append([]geom.Point(nil), s.points...),
			Size:   s.Style.EraserSize,
			Mode:   shape.EraseArea,
		}, true
	case shape.KindLine:
		end := s.snapEndpoint(p)
		if s.start.Dist(end) < minShapeExtent {
			return nil, false
		}
		return shape.Line{
			X1: s.start.X, Y1: s.start.Y, X2: end.X, Y2: end.Y,
			Color: s.strokeColor(), Thick: s.Style.Thickness,
		}, true
	case shape.KindArrow:
		end := s.snapEndpoint(p)
		if s.start.Dist(end) < minShapeExtent {
			return nil, false
		}
		return shape.Arrow{
			X1: s.start.X, Y1: s.start.Y, X2: end.X, Y2: end.Y,
			Color:      s.strokeColor(),
			Thick:      s.Style.Thickness,
			HeadLength: s.Style.ArrowLength,
			HeadAngle:  s.Style.ArrowAngle * math.Pi / 180,
			HeadAtEnd:  s.Style.ArrowHeadAtEnd,
		}, true
	case shape.KindRect:
		end := s.snapCorner(p)
		r := shape.Rect{
			X: s.start.X, Y: s.start.Y,
			W: end.X - s.start.X, H: end.Y - s.start.Y,
			Fill:  s.Style.FillEnabled,
			Color: s.strokeColor(),
			Thick: s.Style.Thickness,
		}.Normalized()
		if r.W < minShapeExtent && r.H < minShapeExtent {
			return nil, false
		}
		return r, true
	case shape.KindEllipse:
		end := s.snapCorner(p)
		rx := math.Abs(end.X-s.start.X) / 2
		ry := math.Abs(end.Y-s.start.Y) / 2
		if rx < minShapeExtent/2 && ry < minShapeExtent/2 {
			return nil, false
		}
		return shape.Ellipse{
			CX: (s.start.X + end.X) / 2, CY: (s.start.Y + end.Y) / 2,
			RX: rx, RY: ry,
			Fill:  s.Style.FillEnabled,
			Color: s.strokeColor(),
			Thick: s.Style.Thickness,
		}, true
	}
	return nil, false
}

func (s *State) strokeColor() geom.Color {
	c := s.Style.Color
	if s.Tool == ToolMarker {
		c.A = s.Style.MarkerOpacity
	}
	return c
}

// snapEndpoint snaps a line or arrow endpoint to the nearest 45 degree
// axis when shift is held.
func (s *State) snapEndpoint(p geom.Point) geom.Point {
	if !s.snapActive {
		return p
	}
	dx, dy := p.X-s.start.X, p.Y-s.start.Y
	angle := math.Atan2(dy, dx)
	step := math.Pi / 4
	snapped := math.Round(angle/step) * step
	dist := math.Hypot(dx, dy)
	return geom.Pt(s.start.X+dist*math.Cos(snapped), s.start.Y+dist*math.Sin(snapped))
}

// snapCorner constrains a rect or ellipse to equal extents when shift
// is held.
func (s *State) snapCorner(p geom.Point) geom.Point {
	if !s.snapActive {
		return p
	}
	dx, dy := p.X-s.start.X, p.Y-s.start.Y
	side := math.Max(math.Abs(dx), math.Abs(dy))
	return geom.Pt(s.start.X+math.Copysign(side, dx), s.start.Y+math.Copysign(side, dy))
}

// LivePreview returns the in-progress shape for the renderer, if any.
func (s *State) LivePreview() (shape.Data, bool) {
	if s.phase != phaseDrawing || len(s.points) == 0 {
		return nil, false
	}
	return s.previewData(s.points[len(s.points)-1])
}

// sampleEraser accumulates stroke-eraser candidates along one motion
// segment. Locked shapes are excluded.
func (s *State) sampleEraser(f *canvas.Frame, a, b geom.Point) {
	for _, id := range f.HitTestAllPoints([]geom.Point{a, b}, s.Style.EraserSize/2, s.linearThreshold) {
		if sh, ok := f.Shape(id); ok && !sh.Locked {
			s.eraserCandidates[id] = true
		}
	}
}

// EraserCandidates returns the shapes the active eraser stroke would
// delete, for hover halo rendering.
func (s *State) EraserCandidates() []shape.ID {
	ids := make([]shape.ID, 0, len(s.eraserCandidates))
	for id := range s.eraserCandidates {
		ids = append(ids, id)
	}
	return ids
}

func (s *State) commitEraserStroke(f *canvas.Frame) bool {
	s.phase = phaseIdle
	s.points = s.points[:0]
	candidates := s.eraserCandidates
	s.eraserCandidates = nil
	if len(candidates) == 0 {
		return false
	}
	ids := make([]shape.ID, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	placements := f.RemoveByIDs(ids)
	if len(placements) == 0 {
		return false
	}
	f.PushUndo(canvas.Delete{Positions: placements}, s.undoLimit)
	s.pruneSelection(f)
	s.dirty.MarkFull()
	return true
}

// pruneSelection drops selected ids no longer present in the frame.
func (s *State) pruneSelection(f *canvas.Frame) {
	kept := s.selection[:0]
	for _, id := range s.selection {
		if _, ok := f.Shape(id); ok {
			kept = append(kept, id)
		}
	}
	s.selection = kept
}
