// Package shape defines the drawable primitives of the annotation
// engine. A shape is a flat record: a stable id, a lock flag, and one
// tagged data variant. Rendering, hit testing, bounds, and
// serialization all dispatch on the variant kind.
package shape

import (
	"github.com/example/wayscriber/internal/geom"
)

// ID identifies a shape. IDs are monotonic per canvas set and unique
// within a frame; zero is never a valid id.
type ID uint64

// Kind tags a shape variant.
type Kind string

const (
	KindLine       Kind = "line"
	KindRect       Kind = "rect"
	KindEllipse    Kind = "ellipse"
	KindArrow      Kind = "arrow"
	KindFreehand   Kind = "freehand"
	KindEraser     Kind = "eraser"
	KindText       Kind = "text"
	KindStickyNote Kind = "sticky"
)

// Data is the variant payload of a shape. Implementations are value
// types; Clone returns a deep copy safe to store in history entries.
type Data interface {
	Kind() Kind
	// Bounds covers every pixel the shape can touch, inflated by half
	// the stroke width for stroked variants.
	Bounds() geom.Rect
	// Hit reports whether p lies on the shape within tol pixels.
	Hit(p geom.Point, tol float64) bool
	// Translated returns a copy moved by (dx, dy).
	Translated(dx, dy float64) Data
	Clone() Data
}

// Shape is one drawable record in a canvas frame.
type Shape struct {
	ID     ID
	Locked bool
	Data   Data
}

// Clone deep-copies the shape, keeping its id.
func (s Shape) Clone() Shape {
	s.Data = s.Data.Clone()
	return s
}

// Translated returns a copy of the shape moved by (dx, dy).
func (s Shape) Translated(dx, dy float64) Shape {
	s.Data = s.Data.Translated(dx, dy)
	return s
}

// Bounds returns the shape's bounding box.
func (s Shape) Bounds() geom.Rect { return s.Data.Bounds() }

// EraseMode selects how an eraser stroke acts on the canvas.
type EraseMode string

const (
	// EraseArea paints a continuous erase path.
	EraseArea EraseMode = "area"
	// EraseStroke deletes whole intersected shapes.
	EraseStroke EraseMode = "stroke"
)

// EraserKind selects the eraser implementation.
type EraserKind string

const (
	// EraserPixel is replayed at render time, painting the board
	// background along its path.
	EraserPixel EraserKind = "pixel"
	// EraserRect acts as stroke mode at runtime and is never stored.
	EraserRect EraserKind = "rect"
)

// Line is a straight segment.
type Line struct {
	X1, Y1, X2, Y2 float64
	Color          geom.Color
	Thick          float64
}

func (Line) Kind() Kind { return KindLine }

func (l Line) Clone() Data { return l }

func (l Line) Translated(dx, dy float64) Data {
	l.X1 += dx
	l.Y1 += dy
	l.X2 += dx
	l.Y2 += dy
	return l
}

// Rect is an axis-aligned rectangle. Stored coordinates are normalized:
// W and H are non-negative.
type Rect struct {
	X, Y, W, H float64
	Fill       bool
	Color      geom.Color
	Thick      float64
}

func (Rect) Kind() Kind { return KindRect }

func (r Rect) Clone() Data { return r }

func (r Rect) Translated(dx, dy float64) Data {
	r.X += dx
	r.Y += dy
	return r
}

// Normalized flips negative extents so W and H are non-negative.
func (r Rect) Normalized() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Ellipse is centred at (CX, CY) with radii RX, RY.
type Ellipse struct {
	CX, CY, RX, RY float64
	Fill           bool
	Color          geom.Color
	Thick          float64
}

func (Ellipse) Kind() Kind { return KindEllipse }

func (e Ellipse) Clone() Data { return e }

func (e Ellipse) Translated(dx, dy float64) Data {
	e.CX += dx
	e.CY += dy
	return e
}

// Arrow is a segment with a head triangle at one or both ends.
type Arrow struct {
	X1, Y1, X2, Y2 float64
	Color          geom.Color
	Thick          float64
	HeadLength     float64
	HeadAngle      float64 // radians between shaft and head edge
	HeadAtEnd      bool
}

func (Arrow) Kind() Kind { return KindArrow }

func (a Arrow) Clone() Data { return a }

func (a Arrow) Translated(dx, dy float64) Data {
	a.X1 += dx
	a.Y1 += dy
	a.X2 += dx
	a.Y2 += dy
	return a
}

// Freehand is a polyline sampled from pointer motion. The marker
// variant stacks translucent samples.
type Freehand struct {
	Points        []geom.Point
	Color         geom.Color
	Thick         float64
	IsMarker      bool
	MarkerOpacity float64
}

func (Freehand) Kind() Kind { return KindFreehand }

func (f Freehand) Clone() Data {
	f.Points = append([]geom.Point(nil), f.Points...)
	return f
}

func (f Freehand) Translated(dx, dy float64) Data {
	pts := make([]geom.Point, len(f.Points))
	for i, p := range f.Points {
		pts[i] = geom.Pt(p.X+dx, p.Y+dy)
	}
	f.Points = pts
	return f
}

// Eraser is a stored pixel-bucket erase path, replayed at render time.
// Stroke-mode erasers delete shapes instead and are never stored.
type Eraser struct {
	Points []geom.Point
	Size   float64
	Mode   EraseMode
}

func (Eraser) Kind() Kind { return KindEraser }

func (e Eraser) Clone() Data {
	e.Points = append([]geom.Point(nil), e.Points...)
	return e
}

func (e Eraser) Translated(dx, dy float64) Data {
	pts := make([]geom.Point, len(e.Points))
	for i, p := range e.Points {
		pts[i] = geom.Pt(p.X+dx, p.Y+dy)
	}
	e.Points = pts
	return e
}

// Text is a text block anchored at its top-left corner. WrapWidth of
// zero means no wrapping.
type Text struct {
	X, Y              float64
	Text              string
	Color             geom.Color
	Size              float64
	Font              geom.FontDescriptor
	BackgroundEnabled bool
	WrapWidth         float64
}

func (Text) Kind() Kind { return KindText }

func (t Text) Clone() Data { return t }

func (t Text) Translated(dx, dy float64) Data {
	t.X += dx
	t.Y += dy
	return t
}

// StickyNote is a text block on an opaque note background.
type StickyNote struct {
	X, Y            float64
	Text            string
	BackgroundColor geom.Color
	Size            float64
	Font            geom.FontDescriptor
	WrapWidth       float64
}

func (StickyNote) Kind() Kind { return KindStickyNote }

func (n StickyNote) Clone() Data { return n }

func (n StickyNote) Translated(dx, dy float64) Data {
	n.X += dx
	n.Y += dy
	return n
}
