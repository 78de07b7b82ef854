package shape

import (
	"math"

	"github.com/example/wayscriber/internal/geom"
)

const (
	// TextPadding insets the hit box of text shapes.
	TextPadding = 4.0
	// StickyPadding insets the note background around sticky text.
	StickyPadding = 8.0
)

func strokeRect(x0, y0, x1, y1, thick float64) geom.Rect {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	half := thick / 2
	return geom.Rect{
		X: int(math.Floor(x0 - half)),
		Y: int(math.Floor(y0 - half)),
		W: int(math.Ceil(x1+half)) - int(math.Floor(x0-half)),
		H: int(math.Ceil(y1+half)) - int(math.Floor(y0-half)),
	}
}

func pointsRect(pts []geom.Point, pad float64) geom.Rect {
	if len(pts) == 0 {
		return geom.Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return strokeRect(minX, minY, maxX, maxY, pad*2)
}

func (l Line) Bounds() geom.Rect {
	return strokeRect(l.X1, l.Y1, l.X2, l.Y2, l.Thick)
}

func (r Rect) Bounds() geom.Rect {
	n := r.Normalized()
	return strokeRect(n.X, n.Y, n.X+n.W, n.Y+n.H, n.Thick)
}

func (e Ellipse) Bounds() geom.Rect {
	rx, ry := math.Abs(e.RX), math.Abs(e.RY)
	return strokeRect(e.CX-rx, e.CY-ry, e.CX+rx, e.CY+ry, e.Thick)
}

func (a Arrow) Bounds() geom.Rect {
	// The head edges fan out from the tip; include their reach so the
	// box covers every pixel the head can write.
	reach := a.Thick + a.HeadLength
	return strokeRect(a.X1, a.Y1, a.X2, a.Y2, a.Thick).Inflate(int(math.Ceil(reach)))
}

func (f Freehand) Bounds() geom.Rect {
	return pointsRect(f.Points, f.Thick/2)
}

func (e Eraser) Bounds() geom.Rect {
	return pointsRect(e.Points, e.Size/2)
}

func (t Text) Bounds() geom.Rect {
	w, h := MeasureText(t.Text, t.Size, t.WrapWidth)
	return geom.Rect{
		X: int(math.Floor(t.X - TextPadding)),
		Y: int(math.Floor(t.Y - TextPadding)),
		W: int(math.Ceil(w + 2*TextPadding)),
		H: int(math.Ceil(h + 2*TextPadding)),
	}
}

func (n StickyNote) Bounds() geom.Rect {
	w, h := MeasureText(n.Text, n.Size, n.WrapWidth)
	return geom.Rect{
		X: int(math.Floor(n.X - StickyPadding)),
		Y: int(math.Floor(n.Y - StickyPadding)),
		W: int(math.Ceil(w + 2*StickyPadding)),
		H: int(math.Ceil(h + 2*StickyPadding)),
	}
}
