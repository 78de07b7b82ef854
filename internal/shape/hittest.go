package shape

import (
	"math"

	"github.com/example/wayscriber/internal/geom"
)

// segmentDist returns the distance from p to the segment (a, b).
func segmentDist(p, a, b geom.Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Dist(geom.Pt(a.X+t*ab.X, a.Y+t*ab.Y))
}

// pathDist returns the minimal distance from p to a polyline.
func pathDist(p geom.Point, pts []geom.Point) float64 {
	switch len(pts) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Dist(pts[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		if d := segmentDist(p, pts[i-1], pts[i]); d < best {
			best = d
		}
	}
	return best
}

func strokeTol(thick, tol float64) float64 {
	return math.Max(thick/2, tol)
}

func pointInTriangle(p, a, b, c geom.Point) bool {
	sign := func(p1, p2, p3 geom.Point) float64 {
		return (p1.X-p3.X)*(p2.Y-p3.Y) - (p2.X-p3.X)*(p1.Y-p3.Y)
	}
	d1 := sign(p, a, b)
	d2 := sign(p, b, c)
	d3 := sign(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func (l Line) Hit(p geom.Point, tol float64) bool {
	return segmentDist(p, geom.Pt(l.X1, l.Y1), geom.Pt(l.X2, l.Y2)) <= strokeTol(l.Thick, tol)
}

func (r Rect) Hit(p geom.Point, tol float64) bool {
	n := r.Normalized()
	if n.Fill {
		return p.X >= n.X-tol && p.X <= n.X+n.W+tol && p.Y >= n.Y-tol && p.Y <= n.Y+n.H+tol
	}
	t := strokeTol(n.Thick, tol)
	corners := []geom.Point{
		geom.Pt(n.X, n.Y),
		geom.Pt(n.X+n.W, n.Y),
		geom.Pt(n.X+n.W, n.Y+n.H),
		geom.Pt(n.X, n.Y+n.H),
		geom.Pt(n.X, n.Y),
	}
	return pathDist(p, corners) <= t
}

func (e Ellipse) Hit(p geom.Point, tol float64) bool {
	rx, ry := math.Abs(e.RX), math.Abs(e.RY)
	if rx == 0 || ry == 0 {
		return segmentDist(p, geom.Pt(e.CX-rx, e.CY-ry), geom.Pt(e.CX+rx, e.CY+ry)) <= strokeTol(e.Thick, tol)
	}
	// Normalized radial distance: 1 on the outline, <1 inside.
	nx := (p.X - e.CX) / rx
	ny := (p.Y - e.CY) / ry
	d := math.Hypot(nx, ny)
	if e.Fill {
		// Inflate by tolerance along the smaller radius.
		return d <= 1+tol/math.Min(rx, ry)
	}
	t := strokeTol(e.Thick, tol) / math.Min(rx, ry)
	return math.Abs(d-1) <= t
}

// headPoints returns the two back corners of the arrowhead at tip,
// pointing away from tail.
func headPoints(tipX, tipY, tailX, tailY, length, angle float64) (geom.Point, geom.Point) {
	base := math.Atan2(tipY-tailY, tipX-tailX)
	p1 := geom.Pt(tipX-length*math.Cos(base-angle), tipY-length*math.Sin(base-angle))
	p2 := geom.Pt(tipX-length*math.Cos(base+angle), tipY-length*math.Sin(base+angle))
	return p1, p2
}

func (a Arrow) Hit(p geom.Point, tol float64) bool {
	t := strokeTol(a.Thick, tol)
	if segmentDist(p, geom.Pt(a.X1, a.Y1), geom.Pt(a.X2, a.Y2)) <= t {
		return true
	}
	tipX, tipY, tailX, tailY := a.X2, a.Y2, a.X1, a.Y1
	if !a.HeadAtEnd {
		tipX, tipY, tailX, tailY = a.X1, a.Y1, a.X2, a.Y2
	}
	h1, h2 := headPoints(tipX, tipY, tailX, tailY, a.HeadLength, a.HeadAngle)
	tip := geom.Pt(tipX, tipY)
	if pointInTriangle(p, tip, h1, h2) {
		return true
	}
	return segmentDist(p, tip, h1) <= t || segmentDist(p, tip, h2) <= t
}

func (f Freehand) Hit(p geom.Point, tol float64) bool {
	return pathDist(p, f.Points) <= strokeTol(f.Thick, tol)
}

func (e Eraser) Hit(p geom.Point, tol float64) bool {
	return pathDist(p, e.Points) <= strokeTol(e.Size, tol)
}

func (t Text) Hit(p geom.Point, tol float64) bool {
	return t.Bounds().Inflate(int(math.Ceil(tol))).Contains(p)
}

func (n StickyNote) Hit(p geom.Point, tol float64) bool {
	return n.Bounds().Inflate(int(math.Ceil(tol))).Contains(p)
}

// HitPath reports whether any segment of the polyline passes within
// radius of the shape. Segments are subsampled at most maxStep pixels
// apart; shorter segments use their endpoints only.
func HitPath(d Data, pts []geom.Point, radius, maxStep float64) bool {
	if len(pts) == 0 {
		return false
	}
	if maxStep <= 0 {
		maxStep = 12
	}
	if d.Hit(pts[0], radius) {
		return true
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		length := a.Dist(b)
		steps := 1
		if length > maxStep {
			steps = int(math.Ceil(length / maxStep))
		}
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps)
			if d.Hit(geom.Pt(a.X+t*(b.X-a.X), a.Y+t*(b.Y-a.Y)), radius) {
				return true
			}
		}
	}
	return false
}
