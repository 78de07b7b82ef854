// Package geom provides the shared geometry and style primitives used by
// the annotation engine: points and rectangles in logical pixels, colors
// with [0,1] channels, and font descriptors.
package geom

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Point is a position in logical pixels on the overlay surface.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p minus q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle in logical pixels. Width and Height
// are never negative for stored rectangles.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// RectFromPoints returns the normalized rectangle spanning a and b.
func RectFromPoints(a, b Point) Rect {
	x0, x1 := a.X, b.X
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	y0, y1 := a.Y, b.Y
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Rect{
		X: int(math.Floor(x0)),
		Y: int(math.Floor(y0)),
		W: int(math.Ceil(x1)) - int(math.Floor(x0)),
		H: int(math.Ceil(y1)) - int(math.Floor(y0)),
	}
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// MaxX returns the exclusive right edge.
func (r Rect) MaxX() int { return r.X + r.W }

// MaxY returns the exclusive bottom edge.
func (r Rect) MaxY() int { return r.Y + r.H }

// Contains reports whether the point lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= float64(r.X) && p.X < float64(r.MaxX()) &&
		p.Y >= float64(r.Y) && p.Y < float64(r.MaxY())
}

// ContainsRect reports whether s lies entirely inside r.
func (r Rect) ContainsRect(s Rect) bool {
	if s.Empty() {
		return false
	}
	return s.X >= r.X && s.Y >= r.Y && s.MaxX() <= r.MaxX() && s.MaxY() <= r.MaxY()
}

// Intersects reports whether r and s share any pixel.
func (r Rect) Intersects(s Rect) bool {
	if r.Empty() || s.Empty() {
		return false
	}
	return r.X < s.MaxX() && s.X < r.MaxX() && r.Y < s.MaxY() && s.Y < r.MaxY()
}

// Union returns the smallest rectangle covering r and s.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	x := min(r.X, s.X)
	y := min(r.Y, s.Y)
	return Rect{X: x, Y: y, W: max(r.MaxX(), s.MaxX()) - x, H: max(r.MaxY(), s.MaxY()) - y}
}

// Inflate grows the rectangle by d pixels on every side. Negative d
// shrinks it; the result is clamped to empty rather than inverting.
func (r Rect) Inflate(d int) Rect {
	out := Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Color holds four channels in [0,1]. Alpha premultiplication is a
// render concern; storage is always straight alpha.
type Color struct {
	R float64 `toml:"r" json:"r"`
	G float64 `toml:"g" json:"g"`
	B float64 `toml:"b" json:"b"`
	A float64 `toml:"a" json:"a"`
}

// RGB builds an opaque color.
func RGB(r, g, b float64) Color { return Color{R: r, G: g, B: b, A: 1} }

// WithAlpha returns the color with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// RGBA implements image/color.Color in straight-alpha 16-bit channels.
func (c Color) RGBA() (r, g, b, a uint32) {
	clamp := func(v float64) uint32 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint32(v * 0xffff)
	}
	return clamp(c.R * c.A), clamp(c.G * c.A), clamp(c.B * c.A), clamp(c.A)
}

var _ color.Color = Color{}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA".
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return Color{}, fmt.Errorf("color %q: missing '#' prefix", s)
	}
	hex := s[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("color %q: want 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	a := 1.0
	if len(hex) == 8 {
		a = float64(v&0xff) / 255
		v >>= 8
	}
	return Color{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
		A: a,
	}, nil
}

// Hex renders the color as "#RRGGBB" or "#RRGGBBAA" when translucent.
func (c Color) Hex() string {
	to8 := func(v float64) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(math.Round(v * 255))
	}
	if c.A >= 1 {
		return fmt.Sprintf("#%02X%02X%02X", to8(c.R), to8(c.G), to8(c.B))
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", to8(c.R), to8(c.G), to8(c.B), to8(c.A))
}

// FontWeight tags a font weight.
type FontWeight string

// FontStyle tags a font slant.
type FontStyle string

const (
	WeightNormal FontWeight = "normal"
	WeightBold   FontWeight = "bold"

	StyleNormal FontStyle = "normal"
	StyleItalic FontStyle = "italic"
)

// FontDescriptor names a font family with weight and style tags. The
// renderer resolves it to an actual face.
type FontDescriptor struct {
	Family string     `toml:"family" json:"family"`
	Weight FontWeight `toml:"weight" json:"weight"`
	Style  FontStyle  `toml:"style" json:"style"`
}

// DefaultFont is the face used when configuration names none.
func DefaultFont() FontDescriptor {
	return FontDescriptor{Family: "Sans", Weight: WeightNormal, Style: StyleNormal}
}
