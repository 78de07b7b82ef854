package overlay

import (
	"math"

	"github.com/example/wayscriber/internal/geom"
)

const (
	radialInner = 24.0
	radialOuter = 96.0
)

// RadialMenu is a ring of tool wedges opened at the pointer, typically
// bound to a stylus button.
type RadialMenu struct {
	open   bool
	center geom.Point
	items  []Item
}

// Wedge is the render geometry for one radial slice.
type Wedge struct {
	Item       Item
	StartAngle float64
	EndAngle   float64
	LabelAt    geom.Point
}

// RadialLayout is the ring geometry for one frame.
type RadialLayout struct {
	Center geom.Point
	Inner  float64
	Outer  float64
	Wedges []Wedge
}

func (r *RadialMenu) IsOpen() bool       { return r.open }
func (r *RadialMenu) Center() geom.Point { return r.center }

// OpenAt opens the ring centered on the pointer.
func (r *RadialMenu) OpenAt(p geom.Point, items []Item) {
	r.open = true
	r.center = p
	r.items = items
}

func (r *RadialMenu) Close() { r.open = false }

// sectorIndex maps an angle to a wedge, with wedge 0 centered at the
// top of the ring.
func (r *RadialMenu) sectorIndex(angle float64) int {
	n := len(r.items)
	sector := 2 * math.Pi / float64(n)
	// Rebase so 0 points up and each wedge straddles its center ray.
	a := angle + math.Pi/2 + sector/2
	a = math.Mod(math.Mod(a, 2*math.Pi)+2*math.Pi, 2*math.Pi)
	idx := int(a / sector)
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// HitTest maps a pointer position to a wedge index. Points inside the
// dead zone or beyond the outer radius miss.
func (r *RadialMenu) HitTest(p geom.Point) (int, bool) {
	if !r.open || len(r.items) == 0 {
		return 0, false
	}
	d := p.Dist(r.center)
	if d < radialInner || d > radialOuter {
		return 0, false
	}
	angle := math.Atan2(p.Y-r.center.Y, p.X-r.center.X)
	return r.sectorIndex(angle), true
}

// Activate resolves a release: inside a wedge returns its item, any
// release closes the ring.
func (r *RadialMenu) Activate(p geom.Point) (Item, bool) {
	if !r.open {
		return Item{}, false
	}
	idx, ok := r.HitTest(p)
	r.Close()
	if !ok {
		return Item{}, false
	}
	return r.items[idx], true
}

// Layout computes the wedge arcs and label anchor points.
func (r *RadialMenu) Layout() RadialLayout {
	if !r.open || len(r.items) == 0 {
		return RadialLayout{}
	}
	n := len(r.items)
	sector := 2 * math.Pi / float64(n)
	labelRadius := (radialInner + radialOuter) / 2
	wedges := make([]Wedge, n)
	for i, item := range r.items {
		centerAngle := -math.Pi/2 + float64(i)*sector
		wedges[i] = Wedge{
			Item:       item,
			StartAngle: centerAngle - sector/2,
			EndAngle:   centerAngle + sector/2,
			LabelAt: geom.Pt(
				r.center.X+labelRadius*math.Cos(centerAngle),
				r.center.Y+labelRadius*math.Sin(centerAngle),
			),
		}
	}
	return RadialLayout{Center: r.center, Inner: radialInner, Outer: radialOuter, Wedges: wedges}
}
