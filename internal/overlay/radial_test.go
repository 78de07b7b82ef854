package overlay

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/wayscriber/internal/geom"
)

func radialItems() []Item {
	return []Item{
		{ID: "pen", Label: "Pen"},
		{ID: "marker", Label: "Marker"},
		{ID: "eraser", Label: "Eraser"},
		{ID: "select", Label: "Select"},
	}
}

func TestRadialHitTestWedges(t *testing.T) {
	var r RadialMenu
	r.OpenAt(geom.Pt(500, 500), radialItems())

	// Wedge 0 is centered straight up, then clockwise.
	cases := []struct {
		at   geom.Point
		want int
	}{
		{geom.Pt(500, 440), 0}, // above
		{geom.Pt(560, 500), 1}, // right
		{geom.Pt(500, 560), 2}, // below
		{geom.Pt(440, 500), 3}, // left
	}
	for _, tc := range cases {
		idx, ok := r.HitTest(tc.at)
		require.True(t, ok, "at %v", tc.at)
		require.Equal(t, tc.want, idx, "at %v", tc.at)
	}
}

func TestRadialDeadZoneAndOuterMiss(t *testing.T) {
	var r RadialMenu
	r.OpenAt(geom.Pt(500, 500), radialItems())

	_, ok := r.HitTest(geom.Pt(502, 502))
	require.False(t, ok, "center dead zone")

	_, ok = r.HitTest(geom.Pt(700, 500))
	require.False(t, ok, "beyond outer radius")
}

func TestRadialActivateClosesRing(t *testing.T) {
	var r RadialMenu
	r.OpenAt(geom.Pt(500, 500), radialItems())

	item, ok := r.Activate(geom.Pt(560, 500))
	require.True(t, ok)
	require.Equal(t, "marker", item.ID)
	require.False(t, r.IsOpen())

	// Releasing outside any wedge still closes.
	r.OpenAt(geom.Pt(500, 500), radialItems())
	_, ok = r.Activate(geom.Pt(510, 505))
	require.False(t, ok)
	require.False(t, r.IsOpen())
}

func TestRadialLayoutLabels(t *testing.T) {
	var r RadialMenu
	r.OpenAt(geom.Pt(500, 500), radialItems())

	layout := r.Layout()
	require.Len(t, layout.Wedges, 4)
	require.Equal(t, radialInner, layout.Inner)
	require.Equal(t, radialOuter, layout.Outer)

	// First label sits above the center on the mid radius.
	top := layout.Wedges[0].LabelAt
	require.InDelta(t, 500, top.X, 0.01)
	require.InDelta(t, 500-(radialInner+radialOuter)/2, top.Y, 0.01)
}
