package toolbar

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/wayscriber/internal/geom"
)

func TestDockLayoutCentered(t *testing.T) {
	d := NewDock(EdgeTop, DefaultToolButtons())
	layout := d.Layout(1920, 1080)

	require.Equal(t, edgeMargin, layout.Frame.Y)
	require.Equal(t, (1920-layout.Frame.W)/2, layout.Frame.X)
	require.Len(t, layout.Buttons, len(DefaultToolButtons()))

	// Buttons tile left to right inside the frame.
	require.Equal(t, layout.Frame.X+dockPad, layout.Buttons[0].X)
	require.Equal(t, layout.Buttons[0].X+buttonSize+buttonGap, layout.Buttons[1].X)
}

func TestDockHitTest(t *testing.T) {
	d := NewDock(EdgeTop, DefaultToolButtons())
	layout := d.Layout(1920, 1080)

	second := layout.Buttons[1]
	id, ok := d.HitTest(geom.Pt(float64(second.X+5), float64(second.Y+5)), 1920, 1080)
	require.True(t, ok)
	require.Equal(t, "marker", id)

	_, ok = d.HitTest(geom.Pt(5, 500), 1920, 1080)
	require.False(t, ok)

	d.SetVisible(false)
	_, ok = d.HitTest(geom.Pt(float64(second.X+5), float64(second.Y+5)), 1920, 1080)
	require.False(t, ok)
}

func TestDockDragClamped(t *testing.T) {
	d := NewDock(EdgeTop, DefaultToolButtons())

	d.BeginDrag(geom.Pt(960, 20))
	d.DragTo(geom.Pt(1160, 20), 1920, 1080)
	require.Equal(t, 200, d.DragOffset())

	// Dragging far right pins the dock at the screen edge.
	d.DragTo(geom.Pt(9000, 20), 1920, 1080)
	d.EndDrag()
	layout := d.Layout(1920, 1080)
	require.Equal(t, 1920-edgeMargin-layout.Frame.W, layout.Frame.X)
	require.False(t, d.Dragging())
}

func TestSideDockDragsVertically(t *testing.T) {
	d := NewDock(EdgeLeft, DefaultColorButtons())

	d.BeginDrag(geom.Pt(20, 500))
	d.DragTo(geom.Pt(20, 560), 1920, 1080)
	require.Equal(t, 60, d.DragOffset())

	layout := d.Layout(1920, 1080)
	require.Equal(t, edgeMargin, layout.Frame.X)
	require.Equal(t, (1080-layout.Frame.H)/2+60, layout.Frame.Y)
}

func TestSetActiveMarksSingleButton(t *testing.T) {
	d := NewDock(EdgeTop, DefaultToolButtons())
	d.SetActive("eraser")

	active := 0
	for _, b := range d.Buttons() {
		if b.Active {
			active++
			require.Equal(t, "eraser", b.ID)
		}
	}
	require.Equal(t, 1, active)
}

func TestToolbarsPresenterHide(t *testing.T) {
	bars := New()
	require.False(t, bars.Hidden())

	bars.SetHidden(true)
	require.True(t, bars.Hidden())
	_, _, ok := bars.HitTest(geom.Pt(960, 20), 1920, 1080)
	require.False(t, ok)

	bars.SetHidden(false)
	layout := bars.Top.Layout(1920, 1080)
	edge, id, ok := bars.HitTest(geom.Pt(float64(layout.Buttons[0].X+1), float64(layout.Buttons[0].Y+1)), 1920, 1080)
	require.True(t, ok)
	require.Equal(t, EdgeTop, edge)
	require.Equal(t, "pen", id)
}

func TestPlacementFallback(t *testing.T) {
	bars := New()
	require.Equal(t, PlacementLayer, bars.Placement())
	bars.SetPlacement(PlacementInline)
	require.Equal(t, PlacementInline, bars.Placement())
}
