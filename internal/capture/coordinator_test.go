package capture

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wayscriber/internal/geom"
)

func testImage(w, h int) *Image {
	return &Image{
		Pixels:   make([]byte, w*h*4),
		Stride:   w * 4,
		Width:    w,
		Height:   h,
		Geometry: geom.Rect{W: w, H: h},
	}
}

func TestFreezeFlow(t *testing.T) {
	c := NewCoordinator()
	now := time.Now()

	ev := c.ToggleFreeze(true, now)
	assert.Equal(t, EventRedraw, ev)
	assert.Equal(t, FrozenPreflight, c.FrozenPhase())
	assert.Equal(t, SuppressCapture, c.Suppression())

	req := c.OnFrame(now)
	require.NotNil(t, req)
	assert.Equal(t, RequestFreeze, req.Kind)
	assert.Equal(t, ReqInFlight, req.State)
	assert.Equal(t, FrozenCapturePending, c.FrozenPhase())

	ev = c.HandleResult(req.ID, Result{Image: testImage(4, 4)})
	assert.Equal(t, EventRedraw, ev)
	assert.Equal(t, FrozenActive, c.FrozenPhase())
	assert.Equal(t, SuppressFrozen, c.Suppression())
	require.NotNil(t, c.FrozenImage())

	ev = c.ToggleFreeze(true, now)
	assert.Equal(t, EventRedraw, ev)
	assert.Equal(t, FrozenIdle, c.FrozenPhase())
	assert.Equal(t, SuppressNone, c.Suppression())
	assert.Nil(t, c.FrozenImage())
}

func TestFreezeRequiresTransparentBoard(t *testing.T) {
	c := NewCoordinator()
	assert.Equal(t, EventNone, c.ToggleFreeze(false, time.Now()))
	assert.Equal(t, FrozenIdle, c.FrozenPhase())
}

func TestZoomIgnoredWhileFreezeInFlight(t *testing.T) {
	c := NewCoordinator()
	now := time.Now()
	c.ToggleFreeze(true, now)
	c.OnFrame(now)

	ev := c.EngageZoom(true, geom.Point{X: 10, Y: 10}, now)
	assert.Equal(t, EventNone, ev)
	assert.False(t, c.Zoom().Engaged())
}

func TestCaptureRetriesThenFails(t *testing.T) {
	c := NewCoordinator()
	now := time.Now()
	c.ToggleFreeze(true, now)

	cause := errors.New("screencopy protocol error")
	for i := 0; i < maxAttempts-1; i++ {
		req := c.OnFrame(now)
		require.NotNil(t, req)
		ev := c.HandleResult(req.ID, Result{Err: cause})
		assert.Equal(t, EventRedraw, ev, "attempt %d should retry", i+1)
	}

	req := c.OnFrame(now)
	require.NotNil(t, req)
	ev := c.HandleResult(req.ID, Result{Err: cause})
	assert.Equal(t, EventNotifyFailure, ev)
	assert.Equal(t, FrozenIdle, c.FrozenPhase())
	assert.Equal(t, SuppressNone, c.Suppression())
	_, pending := c.Pending()
	assert.False(t, pending)
}

func TestStaleResultDiscarded(t *testing.T) {
	c := NewCoordinator()
	now := time.Now()
	c.ToggleFreeze(true, now)
	c.OnFrame(now)

	ev := c.HandleResult(uuid.New(), Result{Image: testImage(4, 4)})
	assert.Equal(t, EventNone, ev)
	assert.Equal(t, FrozenCapturePending, c.FrozenPhase())
}

func TestZoomBoardModeNeedsNoCapture(t *testing.T) {
	c := NewCoordinator()
	ev := c.EngageZoom(false, geom.Point{X: 100, Y: 50}, time.Now())
	assert.Equal(t, EventRedraw, ev)
	assert.True(t, c.Zoom().Engaged())
	assert.Equal(t, SuppressZoom, c.Suppression())
	_, pending := c.Pending()
	assert.False(t, pending)

	ev = c.DisengageZoom()
	assert.Equal(t, EventRedraw, ev)
	assert.Equal(t, SuppressNone, c.Suppression())
}

func TestZoomTransparentCaptureFlow(t *testing.T) {
	c := NewCoordinator()
	now := time.Now()

	ev := c.EngageZoom(true, geom.Point{X: 20, Y: 20}, now)
	assert.Equal(t, EventRedraw, ev)
	assert.True(t, c.Zoom().Engaged())
	assert.Equal(t, SuppressCapture, c.Suppression())

	req := c.OnFrame(now)
	require.NotNil(t, req)
	assert.Equal(t, RequestZoom, req.Kind)

	ev = c.HandleResult(req.ID, Result{Image: testImage(8, 8)})
	assert.Equal(t, EventRedraw, ev)
	assert.Equal(t, SuppressZoom, c.Suppression())
	require.NotNil(t, c.Zoom().Image())
}

func TestZoomOverActiveFreezeKeepsFrozenSuppression(t *testing.T) {
	c := NewCoordinator()
	now := time.Now()
	c.ToggleFreeze(true, now)
	req := c.OnFrame(now)
	c.HandleResult(req.ID, Result{Image: testImage(4, 4)})
	require.Equal(t, FrozenActive, c.FrozenPhase())

	// With a frozen backdrop no new capture is needed.
	ev := c.EngageZoom(true, geom.Point{X: 5, Y: 5}, now)
	assert.Equal(t, EventRedraw, ev)
	assert.Equal(t, SuppressZoom, c.Suppression())
	_, pending := c.Pending()
	assert.False(t, pending)

	c.DisengageZoom()
	assert.Equal(t, SuppressFrozen, c.Suppression())
}

func TestCancelOutstanding(t *testing.T) {
	c := NewCoordinator()
	now := time.Now()
	c.EngageZoom(true, geom.Point{}, now)
	c.OnFrame(now)
	c.CancelOutstanding()
	_, pending := c.Pending()
	assert.False(t, pending)
	assert.Equal(t, SuppressNone, c.Suppression())
}

func TestZoomStepsAndClamping(t *testing.T) {
	var z Zoom
	z.Engage(geom.Point{X: 50, Y: 50})
	assert.Equal(t, zoomInitScale, z.Scale())

	for i := 0; i < 30; i++ {
		z.StepIn()
	}
	assert.Equal(t, zoomMaxScale, z.Scale())

	for i := 0; i < 30; i++ {
		z.StepOut()
	}
	assert.Equal(t, zoomMinScale, z.Scale())

	z.Reset()
	assert.Equal(t, zoomInitScale, z.Scale())
}

func TestZoomLockStopsTracking(t *testing.T) {
	var z Zoom
	z.Engage(geom.Point{X: 10, Y: 10})
	z.ToggleLock()
	z.CenterOn(geom.Point{X: 200, Y: 200})
	assert.Equal(t, geom.Point{X: 10, Y: 10}, z.ViewOffset())

	z.ToggleLock()
	z.CenterOn(geom.Point{X: 200, Y: 200})
	assert.Equal(t, geom.Point{X: 200, Y: 200}, z.ViewOffset())
}

func TestZoomPan(t *testing.T) {
	var z Zoom
	z.Engage(geom.Point{X: 100, Y: 100})
	z.BeginPan(geom.Point{X: 0, Y: 0})
	z.PanTo(geom.Point{X: 20, Y: 0})
	z.EndPan()

	// Dragging right by 20 view pixels shifts the source window left
	// by 20/scale.
	assert.InDelta(t, 100-20/zoomInitScale, z.ViewOffset().X, 1e-9)
	assert.InDelta(t, 100.0, z.ViewOffset().Y, 1e-9)
	assert.False(t, z.Panning())
}

func TestImageValidate(t *testing.T) {
	im := testImage(4, 4)
	assert.NoError(t, im.Validate())

	bad := testImage(4, 4)
	bad.Pixels = bad.Pixels[:8]
	assert.Error(t, bad.Validate())
}
