package capture

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/example/wayscriber/internal/geom"
	"github.com/example/wayscriber/internal/logger"
)

// Suppression names the single active overlay-suppression state. While
// suppressed the overlay surface is click-through and the renderer
// skips the UI layer (Capture) or canvas drawing (Frozen/Zoom when not
// composed).
type Suppression int

const (
	SuppressNone Suppression = iota
	SuppressCapture
	SuppressFrozen
	SuppressZoom
)

// FrozenPhase tracks the freeze feature's lifecycle.
type FrozenPhase int

const (
	FrozenIdle FrozenPhase = iota
	// FrozenPreflight waits one compositor frame so the suppressed
	// (click-through, UI-less) surface is on screen before screencopy.
	FrozenPreflight
	FrozenCapturePending
	FrozenActive
)

// RequestKind distinguishes the two screencopy consumers.
type RequestKind int

const (
	RequestFreeze RequestKind = iota
	RequestZoom
)

// RequestState is the per-capture screencopy lifecycle.
type RequestState int

const (
	ReqIdle RequestState = iota
	ReqRequested
	ReqInFlight
	ReqReady
	ReqConsumed
)

// Request is an outstanding screencopy acquisition. The id guards
// against late results: a result whose id no longer matches is
// silently discarded.
type Request struct {
	ID       uuid.UUID
	Kind     RequestKind
	State    RequestState
	Attempts int
	IssuedAt time.Time
}

// Result is the transport's answer to a screencopy request.
type Result struct {
	Image *Image
	Err   error
}

// Event tells the engine what a coordinator transition needs from the
// outside world.
type Event int

const (
	EventNone Event = iota
	// EventRedraw asks for a render pass.
	EventRedraw
	// EventNotifyFailure asks for a user-visible capture failure
	// notification.
	EventNotifyFailure
)

// maxAttempts bounds screencopy retries before the capture is
// abandoned and the overlay restored.
const maxAttempts = 3

// Coordinator owns freeze and zoom state. Freeze and zoom never have
// simultaneous in-flight captures.
type Coordinator struct {
	frozenPhase FrozenPhase
	frozenImage *Image

	zoom Zoom

	suppression Suppression
	pending     *Request
}

// NewCoordinator returns an idle coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Suppression returns the active suppression state.
func (c *Coordinator) Suppression() Suppression { return c.suppression }

// FrozenPhase returns the freeze lifecycle phase.
func (c *Coordinator) FrozenPhase() FrozenPhase { return c.frozenPhase }

// FrozenImage returns the captured freeze background while Active.
func (c *Coordinator) FrozenImage() *Image {
	if c.frozenPhase != FrozenActive {
		return nil
	}
	return c.frozenImage
}

// Zoom returns the zoom state for inspection and mutation.
func (c *Coordinator) Zoom() *Zoom { return &c.zoom }

// Pending returns the outstanding request, if any.
func (c *Coordinator) Pending() (*Request, bool) {
	if c.pending == nil {
		return nil, false
	}
	return c.pending, true
}

// inFlight reports whether any screencopy is unresolved.
func (c *Coordinator) inFlight() bool {
	return c.pending != nil && c.pending.State != ReqConsumed
}

// ToggleFreeze starts or clears the freeze flow. Freezing only applies
// over a transparent board; on a solid board it is a no-op returning
// EventNone.
func (c *Coordinator) ToggleFreeze(transparentBoard bool, now time.Time) Event {
	if c.frozenPhase == FrozenActive {
		c.frozenPhase = FrozenIdle
		c.frozenImage = nil
		if c.suppression == SuppressFrozen {
			c.suppression = SuppressNone
		}
		return EventRedraw
	}
	if !transparentBoard || c.frozenPhase != FrozenIdle {
		return EventNone
	}
	if c.inFlight() {
		logger.WithComponent("capture").Warn().Msg("freeze request ignored: capture already in flight")
		return EventNone
	}
	c.frozenPhase = FrozenPreflight
	c.suppression = SuppressCapture
	c.pending = &Request{ID: uuid.New(), Kind: RequestFreeze, State: ReqRequested, IssuedAt: now}
	return EventRedraw
}

// OnFrame is called once per compositor frame. It advances a preflight
// into an issued screencopy, returning the request the transport must
// service, or nil.
func (c *Coordinator) OnFrame(now time.Time) *Request {
	if c.pending == nil || c.pending.State != ReqRequested {
		return nil
	}
	if c.pending.Kind == RequestFreeze {
		c.frozenPhase = FrozenCapturePending
	}
	c.pending.State = ReqInFlight
	c.pending.Attempts++
	c.pending.IssuedAt = now
	return c.pending
}

// HandleResult consumes a screencopy result. Late or mismatched ids
// are discarded silently.
func (c *Coordinator) HandleResult(id uuid.UUID, res Result) Event {
	if c.pending == nil || c.pending.ID != id {
		logger.WithComponent("capture").Debug().Str("request", id.String()).Msg("discarding stale capture result")
		return EventNone
	}
	req := c.pending
	if res.Err != nil {
		return c.handleFailure(req, res.Err)
	}
	if res.Image == nil {
		return c.handleFailure(req, errors.New("capture result carried no image"))
	}
	if err := res.Image.Validate(); err != nil {
		return c.handleFailure(req, err)
	}
	req.State = ReqConsumed
	c.pending = nil
	switch req.Kind {
	case RequestFreeze:
		c.frozenImage = res.Image
		c.frozenPhase = FrozenActive
		c.suppression = SuppressFrozen
	case RequestZoom:
		c.zoom.image = res.Image
		if c.zoom.Engaged() {
			c.suppression = SuppressZoom
		} else if c.suppression == SuppressCapture {
			c.suppression = SuppressNone
		}
	}
	return EventRedraw
}

func (c *Coordinator) handleFailure(req *Request, cause error) Event {
	log := logger.WithComponent("capture")
	if req.Attempts < maxAttempts {
		log.Warn().Err(cause).Int("attempt", req.Attempts).Msg("screencopy failed, retrying")
		req.State = ReqRequested
		return EventRedraw
	}
	log.Error().Err(cause).Int("attempts", req.Attempts).Msg("screencopy abandoned")
	c.pending = nil
	c.suppression = SuppressNone
	switch req.Kind {
	case RequestFreeze:
		c.frozenPhase = FrozenIdle
		c.frozenImage = nil
	case RequestZoom:
		c.zoom.Disengage()
	}
	return EventNotifyFailure
}

// EngageZoom starts the zoom feature. Over a transparent board it needs
// a screencopy of the live desktop; in board mode it transforms the
// solid background directly. A zoom request while another capture is in
// flight is ignored per the serialization invariant.
func (c *Coordinator) EngageZoom(transparentBoard bool, center geom.Point, now time.Time) Event {
	if c.zoom.Engaged() {
		return EventNone
	}
	if transparentBoard && c.frozenPhase != FrozenActive {
		if c.inFlight() {
			logger.WithComponent("capture").Warn().Msg("zoom request ignored: capture already in flight")
			return EventNone
		}
		c.suppression = SuppressCapture
		c.pending = &Request{ID: uuid.New(), Kind: RequestZoom, State: ReqRequested, IssuedAt: now}
	} else {
		c.suppression = SuppressZoom
	}
	c.zoom.Engage(center)
	return EventRedraw
}

// DisengageZoom resets zoom and clears its suppression.
func (c *Coordinator) DisengageZoom() Event {
	if !c.zoom.Engaged() {
		return EventNone
	}
	c.zoom.Disengage()
	if c.suppression == SuppressZoom {
		if c.frozenPhase == FrozenActive {
			c.suppression = SuppressFrozen
		} else {
			c.suppression = SuppressNone
		}
	}
	return EventRedraw
}

// RefreshZoomCapture re-acquires the zoom backdrop, keeping the
// current transform.
func (c *Coordinator) RefreshZoomCapture(transparentBoard bool, now time.Time) Event {
	if !c.zoom.Engaged() || !transparentBoard {
		return EventNone
	}
	if c.inFlight() {
		logger.WithComponent("capture").Warn().Msg("zoom refresh ignored: capture already in flight")
		return EventNone
	}
	c.pending = &Request{ID: uuid.New(), Kind: RequestZoom, State: ReqRequested, IssuedAt: now}
	return EventRedraw
}

// CancelOutstanding drops any unresolved request, used on overlay
// teardown. Late results will no longer match an id.
func (c *Coordinator) CancelOutstanding() {
	if c.pending != nil {
		logger.WithComponent("capture").Debug().Str("request", c.pending.ID.String()).Msg("cancelling outstanding capture")
		c.pending = nil
	}
	if c.suppression == SuppressCapture {
		c.suppression = SuppressNone
	}
}
