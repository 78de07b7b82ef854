package engine

import (
	"context"
	"errors"
	"time"

	"github.com/example/wayscriber/internal/canvas"
	"github.com/example/wayscriber/internal/capture"
	"github.com/example/wayscriber/internal/session"
)

// autosaveFailureThreshold is how many consecutive failed saves it
// takes before the user is notified; the notification fires once per
// failure episode.
const autosaveFailureThreshold = 3

// defaultAnimationFPS paces animation frames when the config does not
// set one.
const defaultAnimationFPS = 60

// Run drives the event loop until a QuitEvent arrives or ctx is
// cancelled. It must be the only goroutine touching the engine's
// state.
func (e *Engine) Run(ctx context.Context) error {
	for !e.quit {
		now := time.Now()
		var timerC <-chan time.Time
		var timer *time.Timer
		if deadline, ok := e.nextDeadline(now); ok {
			wait := deadline.Sub(now)
			if wait < 0 {
				wait = 0
			}
			timer = time.NewTimer(wait)
			timerC = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			e.shutdown(time.Now())
			return ctx.Err()
		case ev := <-e.events:
			stopTimer(timer)
			e.Dispatch(ev, time.Now())
			e.drainQueued()
		case <-timerC:
		}
		e.Tick(time.Now())
	}
	e.shutdown(time.Now())
	return nil
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

// drainQueued applies every already-queued event before the tick so
// rendering observes the state after all mutations.
func (e *Engine) drainQueued() {
	for {
		select {
		case ev := <-e.events:
			e.Dispatch(ev, time.Now())
		default:
			return
		}
	}
}

// Dispatch applies one event to the model.
func (e *Engine) Dispatch(ev Event, now time.Time) {
	switch ev := ev.(type) {
	case KeyEvent:
		e.handleKey(ev, now)
	case PointerEvent:
		e.handlePointer(ev, now)
	case StylusEvent:
		e.handleStylus(ev, now)
	case ConfigureEvent:
		e.width = ev.Width
		e.height = ev.Height
		e.input.Resize(ev.Width, ev.Height)
		e.input.MarkDirtyFull()
	case OutputEvent:
		if ev.Entered {
			e.identity = ev.Identity
			e.loadSession(now)
		}
	case FrameEvent:
		if req := e.coord.OnFrame(now); req != nil && e.hooks.RequestCapture != nil {
			e.hooks.RequestCapture(req.ID, req.Kind)
		}
	case CaptureResultEvent:
		e.applyCaptureEvent(e.coord.HandleResult(ev.ID, ev.Result))
	case saveResultEvent:
		e.finishAutosave(ev, now)
	case exportResultEvent:
		if ev.err != nil {
			e.toasts.Push("Screenshot failed", 0, now)
		} else if ev.path != "" {
			e.toasts.Push("Saved "+ev.path, 0, now)
		} else {
			e.toasts.Push("Copied to clipboard", 0, now)
		}
		e.input.MarkDirtyFull()
	case ConfigReloadEvent:
		e.ApplyConfig(ev.Config)
	case QuitEvent:
		e.quit = true
		e.coord.CancelOutstanding()
	}
}

// applyCaptureEvent reacts to a coordinator state change.
func (e *Engine) applyCaptureEvent(ev capture.Event) {
	switch ev {
	case capture.EventRedraw:
		e.input.MarkDirtyFull()
	case capture.EventNotifyFailure:
		e.notifier.CaptureFailed("screencopy did not complete")
		e.toasts.Push("Screen capture failed", 0, time.Now())
		e.input.MarkDirtyFull()
	}
}

// Tick runs one loop iteration after events have been drained: staged
// actions, schedulers, then at most one render.
func (e *Engine) Tick(now time.Time) {
	e.drainPending(now)

	if e.replay.Active() && e.replay.Tick(e.frame(), now) {
		e.input.MarkDirtyFull()
		e.markSessionDirty(now)
	}

	if e.cfg.Session.AutosaveEnabled && !e.saving && e.autosave.Due(now, autosaveOptions(e.cfg)) {
		e.startAutosave(now)
	}

	e.syncClickThrough()
	e.maybeRender(now)
}

// frame is the frame all canvas operations target.
func (e *Engine) frame() *canvas.Frame { return e.boards.ActiveFrame() }

// syncClickThrough keeps the surface input region aligned with the
// capture suppression window: the overlay gets out of the way while a
// screencopy is in flight, but stays interactive over frozen and
// zoomed backdrops.
func (e *Engine) syncClickThrough() {
	want := e.coord.Suppression() == capture.SuppressCapture
	if want == e.clickThrough {
		return
	}
	e.clickThrough = want
	if e.hooks.SetClickThrough != nil {
		e.hooks.SetClickThrough(want)
	}
}

// maybeRender issues one render when the model is dirty and frame
// pacing allows it.
func (e *Engine) maybeRender(now time.Time) {
	if !e.input.NeedsRedraw() {
		return
	}
	if min := e.minRenderInterval(); min > 0 && now.Sub(e.lastRender) < min {
		return
	}
	full, rects := e.input.ConsumeDirty()
	e.lastRender = now
	if e.hooks.Render == nil {
		return
	}
	e.hooks.Render(FrameHints{
		Full:          full,
		Rects:         rects,
		KeepRendering: e.animationActive(now),
		Suppression:   e.coord.Suppression(),
		Status:        e.statusLine(),
	})
}

// minRenderInterval is zero under vsync; otherwise the frame cap.
func (e *Engine) minRenderInterval() time.Duration {
	if e.cfg.Performance.EnableVsync {
		return 0
	}
	fps := e.cfg.Performance.MaxFPSNoVsync
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}

// animationActive reports whether any finite timeline still needs
// frames.
func (e *Engine) animationActive(now time.Time) bool {
	if _, active := e.input.ActiveHighlights(now); active {
		return true
	}
	if e.toasts.KeepRendering(now) {
		return true
	}
	if _, active := e.presetFlash.Active(now); active {
		return true
	}
	return false
}

// nextDeadline bounds the event wait: next autosave tick, next delayed
// history step, next animation frame, or the frame-cap release for a
// deferred redraw.
func (e *Engine) nextDeadline(now time.Time) (time.Time, bool) {
	var deadline time.Time
	consider := func(t time.Time) {
		if deadline.IsZero() || t.Before(deadline) {
			deadline = t
		}
	}
	if e.cfg.Session.AutosaveEnabled && !e.saving {
		if t, ok := e.autosave.NextDeadline(autosaveOptions(e.cfg)); ok {
			consider(t)
		}
	}
	if t, ok := e.replay.NextDeadline(); ok {
		consider(t)
	}
	if e.animationActive(now) {
		fps := e.cfg.Performance.UIAnimationFPS
		if fps <= 0 {
			fps = defaultAnimationFPS
		}
		consider(now.Add(time.Second / time.Duration(fps)))
	}
	if e.input.NeedsRedraw() {
		if min := e.minRenderInterval(); min > 0 {
			consider(e.lastRender.Add(min))
		} else {
			consider(now)
		}
	}
	if deadline.IsZero() {
		return time.Time{}, false
	}
	return deadline, true
}

// markSessionDirty records a canvas mutation for the autosave
// scheduler.
func (e *Engine) markSessionDirty(now time.Time) {
	e.autosave.RecordDirty(now)
}

// settleGesture quiesces the frame before a history action runs: a
// live text edit is committed so its typing survives, any other
// gesture is cancelled.
func (e *Engine) settleGesture(f *canvas.Frame, now time.Time) {
	switch {
	case e.input.TextInputActive():
		depth := f.UndoDepth()
		e.input.CommitText(f)
		if f.UndoDepth() != depth {
			e.markSessionDirty(now)
		}
	case e.input.GestureActive():
		e.input.Cancel(f)
	}
}

// sessionIdentity keys the snapshot file: the output identity when
// per-output persistence is on, a shared stem otherwise.
func (e *Engine) sessionIdentity() string {
	if e.cfg.Session.PerOutput && e.identity != "" {
		return e.identity
	}
	return "default"
}

// loadSession restores the snapshot for the current output once.
func (e *Engine) loadSession(now time.Time) {
	identity := e.sessionIdentity()
	if e.loaded[identity] {
		return
	}
	e.loaded[identity] = true
	snap, err := e.store.Load(identity)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrTooLarge):
			e.log.Warn().Err(err).Msg("session snapshot refused")
		case errors.Is(err, session.ErrCorrupt):
			e.log.Error().Err(err).Msg("session snapshot corrupt, starting empty")
		default:
			e.log.Error().Err(err).Msg("session load failed")
		}
		return
	}
	if snap == nil {
		return
	}
	tool, err := session.Apply(snap, e.boards, encodeOptions(e.cfg))
	if err != nil {
		e.log.Error().Err(err).Msg("session snapshot rejected")
		return
	}
	if tool != nil && e.cfg.Session.RestoreToolState {
		e.restoreToolState(tool)
	}
	e.input.MarkDirtyFull()
	e.log.Info().Str("identity", identity).Int("boards", len(snap.Boards)).Msg("session restored")
}

func (e *Engine) restoreToolState(t *session.ToolState) {
	st := &e.input.Style
	st.Color = t.Color
	st.Thickness = t.Thickness
	st.EraserKind = t.EraserKind
	st.EraserMode = t.EraserMode
	st.EraserSize = t.EraserSize
	st.MarkerOpacity = t.MarkerOpacity
	st.Font = t.Font
	st.FontSize = t.FontSize
	st.TextBackground = t.TextBackground
	st.FillEnabled = t.FillEnabled
}

// startAutosave encodes on the loop and writes on a background
// goroutine; the completion comes back as a saveResultEvent.
func (e *Engine) startAutosave(now time.Time) {
	snap, err := session.BuildSnapshot(e.boards, e.toolState(), encodeOptions(e.cfg), now)
	if err != nil {
		e.log.Error().Err(err).Msg("snapshot build failed")
		e.autosave.MarkFailed(now, autosaveOptions(e.cfg))
		return
	}
	encoded, err := session.Encode(snap, session.Compression(e.cfg.Session.Compress), e.cfg.Session.AutoCompressThresholdKB*1024)
	if err != nil {
		e.log.Error().Err(err).Msg("snapshot encode failed")
		e.autosave.MarkFailed(now, autosaveOptions(e.cfg))
		return
	}
	identity := e.sessionIdentity()
	e.saving = true
	go func() {
		err := e.store.Save(identity, encoded)
		e.Post(saveResultEvent{identity: identity, err: err})
	}()
}

// finishAutosave applies a background save result.
func (e *Engine) finishAutosave(ev saveResultEvent, now time.Time) {
	e.saving = false
	if ev.err == nil {
		e.autosave.MarkSaved(now)
		e.autosaveNotified = false
		return
	}
	failures := e.autosave.MarkFailed(now, autosaveOptions(e.cfg))
	e.log.Error().Err(ev.err).Int("failures", failures).Str("identity", ev.identity).Msg("autosave failed")
	if failures >= autosaveFailureThreshold && !e.autosaveNotified {
		e.autosaveNotified = true
		e.notifier.AutosaveFailed(ev.err.Error())
		e.toasts.Push("Autosave is failing", 0, now)
	}
}

// shutdown flushes a final save for dirty sessions before the loop
// exits.
func (e *Engine) shutdown(now time.Time) {
	e.coord.CancelOutstanding()
	if e.cfg.Session.AutosaveEnabled && e.autosave.Dirty() {
		snap, err := session.BuildSnapshot(e.boards, e.toolState(), encodeOptions(e.cfg), now)
		if err == nil {
			if encoded, err := session.Encode(snap, session.Compression(e.cfg.Session.Compress), e.cfg.Session.AutoCompressThresholdKB*1024); err == nil {
				if err := e.store.Save(e.sessionIdentity(), encoded); err != nil {
					e.log.Error().Err(err).Msg("final save failed")
				}
			}
		}
	}
	if e.hooks.Quit != nil {
		e.hooks.Quit()
	}
}
