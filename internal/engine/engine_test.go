package engine

import (
	"image"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/wayscriber/internal/config"
	"github.com/example/wayscriber/internal/export"
	"github.com/example/wayscriber/internal/input"
	"github.com/example/wayscriber/internal/shape"
)

func newTestEngine(t *testing.T, mutate func(*config.Config)) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Session.AutosaveEnabled = false
	if mutate != nil {
		mutate(cfg)
	}
	e, err := New(cfg, "", Hooks{})
	require.NoError(t, err)
	e.store.Dir = t.TempDir()
	e.Dispatch(ConfigureEvent{Width: 1920, Height: 1080, Scale: 1}, time.Now())
	return e
}

func press(name string, mods key.Modifiers) KeyEvent {
	return KeyEvent{Name: name, Mods: mods, Dir: key.DirPress}
}

func drawStroke(e *Engine, x0, y0, x1, y1 float64, now time.Time) {
	e.Dispatch(PointerEvent{X: x0, Y: y0, Button: mouse.ButtonLeft, Dir: mouse.DirPress}, now)
	e.Dispatch(PointerEvent{X: (x0 + x1) / 2, Y: (y0 + y1) / 2, Dir: mouse.DirNone}, now)
	e.Dispatch(PointerEvent{X: x1, Y: y1, Button: mouse.ButtonLeft, Dir: mouse.DirRelease}, now)
}

func waitEvent(t *testing.T, e *Engine) Event {
	t.Helper()
	select {
	case ev := <-e.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no completion event arrived")
		return nil
	}
}

func TestKeyBindingSelectsTool(t *testing.T) {
	e := newTestEngine(t, nil)
	now := time.Now()

	e.Dispatch(press("m", 0), now)
	require.Equal(t, input.ToolMarker, e.input.Tool)

	e.Dispatch(press("s", 0), now)
	require.Equal(t, input.ToolSelect, e.input.Tool)
}

func TestDrawUndoRedo(t *testing.T) {
	e := newTestEngine(t, nil)
	now := time.Now()

	drawStroke(e, 100, 100, 220, 180, now)
	require.Equal(t, 1, e.frame().Len())

	e.Dispatch(press("z", key.ModControl), now)
	require.Equal(t, 0, e.frame().Len())

	e.Dispatch(press("z", key.ModControl|key.ModShift), now)
	require.Equal(t, 1, e.frame().Len())
}

func TestHelpOverlayToggleAndEscape(t *testing.T) {
	e := newTestEngine(t, nil)
	now := time.Now()

	e.Dispatch(press("f1", 0), now)
	require.True(t, e.help.IsOpen())

	e.Dispatch(press("escape", 0), now)
	require.False(t, e.help.IsOpen())

	e.Dispatch(press("f1", 0), now)
	e.Dispatch(press("f1", 0), now)
	require.False(t, e.help.IsOpen())
}

func TestEscapeCancelsActiveGesture(t *testing.T) {
	e := newTestEngine(t, nil)
	now := time.Now()

	e.Dispatch(PointerEvent{X: 50, Y: 50, Button: mouse.ButtonLeft, Dir: mouse.DirPress}, now)
	e.Dispatch(PointerEvent{X: 150, Y: 150, Dir: mouse.DirNone}, now)
	require.True(t, e.input.GestureActive())

	e.Dispatch(press("escape", 0), now)
	require.False(t, e.input.GestureActive())
	require.Equal(t, 0, e.frame().Len())
}

func TestDigitAppliesPreset(t *testing.T) {
	e := newTestEngine(t, func(cfg *config.Config) {
		cfg.Presets.Slots = []config.PresetSlot{
			{Name: "green marker", Tool: "marker", Color: "#00FF00", Size: 7},
		}
	})
	now := time.Now()

	e.Dispatch(press("1", 0), now)
	require.Equal(t, input.ToolMarker, e.input.Tool)
	require.Equal(t, "#00FF00", e.input.Style.Color.Hex())
	require.Equal(t, 7.0, e.input.Style.Thickness)

	flash, active := e.presetFlash.Active(now)
	require.True(t, active)
	require.Equal(t, 1, flash.Slot)
	require.Equal(t, "green marker", flash.Name)
}

func TestEmptyPresetSlotIgnored(t *testing.T) {
	e := newTestEngine(t, nil)
	now := time.Now()

	e.Dispatch(press("2", 0), now)
	require.Equal(t, input.ToolPen, e.input.Tool)
	_, active := e.presetFlash.Active(now)
	require.False(t, active)
}

func TestCaptureExportSavesFile(t *testing.T) {
	cfg := config.Default()
	cfg.Session.AutosaveEnabled = false
	e, err := New(cfg, "", Hooks{
		ComposeCapture: func(input.CaptureTarget) (*image.RGBA, error) {
			return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
		},
	})
	require.NoError(t, err)
	e.exporter = export.New(t.TempDir(), nil)
	now := time.Now()
	e.Dispatch(ConfigureEvent{Width: 800, Height: 600}, now)

	e.Dispatch(press("f10", 0), now)
	e.Tick(now)

	res, ok := waitEvent(t, e).(exportResultEvent)
	require.True(t, ok)
	require.NoError(t, res.err)
	_, err = os.Stat(res.path)
	require.NoError(t, err)
}

func TestAutosaveWritesSnapshot(t *testing.T) {
	e := newTestEngine(t, func(cfg *config.Config) {
		cfg.Session.AutosaveEnabled = true
		cfg.Session.AutosaveIdleMs = 10
	})
	now := time.Now()

	drawStroke(e, 100, 100, 220, 180, now)
	require.True(t, e.autosave.Dirty())

	e.Tick(now.Add(time.Second))

	res, ok := waitEvent(t, e).(saveResultEvent)
	require.True(t, ok)
	require.NoError(t, res.err)
	e.Dispatch(res, now.Add(time.Second))

	require.False(t, e.autosave.Dirty())
	_, err := os.Stat(e.store.Path("default"))
	require.NoError(t, err)
}

func TestFrameCapDefersRedraw(t *testing.T) {
	renders := 0
	cfg := config.Default()
	cfg.Session.AutosaveEnabled = false
	cfg.Performance.EnableVsync = false
	cfg.Performance.MaxFPSNoVsync = 60
	e, err := New(cfg, "", Hooks{Render: func(FrameHints) { renders++ }})
	require.NoError(t, err)
	now := time.Now()
	e.Dispatch(ConfigureEvent{Width: 800, Height: 600}, now)

	e.Tick(now)
	require.Equal(t, 1, renders)

	e.input.MarkDirtyFull()
	e.Tick(now.Add(2 * time.Millisecond))
	require.Equal(t, 1, renders)

	e.Tick(now.Add(40 * time.Millisecond))
	require.Equal(t, 2, renders)
}

func TestStatusLineContents(t *testing.T) {
	e := newTestEngine(t, nil)

	require.Equal(t, "pen  #FF0000  3px  Board 1 1/1", e.statusLine())

	e.input.TogglePresenter()
	require.Empty(t, e.statusLine())
}

func TestQuitActionStopsLoop(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Dispatch(press("q", 0), time.Now())
	require.True(t, e.quit)
}

func TestUndoDuringTextEditCommitsTyping(t *testing.T) {
	e := newTestEngine(t, nil)
	now := time.Now()

	drawStroke(e, 100, 100, 220, 180, now)
	require.Equal(t, 1, e.frame().Len())

	e.Dispatch(press("t", 0), now)
	e.Dispatch(PointerEvent{X: 400, Y: 400, Button: mouse.ButtonLeft, Dir: mouse.DirPress}, now)
	e.Dispatch(PointerEvent{X: 400, Y: 400, Button: mouse.ButtonLeft, Dir: mouse.DirRelease}, now)
	require.True(t, e.input.TextInputActive())
	for _, r := range "note" {
		e.Dispatch(KeyEvent{Name: string(r), Rune: r, Dir: key.DirPress}, now)
	}

	// Undo first lands the typed text as a history entry, then reverts
	// it; the typing survives on the redo stack instead of vanishing.
	e.Dispatch(press("z", key.ModControl), now)
	require.False(t, e.input.TextInputActive())
	require.Equal(t, 1, e.frame().Len())

	e.Dispatch(press("z", key.ModControl|key.ModShift), now)
	require.Equal(t, 2, e.frame().Len())
	var texts []shape.Text
	for _, sh := range e.frame().Shapes() {
		if txt, ok := sh.Data.(shape.Text); ok {
			texts = append(texts, txt)
		}
	}
	require.Len(t, texts, 1)
	require.Equal(t, "note", texts[0].Text)
}

func TestIdleClickKeepsSessionClean(t *testing.T) {
	e := newTestEngine(t, nil)
	now := time.Now()

	e.Dispatch(press("s", 0), now)
	e.Dispatch(PointerEvent{X: 500, Y: 500, Button: mouse.ButtonLeft, Dir: mouse.DirPress}, now)
	e.Dispatch(PointerEvent{X: 500, Y: 500, Button: mouse.ButtonLeft, Dir: mouse.DirRelease}, now)
	require.False(t, e.autosave.Dirty(), "a click that changes nothing must not schedule a save")

	e.Dispatch(press("p", 0), now)
	drawStroke(e, 100, 100, 220, 180, now)
	require.True(t, e.autosave.Dirty())
}
