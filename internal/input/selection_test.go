package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/event/key"

	"github.com/example/wayscriber/internal/canvas"
	"github.com/example/wayscriber/internal/geom"
	"github.com/example/wayscriber/internal/history"
	"github.com/example/wayscriber/internal/shape"
)

// Filled so interior clicks register with the stroke-distance hit test.
func addRect(f *canvas.Frame, x, y, w, h float64) shape.Shape {
	return f.AddShape(shape.Rect{X: x, Y: y, W: w, H: h, Thick: 2, Fill: true})
}

func TestClickSelectsAndReplacesSelection(t *testing.T) {
	s, f := newTestState(t)
	a := addRect(f, 10, 10, 40, 40)
	b := addRect(f, 100, 100, 40, 40)
	s.SetTool(ToolSelect)

	now := time.Now()
	s.PointerPress(f, geom.Pt(30, 30), now)
	s.PointerRelease(f, geom.Pt(30, 30), now)
	assert.Equal(t, []shape.ID{a.ID}, s.Selection())

	s.PointerPress(f, geom.Pt(120, 120), now.Add(time.Second))
	s.PointerRelease(f, geom.Pt(120, 120), now.Add(time.Second))
	assert.Equal(t, []shape.ID{b.ID}, s.Selection())
}

func TestShiftClickTogglesIntoSelection(t *testing.T) {
	s, f := newTestState(t)
	a := addRect(f, 10, 10, 40, 40)
	b := addRect(f, 100, 100, 40, 40)
	s.SetTool(ToolSelect)

	now := time.Now()
	s.PointerPress(f, geom.Pt(30, 30), now)
	s.PointerRelease(f, geom.Pt(30, 30), now)

	s.SetModifiers(key.ModShift)
	s.PointerPress(f, geom.Pt(120, 120), now.Add(time.Second))
	s.PointerRelease(f, geom.Pt(120, 120), now.Add(time.Second))
	assert.ElementsMatch(t, []shape.ID{a.ID, b.ID}, s.Selection())

	// Shift-click again removes it.
	s.PointerPress(f, geom.Pt(120, 120), now.Add(2*time.Second))
	s.PointerRelease(f, geom.Pt(120, 120), now.Add(2*time.Second))
	assert.Equal(t, []shape.ID{a.ID}, s.Selection())
}

func TestDragMovePushesComposite(t *testing.T) {
	s, f := newTestState(t)
	a := addRect(f, 10, 10, 40, 40)
	s.SetTool(ToolSelect)

	now := time.Now()
	s.PointerPress(f, geom.Pt(30, 30), now)
	s.PointerMotion(f, geom.Pt(55, 40))
	s.PointerRelease(f, geom.Pt(55, 40), now)

	sh, _ := f.Shape(a.ID)
	r := sh.Data.(shape.Rect)
	assert.Equal(t, 35.0, r.X)
	assert.Equal(t, 20.0, r.Y)
	require.Equal(t, 1, f.UndoDepth())

	require.True(t, history.Undo(f))
	sh, _ = f.Shape(a.ID)
	r = sh.Data.(shape.Rect)
	assert.Equal(t, 10.0, r.X)
}

func TestPlainClickOnSelectedPushesNothing(t *testing.T) {
	s, f := newTestState(t)
	addRect(f, 10, 10, 40, 40)
	s.SetTool(ToolSelect)

	now := time.Now()
	s.PointerPress(f, geom.Pt(30, 30), now)
	s.PointerRelease(f, geom.Pt(30, 30), now)
	s.PointerPress(f, geom.Pt(31, 30), now.Add(time.Second))
	s.PointerRelease(f, geom.Pt(31, 30), now.Add(time.Second))

	assert.Equal(t, 0, f.UndoDepth())
}

func TestMarqueeContainedVsIntersect(t *testing.T) {
	s, f := newTestState(t)
	inside := addRect(f, 20, 20, 30, 30)
	straddling := addRect(f, 90, 20, 60, 30)
	s.SetTool(ToolSelect)

	now := time.Now()
	// Plain marquee selects fully contained shapes only.
	s.PointerPress(f, geom.Pt(5, 5), now)
	s.PointerMotion(f, geom.Pt(110, 110))
	s.PointerRelease(f, geom.Pt(110, 110), now)
	assert.Equal(t, []shape.ID{inside.ID}, s.Selection())

	// Ctrl marquee includes intersecting shapes.
	s.SetModifiers(key.ModControl)
	s.PointerPress(f, geom.Pt(5, 5), now.Add(time.Second))
	s.PointerMotion(f, geom.Pt(110, 110))
	s.PointerRelease(f, geom.Pt(110, 110), now.Add(time.Second))
	assert.ElementsMatch(t, []shape.ID{inside.ID, straddling.ID}, s.Selection())
}

func TestMarqueeExcludesLocked(t *testing.T) {
	s, f := newTestState(t)
	sh := addRect(f, 20, 20, 30, 30)
	sh.Locked = true
	f.SetShape(sh.ID, sh)
	s.SetTool(ToolSelect)

	now := time.Now()
	s.PointerPress(f, geom.Pt(5, 5), now)
	s.PointerMotion(f, geom.Pt(100, 100))
	s.PointerRelease(f, geom.Pt(100, 100), now)
	assert.Empty(t, s.Selection())
}

func TestNudgeStepsAndClamp(t *testing.T) {
	s, f := newTestState(t)
	sh := addRect(f, 10, 10, 40, 40)
	s.SetTool(ToolSelect)
	s.selection = []shape.ID{sh.ID}

	require.True(t, s.Nudge(f, -1, 0))
	got, _ := f.Shape(sh.ID)
	assert.Equal(t, 9.0, got.Data.(shape.Rect).X)

	s.SetModifiers(key.ModShift)
	require.True(t, s.Nudge(f, -1, 0))
	got, _ = f.Shape(sh.ID)
	// Rect bounds include stroke inflation, so the box stops where its
	// inflated bounds touch the screen edge rather than at x=0.
	b := got.Bounds()
	assert.GreaterOrEqual(t, b.X, 0)
	assert.Less(t, got.Data.(shape.Rect).X, 9.0)

	// Fully clamped nudge is a no-op with no history entry.
	depth := f.UndoDepth()
	assert.False(t, s.Nudge(f, -1, 0))
	assert.Equal(t, depth, f.UndoDepth())
}

func TestMoveToEdges(t *testing.T) {
	s, f := newTestState(t)
	sh := addRect(f, 500, 500, 40, 40)
	s.SetTool(ToolSelect)
	s.selection = []shape.ID{sh.ID}

	require.True(t, s.MoveToEdge(f, EdgeRight))
	got, _ := f.Shape(sh.ID)
	assert.Equal(t, 1920, got.Bounds().MaxX())

	require.True(t, s.MoveToEdge(f, EdgeTop))
	got, _ = f.Shape(sh.ID)
	assert.Equal(t, 0, got.Bounds().Y)
}

func TestCopyPasteAssignsFreshIDsAndOffsets(t *testing.T) {
	s, f := newTestState(t)
	orig := addRect(f, 10, 10, 40, 40)
	s.SetTool(ToolSelect)
	s.selection = []shape.ID{orig.ID}

	require.True(t, s.Copy(f))
	require.True(t, s.Paste(f))

	require.Equal(t, 2, f.Len())
	require.Len(t, s.Selection(), 1)
	pasted, _ := f.Shape(s.Selection()[0])
	assert.NotEqual(t, orig.ID, pasted.ID)
	r := pasted.Data.(shape.Rect)
	assert.Equal(t, 22.0, r.X)
	assert.Equal(t, 22.0, r.Y)

	// Second paste fans out further.
	require.True(t, s.Paste(f))
	second, _ := f.Shape(s.Selection()[0])
	assert.Equal(t, 34.0, second.Data.(shape.Rect).X)

	// Paste is undoable.
	require.True(t, history.Undo(f))
	assert.Equal(t, 2, f.Len())
}

func TestDeleteSkipsLocked(t *testing.T) {
	s, f := newTestState(t)
	locked := addRect(f, 10, 10, 40, 40)
	locked.Locked = true
	f.SetShape(locked.ID, locked)
	free := addRect(f, 100, 100, 40, 40)
	s.SetTool(ToolSelect)
	s.selection = []shape.ID{locked.ID, free.ID}

	require.True(t, s.DeleteSelection(f))
	_, ok := f.Shape(locked.ID)
	assert.True(t, ok)
	_, ok = f.Shape(free.ID)
	assert.False(t, ok)
}

func TestDeleteAllLockedIsNoop(t *testing.T) {
	s, f := newTestState(t)
	locked := addRect(f, 10, 10, 40, 40)
	locked.Locked = true
	f.SetShape(locked.ID, locked)
	s.SetTool(ToolSelect)
	s.selection = []shape.ID{locked.ID}

	assert.False(t, s.DeleteSelection(f))
	assert.Equal(t, 0, f.UndoDepth())
}

func TestDoubleClickEntersTextEdit(t *testing.T) {
	s, f := newTestState(t)
	f.AddShape(shape.Text{X: 10, Y: 10, Text: "note", Size: 18})
	s.SetTool(ToolSelect)

	now := time.Now()
	s.PointerPress(f, geom.Pt(14, 14), now)
	s.PointerRelease(f, geom.Pt(14, 14), now)
	s.Cancel(f)
	s.PointerPress(f, geom.Pt(14, 14), now.Add(150*time.Millisecond))

	require.True(t, s.TextInputActive())
	buf, cursor, ok := s.TextBuffer()
	require.True(t, ok)
	assert.Equal(t, "note", buf)
	assert.Equal(t, 4, cursor)
}

func TestEscapeCancelsDragMove(t *testing.T) {
	s, f := newTestState(t)
	sh := addRect(f, 10, 10, 40, 40)
	s.SetTool(ToolSelect)

	now := time.Now()
	s.PointerPress(f, geom.Pt(30, 30), now)
	s.PointerMotion(f, geom.Pt(300, 300))
	s.Cancel(f)

	got, _ := f.Shape(sh.ID)
	assert.Equal(t, 10.0, got.Data.(shape.Rect).X)
	assert.Equal(t, 0, f.UndoDepth())
}

func TestClearCanvas(t *testing.T) {
	s, f := newTestState(t)
	addRect(f, 10, 10, 40, 40)
	locked := addRect(f, 100, 100, 40, 40)
	locked.Locked = true
	f.SetShape(locked.ID, locked)

	require.True(t, s.ClearCanvas(f))
	assert.Equal(t, 1, f.Len())
	require.Equal(t, 1, f.UndoDepth())

	require.True(t, history.Undo(f))
	assert.Equal(t, 2, f.Len())
}

func TestZOrderRoundTrip(t *testing.T) {
	s, f := newTestState(t)
	a := addRect(f, 10, 10, 40, 40)
	addRect(f, 20, 20, 40, 40)
	s.selection = []shape.ID{a.ID}

	require.True(t, s.BringToFront(f))
	assert.Equal(t, a.ID, f.Shapes()[1].ID)

	require.True(t, history.Undo(f))
	assert.Equal(t, a.ID, f.Shapes()[0].ID)
}

func TestPresetApplyAndSave(t *testing.T) {
	s, _ := newTestState(t)

	require.True(t, s.SavePreset(0))
	a, ok := s.TakePending()
	require.True(t, ok)
	assert.Equal(t, PendingPreset, a.Kind)
	assert.Equal(t, PresetSave, a.PresetOp)
	assert.Equal(t, 0, a.PresetSlot)

	s.SetTool(ToolRect)
	s.Style.Thickness = 9

	name, ok := s.ApplyPreset(0)
	require.True(t, ok)
	assert.Equal(t, "preset 1", name)
	assert.Equal(t, ToolPen, s.Tool)
	assert.Equal(t, 3.0, s.Style.Thickness)

	require.True(t, s.ClearPreset(0))
	_, ok = s.ApplyPreset(0)
	assert.False(t, ok)
}

func TestLockedShapeResistsMoveAndNudge(t *testing.T) {
	s, f := newTestState(t)
	locked := addRect(f, 10, 10, 40, 40)
	locked.Locked = true
	f.SetShape(locked.ID, locked)
	s.SetTool(ToolSelect)
	s.selection = []shape.ID{locked.ID}

	now := time.Now()
	s.PointerPress(f, geom.Pt(30, 30), now)
	s.PointerMotion(f, geom.Pt(130, 30))
	s.PointerRelease(f, geom.Pt(130, 30), now)

	got, _ := f.Shape(locked.ID)
	assert.Equal(t, 10.0, got.Data.(shape.Rect).X)
	assert.Equal(t, 0, f.UndoDepth())

	assert.False(t, s.Nudge(f, 1, 0))
	assert.False(t, s.MoveToEdge(f, EdgeRight))
	got, _ = f.Shape(locked.ID)
	assert.Equal(t, 10.0, got.Data.(shape.Rect).X)
	assert.Equal(t, 0, f.UndoDepth())
}

func TestMixedSelectionMovesOnlyUnlocked(t *testing.T) {
	s, f := newTestState(t)
	locked := addRect(f, 10, 10, 40, 40)
	locked.Locked = true
	f.SetShape(locked.ID, locked)
	free := addRect(f, 100, 10, 40, 40)
	s.SetTool(ToolSelect)
	s.selection = []shape.ID{locked.ID, free.ID}

	require.True(t, s.Nudge(f, 0, 1))

	got, _ := f.Shape(locked.ID)
	assert.Equal(t, 10.0, got.Data.(shape.Rect).Y)
	got, _ = f.Shape(free.ID)
	assert.Equal(t, 11.0, got.Data.(shape.Rect).Y)
	assert.Equal(t, 1, f.UndoDepth())
}

func TestLockedTextRefusesEditAndResize(t *testing.T) {
	s, f := newTestState(t)
	sh := f.AddShape(shape.Text{X: 10, Y: 10, Text: "fixed", Size: 18})
	got, _ := f.Shape(sh.ID)
	got.Locked = true
	f.SetShape(sh.ID, got)
	s.SetTool(ToolSelect)

	now := time.Now()
	s.PointerPress(f, geom.Pt(14, 14), now)
	s.PointerRelease(f, geom.Pt(14, 14), now)
	s.PointerPress(f, geom.Pt(14, 14), now.Add(150*time.Millisecond))
	assert.False(t, s.TextInputActive(), "double-click must not open a locked text for editing")
	s.PointerRelease(f, geom.Pt(14, 14), now.Add(150*time.Millisecond))

	_, ok := s.resizeHandleHit(f, geom.Pt(14, 14))
	assert.False(t, ok, "locked text exposes no wrap handle")

	s.SetTool(ToolText)
	s.PointerPress(f, geom.Pt(14, 14), now.Add(time.Second))
	assert.False(t, s.TextInputActive())
}

func TestResizeWithoutMotionPushesNothing(t *testing.T) {
	s, f := newTestState(t)
	sh := f.AddShape(shape.Text{X: 10, Y: 10, Text: "wrap me", Size: 18, WrapWidth: 200})
	s.SetTool(ToolSelect)
	s.selection = []shape.ID{sh.ID}

	got, _ := f.Shape(sh.ID)
	b := got.Bounds()
	handle := geom.Pt(float64(b.MaxX()), float64(b.Y)+float64(b.H)/2)

	now := time.Now()
	s.PointerPress(f, handle, now)
	assert.False(t, s.PointerRelease(f, handle, now))
	assert.Equal(t, 0, f.UndoDepth())
}
