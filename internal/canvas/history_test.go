package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wayscriber/internal/shape"
)

func frameWithRects(t *testing.T, n int) *Frame {
	t.Helper()
	f := NewFrame(&IDSource{})
	for i := 0; i < n; i++ {
		f.AddShape(shape.Rect{X: float64(10 * i), Y: 10, W: 20, H: 20, Thick: 2})
	}
	return f
}

func frameIDs(f *Frame) []shape.ID {
	ids := make([]shape.ID, 0, f.Len())
	for _, s := range f.Shapes() {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestCreateInverseRoundTrip(t *testing.T) {
	f := frameWithRects(t, 1)
	sh := f.AddShape(shape.Rect{X: 100, Y: 100, W: 20, H: 20})
	a := Create{Positions: []Placement{{Index: 1, Shape: sh.Clone()}}}

	require.NoError(t, a.Invert().Apply(f))
	assert.Equal(t, 1, f.Len())
	_, ok := f.Shape(sh.ID)
	assert.False(t, ok)

	require.NoError(t, a.Apply(f))
	assert.Equal(t, 2, f.Len())
	got, ok := f.Shape(sh.ID)
	require.True(t, ok)
	assert.Equal(t, sh.Data, got.Data)
}

func TestDeleteReplaysDescending(t *testing.T) {
	f := frameWithRects(t, 3)
	before := frameIDs(f)

	// RemoveByIDs hands back placements ordered for descending replay.
	removed := f.RemoveByIDs([]shape.ID{before[0], before[2]})
	require.Len(t, removed, 2)
	assert.Greater(t, removed[0].Index, removed[1].Index)
	a := Delete{Positions: removed}

	require.NoError(t, a.Invert().Apply(f))
	assert.Equal(t, before, frameIDs(f), "inverse restores the original z-order")

	// Forward replay removes the high index first so the low one is
	// still valid.
	require.NoError(t, a.Apply(f))
	assert.Equal(t, []shape.ID{before[1]}, frameIDs(f))
}

func TestReplaceInverseRoundTrip(t *testing.T) {
	f := frameWithRects(t, 1)
	orig := f.Shapes()[0]

	rep, ok := f.Translate(orig.ID, 30, 40)
	require.True(t, ok)

	require.NoError(t, rep.Invert().Apply(f))
	got, _ := f.Shape(orig.ID)
	assert.Equal(t, orig.Data, got.Data)

	require.NoError(t, rep.Apply(f))
	got, _ = f.Shape(orig.ID)
	r := got.Data.(shape.Rect)
	assert.Equal(t, 30.0, r.X)
	assert.Equal(t, 50.0, r.Y)
}

func TestZOrderInverseRoundTrip(t *testing.T) {
	f := frameWithRects(t, 3)
	before := frameIDs(f)

	z, ok := f.BringToFront(before[0])
	require.True(t, ok)
	assert.Equal(t, before[0], frameIDs(f)[2])

	require.NoError(t, z.Invert().Apply(f))
	assert.Equal(t, before, frameIDs(f))
}

func TestCompositeInvertsInReverseOrder(t *testing.T) {
	f := frameWithRects(t, 3)
	before := frameIDs(f)

	// Raise the first shape, then delete the shape now at index 0. The
	// two steps only invert cleanly when replayed back-to-front.
	z, ok := f.BringToFront(before[0])
	require.True(t, ok)
	removed := f.RemoveByIDs([]shape.ID{before[1]})
	require.Len(t, removed, 1)
	a := Composite{Actions: []Action{z, Delete{Positions: removed}}}

	require.NoError(t, a.Invert().Apply(f))
	assert.Equal(t, before, frameIDs(f))

	require.NoError(t, a.Apply(f))
	assert.Equal(t, []shape.ID{before[2], before[0]}, frameIDs(f))
}

func TestPushUndoCapsAndClearsRedo(t *testing.T) {
	f := frameWithRects(t, 4)
	ids := frameIDs(f)
	for _, id := range ids {
		rep, ok := f.Translate(id, 1, 0)
		require.True(t, ok)
		f.PushUndo(rep, 3)
	}
	assert.Equal(t, 3, f.UndoDepth(), "oldest entry evicted at the cap")
	first := f.UndoActions()[0].(Replace)
	assert.Equal(t, ids[1], first.ID)

	_, ok := f.UndoLast()
	require.True(t, ok)
	assert.Equal(t, 1, f.RedoDepth())

	rep, ok := f.Translate(ids[0], 0, 1)
	require.True(t, ok)
	f.PushUndo(rep, 3)
	assert.Equal(t, 0, f.RedoDepth(), "a fresh edit discards the redo branch")
}

func TestAdoptReassignsCollidingIDs(t *testing.T) {
	f := frameWithRects(t, 1)
	existing := f.Shapes()[0]

	dup := existing.Clone()
	adopted := f.Adopt(dup)
	assert.NotEqual(t, existing.ID, adopted.ID)

	carried := shape.Shape{ID: 500, Data: shape.Rect{X: 1, Y: 1, W: 2, H: 2}}
	kept := f.Adopt(carried)
	assert.Equal(t, shape.ID(500), kept.ID)
}
