package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wayscriber/internal/canvas"
	"github.com/example/wayscriber/internal/shape"
)

func frameWithEdits(t *testing.T, n int) *canvas.Frame {
	t.Helper()
	f := canvas.NewFrame(&canvas.IDSource{})
	for i := 0; i < n; i++ {
		sh := f.AddShape(shape.Rect{X: float64(10 * i), Y: 10, W: 20, H: 20})
		f.PushUndo(canvas.Create{Positions: []canvas.Placement{{Index: f.Len() - 1, Shape: sh.Clone()}}}, 0)
	}
	return f
}

func TestUndoRedoSteps(t *testing.T) {
	f := frameWithEdits(t, 2)

	require.True(t, Undo(f))
	assert.Equal(t, 1, f.Len())
	assert.Equal(t, 1, f.RedoDepth())

	require.True(t, Redo(f))
	assert.Equal(t, 2, f.Len())

	require.True(t, Undo(f))
	require.True(t, Undo(f))
	assert.False(t, Undo(f), "undo past the bottom is a no-op")
	assert.Equal(t, 0, f.Len())
}

func TestUndoAllRedoAllCounts(t *testing.T) {
	f := frameWithEdits(t, 3)

	assert.Equal(t, 3, UndoAll(f))
	assert.Equal(t, 0, f.Len())
	assert.Equal(t, 3, RedoAll(f))
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, 0, RedoAll(f))
}

func TestClampInterval(t *testing.T) {
	assert.Equal(t, MinStepInterval, ClampInterval(0))
	assert.Equal(t, MinStepInterval, ClampInterval(10*time.Millisecond))
	assert.Equal(t, time.Second, ClampInterval(time.Second))
	assert.Equal(t, MaxStepInterval, ClampInterval(time.Minute))
}

func TestSchedulerPacesOneStepPerInterval(t *testing.T) {
	f := frameWithEdits(t, 3)
	var s Scheduler
	now := time.Now()
	s.Start(DirUndo, -1, 100*time.Millisecond, now)

	assert.False(t, s.Tick(f, now), "first step waits one interval")
	assert.Equal(t, 3, f.Len())

	deadline, ok := s.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, now.Add(100*time.Millisecond), deadline)

	require.True(t, s.Tick(f, deadline))
	assert.Equal(t, 2, f.Len())
	assert.False(t, s.Tick(f, deadline), "second step is not due yet")
}

func TestSchedulerStopsAtBudget(t *testing.T) {
	f := frameWithEdits(t, 3)
	var s Scheduler
	now := time.Now()
	s.Start(DirUndo, 2, MinStepInterval, now)

	step := now.Add(MinStepInterval)
	require.True(t, s.Tick(f, step))
	step = step.Add(MinStepInterval)
	require.True(t, s.Tick(f, step))

	assert.False(t, s.Active(), "the budget is spent")
	assert.Equal(t, 1, f.Len(), "the third entry stays put")
}

func TestSchedulerStopsWhenStackRunsOut(t *testing.T) {
	f := frameWithEdits(t, 1)
	var s Scheduler
	now := time.Now()
	s.Start(DirUndo, -1, MinStepInterval, now)

	step := now.Add(MinStepInterval)
	require.True(t, s.Tick(f, step))
	step = step.Add(MinStepInterval)
	assert.False(t, s.Tick(f, step))
	assert.False(t, s.Active())
}

func TestSchedulerCancelKeepsPartialReplay(t *testing.T) {
	f := frameWithEdits(t, 3)
	var s Scheduler
	now := time.Now()
	s.Start(DirUndo, -1, MinStepInterval, now)
	require.True(t, s.Tick(f, now.Add(MinStepInterval)))

	s.Cancel()
	assert.False(t, s.Active())
	_, ok := s.NextDeadline()
	assert.False(t, ok)
	assert.Equal(t, 2, f.Len(), "already replayed steps are not rolled back")
	assert.Equal(t, 1, f.RedoDepth())
}
