package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wayscriber/internal/canvas"
	"github.com/example/wayscriber/internal/geom"
)

func testManager(opts Options) *Manager {
	return NewManager(opts, &canvas.IDSource{})
}

func TestNewManagerCreatesDefaultBoard(t *testing.T) {
	m := testManager(Options{MaxCount: 9, Template: Spec{Persist: true}})
	require.Equal(t, 1, m.Count())
	b := m.Active()
	assert.Equal(t, "board-1", b.Spec.ID)
	assert.Equal(t, "Board 1", b.Spec.Name)
	assert.True(t, b.Spec.Persist, "template flags must survive the fallback")
	assert.Equal(t, 1, b.PageCount())
}

func TestSwitchToSlotAutoCreates(t *testing.T) {
	m := testManager(Options{MaxCount: 5, AutoCreate: true, Template: Spec{}})

	require.True(t, m.SwitchToSlot(3))
	assert.Equal(t, 3, m.Count(), "intermediate slots are filled in")
	assert.Equal(t, "board-3", m.Active().Spec.ID)
	assert.Equal(t, "Board 2", m.Boards()[1].Spec.Name)

	assert.False(t, m.SwitchToSlot(6), "slots past max_count are refused")
	assert.Equal(t, 3, m.Count())
}

func TestSwitchToSlotWithoutAutoCreate(t *testing.T) {
	m := testManager(Options{MaxCount: 5})
	assert.False(t, m.SwitchToSlot(2))
	assert.Equal(t, 1, m.Count())
}

func TestSwitchToIDParsesSlotIDs(t *testing.T) {
	m := testManager(Options{MaxCount: 5, AutoCreate: true})
	require.True(t, m.SwitchToID("board-2"))
	assert.Equal(t, "board-2", m.Active().Spec.ID)

	assert.False(t, m.SwitchToID("scratch"), "non-slot ids are never auto-created")
	assert.False(t, m.SwitchToID("board-0"))
}

func TestNextPrevBoardWrap(t *testing.T) {
	m := testManager(Options{MaxCount: 9, AutoCreate: true})
	require.True(t, m.SwitchToSlot(3))

	m.NextBoard()
	assert.Equal(t, 0, m.ActiveIndex(), "forward cycling wraps to the first board")
	m.PrevBoard()
	assert.Equal(t, 2, m.ActiveIndex(), "backward cycling wraps to the last board")
}

func TestDuplicateActiveClonesPages(t *testing.T) {
	m := testManager(Options{MaxCount: 9, Boards: []Spec{{ID: "notes", Name: "Notes"}}})
	src := m.Active()
	src.AddPage(m.IDs())

	dup, ok := m.DuplicateActive()
	require.True(t, ok)
	assert.Equal(t, "notes-copy", dup.Spec.ID)
	assert.Equal(t, "Notes copy", dup.Spec.Name)
	assert.Same(t, dup, m.Active(), "the copy becomes active")
	assert.Equal(t, src.PageCount(), dup.PageCount())

	// A second duplicate of the original must not collide with the first.
	require.True(t, m.SwitchToID("notes"))
	dup2, ok := m.DuplicateActive()
	require.True(t, ok)
	assert.Equal(t, "notes-copy-2", dup2.Spec.ID)
}

func TestDuplicateActiveRespectsMaxCount(t *testing.T) {
	m := testManager(Options{MaxCount: 1})
	_, ok := m.DuplicateActive()
	assert.False(t, ok)
}

func TestDeleteActiveGuards(t *testing.T) {
	m := testManager(Options{MaxCount: 9, AutoCreate: true})
	assert.False(t, m.DeleteActive(), "the last board cannot be deleted")

	require.True(t, m.SwitchToSlot(2))
	require.True(t, m.DeleteActive())
	assert.Equal(t, 1, m.Count())

	m2 := testManager(Options{MaxCount: 9, Boards: []Spec{
		{ID: "a", Pinned: true},
		{ID: "b"},
	}})
	assert.False(t, m2.DeleteActive(), "pinned boards cannot be deleted")
}

func TestRecentTracksSwitchOrder(t *testing.T) {
	m := testManager(Options{MaxCount: 9, AutoCreate: true})
	require.True(t, m.SwitchToSlot(2))
	require.True(t, m.SwitchToSlot(3))
	require.True(t, m.SwitchToSlot(2))

	assert.Equal(t, []string{"board-2", "board-3", "board-1"}, m.Recent())
}

func TestAdjustPenOnSwitchStashesAndRestores(t *testing.T) {
	white := geom.Color{R: 1, G: 1, B: 1, A: 1}
	m := testManager(Options{MaxCount: 9, Boards: []Spec{
		{ID: "board-1"},
		{ID: "black", AutoAdjustPen: true, DefaultPenColor: &white},
	}})
	red := geom.Color{R: 1, A: 1}

	require.True(t, m.SwitchToID("black"))
	got, changed := m.AdjustPenOnSwitch(red)
	require.True(t, changed)
	assert.Equal(t, white, got)

	require.True(t, m.SwitchToID("board-1"))
	got, changed = m.AdjustPenOnSwitch(got)
	require.True(t, changed)
	assert.Equal(t, red, got, "the stashed pen color comes back")

	_, changed = m.AdjustPenOnSwitch(got)
	assert.False(t, changed, "the stash is a single slot")
}

func TestRestoreBoardReplacesPages(t *testing.T) {
	m := testManager(Options{MaxCount: 9})
	ids := m.IDs()
	pages := []*canvas.Frame{canvas.NewFrame(ids), canvas.NewFrame(ids)}

	require.NoError(t, m.RestoreBoard(Spec{ID: "board-1"}, pages))
	assert.Equal(t, 2, m.Active().PageCount())
	assert.Equal(t, 0, m.Active().ActivePageIndex())

	require.NoError(t, m.RestoreBoard(Spec{ID: "loaded", Name: "Loaded"}, []*canvas.Frame{canvas.NewFrame(ids)}))
	assert.Equal(t, 2, m.Count())

	require.Error(t, m.RestoreBoard(Spec{ID: "empty"}, nil))
}
