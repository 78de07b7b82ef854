package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/wayscriber/internal/canvas"
	"github.com/example/wayscriber/internal/geom"
	"github.com/example/wayscriber/internal/logger"
)

// mruCap bounds the recently-used board list.
const mruCap = 5

// Manager owns the ordered board list and the active selection.
type Manager struct {
	boards     []*Board
	active     int
	maxCount   int
	autoCreate bool
	template   Spec
	ids        *canvas.IDSource
	mru        []string

	// One stash slot per session: the pen color replaced by the last
	// auto-adjusting board switch.
	stashedPen    geom.Color
	stashedPenSet bool
}

// Options configures a Manager.
type Options struct {
	MaxCount   int
	AutoCreate bool
	Template   Spec
	Boards     []Spec
}

// NewManager builds a manager with the configured boards, creating a
// default transparent board when none are configured.
func NewManager(opts Options, ids *canvas.IDSource) *Manager {
	m := &Manager{
		maxCount:   opts.MaxCount,
		autoCreate: opts.AutoCreate,
		template:   opts.Template,
		ids:        ids,
	}
	if m.maxCount <= 0 {
		m.maxCount = 9
	}
	for _, spec := range opts.Boards {
		if len(m.boards) >= m.maxCount {
			break
		}
		m.boards = append(m.boards, NewBoard(spec, ids))
	}
	if len(m.boards) == 0 {
		spec := opts.Template
		if spec.ID == "" {
			spec.ID = "board-1"
		}
		if spec.Name == "" {
			spec.Name = "Board 1"
		}
		m.boards = append(m.boards, NewBoard(spec, ids))
	}
	m.touchMRU(m.boards[0].Spec.ID)
	return m
}

// IDs returns the shared shape id source.
func (m *Manager) IDs() *canvas.IDSource { return m.ids }

// Boards returns the ordered board list.
func (m *Manager) Boards() []*Board { return m.boards }

// Count returns the number of boards.
func (m *Manager) Count() int { return len(m.boards) }

// ActiveIndex returns the active board index.
func (m *Manager) ActiveIndex() int { return m.active }

// Active returns the active board.
func (m *Manager) Active() *Board { return m.boards[m.active] }

// ActiveFrame returns the active page of the active board.
func (m *Manager) ActiveFrame() *canvas.Frame { return m.Active().ActivePage() }

// Recent returns the recently-used board ids, most recent first.
func (m *Manager) Recent() []string {
	return append([]string(nil), m.mru...)
}

func (m *Manager) touchMRU(id string) {
	out := m.mru[:0]
	for _, v := range m.mru {
		if v != id {
			out = append(out, v)
		}
	}
	m.mru = append([]string{id}, out...)
	if len(m.mru) > mruCap {
		m.mru = m.mru[:mruCap]
	}
}

func (m *Manager) findByID(id string) int {
	for i, b := range m.boards {
		if b.Spec.ID == id {
			return i
		}
	}
	return -1
}

// parseSlotID recognizes "board-N" ids, returning the 1-based slot.
func parseSlotID(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, "board-")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// SwitchToID activates the board with the given id. When the id is
// missing, parses as "board-N", auto-create is enabled and the slot fits
// under max_count, intermediate boards are created from the template.
func (m *Manager) SwitchToID(id string) bool {
	if i := m.findByID(id); i >= 0 {
		m.activate(i)
		return true
	}
	if !m.autoCreate {
		return false
	}
	n, ok := parseSlotID(id)
	if !ok || n > m.maxCount {
		return false
	}
	return m.SwitchToSlot(n)
}

// SwitchToSlot activates the 1-based board slot, auto-creating missing
// slots when the policy allows.
func (m *Manager) SwitchToSlot(n int) bool {
	if n < 1 {
		return false
	}
	if n <= len(m.boards) {
		m.activate(n - 1)
		return true
	}
	if !m.autoCreate || n > m.maxCount {
		return false
	}
	for len(m.boards) < n {
		spec := m.template
		slot := len(m.boards) + 1
		spec.ID = fmt.Sprintf("board-%d", slot)
		if spec.Name == "" {
			spec.Name = fmt.Sprintf("Board %d", slot)
		} else {
			spec.Name = fmt.Sprintf("%s %d", spec.Name, slot)
		}
		m.boards = append(m.boards, NewBoard(spec, m.ids))
	}
	m.activate(n - 1)
	return true
}

func (m *Manager) activate(i int) {
	m.active = i
	m.touchMRU(m.boards[i].Spec.ID)
}

// NextBoard cycles forward through the board list.
func (m *Manager) NextBoard() {
	m.activate((m.active + 1) % len(m.boards))
}

// PrevBoard cycles backward through the board list.
func (m *Manager) PrevBoard() {
	m.activate((m.active - 1 + len(m.boards)) % len(m.boards))
}

// copySuffix returns the first unused "-copy"/"-copy-N" variant of id.
func (m *Manager) copySuffix(id string) string {
	candidate := id + "-copy"
	if m.findByID(candidate) < 0 {
		return candidate
	}
	for n := 2; ; n++ {
		candidate = fmt.Sprintf("%s-copy-%d", id, n)
		if m.findByID(candidate) < 0 {
			return candidate
		}
	}
}

// DuplicateActive deep-clones the active board including its pages,
// inserts the copy after the active index and activates it. Fails when
// the board list is full.
func (m *Manager) DuplicateActive() (*Board, bool) {
	if len(m.boards) >= m.maxCount {
		logger.WithComponent("board").Warn().
			Int("max_count", m.maxCount).
			Msg("cannot duplicate board: board list full")
		return nil, false
	}
	src := m.Active()
	dup := src.clone(m.ids)
	dup.Spec.ID = m.copySuffix(src.Spec.ID)
	if src.Spec.Name != "" {
		dup.Spec.Name = src.Spec.Name + " copy"
	}
	i := m.active + 1
	m.boards = append(m.boards, nil)
	copy(m.boards[i+1:], m.boards[i:])
	m.boards[i] = dup
	m.activate(i)
	return dup, true
}

// DeleteActive removes the active board unless it is the only one or
// pinned.
func (m *Manager) DeleteActive() bool {
	if len(m.boards) <= 1 || m.Active().Spec.Pinned {
		return false
	}
	i := m.active
	m.boards = append(m.boards[:i], m.boards[i+1:]...)
	if m.active >= len(m.boards) {
		m.active = len(m.boards) - 1
	}
	m.touchMRU(m.boards[m.active].Spec.ID)
	return true
}

// AdjustPenOnSwitch implements the pen color swap policy: switching to
// a board with auto_adjust_pen and a default pen color replaces the
// current pen, stashing the previous color so the reverse switch can
// restore it. Storage is a single slot per session.
func (m *Manager) AdjustPenOnSwitch(current geom.Color) (geom.Color, bool) {
	target := m.Active()
	if target.Spec.AutoAdjustPen && target.Spec.DefaultPenColor != nil {
		m.stashedPen = current
		m.stashedPenSet = true
		return *target.Spec.DefaultPenColor, true
	}
	if m.stashedPenSet {
		m.stashedPenSet = false
		return m.stashedPen, true
	}
	return current, false
}

// RestoreBoard replaces the pages of the identified board with loaded
// frames, creating the board from spec when absent. Used while applying
// a session snapshot.
func (m *Manager) RestoreBoard(spec Spec, pages []*canvas.Frame) error {
	if len(pages) == 0 {
		return fmt.Errorf("restore board %q: no pages", spec.ID)
	}
	i := m.findByID(spec.ID)
	if i < 0 {
		if len(m.boards) >= m.maxCount {
			return fmt.Errorf("restore board %q: board list full", spec.ID)
		}
		m.boards = append(m.boards, &Board{Spec: spec})
		i = len(m.boards) - 1
	}
	b := m.boards[i]
	b.pages = nil
	for _, p := range pages {
		b.appendPage(p)
	}
	b.SetActivePage(0)
	return b.validate()
}

// Validate checks the manager's reachable invariants: at least one
// board, every board at least one page, active indices in range.
func (m *Manager) Validate() error {
	if len(m.boards) == 0 {
		return fmt.Errorf("no boards")
	}
	if m.active < 0 || m.active >= len(m.boards) {
		return fmt.Errorf("active board %d out of range [0,%d)", m.active, len(m.boards))
	}
	for _, b := range m.boards {
		if err := b.validate(); err != nil {
			return err
		}
	}
	return nil
}
