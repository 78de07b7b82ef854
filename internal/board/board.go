// Package board groups canvas frames into named boards. A board owns a
// non-empty ordered list of pages plus a background style; the manager
// holds the ordered board list and the active selection.
package board

import (
	"fmt"

	"github.com/example/wayscriber/internal/canvas"
	"github.com/example/wayscriber/internal/geom"
)

// Background describes what the overlay paints behind the annotations.
type Background struct {
	// Transparent boards draw over the live desktop.
	Transparent bool       `toml:"transparent" json:"transparent"`
	Color       geom.Color `toml:"color" json:"color"`
}

// Spec is the persistent identity and policy of a board.
type Spec struct {
	ID              string      `toml:"id" json:"id"`
	Name            string      `toml:"name" json:"name"`
	Background      Background  `toml:"background" json:"background"`
	DefaultPenColor *geom.Color `toml:"default_pen_color" json:"default_pen_color,omitempty"`
	AutoAdjustPen   bool        `toml:"auto_adjust_pen" json:"auto_adjust_pen"`
	Persist         bool        `toml:"persist" json:"persist"`
	Pinned          bool        `toml:"pinned" json:"pinned"`
}

// Board is a spec plus its pages. Every board has at least one page.
type Board struct {
	Spec       Spec
	pages      []*canvas.Frame
	activePage int
}

// NewBoard creates a board with one empty page.
func NewBoard(spec Spec, ids *canvas.IDSource) *Board {
	return &Board{Spec: spec, pages: []*canvas.Frame{canvas.NewFrame(ids)}}
}

// Pages returns the ordered page list.
func (b *Board) Pages() []*canvas.Frame { return b.pages }

// PageCount returns the number of pages.
func (b *Board) PageCount() int { return len(b.pages) }

// ActivePageIndex returns the index of the active page.
func (b *Board) ActivePageIndex() int { return b.activePage }

// ActivePage returns the active frame.
func (b *Board) ActivePage() *canvas.Frame { return b.pages[b.activePage] }

// AddPage appends an empty page and makes it active.
func (b *Board) AddPage(ids *canvas.IDSource) *canvas.Frame {
	f := canvas.NewFrame(ids)
	b.pages = append(b.pages, f)
	b.activePage = len(b.pages) - 1
	return f
}

// appendPage restores a page without changing the active selection.
// Used while loading a snapshot.
func (b *Board) appendPage(f *canvas.Frame) {
	b.pages = append(b.pages, f)
}

// DuplicatePage deep-clones the active page, inserting the copy after
// it and making it active.
func (b *Board) DuplicatePage() *canvas.Frame {
	clone := b.ActivePage().Clone()
	i := b.activePage + 1
	b.pages = append(b.pages, nil)
	copy(b.pages[i+1:], b.pages[i:])
	b.pages[i] = clone
	b.activePage = i
	return clone
}

// DeleteActivePage removes the active page. Deleting the only page is
// forbidden and returns false.
func (b *Board) DeleteActivePage() bool {
	if len(b.pages) <= 1 {
		return false
	}
	i := b.activePage
	b.pages = append(b.pages[:i], b.pages[i+1:]...)
	if b.activePage >= len(b.pages) {
		b.activePage = len(b.pages) - 1
	}
	return true
}

// NextPage advances the active page, reporting whether it moved.
func (b *Board) NextPage() bool {
	if b.activePage+1 >= len(b.pages) {
		return false
	}
	b.activePage++
	return true
}

// PrevPage steps the active page back, reporting whether it moved.
func (b *Board) PrevPage() bool {
	if b.activePage == 0 {
		return false
	}
	b.activePage--
	return true
}

// SetActivePage clamps and sets the active page index.
func (b *Board) SetActivePage(i int) {
	if i < 0 {
		i = 0
	}
	if i >= len(b.pages) {
		i = len(b.pages) - 1
	}
	b.activePage = i
}

// clone deep-copies the board including pages. Shape ids are
// reassigned from ids.
func (b *Board) clone(ids *canvas.IDSource) *Board {
	out := &Board{Spec: b.Spec, activePage: b.activePage}
	for _, p := range b.pages {
		out.pages = append(out.pages, p.Clone())
	}
	return out
}

func (b *Board) validate() error {
	if len(b.pages) == 0 {
		return fmt.Errorf("board %q has no pages", b.Spec.ID)
	}
	if b.activePage < 0 || b.activePage >= len(b.pages) {
		return fmt.Errorf("board %q active page %d out of range", b.Spec.ID, b.activePage)
	}
	return nil
}
