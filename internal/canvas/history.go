package canvas

import (
	"fmt"
	"sort"

	"github.com/example/wayscriber/internal/shape"
)

// Action is a reversible effect on a frame. Applying an action and then
// its inverse restores the frame byte-identically for every field the
// action commits to revert.
type Action interface {
	// Apply performs the action's forward (redo) effect.
	Apply(f *Frame) error
	// Invert returns the opposite action.
	Invert() Action
}

// Placement pairs a shape with the index it occupies in the frame.
type Placement struct {
	Index int
	Shape shape.Shape
}

// Create inserts shapes at their stored indices. Its inverse removes
// them again.
type Create struct {
	Positions []Placement
}

func (c Create) Apply(f *Frame) error {
	// Insert ascending so stored indices stay valid as earlier entries
	// shift the tail.
	ordered := append([]Placement(nil), c.Positions...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })
	for _, p := range ordered {
		if err := f.InsertAt(p.Index, p.Shape.Clone()); err != nil {
			return fmt.Errorf("redo create: %w", err)
		}
	}
	return nil
}

func (c Create) Invert() Action { return Delete(c) }

// Delete removes shapes, remembering their positions so the inverse can
// reinsert them.
type Delete struct {
	Positions []Placement
}

func (d Delete) Apply(f *Frame) error {
	// Remove descending so earlier indices are unaffected.
	ordered := append([]Placement(nil), d.Positions...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index > ordered[j].Index })
	for _, p := range ordered {
		removed, err := f.RemoveAt(p.Index)
		if err != nil {
			return fmt.Errorf("redo delete: %w", err)
		}
		if removed.ID != p.Shape.ID {
			return fmt.Errorf("redo delete: index %d holds shape %d, want %d", p.Index, removed.ID, p.Shape.ID)
		}
	}
	return nil
}

func (d Delete) Invert() Action { return Create(d) }

// Replace swaps a shape's full record. Used for translate, resize, text
// edits, and style changes.
type Replace struct {
	ID     shape.ID
	Before shape.Shape
	After  shape.Shape
}

func (r Replace) Apply(f *Frame) error {
	if !f.SetShape(r.ID, r.After.Clone()) {
		return fmt.Errorf("redo replace: shape %d not found", r.ID)
	}
	return nil
}

func (r Replace) Invert() Action {
	return Replace{ID: r.ID, Before: r.After, After: r.Before}
}

// ZOrder moves a shape between indices.
type ZOrder struct {
	ID          shape.ID
	BeforeIndex int
	AfterIndex  int
}

func (z ZOrder) Apply(f *Frame) error {
	if err := f.Reorder(z.BeforeIndex, z.AfterIndex); err != nil {
		return fmt.Errorf("redo z-order: %w", err)
	}
	return nil
}

func (z ZOrder) Invert() Action {
	return ZOrder{ID: z.ID, BeforeIndex: z.AfterIndex, AfterIndex: z.BeforeIndex}
}

// Composite groups the actions of a single user gesture, such as a
// marquee translate spanning several shapes.
type Composite struct {
	Actions []Action
}

func (c Composite) Apply(f *Frame) error {
	for _, a := range c.Actions {
		if err := a.Apply(f); err != nil {
			return err
		}
	}
	return nil
}

func (c Composite) Invert() Action {
	inv := make([]Action, len(c.Actions))
	for i, a := range c.Actions {
		inv[len(c.Actions)-1-i] = a.Invert()
	}
	return Composite{Actions: inv}
}
