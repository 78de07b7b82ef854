package canvas

import (
	"sort"

	"github.com/example/wayscriber/internal/geom"
	"github.com/example/wayscriber/internal/shape"
)

// gridCell is the side length of the uniform grid, chosen coarse enough
// that a typical stroke spans a handful of cells.
const gridCell = 128

type cellKey struct {
	cx int
	cy int
}

// spatialIndex is a coarse uniform grid over shape bounding boxes. It
// is derived from the frame's current shape set and discarded on any
// mutation; the frame rebuilds it lazily on the next query.
type spatialIndex struct {
	cells map[cellKey][]int
}

func cellRange(r geom.Rect) (x0, y0, x1, y1 int) {
	x0 = floorDiv(r.X, gridCell)
	y0 = floorDiv(r.Y, gridCell)
	x1 = floorDiv(r.MaxX()-1, gridCell)
	y1 = floorDiv(r.MaxY()-1, gridCell)
	return
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func buildSpatialIndex(shapes []shape.Shape) *spatialIndex {
	idx := &spatialIndex{cells: make(map[cellKey][]int)}
	for i, s := range shapes {
		b := s.Bounds()
		if b.Empty() {
			continue
		}
		x0, y0, x1, y1 := cellRange(b)
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				k := cellKey{cx, cy}
				idx.cells[k] = append(idx.cells[k], i)
			}
		}
	}
	return idx
}

// query returns candidate shape indices overlapping r, deduplicated and
// in ascending z-order. Callers still run the exact geometric test.
func (idx *spatialIndex) query(r geom.Rect) []int {
	if r.Empty() {
		return nil
	}
	x0, y0, x1, y1 := cellRange(r)
	seen := make(map[int]bool)
	var out []int
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			for _, i := range idx.cells[cellKey{cx, cy}] {
				if !seen[i] {
					seen[i] = true
					out = append(out, i)
				}
			}
		}
	}
	sort.Ints(out)
	return out
}
