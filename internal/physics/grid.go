package physics

import (
	"math"
	"sort"

	"github.com/tomz197/beestrike/internal/object"
)

// Grid is a uniform grid for broad-phase box queries on a bounded playfield.
// Each box is inserted into every cell it covers; anything outside the
// playfield is clamped to the border cells, so off-screen boxes are still found.
type Grid struct {
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell

	// Query scratch, reused between calls
	stamp []uint32
	gen   uint32
	out   []int
}

// gridCell stores the indices of boxes that touch a grid cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewGrid creates a grid covering a width x height playfield.
func NewGrid(width, height, cellSize float64) *Grid {
	cols := max(int(math.Ceil(width/cellSize)), 1)
	rows := max(int(math.Ceil(height/cellSize)), 1)
	return &Grid{
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds the box r, identified by index.
func (g *Grid) Insert(r object.Rect, index int) {
	c0, r0, c1, r1 := g.span(r)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			cell := &g.cells[row*g.cols+col]
			cell.items = append(cell.items, index)
		}
	}
}

// Candidates returns, in ascending order and without duplicates, the indices
// of every box sharing a cell with r. The slice is only valid until the next call.
func (g *Grid) Candidates(r object.Rect) []int {
	g.gen++
	if g.gen == 0 { // wrapped; old stamps could collide
		clear(g.stamp)
		g.gen = 1
	}
	g.out = g.out[:0]

	c0, r0, c1, r1 := g.span(r)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			for _, idx := range g.cells[row*g.cols+col].items {
				if idx >= len(g.stamp) {
					g.stamp = append(g.stamp, make([]uint32, idx+1-len(g.stamp))...)
				}
				if g.stamp[idx] == g.gen {
					continue
				}
				g.stamp[idx] = g.gen
				g.out = append(g.out, idx)
			}
		}
	}
	sort.Ints(g.out)
	return g.out
}

// FirstOverlap behaves like the package-level FirstOverlap but only tests the
// boxes sharing a cell with r.
// boxes must be the slice whose indices were inserted.
func (g *Grid) FirstOverlap(r object.Rect, boxes []object.Rect, skip func(int) bool) int {
	for _, i := range g.Candidates(r) {
		if skip != nil && skip(i) {
			continue
		}
		if Overlaps(r, boxes[i]) {
			return i
		}
	}
	return -1
}

// span returns the inclusive cell range covered by r.
func (g *Grid) span(r object.Rect) (c0, r0, c1, r1 int) {
	c0, r0 = g.posToCell(r.X, r.Y)
	c1, r1 = g.posToCell(r.Right(), r.Bottom())
	return
}

// posToCell converts playfield coordinates to grid cell coordinates.
// Clamps to valid range to handle positions outside the playfield.
func (g *Grid) posToCell(x, y float64) (col, row int) {
	col = min(max(int(math.Floor(x*g.invCellSize)), 0), g.cols-1)
	row = min(max(int(math.Floor(y*g.invCellSize)), 0), g.rows-1)
	return col, row
}
