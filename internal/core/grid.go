package core

// Cell addresses a single grid position. Cells are plain values and compare by
// coordinates only.
type Cell struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Add returns the cell offset by (dx, dz). The result is not bounds-checked.
func (c Cell) Add(dx, dz int) Cell { return Cell{X: c.X + dx, Z: c.Z + dz} }

// cardinalOffsets lists the N, E, S, W neighbour offsets in a fixed order so
// traversal stays deterministic.
var cardinalOffsets = [4]Cell{{X: 0, Z: -1}, {X: 1, Z: 0}, {X: 0, Z: 1}, {X: -1, Z: 0}}

// Cardinal returns the four orthogonal neighbours of c. Neighbours may lie
// outside any particular grid; callers check bounds before use.
func (c Cell) Cardinal() [4]Cell {
	var out [4]Cell
	for i, off := range cardinalOffsets {
		out[i] = c.Add(off.X, off.Z)
	}
	return out
}

// Area returns the number of cells covered by the size.
func (s Size) Area() int {
	if s.W <= 0 || s.H <= 0 {
		return 0
	}
	return s.W * s.H
}

// Contains reports whether c lies inside a grid of this size.
func (s Size) Contains(c Cell) bool {
	return c.X >= 0 && c.Z >= 0 && c.X < s.W && c.Z < s.H
}

// Index returns the row-major slice index for c. The cell must be in bounds.
func (s Size) Index(c Cell) int { return c.Z*s.W + c.X }

// CellAt is the inverse of Index.
func (s Size) CellAt(idx int) Cell {
	if s.W <= 0 {
		return Cell{}
	}
	return Cell{X: idx % s.W, Z: idx / s.W}
}
