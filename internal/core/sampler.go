package core

import (
	"math"
	"math/rand/v2"
)

// CellSampler hands out a fixed-size slice of cells per tick, walking a
// shuffled permutation of the grid so every cell is visited once per cycle.
type CellSampler struct {
	size     Size
	order    []int32
	cursor   int
	perTick  int
	fraction float64
	buf      []Cell
}

// NewCellSampler builds a sampler that visits ceil(area*fraction) cells per
// tick. The permutation is drawn from rng, so equal seeds yield equal orders.
func NewCellSampler(size Size, fraction float64, rng *rand.Rand) *CellSampler {
	area := size.Area()
	if fraction <= 0 {
		fraction = 1.0 / float64(max(area, 1))
	}
	if fraction > 1 {
		fraction = 1
	}
	perTick := int(math.Ceil(float64(area) * fraction))
	if perTick < 1 && area > 0 {
		perTick = 1
	}
	order := make([]int32, area)
	for i := range order {
		order[i] = int32(i)
	}
	if rng != nil {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	return &CellSampler{
		size:     size,
		order:    order,
		perTick:  perTick,
		fraction: fraction,
		buf:      make([]Cell, 0, perTick),
	}
}

// PerTick reports how many cells each call to Next returns.
func (s *CellSampler) PerTick() int { return s.perTick }

// CycleTicks reports the number of ticks needed to visit every cell.
func (s *CellSampler) CycleTicks() int {
	return int(math.Ceil(1 / s.fraction))
}

// Next returns this tick's slice of cells. The returned slice is reused by the
// following call.
func (s *CellSampler) Next() []Cell {
	s.buf = s.buf[:0]
	if len(s.order) == 0 {
		return s.buf
	}
	for i := 0; i < s.perTick; i++ {
		s.buf = append(s.buf, s.size.CellAt(int(s.order[s.cursor])))
		s.cursor++
		if s.cursor >= len(s.order) {
			s.cursor = 0
		}
	}
	return s.buf
}

// Cursor exposes the position within the permutation for persistence.
func (s *CellSampler) Cursor() int { return s.cursor }

// SetCursor restores a persisted cursor; out-of-range values wrap.
func (s *CellSampler) SetCursor(cursor int) {
	if len(s.order) == 0 {
		s.cursor = 0
		return
	}
	s.cursor = ((cursor % len(s.order)) + len(s.order)) % len(s.order)
}
