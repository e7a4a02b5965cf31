package core

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeIndexRoundTrip(t *testing.T) {
	s := Size{W: 7, H: 5}
	for idx := 0; idx < s.Area(); idx++ {
		c := s.CellAt(idx)
		require.True(t, s.Contains(c))
		assert.Equal(t, idx, s.Index(c))
	}
	assert.False(t, s.Contains(Cell{X: -1, Z: 0}))
	assert.False(t, s.Contains(Cell{X: 7, Z: 0}))
	assert.False(t, s.Contains(Cell{X: 0, Z: 5}))
	assert.Equal(t, 0, Size{W: -3, H: 4}.Area())
}

func TestCardinalOrder(t *testing.T) {
	got := Cell{X: 2, Z: 2}.Cardinal()
	want := [4]Cell{{2, 1}, {3, 2}, {2, 3}, {1, 2}}
	assert.Equal(t, want, got)
}

func TestCellSamplerBudgetAndCoverage(t *testing.T) {
	tests := []struct {
		name     string
		size     Size
		fraction float64
	}{
		{"even", Size{W: 10, H: 10}, 0.1},
		{"uneven", Size{W: 13, H: 7}, 0.03},
		{"tiny fraction", Size{W: 4, H: 4}, 0.001},
		{"whole grid", Size{W: 5, H: 3}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewCellSampler(tc.size, tc.fraction, rand.New(rand.NewPCG(1, 2)))
			area := tc.size.Area()
			limit := int(math.Ceil(float64(area) * tc.fraction))
			if limit < 1 {
				limit = 1
			}
			cycle := int(math.Ceil(1 / tc.fraction))

			// Start mid-cycle to make sure coverage holds from any offset.
			s.Next()
			seen := make(map[Cell]struct{}, area)
			for tick := 0; tick < cycle; tick++ {
				batch := s.Next()
				require.LessOrEqual(t, len(batch), limit)
				for _, c := range batch {
					require.True(t, tc.size.Contains(c))
					seen[c] = struct{}{}
				}
			}
			assert.Len(t, seen, area)
		})
	}
}

func TestCellSamplerDeterministicAndCursor(t *testing.T) {
	size := Size{W: 9, H: 9}
	a := NewCellSampler(size, 0.05, rand.New(rand.NewPCG(7, 0)))
	b := NewCellSampler(size, 0.05, rand.New(rand.NewPCG(7, 0)))
	for i := 0; i < 3; i++ {
		require.Equal(t, a.Next(), b.Next())
	}

	c := NewCellSampler(size, 0.05, rand.New(rand.NewPCG(7, 0)))
	c.SetCursor(a.Cursor())
	assert.Equal(t, a.Next(), c.Next())
}

func TestFixedStepDue(t *testing.T) {
	now := time.Unix(0, 0)
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return now }

	// The first call fires immediately thanks to the pre-filled accumulator.
	assert.Equal(t, 1, fs.Due(0))
	now = now.Add(250 * time.Millisecond)
	assert.Equal(t, 2, fs.Due(0))
	now = now.Add(10 * time.Second)
	assert.Equal(t, 4, fs.Due(4))
	assert.Equal(t, 0, fs.Due(4))
}

func TestRegistryNew(t *testing.T) {
	Register("test-null", func(map[string]string) (Sim, error) { return nil, nil })
	_, err := New("test-null", nil)
	require.NoError(t, err)

	_, err = New("does-not-exist", nil)
	assert.Error(t, err)
}
