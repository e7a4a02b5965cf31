package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeIntInclusive(t *testing.T) {
	r := NewRNG(5)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := r.RangeInt(2, 6)
		require.GreaterOrEqual(t, v, 2)
		require.LessOrEqual(t, v, 6)
		seen[v] = true
	}
	assert.Len(t, seen, 5)
	assert.Equal(t, 3, r.RangeInt(3, 3))
	v := r.RangeInt(9, 4)
	assert.True(t, v >= 4 && v <= 9)
}

func TestRangeFloatHalfOpen(t *testing.T) {
	r := NewRNG(11)
	for i := 0; i < 2000; i++ {
		v := r.RangeFloat(0.5, 1.5)
		require.GreaterOrEqual(t, v, float32(0.5))
		require.Less(t, v, float32(1.5))
	}
	assert.Equal(t, float32(2), r.RangeFloat(2, 2))
}

func TestMarshalResumesSequence(t *testing.T) {
	a := NewRNG(42)
	a.RangeInt(0, 100)
	state, err := a.MarshalBinary()
	require.NoError(t, err)

	b := NewRNG(1)
	require.NoError(t, b.UnmarshalBinary(state))
	for i := 0; i < 10; i++ {
		require.Equal(t, a.RangeInt(0, 1<<20), b.RangeInt(0, 1<<20))
	}
}
