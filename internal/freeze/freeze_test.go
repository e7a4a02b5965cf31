package freeze

import (
	"io"
	"log/slog"
	"testing"

	"floodsim/internal/core"
	"floodsim/internal/terrain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type claimSet map[core.Cell]bool

func (s claimSet) Claimed(c core.Cell) bool { return s[c] }

func setup(t *testing.T, claims ClaimChecker) (*Process, *terrain.Store, *terrain.Catalog) {
	t.Helper()
	cat := terrain.DefaultCatalog()
	store := terrain.NewStore(core.Size{W: 4, H: 1}, cat.MustLookup(terrain.ShallowWater))
	store.SetTerrain(core.Cell{X: 2}, cat.MustLookup(terrain.RiverWater))
	store.SetTerrain(core.Cell{X: 3}, cat.MustLookup(terrain.Soil))
	p := New(DefaultConfig(), Deps{
		Grid:    store,
		Catalog: cat,
		Claims:  claims,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return p, store, cat
}

func TestFreezeAndThaw(t *testing.T) {
	p, store, cat := setup(t, nil)
	lake := core.Cell{X: 0}
	sample := []core.Cell{lake}

	assert.Equal(t, Result{}, p.Visit(sample, -5))
	assert.Equal(t, uint8(12), p.Frost(lake))
	assert.Equal(t, Result{Frozen: 1}, p.Visit(sample, -5))
	assert.True(t, p.Frozen(lake))
	assert.Equal(t, cat.MustLookup(terrain.Ice), store.Terrain(lake))
	assert.Equal(t, 1, p.FrozenCells())

	// Mild weather between the thresholds holds the ice.
	p.Visit(sample, 0)
	assert.True(t, p.Frozen(lake))

	p.Visit(sample, 3)
	p.Visit(sample, 3)
	assert.Equal(t, Result{Thawed: 1}, p.Visit(sample, 3))
	assert.False(t, p.Frozen(lake))
	assert.False(t, store.HasTemporaryTerrain(lake))
	assert.Equal(t, cat.MustLookup(terrain.ShallowWater), store.Terrain(lake))
	assert.Equal(t, 0, p.FrozenCells())
}

func TestFreezeSkipsIneligibleCells(t *testing.T) {
	claimed := core.Cell{X: 0}
	p, store, cat := setup(t, claimSet{claimed: true})
	overridden := core.Cell{X: 1}
	store.SetTemporaryTerrain(overridden, cat.MustLookup(terrain.ShallowWater))

	sample := []core.Cell{claimed, overridden, {X: 2}, {X: 3}, {X: 9}}
	for range 10 {
		assert.Equal(t, Result{}, p.Visit(sample, -20))
	}
	for _, c := range sample {
		assert.False(t, p.Frozen(c))
		assert.Zero(t, p.Frost(c))
	}
	assert.Equal(t, cat.MustLookup(terrain.ShallowWater), store.Terrain(overridden))
}

func TestFrostDecaysWhenWarm(t *testing.T) {
	p, _, _ := setup(t, nil)
	lake := []core.Cell{{X: 0}}
	p.Visit(lake, -5)
	require.Equal(t, uint8(12), p.Frost(lake[0]))
	p.Visit(lake, 0)
	assert.Equal(t, uint8(4), p.Frost(lake[0]))
	p.Visit(lake, 10)
	assert.Zero(t, p.Frost(lake[0]))
}

func TestFrozenCellTakenOverExternally(t *testing.T) {
	p, store, _ := setup(t, nil)
	lake := []core.Cell{{X: 0}}
	p.Visit(lake, -10)
	require.True(t, p.Frozen(lake[0]))

	store.RevertTerrain(lake[0])
	assert.Equal(t, Result{}, p.Visit(lake, 5))
	assert.False(t, p.Frozen(lake[0]))
	assert.Equal(t, 0, p.FrozenCells())
}

func TestStateRoundTrip(t *testing.T) {
	p, store, cat := setup(t, nil)
	p.Visit([]core.Cell{{X: 0}, {X: 1}}, -10)
	p.Visit([]core.Cell{{X: 1}}, -3)

	q := New(DefaultConfig(), Deps{Grid: store, Catalog: cat})
	require.NoError(t, q.Restore(p.State()))
	assert.Equal(t, p.FrozenCells(), q.FrozenCells())
	for x := 0; x < 4; x++ {
		c := core.Cell{X: x}
		assert.Equal(t, p.Frozen(c), q.Frozen(c))
		assert.Equal(t, p.Frost(c), q.Frost(c))
	}

	err := q.Restore(State{Frost: []uint8{1}})
	assert.ErrorIs(t, err, ErrStateSize)
}
