package flood

import (
	"io"
	"log/slog"
	"testing"

	"floodsim/internal/core"
	"floodsim/internal/terrain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func drainAll(s *Scheduler, now uint64, grid Reverter, guard func(Entry) bool) []Entry {
	var out []Entry
	for e := range s.DrainDue(now, grid, guard) {
		out = append(out, e)
	}
	return out
}

func TestSchedulerSameTickIsFIFO(t *testing.T) {
	store := terrain.NewStore(core.Size{W: 4, H: 4}, 1)
	s := NewScheduler(quietLogger())
	order := []core.Cell{{X: 3, Z: 0}, {X: 0, Z: 0}, {X: 2, Z: 2}, {X: 1, Z: 3}}
	for _, c := range order {
		s.Schedule(c, 10, 1)
	}
	s.Schedule(core.Cell{X: 1, Z: 1}, 5, 1)

	got := drainAll(s, 10, store, nil)
	require.Len(t, got, 5)
	assert.Equal(t, core.Cell{X: 1, Z: 1}, got[0].Cell)
	for i, c := range order {
		assert.Equal(t, c, got[i+1].Cell)
	}
	assert.Equal(t, 0, s.Len())
}

func TestSchedulerDrainsOnlyDueEntries(t *testing.T) {
	store := terrain.NewStore(core.Size{W: 4, H: 4}, 1)
	c := core.Cell{X: 1, Z: 1}
	store.SetTemporaryTerrain(c, 2)

	s := NewScheduler(quietLogger())
	s.Schedule(c, 7, 1)

	assert.Empty(t, drainAll(s, 6, store, nil))
	assert.True(t, store.HasTemporaryTerrain(c))
	next, ok := s.NextTick()
	require.True(t, ok)
	assert.Equal(t, uint64(7), next)

	got := drainAll(s, 7, store, nil)
	require.Len(t, got, 1)
	assert.False(t, store.HasTemporaryTerrain(c))
	_, ok = s.NextTick()
	assert.False(t, ok)
}

func TestSchedulerGuardAndOutOfBounds(t *testing.T) {
	store := terrain.NewStore(core.Size{W: 3, H: 3}, 1)
	kept := core.Cell{X: 0, Z: 0}
	stale := core.Cell{X: 2, Z: 2}
	store.SetTemporaryTerrain(kept, 2)
	store.SetTemporaryTerrain(stale, 2)

	s := NewScheduler(quietLogger())
	s.Schedule(core.Cell{X: 9, Z: 9}, 1, 1)
	s.Schedule(stale, 1, 2)
	s.Schedule(kept, 1, 1)

	got := drainAll(s, 1, store, func(e Entry) bool { return e.Owner == 1 })
	require.Len(t, got, 1)
	assert.Equal(t, kept, got[0].Cell)
	assert.True(t, store.HasTemporaryTerrain(stale), "rejected entries must not revert")
	assert.Equal(t, 0, s.Len())
}

func TestSchedulerStopEarlyLeavesRest(t *testing.T) {
	store := terrain.NewStore(core.Size{W: 3, H: 3}, 1)
	s := NewScheduler(quietLogger())
	s.Schedule(core.Cell{X: 0, Z: 0}, 1, 1)
	s.Schedule(core.Cell{X: 1, Z: 0}, 1, 1)

	for range s.DrainDue(1, store, nil) {
		break
	}
	assert.Equal(t, 1, s.Len())
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler(quietLogger())
	for i := 0; i < 6; i++ {
		s.Schedule(core.Cell{X: i}, uint64(10-i), FloodID(1+i%2))
	}
	assert.Equal(t, 3, s.Cancel(2))
	assert.Equal(t, 0, s.Cancel(2))
	for _, e := range s.Entries() {
		assert.Equal(t, FloodID(1), e.Owner)
	}
	assert.Equal(t, 3, s.Len(), "Entries must not consume the heap")
}

func TestSchedulerStateRoundTrip(t *testing.T) {
	s := NewScheduler(quietLogger())
	s.Schedule(core.Cell{X: 2}, 4, 1)
	s.Schedule(core.Cell{X: 1}, 4, 2)
	s.Schedule(core.Cell{X: 0}, 3, 1)

	restored, err := RestoreScheduler(s.State(), quietLogger())
	require.NoError(t, err)

	want := s.Entries()
	got := restored.Entries()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Cell, got[i].Cell)
		assert.Equal(t, want[i].Tick, got[i].Tick)
		assert.Equal(t, want[i].Owner, got[i].Owner)
	}

	_, err = RestoreScheduler(SchedulerState{Cells: []core.Cell{{}}, Ticks: nil, Owners: nil}, nil)
	assert.ErrorIs(t, err, ErrCorruptState)
}
