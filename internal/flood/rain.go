package flood

import (
	"math"

	"floodsim/internal/core"
)

var rainStrategy = strategy{
	coverage:     func(cfg Config) float64 { return cfg.Rain.Coverage },
	ticksPerCell: func(cfg Config) float64 { return cfg.Rain.TicksPerCell },
	init:         rainInit,
	seeds:        rainSeeds,
	dueTick:      rainDue,
	sustained:    rainSustained,
	destroy:      rainDestroy,
}

func rainInit(m *Manager, in *Instance, _ SpawnRequest) {
	j := m.cfg.Rain.MultiplierJitter
	scale := m.rng.RangeFloat(1-j, 1+j)
	in.rain = &rainState{
		multiplier:   m.cfg.Rain.RecedeMultiplier * scale,
		baseDuration: uint32(m.cfg.Rain.BaseDuration),
	}
}

// rainSeeds picks a few random shoreline cells, preferring rivers.
func rainSeeds(m *Manager, in *Instance) []core.Cell {
	size := m.grid.Size()
	var water, river []core.Cell
	for idx := 0; idx < size.Area(); idx++ {
		c := size.CellAt(idx)
		t := m.grid.Terrain(c)
		if !m.catalog.IsWater(t) || !seedEligible(m, c) {
			continue
		}
		water = append(water, c)
		if m.catalog.IsRiver(t) {
			river = append(river, c)
		}
	}
	pool := water
	if len(river) > 0 {
		pool = river
	}
	n := min(m.cfg.Rain.SeedCount, len(pool))
	for i := 0; i < n; i++ {
		j := m.rng.RangeInt(i, len(pool)-1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// rainDue subtracts more from cells claimed while the flood is far from its
// estimate, so early cells recede first. Clamping to the previous due tick
// keeps reversion order equal to claim order despite the width jitter.
func rainDue(m *Manager, in *Instance, now uint64, width int) uint64 {
	missing := float64(in.EstimatedTotalCells) - float64(in.FloodedCellCount)
	if missing < 0 {
		missing = 0
	}
	offset := int64(in.rain.baseDuration) + int64(width) - int64(math.Round(missing*float64(in.rain.multiplier)))
	due := now + 1
	if offset > 1 {
		due = now + uint64(offset)
	}
	if due < in.rain.lastDue {
		due = in.rain.lastDue
	}
	in.rain.lastDue = due
	return due
}

func rainSustained(m *Manager, _ *Instance, now uint64) bool {
	return m.cond == nil || m.cond.Raining(now)
}

// rainDestroy compresses the pending schedule: every live cell is rescheduled
// relative to the earliest one, preserving order, starting DestroyDelay ticks
// from now. With nothing pending the flood ends immediately.
func rainDestroy(m *Manager, in *Instance, now uint64, reason Reason) {
	if in.Phase == PhaseReceding {
		destroyNow(m, in, now, reason)
		return
	}
	m.sched.Cancel(in.ID)
	live := in.LiveCells()
	if len(live) == 0 {
		m.finalize(in, reason)
		return
	}

	minCounter := uint64(math.MaxUint64)
	for _, c := range live {
		counter, _ := in.Remaining(c, now)
		minCounter = min(minCounter, counter)
	}
	base := now + uint64(m.cfg.Rain.DestroyDelay)
	if base <= now {
		base = now + 1
	}
	for _, c := range live {
		counter, _ := in.Remaining(c, now)
		due := base + (counter - minCounter)
		in.claims[in.byCell[c]].DueTick = due
		m.sched.Schedule(c, due, in.ID)
	}
	in.frontier = nil
	in.Phase = PhaseReceding
	m.log.Info("rain flood receding",
		"flood", in.ID, "reason", reason.String(), "pending", len(live), "first", base)
}
