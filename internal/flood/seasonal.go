package flood

import (
	"floodsim/internal/core"

	"github.com/zyedidia/generic/mapset"
)

var seasonalStrategy = strategy{
	coverage:     func(cfg Config) float64 { return cfg.Seasonal.Coverage },
	ticksPerCell: func(cfg Config) float64 { return cfg.Seasonal.TicksPerCell },
	init:         seasonalInit,
	seeds:        seasonalSeeds,
	dueTick:      seasonalDue,
	sustained:    func(*Manager, *Instance, uint64) bool { return true },
	destroy:      destroyNow,
}

func seasonalInit(m *Manager, in *Instance, req SpawnRequest) {
	remain := req.RemainFlooded
	if remain == 0 {
		remain = uint32(m.rng.RangeInt(m.cfg.Seasonal.RemainMin, m.cfg.Seasonal.RemainMax))
	}
	in.seasonal = &seasonalState{remainFlooded: remain}
}

// seasonalSeeds scans the map once for visible, still water that could spill
// over, reports one at random and seeds from the shoreline of its body.
func seasonalSeeds(m *Manager, in *Instance) []core.Cell {
	size := m.grid.Size()
	var candidates []core.Cell
	eligible := mapset.New[core.Cell]()
	for idx := 0; idx < size.Area(); idx++ {
		c := size.CellAt(idx)
		t := m.grid.Terrain(c)
		if !m.catalog.IsWater(t) || m.catalog.IsRiver(t) || m.grid.Fogged(c) {
			continue
		}
		if !seedEligible(m, c) {
			continue
		}
		candidates = append(candidates, c)
		eligible.Put(c)
	}
	if len(candidates) == 0 {
		return nil
	}

	anchor := candidates[m.rng.RangeInt(0, len(candidates)-1)]
	in.seasonal.anchor = anchor

	// Walk the anchor's water body and keep its eligible shoreline.
	var seeds []core.Cell
	seen := mapset.New[core.Cell]()
	seen.Put(anchor)
	queue := []core.Cell{anchor}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if eligible.Has(c) {
			seeds = append(seeds, c)
		}
		for _, n := range m.grid.NeighborsCardinal(c) {
			if !m.grid.InBounds(n) || seen.Has(n) {
				continue
			}
			t := m.grid.Terrain(n)
			if !m.catalog.IsWater(t) || m.catalog.IsRiver(t) || m.grid.HasTemporaryTerrain(n) {
				continue
			}
			seen.Put(n)
			queue = append(queue, n)
		}
	}
	return seeds
}

// seasonalDue holds every cell for the drawn duration plus its own width, and
// staggers cells by claim order across the expansion duration so the flood
// recedes in the order it rose.
func seasonalDue(m *Manager, in *Instance, now uint64, width int) uint64 {
	stagger := uint64(len(in.claims)) * uint64(in.FloodingDurationTicks) / uint64(max(in.EstimatedTotalCells, 1))
	return now + uint64(in.seasonal.remainFlooded) + uint64(max(width, 0)) + stagger
}

// destroyNow reverts every live cell immediately and drops its pending
// entries.
func destroyNow(m *Manager, in *Instance, now uint64, reason Reason) {
	m.sched.Cancel(in.ID)
	for _, c := range in.LiveCells() {
		m.grid.RevertTerrain(c)
		m.release(in, c)
	}
	m.finalize(in, reason)
}
