package flood

import (
	"math"

	"floodsim/internal/core"
)

// strategy is the per-kind policy bundle. Expansion itself is shared; only
// duration, seeding, sustain and teardown differ between variants.
type strategy struct {
	coverage     func(cfg Config) float64
	ticksPerCell func(cfg Config) float64
	init         func(m *Manager, in *Instance, req SpawnRequest)
	seeds        func(m *Manager, in *Instance) []core.Cell
	dueTick      func(m *Manager, in *Instance, now uint64, width int) uint64
	sustained    func(m *Manager, in *Instance, now uint64) bool
	destroy      func(m *Manager, in *Instance, now uint64, reason Reason)
}

var strategies = map[Kind]strategy{
	KindSeasonal: seasonalStrategy,
	KindRain:     rainStrategy,
}

func estimateCells(area int, coverage float64) uint32 {
	est := math.Ceil(float64(area) * coverage)
	if est < 1 {
		est = 1
	}
	if est > math.MaxUint32 {
		est = math.MaxUint32
	}
	return uint32(est)
}

func floodingDuration(estimated uint32, ticksPerCell float64) uint32 {
	d := math.Ceil(float64(estimated) * ticksPerCell)
	if d < 1 {
		d = 1
	}
	if d > math.MaxUint32 {
		d = math.MaxUint32
	}
	return uint32(d)
}

// claimsPerTick spreads the estimate evenly over the expansion duration.
func claimsPerTick(in *Instance) int {
	if in.FloodingDurationTicks == 0 {
		return int(in.EstimatedTotalCells)
	}
	n := (in.EstimatedTotalCells + in.FloodingDurationTicks - 1) / in.FloodingDurationTicks
	return max(int(n), 1)
}

// shoreline reports whether c and at least one in-bounds cardinal neighbour
// disagree on being water.
func shoreline(m *Manager, c core.Cell) bool {
	wet := m.catalog.IsWater(m.grid.Terrain(c))
	for _, n := range m.grid.NeighborsCardinal(c) {
		if !m.grid.InBounds(n) {
			continue
		}
		if m.catalog.IsWater(m.grid.Terrain(n)) != wet {
			return true
		}
	}
	return false
}

// claimable reports whether a flood may take c right now: dry shoreline land
// with a flood target, no override from anyone, and no owner.
func claimable(m *Manager, c core.Cell) bool {
	if !m.grid.InBounds(c) {
		return false
	}
	if _, taken := m.claims[c]; taken {
		return false
	}
	if m.grid.HasTemporaryTerrain(c) {
		return false
	}
	if m.catalog.IsWater(m.grid.Terrain(c)) {
		return false
	}
	if _, ok := m.catalog.FloodTerrainFor(m.grid.OriginalTerrain(c)); !ok {
		return false
	}
	return shoreline(m, c)
}

// passable reports whether expansion may travel through c without claiming
// it. Only shoreline water qualifies, which keeps floods out of lake
// interiors.
func passable(m *Manager, in *Instance, c core.Cell) bool {
	if !m.grid.InBounds(c) {
		return false
	}
	if owner, taken := m.claims[c]; taken && owner != in.ID {
		return false
	}
	if m.grid.HasTemporaryTerrain(c) && !in.live.Has(c) {
		return false
	}
	if !m.catalog.IsWater(m.grid.Terrain(c)) {
		return false
	}
	return shoreline(m, c)
}

// hasClaimableNeighbor is the seed test: a water cell is only worth seeding
// from if some neighbour can actually flood.
func hasClaimableNeighbor(m *Manager, c core.Cell) bool {
	for _, n := range m.grid.NeighborsCardinal(c) {
		if claimable(m, n) {
			return true
		}
	}
	return false
}

// seedEligible accepts an unowned water cell with an open neighbour, or an
// unowned land cell that is itself claimable.
func seedEligible(m *Manager, c core.Cell) bool {
	if !m.grid.InBounds(c) {
		return false
	}
	if _, taken := m.claims[c]; taken {
		return false
	}
	if m.grid.HasTemporaryTerrain(c) {
		return false
	}
	if m.catalog.IsWater(m.grid.Terrain(c)) {
		return hasClaimableNeighbor(m, c)
	}
	return claimable(m, c)
}

func filterSeeds(m *Manager, cells []core.Cell) []core.Cell {
	seen := make(map[core.Cell]struct{}, len(cells))
	out := make([]core.Cell, 0, len(cells))
	for _, c := range cells {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if seedEligible(m, c) {
			out = append(out, c)
		}
	}
	return out
}

func (in *Instance) pushNeighbors(m *Manager, c core.Cell) {
	for _, n := range m.grid.NeighborsCardinal(c) {
		if m.grid.InBounds(n) && in.visit(n) {
			in.frontier = append(in.frontier, n)
		}
	}
}

// claimCell writes the temporary terrain, records the claim and queues its
// reversion.
func claimCell(m *Manager, in *Instance, c core.Cell, now uint64) {
	target, _ := m.catalog.FloodTerrainFor(m.grid.OriginalTerrain(c))
	width := m.rng.RangeInt(in.WidthMin, in.WidthMax)
	due := strategies[in.Kind].dueTick(m, in, now, width)
	if due <= now {
		due = now + 1
	}

	m.grid.SetTemporaryTerrain(c, target)
	m.claims[c] = in.ID
	in.addClaim(Claim{Cell: c, Width: width, ClaimTick: now, DueTick: due, Terrain: target})
	m.sched.Schedule(c, due, in.ID)
}

// expandStep runs one tick of breadth-first expansion within the claim and
// visit budgets. It returns the number of cells claimed.
func expandStep(m *Manager, in *Instance, now uint64) int {
	budget := claimsPerTick(in)
	visits := budget * m.cfg.VisitsPerClaim
	claimed := 0
	for claimed < budget && visits > 0 && len(in.frontier) > 0 {
		if uint32(len(in.claims)) >= in.EstimatedTotalCells {
			break
		}
		c := in.frontier[0]
		in.frontier = in.frontier[1:]
		visits--

		switch {
		case claimable(m, c):
			claimCell(m, in, c, now)
			claimed++
			in.pushNeighbors(m, c)
		case passable(m, in, c):
			in.pushNeighbors(m, c)
		}
	}
	return claimed
}

// expansionDone reports whether the instance has nothing left to claim.
func expansionDone(in *Instance) bool {
	return len(in.frontier) == 0 || uint32(len(in.claims)) >= in.EstimatedTotalCells
}
