package flood

import (
	"log/slog"

	"floodsim/internal/core"
	"floodsim/internal/terrain"
)

// Reverter is the slice of the terrain store the scheduler needs.
type Reverter interface {
	InBounds(c core.Cell) bool
	RevertTerrain(c core.Cell)
}

// Grid is the terrain store the engine reads and writes. All writes go through
// SetTemporaryTerrain and RevertTerrain so the original terrain stays intact.
type Grid interface {
	Reverter
	Size() core.Size
	Terrain(c core.Cell) terrain.ID
	OriginalTerrain(c core.Cell) terrain.ID
	HasTemporaryTerrain(c core.Cell) bool
	SetTemporaryTerrain(c core.Cell, id terrain.ID)
	NeighborsCardinal(c core.Cell) [4]core.Cell
	Fogged(c core.Cell) bool
}

// Catalog answers terrain predicates. IDs run from 1 to Len.
type Catalog interface {
	Len() int
	IsWater(id terrain.ID) bool
	IsRiver(id terrain.ID) bool
	FloodTerrainFor(original terrain.ID) (terrain.ID, bool)
}

type Clock interface {
	CurrentTick() uint64
}

// RNG is the random source threaded through spawning and claiming.
// RangeInt is inclusive on both ends; RangeFloat is half-open.
type RNG interface {
	RangeInt(lo, hi int) int
	RangeFloat(lo, hi float32) float32
}

// Conditions reports the ambient weather floods depend on.
type Conditions interface {
	Temperature(tick uint64) float32
	Raining(tick uint64) bool
}

// Deps carries the collaborators a Manager consumes.
type Deps struct {
	Grid       Grid
	Catalog    Catalog
	Clock      Clock
	RNG        RNG
	Conditions Conditions // optional; nil means always warm and raining
	Logger     *slog.Logger
}

// TickClock is a Clock backed by a plain counter.
type TickClock struct {
	Tick uint64
}

func (c *TickClock) CurrentTick() uint64 { return c.Tick }
