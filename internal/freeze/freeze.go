package freeze

import (
	"errors"
	"fmt"
	"log/slog"

	"floodsim/internal/core"
	"floodsim/internal/terrain"

	"github.com/chewxy/math32"
)

// ErrStateSize reports persisted counters that do not cover the grid.
var ErrStateSize = errors.New("freeze: state size mismatch")

// Grid is the terrain store surface the freeze process touches.
type Grid interface {
	Size() core.Size
	InBounds(c core.Cell) bool
	Terrain(c core.Cell) terrain.ID
	HasTemporaryTerrain(c core.Cell) bool
	SetTemporaryTerrain(c core.Cell, id terrain.ID)
	RevertTerrain(c core.Cell)
}

// Catalog maps a terrain to its frozen form.
type Catalog interface {
	FreezeTerrainFor(current terrain.ID) (terrain.ID, bool)
}

// ClaimChecker reports cells owned by another process. Frozen terrain is never
// written over them.
type ClaimChecker interface {
	Claimed(c core.Cell) bool
}

// Config tunes freezing.
type Config struct {
	FreezeBelow    float32 // frost builds while the temperature is below this
	ThawAbove      float32 // frozen cells lose frost above this
	FrostPerDegree float32 // frost gained or lost per visit per degree of distance
	FrostThreshold uint8   // frost level at which a cell freezes
}

// DefaultConfig returns the standard tunables.
func DefaultConfig() Config {
	return Config{
		FreezeBelow:    -2,
		ThawAbove:      1,
		FrostPerDegree: 4,
		FrostThreshold: 24,
	}
}

// Deps carries the collaborators a Process consumes.
type Deps struct {
	Grid    Grid
	Catalog Catalog
	Claims  ClaimChecker // optional
	Logger  *slog.Logger
}

// Process freezes still water on sampled cells when it is cold and thaws it
// again when it warms up. Counters live per cell so a cell freezes only after
// several cold visits.
type Process struct {
	cfg     Config
	grid    Grid
	catalog Catalog
	claims  ClaimChecker
	log     *slog.Logger

	size   core.Size
	frost  []uint8
	frozen []terrain.ID // terrain this process wrote, None when not frozen
	count  int
}

// New returns a process sized to the grid.
func New(cfg Config, deps Deps) *Process {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.FrostThreshold == 0 {
		cfg.FrostThreshold = 1
	}
	if cfg.ThawAbove < cfg.FreezeBelow {
		cfg.ThawAbove = cfg.FreezeBelow
	}
	size := deps.Grid.Size()
	return &Process{
		cfg:     cfg,
		grid:    deps.Grid,
		catalog: deps.Catalog,
		claims:  deps.Claims,
		log:     log,
		size:    size,
		frost:   make([]uint8, size.Area()),
		frozen:  make([]terrain.ID, size.Area()),
	}
}

// Result counts what one Visit changed.
type Result struct {
	Frozen int
	Thawed int
}

// Visit applies one round of freezing or thawing to the sampled cells.
func (p *Process) Visit(sample []core.Cell, temperature float32) Result {
	var res Result
	for _, c := range sample {
		if !p.grid.InBounds(c) {
			continue
		}
		idx := p.size.Index(c)
		if p.frozen[idx] != terrain.None {
			if p.thaw(c, idx, temperature) {
				res.Thawed++
			}
			continue
		}
		if p.freeze(c, idx, temperature) {
			res.Frozen++
		}
	}
	return res
}

func (p *Process) freeze(c core.Cell, idx int, temperature float32) bool {
	if temperature >= p.cfg.FreezeBelow {
		p.frost[idx] = sub(p.frost[idx], p.step(temperature, p.cfg.FreezeBelow))
		return false
	}
	target, ok := p.catalog.FreezeTerrainFor(p.grid.Terrain(c))
	if !ok || p.grid.HasTemporaryTerrain(c) || (p.claims != nil && p.claims.Claimed(c)) {
		p.frost[idx] = 0
		return false
	}
	p.frost[idx] = add(p.frost[idx], p.step(temperature, p.cfg.FreezeBelow))
	if p.frost[idx] < p.cfg.FrostThreshold {
		return false
	}
	p.grid.SetTemporaryTerrain(c, target)
	p.frozen[idx] = target
	p.count++
	return true
}

func (p *Process) thaw(c core.Cell, idx int, temperature float32) bool {
	if !p.grid.HasTemporaryTerrain(c) || p.grid.Terrain(c) != p.frozen[idx] {
		// Someone else reverted or repurposed the cell; it is no longer ours.
		p.log.Debug("dropping frozen cell taken over externally", "x", c.X, "z", c.Z)
		p.clear(idx)
		return false
	}
	if temperature <= p.cfg.ThawAbove {
		if temperature < p.cfg.FreezeBelow {
			p.frost[idx] = add(p.frost[idx], p.step(temperature, p.cfg.FreezeBelow))
		}
		return false
	}
	p.frost[idx] = sub(p.frost[idx], p.step(temperature, p.cfg.ThawAbove))
	if p.frost[idx] > 0 {
		return false
	}
	p.grid.RevertTerrain(c)
	p.clear(idx)
	return true
}

func (p *Process) clear(idx int) {
	p.frost[idx] = 0
	p.frozen[idx] = terrain.None
	p.count--
}

// step converts the distance from a threshold into a frost delta of at least 1.
func (p *Process) step(temperature, threshold float32) uint8 {
	d := math32.Ceil(math32.Abs(temperature-threshold) * p.cfg.FrostPerDegree)
	return uint8(math32.Max(1, math32.Min(d, 255)))
}

func add(a, b uint8) uint8 {
	if int(a)+int(b) > 255 {
		return 255
	}
	return a + b
}

func sub(a, b uint8) uint8 {
	if b >= a {
		return 0
	}
	return a - b
}

// Frozen reports whether this process currently holds c frozen.
func (p *Process) Frozen(c core.Cell) bool {
	return p.size.Contains(c) && p.frozen[p.size.Index(c)] != terrain.None
}

// Frost returns the frost counter of c.
func (p *Process) Frost(c core.Cell) uint8 {
	if !p.size.Contains(c) {
		return 0
	}
	return p.frost[p.size.Index(c)]
}

// FrozenCells returns how many cells this process holds frozen.
func (p *Process) FrozenCells() int { return p.count }

// State is the persisted per-cell counters.
type State struct {
	Frost  []uint8      `json:"frost"`
	Frozen []terrain.ID `json:"frozen"`
}

// State snapshots the counters.
func (p *Process) State() State {
	return State{
		Frost:  append([]uint8(nil), p.frost...),
		Frozen: append([]terrain.ID(nil), p.frozen...),
	}
}

// Restore replaces the counters with st.
func (p *Process) Restore(st State) error {
	area := p.size.Area()
	if len(st.Frost) != area || len(st.Frozen) != area {
		return fmt.Errorf("%d frost / %d frozen for %d cells: %w", len(st.Frost), len(st.Frozen), area, ErrStateSize)
	}
	copy(p.frost, st.Frost)
	copy(p.frozen, st.Frozen)
	p.count = 0
	for _, id := range p.frozen {
		if id != terrain.None {
			p.count++
		}
	}
	return nil
}
