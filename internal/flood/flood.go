package flood

import (
	"fmt"

	"floodsim/internal/core"
	"floodsim/internal/terrain"

	"github.com/zyedidia/generic/mapset"
)

// FloodID is a re-derivable handle for a flood instance. IDs are assigned
// sequentially and never reused within a manager.
type FloodID uint32

// NoFlood is returned when a spawn request finds nothing to flood.
const NoFlood FloodID = 0

// Kind selects the flood variant.
type Kind uint8

const (
	// KindSeasonal floods for a fixed duration drawn once at spawn.
	KindSeasonal Kind = iota + 1
	// KindRain recedes per cell, proportionally to how much flooding is left.
	KindRain
)

var kindNames = map[Kind]string{
	KindSeasonal: "seasonal",
	KindRain:     "rain",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a kind name back to its value.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Phase is the lifecycle stage of an instance.
type Phase uint8

const (
	PhaseExpanding Phase = iota + 1
	PhaseSteady
	// PhaseReceding is a destroyed rain flood still draining its compressed
	// reversion schedule.
	PhaseReceding
	PhaseDestroyed
)

func (p Phase) String() string {
	switch p {
	case PhaseExpanding:
		return "expanding"
	case PhaseSteady:
		return "steady"
	case PhaseReceding:
		return "receding"
	case PhaseDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Reason explains why a flood was destroyed.
type Reason uint8

const (
	ReasonExhausted Reason = iota + 1
	ReasonCold
	ReasonExternal
)

func (r Reason) String() string {
	switch r {
	case ReasonExhausted:
		return "exhausted"
	case ReasonCold:
		return "cold"
	case ReasonExternal:
		return "external"
	default:
		return fmt.Sprintf("reason(%d)", uint8(r))
	}
}

// Claim records one cell taken by a flood. DueTick is when the cell reverts;
// for rain floods DueTick minus the current tick is the cell's remaining
// duration counter.
type Claim struct {
	Cell      core.Cell
	Width     int
	ClaimTick uint64
	DueTick   uint64
	Terrain   terrain.ID
}

type seasonalState struct {
	remainFlooded uint32
	anchor        core.Cell
}

type rainState struct {
	multiplier   float32
	baseDuration uint32
	lastDue      uint64
}

// Instance is one running flood. Exactly one of seasonal/rain is set,
// matching Kind.
type Instance struct {
	ID                    FloodID
	Kind                  Kind
	Phase                 Phase
	SpawnTick             uint64
	EstimatedTotalCells   uint32
	FloodedCellCount      uint32
	FloodingDurationTicks uint32
	WidthMin, WidthMax    int

	claims   []Claim
	byCell   map[core.Cell]int
	live     mapset.Set[core.Cell]
	frontier []core.Cell
	visited  mapset.Set[core.Cell]

	seasonal *seasonalState
	rain     *rainState
}

func newInstance(kind Kind, now uint64) *Instance {
	return &Instance{
		Kind:      kind,
		Phase:     PhaseExpanding,
		SpawnTick: now,
		byCell:    make(map[core.Cell]int),
		live:      mapset.New[core.Cell](),
		visited:   mapset.New[core.Cell](),
	}
}

// Claims returns every claim in claim order, including cells that already
// reverted.
func (in *Instance) Claims() []Claim { return append([]Claim(nil), in.claims...) }

// Live reports whether c is currently flooded by this instance.
func (in *Instance) Live(c core.Cell) bool { return in.live.Has(c) }

// LiveCells returns the currently flooded cells in claim order.
func (in *Instance) LiveCells() []core.Cell {
	out := make([]core.Cell, 0, in.live.Size())
	for _, cl := range in.claims {
		if in.live.Has(cl.Cell) {
			out = append(out, cl.Cell)
		}
	}
	return out
}

// Claim returns the claim record for c.
func (in *Instance) Claim(c core.Cell) (Claim, bool) {
	i, ok := in.byCell[c]
	if !ok {
		return Claim{}, false
	}
	return in.claims[i], true
}

// Anchor returns the cell a seasonal flood reported at spawn.
func (in *Instance) Anchor() (core.Cell, bool) {
	if in.seasonal == nil {
		return core.Cell{}, false
	}
	return in.seasonal.anchor, true
}

// RemainFlooded returns the seasonal hold duration drawn at spawn.
func (in *Instance) RemainFlooded() uint32 {
	if in.seasonal == nil {
		return 0
	}
	return in.seasonal.remainFlooded
}

// Remaining returns the per-cell counter of a live claim: ticks until it
// reverts, measured from now.
func (in *Instance) Remaining(c core.Cell, now uint64) (uint64, bool) {
	cl, ok := in.Claim(c)
	if !ok || !in.live.Has(c) {
		return 0, false
	}
	if cl.DueTick <= now {
		return 0, true
	}
	return cl.DueTick - now, true
}

func (in *Instance) addClaim(cl Claim) {
	in.byCell[cl.Cell] = len(in.claims)
	in.claims = append(in.claims, cl)
	in.live.Put(cl.Cell)
	in.FloodedCellCount++
}

// drop removes c from the live set. It reports false when c was not live.
func (in *Instance) drop(c core.Cell) bool {
	if !in.live.Has(c) {
		return false
	}
	in.live.Remove(c)
	in.FloodedCellCount--
	return true
}

func (in *Instance) visit(c core.Cell) bool {
	if in.visited.Has(c) {
		return false
	}
	in.visited.Put(c)
	return true
}
