package flood

import (
	"cmp"
	"fmt"
	"slices"

	"floodsim/internal/core"
	"floodsim/internal/terrain"
)

// ClaimState is one persisted claim.
type ClaimState struct {
	Cell      core.Cell  `json:"cell"`
	Width     int        `json:"width"`
	ClaimTick uint64     `json:"claimTick"`
	DueTick   uint64     `json:"dueTick"`
	Terrain   terrain.ID `json:"terrain"`
	Live      bool       `json:"live"`
}

// SeasonalState is the persisted seasonal variant payload.
type SeasonalState struct {
	RemainFlooded uint32    `json:"remainFlooded"`
	Anchor        core.Cell `json:"anchor"`
}

// RainState is the persisted rain variant payload.
type RainState struct {
	Multiplier   float32 `json:"multiplier"`
	BaseDuration uint32  `json:"baseDuration"`
	LastDue      uint64  `json:"lastDue"`
}

// InstanceState is the flat persisted form of an Instance.
type InstanceState struct {
	ID                    FloodID        `json:"id"`
	Kind                  Kind           `json:"kind"`
	Phase                 Phase          `json:"phase"`
	SpawnTick             uint64         `json:"spawnTick"`
	EstimatedTotalCells   uint32         `json:"estimatedTotalCells"`
	FloodedCellCount      uint32         `json:"floodedCellCount"`
	FloodingDurationTicks uint32         `json:"floodingDurationTicks"`
	WidthMin              int            `json:"widthMin"`
	WidthMax              int            `json:"widthMax"`
	Claims                []ClaimState   `json:"claims"`
	Frontier              []core.Cell    `json:"frontier,omitempty"`
	Visited               []core.Cell    `json:"visited,omitempty"`
	Seasonal              *SeasonalState `json:"seasonal,omitempty"`
	Rain                  *RainState     `json:"rain,omitempty"`
}

// State is everything the manager needs to resume after a reload.
type State struct {
	NextID    FloodID         `json:"nextId"`
	Scheduler SchedulerState  `json:"scheduler"`
	Floods    []InstanceState `json:"floods"`
}

// Save snapshots the manager.
func (m *Manager) Save() State {
	st := State{NextID: m.nextID, Scheduler: m.sched.State()}
	for _, id := range m.order {
		st.Floods = append(st.Floods, m.floods[id].state())
	}
	return st
}

func (in *Instance) state() InstanceState {
	st := InstanceState{
		ID:                    in.ID,
		Kind:                  in.Kind,
		Phase:                 in.Phase,
		SpawnTick:             in.SpawnTick,
		EstimatedTotalCells:   in.EstimatedTotalCells,
		FloodedCellCount:      in.FloodedCellCount,
		FloodingDurationTicks: in.FloodingDurationTicks,
		WidthMin:              in.WidthMin,
		WidthMax:              in.WidthMax,
		Claims:                make([]ClaimState, len(in.claims)),
		Frontier:              append([]core.Cell(nil), in.frontier...),
	}
	for i, cl := range in.claims {
		st.Claims[i] = ClaimState{
			Cell:      cl.Cell,
			Width:     cl.Width,
			ClaimTick: cl.ClaimTick,
			DueTick:   cl.DueTick,
			Terrain:   cl.Terrain,
			Live:      in.live.Has(cl.Cell) && in.byCell[cl.Cell] == i,
		}
	}
	if in.Phase == PhaseExpanding {
		in.visited.Each(func(c core.Cell) { st.Visited = append(st.Visited, c) })
		slices.SortFunc(st.Visited, func(a, b core.Cell) int {
			return cmp.Or(cmp.Compare(a.Z, b.Z), cmp.Compare(a.X, b.X))
		})
	}
	if in.seasonal != nil {
		st.Seasonal = &SeasonalState{RemainFlooded: in.seasonal.remainFlooded, Anchor: in.seasonal.anchor}
	}
	if in.rain != nil {
		st.Rain = &RainState{
			Multiplier:   in.rain.multiplier,
			BaseDuration: in.rain.baseDuration,
			LastDue:      in.rain.lastDue,
		}
	}
	return st
}

// Restore replaces the manager's floods and schedule with st. The grid is
// expected to already hold the matching terrain. Structural problems fail the
// whole restore; out-of-bounds or doubly claimed cells are logged and skipped.
func (m *Manager) Restore(st State) error {
	sched, err := RestoreScheduler(st.Scheduler, m.log)
	if err != nil {
		return err
	}
	floods := make(map[FloodID]*Instance, len(st.Floods))
	claims := make(map[core.Cell]FloodID)
	order := make([]FloodID, 0, len(st.Floods))
	nextID := max(st.NextID, 1)

	for _, fs := range st.Floods {
		if fs.ID == NoFlood {
			return fmt.Errorf("flood record without id: %w", ErrCorruptState)
		}
		if _, dup := floods[fs.ID]; dup {
			return fmt.Errorf("flood %d recorded twice: %w", fs.ID, ErrCorruptState)
		}
		in, err := m.restoreInstance(fs, claims)
		if err != nil {
			return err
		}
		floods[in.ID] = in
		order = append(order, in.ID)
		nextID = max(nextID, in.ID+1)
	}

	m.sched = sched
	m.floods = floods
	m.claims = claims
	m.order = order
	m.nextID = nextID
	return nil
}

func (m *Manager) restoreInstance(fs InstanceState, claims map[core.Cell]FloodID) (*Instance, error) {
	if _, ok := strategies[fs.Kind]; !ok {
		return nil, fmt.Errorf("flood %d has kind %d: %w", fs.ID, fs.Kind, ErrCorruptState)
	}
	if (fs.Kind == KindSeasonal) != (fs.Seasonal != nil) || (fs.Kind == KindRain) != (fs.Rain != nil) {
		return nil, fmt.Errorf("flood %d variant payload does not match kind %s: %w", fs.ID, fs.Kind, ErrCorruptState)
	}
	in := newInstance(fs.Kind, fs.SpawnTick)
	in.ID = fs.ID
	in.Phase = fs.Phase
	in.EstimatedTotalCells = fs.EstimatedTotalCells
	in.FloodingDurationTicks = fs.FloodingDurationTicks
	in.WidthMin, in.WidthMax = fs.WidthMin, fs.WidthMax
	if fs.Seasonal != nil {
		in.seasonal = &seasonalState{remainFlooded: fs.Seasonal.RemainFlooded, anchor: fs.Seasonal.Anchor}
	}
	if fs.Rain != nil {
		in.rain = &rainState{
			multiplier:   fs.Rain.Multiplier,
			baseDuration: fs.Rain.BaseDuration,
			lastDue:      fs.Rain.LastDue,
		}
	}

	for _, cs := range fs.Claims {
		if !m.grid.InBounds(cs.Cell) {
			m.log.Warn("skipping out-of-bounds saved claim", "flood", fs.ID, "x", cs.Cell.X, "z", cs.Cell.Z)
			continue
		}
		cl := Claim{Cell: cs.Cell, Width: cs.Width, ClaimTick: cs.ClaimTick, DueTick: cs.DueTick, Terrain: cs.Terrain}
		in.byCell[cl.Cell] = len(in.claims)
		in.claims = append(in.claims, cl)
		in.visited.Put(cl.Cell)
		if !cs.Live {
			continue
		}
		if owner, taken := claims[cl.Cell]; taken {
			m.log.Warn("skipping doubly claimed saved cell", "flood", fs.ID, "owner", owner, "x", cl.Cell.X, "z", cl.Cell.Z)
			continue
		}
		claims[cl.Cell] = in.ID
		in.live.Put(cl.Cell)
		in.FloodedCellCount++
	}
	if in.FloodedCellCount != fs.FloodedCellCount {
		m.log.Warn("saved flooded cell count disagrees with live claims",
			"flood", fs.ID, "saved", fs.FloodedCellCount, "live", in.FloodedCellCount)
	}

	if in.Phase == PhaseExpanding {
		for _, c := range fs.Visited {
			if m.grid.InBounds(c) {
				in.visit(c)
			}
		}
		for _, c := range fs.Frontier {
			if !m.grid.InBounds(c) {
				continue
			}
			in.visit(c)
			in.frontier = append(in.frontier, c)
		}
	}
	return in, nil
}

