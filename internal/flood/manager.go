package flood

import (
	"fmt"
	"log/slog"
	"slices"

	"floodsim/internal/core"
	"floodsim/internal/terrain"
)

// SpawnRequest describes a flood to start. Zero-valued fields fall back to
// the manager config; Seeds empty means "use the kind's seed search".
type SpawnRequest struct {
	Kind           Kind
	Seeds          []core.Cell
	EstimatedCells uint32
	WidthMin       int
	WidthMax       int
	RemainFlooded  uint32 // seasonal only
}

// Manager owns every flood instance, the shared reversion scheduler and the
// cell ownership map. It is not safe for concurrent use; the host calls it
// from the single simulation loop.
type Manager struct {
	cfg     Config
	grid    Grid
	catalog Catalog
	clock   Clock
	rng     RNG
	cond    Conditions
	log     *slog.Logger

	sched   *Scheduler
	floods  map[FloodID]*Instance
	order   []FloodID
	claims  map[core.Cell]FloodID
	nextID  FloodID
	enabled map[Kind]bool
}

// NewManager validates the catalog and returns a manager. Kinds without
// seed-eligible terrain are disabled and refuse to spawn; a catalog without
// any floodable terrain is a startup error.
func NewManager(cfg Config, deps Deps) (*Manager, error) {
	if deps.Grid == nil || deps.Catalog == nil || deps.Clock == nil || deps.RNG == nil {
		return nil, ErrMissingDependency
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		cfg:     cfg.normalize(),
		grid:    deps.Grid,
		catalog: deps.Catalog,
		clock:   deps.Clock,
		rng:     deps.RNG,
		cond:    deps.Conditions,
		log:     log,
		sched:   NewScheduler(log),
		floods:  make(map[FloodID]*Instance),
		claims:  make(map[core.Cell]FloodID),
		nextID:  1,
	}
	enabled, err := validateCatalog(deps.Catalog)
	if err != nil {
		return nil, err
	}
	m.enabled = enabled
	for _, k := range []Kind{KindSeasonal, KindRain} {
		if !enabled[k] {
			log.Warn("flood kind disabled: no seed-eligible terrain", "kind", k.String())
		}
	}
	return m, nil
}

func validateCatalog(cat Catalog) (map[Kind]bool, error) {
	var floodable, still, anyWater bool
	for i := 1; i <= cat.Len(); i++ {
		id := terrain.ID(i)
		if _, ok := cat.FloodTerrainFor(id); ok && !cat.IsWater(id) {
			floodable = true
		}
		if cat.IsWater(id) {
			anyWater = true
			if !cat.IsRiver(id) {
				still = true
			}
		}
	}
	if !floodable {
		return nil, ErrNoFloodTerrain
	}
	return map[Kind]bool{
		KindSeasonal: still,
		KindRain:     anyWater,
	}, nil
}

// Enabled reports whether kind passed startup validation.
func (m *Manager) Enabled(kind Kind) bool { return m.enabled[kind] }

// Scheduler exposes the shared reversion scheduler.
func (m *Manager) Scheduler() *Scheduler { return m.sched }

// Flood returns the live instance for id.
func (m *Manager) Flood(id FloodID) (*Instance, bool) {
	in, ok := m.floods[id]
	return in, ok
}

// Floods lists live flood IDs in spawn order.
func (m *Manager) Floods() []FloodID { return slices.Clone(m.order) }

// ClaimedBy returns the flood currently owning c.
func (m *Manager) ClaimedBy(c core.Cell) (FloodID, bool) {
	id, ok := m.claims[c]
	return id, ok
}

// Claimed reports whether any flood owns c.
func (m *Manager) Claimed(c core.Cell) bool {
	_, ok := m.claims[c]
	return ok
}

// FloodedCells returns the number of cells owned by all floods.
func (m *Manager) FloodedCells() int { return len(m.claims) }

// SpawnFlood starts a flood. It returns NoFlood with a nil error when no
// eligible seed exists; that is an expected outcome on enclosed water.
func (m *Manager) SpawnFlood(req SpawnRequest) (FloodID, error) {
	strat, ok := strategies[req.Kind]
	if !ok || !m.enabled[req.Kind] {
		return NoFlood, fmt.Errorf("spawn %s: %w", req.Kind, ErrKindUnavailable)
	}
	now := m.clock.CurrentTick()

	in := newInstance(req.Kind, now)
	in.ID = m.nextID
	in.EstimatedTotalCells = req.EstimatedCells
	if in.EstimatedTotalCells == 0 {
		in.EstimatedTotalCells = estimateCells(m.grid.Size().Area(), strat.coverage(m.cfg))
	}
	in.FloodingDurationTicks = floodingDuration(in.EstimatedTotalCells, strat.ticksPerCell(m.cfg))
	in.WidthMin, in.WidthMax = m.cfg.WidthMin, m.cfg.WidthMax
	if req.WidthMin > 0 || req.WidthMax > 0 {
		in.WidthMin, in.WidthMax = req.WidthMin, max(req.WidthMax, req.WidthMin)
	}
	strat.init(m, in, req)

	var seeds []core.Cell
	if len(req.Seeds) > 0 {
		seeds = filterSeeds(m, req.Seeds)
	} else {
		seeds = strat.seeds(m, in)
	}
	if len(seeds) == 0 {
		m.log.Debug("no eligible flood seed", "kind", req.Kind.String(), "tick", now)
		return NoFlood, nil
	}

	for _, c := range seeds {
		if in.visit(c) {
			in.frontier = append(in.frontier, c)
		}
	}
	m.nextID++
	m.floods[in.ID] = in
	m.order = append(m.order, in.ID)

	attrs := []any{
		"flood", in.ID, "kind", in.Kind.String(), "tick", now,
		"estimated", in.EstimatedTotalCells, "duration", in.FloodingDurationTicks, "seeds", len(seeds),
	}
	if anchor, ok := in.Anchor(); ok {
		attrs = append(attrs, "anchor_x", anchor.X, "anchor_z", anchor.Z)
	}
	m.log.Info("flood spawned", attrs...)
	return in.ID, nil
}

// TickAll runs one simulation step of the flood engine: due reversions fire
// first, then teardown checks and expansion.
func (m *Manager) TickAll(now uint64) {
	m.DrainDue(now)
	m.Advance(now)
}

// DrainDue fires every reversion scheduled at or before now and updates the
// owning floods. It returns the number of cells reverted.
func (m *Manager) DrainDue(now uint64) int {
	n := 0
	for e := range m.sched.DrainDue(now, m.grid, m.ownsEntry) {
		in := m.floods[e.Owner]
		m.release(in, e.Cell)
		n++
		if in.FloodedCellCount == 0 {
			m.finalize(in, ReasonExhausted)
		}
	}
	return n
}

// ownsEntry rejects entries whose cell no longer belongs to their flood.
func (m *Manager) ownsEntry(e Entry) bool {
	in, ok := m.floods[e.Owner]
	if !ok {
		return false
	}
	return m.claims[e.Cell] == e.Owner && in.live.Has(e.Cell)
}

// Advance applies teardown conditions and runs expansion for every flood.
func (m *Manager) Advance(now uint64) {
	for _, id := range slices.Clone(m.order) {
		in, ok := m.floods[id]
		if !ok {
			continue
		}
		if in.Phase == PhaseReceding {
			continue
		}
		if m.cond != nil && m.cond.Temperature(now) < m.cfg.MinTemperature {
			strategies[in.Kind].destroy(m, in, now, ReasonCold)
			continue
		}
		if in.Phase != PhaseExpanding {
			continue
		}
		if strategies[in.Kind].sustained(m, in, now) {
			expandStep(m, in, now)
			if !expansionDone(in) {
				continue
			}
		}
		m.finishExpansion(in)
	}
}

func (m *Manager) finishExpansion(in *Instance) {
	in.Phase = PhaseSteady
	in.frontier = nil
	m.log.Info("flood expansion complete",
		"flood", in.ID, "claimed", len(in.claims), "estimated", in.EstimatedTotalCells)
	if in.FloodedCellCount == 0 {
		m.finalize(in, ReasonExhausted)
	}
}

// DestroyFlood tears a flood down early. Seasonal floods revert at once; rain
// floods reschedule their remaining cells to recede in order.
func (m *Manager) DestroyFlood(id FloodID, reason Reason) error {
	in, ok := m.floods[id]
	if !ok {
		return fmt.Errorf("destroy %d: %w", id, ErrUnknownFlood)
	}
	strategies[in.Kind].destroy(m, in, m.clock.CurrentTick(), reason)
	return nil
}

// Upkeep checks sampled cells for floods whose temporary terrain was replaced
// by someone else and releases those claims without reverting.
func (m *Manager) Upkeep(sample []core.Cell) int {
	released := 0
	for _, c := range sample {
		id, ok := m.claims[c]
		if !ok {
			continue
		}
		in := m.floods[id]
		cl, _ := in.Claim(c)
		if m.grid.HasTemporaryTerrain(c) && m.grid.Terrain(c) == cl.Terrain {
			continue
		}
		m.log.Debug("releasing repurposed flood cell", "flood", id, "x", c.X, "z", c.Z)
		m.release(in, c)
		released++
		if in.FloodedCellCount == 0 {
			m.finalize(in, ReasonExhausted)
		}
	}
	return released
}

// release drops c from its flood's live set and the ownership map. The
// terrain is left alone.
func (m *Manager) release(in *Instance, c core.Cell) {
	if in.drop(c) {
		delete(m.claims, c)
	}
}

// finalize removes a flood whose cells are all gone.
func (m *Manager) finalize(in *Instance, reason Reason) {
	if in.Phase == PhaseDestroyed {
		return
	}
	in.Phase = PhaseDestroyed
	in.frontier = nil
	delete(m.floods, in.ID)
	m.order = slices.DeleteFunc(m.order, func(id FloodID) bool { return id == in.ID })
	m.log.Info("flood destroyed",
		"flood", in.ID, "kind", in.Kind.String(), "reason", reason.String(), "claimed", len(in.claims))
}
