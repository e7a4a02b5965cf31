package waterworld

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"floodsim/internal/core"
	"floodsim/internal/flood"
	"floodsim/internal/freeze"
	"floodsim/internal/terrain"
	pcore "floodsim/pkg/core"
)

// World owns the terrain, the flood engine, the freeze process and the
// weather, and steps them in a fixed order once per tick.
type World struct {
	cfg     Config
	size    core.Size
	log     *slog.Logger
	catalog *terrain.Catalog

	store   *terrain.Store
	rng     *pcore.RNG
	clock   *flood.TickClock
	sampler *core.CellSampler
	floods  *flood.Manager
	freeze  *freeze.Process
	weather *Weather

	display   []uint8
	floodMask []float32
	frostMask []float32
	stats     Stats
}

// Stats summarizes the running world for viewers and tools.
type Stats struct {
	Tick             uint64
	Temperature      float32
	Raining          bool
	Floods           int
	FloodedCells     int
	FrozenCells      int
	Reverted         int
	RainEvents       int
	SeasonalTriggers int
}

// New returns a world with the provided dimensions using defaults.
func New(w, h int) (*World, error) {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg, nil)
}

// NewWithConfig builds a world from cfg and resets it to cfg.Seed. A nil
// logger uses slog.Default.
func NewWithConfig(cfg Config, log *slog.Logger) (*World, error) {
	if log == nil {
		log = slog.Default()
	}
	w := &World{
		cfg:     cfg,
		size:    core.Size{W: max(cfg.Width, 1), H: max(cfg.Height, 1)},
		log:     log.With("sim", "waterworld"),
		catalog: terrain.DefaultCatalog(),
		clock:   &flood.TickClock{},
	}
	w.weather = &Weather{params: &w.cfg.Params}
	w.display = make([]uint8, w.size.Area())
	if err := w.rebuild(cfg.Seed); err != nil {
		return nil, err
	}
	return w, nil
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "waterworld" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return w.size }

// Cells exposes the display buffer: one terrain ID per cell.
func (w *World) Cells() []uint8 { return w.display }

// Palette maps display values to colours.
func (w *World) Palette() []color.RGBA { return w.catalog.Palette() }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Store exposes the terrain store for read-only use by viewers.
func (w *World) Store() *terrain.Store { return w.store }

// Catalog exposes the terrain catalog.
func (w *World) Catalog() *terrain.Catalog { return w.catalog }

// Floods exposes the flood manager.
func (w *World) Floods() *flood.Manager { return w.floods }

// Freeze exposes the freeze process.
func (w *World) Freeze() *freeze.Process { return w.freeze }

// Weather exposes the climate model.
func (w *World) Weather() *Weather { return w.weather }

// Tick returns the number of completed steps.
func (w *World) Tick() uint64 { return w.clock.Tick }

// Stats returns a summary of the current state.
func (w *World) Stats() Stats { return w.stats }

// Reset rebuilds the map and every subsystem. A zero seed uses the configured
// seed.
func (w *World) Reset(seed int64) {
	if seed == 0 {
		seed = w.cfg.Seed
	}
	if err := w.rebuild(seed); err != nil {
		w.log.Error("reset failed", "seed", seed, "err", err)
	}
}

func (w *World) rebuild(seed int64) error {
	rng := pcore.NewRNG(seed)
	// The sampler permutation is drawn first so a restore can rebuild it
	// from the seed alone.
	sampler := core.NewCellSampler(w.size, w.cfg.Params.SampleFraction, rng.Source())
	store := terrain.NewStore(w.size, w.catalog.MustLookup(terrain.Soil))
	generateMap(store, w.catalog, w.cfg.Params, rng)

	w.clock.Tick = 0
	floods, frz, err := w.engines(store, rng)
	if err != nil {
		return err
	}
	w.cfg.Seed = seed
	w.rng = rng
	w.sampler = sampler
	w.store = store
	w.floods = floods
	w.freeze = frz
	w.weather.rainUntil = 0
	w.stats = Stats{}
	w.refresh()
	return nil
}

func (w *World) engines(store *terrain.Store, rng *pcore.RNG) (*flood.Manager, *freeze.Process, error) {
	floods, err := flood.NewManager(w.cfg.Flood, flood.Deps{
		Grid:       store,
		Catalog:    w.catalog,
		Clock:      w.clock,
		RNG:        rng,
		Conditions: w.weather,
		Logger:     w.log,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("flood engine: %w", err)
	}
	frz := freeze.New(w.cfg.Freeze, freeze.Deps{
		Grid:    store,
		Catalog: w.catalog,
		Claims:  floods,
		Logger:  w.log,
	})
	return floods, frz, nil
}

// Step advances one tick: due reversions, weather triggers, flood expansion,
// then the shared cell sample for freezing and flood upkeep.
func (w *World) Step() {
	w.clock.Tick++
	now := w.clock.Tick

	w.stats.Reverted += w.floods.DrainDue(now)
	w.trigger(now)
	w.floods.Advance(now)

	sample := w.sampler.Next()
	w.freeze.Visit(sample, w.weather.Temperature(now))
	w.floods.Upkeep(sample)

	w.refresh()
}

// trigger rolls the weather dice: rain events spawn rain floods, warm ticks
// may spawn seasonal floods.
func (w *World) trigger(now uint64) {
	p := w.cfg.Params
	temp := w.weather.Temperature(now)
	warm := temp >= w.cfg.Flood.MinTemperature

	if !w.weather.Raining(now) && warm && p.RainChance > 0 && w.rng.Chance(p.RainChance) {
		ticks := w.rng.RangeInt(p.RainTicksMin, p.RainTicksMax)
		w.weather.startRain(now, ticks)
		w.stats.RainEvents++
		w.log.Info("rain started", "tick", now, "ticks", ticks, "temperature", temp)
		w.spawn(flood.KindRain)
	}
	if float64(temp) >= p.SeasonalMinTemperature && p.SeasonalChance > 0 && w.rng.Chance(p.SeasonalChance) {
		w.stats.SeasonalTriggers++
		w.spawn(flood.KindSeasonal)
	}
}

func (w *World) spawn(kind flood.Kind) {
	if len(w.floods.Floods()) >= w.cfg.Params.MaxFloods {
		return
	}
	if _, err := w.floods.SpawnFlood(flood.SpawnRequest{Kind: kind}); err != nil {
		if errors.Is(err, flood.ErrKindUnavailable) {
			w.log.Debug("flood trigger ignored", "kind", kind.String(), "err", err)
			return
		}
		w.log.Error("flood spawn failed", "kind", kind.String(), "err", err)
	}
}

// SpawnFlood starts a flood on demand, bypassing the weather dice.
func (w *World) SpawnFlood(req flood.SpawnRequest) (flood.FloodID, error) {
	id, err := w.floods.SpawnFlood(req)
	if err == nil {
		w.refresh()
	}
	return id, err
}

func (w *World) refresh() {
	w.store.Visible(w.display)
	now := w.clock.Tick
	w.stats.Tick = now
	w.stats.Temperature = w.weather.Temperature(now)
	w.stats.Raining = w.weather.Raining(now)
	w.stats.Floods = len(w.floods.Floods())
	w.stats.FloodedCells = w.floods.FloodedCells()
	w.stats.FrozenCells = w.freeze.FrozenCells()
}

func init() {
	core.Register("waterworld", func(cfg map[string]string) (core.Sim, error) {
		w, err := NewWithConfig(FromMap(cfg), nil)
		if err != nil {
			return nil, err
		}
		return w, nil
	})
}
