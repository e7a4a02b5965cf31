package waterworld

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"floodsim/internal/core"
	"floodsim/internal/flood"
	"floodsim/internal/freeze"
	"floodsim/internal/terrain"
	pcore "floodsim/pkg/core"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

var (
	// ErrSnapshotVersion reports a snapshot written by an incompatible build.
	ErrSnapshotVersion = errors.New("waterworld: unsupported snapshot version")
	// ErrSnapshotSize reports a snapshot taken on a differently sized world.
	ErrSnapshotSize = errors.New("waterworld: snapshot size mismatch")
)

// Snapshot is the full persisted state of a world. Everything is flat data;
// the sampler permutation is re-derived from Seed.
type Snapshot struct {
	Version       int           `json:"version" jsonschema:"description=Snapshot layout version"`
	Seed          int64         `json:"seed" jsonschema:"description=Seed the world was reset with"`
	Tick          uint64        `json:"tick"`
	RNG           []byte        `json:"rng" jsonschema:"description=Serialized generator state"`
	SamplerCursor int           `json:"samplerCursor"`
	Terrain       terrain.State `json:"terrain"`
	Floods        flood.State   `json:"floods"`
	Freeze        freeze.State  `json:"freeze"`
	Weather       WeatherState  `json:"weather"`
}

// Snapshot captures the current state.
func (w *World) Snapshot() (Snapshot, error) {
	rngState, err := w.rng.MarshalBinary()
	if err != nil {
		return Snapshot{}, fmt.Errorf("rng state: %w", err)
	}
	return Snapshot{
		Version:       SnapshotVersion,
		Seed:          w.cfg.Seed,
		Tick:          w.clock.Tick,
		RNG:           rngState,
		SamplerCursor: w.sampler.Cursor(),
		Terrain:       w.store.State(),
		Floods:        w.floods.Save(),
		Freeze:        w.freeze.State(),
		Weather:       WeatherState{RainUntil: w.weather.rainUntil},
	}, nil
}

// Restore replaces the world state with snap. The world is left untouched
// when any part fails to restore.
func (w *World) Restore(snap Snapshot) error {
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("version %d: %w", snap.Version, ErrSnapshotVersion)
	}
	if snap.Terrain.Size != w.size {
		return fmt.Errorf("snapshot is %dx%d, world is %dx%d: %w",
			snap.Terrain.Size.W, snap.Terrain.Size.H, w.size.W, w.size.H, ErrSnapshotSize)
	}

	rng := pcore.NewRNG(snap.Seed)
	sampler := core.NewCellSampler(w.size, w.cfg.Params.SampleFraction, rng.Source())
	sampler.SetCursor(snap.SamplerCursor)
	if err := rng.UnmarshalBinary(snap.RNG); err != nil {
		return fmt.Errorf("rng state: %w", err)
	}
	store, err := terrain.RestoreStore(snap.Terrain)
	if err != nil {
		return err
	}

	prevTick := w.clock.Tick
	w.clock.Tick = snap.Tick
	floods, frz, err := w.engines(store, rng)
	if err == nil {
		err = floods.Restore(snap.Floods)
	}
	if err == nil {
		err = frz.Restore(snap.Freeze)
	}
	if err != nil {
		w.clock.Tick = prevTick
		return err
	}

	w.cfg.Seed = snap.Seed
	w.rng = rng
	w.sampler = sampler
	w.store = store
	w.floods = floods
	w.freeze = frz
	w.weather.rainUntil = snap.Weather.RainUntil
	w.stats = Stats{}
	w.refresh()
	w.log.Info("world restored", "tick", snap.Tick, "floods", len(floods.Floods()))
	return nil
}

// Save writes the current state as JSON.
func (w *World) Save(out io.Writer) error {
	snap, err := w.Snapshot()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", " ")
	return enc.Encode(snap)
}

// Load reads a JSON snapshot written by Save and restores it.
func (w *World) Load(in io.Reader) error {
	var snap Snapshot
	if err := json.NewDecoder(in).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return w.Restore(snap)
}
