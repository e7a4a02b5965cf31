package waterworld

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math"
	"slices"
	"testing"

	"floodsim/internal/core"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 48
	cfg.Height = 32
	cfg.Seed = 99
	cfg.Params.LakeCount = 3
	cfg.Params.LakeRadiusMin = 3
	cfg.Params.LakeRadiusMax = 6
	cfg.Params.RiverCount = 1
	cfg.Params.MarshPatches = 2
	cfg.Params.SampleFraction = 0.05
	cfg.Params.YearTicks = 400
	cfg.Params.MeanTemperature = 4
	cfg.Params.TemperatureAmplitude = 10
	cfg.Params.RainChance = 0.02
	cfg.Params.RainTicksMin = 20
	cfg.Params.RainTicksMax = 60
	cfg.Params.SeasonalChance = 0.02
	cfg.Params.SeasonalMinTemperature = 2
	cfg.Params.MaxFloods = 4
	cfg.Flood.WidthMin = 5
	cfg.Flood.WidthMax = 20
	cfg.Flood.Seasonal.Coverage = 0.05
	cfg.Flood.Seasonal.RemainMin = 100
	cfg.Flood.Seasonal.RemainMax = 200
	cfg.Flood.Rain.Coverage = 0.04
	cfg.Flood.Rain.BaseDuration = 200
	return cfg
}

func newTestWorld(t *testing.T, cfg Config) *World {
	t.Helper()
	w, err := NewWithConfig(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	return w
}

func countOverrides(w *World) int {
	size := w.Size()
	n := 0
	for idx := 0; idx < size.Area(); idx++ {
		if w.Store().HasTemporaryTerrain(size.CellAt(idx)) {
			n++
		}
	}
	return n
}

func TestResetDeterministic(t *testing.T) {
	world := newTestWorld(t, testConfig())
	initial := append([]uint8(nil), world.Cells()...)
	for range 50 {
		world.Step()
	}

	world.Reset(0)
	if !slices.Equal(initial, world.Cells()) {
		t.Fatal("Reset with config seed not deterministic for display buffer")
	}
	if world.Tick() != 0 {
		t.Fatalf("expected tick to restart at 0, got %d", world.Tick())
	}

	other := newTestWorld(t, testConfig())
	for i := 0; i < 300; i++ {
		world.Step()
		other.Step()
		if !slices.Equal(world.Cells(), other.Cells()) {
			t.Fatalf("worlds with equal seeds diverged at tick %d", world.Tick())
		}
	}

	world.Reset(777)
	if slices.Equal(initial, world.Cells()) {
		t.Fatal("different seeds should produce different maps")
	}
}

func TestEveryOverrideHasOneOwner(t *testing.T) {
	world := newTestWorld(t, testConfig())
	sawFlood, sawIce := false, false
	for i := 0; i < 1600; i++ {
		world.Step()
		st := world.Stats()
		if got, want := countOverrides(world), st.FloodedCells+st.FrozenCells; got != want {
			t.Fatalf("tick %d: %d overrides but %d flooded + %d frozen", st.Tick, got, st.FloodedCells, st.FrozenCells)
		}
		sawFlood = sawFlood || st.FloodedCells > 0
		sawIce = sawIce || st.FrozenCells > 0
	}
	if !sawFlood {
		t.Fatal("expected weather to trigger at least one flood")
	}
	if !sawIce {
		t.Fatal("expected the cold season to freeze some water")
	}
}

func TestColdWorldFreezesAndNeverFloods(t *testing.T) {
	cfg := testConfig()
	cfg.Params.MeanTemperature = -10
	cfg.Params.TemperatureAmplitude = 0
	world := newTestWorld(t, cfg)

	cycle := int(math.Ceil(1 / cfg.Params.SampleFraction))
	for i := 0; i < cycle; i++ {
		world.Step()
	}
	st := world.Stats()
	if st.FrozenCells == 0 {
		t.Fatal("expected still water to freeze within one sampling cycle")
	}
	if st.Floods != 0 || st.FloodedCells != 0 || st.RainEvents != 0 {
		t.Fatalf("expected no floods in the cold, got %+v", st)
	}
}

func TestTemperatureCurve(t *testing.T) {
	world := newTestWorld(t, testConfig())
	wt := world.Weather()
	cases := []struct {
		tick uint64
		want float64
	}{
		{0, 4},
		{100, 14},
		{200, 4},
		{300, -6},
		{400, 4},
	}
	for _, tc := range cases {
		if got := float64(wt.Temperature(tc.tick)); math.Abs(got-tc.want) > 1e-3 {
			t.Fatalf("Temperature(%d) = %f, want %f", tc.tick, got, tc.want)
		}
	}
}

func TestSaveLoadContinues(t *testing.T) {
	cfg := testConfig()
	world := newTestWorld(t, cfg)
	for range 350 {
		world.Step()
	}

	var buf bytes.Buffer
	if err := world.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cfg.Seed = 5
	loaded := newTestWorld(t, cfg)
	if err := loaded.Load(&buf); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Tick() != world.Tick() {
		t.Fatalf("expected tick %d after load, got %d", world.Tick(), loaded.Tick())
	}
	if !slices.Equal(world.Cells(), loaded.Cells()) {
		t.Fatal("loaded display differs from saved world")
	}

	for i := 0; i < 400; i++ {
		world.Step()
		loaded.Step()
		if !slices.Equal(world.Cells(), loaded.Cells()) {
			t.Fatalf("loaded world diverged at tick %d", world.Tick())
		}
		a, b := world.Stats(), loaded.Stats()
		if a.FloodedCells != b.FloodedCells || a.FrozenCells != b.FrozenCells || a.Floods != b.Floods {
			t.Fatalf("stats diverged at tick %d: %+v vs %+v", a.Tick, a, b)
		}
	}
}

func TestRestoreRejectsMismatchedSnapshots(t *testing.T) {
	world := newTestWorld(t, testConfig())
	snap, err := world.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	cfg := testConfig()
	cfg.Width = 40
	smaller := newTestWorld(t, cfg)
	if err := smaller.Restore(snap); !errors.Is(err, ErrSnapshotSize) {
		t.Fatalf("expected ErrSnapshotSize, got %v", err)
	}

	snap.Version = SnapshotVersion + 1
	if err := world.Restore(snap); !errors.Is(err, ErrSnapshotVersion) {
		t.Fatalf("expected ErrSnapshotVersion, got %v", err)
	}
}

func TestFromMapClampsRanges(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w":               "64",
		"h":               "-3",
		"lake_radius_min": "9",
		"lake_radius_max": "2",
		"rain_chance":     "0.5",
		"flood_width_min": "40",
		"flood_width_max": "10",
		"freeze_below":    "3",
		"thaw_above":      "1",
		"frost_threshold": "300",
		"mean_temp":       "-4.5",
	})
	def := DefaultConfig()
	if cfg.Width != 64 || cfg.Height != def.Height {
		t.Fatalf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Params.LakeRadiusMax != 9 {
		t.Fatalf("expected inverted lake radius to clamp to 9, got %d", cfg.Params.LakeRadiusMax)
	}
	if cfg.Params.RainChance != 0.5 || cfg.Params.MeanTemperature != -4.5 {
		t.Fatalf("unexpected weather params %+v", cfg.Params)
	}
	if cfg.Flood.WidthMin != 40 || cfg.Flood.WidthMax != 40 {
		t.Fatalf("expected width range 40..40, got %d..%d", cfg.Flood.WidthMin, cfg.Flood.WidthMax)
	}
	if cfg.Freeze.ThawAbove != 3 {
		t.Fatalf("expected thaw threshold to clamp to freeze threshold, got %f", cfg.Freeze.ThawAbove)
	}
	if cfg.Freeze.FrostThreshold != def.Freeze.FrostThreshold {
		t.Fatalf("expected out-of-range frost threshold to be ignored, got %d", cfg.Freeze.FrostThreshold)
	}
}

func TestParameterSetters(t *testing.T) {
	world := newTestWorld(t, testConfig())

	if !world.SetFloatParameter("rain_chance", 3) {
		t.Fatal("expected rain chance to be adjustable")
	}
	if got := world.Config().Params.RainChance; got != 1 {
		t.Fatalf("expected rain chance to clamp to 1, got %f", got)
	}
	if world.SetFloatParameter("lake_count", 2) {
		t.Fatal("map parameters must not be adjustable at runtime")
	}
	if !world.SetIntParameter("max_floods", -2) || world.Config().Params.MaxFloods != 0 {
		t.Fatal("expected max floods to clamp to 0")
	}

	p, ok := world.Parameters().Lookup("rain_chance")
	if !ok || p.Value != "1" {
		t.Fatalf("expected snapshot to report rain_chance=1, got %+v", p)
	}
	for _, ctrl := range world.ParameterControls() {
		if _, ok := world.Parameters().Lookup(ctrl.Key); !ok {
			t.Fatalf("control %q missing from parameter snapshot", ctrl.Key)
		}
	}
}

func TestMasksFollowOwnership(t *testing.T) {
	world := newTestWorld(t, testConfig())
	for range 1200 {
		world.Step()
	}
	flooded := world.FloodMask()
	frost := world.FrostMask()
	size := world.Size()
	for idx := 0; idx < size.Area(); idx++ {
		c := size.CellAt(idx)
		if claimed := world.Floods().Claimed(c); claimed != (flooded[idx] > 0) {
			t.Fatalf("flood mask at %v = %f but claimed=%v", c, flooded[idx], claimed)
		}
		if world.Freeze().Frozen(c) && frost[idx] != 1 {
			t.Fatalf("frozen cell %v should have full frost mask, got %f", c, frost[idx])
		}
		if frost[idx] < 0 || frost[idx] > 1 {
			t.Fatalf("frost mask out of range at %v: %f", c, frost[idx])
		}
	}
	if len(world.StatusLines()) == 0 {
		t.Fatal("expected status lines")
	}
}

func TestRegistered(t *testing.T) {
	sim, err := core.New("waterworld", map[string]string{"w": "20", "h": "10"})
	if err != nil {
		t.Fatalf("core.New: %v", err)
	}
	if got := sim.Size(); got != (core.Size{W: 20, H: 10}) {
		t.Fatalf("unexpected size %+v", got)
	}
	if len(sim.Cells()) != 200 {
		t.Fatalf("expected 200 cells, got %d", len(sim.Cells()))
	}
}
