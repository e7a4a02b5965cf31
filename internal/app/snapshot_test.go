package app

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"floodsim/internal/core"
	"floodsim/internal/sims/waterworld"
)

type plainSim struct{}

func (plainSim) Name() string { return "plain" }
func (plainSim) Size() core.Size { return core.Size{W: 1, H: 1} }
func (plainSim) Reset(int64) {}
func (plainSim) Step() {}
func (plainSim) Cells() []uint8 { return []uint8{0} }

func TestSnapshotFileRoundTrip(t *testing.T) {
	params := map[string]string{"w": "32", "h": "24", "seed": "11"}
	sim, err := core.New("waterworld", params)
	if err != nil {
		t.Fatalf("core.New: %v", err)
	}
	for range 120 {
		sim.Step()
	}
	path := filepath.Join(t.TempDir(), "world.json")
	if err := SaveSnapshot(sim, path); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	params["seed"] = "12"
	other, err := core.New("waterworld", params)
	if err != nil {
		t.Fatalf("core.New: %v", err)
	}
	if err := LoadSnapshot(other, path); err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if !slices.Equal(sim.Cells(), other.Cells()) {
		t.Fatal("loaded world differs from saved world")
	}
	if got := other.(*waterworld.World).Tick(); got != 120 {
		t.Fatalf("expected tick 120 after load, got %d", got)
	}
}

func TestSnapshotRequiresPersister(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	if err := SaveSnapshot(plainSim{}, path); !errors.Is(err, ErrNotPersistent) {
		t.Fatalf("expected ErrNotPersistent, got %v", err)
	}
	if err := LoadSnapshot(plainSim{}, path); !errors.Is(err, ErrNotPersistent) {
		t.Fatalf("expected ErrNotPersistent, got %v", err)
	}
}
