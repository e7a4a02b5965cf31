package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"floodsim/internal/core"
)

// ErrNotPersistent reports a simulation without snapshot support.
var ErrNotPersistent = errors.New("simulation does not support snapshots")

// Persister is implemented by simulations that can save and load snapshots.
type Persister interface {
	Save(out io.Writer) error
	Load(in io.Reader) error
}

// LoadSnapshot restores sim from the file at path.
func LoadSnapshot(sim core.Sim, path string) error {
	p, ok := sim.(Persister)
	if !ok {
		return fmt.Errorf("%s: %w", sim.Name(), ErrNotPersistent)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := p.Load(f); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// SaveSnapshot writes sim to the file at path.
func SaveSnapshot(sim core.Sim, path string) error {
	p, ok := sim.(Persister)
	if !ok {
		return fmt.Errorf("%s: %w", sim.Name(), ErrNotPersistent)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}
