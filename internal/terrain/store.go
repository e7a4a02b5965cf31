package terrain

import (
	"errors"
	"fmt"

	"floodsim/internal/core"
)

// ErrStateSize reports a persisted store whose layers do not match its size.
var ErrStateSize = errors.New("terrain: state size mismatch")

// Store keeps the real terrain of every cell plus an optional temporary
// override. Reverting drops the override, so the original terrain is always
// restored exactly.
type Store struct {
	size core.Size
	base []ID
	temp []ID
	fog  []bool
}

// NewStore allocates a store filled with fill.
func NewStore(size core.Size, fill ID) *Store {
	if size.W <= 0 {
		size.W = 1
	}
	if size.H <= 0 {
		size.H = 1
	}
	total := size.Area()
	s := &Store{
		size: size,
		base: make([]ID, total),
		temp: make([]ID, total),
		fog:  make([]bool, total),
	}
	for i := range s.base {
		s.base[i] = fill
	}
	return s
}

func (s *Store) Size() core.Size { return s.size }

func (s *Store) InBounds(c core.Cell) bool { return s.size.Contains(c) }

// Terrain returns what the cell currently shows: the override if present,
// otherwise the original. Out-of-bounds cells report None.
func (s *Store) Terrain(c core.Cell) ID {
	if !s.size.Contains(c) {
		return None
	}
	i := s.size.Index(c)
	if s.temp[i] != None {
		return s.temp[i]
	}
	return s.base[i]
}

// OriginalTerrain ignores any temporary override.
func (s *Store) OriginalTerrain(c core.Cell) ID {
	if !s.size.Contains(c) {
		return None
	}
	return s.base[s.size.Index(c)]
}

// HasTemporaryTerrain reports whether an override is active at c.
func (s *Store) HasTemporaryTerrain(c core.Cell) bool {
	if !s.size.Contains(c) {
		return false
	}
	return s.temp[s.size.Index(c)] != None
}

// SetTemporaryTerrain overrides the visible terrain at c without touching the
// original.
func (s *Store) SetTemporaryTerrain(c core.Cell, id ID) {
	if !s.size.Contains(c) {
		return
	}
	s.temp[s.size.Index(c)] = id
}

// RevertTerrain drops any override at c. Reverting a cell without an override
// is a no-op.
func (s *Store) RevertTerrain(c core.Cell) {
	if !s.size.Contains(c) {
		return
	}
	s.temp[s.size.Index(c)] = None
}

// SetTerrain replaces the original terrain at c. Map building uses it; the
// flood engine never does.
func (s *Store) SetTerrain(c core.Cell, id ID) {
	if !s.size.Contains(c) {
		return
	}
	s.base[s.size.Index(c)] = id
}

// NeighborsCardinal returns the N, E, S, W neighbours of c. They may be out of
// bounds; check with InBounds before use.
func (s *Store) NeighborsCardinal(c core.Cell) [4]core.Cell { return c.Cardinal() }

func (s *Store) Fogged(c core.Cell) bool {
	if !s.size.Contains(c) {
		return true
	}
	return s.fog[s.size.Index(c)]
}

func (s *Store) SetFogged(c core.Cell, fogged bool) {
	if !s.size.Contains(c) {
		return
	}
	s.fog[s.size.Index(c)] = fogged
}

// Visible writes the visible terrain of every cell into dst as display bytes.
func (s *Store) Visible(dst []uint8) {
	for i := range dst {
		if i >= len(s.base) {
			return
		}
		id := s.base[i]
		if s.temp[i] != None {
			id = s.temp[i]
		}
		dst[i] = uint8(id)
	}
}

// State is the flat persisted form of a Store.
type State struct {
	Size      core.Size `json:"size"`
	Original  []ID      `json:"original"`
	Temporary []ID      `json:"temporary"`
	Fog       []bool    `json:"fog,omitempty"`
}

// State snapshots the store.
func (s *Store) State() State {
	st := State{
		Size:      s.size,
		Original:  append([]ID(nil), s.base...),
		Temporary: append([]ID(nil), s.temp...),
	}
	for _, f := range s.fog {
		if f {
			st.Fog = append([]bool(nil), s.fog...)
			break
		}
	}
	return st
}

// RestoreStore rebuilds a store from persisted state.
func RestoreStore(st State) (*Store, error) {
	total := st.Size.Area()
	if total == 0 || len(st.Original) != total || len(st.Temporary) != total {
		return nil, fmt.Errorf("%dx%d with %d/%d cells: %w",
			st.Size.W, st.Size.H, len(st.Original), len(st.Temporary), ErrStateSize)
	}
	if st.Fog != nil && len(st.Fog) != total {
		return nil, fmt.Errorf("fog layer has %d cells: %w", len(st.Fog), ErrStateSize)
	}
	s := &Store{
		size: st.Size,
		base: append([]ID(nil), st.Original...),
		temp: append([]ID(nil), st.Temporary...),
		fog:  make([]bool, total),
	}
	copy(s.fog, st.Fog)
	return s, nil
}
