package flood

import (
	"fmt"
	"iter"
	"log/slog"

	"floodsim/internal/core"

	"github.com/zyedidia/generic/heap"
)

// Entry is one pending reversion.
type Entry struct {
	Cell  core.Cell
	Tick  uint64
	Owner FloodID
	seq   uint64
}

func entryLess(a, b Entry) bool {
	if a.Tick != b.Tick {
		return a.Tick < b.Tick
	}
	return a.seq < b.seq
}

// Scheduler orders pending reversions of every flood by tick. Entries sharing
// a tick fire in the order they were scheduled.
type Scheduler struct {
	h   *heap.Heap[Entry]
	seq uint64
	log *slog.Logger
}

// NewScheduler returns an empty scheduler. A nil logger uses slog.Default.
func NewScheduler(log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{h: heap.New[Entry](entryLess), log: log}
}

// Schedule queues a reversion of c at tick on behalf of owner. Duplicates are
// not detected; a second revert of the same cell is a no-op in the store.
func (s *Scheduler) Schedule(c core.Cell, tick uint64, owner FloodID) {
	s.seq++
	s.h.Push(Entry{Cell: c, Tick: tick, Owner: owner, seq: s.seq})
}

// Len reports the number of pending entries.
func (s *Scheduler) Len() int { return s.h.Size() }

// NextTick returns the tick of the earliest pending entry.
func (s *Scheduler) NextTick() (uint64, bool) {
	e, ok := s.h.Peek()
	return e.Tick, ok
}

// DrainDue pops every entry whose tick is at or before now. For each entry
// that passes guard (a nil guard accepts everything) the cell is reverted
// through grid and the entry is yielded. Entries that fail the guard are
// stale and dropped silently; out-of-bounds entries are logged and dropped.
//
// Entries are popped lazily as the sequence is consumed, so stopping the
// range early leaves the rest pending.
func (s *Scheduler) DrainDue(now uint64, grid Reverter, guard func(Entry) bool) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for {
			next, ok := s.h.Peek()
			if !ok || next.Tick > now {
				return
			}
			e, _ := s.h.Pop()
			if !grid.InBounds(e.Cell) {
				s.log.Warn("dropping reversion for out-of-bounds cell",
					"x", e.Cell.X, "z", e.Cell.Z, "tick", e.Tick, "flood", e.Owner)
				continue
			}
			if guard != nil && !guard(e) {
				continue
			}
			grid.RevertTerrain(e.Cell)
			if !yield(e) {
				return
			}
		}
	}
}

// Entries returns every pending entry in firing order without consuming them.
func (s *Scheduler) Entries() []Entry {
	out := make([]Entry, 0, s.h.Size())
	for {
		e, ok := s.h.Pop()
		if !ok {
			break
		}
		out = append(out, e)
	}
	s.rebuild(out)
	return out
}

// Cancel removes every entry owned by owner and returns how many were dropped.
func (s *Scheduler) Cancel(owner FloodID) int {
	all := s.Entries()
	kept := all[:0]
	for _, e := range all {
		if e.Owner != owner {
			kept = append(kept, e)
		}
	}
	dropped := len(all) - len(kept)
	if dropped > 0 {
		s.rebuild(kept)
	}
	return dropped
}

// rebuild replaces the heap with a copy of entries so callers keep ownership
// of the slice they passed in.
func (s *Scheduler) rebuild(entries []Entry) {
	s.h = heap.From[Entry](entryLess, append([]Entry(nil), entries...)...)
}

// SchedulerState is the persisted form: parallel lists in firing order.
type SchedulerState struct {
	Cells  []core.Cell `json:"cells"`
	Ticks  []uint64    `json:"ticks"`
	Owners []FloodID   `json:"owners"`
}

// State snapshots all pending entries.
func (s *Scheduler) State() SchedulerState {
	entries := s.Entries()
	st := SchedulerState{
		Cells:  make([]core.Cell, len(entries)),
		Ticks:  make([]uint64, len(entries)),
		Owners: make([]FloodID, len(entries)),
	}
	for i, e := range entries {
		st.Cells[i] = e.Cell
		st.Ticks[i] = e.Tick
		st.Owners[i] = e.Owner
	}
	return st
}

// RestoreScheduler rebuilds a scheduler from persisted lists. List order is
// kept as the tie-break order within a tick.
func RestoreScheduler(st SchedulerState, log *slog.Logger) (*Scheduler, error) {
	if len(st.Cells) != len(st.Ticks) || len(st.Cells) != len(st.Owners) {
		return nil, fmt.Errorf("scheduler lists have %d cells, %d ticks, %d owners: %w",
			len(st.Cells), len(st.Ticks), len(st.Owners), ErrCorruptState)
	}
	s := NewScheduler(log)
	for i := range st.Cells {
		s.Schedule(st.Cells[i], st.Ticks[i], st.Owners[i])
	}
	return s, nil
}
