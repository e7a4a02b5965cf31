package waterworld

import (
	"fmt"

	"floodsim/internal/core"
)

// FloodMask returns per-cell flood intensity in [0,1]: 1 while a claim has
// more than its width left, fading to 0 over the final width ticks.
func (w *World) FloodMask() []float32 {
	total := w.size.Area()
	if len(w.floodMask) != total {
		w.floodMask = make([]float32, total)
	}
	clear(w.floodMask)
	now := w.clock.Tick
	for _, id := range w.floods.Floods() {
		in, ok := w.floods.Flood(id)
		if !ok {
			continue
		}
		for _, c := range in.LiveCells() {
			left, _ := in.Remaining(c, now)
			cl, _ := in.Claim(c)
			intensity := float32(1)
			if cl.Width > 0 && left < uint64(cl.Width) {
				intensity = float32(left) / float32(cl.Width)
			}
			w.floodMask[w.size.Index(c)] = max(intensity, 0.1)
		}
	}
	return w.floodMask
}

// FrostMask returns per-cell frost relative to the freeze threshold.
func (w *World) FrostMask() []float32 {
	total := w.size.Area()
	if len(w.frostMask) != total {
		w.frostMask = make([]float32, total)
	}
	threshold := float32(max(w.cfg.Freeze.FrostThreshold, 1))
	for idx := range total {
		c := w.size.CellAt(idx)
		if w.freeze.Frozen(c) {
			w.frostMask[idx] = 1
			continue
		}
		w.frostMask[idx] = min(float32(w.freeze.Frost(c))/threshold, 1)
	}
	return w.frostMask
}

// FloodAnchors returns the anchor cell reported by each running seasonal
// flood.
func (w *World) FloodAnchors() []core.Cell {
	var out []core.Cell
	for _, id := range w.floods.Floods() {
		in, ok := w.floods.Flood(id)
		if !ok {
			continue
		}
		if c, ok := in.Anchor(); ok {
			out = append(out, c)
		}
	}
	return out
}

// StatusLines summarizes the world for text panels.
func (w *World) StatusLines() []string {
	st := w.stats
	weather := "dry"
	if st.Raining {
		weather = "raining"
	}
	return []string{
		fmt.Sprintf("tick %d", st.Tick),
		fmt.Sprintf("%.1f°C %s", st.Temperature, weather),
		fmt.Sprintf("floods %d (%d cells)", st.Floods, st.FloodedCells),
		fmt.Sprintf("frozen %d cells", st.FrozenCells),
		fmt.Sprintf("reverted %d", st.Reverted),
	}
}
