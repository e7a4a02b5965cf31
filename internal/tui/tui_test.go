package tui

import (
	"image/color"
	"strings"
	"testing"

	"floodsim/internal/core"
	"floodsim/internal/flood"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSim struct {
	size   core.Size
	cells  []uint8
	steps  int
	resets []int64
	spawns []flood.SpawnRequest
}

func newFakeSim(w, h int) *fakeSim {
	s := &fakeSim{size: core.Size{W: w, H: h}, cells: make([]uint8, w*h)}
	for i := range s.cells {
		s.cells[i] = uint8(i % 2)
	}
	return s
}

func (s *fakeSim) Name() string { return "fake" }
func (s *fakeSim) Size() core.Size { return s.size }
func (s *fakeSim) Reset(seed int64) { s.resets = append(s.resets, seed) }
func (s *fakeSim) Step() { s.steps++ }
func (s *fakeSim) Cells() []uint8 { return s.cells }

func (s *fakeSim) Palette() []color.RGBA {
	return []color.RGBA{{R: 10, G: 20, B: 30, A: 255}, {R: 200, G: 100, B: 50, A: 255}}
}

func (s *fakeSim) StatusLines() []string { return []string{"tick 3"} }

func (s *fakeSim) SpawnFlood(req flood.SpawnRequest) (flood.FloodID, error) {
	s.spawns = append(s.spawns, req)
	return flood.FloodID(len(s.spawns)), nil
}

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)
	return screen
}

func TestDrawPacksTwoRowsPerLine(t *testing.T) {
	screen := newScreen(t, 4, 3)
	sim := newFakeSim(4, 4)
	NewView(screen, sim).Draw()

	contents, w, _ := screen.GetContents()
	require.Equal(t, 4, w)
	top := contents[0]
	require.Equal(t, []rune{halfBlock}, top.Runes)
	fg, bg, _ := top.Style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(10, 20, 30), fg, "row 0 col 0 uses palette entry 0")
	assert.Equal(t, tcell.NewRGBColor(10, 20, 30), bg, "row 1 col 0 is cell 4, palette entry 0")

	second := contents[1]
	fg, _, _ = second.Style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(200, 100, 50), fg)

	var status strings.Builder
	for x := 0; x < w; x++ {
		status.WriteString(string(contents[2*w+x].Runes))
	}
	assert.Equal(t, "fake", status.String())
}

func TestPanAndCellAt(t *testing.T) {
	screen := newScreen(t, 10, 5)
	sim := newFakeSim(30, 20)
	view := NewView(screen, sim)

	c, ok := view.CellAt(2, 1)
	require.True(t, ok)
	assert.Equal(t, core.Cell{X: 2, Z: 2}, c)

	view.Pan(100, 100)
	c, ok = view.CellAt(0, 0)
	require.True(t, ok)
	assert.Equal(t, core.Cell{X: 20, Z: 12}, c, "pan clamps to the last full viewport")

	_, ok = view.CellAt(0, 4)
	assert.False(t, ok, "status line is not part of the grid")
}

func TestHandleKeys(t *testing.T) {
	screen := newScreen(t, 8, 4)
	sim := newFakeSim(8, 6)
	r := NewRunner(screen, sim, Options{TPS: 10, Seed: 9})

	assert.True(t, r.Handle(tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone)))
	assert.Equal(t, 1, sim.steps)

	assert.True(t, r.Handle(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)))
	assert.True(t, r.paused)

	assert.True(t, r.Handle(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone)))
	assert.Equal(t, []int64{9}, sim.resets)

	assert.True(t, r.Handle(tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone)))
	require.Len(t, sim.spawns, 1)
	assert.Equal(t, flood.KindRain, sim.spawns[0].Kind)

	assert.True(t, r.Handle(tcell.NewEventMouse(3, 1, tcell.Button1, tcell.ModNone)))
	require.Len(t, sim.spawns, 2)
	assert.Equal(t, []core.Cell{{X: 3, Z: 2}}, sim.spawns[1].Seeds)

	assert.False(t, r.Handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, r.Handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestSaveLoadKeys(t *testing.T) {
	screen := newScreen(t, 8, 4)
	saved, loaded := 0, 0
	r := NewRunner(screen, newFakeSim(8, 6), Options{
		Save: func() error { saved++; return nil },
		Load: func() error { loaded++; return nil },
	})
	r.Handle(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone))
	r.Handle(tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone))
	assert.Equal(t, 1, saved)
	assert.Equal(t, 1, loaded)
}
