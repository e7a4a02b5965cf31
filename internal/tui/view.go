// Package tui renders grid simulations in a terminal with tcell. Each
// terminal cell shows two grid rows using an upper half block.
package tui

import (
	"image/color"

	"floodsim/internal/core"

	"github.com/gdamore/tcell/v2"
)

const halfBlock = '▀'

type paletteProvider interface {
	Palette() []color.RGBA
}

type statusProvider interface {
	StatusLines() []string
}

type maskProvider interface {
	FloodMask() []float32
}

// View draws a viewport of the simulation grid plus a status line.
type View struct {
	screen tcell.Screen
	sim    core.Sim

	offX, offY  int
	showFloods  bool
	paused      bool
	statusStyle tcell.Style
}

// NewView binds a view to an initialized screen.
func NewView(screen tcell.Screen, sim core.Sim) *View {
	return &View{
		screen:      screen,
		sim:         sim,
		statusStyle: tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
	}
}

// Pan moves the viewport by dx columns and dz grid rows, clamped to the grid.
func (v *View) Pan(dx, dz int) {
	size := v.sim.Size()
	w, h := v.viewport()
	v.offX = max(0, min(v.offX+dx, size.W-w))
	v.offY = max(0, min(v.offY+dz, size.H-h))
}

// ToggleFloods switches the flood highlight.
func (v *View) ToggleFloods() { v.showFloods = !v.showFloods }

// SetPaused marks the status line as paused.
func (v *View) SetPaused(paused bool) { v.paused = paused }

// CellAt maps a terminal position to the grid cell in its upper half.
func (v *View) CellAt(x, y int) (core.Cell, bool) {
	c := core.Cell{X: v.offX + x, Z: v.offY + 2*y}
	w, h := v.viewport()
	if x < 0 || x >= w || 2*y >= h {
		return core.Cell{}, false
	}
	return c, v.sim.Size().Contains(c)
}

// viewport reports how many grid columns and rows fit above the status line.
func (v *View) viewport() (int, int) {
	sw, sh := v.screen.Size()
	size := v.sim.Size()
	return min(size.W, sw), min(size.H, 2*max(sh-1, 0))
}

// Draw renders the grid and status line and shows the frame.
func (v *View) Draw() {
	v.screen.Clear()
	size := v.sim.Size()
	cells := v.sim.Cells()
	var palette []color.RGBA
	if pp, ok := v.sim.(paletteProvider); ok {
		palette = pp.Palette()
	}
	var mask []float32
	if mp, ok := v.sim.(maskProvider); ok && v.showFloods {
		mask = mp.FloodMask()
	}

	colorAt := func(x, z int) tcell.Color {
		if z >= size.H {
			return tcell.ColorReset
		}
		idx := z*size.W + x
		var col color.RGBA
		switch {
		case len(palette) > 0:
			col = palette[min(int(cells[idx]), len(palette)-1)]
		case cells[idx] != 0:
			col = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		if mask != nil && mask[idx] > 0 {
			col = color.RGBA{R: col.R / 3, G: col.G / 3, B: 255, A: 255}
		}
		return tcell.NewRGBColor(int32(col.R), int32(col.G), int32(col.B))
	}

	w, h := v.viewport()
	for row := 0; row*2 < h; row++ {
		z := v.offY + row*2
		for col := 0; col < w; col++ {
			x := v.offX + col
			style := tcell.StyleDefault.Foreground(colorAt(x, z)).Background(colorAt(x, z+1))
			v.screen.SetContent(col, row, halfBlock, nil, style)
		}
	}
	v.drawStatus()
	v.screen.Show()
}

func (v *View) drawStatus() {
	sw, sh := v.screen.Size()
	if sh <= 0 {
		return
	}
	line := v.sim.Name()
	if sp, ok := v.sim.(statusProvider); ok {
		for _, s := range sp.StatusLines() {
			line += " | " + s
		}
	}
	if v.paused {
		line += " | paused"
	}
	y := sh - 1
	x := 0
	for _, r := range line {
		if x >= sw {
			break
		}
		v.screen.SetContent(x, y, r, nil, v.statusStyle)
		x++
	}
	for ; x < sw; x++ {
		v.screen.SetContent(x, y, ' ', nil, v.statusStyle)
	}
}
