//go:build ebiten

package ui

import (
	"image/color"

	"floodsim/internal/core"
	"floodsim/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type maskProvider interface {
	FloodMask() []float32
	FrostMask() []float32
}

type anchorProvider interface {
	FloodAnchors() []core.Cell
}

type maskLayer struct {
	show bool
	img  *ebiten.Image
	buf  []byte
}

// Overlay draws optional debugging visuals on top of the base simulation.
type Overlay struct {
	sim         core.Sim
	scale       int
	flood       maskLayer
	frost       maskLayer
	showAnchors bool
	pixel       *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: max(scale, 1)}
	o.flood.show = true
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update allows the overlay to update internal state.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.flood.show = !o.flood.show
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.frost.show = !o.frost.show
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showAnchors = !o.showAnchors
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if provider, ok := o.sim.(maskProvider); ok {
		if o.flood.show {
			o.drawMask(screen, &o.flood, size, provider.FloodMask(), color.RGBA{R: 40, G: 110, B: 255}, 150)
		}
		if o.frost.show {
			o.drawMask(screen, &o.frost, size, provider.FrostMask(), color.RGBA{R: 235, G: 245, B: 255}, 170)
		}
	}
	if o.showAnchors {
		if provider, ok := o.sim.(anchorProvider); ok {
			dot := float64(o.scale) * 2
			for _, c := range provider.FloodAnchors() {
				x := (float64(c.X) + 0.5) * float64(o.scale)
				y := (float64(c.Z) + 0.5) * float64(o.scale)
				o.drawPoint(screen, x, y, dot, color.RGBA{R: 255, G: 80, B: 60, A: 230})
			}
		}
	}
}

func (o *Overlay) drawMask(screen *ebiten.Image, layer *maskLayer, size core.Size, mask []float32, tint color.RGBA, maxAlpha uint8) {
	total := size.Area()
	if len(mask) != total {
		return
	}
	if layer.img == nil || layer.img.Bounds().Dx() != size.W || layer.img.Bounds().Dy() != size.H {
		layer.img = ebiten.NewImage(size.W, size.H)
		layer.buf = make([]byte, 4*total)
	}
	render.FillMaskRGBA(layer.buf, mask, tint, maxAlpha)
	layer.img.ReplacePixels(layer.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(layer.img, op)
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}
