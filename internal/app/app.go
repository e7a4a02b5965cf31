//go:build ebiten

package app

import (
	"image/color"
	"log/slog"
	"time"

	"floodsim/internal/core"
	"floodsim/internal/flood"
	"floodsim/internal/render"
	"floodsim/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

type floodSpawner interface {
	SpawnFlood(req flood.SpawnRequest) (flood.FloodID, error)
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	log     *slog.Logger

	onColor  color.Color
	offColor color.Color

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
	savePath string
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg *Config, log *slog.Logger) *Game {
	if log == nil {
		log = slog.Default()
	}
	scale := max(cfg.Scale, 1)
	gp := render.NewGridPainter(sim.Size().W, sim.Size().H)
	return &Game{
		sim:      sim,
		painter:  gp,
		overlay:  ui.NewOverlay(sim, scale),
		hud:      ui.NewHUD(sim, cfg.HUDWidth),
		log:      log,
		onColor:  color.White,
		offColor: color.Black,
		scale:    scale,
		hudWidth: max(cfg.HUDWidth, 0),
		seed:     cfg.Seed,
		savePath: cfg.Save,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.spawnAtCursor(flood.KindSeasonal)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.spawnAtCursor(flood.KindRain)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.save()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		g.load()
	}

	if g.overlay != nil {
		g.overlay.Update()
	}
	if g.hud != nil {
		g.hud.Update(g.sim.Size().W * g.scale)
	}

	if (!g.paused) || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// spawnAtCursor starts a flood seeded at the cell under the mouse. Outside
// the grid the kind's own seed search is used.
func (g *Game) spawnAtCursor(kind flood.Kind) {
	spawner, ok := g.sim.(floodSpawner)
	if !ok {
		return
	}
	req := flood.SpawnRequest{Kind: kind}
	mx, my := ebiten.CursorPosition()
	cell := core.Cell{X: mx / g.scale, Z: my / g.scale}
	if g.sim.Size().Contains(cell) {
		req.Seeds = []core.Cell{cell}
	}
	id, err := spawner.SpawnFlood(req)
	if err != nil {
		g.log.Warn("spawn failed", "kind", kind.String(), "err", err)
		return
	}
	g.log.Info("spawned flood", "id", id, "kind", kind.String())
}

func (g *Game) save() {
	if g.savePath == "" {
		return
	}
	if err := SaveSnapshot(g.sim, g.savePath); err != nil {
		g.log.Error("save failed", "err", err)
		return
	}
	g.log.Info("saved snapshot", "path", g.savePath)
}

func (g *Game) load() {
	if g.savePath == "" {
		return
	}
	if err := LoadSnapshot(g.sim, g.savePath); err != nil {
		g.log.Error("load failed", "err", err)
	}
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	if pp, ok := g.sim.(paletteProvider); ok {
		g.painter.BlitPalette(screen, g.sim.Cells(), pp.Palette(), g.scale)
	} else {
		g.painter.Blit(screen, g.sim.Cells(), g.onColor, g.offColor, g.scale)
	}
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
	if g.hud != nil {
		g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
