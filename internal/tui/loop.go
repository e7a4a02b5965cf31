package tui

import (
	"context"
	"log/slog"
	"time"

	"floodsim/internal/core"
	"floodsim/internal/flood"

	"github.com/gdamore/tcell/v2"
)

type floodSpawner interface {
	SpawnFlood(req flood.SpawnRequest) (flood.FloodID, error)
}

// Options configures the terminal loop.
type Options struct {
	TPS    int
	Seed   int64
	Frame  time.Duration // redraw interval
	Save   func() error  // bound to 'w'; nil disables saving
	Load   func() error  // bound to 'l'; nil disables loading
	Logger *slog.Logger
}

// Runner drives a simulation from terminal input at a fixed tick rate.
type Runner struct {
	screen tcell.Screen
	sim    core.Sim
	view   *View
	step   *core.FixedStep
	opts   Options
	log    *slog.Logger
	paused bool
}

// NewRunner wires a view and fixed-step pacer around sim.
func NewRunner(screen tcell.Screen, sim core.Sim, opts Options) *Runner {
	if opts.Frame <= 0 {
		opts.Frame = 33 * time.Millisecond
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		screen: screen,
		sim:    sim,
		view:   NewView(screen, sim),
		step:   core.NewFixedStep(opts.TPS),
		opts:   opts,
		log:    log,
	}
}

// Run polls input and steps the simulation until ctx ends or the user quits.
// The caller owns screen initialization and Fini.
func (r *Runner) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(r.opts.Frame)
	defer ticker.Stop()
	r.view.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || !r.Handle(ev) {
				return nil
			}
			r.view.Draw()
		case <-ticker.C:
			if !r.paused {
				for range r.step.Due(8) {
					r.sim.Step()
				}
			}
			r.view.Draw()
		}
	}
}

// Handle applies one input event. It reports false when the user quits.
func (r *Runner) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			r.view.Pan(-4, 0)
		case tcell.KeyRight:
			r.view.Pan(4, 0)
		case tcell.KeyUp:
			r.view.Pan(0, -4)
		case tcell.KeyDown:
			r.view.Pan(0, 4)
		case tcell.KeyRune:
			return r.handleRune(ev.Rune())
		}
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			if c, ok := r.view.CellAt(x, y); ok {
				r.spawn(flood.SpawnRequest{Kind: flood.KindSeasonal, Seeds: []core.Cell{c}})
			}
		}
	case *tcell.EventResize:
		r.screen.Sync()
		r.view.Pan(0, 0)
	}
	return true
}

func (r *Runner) handleRune(ch rune) bool {
	switch ch {
	case 'q':
		return false
	case ' ':
		r.paused = !r.paused
		r.view.SetPaused(r.paused)
	case 'n':
		r.sim.Step()
	case 'r':
		r.sim.Reset(r.opts.Seed)
	case 's':
		r.sim.Reset(time.Now().UnixNano())
	case 'f':
		r.spawn(flood.SpawnRequest{Kind: flood.KindSeasonal})
	case 'g':
		r.spawn(flood.SpawnRequest{Kind: flood.KindRain})
	case '1':
		r.view.ToggleFloods()
	case 'w':
		if r.opts.Save != nil {
			if err := r.opts.Save(); err != nil {
				r.log.Error("save failed", "err", err)
			}
		}
	case 'l':
		if r.opts.Load != nil {
			if err := r.opts.Load(); err != nil {
				r.log.Error("load failed", "err", err)
			}
		}
	}
	return true
}

func (r *Runner) spawn(req flood.SpawnRequest) {
	spawner, ok := r.sim.(floodSpawner)
	if !ok {
		return
	}
	if _, err := spawner.SpawnFlood(req); err != nil {
		r.log.Warn("spawn failed", "kind", req.Kind.String(), "err", err)
	}
}
