//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"floodsim/internal/app"
	"floodsim/internal/core"
	_ "floodsim/internal/sims/waterworld"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	sim, err := core.New(cfg.Sim, cfg.SimParams())
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Load != "" {
		if err := app.LoadSnapshot(sim, cfg.Load); err != nil {
			log.Fatal(err)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	game := app.New(sim, cfg, logger)
	size := sim.Size()

	ebiten.SetWindowTitle("floodsim - " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+max(cfg.HUDWidth, 0), size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
