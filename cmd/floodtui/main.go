package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"floodsim/internal/app"
	"floodsim/internal/core"
	_ "floodsim/internal/sims/waterworld"
	"floodsim/internal/tui"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	logPath := flag.String("log", "", "write logs to this file (terminal output is taken by the viewer)")
	flag.Parse()

	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewTextHandler(out, nil))
	slog.SetDefault(logger)

	sim, err := core.New(cfg.Sim, cfg.SimParams())
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Load != "" {
		if err := app.LoadSnapshot(sim, cfg.Load); err != nil {
			log.Fatal(err)
		}
	}

	opts := tui.Options{TPS: cfg.TPS, Seed: cfg.Seed, Logger: logger}
	if cfg.Save != "" {
		opts.Save = func() error { return app.SaveSnapshot(sim, cfg.Save) }
		opts.Load = func() error { return app.LoadSnapshot(sim, cfg.Save) }
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	screen.EnableMouse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = tui.NewRunner(screen, sim, opts).Run(ctx)
	screen.Fini()
	stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
