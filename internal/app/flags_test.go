package app

import (
	"flag"
	"io"
	"testing"
)

func TestBindParsesParams(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.Bind(fs)

	args := []string{"-seed", "7", "-param", "rain_chance=0.5", "-param", " w = 64 ", "-tps", "10"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Seed != 7 || cfg.TPS != 10 || cfg.Sim != "waterworld" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	params := cfg.SimParams()
	if params["rain_chance"] != "0.5" || params["w"] != "64" || params["seed"] != "7" {
		t.Fatalf("unexpected params %v", params)
	}
}

func TestBindRejectsMalformedParam(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-param", "novalue"}); err == nil {
		t.Fatal("expected malformed -param to fail")
	}
}

func TestExplicitSeedParamWins(t *testing.T) {
	cfg := NewConfig()
	cfg.Params["seed"] = "3"
	if got := cfg.SimParams()["seed"]; got != "3" {
		t.Fatalf("expected explicit seed param to win, got %q", got)
	}
}
