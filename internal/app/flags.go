package app

import (
	"flag"
	"fmt"
	"strings"
)

// Config represents the command-line parameters shared by the viewers.
type Config struct {
	Sim      string
	Scale    int
	TPS      int
	Seed     int64
	HUDWidth int
	Load     string
	Save     string
	Params   map[string]string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "waterworld", Scale: 4, TPS: 30, Seed: 1337, HUDWidth: 240, Params: map[string]string{}}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width in pixels (0 hides it)")
	fs.StringVar(&c.Load, "load", c.Load, "snapshot file to load at startup")
	fs.StringVar(&c.Save, "save", c.Save, "snapshot file written by the save key")
	fs.Func("param", "simulation parameter as key=value (repeatable)", c.setParam)
}

func (c *Config) setParam(v string) error {
	key, value, ok := strings.Cut(v, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	if c.Params == nil {
		c.Params = map[string]string{}
	}
	c.Params[key] = strings.TrimSpace(value)
	return nil
}

// SimParams returns the factory config: the -param pairs plus the seed.
func (c *Config) SimParams() map[string]string {
	out := make(map[string]string, len(c.Params)+1)
	for k, v := range c.Params {
		out[k] = v
	}
	if _, ok := out["seed"]; !ok {
		out["seed"] = fmt.Sprint(c.Seed)
	}
	return out
}
