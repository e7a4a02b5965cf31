package flood

// SeasonalConfig tunes the fixed-duration variant.
type SeasonalConfig struct {
	Coverage     float64 // fraction of map area a default flood aims to claim
	TicksPerCell float64 // expansion ticks per estimated cell
	RemainMin    int     // hold duration range, drawn once per flood
	RemainMax    int
}

// RainConfig tunes the event-driven variant.
type RainConfig struct {
	Coverage         float64
	TicksPerCell     float64
	BaseDuration     int     // ticks a cell claimed at full strength stays flooded
	RecedeMultiplier float32 // ticks removed per cell still missing from the estimate
	MultiplierJitter float32 // per-flood multiplier is scaled by [1-j, 1+j)
	DestroyDelay     int     // ticks before the earliest cell reverts after teardown
	SeedCount        int
}

// Config holds the manager tunables.
type Config struct {
	WidthMin       int // per-cell width range in ticks, inclusive
	WidthMax       int
	VisitsPerClaim int     // frontier pops allowed per claim budget unit
	MinTemperature float32 // floods are torn down below this temperature

	Seasonal SeasonalConfig
	Rain     RainConfig
}

// DefaultConfig returns the standard tunables.
func DefaultConfig() Config {
	return Config{
		WidthMin:       30,
		WidthMax:       120,
		VisitsPerClaim: 16,
		MinTemperature: 0,
		Seasonal: SeasonalConfig{
			Coverage:     0.03,
			TicksPerCell: 0.5,
			RemainMin:    2000,
			RemainMax:    6000,
		},
		Rain: RainConfig{
			Coverage:         0.015,
			TicksPerCell:     1,
			BaseDuration:     1500,
			RecedeMultiplier: 1.5,
			MultiplierJitter: 0.2,
			DestroyDelay:     60,
			SeedCount:        3,
		},
	}
}

// normalize clamps inverted or non-positive ranges the same way config
// parsing does.
func (c Config) normalize() Config {
	if c.WidthMin < 0 {
		c.WidthMin = 0
	}
	if c.WidthMax < c.WidthMin {
		c.WidthMax = c.WidthMin
	}
	if c.VisitsPerClaim <= 0 {
		c.VisitsPerClaim = 1
	}
	if c.Seasonal.TicksPerCell <= 0 {
		c.Seasonal.TicksPerCell = 1
	}
	if c.Seasonal.RemainMin < 0 {
		c.Seasonal.RemainMin = 0
	}
	if c.Seasonal.RemainMax < c.Seasonal.RemainMin {
		c.Seasonal.RemainMax = c.Seasonal.RemainMin
	}
	if c.Rain.TicksPerCell <= 0 {
		c.Rain.TicksPerCell = 1
	}
	if c.Rain.BaseDuration < 1 {
		c.Rain.BaseDuration = 1
	}
	if c.Rain.RecedeMultiplier < 0 {
		c.Rain.RecedeMultiplier = 0
	}
	if c.Rain.MultiplierJitter < 0 {
		c.Rain.MultiplierJitter = 0
	}
	if c.Rain.DestroyDelay < 0 {
		c.Rain.DestroyDelay = 0
	}
	if c.Rain.SeedCount < 1 {
		c.Rain.SeedCount = 1
	}
	return c
}
