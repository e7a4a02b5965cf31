package waterworld

import (
	"strconv"

	"floodsim/internal/flood"
	"floodsim/internal/freeze"
)

// Params holds map seeding and weather tunables.
type Params struct {
	LakeCount      int
	LakeRadiusMin  int
	LakeRadiusMax  int
	RiverCount     int
	RockChance     float64
	SandChance     float64
	MarshPatches   int
	MarshRadius    int
	FogMargin      int
	SampleFraction float64

	YearTicks              int
	MeanTemperature        float64
	TemperatureAmplitude   float64
	RainChance             float64
	RainTicksMin           int
	RainTicksMax           int
	SeasonalChance         float64
	SeasonalMinTemperature float64
	MaxFloods              int
}

// Config controls the world dimensions and every subsystem.
type Config struct {
	Width  int
	Height int

	Seed int64

	Params Params
	Flood  flood.Config
	Freeze freeze.Config
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  192,
		Height: 128,
		Seed:   1337,
		Params: Params{
			LakeCount:      6,
			LakeRadiusMin:  4,
			LakeRadiusMax:  10,
			RiverCount:     2,
			RockChance:     0.04,
			SandChance:     0.35,
			MarshPatches:   5,
			MarshRadius:    4,
			FogMargin:      0,
			SampleFraction: 0.02,

			YearTicks:              2400,
			MeanTemperature:        6,
			TemperatureAmplitude:   12,
			RainChance:             0.004,
			RainTicksMin:           150,
			RainTicksMax:           400,
			SeasonalChance:         0.003,
			SeasonalMinTemperature: 4,
			MaxFloods:              6,
		},
		Flood:  flood.DefaultConfig(),
		Freeze: freeze.DefaultConfig(),
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparsable or out-of-range values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}

	p := &c.Params
	intArg(cfg, "lake_count", &p.LakeCount, 0)
	intArg(cfg, "lake_radius_min", &p.LakeRadiusMin, 1)
	intArg(cfg, "lake_radius_max", &p.LakeRadiusMax, 1)
	if p.LakeRadiusMax < p.LakeRadiusMin {
		p.LakeRadiusMax = p.LakeRadiusMin
	}
	intArg(cfg, "river_count", &p.RiverCount, 0)
	floatArg(cfg, "rock_chance", &p.RockChance, 0)
	floatArg(cfg, "sand_chance", &p.SandChance, 0)
	intArg(cfg, "marsh_patches", &p.MarshPatches, 0)
	intArg(cfg, "marsh_radius", &p.MarshRadius, 0)
	intArg(cfg, "fog_margin", &p.FogMargin, 0)
	if v, ok := cfg["sample_fraction"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 && parsed <= 1 {
			p.SampleFraction = parsed
		}
	}
	intArg(cfg, "year_ticks", &p.YearTicks, 1)
	if v, ok := cfg["mean_temp"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			p.MeanTemperature = parsed
		}
	}
	floatArg(cfg, "temp_amplitude", &p.TemperatureAmplitude, 0)
	floatArg(cfg, "rain_chance", &p.RainChance, 0)
	intArg(cfg, "rain_ticks_min", &p.RainTicksMin, 1)
	intArg(cfg, "rain_ticks_max", &p.RainTicksMax, 1)
	if p.RainTicksMax < p.RainTicksMin {
		p.RainTicksMax = p.RainTicksMin
	}
	floatArg(cfg, "seasonal_chance", &p.SeasonalChance, 0)
	if v, ok := cfg["seasonal_min_temp"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			p.SeasonalMinTemperature = parsed
		}
	}
	intArg(cfg, "max_floods", &p.MaxFloods, 0)

	f := &c.Flood
	intArg(cfg, "flood_width_min", &f.WidthMin, 0)
	intArg(cfg, "flood_width_max", &f.WidthMax, 0)
	if f.WidthMax < f.WidthMin {
		f.WidthMax = f.WidthMin
	}
	intArg(cfg, "flood_visits_per_claim", &f.VisitsPerClaim, 1)
	if v, ok := cfg["flood_min_temp"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			f.MinTemperature = float32(parsed)
		}
	}
	floatArg(cfg, "seasonal_coverage", &f.Seasonal.Coverage, 0)
	floatArg(cfg, "seasonal_ticks_per_cell", &f.Seasonal.TicksPerCell, 0)
	intArg(cfg, "seasonal_remain_min", &f.Seasonal.RemainMin, 0)
	intArg(cfg, "seasonal_remain_max", &f.Seasonal.RemainMax, 0)
	if f.Seasonal.RemainMax < f.Seasonal.RemainMin {
		f.Seasonal.RemainMax = f.Seasonal.RemainMin
	}
	floatArg(cfg, "rain_coverage", &f.Rain.Coverage, 0)
	floatArg(cfg, "rain_ticks_per_cell", &f.Rain.TicksPerCell, 0)
	intArg(cfg, "rain_base_duration", &f.Rain.BaseDuration, 1)
	float32Arg(cfg, "rain_recede_multiplier", &f.Rain.RecedeMultiplier, 0)
	float32Arg(cfg, "rain_multiplier_jitter", &f.Rain.MultiplierJitter, 0)
	intArg(cfg, "rain_destroy_delay", &f.Rain.DestroyDelay, 0)
	intArg(cfg, "rain_seed_count", &f.Rain.SeedCount, 1)

	z := &c.Freeze
	if v, ok := cfg["freeze_below"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			z.FreezeBelow = float32(parsed)
		}
	}
	if v, ok := cfg["thaw_above"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			z.ThawAbove = float32(parsed)
		}
	}
	if z.ThawAbove < z.FreezeBelow {
		z.ThawAbove = z.FreezeBelow
	}
	float32Arg(cfg, "frost_per_degree", &z.FrostPerDegree, 0)
	if v, ok := cfg["frost_threshold"]; ok {
		if parsed, err := strconv.ParseUint(v, 10, 8); err == nil && parsed > 0 {
			z.FrostThreshold = uint8(parsed)
		}
	}
	return c
}

func intArg(cfg map[string]string, key string, dst *int, floor int) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= floor {
			*dst = parsed
		}
	}
}

func floatArg(cfg map[string]string, key string, dst *float64, floor float64) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= floor {
			*dst = parsed
		}
	}
}

func float32Arg(cfg map[string]string, key string, dst *float32, floor float32) {
	if v, ok := cfg[key]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && float32(parsed) >= floor {
			*dst = float32(parsed)
		}
	}
}
