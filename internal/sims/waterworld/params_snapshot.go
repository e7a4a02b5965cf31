package waterworld

import (
	"strconv"

	"floodsim/internal/core"
)

func (w *World) Parameters() core.ParameterSnapshot {
	p := w.cfg.Params
	f := w.cfg.Flood
	z := w.cfg.Freeze
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
				floatParam("sample_fraction", "Sample fraction", p.SampleFraction),
			},
		},
		{
			Name: "Map",
			Params: []core.Parameter{
				intParam("lake_count", "Lake count", p.LakeCount),
				intParam("lake_radius_min", "Lake radius min", p.LakeRadiusMin),
				intParam("lake_radius_max", "Lake radius max", p.LakeRadiusMax),
				intParam("river_count", "River count", p.RiverCount),
				floatParam("rock_chance", "Rock chance", p.RockChance),
				floatParam("sand_chance", "Sand chance", p.SandChance),
				intParam("marsh_patches", "Marsh patches", p.MarshPatches),
				intParam("fog_margin", "Fog margin", p.FogMargin),
			},
		},
		{
			Name:    "Weather",
			Summary: "Yearly temperature sine and rain events",
			Params: []core.Parameter{
				intParam("year_ticks", "Year length", p.YearTicks),
				floatParam("mean_temp", "Mean temperature", p.MeanTemperature),
				floatParam("temp_amplitude", "Temperature amplitude", p.TemperatureAmplitude),
				floatParam("rain_chance", "Rain chance", p.RainChance),
				intParam("rain_ticks_min", "Rain ticks min", p.RainTicksMin),
				intParam("rain_ticks_max", "Rain ticks max", p.RainTicksMax),
				floatParam("seasonal_chance", "Seasonal flood chance", p.SeasonalChance),
				floatParam("seasonal_min_temp", "Seasonal min temperature", p.SeasonalMinTemperature),
				intParam("max_floods", "Max floods", p.MaxFloods),
			},
		},
		{
			Name: "Floods",
			Params: []core.Parameter{
				intParam("flood_width_min", "Cell width min", f.WidthMin),
				intParam("flood_width_max", "Cell width max", f.WidthMax),
				floatParam("flood_min_temp", "Teardown temperature", float64(f.MinTemperature)),
				floatParam("seasonal_coverage", "Seasonal coverage", f.Seasonal.Coverage),
				intParam("seasonal_remain_min", "Seasonal hold min", f.Seasonal.RemainMin),
				intParam("seasonal_remain_max", "Seasonal hold max", f.Seasonal.RemainMax),
				floatParam("rain_coverage", "Rain coverage", f.Rain.Coverage),
				intParam("rain_base_duration", "Rain base duration", f.Rain.BaseDuration),
				floatParam("rain_recede_multiplier", "Rain recede multiplier", float64(f.Rain.RecedeMultiplier)),
			},
		},
		{
			Name: "Freeze",
			Params: []core.Parameter{
				floatParam("freeze_below", "Freeze below", float64(z.FreezeBelow)),
				floatParam("thaw_above", "Thaw above", float64(z.ThawAbove)),
				intParam("frost_threshold", "Frost threshold", int(z.FrostThreshold)),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the weather knobs viewers may change while running.
// Map and engine parameters only apply on reset.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "rain_chance", Label: "Rain chance", Type: core.ParamTypeFloat, Step: 0.001, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "seasonal_chance", Label: "Seasonal flood chance", Type: core.ParamTypeFloat, Step: 0.001, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "mean_temp", Label: "Mean temperature", Type: core.ParamTypeFloat, Step: 1},
		{Key: "temp_amplitude", Label: "Temperature amplitude", Type: core.ParamTypeFloat, Step: 1, Min: 0, HasMin: true},
		{Key: "max_floods", Label: "Max floods", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true},
	}
}

// SetIntParameter updates an integer control.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "max_floods":
		w.cfg.Params.MaxFloods = max(value, 0)
	default:
		return false
	}
	return true
}

// SetFloatParameter updates a float control.
func (w *World) SetFloatParameter(key string, value float64) bool {
	p := &w.cfg.Params
	switch key {
	case "rain_chance":
		p.RainChance = clamp01(value)
	case "seasonal_chance":
		p.SeasonalChance = clamp01(value)
	case "mean_temp":
		p.MeanTemperature = value
	case "temp_amplitude":
		p.TemperatureAmplitude = max(value, 0)
	default:
		return false
	}
	return true
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
