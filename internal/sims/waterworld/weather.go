package waterworld

import "github.com/chewxy/math32"

// Weather is the ambient climate: a yearly temperature sine plus discrete
// rain events. It satisfies flood.Conditions.
type Weather struct {
	params    *Params
	rainUntil uint64
}

// Temperature returns the air temperature at tick.
func (wt *Weather) Temperature(tick uint64) float32 {
	mean := float32(wt.params.MeanTemperature)
	year := wt.params.YearTicks
	if year <= 0 {
		return mean
	}
	phase := 2 * math32.Pi * float32(tick%uint64(year)) / float32(year)
	return mean + float32(wt.params.TemperatureAmplitude)*math32.Sin(phase)
}

// Raining reports whether a rain event covers tick.
func (wt *Weather) Raining(tick uint64) bool { return tick < wt.rainUntil }

// startRain begins a rain event lasting ticks from now.
func (wt *Weather) startRain(now uint64, ticks int) {
	wt.rainUntil = now + uint64(max(ticks, 1))
}

// WeatherState is the persisted weather.
type WeatherState struct {
	RainUntil uint64 `json:"rainUntil"`
}
