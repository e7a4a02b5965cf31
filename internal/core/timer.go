package core

import "time"

// FixedStep paces simulation ticks at a steady ticks-per-second rate for
// viewers that drive their own loop.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Step returns the duration of a single tick.
func (f *FixedStep) Step() time.Duration { return f.step }

// Due reports how many ticks have accumulated since the last call, capped at
// maxCatchUp so a stalled viewer does not burst through hundreds of ticks.
func (f *FixedStep) Due(maxCatchUp int) int {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	n := 0
	for f.accumulator >= f.step {
		f.accumulator -= f.step
		n++
	}
	if maxCatchUp > 0 && n > maxCatchUp {
		n = maxCatchUp
		f.accumulator = 0
	}
	return n
}
