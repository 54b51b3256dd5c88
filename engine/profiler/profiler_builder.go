package profiler

import "time"

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often statistics are logged.
// Values <= 0 are ignored.
//
// Parameters:
//   - interval: the reporting interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithClock replaces the time source used to measure intervals.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - ProfilerOption: option function to apply
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
