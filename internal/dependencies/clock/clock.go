package clock

import "time"

// Clock abstracts the wall clock so time-dependent behavior (timestamps,
// TTL sweeps, pause durations) is deterministic in tests
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// Ensure RealClock implements Clock
var _ Clock = (*RealClock)(nil)

// New creates a RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current wall time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
