// Package sim provides the value-generation primitives shared by every
// simulated device type: range clamping, target-seeking motion, bounded
// random walks and the PM2.5 air-quality index table.
package sim

import (
	"math/rand"
	"time"
)

// Bounds is a closed numeric range for a telemetry channel.
type Bounds struct {
	Min float64
	Max float64
}

// Clamp limits v to the range b.
func (b Bounds) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Contains reports whether v lies within the range b.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Toward moves current toward target at rate units per second over elapsed
// wall-clock time, never overshooting the target, clamped to b.
func Toward(current, target, rate float64, elapsed time.Duration, b Bounds) float64 {
	step := rate * elapsed.Seconds()
	if step < 0 {
		step = -step
	}
	switch {
	case current < target:
		current += step
		if current > target {
			current = target
		}
	case current > target:
		current -= step
		if current < target {
			current = target
		}
	}
	return b.Clamp(current)
}

// Jitter applies a bounded random walk step of at most maxStep in either
// direction and clamps the result to b. Used for idle/ambient drift.
func Jitter(r *rand.Rand, current, maxStep float64, b Bounds) float64 {
	return b.Clamp(current + Uniform(r, -maxStep, maxStep))
}

// Drift adds a random increment in [lo, hi] and clamps the result to b.
// lo and hi may both be positive (monotonic deterioration) or negative.
func Drift(r *rand.Rand, current, lo, hi float64, b Bounds) float64 {
	return b.Clamp(current + Uniform(r, lo, hi))
}

// Uniform returns a random float64 in [lo, hi].
func Uniform(r *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}
