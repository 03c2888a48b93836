// Package ramp provides per-parameter linear smoothing for control values
// applied on the audio thread.
//
// A control change arriving from the UI or MIDI thread is a step; applying
// it directly to the signal produces an audible click. A Ramp spreads the
// change over a configured number of samples, queried once per output
// sample by the processing pipeline.
package ramp

import "math"

// snapEpsilon is the threshold below which a target change is applied
// instantly instead of ramped.
const snapEpsilon = 1e-6

// msPerSecond converts the configured ramp time to samples.
const msPerSecond = 1000.0

// Ramp linearly interpolates a control value from its current level to a
// target over a fixed number of samples.
//
// A Ramp is mutated only by the audio thread. It is not safe for
// concurrent use.
type Ramp struct {
	current float64
	target  float64
	step    float64

	length    int // configured ramp length in samples
	remaining int
}

// Configure sets the ramp length from the sample rate and ramp time and
// initializes both current and target to initial. Must be called before
// the first SetTarget.
func (r *Ramp) Configure(sampleRate, rampTimeMs, initial float64) {
	length := int(math.Round(rampTimeMs * sampleRate / msPerSecond))
	if length < 1 {
		length = 1
	}

	r.length = length
	r.current = initial
	r.target = initial
	r.step = 0
	r.remaining = 0
}

// SetTarget starts a ramp from the current value to newTarget over the
// full configured length. Changes within snapEpsilon of the current value
// are applied instantly.
//
// Re-targeting mid-ramp replaces the ramp: the step is recomputed from
// the partway current value over the full configured length, not the
// remaining length. Rapid re-targeting therefore stair-steps the
// derivative, which is accepted behavior.
func (r *Ramp) SetTarget(newTarget float64) {
	if math.Abs(newTarget-r.current) <= snapEpsilon || r.length <= 0 {
		r.current = newTarget
		r.target = newTarget
		r.step = 0
		r.remaining = 0
		return
	}

	r.target = newTarget
	r.step = (newTarget - r.current) / float64(r.length)
	r.remaining = r.length
}

// Next advances the ramp by one sample and returns the new value. When
// the final step lands it returns exactly the target, never an
// accumulated approximation. When idle it returns the target. Must be
// called exactly once per output sample when used as a per-sample
// control signal.
func (r *Ramp) Next() float64 {
	if r.remaining == 0 {
		return r.target
	}

	r.remaining--
	if r.remaining == 0 {
		r.current = r.target
	} else {
		r.current += r.step
	}
	return r.current
}

// Value returns the current level without advancing the ramp.
func (r *Ramp) Value() float64 {
	return r.current
}

// IsRamping reports whether a ramp is in progress.
func (r *Ramp) IsRamping() bool {
	return r.remaining > 0
}
