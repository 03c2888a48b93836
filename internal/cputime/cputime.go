// Package cputime samples per-thread CPU time for audio-path budget
// monitoring.
//
// The audio thread brackets each block of pipeline work with a [Probe];
// an out-of-band monitor reads the resulting deltas to detect processing
// overruns. The probe is a read-only instrument: a failing or missing
// platform counter degrades to "unavailable" and never affects audio
// execution.
package cputime

import "errors"

// ErrUnavailable indicates the platform thread-time counter cannot be
// read. Non-fatal; callers report degraded diagnostics.
var ErrUnavailable = errors.New("thread cpu time unavailable")

// Probe brackets one audio-thread invocation. It carries no state across
// calls beyond the reading taken by Begin.
//
// Usage on the audio thread:
//
//	p.Begin()
//	pipeline.Process(block)
//	elapsed, err := p.End()
type Probe struct {
	start int64
	valid bool
}

// Begin takes the starting thread-time reading. A failed reading marks
// the bracket invalid; End will report ErrUnavailable.
func (p *Probe) Begin() {
	t, err := Now()
	p.valid = err == nil
	p.start = t
}

// End returns the thread CPU time in nanoseconds consumed since Begin,
// or ErrUnavailable when either reading failed.
func (p *Probe) End() (int64, error) {
	if !p.valid {
		return 0, ErrUnavailable
	}
	t, err := Now()
	if err != nil {
		return 0, err
	}
	return t - p.start, nil
}
