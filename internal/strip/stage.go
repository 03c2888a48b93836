// Package strip implements the channel-strip host: an ordered chain of
// effect stages with per-stage bypass and ramped output gain, driven
// entirely by the audio thread.
//
// The strip itself performs no locking. Control changes reach it as
// commands drained from the session's command queue on the audio thread;
// concurrent mutation from other threads is unsupported.
package strip

import (
	"math"

	"github.com/audioforge/livemix/internal/dsp"
	"github.com/audioforge/livemix/internal/ramp"
)

// Stage is one processing element in the chain. Process transforms the
// block in place and is called from the real-time audio thread: it must
// not allocate, lock, or block.
type Stage interface {
	Process(block []float32)
	Reset()
	Name() string
}

// Automatable is implemented by stages with parameters that accept
// smoothed control changes. SetParam returns false for unknown names.
type Automatable interface {
	SetParam(name string, value float64) bool
}

// ParamGainDB is the parameter name of a gain stage's level.
const ParamGainDB = "gain_db"

// dbPerDecade converts decibels to a linear amplitude exponent.
const dbPerDecade = 20.0

// GainStage applies a ramped linear gain to the block. Gain targets are
// addressed in dB; the ramp interpolates the linear amplitude.
type GainStage struct {
	name string
	ops  *dsp.Ops[float32]
	gain ramp.Ramp
}

// NewGainStage creates a gain stage at initialDB, smoothing changes over
// rampMs at the given sample rate.
func NewGainStage(name string, sampleRate, rampMs, initialDB float64) *GainStage {
	g := &GainStage{
		name: name,
		ops:  dsp.For[float32](),
	}
	g.gain.Configure(sampleRate, rampMs, dbToLinear(initialDB))
	return g
}

// SetGainDB ramps toward the given level.
func (g *GainStage) SetGainDB(db float64) {
	g.gain.SetTarget(dbToLinear(db))
}

// SetParam implements Automatable.
func (g *GainStage) SetParam(name string, value float64) bool {
	if name != ParamGainDB {
		return false
	}
	g.SetGainDB(value)
	return true
}

// Gain returns the current linear gain.
func (g *GainStage) Gain() float64 {
	return g.gain.Value()
}

// Process applies the gain in place. While a ramp is active the gain is
// advanced once per sample; at steady state the whole block is scaled in
// one SIMD pass.
func (g *GainStage) Process(block []float32) {
	if !g.gain.IsRamping() {
		g.ops.Scale(block, block, float32(g.gain.Value()))
		return
	}
	for i := range block {
		block[i] *= float32(g.gain.Next())
	}
}

// Reset is a no-op; gain state persists across transport restarts.
func (g *GainStage) Reset() {}

// Name returns the stage name.
func (g *GainStage) Name() string {
	return g.name
}

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/dbPerDecade)
}
