// Package analysis provides diagnostic signal measurement: peak/RMS
// level metering updated on the audio thread and a spectrum tap computed
// out-of-band. Results are read-only instruments for UI and monitoring;
// nothing here feeds back into the processing path.
package analysis

import (
	"math"
	"sync/atomic"

	"github.com/audioforge/livemix/internal/dsp"
)

// Meter tracks peak and RMS levels of processed blocks.
//
// Observe is called by the audio thread once per block; Levels may be
// polled from any thread. Publication uses atomic float bit patterns, so
// neither side locks.
type Meter struct {
	ops *dsp.Ops[float32]

	peakBits atomic.Uint64
	rmsBits  atomic.Uint64
}

// NewMeter creates a meter.
func NewMeter() *Meter {
	return &Meter{ops: dsp.For[float32]()}
}

// Observe measures one block. Audio thread only; does not allocate.
func (m *Meter) Observe(block []float32) {
	if len(block) == 0 {
		return
	}

	var peak float32
	for _, s := range block {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}

	sumSquares := m.ops.DotProductUnsafe(block, block)
	rms := math.Sqrt(float64(sumSquares) / float64(len(block)))

	m.peakBits.Store(math.Float64bits(float64(peak)))
	m.rmsBits.Store(math.Float64bits(rms))
}

// Levels returns the peak and RMS of the most recently observed block.
// Safe to call from any thread.
func (m *Meter) Levels() (peak, rms float64) {
	return math.Float64frombits(m.peakBits.Load()),
		math.Float64frombits(m.rmsBits.Load())
}

// Reset clears both levels.
func (m *Meter) Reset() {
	m.peakBits.Store(0)
	m.rmsBits.Store(0)
}
