package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audioforge/livemix/internal/testutil"
)

const (
	meterTolerance = 1e-4

	testSpectrumSize = 512
	testSampleRate   = 48000.0
)

// TestMeter_KnownSignal verifies peak and RMS on a full-scale sine.
func TestMeter_KnownSignal(t *testing.T) {
	const n = 4800
	block := testutil.Sine(testSampleRate/100, testSampleRate, n)

	m := NewMeter()
	m.Observe(block)

	peak, rms := m.Levels()
	assert.InDelta(t, 1.0, peak, meterTolerance)
	// RMS of a sine is 1/sqrt(2).
	assert.InDelta(t, 1/math.Sqrt2, rms, meterTolerance)
}

// TestMeter_Silence verifies zero levels on silence and after Reset.
func TestMeter_Silence(t *testing.T) {
	m := NewMeter()
	m.Observe(make([]float32, 256))

	peak, rms := m.Levels()
	assert.Zero(t, peak)
	assert.Zero(t, rms)

	m.Observe([]float32{0.5, -0.5})
	m.Reset()
	peak, rms = m.Levels()
	assert.Zero(t, peak)
	assert.Zero(t, rms)
}

// TestMeter_EmptyBlock verifies that an empty block leaves levels
// untouched.
func TestMeter_EmptyBlock(t *testing.T) {
	m := NewMeter()
	m.Observe([]float32{0.25})
	m.Observe(nil)

	peak, _ := m.Levels()
	assert.InDelta(t, 0.25, peak, meterTolerance)
}

// TestSpectrum_SinePeak verifies that a pure tone concentrates energy in
// the expected bin.
func TestSpectrum_SinePeak(t *testing.T) {
	s := NewSpectrum(testSpectrumSize, testSampleRate)
	require.Equal(t, testSpectrumSize, s.Size())

	// Tone centered on bin 32: f = 32 * rate / size.
	const bin = 32
	samples := testutil.Sine(s.FrequencyForBin(bin), testSampleRate, testSpectrumSize)

	s.Compute(samples)
	mags := s.Magnitudes()
	require.Len(t, mags, testSpectrumSize/2+1)
	testutil.AssertNoNaNOrInf(t, mags)

	maxBin := 0
	for i, m := range mags {
		if m > mags[maxBin] {
			maxBin = i
		}
	}
	assert.Equal(t, bin, maxBin)
}

// TestSpectrum_MagnitudesInto verifies the no-allocation read path.
func TestSpectrum_MagnitudesInto(t *testing.T) {
	s := NewSpectrum(64, testSampleRate)
	s.Compute(make([]float32, 64))

	dst := make([]float64, 64/2+1)
	require.NoError(t, s.MagnitudesInto(dst))

	err := s.MagnitudesInto(make([]float64, 3))
	assert.Error(t, err)
}
