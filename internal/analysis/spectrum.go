package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum computes magnitude spectra of signal snapshots for display.
//
// Compute is intended to run off the audio thread (UI or monitor side)
// on a copied window; it reuses pre-allocated buffers, so a Spectrum is
// not safe for concurrent use.
type Spectrum struct {
	fft        *fourier.FFT
	size       int
	sampleRate float64

	window     []float64
	coeffs     []complex128
	magnitudes []float64
}

// NewSpectrum creates a spectrum analyzer for windows of the given size
// (rounded up to a power of two) at the given sample rate.
func NewSpectrum(size int, sampleRate float64) *Spectrum {
	n := 1
	for n < size {
		n *= 2
	}

	bins := n/2 + 1
	return &Spectrum{
		fft:        fourier.NewFFT(n),
		size:       n,
		sampleRate: sampleRate,
		window:     make([]float64, n),
		coeffs:     make([]complex128, bins),
		magnitudes: make([]float64, bins),
	}
}

// Size returns the FFT window size in samples.
func (s *Spectrum) Size() int {
	return s.size
}

// Compute transforms one window of samples. Shorter input is zero-padded;
// longer input is truncated. A Hann window is applied to reduce leakage.
func (s *Spectrum) Compute(samples []float32) {
	n := len(samples)
	if n > s.size {
		n = s.size
	}

	for i := 0; i < n; i++ {
		// Hann window.
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(s.size-1)))
		s.window[i] = float64(samples[i]) * w
	}
	for i := n; i < s.size; i++ {
		s.window[i] = 0
	}

	s.fft.Coefficients(s.coeffs, s.window)

	scale := 2.0 / float64(s.size)
	for i, c := range s.coeffs {
		s.magnitudes[i] = cmplx.Abs(c) * scale
	}
}

// Magnitudes returns a copy of the latest magnitude spectrum
// (Size()/2 + 1 bins).
func (s *Spectrum) Magnitudes() []float64 {
	out := make([]float64, len(s.magnitudes))
	copy(out, s.magnitudes)
	return out
}

// MagnitudesInto copies the latest magnitude spectrum into dst, avoiding
// allocation when the caller reuses the slice.
func (s *Spectrum) MagnitudesInto(dst []float64) error {
	if len(dst) < len(s.magnitudes) {
		return fmt.Errorf("destination too small: need %d bins, got %d", len(s.magnitudes), len(dst))
	}
	copy(dst, s.magnitudes)
	return nil
}

// FrequencyForBin returns the center frequency in Hz of the given bin.
func (s *Spectrum) FrequencyForBin(bin int) float64 {
	return float64(bin) * s.sampleRate / float64(s.size)
}
