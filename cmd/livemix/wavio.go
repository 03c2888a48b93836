package main

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/audioforge/livemix"
)

const (
	outputBitDepth = 16
	maxInt16       = 32767.0

	// wavFormatPCM is WAV audio format tag 1 (uncompressed PCM).
	wavFormatPCM = 1
)

// decodeWAV reads a WAV file into mono float32 samples in [-1, 1].
// Multi-channel input is downmixed by averaging.
func decodeWAV(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("decode %s: missing format", path)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}
	scale := float64(int64(1) << (bitDepth - 1))

	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		samples[i] = float32(sum / float64(channels) / scale)
	}

	return samples, buf.Format.SampleRate, nil
}

// encodeWAV writes mono float32 samples as 16-bit PCM.
func encodeWAV(path string, samples []float32, rate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, outputBitDepth, 1, wavFormatPCM)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: outputBitDepth,
	}
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf.Data[i] = int(s * maxInt16)
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize output: %w", err)
	}
	return nil
}

// renderThrough pushes samples through the session block by block and
// collects the processed output. Single-threaded offline use.
func renderThrough(s *livemix.Session, in []float32) []float32 {
	blockSize := s.Config().BlockSize
	out := make([]float32, 0, len(in))
	scratch := make([]float32, blockSize)

	for off := 0; off < len(in); {
		end := off + blockSize
		if end > len(in) {
			end = len(in)
		}
		off += s.PushInput(in[off:end])

		s.ProcessBlock()
		for {
			n := s.PullOutput(scratch)
			if n == 0 {
				break
			}
			out = append(out, scratch[:n]...)
		}
	}

	return out
}
