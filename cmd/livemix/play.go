package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/spf13/cobra"

	"github.com/audioforge/livemix"
	"github.com/audioforge/livemix/internal/monitor"
)

const (
	bytesPerFloat32 = 4

	// feedPause is how long the feeder sleeps when the input ring has
	// no room. Non-real-time side only.
	feedPause = time.Millisecond

	playMonitorInterval = 2 * time.Second
)

var (
	playConfig  string
	playGainDB  float64
	playMonitor bool
)

var playCmd = &cobra.Command{
	Use:   "play <input.wav>",
	Short: "Play a WAV file through the engine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadOrDefaultConfig(playConfig)
		if err != nil {
			return err
		}

		samples, rate, err := decodeWAV(args[0])
		if err != nil {
			return err
		}
		cfg.SampleRate = float64(rate)

		session, err := livemix.NewSession(cfg)
		if err != nil {
			return err
		}
		defer session.Close()

		if cmd.Flags().Changed("gain") {
			session.Dispatch(livemix.SetParam("gain_db", playGainDB))
		}

		if playMonitor {
			collector := monitor.NewCollector(session, playMonitorInterval)
			collector.Start()
			defer collector.Stop()
		}

		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   rate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
		})
		if err != nil {
			return fmt.Errorf("open audio output: %w", err)
		}
		<-ready

		src := newSessionReader(session)
		go src.feed(samples, cfg.BlockSize)

		player := ctx.NewPlayer(src)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			return err
		}

		fmt.Printf("Played %d samples at %d Hz\n", len(samples), rate)
		return nil
	},
}

func init() {
	playCmd.Flags().StringVarP(&playConfig, "config", "c", "",
		"YAML config file (default: built-in defaults)")
	playCmd.Flags().Float64VarP(&playGainDB, "gain", "g", 0,
		"output gain in dB")
	playCmd.Flags().BoolVarP(&playMonitor, "monitor", "m", false,
		"log transport and CPU diagnostics while playing")
	rootCmd.AddCommand(playCmd)
}

// sessionReader adapts a session's output ring to oto's io.Reader pull
// model: the playback callback drains the ring, a feeder goroutine acts
// as capture and audio thread.
type sessionReader struct {
	session *livemix.Session
	scratch []float32
	fed     atomic.Bool // feeder pushed all input
}

func newSessionReader(s *livemix.Session) *sessionReader {
	return &sessionReader{
		session: s,
		scratch: make([]float32, s.Config().BlockSize),
	}
}

// feed pushes the whole signal through the engine, pacing itself by ring
// occupancy.
func (r *sessionReader) feed(samples []float32, blockSize int) {
	for off := 0; off < len(samples); {
		end := off + blockSize
		if end > len(samples) {
			end = len(samples)
		}
		pushed := r.session.PushInput(samples[off:end])
		off += pushed

		r.session.ProcessBlock()

		if pushed == 0 {
			time.Sleep(feedPause)
		}
	}
	// Flush whatever is still sitting in the input ring.
	for r.session.InputBacklog() > 0 {
		if r.session.ProcessBlock() == 0 {
			time.Sleep(feedPause)
		}
	}
	r.fed.Store(true)
}

// Read implements io.Reader, delivering float32 little-endian PCM.
// Underruns before the feeder finishes produce silence, never an error.
func (r *sessionReader) Read(p []byte) (int, error) {
	want := len(p) / bytesPerFloat32
	if want > len(r.scratch) {
		want = len(r.scratch)
	}
	if want == 0 {
		return 0, nil
	}

	n := r.session.PullOutput(r.scratch[:want])
	if n == 0 {
		if r.fed.Load() {
			return 0, io.EOF
		}
		// Underrun: emit one block of silence.
		clear(r.scratch[:want])
		n = want
	}

	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(p[i*bytesPerFloat32:],
			math.Float32bits(r.scratch[i]))
	}
	return n * bytesPerFloat32, nil
}
