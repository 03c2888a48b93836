package livemix

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/audioforge/livemix/internal/analysis"
	"github.com/audioforge/livemix/internal/cputime"
	"github.com/audioforge/livemix/internal/strip"
	"github.com/audioforge/livemix/internal/transport"
)

// Session owns one audio session's transport substrate: the input and
// output sample rings, the command queue, the channel strip with its
// parameter ramps, the meter, and the CPU probe. A session is created at
// device open and closed at teardown; nothing is shared across sessions
// and no process-wide state exists.
//
// Thread roles are fixed: the capture thread calls PushInput, the audio
// thread calls ProcessBlock and owns the strip, the playback thread
// calls PullOutput, and any thread may call Dispatch and Snapshot.
type Session struct {
	id  string
	cfg Config

	input    *transport.Ring[float32]
	output   *transport.Ring[float32]
	commands *transport.Queue[Command]

	strip *strip.Strip
	meter *analysis.Meter
	probe cputime.Probe

	// Audio-thread owned.
	block []float32
	muted bool

	lastBlockCPU atomic.Int64
	cpuValid     atomic.Bool
	closed       atomic.Bool
}

// Snapshot is a point-in-time view of the session's diagnostic counters,
// polled out-of-band by monitoring collaborators. It never feeds back
// into control decisions.
type Snapshot struct {
	SessionID string

	// InputDropped and OutputDropped count samples discarded by the
	// transport rings since session start.
	InputDropped  uint64
	OutputDropped uint64

	// LastBlockCPU is the thread CPU time consumed by the most recent
	// ProcessBlock pipeline pass. Zero when CPUTimeValid is false.
	LastBlockCPU time.Duration

	// CPUTimeValid is false when the platform thread-time counter is
	// unavailable.
	CPUTimeValid bool

	// PeakLevel and RMSLevel are the output levels of the most recent
	// block.
	PeakLevel float64
	RMSLevel  float64
}

// NewSession creates a session from the given configuration.
func NewSession(cfg *Config) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	input, err := transport.NewRing[float32](cfg.RingCapacity)
	if err != nil {
		return nil, fmt.Errorf("input transport: %w", err)
	}
	output, err := transport.NewRing[float32](cfg.RingCapacity)
	if err != nil {
		return nil, fmt.Errorf("output transport: %w", err)
	}

	s := &Session{
		id:       xid.New().String(),
		cfg:      *cfg,
		input:    input,
		output:   output,
		commands: transport.NewQueue[Command](),
		strip:    strip.New(cfg.SampleRate, cfg.RampMs, cfg.Channel.GainDB),
		meter:    analysis.NewMeter(),
		block:    make([]float32, cfg.BlockSize),
		muted:    cfg.Channel.Mute,
	}

	logrus.WithFields(logrus.Fields{
		"session":       s.id,
		"sample_rate":   cfg.SampleRate,
		"block_size":    cfg.BlockSize,
		"ring_capacity": input.Capacity(),
	}).Info("session created")

	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Config returns a copy of the session configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// AddStage appends an effect stage to the channel strip. Setup-time
// only: stages must be added before audio processing starts.
func (s *Session) AddStage(stage strip.Stage) {
	s.strip.Append(stage)
}

// PushInput feeds captured samples into the session. Called by exactly
// one capture thread; never blocks. Returns the count accepted; overflow
// is dropped and counted.
func (s *Session) PushInput(samples []float32) int {
	return s.input.Write(samples)
}

// PullOutput drains processed samples. Called by exactly one playback
// thread; never blocks. Returns the count copied.
func (s *Session) PullOutput(dst []float32) int {
	return s.output.Read(dst)
}

// InputBacklog returns the number of unprocessed input samples.
func (s *Session) InputBacklog() int {
	return s.input.Len()
}

// OutputBacklog returns the number of unplayed output samples.
func (s *Session) OutputBacklog() int {
	return s.output.Len()
}

// SkipInput discards up to n buffered input samples without processing
// them, recovering from stale backlog after a device dropout. Audio
// thread only.
func (s *Session) SkipInput(n int) int {
	return s.input.Skip(n)
}

// Dispatch enqueues a control command. Callable from any thread; never
// fails and never blocks. The command takes effect when the audio thread
// next drains the queue.
func (s *Session) Dispatch(cmd Command) {
	s.commands.Enqueue(cmd)
}

// ProcessBlock is the audio-thread entry point: it drains all pending
// commands, reads up to one block of input, runs it through the strip
// under the CPU probe, meters it, and writes it to the output ring.
// Returns the number of samples processed (0 when no input is pending).
// It never allocates, locks, or blocks.
func (s *Session) ProcessBlock() int {
	for {
		cmd, ok := s.commands.TryDequeue()
		if !ok {
			break
		}
		s.apply(cmd)
	}

	n := s.input.Read(s.block)
	if n == 0 {
		return 0
	}
	blk := s.block[:n]

	s.probe.Begin()
	s.strip.Process(blk)
	if elapsed, err := s.probe.End(); err == nil {
		s.lastBlockCPU.Store(elapsed)
		s.cpuValid.Store(true)
	} else {
		s.cpuValid.Store(false)
	}

	if s.muted {
		clear(blk)
	}

	s.meter.Observe(blk)
	s.output.Write(blk)

	return n
}

// apply executes one drained command on the audio thread.
func (s *Session) apply(cmd Command) {
	switch cmd.Kind {
	case CommandSetParam:
		s.strip.SetParam(cmd.Target, cmd.Value)
	case CommandBypass:
		s.strip.SetBypass(cmd.From, cmd.Value != 0)
	case CommandReorder:
		s.strip.Reorder(cmd.From, cmd.To)
	case CommandMute:
		s.muted = cmd.Value != 0
	}
}

// Levels returns the peak and RMS of the most recently processed block.
// Safe from any thread.
func (s *Session) Levels() (peak, rms float64) {
	return s.meter.Levels()
}

// Snapshot returns the session's diagnostic counters. Safe from any
// thread.
func (s *Session) Snapshot() Snapshot {
	peak, rms := s.meter.Levels()
	return Snapshot{
		SessionID:     s.id,
		InputDropped:  s.input.Dropped(),
		OutputDropped: s.output.Dropped(),
		LastBlockCPU:  time.Duration(s.lastBlockCPU.Load()),
		CPUTimeValid:  s.cpuValid.Load(),
		PeakLevel:     peak,
		RMSLevel:      rms,
	}
}

// Close tears the session down. The caller must have stopped the
// capture, audio, and playback threads first.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	snap := s.Snapshot()
	logrus.WithFields(logrus.Fields{
		"session":        s.id,
		"input_dropped":  snap.InputDropped,
		"output_dropped": snap.OutputDropped,
	}).Info("session closed")

	return nil
}
