// Package monitor polls session diagnostics out-of-band: transport drop
// counters, audio-thread CPU time, and process-level resource usage. It
// is read-only instrumentation; nothing here feeds back into the audio
// path.
package monitor

import (
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"

	"github.com/audioforge/livemix"
)

// defaultInterval is the polling period when the caller passes zero.
const defaultInterval = 5 * time.Second

// Report is one periodic observation.
type Report struct {
	Time     time.Time
	Session  livemix.Snapshot

	// InputDropDelta and OutputDropDelta are drops since the previous
	// report.
	InputDropDelta  uint64
	OutputDropDelta uint64

	// ProcessCPUPercent and ProcessRSS describe the whole process, via
	// gopsutil. Zero when process stats are unavailable.
	ProcessCPUPercent float64
	ProcessRSS        uint64
}

// Source provides the session counters the collector polls.
type Source interface {
	Snapshot() livemix.Snapshot
}

// Collector periodically polls a Source and delivers reports through a
// callback and the log.
type Collector struct {
	source   Source
	interval time.Duration

	mu       sync.Mutex
	running  bool
	stop     chan struct{}
	done     chan struct{}
	callback func(Report)

	lastInDropped  uint64
	lastOutDropped uint64

	proc *process.Process
}

// NewCollector creates a collector polling source every interval.
func NewCollector(source Source, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = defaultInterval
	}

	// Process stats are best-effort; a nil proc degrades the report.
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logrus.WithError(err).Warn("process stats unavailable")
		proc = nil
	}

	return &Collector{
		source:   source,
		interval: interval,
		proc:     proc,
	}
}

// OnReport registers the report callback. Must be called before Start.
func (c *Collector) OnReport(fn func(Report)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callback = fn
}

// Start launches the polling goroutine. Calling Start on a running
// collector is a no-op.
func (c *Collector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.stop = make(chan struct{})
	c.done = make(chan struct{})

	go c.run(c.stop, c.done)
}

// Stop halts polling and waits for the goroutine to exit.
func (c *Collector) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	stop, done := c.stop, c.done
	c.mu.Unlock()

	close(stop)
	<-done
}

// Poll takes one observation immediately, without the periodic
// goroutine.
func (c *Collector) Poll() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.observe()
}

func (c *Collector) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			report := c.observe()
			callback := c.callback
			c.mu.Unlock()

			logFields := logrus.Fields{
				"session":        report.Session.SessionID,
				"input_dropped":  report.InputDropDelta,
				"output_dropped": report.OutputDropDelta,
				"block_cpu":      report.Session.LastBlockCPU,
			}
			if report.InputDropDelta > 0 || report.OutputDropDelta > 0 {
				logrus.WithFields(logFields).Warn("transport dropped samples")
			} else {
				logrus.WithFields(logFields).Debug("session healthy")
			}

			if callback != nil {
				callback(report)
			}
		}
	}
}

// observe builds one report. Caller holds c.mu.
func (c *Collector) observe() Report {
	snap := c.source.Snapshot()

	report := Report{
		Time:            time.Now(),
		Session:         snap,
		InputDropDelta:  snap.InputDropped - c.lastInDropped,
		OutputDropDelta: snap.OutputDropped - c.lastOutDropped,
	}
	c.lastInDropped = snap.InputDropped
	c.lastOutDropped = snap.OutputDropped

	if c.proc != nil {
		if cpu, err := c.proc.CPUPercent(); err == nil {
			report.ProcessCPUPercent = cpu
		}
		if mem, err := c.proc.MemoryInfo(); err == nil {
			report.ProcessRSS = mem.RSS
		}
	}

	return report
}
