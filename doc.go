// Package livemix provides the real-time transport substrate for an
// audio mixer/channel-strip host: the lock-free plumbing that moves
// samples and control commands between a deterministic audio-processing
// thread and everything else, plus the parameter smoothing that lets
// control changes land without audible clicks.
//
// # Architecture
//
// A [Session] owns one audio session's substrate:
//
//	capture callback → input ring → ProcessBlock → output ring → playback callback
//	                                     ↑
//	UI / config / MIDI threads → command queue (drained per block)
//	                                     ↓
//	                        parameter ramps (per-sample smoothing)
//
// The audio thread calls [Session.ProcessBlock] once per block. It never
// allocates, locks, or blocks: the sample rings are single-producer/
// single-consumer lock-free buffers, the command queue is a lock-free
// multi-producer/single-consumer queue, and parameter changes are applied
// through per-sample linear ramps.
//
// # Quick Start
//
//	cfg := livemix.DefaultConfig()
//	session, err := livemix.NewSession(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	// Capture thread:
//	session.PushInput(captured)
//
//	// Audio thread, once per block:
//	session.ProcessBlock()
//
//	// Playback thread:
//	session.PullOutput(out)
//
//	// Any thread:
//	session.Dispatch(livemix.SetParam("gain_db", -6.0))
//
// # Overload Behavior
//
// Nothing in the substrate ever blocks. Sample-ring overflow follows a
// drop-newest policy: samples that do not fit are discarded and counted,
// buffered unread data is never overwritten. The command queue grows
// unbounded instead of rejecting producers; commands are small and
// infrequent relative to the sample stream. Drop counters and per-block
// CPU time are exposed through [Session.Snapshot] for out-of-band
// monitoring.
//
// # Thread Safety
//
// Thread roles are fixed per session: one capture thread (PushInput),
// one audio thread (ProcessBlock, AddStage before start), one playback
// thread (PullOutput). Dispatch, Snapshot, and Levels are safe from any
// thread.
package livemix
