package strip

import (
	"strconv"
	"strings"
)

// stageTargetPrefix addresses parameters of chained stages:
// "stage.<index>.<param>".
const stageTargetPrefix = "stage."

// slot pairs a stage with its bypass flag.
type slot struct {
	stage    Stage
	bypassed bool
}

// Strip is an ordered chain of stages followed by a ramped output gain.
// All methods are audio-thread only.
type Strip struct {
	slots []slot
	out   *GainStage
}

// New creates a strip with no stages and the given output gain.
func New(sampleRate, rampMs, outGainDB float64) *Strip {
	return &Strip{
		out: NewGainStage("output", sampleRate, rampMs, outGainDB),
	}
}

// Append adds a stage to the end of the chain.
func (s *Strip) Append(stage Stage) {
	s.slots = append(s.slots, slot{stage: stage})
}

// Len returns the number of chained stages (excluding the output gain).
func (s *Strip) Len() int {
	return len(s.slots)
}

// StageNames returns the chain order by stage name.
func (s *Strip) StageNames() []string {
	names := make([]string, len(s.slots))
	for i, sl := range s.slots {
		names[i] = sl.stage.Name()
	}
	return names
}

// OutputGain returns the current linear output gain.
func (s *Strip) OutputGain() float64 {
	return s.out.Gain()
}

// Process runs the block through every non-bypassed stage, then the
// output gain, in place.
func (s *Strip) Process(block []float32) {
	for i := range s.slots {
		if s.slots[i].bypassed {
			continue
		}
		s.slots[i].stage.Process(block)
	}
	s.out.Process(block)
}

// SetBypass toggles one stage. Out-of-range indices are ignored.
func (s *Strip) SetBypass(index int, bypassed bool) bool {
	if index < 0 || index >= len(s.slots) {
		return false
	}
	wasBypassed := s.slots[index].bypassed
	s.slots[index].bypassed = bypassed
	if wasBypassed != bypassed && bypassed {
		// A re-engaged stage must not replay stale state.
		s.slots[index].stage.Reset()
	}
	return true
}

// Reorder moves the stage at from to position to, shifting the others.
// Out-of-range indices are ignored.
func (s *Strip) Reorder(from, to int) bool {
	n := len(s.slots)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}

	moved := s.slots[from]
	if from < to {
		copy(s.slots[from:to], s.slots[from+1:to+1])
	} else {
		copy(s.slots[to+1:from+1], s.slots[to:from])
	}
	s.slots[to] = moved
	return true
}

// SetParam routes a parameter address to its ramp. "gain_db" addresses
// the output gain; "stage.<index>.<param>" addresses a chained stage
// that implements Automatable. Returns false for unresolvable targets.
func (s *Strip) SetParam(target string, value float64) bool {
	if target == ParamGainDB {
		s.out.SetGainDB(value)
		return true
	}

	rest, ok := strings.CutPrefix(target, stageTargetPrefix)
	if !ok {
		return false
	}
	idxStr, param, ok := strings.Cut(rest, ".")
	if !ok {
		return false
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 || idx >= len(s.slots) {
		return false
	}

	auto, ok := s.slots[idx].stage.(Automatable)
	if !ok {
		return false
	}
	return auto.SetParam(param, value)
}

// Reset resets every stage.
func (s *Strip) Reset() {
	for i := range s.slots {
		s.slots[i].stage.Reset()
	}
	s.out.Reset()
}
