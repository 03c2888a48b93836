// Package midi translates MIDI control-change events into engine
// commands on the producer side. The mapper holds no shared state and
// runs entirely on the MIDI input thread; its output feeds
// Session.Dispatch.
package midi

import "github.com/audioforge/livemix"

// ccMaxValue is the largest 7-bit controller value.
const ccMaxValue = 127.0

// Event is one incoming MIDI control-change message.
type Event struct {
	Channel    uint8
	Controller uint8
	Value      uint8 // 0..127
}

// Binding maps one controller to a parameter target, scaling the 7-bit
// controller range onto [Min, Max].
type Binding struct {
	Channel    uint8
	Controller uint8
	Target     string
	Min        float64
	Max        float64
}

// Mapper resolves events against a set of bindings.
type Mapper struct {
	bindings []Binding
}

// NewMapper creates a mapper with the given bindings.
func NewMapper(bindings []Binding) *Mapper {
	return &Mapper{bindings: bindings}
}

// Bind adds a binding.
func (m *Mapper) Bind(b Binding) {
	m.bindings = append(m.bindings, b)
}

// Translate resolves an event to a parameter-change command. The second
// return value is false when no binding matches.
func (m *Mapper) Translate(ev Event) (livemix.Command, bool) {
	for _, b := range m.bindings {
		if b.Channel != ev.Channel || b.Controller != ev.Controller {
			continue
		}
		value := b.Min + (b.Max-b.Min)*float64(ev.Value)/ccMaxValue
		return livemix.SetParam(b.Target, value), true
	}
	return livemix.Command{}, false
}
