package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audioforge/livemix"
)

const scaleTolerance = 1e-9

// TestMapper_ScalingEndpoints verifies controller value 0 maps to Min
// and 127 maps to Max.
func TestMapper_ScalingEndpoints(t *testing.T) {
	m := NewMapper([]Binding{
		{Channel: 0, Controller: 7, Target: "gain_db", Min: -60, Max: 6},
	})

	cmd, ok := m.Translate(Event{Channel: 0, Controller: 7, Value: 0})
	require.True(t, ok)
	assert.Equal(t, livemix.CommandSetParam, cmd.Kind)
	assert.Equal(t, "gain_db", cmd.Target)
	assert.InDelta(t, -60.0, cmd.Value, scaleTolerance)

	cmd, ok = m.Translate(Event{Channel: 0, Controller: 7, Value: 127})
	require.True(t, ok)
	assert.InDelta(t, 6.0, cmd.Value, scaleTolerance)
}

// TestMapper_MidpointScaling verifies linear interpolation between the
// endpoints.
func TestMapper_MidpointScaling(t *testing.T) {
	m := NewMapper([]Binding{
		{Channel: 2, Controller: 11, Target: "stage.0.gain_db", Min: 0, Max: 127},
	})

	cmd, ok := m.Translate(Event{Channel: 2, Controller: 11, Value: 64})
	require.True(t, ok)
	assert.InDelta(t, 64.0, cmd.Value, scaleTolerance)
}

// TestMapper_NoMatch verifies unbound events are rejected.
func TestMapper_NoMatch(t *testing.T) {
	m := NewMapper([]Binding{
		{Channel: 0, Controller: 7, Target: "gain_db", Min: 0, Max: 1},
	})

	tests := []struct {
		name string
		ev   Event
	}{
		{"wrong_controller", Event{Channel: 0, Controller: 8, Value: 64}},
		{"wrong_channel", Event{Channel: 1, Controller: 7, Value: 64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := m.Translate(tt.ev)
			assert.False(t, ok)
		})
	}
}

// TestMapper_Bind verifies bindings added after construction resolve.
func TestMapper_Bind(t *testing.T) {
	m := NewMapper(nil)
	m.Bind(Binding{Channel: 0, Controller: 1, Target: "gain_db", Min: -12, Max: 0})

	cmd, ok := m.Translate(Event{Channel: 0, Controller: 1, Value: 127})
	require.True(t, ok)
	assert.InDelta(t, 0.0, cmd.Value, scaleTolerance)
}
