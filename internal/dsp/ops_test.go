package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const opTolerance = 1e-6

// TestFor_Float32 verifies the float32 instantiation delegates to
// working implementations.
func TestFor_Float32(t *testing.T) {
	ops := For[float32]()
	require.NotNil(t, ops)

	a := []float32{1, 2, 3, 4}
	dst := make([]float32, len(a))

	ops.Scale(dst, a, 0.5)
	assert.Equal(t, []float32{0.5, 1, 1.5, 2}, dst)

	assert.InDelta(t, 10.0, float64(ops.Sum(a)), opTolerance)
	assert.InDelta(t, 30.0, float64(ops.DotProductUnsafe(a, a)), opTolerance)
}

// TestFor_Float64 verifies the float64 instantiation.
func TestFor_Float64(t *testing.T) {
	ops := For[float64]()
	require.NotNil(t, ops)

	a := []float64{0.25, -0.5, 0.75}
	dst := make([]float64, len(a))

	ops.Scale(dst, a, 2.0)
	assert.InDeltaSlice(t, []float64{0.5, -1.0, 1.5}, dst, opTolerance)

	assert.InDelta(t, 0.5, ops.Sum(a), opTolerance)
}
