// Package dsp provides SIMD-accelerated block operations shared by the
// channel strip and the meters, generic over float32 and float64.
//
// With Profile-Guided Optimization (Go 1.22+), the function pointer calls
// in hot paths can be devirtualized and inlined, achieving near-zero
// overhead.
package dsp

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Float is the type constraint for supported floating-point types.
type Float interface {
	float32 | float64
}

// Ops provides SIMD-accelerated operations for type F. Function pointers
// allow type-safe generic code while delegating to optimized
// type-specific implementations.
type Ops[F Float] struct {
	// Scale multiplies each element by scalar s: dst[i] = a[i] * s.
	Scale func(dst, a []F, s F)

	// Sum returns the sum of all elements.
	Sum func(a []F) F

	// DotProductUnsafe computes the dot product without bounds checking.
	// Use only when slices are guaranteed to have equal length.
	DotProductUnsafe func(a, b []F) F
}

// Pre-instantiated operations for each float type, package-level to
// avoid repeated allocation.
var (
	ops32 = Ops[float32]{
		Scale:            f32.Scale,
		Sum:              f32.Sum,
		DotProductUnsafe: f32.DotProductUnsafe,
	}
	ops64 = Ops[float64]{
		Scale:            f64.Scale,
		Sum:              f64.Sum,
		DotProductUnsafe: f64.DotProductUnsafe,
	}
)

// For returns the Ops instance for type F. The type switch happens at
// instantiation time, not in hot paths.
func For[F Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&ops32).(*Ops[F])
		if !ok {
			panic("dsp: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(&ops64).(*Ops[F])
		if !ok {
			panic("dsp: type assertion failed for float64")
		}
		return ops
	default:
		panic("dsp: unsupported float type")
	}
}
