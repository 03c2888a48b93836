package transport

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// Capacity rounding cases
	testCapacityOne     = 1
	testCapacityExact   = 64
	testCapacityRounded = 100
	testCapacityLarge   = 100000

	// Stress test parameters
	stressElements  = 1 << 18
	stressRingSize  = 256
	stressChunkSize = 64
)

// TestNewRing_CapacityRounding verifies that capacity is rounded up to
// the smallest power of two >= the request.
func TestNewRing_CapacityRounding(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"one", testCapacityOne, 1},
		{"two", 2, 2},
		{"three_rounds_to_four", 3, 4},
		{"exact_power_of_two", testCapacityExact, 64},
		{"rounds_to_128", testCapacityRounded, 128},
		{"large", testCapacityLarge, 131072},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRing[float32](tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Capacity())
		})
	}
}

// TestNewRing_InvalidCapacity verifies that non-positive capacities are
// rejected.
func TestNewRing_InvalidCapacity(t *testing.T) {
	for _, requested := range []int{0, -1, -1024} {
		r, err := NewRing[float32](requested)
		assert.Nil(t, r)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	}
}

// TestRing_WriteThenRead verifies exact value and order preservation for
// sequential use.
func TestRing_WriteThenRead(t *testing.T) {
	r, err := NewRing[float32](8)
	require.NoError(t, err)

	in := []float32{0.1, -0.2, 0.3, -0.4, 0.5}
	assert.Equal(t, len(in), r.Write(in))
	assert.Equal(t, len(in), r.Len())

	out := make([]float32, len(in))
	assert.Equal(t, len(in), r.Read(out))
	assert.Equal(t, in, out)
	assert.Equal(t, 0, r.Len())

	// Empty ring reads zero.
	assert.Equal(t, 0, r.Read(out))
}

// TestRing_WrapAround verifies correctness when writes and reads straddle
// the end of the backing array.
func TestRing_WrapAround(t *testing.T) {
	r, err := NewRing[int](4)
	require.NoError(t, err)

	scratch := make([]int, 3)
	require.Equal(t, 3, r.Write([]int{1, 2, 3}))
	require.Equal(t, 3, r.Read(scratch))

	// Cursors now sit at 3; this write wraps.
	in := []int{4, 5, 6}
	assert.Equal(t, 3, r.Write(in))

	out := make([]int, 3)
	assert.Equal(t, 3, r.Read(out))
	assert.Equal(t, in, out)
}

// TestRing_DropNewest verifies the overflow policy: incoming overflow is
// discarded and counted, buffered unread data is untouched.
func TestRing_DropNewest(t *testing.T) {
	r, err := NewRing[float32](4)
	require.NoError(t, err)

	buffered := []float32{1, 2, 3}
	require.Equal(t, 3, r.Write(buffered))

	// Only one slot is free; two of the three incoming samples drop.
	n := r.Write([]float32{10, 20, 30})
	assert.Equal(t, 1, n)
	assert.Equal(t, uint64(2), r.Dropped())

	out := make([]float32, 4)
	assert.Equal(t, 4, r.Read(out))
	assert.Equal(t, []float32{1, 2, 3, 10}, out)

	// Writing to a full ring drops everything.
	require.Equal(t, 4, r.Write([]float32{1, 2, 3, 4}))
	assert.Equal(t, 0, r.Write([]float32{5, 6}))
	assert.Equal(t, uint64(4), r.Dropped())
}

// TestRing_Skip verifies backlog discard without copying.
func TestRing_Skip(t *testing.T) {
	r, err := NewRing[float32](8)
	require.NoError(t, err)

	require.Equal(t, 6, r.Write([]float32{1, 2, 3, 4, 5, 6}))

	assert.Equal(t, 4, r.Skip(4))
	assert.Equal(t, 2, r.Len())

	// Skipping more than available clamps.
	assert.Equal(t, 2, r.Skip(10))
	assert.Equal(t, 0, r.Skip(1))
	assert.Equal(t, 0, r.Skip(-1))
}

// TestRing_Clear verifies cursor and counter reset.
func TestRing_Clear(t *testing.T) {
	r, err := NewRing[float32](2)
	require.NoError(t, err)

	r.Write([]float32{1, 2, 3}) // one drop
	require.Equal(t, uint64(1), r.Dropped())

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, uint64(0), r.Dropped())
}

// TestRing_ConcurrentStress runs one writer against one reader and checks
// that every value read equals the value written at the same logical
// sequence position, with reads never outrunning writes.
func TestRing_ConcurrentStress(t *testing.T) {
	r, err := NewRing[int](stressRingSize)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)

	// Writer retries dropped tail samples so the logical sequence stays
	// gapless; the reader can then verify positions exactly.
	go func() {
		defer wg.Done()
		seq := 0
		chunk := make([]int, stressChunkSize)
		for seq < stressElements {
			n := len(chunk)
			if stressElements-seq < n {
				n = stressElements - seq
			}
			for i := 0; i < n; i++ {
				chunk[i] = seq + i
			}
			written := r.Write(chunk[:n])
			seq += written
		}
	}()

	var mismatches int
	go func() {
		defer wg.Done()
		expected := 0
		buf := make([]int, stressChunkSize)
		for expected < stressElements {
			n := r.Read(buf)
			for i := 0; i < n; i++ {
				if buf[i] != expected {
					mismatches++
				}
				expected++
			}
		}
	}()

	wg.Wait()
	assert.Zero(t, mismatches, "reader observed out-of-sequence values")
}

func BenchmarkRing_Write(b *testing.B) {
	r, err := NewRing[float32](1 << 14)
	if err != nil {
		b.Fatal(err)
	}
	block := make([]float32, stressChunkSize)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Write(block)
		r.Skip(stressChunkSize)
	}
}
