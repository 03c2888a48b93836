//go:build !linux && !darwin && !freebsd

package cputime

// Now reports the thread-time counter as unavailable on platforms
// without CLOCK_THREAD_CPUTIME_ID support.
func Now() (int64, error) {
	return 0, ErrUnavailable
}
