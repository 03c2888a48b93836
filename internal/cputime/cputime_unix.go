//go:build linux || darwin || freebsd

package cputime

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Now returns the calling thread's consumed CPU time in nanoseconds.
// The value is monotonically informative within one thread; readings
// taken on different threads are not comparable.
func Now() (int64, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_THREAD_CPUTIME_ID, &ts); err != nil {
		return 0, fmt.Errorf("%w: clock_gettime: %v", ErrUnavailable, err)
	}
	return ts.Nano(), nil
}
