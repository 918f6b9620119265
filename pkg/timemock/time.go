// timemock is a thin wrapper over stdlib/time package so that components stamping
// samples with the current time can be driven by a frozen clock in tests.
package timemock

import (
	"sync"
	"time"
)

var (
	Now   = time.Now
	After = time.After

	mu     sync.Mutex
	frozen time.Time
)

// Freeze stops the clock at the given time. Advance moves it forward.
// The returned function restores the real clock.
func Freeze(at time.Time) func() {
	mu.Lock()
	frozen = at
	mu.Unlock()

	Now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return frozen
	}
	After = func(d time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- Now().Add(d)
		return ch
	}
	return func() {
		Now = time.Now
		After = time.After
	}
}

// Advance moves a frozen clock forward by d.
func Advance(d time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	frozen = frozen.Add(d)
}
