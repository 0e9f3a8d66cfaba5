package browser

import (
	"context"
	"sync"
	"time"
)

// throttle spaces consecutive calls by a minimum interval. It is
// cooperative: each caller computes the elapsed time since the previously
// scheduled call and sleeps the remainder, rather than holding a lock for
// the duration of the wait.
type throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{interval: interval}
}

// wait blocks until at least the configured interval has elapsed since the
// previous call, or the context is cancelled.
func (t *throttle) wait(ctx context.Context) error {
	t.mu.Lock()
	now := time.Now()
	var delay time.Duration
	if !t.last.IsZero() {
		if elapsed := now.Sub(t.last); elapsed < t.interval {
			delay = t.interval - elapsed
		}
	}
	// Reserve this caller's slot so concurrent callers queue behind it.
	t.last = now.Add(delay)
	t.mu.Unlock()

	if delay <= 0 {
		return nil
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
