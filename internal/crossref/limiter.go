package crossref

import (
	"sync"
	"time"
)

// windowLimiter is a sliding-window rate limiter whose (limit, interval)
// pair is discovered from the server's last response headers. No limit is
// known before the first call, so the first request always passes.
//
// When a call would exceed limit requests within the trailing interval,
// wait computes the exact duration until the oldest counted request ages
// out of the window, sleeps it, and re-checks.
type windowLimiter struct {
	mu       sync.Mutex
	limit    int
	interval time.Duration
	stamps   []time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func newWindowLimiter() *windowLimiter {
	return &windowLimiter{
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// wait blocks until a request may be issued and records its timestamp.
// The sleep is a plain blocking sleep on the calling goroutine; there is
// no cancellation.
func (l *windowLimiter) wait() {
	for {
		l.mu.Lock()
		now := l.now()

		if l.limit > 0 {
			cutoff := now.Add(-l.interval)
			kept := l.stamps[:0]
			for _, s := range l.stamps {
				if s.After(cutoff) {
					kept = append(kept, s)
				}
			}
			l.stamps = kept

			if len(l.stamps) >= l.limit {
				d := l.stamps[0].Add(l.interval).Sub(now)
				l.mu.Unlock()
				l.sleep(d)
				continue
			}
		}

		l.stamps = append(l.stamps, now)
		l.mu.Unlock()
		return
	}
}

// update replaces the discovered (limit, interval) pair. Non-positive
// values are ignored.
func (l *windowLimiter) update(limit int, interval time.Duration) {
	if limit <= 0 || interval <= 0 {
		return
	}
	l.mu.Lock()
	l.limit = limit
	l.interval = interval
	l.mu.Unlock()
}
