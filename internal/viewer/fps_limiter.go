package viewer

import (
	"time"
)

// spinWindow is the tail of each interval that is busy-waited instead of slept
const spinWindow = 200 * time.Microsecond

// FPSLimiter caps the tick rate with a hybrid sleep/spin wait
type FPSLimiter struct {
	limit int
	next  time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewFPSLimiter creates a limiter capped at limit ticks per second.
// A limit of 0 or less disables it.
func NewFPSLimiter(limit int) *FPSLimiter {
	return &FPSLimiter{limit: limit, now: time.Now, sleep: time.Sleep}
}

// Limit returns the configured cap
func (f *FPSLimiter) Limit() int {
	return f.limit
}

// Wait blocks until the next tick is due and returns how long it blocked.
// Deadlines advance by whole intervals, so short ticks do not accumulate
// drift; a tick later than a full interval restarts the schedule.
func (f *FPSLimiter) Wait() time.Duration {
	if f.limit <= 0 {
		f.next = time.Time{}
		return 0
	}
	interval := time.Second / time.Duration(f.limit)

	start := f.now()
	if f.next.IsZero() {
		f.next = start.Add(interval)
	} else {
		f.next = f.next.Add(interval)
	}

	for {
		remaining := f.next.Sub(f.now())
		if remaining <= 0 {
			break
		}
		if remaining > spinWindow {
			f.sleep(remaining - spinWindow)
		}
	}

	end := f.now()
	if end.Sub(f.next) > interval {
		f.next = end
	}
	return end.Sub(start)
}
