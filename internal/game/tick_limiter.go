package game

import (
	"context"
	"time"
)

// spinWindow is how close to the deadline Wait stops sleeping and spins.
const spinWindow = 200 * time.Microsecond

// TickLimiter paces a loop to a fixed number of ticks per second.
type TickLimiter struct {
	rate int
	next time.Time
}

// NewTickLimiter creates a limiter for rate ticks per second. A rate of zero
// or less never waits.
func NewTickLimiter(rate int) *TickLimiter {
	return &TickLimiter{rate: rate}
}

// Wait blocks until the next tick is due or ctx is done.
func (l *TickLimiter) Wait(ctx context.Context) error {
	if l.rate <= 0 {
		l.next = time.Time{}
		return ctx.Err()
	}
	target := time.Second / time.Duration(l.rate)
	if l.next.IsZero() {
		l.next = time.Now().Add(target)
	} else {
		l.next = l.next.Add(target)
	}

	if remaining := time.Until(l.next); remaining > spinWindow {
		t := time.NewTimer(remaining - spinWindow)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	for time.Until(l.next) > 0 {
	}

	// Resync after a hitch instead of bursting to catch up.
	if late := -time.Until(l.next); late > target {
		l.next = time.Now().Add(target)
	}
	return nil
}
