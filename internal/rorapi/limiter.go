package rorapi

import (
	"context"
	"sync"
	"time"
)

// Limiter is a blocking sliding-window rate limiter: at most limit calls per
// window, with callers suspended until their next slot. It is the only
// suspension point in the engine.
type Limiter struct {
	mu         sync.Mutex
	timestamps []time.Time
	limit      int
	window     time.Duration
	now        func() time.Time
}

// NewLimiter builds a limiter allowing limit calls per sliding window.
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Wait blocks until a slot is free, then claims it. Returns early when ctx
// is done.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		wait, ok := l.tryClaim()
		if ok {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryClaim claims a slot when one is free; otherwise it reports how long the
// caller must wait for the oldest timestamp to fall out of the window.
func (l *Limiter) tryClaim() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	kept := l.timestamps[:0]
	for _, ts := range l.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.timestamps = kept

	if len(l.timestamps) < l.limit {
		l.timestamps = append(l.timestamps, now)
		return 0, true
	}
	return l.timestamps[0].Sub(cutoff), false
}
