package sched

import (
	"math"
	"math/rand"
	"time"
)

// BackoffPolicy governs how far into the future Reschedule pushes an
// Event's target instant on successive attempts. The calculation is
// exponential with jitter, the same shape used elsewhere in this codebase
// for retry scheduling, repurposed here as a handler-level helper rather
// than a requeue-into-storage mechanism.
type BackoffPolicy struct {
	Initial      time.Duration
	Max          time.Duration
	Factor       float64
	JitterFactor float64
}

// DefaultBackoffPolicy returns a sensible default.
func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		Initial:      time.Second,
		Max:          5 * time.Minute,
		Factor:       2.0,
		JitterFactor: 0.1,
	}
}

// Backoff returns the delay to apply for the given attempt number (0 for
// the first attempt).
func (p BackoffPolicy) Backoff(attempt int) time.Duration {
	if attempt <= 0 {
		return p.Initial
	}

	backoff := float64(p.Initial) * math.Pow(p.Factor, float64(attempt))
	if backoff > float64(p.Max) {
		backoff = float64(p.Max)
	}

	if p.JitterFactor > 0 {
		jitter := backoff * p.JitterFactor * (rand.Float64()*2 - 1)
		backoff += jitter
	}
	if backoff < 0 {
		backoff = float64(p.Initial)
	}

	return time.Duration(backoff)
}

// Reschedule is a Source that, each time it runs, calls fn and then delays
// and repeats the event by the next backoff interval; fn's error return,
// if any, is what drives the owning Task's catch handler as usual. Cap the
// number of attempts by wrapping the Task itself (e.g. Then-ing a source
// after it, or Catch-ing the eventual failure) since the event repeats
// indefinitely on its own.
func Reschedule(policy BackoffPolicy, fn func() error) Source {
	attempt := 0
	return Func(func(e *Event) error {
		err := fn()
		_ = e.Reschedule(policy.Backoff(attempt))
		attempt++
		return err
	})
}
