package sched

import "time"

// Event carries the per-run trigger state for a Task. It is reset to a
// fresh Event whenever a Task advances to the next handler in its sequence.
type Event struct {
	targetInstant time.Time
	repeat        bool
	expired       bool
	pauseTime     *time.Time
}

// NewEvent returns an Event eligible to run immediately.
func NewEvent(now time.Time) *Event {
	return &Event{targetInstant: now}
}

// Expire marks the event's owning handler frame as finished.
func (e *Event) Expire() {
	e.expired = true
}

// Expired reports whether Expire has been called on this frame.
func (e *Event) Expired() bool {
	return e.expired
}

// Repeat requests that the current handler run again on the next tick
// instead of the sequence advancing.
func (e *Event) Repeat() {
	e.repeat = true
}

// Delay pushes the target instant forward by d, relative to its current value.
func (e *Event) Delay(d time.Duration) {
	e.targetInstant = e.targetInstant.Add(d)
}

// Reschedule delays the current handler by d and asks it to run again on
// the next tick instead of the sequence advancing.
func (e *Event) Reschedule(d time.Duration) error {
	e.Delay(d)
	e.Repeat()
	return nil
}

// seedInitialDelay sets the target instant to now+d. Used once, by a
// Task's first ShouldRun, to apply its configured initial delay — distinct
// from Reschedule, which a running handler calls to delay-and-repeat itself.
func (e *Event) seedInitialDelay(now time.Time, d time.Duration) {
	e.targetInstant = now.Add(d)
}

// ShouldRun reports whether the event is due and not paused.
func (e *Event) ShouldRun(now time.Time) bool {
	if e.pauseTime != nil {
		return false
	}
	return !e.targetInstant.After(now)
}

// Pause freezes the event at now; Resume must be called with the same
// clock to shift the target instant forward by the elapsed pause duration.
func (e *Event) Pause(now time.Time) {
	if e.pauseTime != nil {
		return
	}
	t := now
	e.pauseTime = &t
}

// Resume un-freezes a paused event, shifting its target instant forward by
// however long it was paused.
func (e *Event) Resume(now time.Time) {
	if e.pauseTime == nil {
		return
	}
	elapsed := now.Sub(*e.pauseTime)
	e.targetInstant = e.targetInstant.Add(elapsed)
	e.pauseTime = nil
}

// Paused reports whether the event is currently frozen.
func (e *Event) Paused() bool {
	return e.pauseTime != nil
}

func (e *Event) clearRepeat() bool {
	r := e.repeat
	e.repeat = false
	return r
}
