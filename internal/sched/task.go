package sched

import (
	"time"

	"github.com/maumercado/cotask/internal/failuresink"
	"github.com/maumercado/cotask/internal/logger"
	"github.com/maumercado/cotask/internal/metrics"
)

// ErrorHandler is invoked with the owning Task/Subscription name and the
// error that occurred, whenever a handler or finalizer fails.
type ErrorHandler func(source string, err error)

// defaultSink records failures for operator inspection. It is shared by
// every Task/Subscription and written only by the default catch handler; a
// custom handler installed with Catch does not record into it.
var defaultSink failuresink.Sink = failuresink.NewMemory(256)

// SetDefaultFailureSink replaces the sink every new Task/Subscription's
// default catch handler records into.
func SetDefaultFailureSink(s failuresink.Sink) {
	if s != nil {
		defaultSink = s
	}
}

// DefaultFailureSink returns the sink currently backing new default catch
// handlers, for the control API to read from.
func DefaultFailureSink() failuresink.Sink {
	return defaultSink
}

func defaultCatchHandler(name string) ErrorHandler {
	return func(source string, err error) {
		log := logger.WithTask(name)
		log.Error().Err(err).Msg("handler failed")
		kind := failuresink.KindHandler
		if _, ok := err.(*FinalizerError); ok {
			kind = failuresink.KindFinalizer
			metrics.RecordFinalizerError(source)
		} else {
			metrics.RecordHandlerError(source)
		}
		defaultSink.Add(failuresink.Record{
			Source:     source,
			Kind:       kind,
			Error:      err.Error(),
			OccurredAt: time.Now(),
		})
	}
}

// Task is a named, time-triggered unit of work: an ordered sequence of
// handlers run one at a time, an optional catch handler for errors, and an
// optional sequence of finally handlers run once the task expires.
type Task struct {
	name string
	dup  DuplicatePolicy

	handlers []*Handler
	index    int

	event   *Event
	expired bool

	initialized  bool
	pendingDelay time.Duration
	lastNow      time.Time

	catch ErrorHandler

	finally    []*Handler
	finallyRan bool
}

// New creates a Task named name whose first handler is built from source.
func New(name string, source Source) *Task {
	t := &Task{
		name:     name,
		dup:      DefaultDuplicatePolicy,
		handlers: []*Handler{source.IntoHandler()},
		event:    NewEvent(time.Time{}),
	}
	t.catch = defaultCatchHandler(name)
	return t
}

// Then appends another handler to the task's sequence, run after the
// current one expires.
func (t *Task) Then(source Source) *Task {
	t.handlers = append(t.handlers, source.IntoHandler())
	return t
}

// Catch installs a custom error handler, replacing the default logging one.
func (t *Task) Catch(f ErrorHandler) *Task {
	t.catch = f
	return t
}

// Finally appends a handler run once, after the task's whole sequence has
// expired, regardless of whether it expired via exhaustion or an error.
func (t *Task) Finally(source Source) *Task {
	t.finally = append(t.finally, source.IntoHandler())
	return t
}

// WithDuplicateHandler sets the policy AddTask applies when a task of the
// same name already exists in the engine.
func (t *Task) WithDuplicateHandler(p DuplicatePolicy) *Task {
	t.dup = p
	return t
}

// Delay pushes the task's first eligible run back by d, measured from the
// instant it is first evaluated by an engine.
func (t *Task) Delay(d time.Duration) *Task {
	t.pendingDelay = d
	return t
}

// Name implements TaskLike.
func (t *Task) Name() string { return t.name }

// Kind implements TaskLike.
func (t *Task) Kind() TaskKind { return KindTask }

// DuplicatePolicy implements TaskLike.
func (t *Task) DuplicatePolicy() DuplicatePolicy { return t.dup }

// Expired implements TaskLike.
func (t *Task) Expired() bool { return t.expired }

// Paused implements TaskLike.
func (t *Task) Paused() bool { return t.event.Paused() }

// ShouldRun implements TaskLike. Triggered event names are irrelevant to a
// Task, which only ever fires on its own clock.
func (t *Task) ShouldRun(now time.Time, _ map[string]struct{}) bool {
	if t.expired {
		return false
	}
	if !t.initialized && !t.event.Paused() {
		t.event.seedInitialDelay(now, t.pendingDelay)
		t.initialized = true
	}
	t.lastNow = now
	return t.event.ShouldRun(now)
}

// Run implements TaskLike, advancing the task by exactly one handler step.
func (t *Task) Run(scheduler *SchedulerQueue) error {
	now := t.lastNow
	if len(t.handlers) == 0 {
		t.expired = true
		return ErrEmptyHandlerSequence
	}

	t.event.repeat = false
	err := t.handlers[t.index].Run(now, t.event, scheduler)
	if err != nil {
		t.catch(t.name, &HandlerError{Source: t.name, Err: err})
		t.expired = true
	}

	if !t.event.repeat {
		t.event = NewEvent(now)
		t.index++
		if t.index >= len(t.handlers) {
			t.expired = true
		}
	}

	if t.expired && !t.finallyRan {
		t.runFinally(now, scheduler)
	}

	return err
}

func (t *Task) runFinally(now time.Time, scheduler *SchedulerQueue) {
	t.finallyRan = true
	for _, h := range t.finally {
		e := NewEvent(now)
		if err := h.Run(now, e, scheduler); err != nil {
			t.catch(t.name, &FinalizerError{Source: t.name, Err: err})
		}
	}
}

// Pause implements TaskLike.
func (t *Task) Pause(now time.Time) { t.event.Pause(now) }

// Resume implements TaskLike.
func (t *Task) Resume(now time.Time) { t.event.Resume(now) }
