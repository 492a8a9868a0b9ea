package sched

import (
	"context"
	"sync"
	"time"

	"github.com/maumercado/cotask/internal/events"
	"github.com/maumercado/cotask/internal/logger"
	"github.com/maumercado/cotask/internal/metrics"
)

// DefaultInterval is the tick period used when an Engine is constructed
// with a zero interval.
const DefaultInterval = time.Millisecond

// Engine owns a collection of Tasks and Subscriptions and drives them
// forward one tick at a time, on a single goroutine. Nothing outside the
// goroutine currently inside RunWhile/RunOnce ever touches the task
// collection directly; everything else goes through the SchedulerQueue.
type Engine struct {
	tasksMu  sync.RWMutex
	tasks    []TaskLike
	interval time.Duration

	queue *SchedulerQueue

	runMu  sync.Mutex
	inRun  bool
	ticker int

	publisher events.Publisher
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithInterval overrides the tick period.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) { e.interval = d }
}

// WithPublisher installs a lifecycle event publisher. The default is a
// no-op publisher.
func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// NewEngine constructs an idle Engine with no tasks.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		interval:  DefaultInterval,
		queue:     NewSchedulerQueue(),
		publisher: events.NoOp{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.interval <= 0 {
		e.interval = DefaultInterval
	}
	return e
}

// Queue returns the engine's SchedulerQueue, the only channel through
// which its task collection may be mutated from outside its own goroutine.
func (e *Engine) Queue() *SchedulerQueue {
	return e.queue
}

// AddTask applies t's duplicate policy immediately against the current
// task collection. It is only safe to call before the engine starts
// running, or from the engine's own goroutine (e.g. during RunOnce in a
// test); everything else must go through Queue().AddTask.
func (e *Engine) AddTask(t TaskLike) {
	e.applyAdd(t)
}

func (e *Engine) applyAdd(t TaskLike) {
	e.tasksMu.Lock()
	defer e.tasksMu.Unlock()

	switch t.DuplicatePolicy() {
	case KeepOld:
		for _, existing := range e.tasks {
			if existing.Name() == t.Name() {
				return
			}
		}
	case KeepNew:
		e.retainLocked(func(existing TaskLike) bool { return existing.Name() != t.Name() })
	}
	e.tasks = append(e.tasks, t)
	metrics.RecordTaskAdded(t.Kind().String())
	e.publish(events.EventTaskAdded, events.TaskEventData(t.Name(), t.Kind().String(), nil))
}

func (e *Engine) applyRetain(predicate RetainPredicate) {
	e.tasksMu.Lock()
	defer e.tasksMu.Unlock()
	e.retainLocked(predicate)
}

// retainLocked assumes tasksMu is already held for writing.
func (e *Engine) retainLocked(predicate RetainPredicate) {
	kept := make([]TaskLike, 0, len(e.tasks))
	for _, t := range e.tasks {
		if predicate(t) {
			kept = append(kept, t)
		}
	}
	e.tasks = kept
}

func (e *Engine) publish(eventType events.EventType, data map[string]interface{}) {
	_ = e.publisher.Publish(context.Background(), events.NewEvent(eventType, data))
}

// RunWhile acquires the engine's run lock and ticks repeatedly, pacing
// itself to interval, until condition returns false or the lock cannot be
// acquired. It returns EngineReentry immediately if another RunWhile or
// RunOnce is already in flight.
func (e *Engine) RunWhile(condition func(now time.Time) bool) error {
	if !e.acquireRunLock() {
		log := logger.WithEngine()
		log.Warn().Msg("run attempted while engine already running")
		metrics.RecordEngineReentry()
		e.publish(events.EventEngineReentry, nil)
		return EngineReentry
	}
	defer e.releaseRunLock()

	for {
		loopStart := time.Now()
		if !condition(loopStart) {
			return nil
		}
		e.tick(loopStart)

		elapsed := time.Since(loopStart)
		if remaining := e.interval - elapsed; remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// Run ticks forever, pacing itself to interval, until the run lock cannot
// be reacquired (which cannot happen from within the same call) — in
// practice this blocks the calling goroutine indefinitely. Callers that
// want a stoppable loop should use RunWhile with their own condition.
func (e *Engine) Run() error {
	return e.RunWhile(func(time.Time) bool { return true })
}

// RunOnce acquires the run lock, performs exactly one tick, and releases
// the lock. Returns EngineReentry if the lock is already held.
func (e *Engine) RunOnce(now time.Time) error {
	if !e.acquireRunLock() {
		metrics.RecordEngineReentry()
		e.publish(events.EventEngineReentry, nil)
		return EngineReentry
	}
	defer e.releaseRunLock()
	e.tick(now)
	return nil
}

// RunTaskOnce bypasses ShouldRun and runs t's Run method directly against
// the engine's queue, under the run lock. Intended for manual invocation
// of a specific task outside the normal tick cadence.
func (e *Engine) RunTaskOnce(t TaskLike) error {
	if !e.acquireRunLock() {
		return EngineReentry
	}
	defer e.releaseRunLock()
	return t.Run(e.queue)
}

func (e *Engine) acquireRunLock() bool {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	if e.inRun {
		return false
	}
	e.inRun = true
	return true
}

func (e *Engine) releaseRunLock() {
	e.runMu.Lock()
	e.inRun = false
	e.runMu.Unlock()
}

// tick performs exactly one pass of the algorithm: drain mutations,
// dispatch due tasks, clear triggered events, reap expired tasks. It must
// only ever be called while the run lock is held.
func (e *Engine) tick(now time.Time) {
	triggered := e.drainModifications()

	for name := range triggered {
		metrics.RecordEventTriggered(name)
		e.publish(events.EventEventTriggered, events.EventTriggerData(name))
	}

	for _, t := range e.snapshotTasks() {
		if t.ShouldRun(now, triggered) {
			_ = t.Run(e.queue)
		}
	}

	activeTasks, activeSubs := e.reapExpired()
	metrics.SetActiveCounts(float64(activeTasks), float64(activeSubs))
	metrics.RecordTick(time.Since(now).Seconds())

	e.publish(events.EventTickCompleted, events.TickData(activeTasks, activeSubs, time.Since(now)))
}

// snapshotTasks returns the current task slice under a read lock. The
// returned slice is never mutated in place by the engine, so iterating it
// without holding the lock (and thus without holding any lock across a
// handler invocation) is safe.
func (e *Engine) snapshotTasks() []TaskLike {
	e.tasksMu.RLock()
	defer e.tasksMu.RUnlock()
	return e.tasks
}

func (e *Engine) reapExpired() (activeTasks, activeSubs int) {
	e.tasksMu.Lock()
	defer e.tasksMu.Unlock()

	kept := make([]TaskLike, 0, len(e.tasks))
	for _, t := range e.tasks {
		if t.Expired() {
			metrics.RecordTaskExpired(t.Kind().String())
			e.publish(events.EventTaskExpired, events.TaskEventData(t.Name(), t.Kind().String(), nil))
			continue
		}
		kept = append(kept, t)
		if t.Kind() == KindTask {
			activeTasks++
		} else {
			activeSubs++
		}
	}
	e.tasks = kept
	return activeTasks, activeSubs
}

// drainModifications applies every pending queue modification and returns
// the set of event names triggered this tick.
func (e *Engine) drainModifications() map[string]struct{} {
	triggered := make(map[string]struct{})
	for _, m := range e.queue.drain() {
		switch m.kind {
		case modAddTask:
			e.applyAdd(m.task)
		case modRetainTasks:
			e.applyRetain(m.predicate)
		case modTriggerEvent:
			triggered[m.event] = struct{}{}
		}
	}
	return triggered
}

// Pause freezes every task/subscription at a single instant, captured
// once so every unit is paused relative to the same clock reading.
func (e *Engine) Pause() {
	now := time.Now()
	for _, t := range e.snapshotTasks() {
		t.Pause(now)
	}
}

// Resume unfreezes every task/subscription at a single instant.
func (e *Engine) Resume() {
	now := time.Now()
	for _, t := range e.snapshotTasks() {
		t.Resume(now)
	}
}

// Len returns the number of tasks and subscriptions currently held by the
// engine.
func (e *Engine) Len() int {
	e.tasksMu.RLock()
	defer e.tasksMu.RUnlock()
	return len(e.tasks)
}
