package sched

import "sync"

type modificationKind int

const (
	modAddTask modificationKind = iota
	modRetainTasks
	modTriggerEvent
)

// RetainPredicate reports whether a TaskLike should be kept; RetainTasks
// removes every unit for which it returns false.
type RetainPredicate func(TaskLike) bool

type modification struct {
	kind      modificationKind
	task      TaskLike
	predicate RetainPredicate
	event     string
}

// SchedulerQueue buffers structural mutations requested by running
// handlers (or by anything else holding a reference to it, such as the
// control API) until the owning Engine drains them between ticks. It is
// the only channel through which the task collection is ever mutated.
type SchedulerQueue struct {
	mu            sync.Mutex
	modifications []modification
}

// NewSchedulerQueue returns an empty queue.
func NewSchedulerQueue() *SchedulerQueue {
	return &SchedulerQueue{}
}

// AddTask enqueues a TaskLike to be added on the next drain, subject to
// its own DuplicatePolicy.
func (q *SchedulerQueue) AddTask(t TaskLike) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.modifications = append(q.modifications, modification{kind: modAddTask, task: t})
}

// RetainTasks enqueues a filter to be applied to the task collection on
// the next drain; units for which predicate returns false are removed.
func (q *SchedulerQueue) RetainTasks(predicate RetainPredicate) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.modifications = append(q.modifications, modification{kind: modRetainTasks, predicate: predicate})
}

// RemoveTask enqueues removal of the single unit with the given name.
func (q *SchedulerQueue) RemoveTask(name string) {
	q.RetainTasks(func(t TaskLike) bool { return t.Name() != name })
}

// RemoveScheduledTasks enqueues removal of every time-triggered Task,
// leaving Subscriptions untouched.
func (q *SchedulerQueue) RemoveScheduledTasks() {
	q.RetainTasks(func(t TaskLike) bool { return t.Kind() != KindTask })
}

// TriggerEvent enqueues a named event to be added to the triggered set on
// the next tick. Triggering an unknown event name is not an error: any
// Subscription listening for it fires, and if none do, the trigger is a
// silent no-op.
func (q *SchedulerQueue) TriggerEvent(name string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.modifications = append(q.modifications, modification{kind: modTriggerEvent, event: name})
}

// PendingEventNames returns the names of TriggerEvent modifications
// currently queued, without draining them. Intended for introspection.
func (q *SchedulerQueue) PendingEventNames() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	var names []string
	for _, m := range q.modifications {
		if m.kind == modTriggerEvent {
			names = append(names, m.event)
		}
	}
	return names
}

// PendingCount returns the number of modifications currently queued.
func (q *SchedulerQueue) PendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.modifications)
}

// drain removes and returns every pending modification. Engine-internal.
func (q *SchedulerQueue) drain() []modification {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.modifications) == 0 {
		return nil
	}
	out := q.modifications
	q.modifications = nil
	return out
}

// drainNamedEvents removes and returns only the TriggerEvent modifications
// currently queued, leaving Add/RetainTasks modifications in place for a
// later full drain.
func (q *SchedulerQueue) drainNamedEvents() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	var (
		names    []string
		retained []modification
	)
	for _, m := range q.modifications {
		if m.kind == modTriggerEvent {
			names = append(names, m.event)
		} else {
			retained = append(retained, m)
		}
	}
	q.modifications = retained
	return names
}
