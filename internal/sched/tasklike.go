package sched

import "time"

// DuplicatePolicy governs what AddTask does when a task/subscription of the
// same name is already present in the engine.
type DuplicatePolicy int

const (
	// KeepAll adds the new unit unconditionally, allowing duplicate names.
	KeepAll DuplicatePolicy = iota
	// KeepOld discards the new unit if a unit with the same name exists.
	KeepOld
	// KeepNew removes any existing unit with the same name, then adds the
	// new one, in the same modification-handling pass.
	KeepNew
)

// DefaultDuplicatePolicy is applied when a Task or Subscription is built
// without an explicit WithDuplicateHandler call.
const DefaultDuplicatePolicy = KeepAll

func (p DuplicatePolicy) String() string {
	switch p {
	case KeepAll:
		return "keep_all"
	case KeepOld:
		return "keep_old"
	case KeepNew:
		return "keep_new"
	default:
		return "unknown"
	}
}

// TaskKind distinguishes time-triggered Tasks from event-triggered
// Subscriptions in introspection output.
type TaskKind int

const (
	KindTask TaskKind = iota
	KindSubscription
)

func (k TaskKind) String() string {
	switch k {
	case KindTask:
		return "task"
	case KindSubscription:
		return "subscription"
	default:
		return "unknown"
	}
}

// TaskLike is the common capability every unit the Engine schedules must
// implement, whether it is time-triggered (Task) or event-triggered
// (Subscription).
type TaskLike interface {
	Name() string
	Kind() TaskKind
	DuplicatePolicy() DuplicatePolicy
	Expired() bool
	Paused() bool
	ShouldRun(now time.Time, triggered map[string]struct{}) bool
	Run(scheduler *SchedulerQueue) error
	Pause(now time.Time)
	Resume(now time.Time)
}
