package sched

import "time"

// Subscription is a named, event-triggered unit of work: it runs its
// single handler whenever its event name appears in a tick's triggered
// set, and never expires on its own.
type Subscription struct {
	name      string
	eventName string
	dup       DuplicatePolicy
	handler   *Handler
	catch     ErrorHandler
}

// NewSubscription creates a Subscription named name that fires handler
// whenever eventName is triggered.
func NewSubscription(name, eventName string, source Source) *Subscription {
	return &Subscription{
		name:      name,
		eventName: eventName,
		dup:       DefaultDuplicatePolicy,
		handler:   source.IntoHandler(),
		catch:     defaultCatchHandler(name),
	}
}

// Catch installs a custom error handler, replacing the default logging one.
func (s *Subscription) Catch(f ErrorHandler) *Subscription {
	s.catch = f
	return s
}

// WithDuplicateHandler sets the policy AddTask applies when a unit of the
// same name already exists in the engine.
func (s *Subscription) WithDuplicateHandler(p DuplicatePolicy) *Subscription {
	s.dup = p
	return s
}

// Name implements TaskLike.
func (s *Subscription) Name() string { return s.name }

// Kind implements TaskLike.
func (s *Subscription) Kind() TaskKind { return KindSubscription }

// DuplicatePolicy implements TaskLike.
func (s *Subscription) DuplicatePolicy() DuplicatePolicy { return s.dup }

// Expired implements TaskLike. A Subscription only ever leaves the engine
// via an explicit RemoveTask/RetainTasks modification.
func (s *Subscription) Expired() bool { return false }

// ShouldRun implements TaskLike: fires exactly when its event name was
// triggered this tick.
func (s *Subscription) ShouldRun(_ time.Time, triggered map[string]struct{}) bool {
	_, ok := triggered[s.eventName]
	return ok
}

// Run implements TaskLike.
func (s *Subscription) Run(scheduler *SchedulerQueue) error {
	e := NewEvent(time.Now())
	err := s.handler.Run(time.Now(), e, scheduler)
	if err != nil {
		s.catch(s.name, &HandlerError{Source: s.name, Err: err})
	}
	return err
}

// Pause and Resume implement TaskLike as no-ops: a Subscription is purely
// reactive to triggered event names and has no clock of its own to freeze.
func (s *Subscription) Pause(time.Time)  {}
func (s *Subscription) Resume(time.Time) {}

// Paused implements TaskLike. A Subscription has no clock of its own, so
// it is never considered paused.
func (s *Subscription) Paused() bool { return false }
