// Package events carries scheduler lifecycle events from a running Engine
// out to anything observing it: the WebSocket hub, Prometheus, and
// optionally a remote process via the Redis bridge. Nothing in this
// package ever feeds back into the Engine's own task collection.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// EventType identifies a kind of scheduler lifecycle event.
type EventType string

const (
	// EventTaskAdded fires when the engine adds a Task or Subscription.
	EventTaskAdded EventType = "task.added"
	// EventTaskExpired fires when a Task is removed because it expired.
	EventTaskExpired EventType = "task.expired"
	// EventEventTriggered fires when a named event is triggered.
	EventEventTriggered EventType = "event.triggered"
	// EventTickCompleted fires once per tick, after reaping.
	EventTickCompleted EventType = "tick.completed"
	// EventEngineReentry fires when a run attempt found the lock held.
	EventEngineReentry EventType = "engine.reentry"
)

// Event is a single lifecycle fact about a running Engine.
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// NewEvent creates a lifecycle Event stamped with the current time.
func NewEvent(eventType EventType, data map[string]interface{}) *Event {
	return &Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ToJSON serializes the event to JSON.
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON deserializes an event from JSON.
func FromJSON(data []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Publisher defines the interface for event publishers. The Engine holds
// exactly one, defaulting to NoOp when none is configured.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Subscribe(ctx context.Context, eventTypes ...EventType) (<-chan *Event, error)
	Close() error
}

// Subscriber represents an event subscriber that reacts to events
// delivered outside of a channel, e.g. the WebSocket hub.
type Subscriber interface {
	OnEvent(event *Event)
	EventTypes() []EventType
}

// TaskEventData creates event data for task-added/task-expired events.
func TaskEventData(name, kind string, extra map[string]interface{}) map[string]interface{} {
	data := map[string]interface{}{
		"name": name,
		"kind": kind,
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// EventTriggerData creates event data for a triggered named event.
func EventTriggerData(name string) map[string]interface{} {
	return map[string]interface{}{"event": name}
}

// TickData creates event data for a completed tick.
func TickData(activeTasks, activeSubscriptions int, duration time.Duration) map[string]interface{} {
	return map[string]interface{}{
		"active_tasks":         activeTasks,
		"active_subscriptions": activeSubscriptions,
		"duration_ms":          duration.Milliseconds(),
	}
}
