package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_Constants(t *testing.T) {
	assert.Equal(t, EventType("task.added"), EventTaskAdded)
	assert.Equal(t, EventType("task.expired"), EventTaskExpired)
	assert.Equal(t, EventType("event.triggered"), EventEventTriggered)
	assert.Equal(t, EventType("tick.completed"), EventTickCompleted)
	assert.Equal(t, EventType("engine.reentry"), EventEngineReentry)
}

func TestNewEvent(t *testing.T) {
	data := map[string]interface{}{
		"name": "cleanup",
		"kind": "task",
	}

	event := NewEvent(EventTaskAdded, data)

	assert.Equal(t, EventTaskAdded, event.Type)
	assert.Equal(t, data, event.Data)
	assert.False(t, event.Timestamp.IsZero())
	assert.WithinDuration(t, time.Now(), event.Timestamp, time.Second)
}

func TestEvent_ToJSON(t *testing.T) {
	event := &Event{
		Type:      EventTaskExpired,
		Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Data: map[string]interface{}{
			"name": "cleanup",
			"kind": "task",
		},
	}

	data, err := event.ToJSON()
	require.NoError(t, err)

	var parsed map[string]interface{}
	err = json.Unmarshal(data, &parsed)
	require.NoError(t, err)

	assert.Equal(t, "task.expired", parsed["type"])
	assert.NotEmpty(t, parsed["timestamp"])
	assert.NotNil(t, parsed["data"])
}

func TestFromJSON(t *testing.T) {
	jsonData := `{
		"type": "event.triggered",
		"timestamp": "2024-01-15T10:30:00Z",
		"data": {"event": "deploy-finished"}
	}`

	event, err := FromJSON([]byte(jsonData))
	require.NoError(t, err)

	assert.Equal(t, EventEventTriggered, event.Type)
	assert.Equal(t, "deploy-finished", event.Data["event"])
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte("invalid json"))
	assert.Error(t, err)
}

func TestEvent_RoundTrip(t *testing.T) {
	original := NewEvent(EventTaskAdded, map[string]interface{}{
		"name": "heartbeat",
		"kind": "subscription",
	})

	data, err := original.ToJSON()
	require.NoError(t, err)

	restored, err := FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, original.Type, restored.Type)
	assert.Equal(t, original.Data["name"], restored.Data["name"])
	assert.Equal(t, original.Data["kind"], restored.Data["kind"])
}

func TestTaskEventData(t *testing.T) {
	data := TaskEventData("cleanup", "task", map[string]interface{}{
		"reason": "exhausted",
	})

	assert.Equal(t, "cleanup", data["name"])
	assert.Equal(t, "task", data["kind"])
	assert.Equal(t, "exhausted", data["reason"])
}

func TestTaskEventData_NoExtra(t *testing.T) {
	data := TaskEventData("heartbeat", "subscription", nil)

	assert.Equal(t, "heartbeat", data["name"])
	assert.Equal(t, "subscription", data["kind"])
	assert.Len(t, data, 2)
}

func TestEventTriggerData(t *testing.T) {
	data := EventTriggerData("deploy-finished")
	assert.Equal(t, "deploy-finished", data["event"])
	assert.Len(t, data, 1)
}

func TestTickData(t *testing.T) {
	data := TickData(3, 2, 5*time.Millisecond)
	assert.Equal(t, 3, data["active_tasks"])
	assert.Equal(t, 2, data["active_subscriptions"])
	assert.Equal(t, int64(5), data["duration_ms"])
}
