package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maumercado/cotask/internal/events"
)

func newTestClient() *Client {
	return &Client{
		ID:            "test-client",
		send:          make(chan []byte, 4),
		subscriptions: make(map[events.EventType]bool),
	}
}

func TestClient_IsSubscribed_EmptyMeansAll(t *testing.T) {
	c := newTestClient()
	assert.True(t, c.IsSubscribed(events.EventTaskAdded))
}

func TestClient_SubscribeNarrowsFilter(t *testing.T) {
	c := newTestClient()
	c.Subscribe(events.EventTaskAdded)

	assert.True(t, c.IsSubscribed(events.EventTaskAdded))
	assert.False(t, c.IsSubscribed(events.EventTickCompleted))
}

func TestClient_Unsubscribe(t *testing.T) {
	c := newTestClient()
	c.Subscribe(events.EventTaskAdded)
	c.Subscribe(events.EventTickCompleted)
	c.Unsubscribe(events.EventTaskAdded)

	assert.False(t, c.IsSubscribed(events.EventTaskAdded))
	assert.True(t, c.IsSubscribed(events.EventTickCompleted))
}

func TestClient_SubscribeAll(t *testing.T) {
	c := newTestClient()
	c.SubscribeAll()

	assert.True(t, c.IsSubscribed(events.EventTaskAdded))
	assert.True(t, c.IsSubscribed(events.EventTaskExpired))
	assert.True(t, c.IsSubscribed(events.EventEventTriggered))
	assert.True(t, c.IsSubscribed(events.EventTickCompleted))
	assert.True(t, c.IsSubscribed(events.EventEngineReentry))
}

func TestClient_HandleMessage_Subscribe(t *testing.T) {
	c := newTestClient()
	c.handleMessage([]byte(`{"action":"subscribe","event_types":["task.added"]}`))

	assert.True(t, c.IsSubscribed(events.EventTaskAdded))
	assert.False(t, c.IsSubscribed(events.EventTickCompleted))
}

func TestClient_HandleMessage_Unsubscribe(t *testing.T) {
	c := newTestClient()
	c.SubscribeAll()
	c.handleMessage([]byte(`{"action":"unsubscribe","event_types":["task.added"]}`))

	assert.False(t, c.IsSubscribed(events.EventTaskAdded))
	assert.True(t, c.IsSubscribed(events.EventTickCompleted))
}

func TestClient_HandleMessage_Malformed(t *testing.T) {
	c := newTestClient()
	assert.NotPanics(t, func() { c.handleMessage([]byte("not json")) })
}
