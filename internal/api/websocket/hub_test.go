package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maumercado/cotask/internal/events"
)

func TestHub_ClientCount(t *testing.T) {
	hub := NewHub(events.NewInProcess())
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_RegisterUnregister(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(events.NewInProcess())
	hub.Run(ctx)
	defer hub.Stop()

	client := &Client{ID: "c1", send: make(chan []byte, 1), subscriptions: make(map[events.EventType]bool)}

	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Unregister(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastRespectsSubscriptionFilter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher := events.NewInProcess()
	hub := NewHub(publisher)
	hub.Run(ctx)
	defer hub.Stop()

	client := &Client{ID: "c1", send: make(chan []byte, 4), subscriptions: make(map[events.EventType]bool)}
	client.Subscribe(events.EventTaskAdded)

	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	_ = publisher.Publish(ctx, events.NewEvent(events.EventTaskAdded, nil))
	_ = publisher.Publish(ctx, events.NewEvent(events.EventTickCompleted, nil))

	require.Eventually(t, func() bool { return len(client.send) == 1 }, time.Second, 10*time.Millisecond)
}
