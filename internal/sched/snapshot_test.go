package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_ReportsPausedState(t *testing.T) {
	engine := NewEngine()
	task := New("greet", Action(func() {})).Delay(time.Hour)
	engine.AddTask(task)

	snap := engine.Snapshot()
	require.Len(t, snap, 1)
	assert.False(t, snap[0].Paused)

	now := time.Now()
	task.Pause(now)

	snap = engine.Snapshot()
	require.Len(t, snap, 1)
	assert.True(t, snap[0].Paused)
}

func TestSnapshot_SubscriptionNeverPaused(t *testing.T) {
	engine := NewEngine()
	sub := NewSubscription("on-deploy", "deploy", Action(func() {}))
	engine.AddTask(sub)
	sub.Pause(time.Now())

	snap := engine.Snapshot()
	require.Len(t, snap, 1)
	assert.False(t, snap[0].Paused)
}
