package sched

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_DuplicatePolicy_KeepAll(t *testing.T) {
	e := NewEngine()
	e.AddTask(New("dup", Action(func() {})))
	e.AddTask(New("dup", Action(func() {})))

	assert.Equal(t, 2, e.Len())
}

func TestEngine_DuplicatePolicy_KeepOld(t *testing.T) {
	e := NewEngine()
	first := New("dup", Action(func() {})).WithDuplicateHandler(KeepOld)
	second := New("dup", Action(func() {})).WithDuplicateHandler(KeepOld)

	e.AddTask(first)
	e.AddTask(second)

	assert.Equal(t, 1, e.Len())
	assert.Same(t, first, e.tasks[0])
}

func TestEngine_DuplicatePolicy_KeepNew(t *testing.T) {
	e := NewEngine()
	first := New("dup", Action(func() {})).WithDuplicateHandler(KeepNew)
	second := New("dup", Action(func() {})).WithDuplicateHandler(KeepNew)

	e.AddTask(first)
	e.AddTask(second)

	assert.Equal(t, 1, e.Len())
	assert.Same(t, second, e.tasks[0])
}

func TestEngine_MutationsInsideHandlerApplyNextTick(t *testing.T) {
	e := NewEngine()
	added := false

	queue := e.Queue()
	spawnOnce := func() Source {
		return FallibleAction(func() error {
			queue.AddTask(New("spawned", Action(func() { added = true })).WithDuplicateHandler(KeepOld))
			return nil
		})
	}
	seed := New("seed", Repeat(spawnOnce(), 10))
	e.AddTask(seed)

	now := time.Now()
	require.NoError(t, e.RunOnce(now))
	// the spawned task was only queued during this tick's dispatch, so it
	// was not present for this tick's own drain and has not been added yet.
	assert.Equal(t, 1, e.Len())
	assert.False(t, added)

	require.NoError(t, e.RunOnce(now.Add(time.Millisecond)))
	// now the queued AddTask is drained at the start of the tick, and the
	// newly present task participates in this same tick's dispatch. It is a
	// one-shot task, so it expires and is reaped at the end of this tick,
	// leaving only the seed.
	assert.Equal(t, 1, e.Len())
	assert.True(t, added)
}

func TestEngine_TriggerEventFiresSubscriptionNextTick(t *testing.T) {
	e := NewEngine()
	fired := false
	e.AddTask(NewSubscription("on-ping", "ping", Action(func() { fired = true })))

	e.Queue().TriggerEvent("ping")

	now := time.Now()
	require.NoError(t, e.RunOnce(now))
	assert.True(t, fired)
}

func TestEngine_ReapsExpiredTasks(t *testing.T) {
	e := NewEngine()
	e.AddTask(New("one-shot", Action(func() {})))

	require.NoError(t, e.RunOnce(time.Now()))
	assert.Equal(t, 0, e.Len())
}

func TestEngine_ReentryGuard(t *testing.T) {
	e := NewEngine(WithInterval(5 * time.Millisecond))

	started := make(chan struct{})
	stop := make(chan struct{})
	e.AddTask(NewSubscription("blocker", "never", Action(func() {})))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = e.RunWhile(func(time.Time) bool {
			select {
			case started <- struct{}{}:
			default:
			}
			select {
			case <-stop:
				return false
			default:
				return true
			}
		})
	}()

	<-started
	err := e.RunOnce(time.Now())
	assert.ErrorIs(t, err, EngineReentry)

	close(stop)
	wg.Wait()
}

func TestEngine_PauseResumeAffectsEveryTask(t *testing.T) {
	e := NewEngine()
	calls := 0
	task := New("t", Action(func() { calls++ })).Delay(time.Hour)
	e.AddTask(task)

	now := time.Now()
	require.False(t, task.ShouldRun(now, nil)) // initializes the delay against `now`

	e.Pause()
	e.Resume()

	// Pausing then immediately resuming should not make the task due any
	// sooner than its original schedule.
	assert.False(t, task.ShouldRun(now.Add(time.Millisecond), nil))
}
