package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffPolicy_FirstAttemptIsInitial(t *testing.T) {
	p := BackoffPolicy{Initial: time.Second, Max: time.Minute, Factor: 2, JitterFactor: 0}
	assert.Equal(t, time.Second, p.Backoff(0))
}

func TestBackoffPolicy_GrowsExponentially(t *testing.T) {
	p := BackoffPolicy{Initial: time.Second, Max: time.Hour, Factor: 2, JitterFactor: 0}
	assert.Equal(t, 2*time.Second, p.Backoff(1))
	assert.Equal(t, 4*time.Second, p.Backoff(2))
}

func TestBackoffPolicy_CapsAtMax(t *testing.T) {
	p := BackoffPolicy{Initial: time.Second, Max: 3 * time.Second, Factor: 10, JitterFactor: 0}
	assert.LessOrEqual(t, p.Backoff(5), 3*time.Second)
}

func TestBackoffPolicy_JitterStaysNonNegative(t *testing.T) {
	p := BackoffPolicy{Initial: time.Second, Max: time.Hour, Factor: 2, JitterFactor: 0.5}
	for i := 0; i < 50; i++ {
		assert.GreaterOrEqual(t, p.Backoff(i), time.Duration(0))
	}
}

func TestReschedule_AdvancesTargetEachCall(t *testing.T) {
	calls := 0
	src := Reschedule(BackoffPolicy{Initial: time.Millisecond, Max: time.Second, Factor: 2}, func() error {
		calls++
		return nil
	})
	h := src.IntoHandler()
	e := NewEvent(time.Now())

	before := e.targetInstant
	_ = h.Run(time.Now(), e, nil)
	assert.True(t, e.targetInstant.After(before))
	assert.Equal(t, 1, calls)
}
