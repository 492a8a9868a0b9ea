package sched

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHandlerNone_ExpiresImmediately(t *testing.T) {
	h := NoneHandler()
	e := NewEvent(time.Now())

	err := h.Run(time.Now(), e, nil)

	assert.NoError(t, err)
	assert.True(t, e.Expired())
}

func TestHandlerFn_RunsOncePerCall(t *testing.T) {
	calls := 0
	h := FnHandler(func(e *Event) error {
		calls++
		return nil
	})
	e := NewEvent(time.Now())

	for i := 0; i < 64; i++ {
		_ = h.Run(time.Now(), e, nil)
	}

	assert.Equal(t, 64, calls)
}

func TestHandlerFn_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	h := FnHandler(func(e *Event) error { return boom })
	e := NewEvent(time.Now())

	err := h.Run(time.Now(), e, nil)

	assert.ErrorIs(t, err, boom)
}

func TestHandlerNestedTask_PropagatesExpiration(t *testing.T) {
	inner := New("inner", Action(func() {}))
	h := NestedTaskHandler(inner)
	e := NewEvent(time.Now())

	inner.lastNow = time.Now()
	err := h.Run(time.Now(), e, nil)

	assert.NoError(t, err)
	assert.True(t, inner.Expired())
	assert.True(t, e.Expired())
}

func TestHandlerRepeat_CountsInvocations(t *testing.T) {
	calls := 0
	inner := FnHandler(func(e *Event) error {
		calls++
		return nil
	})
	h := RepeatHandler(inner, 3)
	e := NewEvent(time.Now())

	for i := 0; i < 3; i++ {
		assert.False(t, e.Expired())
		_ = h.Run(time.Now(), e, nil)
	}

	assert.Equal(t, 3, calls)
	assert.True(t, e.Expired())
}

func TestHandlerRepeat_ExhaustedDoesNotRunAgain(t *testing.T) {
	calls := 0
	inner := FnHandler(func(e *Event) error {
		calls++
		return nil
	})
	h := RepeatHandler(inner, 1)
	e := NewEvent(time.Now())

	_ = h.Run(time.Now(), e, nil)
	assert.True(t, e.Expired())

	e2 := NewEvent(time.Now())
	_ = h.Run(time.Now(), e2, nil)

	assert.Equal(t, 1, calls)
	assert.True(t, e2.Expired())
}

func TestHandlerList_AdvancesThroughChildren(t *testing.T) {
	var order []int
	mk := func(i int) *Handler {
		return FnHandler(func(e *Event) error {
			order = append(order, i)
			e.Expire()
			return nil
		})
	}
	h := ListHandler(mk(0), mk(1), mk(2))
	e := NewEvent(time.Now())

	for !e.Expired() {
		_ = h.Run(time.Now(), e, nil)
	}

	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestHandlerList_EmptyExpiresImmediately(t *testing.T) {
	h := ListHandler()
	e := NewEvent(time.Now())

	err := h.Run(time.Now(), e, nil)

	assert.NoError(t, err)
	assert.True(t, e.Expired())
}

func TestHandlerList_ResetsEventBetweenChildren(t *testing.T) {
	var secondSawExpired bool
	h := ListHandler(
		FnHandler(func(e *Event) error { e.Expire(); return nil }),
		FnHandler(func(e *Event) error { secondSawExpired = e.Expired(); e.Expire(); return nil }),
	)
	e := NewEvent(time.Now())

	_ = h.Run(time.Now(), e, nil)
	_ = h.Run(time.Now(), e, nil)

	assert.False(t, secondSawExpired)
}
