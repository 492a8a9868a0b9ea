package sched

import "time"

type handlerKind int

const (
	handlerNone handlerKind = iota
	handlerFn
	handlerNestedTask
	handlerRepeat
	handlerList
)

// Handler is the polymorphic unit of work a Task or Subscription advances
// through. It is always one of: none, a plain function, a nested Task, a
// bounded repeat of another Handler, or an ordered list of child Handlers.
type Handler struct {
	kind handlerKind

	fn func(*Event) error

	nested *Task

	repeatInner *Handler
	repeatDone  int
	repeatLimit int

	listChildren []*Handler
	listIndex    int
}

// NoneHandler returns a Handler that expires its owning Event on first run
// without doing any work.
func NoneHandler() *Handler {
	return &Handler{kind: handlerNone}
}

// FnHandler wraps a plain function as a Handler.
func FnHandler(fn func(*Event) error) *Handler {
	return &Handler{kind: handlerFn, fn: fn}
}

// NestedTaskHandler runs an independently-driven Task as a single handler
// step, propagating the nested Task's expiration into the outer Event.
func NestedTaskHandler(t *Task) *Handler {
	return &Handler{kind: handlerNestedTask, nested: t}
}

// RepeatHandler runs inner exactly n times, counting invocations (not
// passes through any outer sequence), then expires.
func RepeatHandler(inner *Handler, n int) *Handler {
	return &Handler{kind: handlerRepeat, repeatInner: inner, repeatLimit: n}
}

// ListHandler runs an ordered sequence of child Handlers, advancing to the
// next child each time the active one expires, and expires itself once the
// sequence is exhausted.
func ListHandler(children ...*Handler) *Handler {
	return &Handler{kind: handlerList, listChildren: children}
}

// Run advances the handler by one step against event, using queue as the
// channel for any structural mutations the handler wants to enqueue.
func (h *Handler) Run(now time.Time, event *Event, queue *SchedulerQueue) error {
	switch h.kind {
	case handlerNone:
		event.Expire()
		return nil

	case handlerFn:
		return h.fn(event)

	case handlerNestedTask:
		err := h.nested.Run(now, queue)
		if h.nested.Expired() {
			event.Expire()
		}
		return err

	case handlerRepeat:
		if h.repeatDone >= h.repeatLimit {
			event.Expire()
			return nil
		}
		err := h.repeatInner.Run(now, event, queue)
		h.repeatDone++
		if h.repeatDone >= h.repeatLimit {
			event.Expire()
		} else {
			// Ask the owning Task/List not to advance past this handler
			// yet: more repetitions remain.
			event.Repeat()
		}
		return err

	case handlerList:
		if len(h.listChildren) == 0 {
			event.Expire()
			return nil
		}
		child := h.listChildren[h.listIndex]
		err := child.Run(now, event, queue)
		if event.Expired() {
			h.listIndex++
			if h.listIndex >= len(h.listChildren) {
				event.Expire()
			} else {
				*event = *NewEvent(now)
			}
		}
		return err

	default:
		event.Expire()
		return nil
	}
}
