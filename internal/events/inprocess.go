package events

import (
	"context"
	"sync"

	"github.com/maumercado/cotask/internal/logger"
)

const subscriberBuffer = 64

// NoOp is a Publisher that discards every event. It is the Engine's
// default publisher when no observer is configured.
type NoOp struct{}

func (NoOp) Publish(context.Context, *Event) error { return nil }

func (NoOp) Subscribe(context.Context, ...EventType) (<-chan *Event, error) {
	ch := make(chan *Event)
	close(ch)
	return ch, nil
}

func (NoOp) Close() error { return nil }

type inProcessSub struct {
	ch    chan *Event
	types map[EventType]struct{}
	all   bool
}

// InProcess fans lifecycle events out to in-memory subscriber channels
// (the WebSocket hub, tests) without any external dependency. A
// subscriber whose buffer is full has its oldest pending event dropped
// rather than stalling the publisher. (The WebSocket hub's Broadcast, by
// contrast, drops the new event when its channel is full.)
type InProcess struct {
	mu   sync.RWMutex
	subs map[int]*inProcessSub
	next int
}

// NewInProcess returns an empty in-process publisher.
func NewInProcess() *InProcess {
	return &InProcess{subs: make(map[int]*inProcessSub)}
}

func (p *InProcess) Publish(_ context.Context, event *Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, sub := range p.subs {
		if !sub.all {
			if _, ok := sub.types[event.Type]; !ok {
				continue
			}
		}
		select {
		case sub.ch <- event:
		default:
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- event:
			default:
				log := logger.WithEngine()
				log.Warn().Str("event_type", string(event.Type)).Msg("subscriber full, dropped event")
			}
		}
	}
	return nil
}

func (p *InProcess) Subscribe(ctx context.Context, eventTypes ...EventType) (<-chan *Event, error) {
	sub := &inProcessSub{ch: make(chan *Event, subscriberBuffer)}
	if len(eventTypes) == 0 {
		sub.all = true
	} else {
		sub.types = make(map[EventType]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			sub.types[t] = struct{}{}
		}
	}

	p.mu.Lock()
	id := p.next
	p.next++
	p.subs[id] = sub
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
		close(sub.ch)
	}()

	return sub.ch, nil
}

func (p *InProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, sub := range p.subs {
		close(sub.ch)
		delete(p.subs, id)
	}
	return nil
}
