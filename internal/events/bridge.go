package events

import (
	"context"

	"github.com/maumercado/cotask/internal/logger"
)

// TriggerForwarder is the one method the bridge needs from an Engine: a
// place to deliver externally-requested event names. sched.SchedulerQueue
// satisfies this.
type TriggerForwarder interface {
	TriggerEvent(name string)
}

// Bridge connects a RedisPubSub transport to a single Engine: it forwards
// lifecycle events the Engine already publishes out to Redis (via the
// Engine's own Publisher option, configured separately with
// WithPublisher), and it listens on the Redis trigger channel, forwarding
// any event name it receives into the Engine's SchedulerQueue. It never
// reads the Engine's task collection directly.
type Bridge struct {
	transport *RedisPubSub
	forwarder TriggerForwarder
	cancel    context.CancelFunc
}

// NewBridge creates a Bridge forwarding trigger requests received on
// transport into forwarder.
func NewBridge(transport *RedisPubSub, forwarder TriggerForwarder) *Bridge {
	return &Bridge{transport: transport, forwarder: forwarder}
}

// Start begins listening for externally-triggered event names. It returns
// once the subscription is established; forwarding continues on a
// background goroutine until ctx is cancelled or Stop is called.
func (b *Bridge) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	names, err := b.transport.SubscribeTriggers(ctx)
	if err != nil {
		cancel()
		return err
	}

	go func() {
		for name := range names {
			logger.Debug().Str("event", name).Msg("forwarding remote trigger")
			b.forwarder.TriggerEvent(name)
		}
	}()

	return nil
}

// Stop cancels the bridge's background subscription.
func (b *Bridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
}
