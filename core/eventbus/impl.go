package eventbus

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"nucorrect-go/core/event"
)

type subscription struct {
	id      string
	handler EventHandler
}

// channelEventBus is a channel-based implementation of EventBus.
// A single dispatch goroutine delivers events, so handlers never run concurrently with each other.
type channelEventBus struct {
	eventChan     chan event.Event
	done          chan struct{}
	subscriptions map[string]*subscription
	order         []string
	mu            sync.RWMutex
	closed        atomic.Bool
	wg            sync.WaitGroup
	nextID        atomic.Uint64
	logger        *slog.Logger
}

// New creates a new EventBus with the specified buffer size.
func New(bufferSize int) EventBus {
	return NewWithLogger(bufferSize, nil)
}

// NewWithLogger creates a new EventBus that reports handler panics to logger.
func NewWithLogger(bufferSize int, logger *slog.Logger) EventBus {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if logger == nil {
		logger = slog.Default()
	}

	bus := &channelEventBus{
		eventChan:     make(chan event.Event, bufferSize),
		done:          make(chan struct{}),
		subscriptions: make(map[string]*subscription),
		logger:        logger,
	}

	bus.wg.Add(1)
	go bus.dispatch()

	return bus
}

func (b *channelEventBus) Publish(e event.Event) {
	if b.closed.Load() {
		return
	}

	select {
	case b.eventChan <- e:
	case <-b.done:
	}
}

func (b *channelEventBus) Subscribe(handler EventHandler) string {
	id := fmt.Sprintf("sub-%d", b.nextID.Add(1))

	b.mu.Lock()
	b.subscriptions[id] = &subscription{
		id:      id,
		handler: handler,
	}
	b.order = append(b.order, id)
	b.mu.Unlock()

	return id
}

func (b *channelEventBus) Unsubscribe(subscriptionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscriptions[subscriptionID]; !ok {
		return
	}
	delete(b.subscriptions, subscriptionID)
	for i, id := range b.order {
		if id == subscriptionID {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

func (b *channelEventBus) Close() {
	if b.closed.Swap(true) {
		return
	}

	close(b.done)
	b.wg.Wait()
}

func (b *channelEventBus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case e := <-b.eventChan:
			b.deliverEvent(e)
		case <-b.done:
			b.drain()
			return
		}
	}
}

// drain delivers whatever was queued before Close.
func (b *channelEventBus) drain() {
	for {
		select {
		case e := <-b.eventChan:
			b.deliverEvent(e)
		default:
			return
		}
	}
}

func (b *channelEventBus) deliverEvent(e event.Event) {
	b.mu.RLock()
	subs := make([]*subscription, 0, len(b.order))
	for _, id := range b.order {
		subs = append(subs, b.subscriptions[id])
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		b.invoke(sub, e)
	}
}

func (b *channelEventBus) invoke(sub *subscription, e event.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked", "subscription", sub.id, "event", e.EventName(), "panic", r)
		}
	}()
	sub.handler(e)
}
