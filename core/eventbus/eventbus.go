// Package eventbus provides the event bus for publishing and subscribing to events.
package eventbus

import (
	"nucorrect-go/core/event"
)

// EventBus is the interface for the event bus.
type EventBus interface {
	// Publish queues an event for delivery to all subscribers.
	// Events from one publisher are delivered in the order they were published.
	// Publish waits for buffer space rather than dropping, and is a no-op after Close.
	Publish(e event.Event)

	// Subscribe subscribes to all events.
	// Returns a subscription ID that can be used to unsubscribe.
	Subscribe(handler EventHandler) string

	// Unsubscribe removes a subscription by its ID.
	Unsubscribe(subscriptionID string)

	// Close delivers any queued events, then shuts the bus down.
	Close()
}

// EventHandler is a function that handles an event.
type EventHandler func(e event.Event)
