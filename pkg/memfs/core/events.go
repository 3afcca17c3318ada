package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Event types published by a session.
const (
	EventDirectoryCreated = "directory.created"
	EventFileCreated      = "file.created"
	EventDirectoryDeleted = "directory.deleted"
	EventFileDeleted      = "file.deleted"
	EventNodeRenamed      = "node.renamed"
	EventFileWritten      = "file.written"
	EventNodeMoved        = "node.moved"
	EventNodeCopied       = "node.copied"
	EventTreeCleared      = "tree.cleared"
	EventTreeLoaded       = "tree.loaded"
)

// MutationEvents lists every event type that changes the tree.
var MutationEvents = []string{
	EventDirectoryCreated,
	EventFileCreated,
	EventDirectoryDeleted,
	EventFileDeleted,
	EventNodeRenamed,
	EventFileWritten,
	EventNodeMoved,
	EventNodeCopied,
	EventTreeCleared,
}

// Event represents a change in the tree
type Event interface {
	// Type returns the event type identifier
	Type() string
	// Timestamp returns when the event occurred
	Timestamp() time.Time
	// Data returns the event payload
	Data() NodeChange
}

// NodeChange is the payload of every tree event.
type NodeChange struct {
	Kind Kind
	Path string // full path of the node after the change
	From string // previous full path for renames, moves and copies
}

// EventHandler handles events
type EventHandler interface {
	// Handle processes an event
	Handle(ctx context.Context, event Event) error
}

// EventHandlerFunc is a function adapter for EventHandler
type EventHandlerFunc func(ctx context.Context, event Event) error

// Handle implements EventHandler
func (f EventHandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// SubscriptionID identifies a subscription
type SubscriptionID string

// BaseEvent provides a basic implementation of Event
type BaseEvent struct {
	EventType string
	Time      time.Time
	Payload   NodeChange
}

func (e *BaseEvent) Type() string         { return e.EventType }
func (e *BaseEvent) Timestamp() time.Time { return e.Time }
func (e *BaseEvent) Data() NodeChange     { return e.Payload }

// NewEvent creates a new event stamped with the current time
func NewEvent(eventType string, change NodeChange) *BaseEvent {
	return &BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Payload:   change,
	}
}

type subscription struct {
	id      SubscriptionID
	handler EventHandler
}

// EventBus dispatches events synchronously to subscribers, in subscription
// order. It is not safe for concurrent use; a session is driven by a single
// command loop.
type EventBus struct {
	handlers      map[string][]subscription
	subscriptions map[SubscriptionID]string // subscription ID -> event type
	nextID        int
	logger        zerolog.Logger
}

// NewEventBus creates an empty bus
func NewEventBus(logger zerolog.Logger) *EventBus {
	return &EventBus{
		handlers:      make(map[string][]subscription),
		subscriptions: make(map[SubscriptionID]string),
		nextID:        1,
		logger:        logger,
	}
}

// Subscribe registers a handler for events of the given type
func (bus *EventBus) Subscribe(eventType string, handler EventHandler) SubscriptionID {
	subID := SubscriptionID(fmt.Sprintf("sub_%d", bus.nextID))
	bus.nextID++

	bus.handlers[eventType] = append(bus.handlers[eventType], subscription{id: subID, handler: handler})
	bus.subscriptions[subID] = eventType

	bus.logger.Debug().
		Str("event_type", eventType).
		Str("subscription_id", string(subID)).
		Int("total_handlers", len(bus.handlers[eventType])).
		Msg("subscribed to event")

	return subID
}

// SubscribeAll registers one handler for several event types and returns
// one subscription per type.
func (bus *EventBus) SubscribeAll(eventTypes []string, handler EventHandler) []SubscriptionID {
	ids := make([]SubscriptionID, 0, len(eventTypes))
	for _, eventType := range eventTypes {
		ids = append(ids, bus.Subscribe(eventType, handler))
	}
	return ids
}

// Unsubscribe removes a handler using its subscription ID
func (bus *EventBus) Unsubscribe(subscriptionID SubscriptionID) {
	eventType, exists := bus.subscriptions[subscriptionID]
	if !exists {
		bus.logger.Debug().
			Str("subscription_id", string(subscriptionID)).
			Msg("subscription not found for unsubscribe")
		return
	}
	delete(bus.subscriptions, subscriptionID)

	handlers := bus.handlers[eventType]
	for i, sub := range handlers {
		if sub.id == subscriptionID {
			bus.handlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all registered handlers. Handler failures are
// logged and do not stop delivery to the remaining handlers.
func (bus *EventBus) Publish(ctx context.Context, event Event) {
	subs := bus.handlers[event.Type()]
	if len(subs) == 0 {
		bus.logger.Trace().
			Str("event_type", event.Type()).
			Msg("no handlers for event")
		return
	}

	for _, sub := range subs {
		if err := sub.handler.Handle(ctx, event); err != nil {
			bus.logger.Warn().
				Str("event_type", event.Type()).
				Str("subscription_id", string(sub.id)).
				Err(err).
				Msg("event handler failed")
		}
	}
}

// HandlerCount returns the number of handlers for an event type
func (bus *EventBus) HandlerCount(eventType string) int {
	return len(bus.handlers[eventType])
}

// LogHandler returns a handler that traces every event it receives.
func LogHandler(logger zerolog.Logger) EventHandler {
	return EventHandlerFunc(func(ctx context.Context, event Event) error {
		change := event.Data()
		logger.Trace().
			Str("event_type", event.Type()).
			Str("kind", change.Kind.String()).
			Str("path", change.Path).
			Str("from", change.From).
			Msg("tree event")
		return nil
	})
}
