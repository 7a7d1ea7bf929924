package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/kelindar/event"
)

// Bus broadcasts application events to in-process subscribers.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a bus.
func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// Publish dispatches ev to the subscribers of its concrete type. Unknown
// types are dropped.
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case ResolutionEvent:
		event.Publish(b.dispatcher, e)
	case ResolutionFailedEvent:
		event.Publish(b.dispatcher, e)
	case ProfileReloadedEvent:
		event.Publish(b.dispatcher, e)
	case StatesReloadedEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler for the event type named by its parameter,
// e.g. func(ResolutionEvent). It returns the unsubscribe function; an
// unsupported handler type yields a no-op.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(ResolutionEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ResolutionFailedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ProfileReloadedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(StatesReloadedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}

// SubscribeToChannel forwards events of type T to ch without blocking;
// events are dropped while ch is full. Used by SSE handlers.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}

// NewID returns a fresh event identifier.
func NewID() string {
	return uuid.NewString()
}

// Now formats the current time for event timestamps.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
