package engine

import (
	"slices"
	"sync"
	"time"
)

type EventType int

type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   any
}

type Handler func(Event)

// EventBus fans events out to the handlers registered for their type.
// Delivery is synchronous, on the emitting goroutine, in registration order.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[EventType][]Handler)}
}

// On registers fn for events of type t.
func (eb *EventBus) On(t EventType, fn Handler) {
	eb.mu.Lock()
	eb.handlers[t] = append(eb.handlers[t], fn)
	eb.mu.Unlock()
}

func (eb *EventBus) Emit(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	eb.mu.RLock()
	hs := slices.Clone(eb.handlers[evt.Type])
	eb.mu.RUnlock()

	for _, fn := range hs {
		fn(evt)
	}
}

// Handle registers fn for events of type t carrying a payload of type P.
// Events whose payload is some other type are skipped.
func Handle[P any](eb *EventBus, t EventType, fn func(P)) {
	eb.On(t, func(evt Event) {
		if p, ok := evt.Payload.(P); ok {
			fn(p)
		}
	})
}
