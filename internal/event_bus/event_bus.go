package event_bus

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type EventType string

// Event carries a payload of any type. Subscribers registered with SubscribeTyped
// only see events whose payload has their type.
type Event struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      any
}

func NewEvent(ctx context.Context, eventType EventType, data any) Event {
	return Event{
		ctx:       ctx,
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// Context of the publisher, never nil.
func (e Event) Context() context.Context {
	return contextOrBackground(e.ctx)
}

// EventT is the typed view of an Event handed to typed subscribers.
type EventT[T any] struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      T
}

func (e EventT[T]) Context() context.Context {
	return contextOrBackground(e.ctx)
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

type subscriber struct {
	id      uint64
	handler func(Event) error
}

// EventBus dispatches events synchronously to its subscribers, in the order they subscribed.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]subscriber
	lastId      uint64
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]subscriber),
	}
}

// Subscribe adds a handler for eventType. Calling the returned function removes it again.
func (eb *EventBus) Subscribe(eventType EventType, handler func(Event) error) (unsubscribe func()) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.lastId++
	id := eb.lastId
	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber{id: id, handler: handler})

	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()

		remaining := slices.DeleteFunc(slices.Clone(eb.subscribers[eventType]), func(s subscriber) bool {
			return s.id == id
		})
		if len(remaining) == 0 {
			delete(eb.subscribers, eventType)
			return
		}
		eb.subscribers[eventType] = remaining
	}
}

// SubscribeTyped subscribes a handler for payloads of type T. Go methods cannot take type
// parameters, hence a function.
//
//	event_bus.SubscribeTyped[event_bus.BookingChanged](bus, event_bus.SlotBooked,
//	    func(e event_bus.EventT[event_bus.BookingChanged]) error {
//	        log.Infof("booked %s on %s", e.Data.Slot, e.Data.Date)
//	        return nil
//	    })
func SubscribeTyped[T any](eb *EventBus, eventType EventType, handler func(EventT[T]) error) (unsubscribe func()) {
	return eb.Subscribe(eventType, func(e Event) error {
		payload, ok := e.Data.(T)
		if !ok {
			log.Debugf("EventBus: skipping %s handler for payload %T", eventType, e.Data)
			return nil
		}
		return handler(EventT[T]{
			ctx:       e.ctx,
			Type:      e.Type,
			Timestamp: e.Timestamp,
			Data:      payload,
		})
	})
}

// Publish runs every handler of the event type before returning. Handler errors and panics
// are collected and returned together; the remaining handlers still run. Dispatch stops once
// the event context is done.
func (eb *EventBus) Publish(e Event) error {
	ctx := e.Context()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("event %s not published: %w", e.Type, err)
	}

	eb.mu.RLock()
	subscribers := eb.subscribers[e.Type]
	eb.mu.RUnlock()

	var errs []error
	for _, s := range subscribers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("event %s dispatch interrupted: %w", e.Type, err))
			break
		}
		if err := runHandler(s, e); err != nil {
			log.Errorf("EventBus: handler %d failed for %s: %v", s.id, e.Type, err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("event %s: %d handler(s) failed: %w", e.Type, len(errs), errors.Join(errs...))
	}
	return nil
}

func runHandler(s subscriber, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %d panicked: %v", s.id, r)
		}
	}()
	return s.handler(e)
}
