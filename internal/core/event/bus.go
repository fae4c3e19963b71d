package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered notification bus for observers outside the core
// (HUD, logging, replay recorders). Events emitted in tick N are delivered in
// tick N+1, in emission order, when EventDispatchSystem calls SwapBuffers and
// DispatchAll.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    []queued
	back     []queued
	handlers map[reflect.Type][]handler
	nextID   uint64
}

type queued struct {
	typ reflect.Type
	ev  any
}

type handler struct {
	id uint64
	fn func(any)
}

func NewBus() *Bus {
	return &Bus{
		front:    make([]queued, 0, 64),
		back:     make([]queued, 0, 64),
		handlers: make(map[reflect.Type][]handler),
	}
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit queues an event into the back buffer (will be delivered next tick).
// A nil bus drops the event.
func Emit[T any](b *Bus, event T) {
	if b == nil {
		return
	}
	b.back = append(b.back, queued{typ: typeKey[T](), ev: event})
}

// Subscribe registers a typed handler for events of type T and returns a
// handle for Unsubscribe.
func Subscribe[T any](b *Bus, fn func(T)) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	t := typeKey[T]()
	h := handler{id: b.nextID, fn: func(ev any) { fn(ev.(T)) }}
	next := make([]handler, len(b.handlers[t]), len(b.handlers[t])+1)
	copy(next, b.handlers[t])
	b.handlers[t] = append(next, h)
	return Subscription(h.id)
}

// Unsubscribe removes a handler registered with Subscribe. Safe to call from
// inside a handler: the removed handler gets no further deliveries.
func (b *Bus) Unsubscribe(s Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for t, hs := range b.handlers {
		for i, h := range hs {
			if h.id != uint64(s) {
				continue
			}
			next := make([]handler, 0, len(hs)-1)
			next = append(next, hs[:i]...)
			next = append(next, hs[i+1:]...)
			b.handlers[t] = next
			return
		}
	}
}

// SwapBuffers rotates back→front and clears the new back buffer.
// Called once per tick before DispatchAll.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front[:0]
}

// DispatchAll delivers all front-buffer events to their subscribed handlers.
func (b *Bus) DispatchAll() {
	for i := range b.front {
		q := b.front[i]
		for _, h := range b.handlers[q.typ] {
			if !b.subscribed(q.typ, h.id) {
				continue
			}
			h.fn(q.ev)
		}
	}
	b.front = b.front[:0]
}

// Pending returns the number of events waiting for the next dispatch.
func (b *Bus) Pending() int { return len(b.back) }

func (b *Bus) subscribed(t reflect.Type, id uint64) bool {
	for _, h := range b.handlers[t] {
		if h.id == id {
			return true
		}
	}
	return false
}
