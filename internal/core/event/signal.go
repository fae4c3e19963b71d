package event

// Signal is a synchronous observer list. Emit calls every subscriber in
// subscription order before returning.
//
// Subscribers may subscribe or unsubscribe from inside a callback: a
// subscriber removed during an Emit is not called later in that Emit, and a
// subscriber added during an Emit is first called on the next Emit.
// Accessed only from the game loop goroutine. No locks.
type Signal[T any] struct {
	nextID uint64
	subs   []*subscriber[T] // copy-on-write; Emit iterates a stable snapshot
}

type subscriber[T any] struct {
	id     uint64
	fn     func(T)
	active bool
}

// Subscription identifies a registered callback. The zero value is never issued.
type Subscription uint64

// Subscribe registers fn and returns a handle for Unsubscribe.
func (s *Signal[T]) Subscribe(fn func(T)) Subscription {
	s.nextID++
	sub := &subscriber[T]{id: s.nextID, fn: fn, active: true}
	next := make([]*subscriber[T], len(s.subs), len(s.subs)+1)
	copy(next, s.subs)
	s.subs = append(next, sub)
	return Subscription(sub.id)
}

// Unsubscribe removes the callback. Unknown or already removed handles are a no-op.
func (s *Signal[T]) Unsubscribe(h Subscription) bool {
	for i, sub := range s.subs {
		if sub.id != uint64(h) {
			continue
		}
		sub.active = false
		next := make([]*subscriber[T], 0, len(s.subs)-1)
		next = append(next, s.subs[:i]...)
		next = append(next, s.subs[i+1:]...)
		s.subs = next
		return true
	}
	return false
}

// Emit delivers v to every active subscriber.
func (s *Signal[T]) Emit(v T) {
	snapshot := s.subs
	for _, sub := range snapshot {
		if !sub.active {
			continue
		}
		sub.fn(v)
	}
}

// Len returns the number of registered subscribers.
func (s *Signal[T]) Len() int { return len(s.subs) }
