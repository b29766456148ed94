package dropdown

import (
	"sort"
	"sync"
)

// PointerEvent is a pointer press somewhere in the host UI. Target names the
// element that received it, using dotted paths such as
// "preferredUniversities.search".
type PointerEvent struct {
	Target string
}

// Listener receives pointer events.
type Listener func(PointerEvent)

// EventSource delivers pointer events to subscribers. The returned function
// removes the subscription and is safe to call more than once.
type EventSource interface {
	Subscribe(Listener) (unsubscribe func())
}

// Bus is an in-process EventSource.
type Bus struct {
	mu        sync.Mutex
	next      uint64
	listeners map[uint64]Listener
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[uint64]Listener)}
}

// Subscribe registers l until the returned function is called.
func (b *Bus) Subscribe(l Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listeners == nil {
		b.listeners = make(map[uint64]Listener)
	}
	b.next++
	id := b.next
	b.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.listeners, id)
		})
	}
}

// Dispatch delivers ev to every listener registered at the time of the call,
// in subscription order. Listeners run without the bus lock held and may
// unsubscribe themselves.
func (b *Bus) Dispatch(ev PointerEvent) {
	b.mu.Lock()
	ids := make([]uint64, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	snapshot := make([]Listener, 0, len(ids))
	for _, id := range ids {
		snapshot = append(snapshot, b.listeners[id])
	}
	b.mu.Unlock()

	for _, l := range snapshot {
		l(ev)
	}
}

// Listeners returns the number of active subscriptions.
func (b *Bus) Listeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
