package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event queue. Events emitted during tick N are
// published by the rotation at the start of tick N+1, so no system ever
// observes events half-produced by a later system in the same pass.
//
// Apart from Subscribe, the bus belongs to the tick loop goroutine.
type Bus struct {
	mu        sync.Mutex // guards handler registration only
	published map[reflect.Type][]any
	queued    map[reflect.Type][]any
	handlers  map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{
		published: make(map[reflect.Type][]any),
		queued:    make(map[reflect.Type][]any),
		handlers:  make(map[reflect.Type][]any),
	}
}

// Emit queues ev for publication at the next rotation.
func Emit[T any](b *Bus, ev T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.queued[t] = append(b.queued[t], ev)
}

// Subscribe registers fn for every published event of type T. A type
// consumed through Drain should not also carry subscribers, or its
// events arrive twice.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Rotate publishes everything emitted since the previous rotation and
// resets the emit side. Called once at tick start by the runner.
func (b *Bus) Rotate() {
	b.published, b.queued = b.queued, b.published
	for k := range b.queued {
		b.queued[k] = b.queued[k][:0]
	}
}

// Dispatch delivers every published event to its subscribers in emission
// order and reports how many deliveries were made. Events of types with
// no subscribers stay published for Drain.
func (b *Bus) Dispatch() int {
	n := 0
	for t, events := range b.published {
		handlers := b.handlers[t]
		if len(handlers) == 0 {
			continue
		}
		for _, ev := range events {
			for _, h := range handlers {
				// Safe: Subscribe keyed the handler under the
				// same reflect.Type Emit keys events under.
				reflect.ValueOf(h).Call([]reflect.Value{reflect.ValueOf(ev)})
				n++
			}
		}
	}
	return n
}

// Drain removes and returns the published events of type T, for systems
// that pull their events instead of subscribing.
func Drain[T any](b *Bus) []T {
	t := reflect.TypeOf((*T)(nil)).Elem()
	raw := b.published[t]
	if len(raw) == 0 {
		return nil
	}
	delete(b.published, t)
	out := make([]T, len(raw))
	for i, ev := range raw {
		out[i] = ev.(T)
	}
	return out
}

// Pending reports how many events await the next rotation.
func (b *Bus) Pending() int {
	n := 0
	for _, events := range b.queued {
		n += len(events)
	}
	return n
}
