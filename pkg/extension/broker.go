package extension

import (
	"sync"
)

// EventBroker distributes one kind of event to registered listeners and
// collects at most one response.
type EventBroker[E any, R interface{}] struct {
	sync.RWMutex
	listeners []namedListener[E, R] // In registration order.
}

type namedListener[E any, R interface{}] struct {
	name string
	fn   func(E) *R
}

// Emit sends the provided event to each registered listener in order, until
// one returns a non-nil result.  That result will be returned to the caller.
func (eb *EventBroker[E, R]) Emit(event *E) *R {
	eb.RLock()
	defer eb.RUnlock()

	for _, l := range eb.listeners {
		// Events are copied to minimize the risk of mutation.
		if result := l.fn(*event); result != nil {
			return result
		}
	}

	return nil
}

// AddListener registers the named listener, replacing one with a duplicate
// name if present.  Listeners should be added in order of priority, most
// significant first.
func (eb *EventBroker[E, R]) AddListener(name string, listener func(E) *R) {
	eb.Lock()
	defer eb.Unlock()

	eb.lockedRemoveListener(name)
	eb.listeners = append(eb.listeners, namedListener[E, R]{name, listener})
}

// RemoveListener unregisters the named listener.
func (eb *EventBroker[E, R]) RemoveListener(name string) {
	eb.Lock()
	defer eb.Unlock()

	eb.lockedRemoveListener(name)
}

func (eb *EventBroker[E, R]) lockedRemoveListener(name string) {
	for i, entry := range eb.listeners {
		if entry.name == name {
			eb.listeners = append(eb.listeners[:i], eb.listeners[i+1:]...)
			break
		}
	}
}
