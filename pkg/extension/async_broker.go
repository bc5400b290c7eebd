package extension

import (
	"errors"
	"sync"
	"time"
)

// AsyncEventBroker distributes one kind of event to registered listeners.
// Events are sent in parallel to all listeners, and no result is returned.
type AsyncEventBroker[E any] struct {
	sync.RWMutex
	listeners []namedAsyncListener[E] // In registration order.
}

type namedAsyncListener[E any] struct {
	name string
	fn   func(E)
}

// Emit sends the provided event to each registered listener in parallel.
func (eb *AsyncEventBroker[E]) Emit(event *E) {
	eb.RLock()
	defer eb.RUnlock()

	for _, l := range eb.listeners {
		// Events are copied to minimize the risk of mutation.
		go l.fn(*event)
	}
}

// AddListener registers the named listener, replacing one with a duplicate
// name if present.
func (eb *AsyncEventBroker[E]) AddListener(name string, listener func(E)) {
	eb.Lock()
	defer eb.Unlock()

	eb.lockedRemoveListener(name)
	eb.listeners = append(eb.listeners, namedAsyncListener[E]{name, listener})
}

// RemoveListener unregisters the named listener.
func (eb *AsyncEventBroker[E]) RemoveListener(name string) {
	eb.Lock()
	defer eb.Unlock()

	eb.lockedRemoveListener(name)
}

func (eb *AsyncEventBroker[E]) lockedRemoveListener(name string) {
	for i, entry := range eb.listeners {
		if entry.name == name {
			eb.listeners = append(eb.listeners[:i], eb.listeners[i+1:]...)
			break
		}
	}
}

// AsyncTestListener returns a func that will wait for an event and return it,
// or timeout with an error.
func (eb *AsyncEventBroker[E]) AsyncTestListener(name string, capacity int) func() (*E, error) {
	// Send event down channel.
	events := make(chan E, capacity)
	eb.AddListener(name,
		func(msg E) {
			events <- msg
		})

	count := 0

	return func() (*E, error) {
		count++

		defer func() {
			if count >= capacity {
				eb.RemoveListener(name)
				close(events)
			}
		}()

		select {
		case event := <-events:
			return &event, nil

		case <-time.After(time.Second * 2):
			return nil, errors.New("timeout waiting for event")
		}
	}
}
