// Package savehub relays completed save records to interested listeners, with
// a bounded replay history for late joiners.
package savehub

import (
	"container/ring"
	"context"

	"github.com/mailclip/mailclip/pkg/extension"
	"github.com/mailclip/mailclip/pkg/extension/event"
)

// Length of hub operation queue.
const opChanLen = 100

// Listener receives the contents of the history buffer, followed by new save
// records.
type Listener interface {
	Receive(rec event.SaveRecord) error
}

// Hub relays save records on to its listeners.
type Hub struct {
	// History buffer, points next record to write.  Preceding non-nil entry
	// is the oldest record.
	history   *ring.Ring
	listeners map[Listener]struct{} // Listeners interested in new records.
	opChan    chan func(h *Hub)     // Operations queued for this actor.
	done      chan struct{}         // Closed once Start has returned.
}

// New constructs a new Hub which will cache historyLen save records in memory
// for playback to future listeners.  Start must be called to process incoming
// records.
func New(historyLen int, extHost *extension.Host) *Hub {
	hub := &Hub{
		history:   ring.New(historyLen),
		listeners: make(map[Listener]struct{}),
		opChan:    make(chan func(h *Hub), opChanLen),
		done:      make(chan struct{}),
	}

	// Saves reach the hub through the extension event, same as any other
	// listener.
	extHost.Events.AfterPageSaved.AddListener("savehub",
		func(rec event.SaveRecord) {
			hub.Dispatch(rec)
		})

	return hub
}

// Start runs the hub processing loop until ctx is canceled.
func (hub *Hub) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Shutdown.  opChan stays open; enqueue drops operations once
			// done is closed, so a save completing late cannot panic.
			close(hub.done)
			return
		case op := <-hub.opChan:
			op(hub)
		}
	}
}

// enqueue submits an operation to the actor, dropping it if the hub has
// stopped.
func (hub *Hub) enqueue(op func(h *Hub)) {
	select {
	case hub.opChan <- op:
	case <-hub.done:
	}
}

// Dispatch queues a save record for broadcast by the hub.  The record will be
// placed into the history buffer and then relayed to all registered listeners.
func (hub *Hub) Dispatch(rec event.SaveRecord) {
	hub.enqueue(func(h *Hub) {
		if h.history != nil {
			// Add to history buffer.
			h.history.Value = rec
			h.history = h.history.Next()

			// Deliver record to all listeners, removing listeners if they
			// return an error.
			for l := range h.listeners {
				if err := l.Receive(rec); err != nil {
					delete(h.listeners, l)
				}
			}
		}
	})
}

// AddListener registers a listener to receive broadcasted save records.
func (hub *Hub) AddListener(l Listener) {
	hub.enqueue(func(h *Hub) {
		// Playback history.
		h.history.Do(func(v interface{}) {
			if v != nil {
				_ = l.Receive(v.(event.SaveRecord))
			}
		})

		// Add to listeners.
		h.listeners[l] = struct{}{}
	})
}

// RemoveListener deletes a listener registration, it will cease to receive
// save records.
func (hub *Hub) RemoveListener(l Listener) {
	hub.enqueue(func(h *Hub) {
		delete(h.listeners, l)
	})
}

// Sync blocks until the hub has processed its queue up to this point, useful
// for unit tests.  Returns immediately once the hub has stopped.
func (hub *Hub) Sync() {
	done := make(chan struct{})
	hub.enqueue(func(h *Hub) {
		close(done)
	})
	select {
	case <-done:
	case <-hub.done:
	}
}
