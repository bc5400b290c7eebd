// Package extension hosts the event brokers scripts and other listeners hang
// off of.
package extension

import (
	"github.com/mailclip/mailclip/pkg/extension/event"
	"github.com/mailclip/mailclip/pkg/record"
)

// Host defines the extension points of the clipping pipeline.
type Host struct {
	Events *Events
}

// Events defines all the event types supported by the extension host.
//
// Before-events run synchronously ahead of a save and give listeners a chance
// to rewrite the submission; the first listener to return a non-nil value
// determines the submission that is saved, and later listeners are not called.
//
// After-events fire asynchronously once a save has completed, in listener
// registration order.
type Events struct {
	BeforeMailSaved EventBroker[record.MailSubmission, record.MailSubmission]
	BeforeBillSaved EventBroker[record.BillSubmission, record.BillSubmission]
	AfterPageSaved  AsyncEventBroker[event.SaveRecord]
}

// Void indicates the event emitter will ignore any value returned by listeners.
type Void struct{}

// NewHost creates a new extension host.
func NewHost() *Host {
	return &Host{Events: &Events{}}
}
