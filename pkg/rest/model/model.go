// Package model defines the JSON wire types of the REST and monitor APIs.
package model

import (
	"time"

	"github.com/mailclip/mailclip/pkg/record"
)

// JSONOptionsV1 wraps a select option vocabulary for transport.
type JSONOptionsV1 struct {
	Options record.OptionMap `json:"options"`
}

// JSONSaveRecordV1 describes one completed save to monitor clients.
type JSONSaveRecordV1 struct {
	ID              string    `json:"id"`
	Target          string    `json:"target"`
	PageID          string    `json:"pageId"`
	URL             string    `json:"url"`
	Subject         string    `json:"subject"`
	AttachmentCount int       `json:"attachmentCount"`
	ImageCount      int       `json:"imageCount"`
	Partial         bool      `json:"partial"`
	Date            time.Time `json:"date"`
}

// JSONMonitorEventV1 contains events for the save monitor socket.
type JSONMonitorEventV1 struct {
	// Event variant: `page-saved`.
	Variant string            `json:"variant"`
	Save    *JSONSaveRecordV1 `json:"save"`
}
