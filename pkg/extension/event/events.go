// Package event defines the payload types carried by extension events.
package event

import "time"

// Save targets.
const (
	TargetMail = "mail"
	TargetBill = "bill"
)

// SaveRecord describes one completed page save.
type SaveRecord struct {
	ID              string
	Target          string // TargetMail or TargetBill.
	PageID          string
	URL             string
	Subject         string
	AttachmentCount int
	ImageCount      int
	Partial         bool
	Date            time.Time
}
