// Package dispatch routes save requests to their destination: straight to the
// document database API, or through a proxy backend.
package dispatch

import (
	"context"
	"fmt"

	"github.com/mailclip/mailclip/pkg/record"
)

// Dispatcher accepts annotated submissions and persists them as pages.
type Dispatcher interface {
	// SaveMail persists a mail submission as a new page.
	SaveMail(ctx context.Context, sub record.MailSubmission) (*record.SaveResult, error)

	// SaveBill persists a bill submission as a new page.
	SaveBill(ctx context.Context, sub record.BillSubmission) (*record.SaveResult, error)

	// MailOptions fetches the select option vocabulary of the mail
	// collection.  Failures degrade to an empty map.
	MailOptions(ctx context.Context) record.OptionMap

	// BillOptions fetches the select option vocabulary of the bill
	// collection.  Failures degrade to an empty map.
	BillOptions(ctx context.Context) record.OptionMap
}

// ConfigError indicates a save was rejected before any network activity
// because required settings are absent.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("not configured, missing: %v", e.Missing)
}
