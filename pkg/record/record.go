// Package record defines the data types passed through the clipping pipeline,
// from DOM extraction to remote submission.
package record

// EmailRecord is the normalized result of extracting a single open message
// view.  Missing fields are left empty rather than treated as errors.
type EmailRecord struct {
	Subject      string        `json:"subject"`
	SenderEmail  string        `json:"senderEmail"`
	SenderName   string        `json:"senderName"`
	ReceivedDate string        `json:"receivedDate"` // Raw source text, unparsed.
	Body         string        `json:"body"`
	BodyHTML     string        `json:"bodyHtml"`
	Attachments  []Attachment  `json:"attachments"`
	InlineImages []InlineImage `json:"inlineImages"`
	IsOpen       bool          `json:"isEmailOpen"`
}

// Attachment describes a downloadable file referenced by a message.
type Attachment struct {
	Name        string `json:"name"`
	DownloadURL string `json:"downloadUrl"`
	MimeType    string `json:"mimeType"`
	Kind        string `json:"type"`
}

// InlineImage describes an image embedded in a message body.  Data holds the
// base64 payload when the source was a data URI or a successful bounded fetch.
type InlineImage struct {
	Src      string `json:"src"`
	Alt      string `json:"alt"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"base64Data,omitempty"`
	External bool   `json:"isExternal,omitempty"`
}

// TagSelection carries the multi-select state from the UI: options the user
// confirmed from the existing vocabulary plus values they typed in fresh.
// The pipeline does not care which are new; Merge flattens them in order.
type TagSelection struct {
	Confirmed  []string `json:"confirmed"`
	PendingNew []string `json:"pendingNew"`
}

// Merge returns the confirmed tags followed by the pending new ones,
// dropping duplicates.
func (s TagSelection) Merge() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range append(append([]string{}, s.Confirmed...), s.PendingNew...) {
		if _, dup := seen[t]; dup || t == "" {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// MailSubmission is an EmailRecord plus the user's annotations, built once
// per save action.
type MailSubmission struct {
	EmailRecord
	Reason        string   `json:"reason"`
	MailCategory  string   `json:"mailCategory"`
	TagCategories []string `json:"tagCategory"`
	ProcessStatus string   `json:"processStatus"`
	ReadStatus    string   `json:"readStatus"`
}

// BillSubmission is the narrower record used for bill pages.  Amount is a
// pointer so that zero can be distinguished from absent.
type BillSubmission struct {
	EmailSubject  string        `json:"emailSubject"`
	Amount        *float64      `json:"amount"`
	BillMonth     string        `json:"billMonth"` // "2006-01" or "2006-01-02".
	PaymentMethod string        `json:"paymentMethod"`
	Note          string        `json:"note"`
	Attachments   []Attachment  `json:"attachments"`
	InlineImages  []InlineImage `json:"inlineImages"`
}

// SaveResult reports the outcome of a save.  Partial is set when the page was
// created but one or more content batches failed to append.
type SaveResult struct {
	PageID          string `json:"pageId"`
	URL             string `json:"url"`
	AttachmentCount int    `json:"attachmentCount"`
	ImageCount      int    `json:"imageCount"`
	Partial         bool   `json:"partial,omitempty"`
}

// SelectOption is one choice of a select or multi-select property.
type SelectOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// OptionMap maps property names to their option vocabulary.
type OptionMap map[string][]SelectOption
