package extract

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingClient rejects all requests; used where image fetches must not
// contribute data.
type failingClient struct {
	calls int
}

func (c *failingClient) Do(req *http.Request) (*http.Response, error) {
	c.calls++
	return nil, errors.New("no network in test")
}

const messageView = `
<html><body>
<div class="adn">
	<h2 data-thread-perm-id="thread-f:1" class="hP">Quarterly report</h2>
	<span email="alice@example.com" name="Alice Liddell">Alice</span>
	<span class="g3" title="Mar 1, 2025, 9:00 AM">Mar 1</span>
	<div class="a3s aiL">Hello,<br>see the attached report.
		<img src="https://cdn.example.com/chart.png" width="300" height="200" alt="Chart">
	</div>
	<div class="aQH">
		<a href="https://mail.google.com/mail/u/0/?view=att&disp=safe&attid=0.1"
			download="report.pdf">report.pdf</a>
	</div>
</div>
</body></html>`

func TestRecordFields(t *testing.T) {
	doc := parseDoc(t, messageView)
	e := New(Config{}, WithHTTPClient(&failingClient{}))
	rec := e.Record(context.Background(), doc)

	assert.Equal(t, "Quarterly report", rec.Subject)
	assert.Equal(t, "alice@example.com", rec.SenderEmail)
	assert.Equal(t, "Alice Liddell", rec.SenderName)
	assert.Equal(t, "Mar 1, 2025, 9:00 AM", rec.ReceivedDate)
	assert.True(t, rec.IsOpen)
	assert.Contains(t, rec.Body, "Hello,")
	assert.Contains(t, rec.Body, "see the attached report.")
	assert.Contains(t, rec.BodyHTML, "cdn.example.com/chart.png")

	require.Len(t, rec.Attachments, 1)
	att := rec.Attachments[0]
	assert.Equal(t, "report.pdf", att.Name)
	assert.Contains(t, att.DownloadURL, "disp=inline")
	assert.NotContains(t, att.DownloadURL, "disp=safe")
	assert.Equal(t, "application/pdf", att.MimeType)
	assert.Equal(t, "pdf", att.Kind)

	require.Len(t, rec.InlineImages, 1)
	img := rec.InlineImages[0]
	assert.Equal(t, "https://cdn.example.com/chart.png", img.Src)
	assert.True(t, img.External)
	assert.Empty(t, img.Data, "failed fetch must not attach data")
}

func TestRecordDegradesPerField(t *testing.T) {
	// Subject present, everything else missing.
	doc := parseDoc(t, `<div class="gs"><h2 class="hP">Invoice #42</h2></div>`)
	e := New(Config{}, WithHTTPClient(&failingClient{}))
	rec := e.Record(context.Background(), doc)

	assert.Equal(t, "Invoice #42", rec.Subject)
	assert.Empty(t, rec.SenderEmail)
	assert.Empty(t, rec.ReceivedDate)
	assert.Empty(t, rec.Body)
	assert.Empty(t, rec.Attachments)
	assert.Empty(t, rec.InlineImages)
	assert.True(t, rec.IsOpen, "subject alone must mark the message open")
}

func TestRecordIsOpen(t *testing.T) {
	testCases := []struct {
		name   string
		markup string
		want   bool
	}{
		{"subject only", `<h2 class="hP">S</h2>`, true},
		{"sender only", `<span email="x@y.z"></span>`, true},
		{"both", `<h2 class="hP">S</h2><span email="x@y.z"></span>`, true},
		{"neither", `<div>nothing here</div>`, false},
		{"named sender without email attr value", `<span email="">B</span>`, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := parseDoc(t, tc.markup)
			e := New(Config{}, WithHTTPClient(&failingClient{}))
			rec := e.Record(context.Background(), doc)
			if rec.IsOpen != tc.want {
				t.Errorf("IsOpen == %v, want %v", rec.IsOpen, tc.want)
			}
		})
	}
}

func TestRecordDatePrefersTitleAttr(t *testing.T) {
	doc := parseDoc(t,
		`<table><tbody><tr><td class="gH"><span title="Sat, Mar 1, 2025 9:00 AM">Mar 1</span></td></tr></tbody></table>`)
	e := New(Config{}, WithHTTPClient(&failingClient{}))
	rec := e.Record(context.Background(), doc)
	assert.Equal(t, "Sat, Mar 1, 2025 9:00 AM", rec.ReceivedDate)
}

func TestInnerTextLineBreaks(t *testing.T) {
	doc := parseDoc(t, `<div id="x"><p>one</p><p>two</p>three<br>four</div>`)
	n := MustCompile("div[id=x]").First(doc)
	got := strings.TrimSpace(innerText(n))
	assert.Equal(t, "one\ntwo\nthree\nfour", got)
}
