// Package extract turns a webmail DOM snapshot into a normalized EmailRecord.
//
// Element location is driven by ordered candidate selector lists, since the
// host page renders the same fields with different markup across its internal
// view variants.  Missing elements degrade the affected field to its zero
// value; extraction itself never fails.
package extract

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mailclip/mailclip/pkg/record"
	"github.com/mailclip/mailclip/pkg/sanitize"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// Defaults for Config fields left zero.
const (
	DefaultHost               = "mail.google.com"
	DefaultMinImageDim        = 20
	DefaultMaxImageFetchBytes = 5 * 1024 * 1024
)

// Field selector fallback lists, primary first.
var (
	subjectSelectors = []Selector{
		MustCompile("h2[data-thread-perm-id]"),
		MustCompile("h2.hP"),
	}
	senderSelectors = []Selector{
		MustCompile("span[email]"),
	}
	dateSelectors = []Selector{
		MustCompile("span.g3"),
		MustCompile("td.gH span[title]"),
	}
	bodySelectors = []Selector{
		MustCompile("div.a3s.aiL"),
		MustCompile("div.a3s"),
	}
	containerSelectors = []Selector{
		MustCompile("div.adn"),
		MustCompile("div[role=listitem]"),
		MustCompile("div.gs"),
	}
)

// httpClient allows the image fetcher to be mocked for tests.
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config controls extraction limits and the webmail host attachments must
// belong to.
type Config struct {
	Host               string
	MinImageDim        int
	MaxImageFetchBytes int64
}

// Extractor reads message data out of a parsed DOM snapshot.
type Extractor struct {
	conf   Config
	client httpClient
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient replaces the HTTP client used for inline image fetches.
func WithHTTPClient(c httpClient) Option {
	return func(e *Extractor) {
		e.client = c
	}
}

// New creates an Extractor, applying defaults for zero Config fields.
func New(conf Config, opts ...Option) *Extractor {
	if conf.Host == "" {
		conf.Host = DefaultHost
	}
	if conf.MinImageDim == 0 {
		conf.MinImageDim = DefaultMinImageDim
	}
	if conf.MaxImageFetchBytes == 0 {
		conf.MaxImageFetchBytes = DefaultMaxImageFetchBytes
	}
	e := &Extractor{
		conf:   conf,
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse reads an HTML document for extraction.
func Parse(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// Record extracts an EmailRecord from the document.  The context bounds the
// optional inline image fetches, the only network activity performed here.
func (e *Extractor) Record(ctx context.Context, doc *html.Node) record.EmailRecord {
	rec := record.EmailRecord{}

	if n := FirstMatch(doc, subjectSelectors); n != nil {
		rec.Subject = strings.TrimSpace(innerText(n))
	}
	if n := FirstMatch(doc, senderSelectors); n != nil {
		rec.SenderEmail, _ = attrVal(n, "email")
		if name, ok := attrVal(n, "name"); ok && name != "" {
			rec.SenderName = name
		} else {
			rec.SenderName = strings.TrimSpace(innerText(n))
		}
	}
	if n := FirstMatch(doc, dateSelectors); n != nil {
		// The title attribute carries full precision; visible text may be
		// abbreviated.
		if title, ok := attrVal(n, "title"); ok && title != "" {
			rec.ReceivedDate = title
		} else {
			rec.ReceivedDate = strings.TrimSpace(innerText(n))
		}
	}

	body := FirstMatch(doc, bodySelectors)
	if body != nil {
		rec.Body = strings.TrimSpace(innerText(body))
		rec.BodyHTML = renderHTML(body)
		if clean, err := sanitize.HTML(rec.BodyHTML); err == nil {
			rec.BodyHTML = clean
		} else {
			log.Warn().Str("module", "extract").Err(err).Msg("Body HTML sanitize failed, keeping raw markup")
		}
		rec.InlineImages = e.inlineImages(ctx, body)
	}

	rec.Attachments = e.attachments(doc)
	rec.IsOpen = rec.Subject != "" || rec.SenderEmail != ""
	return rec
}

// innerText approximates the rendered text content of a node: text nodes are
// concatenated, with line breaks for <br> and after block-level elements.
func innerText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "br":
				b.WriteString("\n")
			case "script", "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
		if n.Type == html.ElementNode && isBlockElement(n.Data) {
			b.WriteString("\n")
		}
	}
	visit(n)
	return collapseBlankLines(b.String())
}

func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "tr", "li", "table", "ul", "ol",
		"h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
		return true
	}
	return false
}

// collapseBlankLines trims trailing space per line and squeezes runs of blank
// lines down to one.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blank := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// renderHTML serializes the children of n back to markup.
func renderHTML(n *html.Node) string {
	var b bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return ""
		}
	}
	return b.String()
}
