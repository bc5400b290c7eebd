package extract

import (
	"net/url"
	"strings"

	"github.com/mailclip/mailclip/pkg/record"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// Attachment anchors live on the host's attachment-serving paths.
var attachmentLinkSelectors = []Selector{
	MustCompile("a[href*=view=att]"),
	MustCompile("a[href*=attid=]"),
}

// Containers that group an attachment card with its file name label.
var attachmentCardSelectors = []Selector{
	MustCompile("div.aQH"),
	MustCompile("div.aZo"),
}

// Elements that carry an attachment's display name.
var attachmentNameSelectors = []Selector{
	MustCompile("span.aV3"),
	MustCompile("span.aQA span"),
	MustCompile("span[title]"),
}

// attachments discovers downloadable attachments.  The search is scoped to a
// single message container so that other messages rendered in the same thread
// cannot leak entries in.
func (e *Extractor) attachments(doc *html.Node) []record.Attachment {
	container := FirstMatch(doc, containerSelectors)
	if container == nil {
		log.Debug().Str("module", "extract").Msg("No message container found, skipping attachments")
		return nil
	}

	var out []record.Attachment
	seen := make(map[string]struct{})
	for _, link := range AllMatching(container, attachmentLinkSelectors...) {
		href, _ := attrVal(link, "href")
		if !e.hostedURL(href) {
			continue
		}

		name := e.attachmentName(link)
		if !record.ValidFilename(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		// Safe-redirect URLs are not directly fetchable; rewrite to inline.
		downloadURL := strings.Replace(href, "disp=safe", "disp=inline", 1)

		out = append(out, record.Attachment{
			Name:        name,
			DownloadURL: downloadURL,
			MimeType:    record.MimeType(name),
			Kind:        record.FileKind(name),
		})
	}
	return out
}

// attachmentName recovers a display name for the anchor: its download
// attribute, a label inside the enclosing attachment card, or the link text.
func (e *Extractor) attachmentName(link *html.Node) string {
	if name, ok := attrVal(link, "download"); ok && name != "" {
		return name
	}

	card := Closest(link, attachmentCardSelectors...)
	if card == nil {
		card = link.Parent
	}
	if card != nil {
		if nameEl := FirstMatch(card, attachmentNameSelectors); nameEl != nil {
			if name := strings.TrimSpace(innerText(nameEl)); name != "" {
				return name
			}
			if title, ok := attrVal(nameEl, "title"); ok {
				return title
			}
		}
	}

	return strings.TrimSpace(innerText(link))
}

// hostedURL reports whether raw is an absolute URL on the configured webmail
// host.
func (e *Extractor) hostedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.Contains(u.Host, e.conf.Host)
}
