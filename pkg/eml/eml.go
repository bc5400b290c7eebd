// Package eml reads RFC 2822 message files as an alternate record source,
// for clipping mail that was exported rather than viewed in the browser.
package eml

import (
	"encoding/base64"
	"io"
	"net/mail"
	"strings"

	"github.com/jhillyerd/enmime/v2"
	"github.com/mailclip/mailclip/pkg/record"
	"github.com/mailclip/mailclip/pkg/sanitize"
	"github.com/rs/zerolog/log"
)

// Read parses a raw message into an EmailRecord.  Attachments carry no
// download URL (there is no serving host for a local file), so the encoder's
// URL validation keeps them out of remote content; they are still listed so
// callers can report them.  Inline image parts are kept with their payload.
func Read(r io.Reader) (record.EmailRecord, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return record.EmailRecord{}, err
	}

	rec := record.EmailRecord{
		Subject:      env.GetHeader("Subject"),
		ReceivedDate: env.GetHeader("Date"),
		Body:         env.Text,
		BodyHTML:     env.HTML,
	}
	if clean, err := sanitize.HTML(rec.BodyHTML); err == nil {
		rec.BodyHTML = clean
	}

	if from := env.GetHeader("From"); from != "" {
		if addr, err := mail.ParseAddress(from); err == nil {
			rec.SenderEmail = addr.Address
			rec.SenderName = addr.Name
		} else {
			log.Debug().Str("module", "eml").Str("from", from).Err(err).
				Msg("Unparseable From header")
			rec.SenderEmail = from
		}
	}

	for _, part := range env.Attachments {
		if !record.ValidFilename(part.FileName) {
			continue
		}
		rec.Attachments = append(rec.Attachments, record.Attachment{
			Name:     part.FileName,
			MimeType: part.ContentType,
			Kind:     record.FileKind(part.FileName),
		})
	}

	for _, part := range env.Inlines {
		if !strings.HasPrefix(part.ContentType, "image/") {
			continue
		}
		rec.InlineImages = append(rec.InlineImages, record.InlineImage{
			Src:      "cid:" + part.ContentID,
			Alt:      part.FileName,
			MimeType: part.ContentType,
			Data:     base64.StdEncoding.EncodeToString(part.Content),
		})
	}

	rec.IsOpen = rec.Subject != "" || rec.SenderEmail != ""
	return rec, nil
}
