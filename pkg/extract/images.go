package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/mailclip/mailclip/pkg/record"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

var (
	imgSelector = MustCompile("img")

	// Tracking pixels and layout filler.
	placeholderRE = regexp.MustCompile(`spacer|blank|1x1`)

	dataURIRE = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)
)

// inlineImages walks img elements inside the body container, dropping
// tracking pixels and undersized icons.  Images referenced over HTTP get a
// best-effort bounded fetch so the payload can be kept inline; a failed or
// oversized fetch keeps the URL reference without data.
func (e *Extractor) inlineImages(ctx context.Context, body *html.Node) []record.InlineImage {
	var out []record.InlineImage
	for i, img := range imgSelector.All(body) {
		src, _ := attrVal(img, "src")
		if src == "" {
			continue
		}

		width := intAttr(img, "width")
		height := intAttr(img, "height")
		if width < e.conf.MinImageDim || height < e.conf.MinImageDim {
			continue
		}
		if placeholderRE.MatchString(src) {
			continue
		}

		info := record.InlineImage{
			Src:    src,
			Width:  width,
			Height: height,
		}
		if alt, ok := attrVal(img, "alt"); ok && alt != "" {
			info.Alt = alt
		} else {
			info.Alt = fmt.Sprintf("image_%d", i+1)
		}

		switch {
		case strings.HasPrefix(src, "data:"):
			if m := dataURIRE.FindStringSubmatch(src); m != nil {
				info.MimeType = m[1]
				info.Data = m[2]
			}
		case strings.HasPrefix(src, "http"):
			info.External = true
			if data, mimeType := e.fetchImage(ctx, src); data != "" {
				info.Data = data
				info.MimeType = mimeType
			}
		}

		out = append(out, info)
	}
	return out
}

// fetchImage downloads an image and re-encodes it as base64, giving up
// silently on any error or when the payload exceeds the configured ceiling.
func (e *Extractor) fetchImage(ctx context.Context, src string) (data, mimeType string) {
	req, err := http.NewRequestWithContext(ctx, "GET", src, nil)
	if err != nil {
		return "", ""
	}
	resp, err := e.client.Do(req)
	if err != nil {
		log.Debug().Str("module", "extract").Str("url", src).Err(err).
			Msg("Inline image fetch failed")
		return "", ""
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", ""
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, e.conf.MaxImageFetchBytes+1))
	if err != nil {
		return "", ""
	}
	if int64(len(payload)) > e.conf.MaxImageFetchBytes {
		log.Debug().Str("module", "extract").Str("url", src).
			Int64("limit", e.conf.MaxImageFetchBytes).Msg("Inline image too large")
		return "", ""
	}

	mimeType = resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = record.MimeType(urlFilename(src))
	}
	return base64.StdEncoding.EncodeToString(payload), mimeType
}

// urlFilename returns the last path element of a URL sans query string.
func urlFilename(src string) string {
	if i := strings.IndexByte(src, '?'); i >= 0 {
		src = src[:i]
	}
	if i := strings.LastIndexByte(src, '/'); i >= 0 {
		src = src[i+1:]
	}
	return src
}

func intAttr(n *html.Node, key string) int {
	val, ok := attrVal(n, key)
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(val), "px"))
	if err != nil {
		return 0
	}
	return i
}
