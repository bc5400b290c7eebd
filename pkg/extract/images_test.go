package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient serves a fixed payload for all image fetches.
type stubClient struct {
	payload     []byte
	contentType string
	status      int
	calls       int
}

func (c *stubClient) Do(req *http.Request) (*http.Response, error) {
	c.calls++
	status := c.status
	if status == 0 {
		status = http.StatusOK
	}
	resp := &http.Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(bytes.NewReader(c.payload)),
	}
	if c.contentType != "" {
		resp.Header.Set("Content-Type", c.contentType)
	}
	return resp, nil
}

func bodyWithImages(imgs string) string {
	return fmt.Sprintf(`<div class="adn"><div class="a3s">%s</div></div>`, imgs)
}

func TestInlineImageSizeFilter(t *testing.T) {
	testCases := []struct {
		name   string
		img    string
		wantIn bool
	}{
		{"big image kept", `<img src="https://c.example.com/a.png" width="300" height="200">`, true},
		{"narrow dropped", `<img src="https://c.example.com/b.png" width="10" height="200">`, false},
		{"short dropped", `<img src="https://c.example.com/c.png" width="200" height="19">`, false},
		{"no dimensions dropped", `<img src="https://c.example.com/d.png">`, false},
		{"boundary kept", `<img src="https://c.example.com/e.png" width="20" height="20">`, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := parseDoc(t, bodyWithImages(tc.img))
			e := New(Config{}, WithHTTPClient(&failingClient{}))
			rec := e.Record(context.Background(), doc)
			if got := len(rec.InlineImages) == 1; got != tc.wantIn {
				t.Errorf("kept=%v, want %v", got, tc.wantIn)
			}
		})
	}
}

func TestInlineImagePlaceholderFilter(t *testing.T) {
	for _, src := range []string{
		"https://c.example.com/spacer.gif",
		"https://c.example.com/blank.png",
		"https://c.example.com/tracker_1x1.gif",
	} {
		t.Run(src, func(t *testing.T) {
			doc := parseDoc(t, bodyWithImages(
				fmt.Sprintf(`<img src="%s" width="100" height="100">`, src)))
			e := New(Config{}, WithHTTPClient(&failingClient{}))
			rec := e.Record(context.Background(), doc)
			assert.Empty(t, rec.InlineImages)
		})
	}
}

func TestInlineImageDataURI(t *testing.T) {
	doc := parseDoc(t, bodyWithImages(
		`<img src="data:image/png;base64,iVBORw0KGgo=" width="64" height="64" alt="pixel art">`))
	client := &failingClient{}
	e := New(Config{}, WithHTTPClient(client))
	rec := e.Record(context.Background(), doc)

	require.Len(t, rec.InlineImages, 1)
	img := rec.InlineImages[0]
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, "iVBORw0KGgo=", img.Data)
	assert.Equal(t, "pixel art", img.Alt)
	assert.False(t, img.External)
	assert.Zero(t, client.calls, "data URIs must not trigger fetches")
}

func TestInlineImageFetchSuccess(t *testing.T) {
	doc := parseDoc(t, bodyWithImages(
		`<img src="https://c.example.com/chart.png" width="300" height="200">`))
	client := &stubClient{payload: []byte{1, 2, 3}, contentType: "image/png"}
	e := New(Config{}, WithHTTPClient(client))
	rec := e.Record(context.Background(), doc)

	require.Len(t, rec.InlineImages, 1)
	img := rec.InlineImages[0]
	assert.True(t, img.External)
	assert.Equal(t, "AQID", img.Data)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, 1, client.calls)
}

func TestInlineImageFetchOversize(t *testing.T) {
	doc := parseDoc(t, bodyWithImages(
		`<img src="https://c.example.com/huge.png" width="300" height="200">`))
	client := &stubClient{payload: make([]byte, 32), contentType: "image/png"}
	e := New(Config{MaxImageFetchBytes: 16}, WithHTTPClient(client))
	rec := e.Record(context.Background(), doc)

	require.Len(t, rec.InlineImages, 1)
	img := rec.InlineImages[0]
	assert.Empty(t, img.Data, "oversize fetch must not attach data")
	assert.Equal(t, "https://c.example.com/huge.png", img.Src)
}

func TestInlineImageFetchErrorStatus(t *testing.T) {
	doc := parseDoc(t, bodyWithImages(
		`<img src="https://c.example.com/gone.png" width="300" height="200">`))
	client := &stubClient{payload: []byte("not found"), status: http.StatusNotFound}
	e := New(Config{}, WithHTTPClient(client))
	rec := e.Record(context.Background(), doc)

	require.Len(t, rec.InlineImages, 1)
	assert.Empty(t, rec.InlineImages[0].Data)
}

func TestInlineImageDefaultAlt(t *testing.T) {
	doc := parseDoc(t, bodyWithImages(
		`<img src="https://c.example.com/a.png" width="50" height="50">`+
			`<img src="https://c.example.com/b.png" width="50" height="50">`))
	e := New(Config{}, WithHTTPClient(&failingClient{}))
	rec := e.Record(context.Background(), doc)

	require.Len(t, rec.InlineImages, 2)
	assert.Equal(t, "image_1", rec.InlineImages[0].Alt)
	assert.Equal(t, "image_2", rec.InlineImages[1].Alt)
}
