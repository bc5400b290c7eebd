// Package notion provides a client for the external document database API
// plus the encoding that maps submissions onto its pages and content blocks.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mailclip/mailclip/pkg/record"
	"github.com/rs/zerolog/log"
)

// Version is the API revision sent with every request.
const Version = "2022-06-28"

const defaultBaseURL = "https://api.notion.com/v1"

// httpClient allows http.Client to be mocked for tests.
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RemoteError is a non-success response from the remote API, carrying its
// message when one was provided.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("remote API request failed with status %v", e.StatusCode)
}

// Client issues requests against the document database API.  It is stateless;
// each method performs exactly one attempt per request with no retries.
type Client struct {
	client  httpClient
	baseURL *url.URL
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c httpClient) Option {
	return func(cl *Client) {
		cl.client = c
	}
}

// WithBaseURL points the client at a different API root, primarily for tests.
func WithBaseURL(base string) Option {
	return func(cl *Client) {
		if u, err := url.Parse(base); err == nil {
			cl.baseURL = u
		}
	}
}

// WithTimeout sets the per-request timeout.  It has no effect after
// WithHTTPClient has replaced the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d <= 0 {
			return
		}
		if hc, ok := cl.client.(*http.Client); ok {
			hc.Timeout = d
		}
	}
}

// NewClient creates a Client holding the given bearer credential.
func NewClient(token string, opts ...Option) *Client {
	base, _ := url.Parse(defaultBaseURL)
	c := &Client{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: base,
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one HTTP request, JSON-encoding body when present.
func (c *Client) do(ctx context.Context, method, uri string, body any) (*http.Response, error) {
	var r *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(encoded)
	} else {
		r = bytes.NewReader(nil)
	}

	u := c.baseURL.JoinPath(uri)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return nil, fmt.Errorf("%s for %q: %v", method, u, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", Version)
	req.Header.Set("Content-Type", "application/json")

	return c.client.Do(req)
}

// doJSON performs a request and decodes a 2xx response into v.  Non-success
// responses become a RemoteError with the remote message when decodable.
func (c *Client) doJSON(ctx context.Context, method, uri string, body, v any) error {
	resp, err := c.do(ctx, method, uri, body)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remoteErr := &RemoteError{StatusCode: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			remoteErr.Message = payload.Message
		}
		return remoteErr
	}

	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// Page identifies a created page.
type Page struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreatePage creates one page in the given database.
func (c *Client) CreatePage(ctx context.Context, databaseID string, icon *Icon, props Properties) (*Page, error) {
	body := struct {
		Parent     map[string]string `json:"parent"`
		Icon       *Icon             `json:"icon,omitempty"`
		Properties Properties        `json:"properties"`
	}{
		Parent:     map[string]string{"database_id": databaseID},
		Icon:       icon,
		Properties: props,
	}

	page := &Page{}
	if err := c.doJSON(ctx, "POST", "/pages", body, page); err != nil {
		return nil, err
	}
	return page, nil
}

// AppendBlocks appends one batch of blocks (at most MaxBlocksPerRequest) to a
// page.
func (c *Client) AppendBlocks(ctx context.Context, pageID string, blocks []Block) error {
	body := struct {
		Children []Block `json:"children"`
	}{Children: blocks}

	return c.doJSON(ctx, "PATCH", "/blocks/"+pageID+"/children", body, nil)
}

// AppendAll appends blocks in sequential batches.  A failed batch is logged
// and skipped; earlier batches are never rolled back.  Returns the number of
// failed batches so callers can report partial success.
func (c *Client) AppendAll(ctx context.Context, pageID string, blocks []Block) (failed int) {
	for i, batch := range BatchBlocks(blocks, MaxBlocksPerRequest) {
		if err := c.AppendBlocks(ctx, pageID, batch); err != nil {
			log.Error().Str("module", "notion").Str("pageId", pageID).Int("batch", i).
				Err(err).Msg("Failed to append content batch")
			failed++
		}
	}
	return failed
}

// databaseSchema is the subset of a database definition the client reads.
type databaseSchema struct {
	Properties map[string]struct {
		Type   string `json:"type"`
		Select *struct {
			Options []record.SelectOption `json:"options"`
		} `json:"select"`
		MultiSelect *struct {
			Options []record.SelectOption `json:"options"`
		} `json:"multi_select"`
	} `json:"properties"`
}

// SelectOptions fetches the option vocabulary of the database's select and
// multi-select properties.  Option lists are advisory, so every failure mode
// degrades to an empty map rather than surfacing an error.
func (c *Client) SelectOptions(ctx context.Context, databaseID string) record.OptionMap {
	schema := &databaseSchema{}
	if err := c.doJSON(ctx, "GET", "/databases/"+databaseID, nil, schema); err != nil {
		log.Warn().Str("module", "notion").Str("databaseId", databaseID).Err(err).
			Msg("Failed to fetch select options")
		return record.OptionMap{}
	}

	options := record.OptionMap{}
	for name, prop := range schema.Properties {
		switch prop.Type {
		case "select":
			if prop.Select != nil {
				options[name] = prop.Select.Options
			}
		case "multi_select":
			if prop.MultiSelect != nil {
				options[name] = prop.MultiSelect.Options
			}
		}
	}
	return options
}
