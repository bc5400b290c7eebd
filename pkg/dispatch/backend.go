package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mailclip/mailclip/pkg/config"
	"github.com/mailclip/mailclip/pkg/record"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// httpClient allows http.Client to be mocked for tests.
type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Backend saves pages by proxying submissions through a trusted backend
// service, which holds the API credential instead of this process.
type Backend struct {
	client  httpClient
	baseURL *url.URL
	logger  zerolog.Logger
}

var _ Dispatcher = &Backend{}

// BackendOption configures a Backend dispatcher.
type BackendOption func(*Backend)

// WithBackendHTTPClient replaces the underlying HTTP client.
func WithBackendHTTPClient(c httpClient) BackendOption {
	return func(b *Backend) {
		b.client = c
	}
}

// NewBackend constructs a Backend dispatcher from the given settings.
func NewBackend(conf config.Backend, opts ...BackendOption) (*Backend, error) {
	if conf.URL == "" {
		return nil, &ConfigError{Missing: []string{"backend URL"}}
	}
	base, err := url.Parse(conf.URL)
	if err != nil {
		return nil, fmt.Errorf("backend URL: %v", err)
	}

	timeout := conf.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	b := &Backend{
		client:  &http.Client{Timeout: timeout},
		baseURL: base,
		logger:  log.With().Str("module", "dispatch").Str("mode", "backend").Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// SaveMail submits a mail save through the backend.
func (b *Backend) SaveMail(ctx context.Context, sub record.MailSubmission) (*record.SaveResult, error) {
	return b.postSave(ctx, "/api/save-mail", sub)
}

// SaveBill submits a bill save through the backend.
func (b *Backend) SaveBill(ctx context.Context, sub record.BillSubmission) (*record.SaveResult, error) {
	return b.postSave(ctx, "/api/save-bill", sub)
}

// MailOptions fetches the mail vocabulary via the backend.
func (b *Backend) MailOptions(ctx context.Context) record.OptionMap {
	return b.getOptions(ctx, "/api/options")
}

// BillOptions fetches the bill vocabulary via the backend.
func (b *Backend) BillOptions(ctx context.Context) record.OptionMap {
	return b.getOptions(ctx, "/api/bill-options")
}

func (b *Backend) postSave(ctx context.Context, path string, sub any) (*record.SaveResult, error) {
	result := &record.SaveResult{}
	if err := b.doJSON(ctx, "POST", path, sub, result); err != nil {
		b.logger.Error().Str("path", path).Err(err).Msg("Backend save failed")
		return nil, err
	}
	return result, nil
}

func (b *Backend) getOptions(ctx context.Context, path string) record.OptionMap {
	// The backend wraps the vocabulary in an options field.
	var payload struct {
		Options record.OptionMap `json:"options"`
	}
	if err := b.doJSON(ctx, "GET", path, nil, &payload); err != nil {
		b.logger.Warn().Str("path", path).Err(err).Msg("Failed to fetch options from backend")
		return record.OptionMap{}
	}
	if payload.Options == nil {
		return record.OptionMap{}
	}
	return payload.Options
}

// doJSON performs one backend request.  Non-success responses surface the
// backend's error field when present.
func (b *Backend) doJSON(ctx context.Context, method, path string, body, v any) error {
	var r *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(encoded)
	} else {
		r = bytes.NewReader(nil)
	}

	u := b.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return fmt.Errorf("%s for %q: %v", method, u, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			return fmt.Errorf("backend: %v", payload.Error)
		}
		return fmt.Errorf("backend request failed with status %v", resp.StatusCode)
	}

	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
