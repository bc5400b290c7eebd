package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mailclip/mailclip/pkg/config"
	"github.com/mailclip/mailclip/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendRequiresURL(t *testing.T) {
	_, err := NewBackend(config.Backend{})
	var confErr *ConfigError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, []string{"backend URL"}, confErr.Missing)
}

func TestBackendSaveMail(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody record.MailSubmission
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(record.SaveResult{
			PageID:          "page-7",
			URL:             "https://notion.example/page-7",
			AttachmentCount: 2,
			ImageCount:      1,
		})
	}))
	defer server.Close()

	b, err := NewBackend(config.Backend{URL: server.URL})
	require.NoError(t, err)

	sub := testMailSubmission()
	result, err := b.SaveMail(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "/api/save-mail", gotPath)
	assert.Equal(t, sub.Subject, gotBody.Subject, "submission forwarded intact")
	assert.Equal(t, "page-7", result.PageID)
	assert.Equal(t, 2, result.AttachmentCount)
	assert.Equal(t, 1, result.ImageCount)
}

func TestBackendSaveBill(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(record.SaveResult{PageID: "page-8"})
	}))
	defer server.Close()

	b, err := NewBackend(config.Backend{URL: server.URL})
	require.NoError(t, err)

	result, err := b.SaveBill(context.Background(), record.BillSubmission{EmailSubject: "帳單"})
	require.NoError(t, err)
	assert.Equal(t, "/api/save-bill", gotPath)
	assert.Equal(t, "page-8", result.PageID)
}

func TestBackendSaveSurfacesRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream rejected token"}`))
	}))
	defer server.Close()

	b, err := NewBackend(config.Backend{URL: server.URL})
	require.NoError(t, err)

	_, err = b.SaveMail(context.Background(), record.MailSubmission{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream rejected token")
}

func TestBackendOptions(t *testing.T) {
	// The vocabulary arrives wrapped in an options field.
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(
			`{"options":{"郵件分類":[{"id":"1","name":"帳務","color":"blue"}]}}`))
	}))
	defer server.Close()

	b, err := NewBackend(config.Backend{URL: server.URL})
	require.NoError(t, err)

	options := b.MailOptions(context.Background())
	assert.Equal(t, "/api/options", gotPath)
	require.Contains(t, options, "郵件分類")
	assert.Equal(t, "帳務", options["郵件分類"][0].Name)

	_ = b.BillOptions(context.Background())
	assert.Equal(t, "/api/bill-options", gotPath)
}

func TestBackendOptionsEmptyWrapper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"options":{}}`))
	}))
	defer server.Close()

	b, err := NewBackend(config.Backend{URL: server.URL})
	require.NoError(t, err)

	options := b.MailOptions(context.Background())
	assert.NotNil(t, options)
	assert.Empty(t, options)
}

func TestBackendOptionsDegradeOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	b, err := NewBackend(config.Backend{URL: server.URL})
	require.NoError(t, err)

	options := b.MailOptions(context.Background())
	assert.NotNil(t, options)
	assert.Empty(t, options)
}
