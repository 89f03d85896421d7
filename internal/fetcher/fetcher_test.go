package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagesentry/pagesentry/internal/common"
	"github.com/pagesentry/pagesentry/internal/config"
)

func newTestFetcher(cfg config.FetcherConfig) *PageFetcher {
	return NewPageFetcher(&cfg, zerolog.Nop())
}

func TestPageFetcher_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer server.Close()

	pf := newTestFetcher(config.NewDefaultFetcherConfig())
	result, err := pf.Fetch(context.Background(), FetchInput{URL: server.URL})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "<html><body>hello</body></html>", string(result.Content))
	assert.Equal(t, "text/html; charset=utf-8", result.ContentType)
	assert.Equal(t, `"v1"`, result.ETag)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 GMT", result.LastModified)
	assert.False(t, result.FetchedAt.IsZero())
}

func TestPageFetcher_Fetch_SendsConditionalHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `"v1"`, r.Header.Get("If-None-Match"))
		assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 GMT", r.Header.Get("If-Modified-Since"))
		w.Header().Set("ETag", `"v1"`)
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	pf := newTestFetcher(config.NewDefaultFetcherConfig())
	result, err := pf.Fetch(context.Background(), FetchInput{
		URL:                  server.URL,
		PreviousETag:         `"v1"`,
		PreviousLastModified: "Mon, 02 Jan 2006 15:04:05 GMT",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotModified))
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotModified, result.StatusCode)
	assert.Equal(t, `"v1"`, result.ETag)
	assert.Empty(t, result.Content)
}

func TestPageFetcher_Fetch_BypassCacheSkipsConditionalHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("If-None-Match"))
		assert.Empty(t, r.Header.Get("If-Modified-Since"))
		_, _ = w.Write([]byte("fresh"))
	}))
	defer server.Close()

	cfg := config.NewDefaultFetcherConfig()
	cfg.BypassCache = true

	pf := newTestFetcher(cfg)
	result, err := pf.Fetch(context.Background(), FetchInput{
		URL:          server.URL,
		PreviousETag: `"v1"`,
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(result.Content))
}

func TestPageFetcher_Fetch_SetsUserAgent(t *testing.T) {
	var seenUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	cfg := config.NewDefaultFetcherConfig()
	pf := newTestFetcher(cfg)
	_, err := pf.Fetch(context.Background(), FetchInput{URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, cfg.UserAgent, seenUserAgent)
}

func TestPageFetcher_Fetch_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "page gone", http.StatusNotFound)
	}))
	defer server.Close()

	pf := newTestFetcher(config.NewDefaultFetcherConfig())
	result, err := pf.Fetch(context.Background(), FetchInput{URL: server.URL})

	require.Error(t, err)
	var httpErr *common.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)

	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Contains(t, string(result.Content), "page gone")
}

func TestPageFetcher_Fetch_ContentTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer server.Close()

	cfg := config.NewDefaultFetcherConfig()
	cfg.MaxContentSize = 10

	pf := newTestFetcher(cfg)
	result, err := pf.Fetch(context.Background(), FetchInput{URL: server.URL})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrContentTooLarge))
}

func TestPageFetcher_Fetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	pf := newTestFetcher(config.NewDefaultFetcherConfig())
	_, err := pf.Fetch(context.Background(), FetchInput{URL: serverURL})

	require.Error(t, err)
	var netErr *common.NetworkError
	assert.True(t, errors.As(err, &netErr))
}
