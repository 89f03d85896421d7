package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pagesentry/pagesentry/internal/common"
	"github.com/pagesentry/pagesentry/internal/config"
)

// ErrNotModified is returned when the server reports the content unchanged (HTTP 304).
var ErrNotModified = errors.New("content not modified")

// ErrContentTooLarge is returned when a response body exceeds the configured size limit.
var ErrContentTooLarge = errors.New("content too large")

// PageFetcher retrieves page content over HTTP with support for conditional
// requests, so unchanged pages cost a 304 instead of a full download.
type PageFetcher struct {
	httpClient *http.Client
	cfg        *config.FetcherConfig
	logger     zerolog.Logger
}

// NewPageFetcher creates a PageFetcher with its own pooled HTTP client.
func NewPageFetcher(cfg *config.FetcherConfig, logger zerolog.Logger) *PageFetcher {
	componentLogger := logger.With().Str("component", "PageFetcher").Logger()
	return &PageFetcher{
		httpClient: newHTTPClient(cfg, componentLogger),
		cfg:        cfg,
		logger:     componentLogger,
	}
}

// FetchInput holds parameters for Fetch.
type FetchInput struct {
	URL                  string
	PreviousETag         string
	PreviousLastModified string
}

// FetchResult holds the outcome of a page fetch.
type FetchResult struct {
	Content      []byte
	ContentType  string
	ETag         string
	LastModified string
	StatusCode   int
	FetchedAt    time.Time
}

// Fetch retrieves the content at input.URL. When previous cache validators are
// supplied (and BypassCache is off) the request is conditional; a 304 answer
// returns ErrNotModified alongside the validator-bearing result. Non-2xx
// statuses are reported as HTTP errors carrying up to 1KB of the body.
func (pf *PageFetcher) Fetch(ctx context.Context, input FetchInput) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, input.URL, nil)
	if err != nil {
		pf.logger.Error().Err(err).Str("url", input.URL).Msg("Failed to create HTTP request")
		return nil, common.WrapError(err, "creating request for "+input.URL)
	}

	if pf.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", pf.cfg.UserAgent)
	}
	if !pf.cfg.BypassCache {
		if input.PreviousETag != "" {
			req.Header.Set("If-None-Match", input.PreviousETag)
		}
		if input.PreviousLastModified != "" {
			req.Header.Set("If-Modified-Since", input.PreviousLastModified)
		}
	}

	resp, err := pf.httpClient.Do(req)
	if err != nil {
		pf.logger.Error().Err(err).Str("url", input.URL).Msg("Failed to execute HTTP request")
		return nil, common.NewNetworkError(input.URL, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	result := &FetchResult{
		ContentType:  resp.Header.Get("Content-Type"),
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
		StatusCode:   resp.StatusCode,
		FetchedAt:    time.Now(),
	}

	if resp.StatusCode == http.StatusNotModified {
		pf.logger.Debug().Str("url", input.URL).Msg("Content not modified (304)")
		return result, ErrNotModified
	}

	if resp.StatusCode != http.StatusOK {
		pf.logger.Warn().Str("url", input.URL).Int("status_code", resp.StatusCode).Msg("Received non-OK HTTP status")
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		result.Content = bodyBytes
		return result, common.NewHTTPErrorWithURL(resp.StatusCode, string(bodyBytes), input.URL)
	}

	maxSize := int64(pf.cfg.MaxContentSize)
	if maxSize > 0 && resp.ContentLength > maxSize {
		return nil, common.WrapErrorf(ErrContentTooLarge, "%s advertises %d bytes (max %d)", input.URL, resp.ContentLength, maxSize)
	}

	var body io.Reader = resp.Body
	if maxSize > 0 {
		// Read one byte past the limit so truncation is detectable.
		body = io.LimitReader(resp.Body, maxSize+1)
	}
	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		pf.logger.Error().Err(err).Str("url", input.URL).Msg("Failed to read response body")
		return nil, common.WrapError(err, "reading response body from "+input.URL)
	}
	if maxSize > 0 && int64(len(bodyBytes)) > maxSize {
		return nil, common.WrapErrorf(ErrContentTooLarge, "%s returned more than %d bytes", input.URL, maxSize)
	}

	result.Content = bodyBytes

	pf.logger.Debug().
		Str("url", input.URL).
		Str("content_type", result.ContentType).
		Int("size", len(result.Content)).
		Msg("Page content fetched")
	return result, nil
}
