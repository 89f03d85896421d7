package fetcher

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"

	"github.com/pagesentry/pagesentry/internal/config"
)

const (
	defaultTimeout      = 30 * time.Second
	maxRedirects        = 5
	maxIdleConns        = 50
	maxIdleConnsPerHost = 10
)

// newHTTPClient builds the shared HTTP client for page fetching: pooled
// connections, HTTP/2 where the server supports it, and a hard redirect cap.
func newHTTPClient(cfg *config.FetcherConfig, logger zerolog.Logger) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		logger.Warn().
			Int("configured_timeout", cfg.TimeoutSeconds).
			Dur("default_timeout", defaultTimeout).
			Msg("Invalid fetch timeout configured, using default")
		timeout = defaultTimeout
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}
