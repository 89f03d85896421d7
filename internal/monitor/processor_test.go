package monitor

import (
	"testing"

	"github.com/pagesentry/pagesentry/internal/fetcher"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor() *ContentProcessor {
	return NewContentProcessor(fetcher.NewTextExtractor(zerolog.Nop()), zerolog.Nop())
}

func TestContentProcessor_ProcessContent(t *testing.T) {
	cp := newTestProcessor()

	html := []byte("<html><body><h1>Title</h1><p>Some text</p></body></html>")
	processed, err := cp.ProcessContent("http://example.com", html, "text/html")
	require.NoError(t, err)

	assert.Equal(t, "http://example.com", processed.URL)
	assert.Equal(t, "text/html", processed.ContentType)
	assert.Contains(t, processed.ExtractedText, "Title")
	assert.Contains(t, processed.ExtractedText, "Some text")
	assert.Len(t, processed.ContentHash, 64)
	assert.False(t, processed.ProcessedAt.IsZero())
}

func TestContentProcessor_HashIgnoresMarkupShuffling(t *testing.T) {
	cp := newTestProcessor()

	first, err := cp.ProcessContent("http://example.com",
		[]byte("<html><body><p>stable text</p></body></html>"), "text/html")
	require.NoError(t, err)

	// Same visible text, but new inline markup and a fresh script block.
	second, err := cp.ProcessContent("http://example.com",
		[]byte(`<html><head><script>var t=12345;</script></head><body><p class="v2">stable <b>text</b></p></body></html>`), "text/html")
	require.NoError(t, err)

	assert.Equal(t, first.ContentHash, second.ContentHash,
		"markup-only differences must not change the content hash")
}

func TestContentProcessor_HashChangesWithText(t *testing.T) {
	cp := newTestProcessor()

	first, err := cp.ProcessContent("http://example.com", []byte("<p>version one</p>"), "text/html")
	require.NoError(t, err)
	second, err := cp.ProcessContent("http://example.com", []byte("<p>version two</p>"), "text/html")
	require.NoError(t, err)

	assert.NotEqual(t, first.ContentHash, second.ContentHash)
}

func TestContentProcessor_NonHTMLContent(t *testing.T) {
	cp := newTestProcessor()

	body := []byte(`{"status":"ok"}`)
	processed, err := cp.ProcessContent("http://example.com/api", body, "application/json")
	require.NoError(t, err)

	assert.Equal(t, string(body), processed.ExtractedText)
}
