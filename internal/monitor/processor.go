package monitor

import (
	"time"

	"github.com/pagesentry/pagesentry/internal/common"
	"github.com/pagesentry/pagesentry/internal/comparator"
	"github.com/pagesentry/pagesentry/internal/fetcher"

	"github.com/rs/zerolog"
)

// ProcessedContent is the comparison-ready form of one fetched page.
type ProcessedContent struct {
	URL           string
	ContentType   string
	ExtractedText string
	ContentHash   string
	ProcessedAt   time.Time
}

// ContentProcessor turns raw fetched bytes into the text the comparator
// works on. The content hash is computed over the extracted text, so markup
// shuffling that leaves the visible text intact does not register as change.
type ContentProcessor struct {
	extractor *fetcher.TextExtractor
	logger    zerolog.Logger
}

// NewContentProcessor creates a new ContentProcessor.
func NewContentProcessor(extractor *fetcher.TextExtractor, logger zerolog.Logger) *ContentProcessor {
	return &ContentProcessor{
		extractor: extractor,
		logger:    logger.With().Str("component", "ContentProcessor").Logger(),
	}
}

// ProcessContent extracts the comparable text from raw content and hashes it.
func (cp *ContentProcessor) ProcessContent(url string, content []byte, contentType string) (*ProcessedContent, error) {
	extractedText, err := cp.extractor.ExtractText(content, contentType)
	if err != nil {
		return nil, common.WrapError(err, "failed to extract text content")
	}

	processed := &ProcessedContent{
		URL:           url,
		ContentType:   contentType,
		ExtractedText: extractedText,
		ContentHash:   comparator.HashContent([]byte(extractedText)),
		ProcessedAt:   time.Now(),
	}

	cp.logger.Debug().
		Str("url", url).
		Str("content_type", contentType).
		Int("raw_size", len(content)).
		Int("text_size", len(extractedText)).
		Str("content_hash", processed.ContentHash).
		Msg("Content processed")

	return processed, nil
}
