package comparator

import (
	"errors"
	"fmt"
)

// ErrDocumentTooLarge indicates a document exceeded the configured line limit.
var ErrDocumentTooLarge = errors.New("document too large")

// DocumentTooLargeError reports which document blew the line budget and by
// how much.
type DocumentTooLargeError struct {
	Document string
	Lines    int
	MaxLines int
}

// Error implements the error interface
func (e *DocumentTooLargeError) Error() string {
	return fmt.Sprintf("%s document has %d lines, exceeding the limit of %d", e.Document, e.Lines, e.MaxLines)
}

// Unwrap allows errors.Is checks against ErrDocumentTooLarge
func (e *DocumentTooLargeError) Unwrap() error {
	return ErrDocumentTooLarge
}

// NewDocumentTooLargeError creates a DocumentTooLargeError for the named document
func NewDocumentTooLargeError(document string, lines, maxLines int) *DocumentTooLargeError {
	return &DocumentTooLargeError{
		Document: document,
		Lines:    lines,
		MaxLines: maxLines,
	}
}
