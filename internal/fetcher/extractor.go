package fetcher

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/pagesentry/pagesentry/internal/common"
)

// blockLevelTags are elements whose boundaries become line breaks in the
// extracted text, so the comparison sees one logical line per block.
var blockLevelTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "td": true, "th": true, "tr": true,
	"ul": true,
}

// TextExtractor reduces fetched page content to comparable text. HTML is
// stripped of markup and non-content elements; everything else passes
// through unchanged.
type TextExtractor struct {
	logger zerolog.Logger
}

// NewTextExtractor creates a new TextExtractor
func NewTextExtractor(logger zerolog.Logger) *TextExtractor {
	return &TextExtractor{
		logger: logger.With().Str("component", "TextExtractor").Logger(),
	}
}

// ExtractText returns the comparable text for the given content. HTML content
// types are parsed and reduced to their visible text with block boundaries as
// line breaks; other content types pass through as-is.
func (te *TextExtractor) ExtractText(content []byte, contentType string) (string, error) {
	if !IsHTMLContentType(contentType) {
		return string(content), nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", common.WrapError(err, "failed to parse HTML content")
	}

	doc.Find("script, style, noscript, template, iframe").Remove()

	var sb strings.Builder
	for _, node := range doc.Selection.Nodes {
		writeNodeText(node, &sb)
	}

	text := sb.String()
	te.logger.Debug().
		Int("html_size", len(content)).
		Int("text_size", len(text)).
		Msg("Extracted text from HTML")
	return text, nil
}

// writeNodeText walks the parsed tree appending text nodes, with a line break
// on each side of every block-level element.
func writeNodeText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	if n.Type == html.CommentNode {
		return
	}

	isBlock := n.Type == html.ElementNode && blockLevelTags[n.Data]
	if isBlock {
		sb.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(c, sb)
	}
	if isBlock {
		sb.WriteString("\n")
	}
}

// IsHTMLContentType reports whether a Content-Type header denotes HTML.
func IsHTMLContentType(contentType string) bool {
	normalized := strings.ToLower(contentType)
	return strings.Contains(normalized, "text/html") || strings.Contains(normalized, "application/xhtml")
}
