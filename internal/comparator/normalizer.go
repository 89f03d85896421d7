package comparator

import "strings"

// DocumentNormalizer splits raw text into comparable lines.
type DocumentNormalizer struct {
	caseSensitive bool
}

// NewDocumentNormalizer creates a normalizer honoring the given case policy
func NewDocumentNormalizer(caseSensitive bool) *DocumentNormalizer {
	return &DocumentNormalizer{caseSensitive: caseSensitive}
}

// Normalize splits text into lines, collapses runs of whitespace inside each
// line to single spaces, trims the ends and drops lines that end up empty.
// When case-insensitive, lines are lowercased first. Line order is preserved.
func (dn *DocumentNormalizer) Normalize(text string) []string {
	if text == "" {
		return nil
	}

	if !dn.caseSensitive {
		text = strings.ToLower(text)
	}

	rawLines := strings.Split(text, "\n")
	normalized := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		normalized = append(normalized, strings.Join(fields, " "))
	}

	return normalized
}
