package comparator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "plain lines pass through",
			text:     "alpha\nbeta\ngamma",
			expected: []string{"alpha", "beta", "gamma"},
		},
		{
			name:     "internal whitespace collapses",
			text:     "hello\t\t world   again",
			expected: []string{"hello world again"},
		},
		{
			name:     "surrounding whitespace is trimmed",
			text:     "  padded line  ",
			expected: []string{"padded line"},
		},
		{
			name:     "blank lines are dropped",
			text:     "first\n\n   \nsecond",
			expected: []string{"first", "second"},
		},
		{
			name:     "carriage returns are stripped",
			text:     "first\r\nsecond\r\n",
			expected: []string{"first", "second"},
		},
		{
			name:     "empty document",
			text:     "",
			expected: nil,
		},
		{
			name:     "whitespace-only document",
			text:     "   \n\t\n  ",
			expected: []string{},
		},
	}

	normalizer := NewDocumentNormalizer(true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizer.Normalize(tt.text))
		})
	}
}

func TestDocumentNormalizer_CaseInsensitive(t *testing.T) {
	normalizer := NewDocumentNormalizer(false)

	lines := normalizer.Normalize("Hello World\nSECOND Line")
	assert.Equal(t, []string{"hello world", "second line"}, lines)
}

func TestDocumentNormalizer_CaseSensitiveKeepsCase(t *testing.T) {
	normalizer := NewDocumentNormalizer(true)

	lines := normalizer.Normalize("Hello World")
	assert.Equal(t, []string{"Hello World"}, lines)
}
