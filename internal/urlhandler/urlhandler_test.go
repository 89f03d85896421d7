package urlhandler

import (
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		inputURL string
		expected string
		wantErr  bool
	}{
		{
			name:     "adds http scheme when missing",
			inputURL: "example.com/path",
			expected: "http://example.com/path",
		},
		{
			name:     "keeps https scheme",
			inputURL: "https://example.com",
			expected: "https://example.com",
		},
		{
			name:     "lowercases host but not path",
			inputURL: "https://Example.COM/Path",
			expected: "https://example.com/Path",
		},
		{
			name:     "strips fragment",
			inputURL: "https://example.com/page#section",
			expected: "https://example.com/page",
		},
		{
			name:     "keeps query parameters",
			inputURL: "https://example.com/page?a=1&b=2",
			expected: "https://example.com/page?a=1&b=2",
		},
		{
			name:     "trims surrounding whitespace",
			inputURL: "  https://example.com  ",
			expected: "https://example.com",
		},
		{
			name:     "scheme-relative URL defaults to http",
			inputURL: "//example.com/path",
			expected: "http://example.com/path",
		},
		{
			name:     "empty input",
			inputURL: "",
			wantErr:  true,
		},
		{
			name:     "whitespace only",
			inputURL: "   ",
			wantErr:  true,
		},
		{
			name:     "missing host",
			inputURL: "http://",
			wantErr:  true,
		},
		{
			name:     "unparseable URL",
			inputURL: "://invalid-url",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizeURL(tt.inputURL)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestValidateURLFormat(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		wantErr bool
	}{
		{
			name:   "absolute https URL",
			rawURL: "https://example.com/path",
		},
		{
			name:   "absolute http URL with port",
			rawURL: "http://example.com:8080",
		},
		{
			name:    "empty input",
			rawURL:  "",
			wantErr: true,
		},
		{
			name:    "bare hostname without scheme",
			rawURL:  "example.com",
			wantErr: true,
		},
		{
			name:    "rooted path without host",
			rawURL:  "/just/a/path",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURLFormat(tt.rawURL)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestSanitizeFilenameComponent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain hostname passes through",
			input:    "example.com",
			expected: "example.com",
		},
		{
			name:     "host with port",
			input:    "example.com:8080",
			expected: "example.com_8080",
		},
		{
			name:     "scheme is stripped",
			input:    "https://example.com/path",
			expected: "example.com_path",
		},
		{
			name:     "safe characters are kept",
			input:    "sub.Example-Site_1.com",
			expected: "sub.Example-Site_1.com",
		},
		{
			name:     "unsafe characters collapse to single underscore",
			input:    "a b&?c",
			expected: "a_b_c",
		},
		{
			name:     "empty input gets placeholder",
			input:    "",
			expected: "unknown_host",
		},
		{
			name:     "scheme-only input gets placeholder",
			input:    "http://",
			expected: "unknown_host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilenameComponent(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
