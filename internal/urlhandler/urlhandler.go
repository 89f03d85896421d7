package urlhandler

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Regexes for cleaning filename components derived from URLs
var (
	unsafeFilenameCharsRegex = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)
	multipleUnderscoresRegex = regexp.MustCompile(`_+`)
)

// NormalizeURL normalizes a URL string: ensures a scheme (http:// when
// missing), lowercases the host, and strips any fragment. Monitored URLs are
// keyed by their normalized form so equivalent spellings map to one target.
func NormalizeURL(rawURL string) (string, error) {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return "", errors.New("URL is empty or only whitespace")
	}

	// Add scheme if missing; scheme-relative URLs keep their host position.
	if !strings.Contains(trimmedURL, "://") && !strings.HasPrefix(trimmedURL, "//") {
		trimmedURL = "http://" + trimmedURL
	}

	parsedURL, err := url.Parse(trimmedURL)
	if err != nil {
		return "", fmt.Errorf("could not parse URL '%s': %w", trimmedURL, err)
	}

	if parsedURL.Host == "" {
		return "", errors.New("URL lacks a valid hostname")
	}

	if parsedURL.Scheme == "" {
		parsedURL.Scheme = "http"
	}
	parsedURL.Host = strings.ToLower(parsedURL.Host)
	parsedURL.Fragment = ""

	return parsedURL.String(), nil
}

// ValidateURLFormat validates URL format using net/url parsing (for config validation).
func ValidateURLFormat(rawURL string) error {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return fmt.Errorf("URL is empty")
	}

	parsedURL, err := url.ParseRequestURI(trimmedURL)
	if err != nil {
		return fmt.Errorf("invalid URL format '%s': %w", trimmedURL, err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("URL '%s' has no hostname component", trimmedURL)
	}

	return nil
}

// SanitizeFilenameComponent creates a safe path component from a URL host (or
// any input string). Colons from host:port inputs become underscores, every
// other unsafe character collapses to a single underscore.
func SanitizeFilenameComponent(input string) string {
	name := input
	if i := strings.Index(name, "://"); i != -1 {
		name = name[i+3:]
	}

	name = strings.ReplaceAll(name, ":", "_")
	name = unsafeFilenameCharsRegex.ReplaceAllString(name, "_")
	name = multipleUnderscoresRegex.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		return "unknown_host"
	}

	return name
}
