package comparator

// Default tuning values for content comparison.
const (
	DefaultSimilarityThreshold = 0.7
	DefaultModerateThreshold   = 5.0
	DefaultImportantThreshold  = 15.0
	DefaultCriticalThreshold   = 30.0
	DefaultMaxSummaryLines     = 10
	DefaultMaxDocumentLines    = 50000
	DefaultMaxSummaryLineWidth = 100
	DefaultMaxPairSideWidth    = 80
)

// Config holds the tuning knobs for a ContentComparator.
type Config struct {
	// CaseSensitive controls whether letter case differences count as changes.
	CaseSensitive bool

	// VolatilityPatterns are additional regular expressions (matched
	// case-insensitively, unanchored) marking lines to ignore.
	VolatilityPatterns []string

	// DisableDefaultPatterns drops the built-in volatility pattern set so
	// only VolatilityPatterns apply.
	DisableDefaultPatterns bool

	// SimilarityThreshold is the minimum line similarity for an
	// added/removed pair to collapse into a single modification.
	SimilarityThreshold float64

	// ModerateThreshold, ImportantThreshold and CriticalThreshold are the
	// change-score percentages (strictly ascending) at which severity
	// escalates. Scores below ModerateThreshold classify as normal.
	ModerateThreshold  float64
	ImportantThreshold float64
	CriticalThreshold  float64

	// MaxSummaryLines caps the number of change entries rendered into the
	// diff summary.
	MaxSummaryLines int

	// MaxDocumentLines rejects documents whose normalized line count
	// exceeds it. Zero disables the guard.
	MaxDocumentLines int
}

// DefaultConfig returns the comparison configuration used when no overrides
// are supplied.
func DefaultConfig() Config {
	return Config{
		CaseSensitive:       true,
		SimilarityThreshold: DefaultSimilarityThreshold,
		ModerateThreshold:   DefaultModerateThreshold,
		ImportantThreshold:  DefaultImportantThreshold,
		CriticalThreshold:   DefaultCriticalThreshold,
		MaxSummaryLines:     DefaultMaxSummaryLines,
		MaxDocumentLines:    DefaultMaxDocumentLines,
	}
}

// DefaultVolatilityPatterns returns the built-in patterns for content that
// changes on every page load without carrying meaning: timestamps, session
// identifiers, visitor counters and similar boilerplate.
func DefaultVolatilityPatterns() []string {
	return []string{
		// Dates and clock times in common formats.
		`\d{4}-\d{2}-\d{2}`,
		`\d{2}/\d{2}/\d{4}`,
		`\b\d{1,2}:\d{2}(:\d{2})?\b`,
		// Freshness banners and render stamps.
		`updated\s*:`,
		`last[ -]?modified\s*:`,
		`generated (on|at|in)`,
		// Session state leaked into markup.
		`session[ -]?id\s*[:=]`,
		`cookie\s*:`,
		`csrf[ -]?token`,
		// Counters and footer boilerplate.
		`\d+\s+visitors?\s+online`,
		`copyright\s+(©|\(c\))?\s*\d{4}`,
	}
}
