package comparator

import (
	"regexp"

	"github.com/pagesentry/pagesentry/internal/common"
)

// VolatilityFilter drops lines matching known-noisy patterns so that
// timestamps, counters and session tokens never count as changes.
type VolatilityFilter struct {
	patterns []*regexp.Regexp
}

// NewVolatilityFilter compiles the given patterns, prepending the built-in
// set unless disabled. Patterns match unanchored and case-insensitively.
func NewVolatilityFilter(extraPatterns []string, disableDefaults bool) (*VolatilityFilter, error) {
	var raw []string
	if !disableDefaults {
		raw = append(raw, DefaultVolatilityPatterns()...)
	}
	raw = append(raw, extraPatterns...)

	compiled := make([]*regexp.Regexp, 0, len(raw))
	for _, pattern := range raw {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, common.NewConfigurationError("comparator", "volatility_patterns", "invalid pattern "+pattern+": "+err.Error())
		}
		compiled = append(compiled, re)
	}

	return &VolatilityFilter{patterns: compiled}, nil
}

// Filter returns the lines that match no volatility pattern, preserving order.
func (vf *VolatilityFilter) Filter(lines []string) []string {
	if len(vf.patterns) == 0 {
		return lines
	}

	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if !vf.IsVolatile(line) {
			kept = append(kept, line)
		}
	}
	return kept
}

// IsVolatile reports whether the line matches any volatility pattern.
func (vf *VolatilityFilter) IsVolatile(line string) bool {
	for _, re := range vf.patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
