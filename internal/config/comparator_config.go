package config

// SeverityThresholdsConfig defines the change-score percentages at which
// severity escalates. Values must be strictly ascending.
type SeverityThresholdsConfig struct {
	Moderate  float64 `json:"moderate,omitempty" yaml:"moderate,omitempty" validate:"omitempty,gt=0,lte=100"`
	Important float64 `json:"important,omitempty" yaml:"important,omitempty" validate:"omitempty,gt=0,lte=100"`
	Critical  float64 `json:"critical,omitempty" yaml:"critical,omitempty" validate:"omitempty,gt=0,lte=100"`
}

// ComparatorConfig defines configuration for content comparison
type ComparatorConfig struct {
	CaseSensitive          bool                     `json:"case_sensitive" yaml:"case_sensitive"`
	DisableDefaultPatterns bool                     `json:"disable_default_patterns" yaml:"disable_default_patterns"`
	MaxDocumentLines       int                      `json:"max_document_lines,omitempty" yaml:"max_document_lines,omitempty" validate:"omitempty,min=0"`
	MaxSummaryLines        int                      `json:"max_summary_lines,omitempty" yaml:"max_summary_lines,omitempty" validate:"omitempty,min=1"`
	SeverityThresholds     SeverityThresholdsConfig `json:"severity_thresholds,omitempty" yaml:"severity_thresholds,omitempty"`
	SimilarityThreshold    float64                  `json:"similarity_threshold,omitempty" yaml:"similarity_threshold,omitempty" validate:"omitempty,min=0,max=1"`
	VolatilityPatterns     []string                 `json:"volatility_patterns,omitempty" yaml:"volatility_patterns,omitempty" validate:"omitempty,dive,volatileregex"`
}

// NewDefaultComparatorConfig creates default comparator configuration
func NewDefaultComparatorConfig() ComparatorConfig {
	return ComparatorConfig{
		CaseSensitive:          true,
		DisableDefaultPatterns: false,
		MaxDocumentLines:       50000,
		MaxSummaryLines:        10,
		SeverityThresholds: SeverityThresholdsConfig{
			Moderate:  5.0,
			Important: 15.0,
			Critical:  30.0,
		},
		SimilarityThreshold: 0.7,
		VolatilityPatterns:  []string{},
	}
}
