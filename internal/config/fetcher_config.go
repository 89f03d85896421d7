package config

// FetcherConfig defines configuration for HTTP page fetching
type FetcherConfig struct {
	// BypassCache skips conditional request headers so every check fetches
	// fresh content.
	BypassCache        bool   `json:"bypass_cache" yaml:"bypass_cache"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	MaxContentSize     int    `json:"max_content_size,omitempty" yaml:"max_content_size,omitempty" validate:"omitempty,min=1"` // Max content size in bytes
	TimeoutSeconds     int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" validate:"omitempty,min=1"`
	UserAgent          string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
}

// NewDefaultFetcherConfig creates default fetcher configuration
func NewDefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		BypassCache:        false,
		InsecureSkipVerify: false,
		MaxContentSize:     DefaultFetcherMaxContentSize,
		TimeoutSeconds:     DefaultFetcherTimeoutSecs,
		UserAgent:          DefaultFetcherUserAgent,
	}
}
