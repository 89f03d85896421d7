package config

import (
	"time"
)

// MonitorConfig defines configuration for the monitoring service
type MonitorConfig struct {
	CheckIntervalSeconds int           `json:"check_interval_seconds,omitempty" yaml:"check_interval_seconds,omitempty" validate:"omitempty,min=1"`
	CheckInterval        time.Duration `json:"-" yaml:"-"`

	// DefaultAlertThreshold is the change-score percentage a comparison must
	// exceed before a notification fires, for targets without their own
	// threshold. Zero alerts on any detected change.
	DefaultAlertThreshold float64 `json:"default_alert_threshold,omitempty" yaml:"default_alert_threshold,omitempty" validate:"omitempty,min=0,max=100"`

	Enabled             bool     `json:"enabled" yaml:"enabled"`
	InitialMonitorURLs  []string `json:"initial_monitor_urls,omitempty" yaml:"initial_monitor_urls,omitempty" validate:"omitempty,urls"`
	MaxConcurrentChecks int      `json:"max_concurrent_checks,omitempty" yaml:"max_concurrent_checks,omitempty" validate:"omitempty,min=1"`
	MaxCycles           int      `json:"max_cycles,omitempty" yaml:"max_cycles,omitempty"` // 0 means run indefinitely
	TargetsFile         string   `json:"targets_file,omitempty" yaml:"targets_file,omitempty"`
}

// NewDefaultMonitorConfig creates default monitor configuration
func NewDefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		CheckIntervalSeconds:  DefaultMonitorCheckIntervalSeconds,
		CheckInterval:         time.Hour,
		DefaultAlertThreshold: 0,
		Enabled:               true,
		InitialMonitorURLs:    []string{},
		MaxConcurrentChecks:   DefaultMonitorMaxConcurrentChecks,
		MaxCycles:             0,
		TargetsFile:           DefaultMonitorTargetsFile,
	}
}
