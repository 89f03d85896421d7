package models

// MonitorTarget is one URL under watch, with its alerting knobs.
type MonitorTarget struct {
	URL string `json:"url" yaml:"url"`

	// AlertThreshold is the change-score percentage a comparison must exceed
	// before an alert fires. Zero falls back to the global default.
	AlertThreshold float64 `json:"alert_threshold,omitempty" yaml:"alert_threshold,omitempty"`

	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Active defaults to true when omitted from the targets file.
	Active *bool `json:"active,omitempty" yaml:"active,omitempty"`
}

// IsActive reports whether the target should be checked.
func (t *MonitorTarget) IsActive() bool {
	return t.Active == nil || *t.Active
}

// EffectiveThreshold resolves the alert threshold against the global default.
func (t *MonitorTarget) EffectiveThreshold(defaultThreshold float64) float64 {
	if t.AlertThreshold > 0 {
		return t.AlertThreshold
	}
	return defaultThreshold
}
