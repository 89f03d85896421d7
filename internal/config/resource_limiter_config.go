package config

// ResourceLimiterConfig holds configuration for resource monitoring
type ResourceLimiterConfig struct {
	MaxMemoryMB        int64   `json:"max_memory_mb,omitempty" yaml:"max_memory_mb,omitempty" validate:"omitempty,min=100"`
	MaxGoroutines      int     `json:"max_goroutines,omitempty" yaml:"max_goroutines,omitempty" validate:"omitempty,min=100"`
	CheckIntervalSecs  int     `json:"check_interval_secs,omitempty" yaml:"check_interval_secs,omitempty" validate:"omitempty,min=1"`
	MemoryThreshold    float64 `json:"memory_threshold,omitempty" yaml:"memory_threshold,omitempty" validate:"omitempty,min=0.1,max=1.0"`
	GoroutineWarning   float64 `json:"goroutine_warning,omitempty" yaml:"goroutine_warning,omitempty" validate:"omitempty,min=0.1,max=1.0"`
	SystemMemThreshold float64 `json:"system_mem_threshold,omitempty" yaml:"system_mem_threshold,omitempty" validate:"omitempty,min=0.1,max=1.0"`
	CPUThreshold       float64 `json:"cpu_threshold,omitempty" yaml:"cpu_threshold,omitempty" validate:"omitempty,min=0.1,max=1.0"`
	EnableAutoShutdown bool    `json:"enable_auto_shutdown" yaml:"enable_auto_shutdown"`
}

// NewDefaultResourceLimiterConfig creates default resource limiter configuration
func NewDefaultResourceLimiterConfig() ResourceLimiterConfig {
	return ResourceLimiterConfig{
		MaxMemoryMB:        512,
		MaxGoroutines:      5000,
		CheckIntervalSecs:  15,
		MemoryThreshold:    0.7,
		GoroutineWarning:   0.6,
		SystemMemThreshold: 0.4,
		CPUThreshold:       0.4,
		EnableAutoShutdown: true,
	}
}
