package config

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/pagesentry/pagesentry/internal/common"
	"github.com/pagesentry/pagesentry/internal/logger"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	ComparatorConfig      ComparatorConfig      `json:"comparator_config,omitempty" yaml:"comparator_config,omitempty"`
	FetcherConfig         FetcherConfig         `json:"fetcher_config,omitempty" yaml:"fetcher_config,omitempty"`
	LogConfig             logger.LogConfig      `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	Mode                  string                `json:"mode,omitempty" yaml:"mode,omitempty" validate:"required,mode"`
	MonitorConfig         MonitorConfig         `json:"monitor_config,omitempty" yaml:"monitor_config,omitempty"`
	NotificationConfig    NotificationConfig    `json:"notification_config,omitempty" yaml:"notification_config,omitempty"`
	ResourceLimiterConfig ResourceLimiterConfig `json:"resource_limiter_config,omitempty" yaml:"resource_limiter_config,omitempty"`
	StorageConfig         StorageConfig         `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		ComparatorConfig:      NewDefaultComparatorConfig(),
		FetcherConfig:         NewDefaultFetcherConfig(),
		LogConfig:             logger.NewDefaultLogConfig(),
		Mode:                  "onetime",
		MonitorConfig:         NewDefaultMonitorConfig(),
		NotificationConfig:    NewDefaultNotificationConfig(),
		ResourceLimiterConfig: NewDefaultResourceLimiterConfig(),
		StorageConfig:         NewDefaultStorageConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath, supports both JSON and YAML formats.
// YAML is preferred if the file extension is .yaml or .yml.
func LoadGlobalConfig(providedPath string, log zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		applyDerivedFields(cfg)
		return cfg, nil
	}

	fileManager := common.NewFileManager(log)
	if !fileManager.FileExists(filePath) {
		return nil, common.NewValidationError("config_file", filePath, "config file does not exist")
	}

	data, err := loadConfigFileContent(fileManager, filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	applyDerivedFields(cfg)
	return cfg, nil
}

// applyDerivedFields fills fields computed from their file-facing counterparts
func applyDerivedFields(cfg *GlobalConfig) {
	if cfg.MonitorConfig.CheckIntervalSeconds > 0 {
		cfg.MonitorConfig.CheckInterval = time.Duration(cfg.MonitorConfig.CheckIntervalSeconds) * time.Second
	}
}

// loadConfigFileContent reads the config file using FileManager
func loadConfigFileContent(fileManager *common.FileManager, filePath string) ([]byte, error) {
	opts := common.DefaultFileReadOptions()
	opts.MaxSize = 10 * 1024 * 1024 // 10MB max config file size

	return fileManager.ReadFile(filePath, opts)
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	ext := filepath.Ext(filePath)
	if isYAMLFile(ext) {
		return parseYAMLConfig(data, filePath, cfg)
	}
	return parseJSONConfig(data, filePath, cfg)
}

// isYAMLFile checks if the file extension indicates a YAML file
func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

// parseYAMLConfig parses YAML configuration
func parseYAMLConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
	}
	return nil
}

// parseJSONConfig parses JSON configuration
func parseJSONConfig(data []byte, filePath string, cfg *GlobalConfig) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}
