package urlhandler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pagesentry/pagesentry/internal/common"
	"github.com/pagesentry/pagesentry/internal/models"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// TargetManager handles loading monitor targets from various sources
type TargetManager struct {
	logger zerolog.Logger
}

// NewTargetManager creates a new TargetManager instance
func NewTargetManager(logger zerolog.Logger) *TargetManager {
	return &TargetManager{
		logger: logger.With().Str("component", "TargetManager").Logger(),
	}
}

// targetsDocument mirrors the on-disk layout of a structured target file.
type targetsDocument struct {
	Targets []models.MonitorTarget `json:"targets" yaml:"targets"`
}

// LoadTargets resolves monitor targets from the given file, falling back to
// the provided URL list when no file is given. Structured files (.yaml, .yml,
// .json) may attach per-target alert thresholds and tags; any other extension
// is treated as a plain URL-per-line list. The returned string describes the
// source the targets came from.
func (tm *TargetManager) LoadTargets(targetsFile string, fallbackURLs []string) ([]models.MonitorTarget, string, error) {
	if targetsFile != "" {
		targets, err := tm.loadTargetsFromFile(targetsFile)
		if err != nil {
			return nil, targetsFile, err
		}
		tm.logger.Info().Int("count", len(targets)).Str("source", targetsFile).Msg("Loaded targets from file")
		return targets, targetsFile, nil
	}

	if len(fallbackURLs) > 0 {
		targets := tm.ConvertURLsToTargets(fallbackURLs)
		if len(targets) == 0 {
			return nil, "config", common.NewError("no valid URLs in configured monitor list")
		}
		tm.logger.Info().Int("count", len(targets)).Msg("Loaded targets from configuration")
		return targets, "config", nil
	}

	tm.logger.Warn().Msg("No input source configured for targets")
	return nil, "no_input", common.NewError("no target source configured")
}

func (tm *TargetManager) loadTargetsFromFile(path string) ([]models.MonitorTarget, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return tm.loadStructuredTargets(path)
	default:
		urls, err := ReadURLsFromFile(path, tm.logger)
		if err != nil {
			return nil, common.WrapError(err, "failed to load URLs from file '"+path+"'")
		}
		return tm.ConvertURLsToTargets(urls), nil
	}
}

func (tm *TargetManager) loadStructuredTargets(path string) ([]models.MonitorTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, common.WrapError(err, "failed to read target file '"+path+"'")
	}

	var doc targetsDocument
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, common.WrapError(err, "failed to parse target file '"+path+"'")
	}

	targets := make([]models.MonitorTarget, 0, len(doc.Targets))
	seen := make(map[string]bool)
	for _, target := range doc.Targets {
		normalizedURL, normErr := NormalizeURL(target.URL)
		if normErr != nil {
			tm.logger.Warn().Str("url", target.URL).Err(normErr).Msg("Failed to normalize target URL, skipping")
			continue
		}
		if seen[normalizedURL] {
			tm.logger.Debug().Str("url", normalizedURL).Msg("Skipping duplicate target URL")
			continue
		}
		seen[normalizedURL] = true
		target.URL = normalizedURL
		targets = append(targets, target)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: %s (no valid targets)", ErrFileEmpty, path)
	}

	return targets, nil
}

// ConvertURLsToTargets converts a slice of URL strings into monitor targets
// with default settings, dropping invalid and duplicate entries.
func (tm *TargetManager) ConvertURLsToTargets(urls []string) []models.MonitorTarget {
	targets := make([]models.MonitorTarget, 0, len(urls))
	seen := make(map[string]bool)
	for _, rawURL := range urls {
		normalizedURL, err := NormalizeURL(rawURL)
		if err != nil {
			tm.logger.Warn().Str("url", rawURL).Err(err).Msg("Failed to normalize URL, skipping")
			continue
		}
		if seen[normalizedURL] {
			continue
		}
		seen[normalizedURL] = true
		targets = append(targets, models.MonitorTarget{URL: normalizedURL})
	}
	return targets
}

// GetTargetStrings extracts the URL strings from monitor targets
func (tm *TargetManager) GetTargetStrings(targets []models.MonitorTarget) []string {
	urls := make([]string, len(targets))
	for i, target := range targets {
		urls[i] = target.URL
	}
	return urls
}
