package urlhandler

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Custom errors for target file operations
var (
	ErrFileNotFound   = errors.New("target file not found")
	ErrFilePermission = errors.New("permission denied reading target file")
	ErrFileEmpty      = errors.New("target file is empty or contains no valid URLs")
	ErrReadingFile    = errors.New("error reading target file")
)

// ReadURLsFromFile reads a plain-text target file line by line, normalizes each
// line as a URL, and returns the valid, normalized URLs. Blank lines and lines
// starting with '#' are skipped.
func ReadURLsFromFile(filePath string, logger zerolog.Logger) ([]string, error) {
	fileLogger := logger.With().Str("file_path", filePath).Logger()

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		fileLogger.Error().Err(err).Msg("Target file not found")
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
	}
	if err != nil {
		fileLogger.Error().Err(err).Msg("Error checking target file stat")
		return nil, fmt.Errorf("error checking file %s: %v", filePath, err)
	}
	if info.IsDir() {
		fileLogger.Error().Msg("Target path is a directory, not a file")
		return nil, fmt.Errorf("target path is a directory, not a file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsPermission(err) {
			fileLogger.Error().Err(err).Msg("Permission denied reading target file")
			return nil, fmt.Errorf("%w: %s", ErrFilePermission, filePath)
		}
		fileLogger.Error().Err(err).Msg("Error opening target file")
		return nil, fmt.Errorf("%w: %s (cause: %v)", ErrReadingFile, filePath, err)
	}
	defer file.Close()

	if info.Size() == 0 {
		fileLogger.Warn().Msg("Target file is empty (0 bytes)")
		return nil, fmt.Errorf("%w: %s (size is 0)", ErrFileEmpty, filePath)
	}

	var normalizedURLs []string
	scanner := bufio.NewScanner(file)

	totalLinesRead := 0
	normalizedCount := 0
	skippedCount := 0

	for scanner.Scan() {
		totalLinesRead++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		normalizedURL, normErr := NormalizeURL(line)
		if normErr != nil {
			fileLogger.Warn().Err(normErr).Int("line_number", totalLinesRead).Str("original_url", line).Msg("Error normalizing URL, skipping")
			skippedCount++
			continue
		}
		normalizedURLs = append(normalizedURLs, normalizedURL)
		normalizedCount++
	}

	if scanErr := scanner.Err(); scanErr != nil {
		fileLogger.Error().Err(scanErr).Msg("Error during scanning of target file")
		return nil, fmt.Errorf("%w: %s (scan error: %v)", ErrReadingFile, filePath, scanErr)
	}

	fileLogger.Debug().
		Int("total_lines_read", totalLinesRead).
		Int("normalized_count", normalizedCount).
		Int("skipped_count", skippedCount).
		Msg("Finished processing target file")

	if normalizedCount == 0 {
		fileLogger.Warn().Int("total_lines_read", totalLinesRead).Msg("Target file contained lines but no valid URLs were found")
		return nil, fmt.Errorf("%w: %s (no valid URLs found after processing %d lines)", ErrFileEmpty, filePath, totalLinesRead)
	}

	return normalizedURLs, nil
}
