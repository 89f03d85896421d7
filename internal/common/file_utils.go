package common

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// FileInfo contains metadata about a file
type FileInfo struct {
	Path        string      // Full file path
	Name        string      // File name only
	Size        int64       // File size in bytes
	IsDir       bool        // Whether it's a directory
	ModTime     time.Time   // Last modification time
	Permissions fs.FileMode // File permissions
}

// FileReadOptions configures file reading behavior
type FileReadOptions struct {
	MaxSize   int64           // Maximum file size to read (0 = no limit)
	TrimLines bool            // Whether to trim whitespace from lines
	SkipEmpty bool            // Whether to skip empty lines
	Timeout   time.Duration   // Read timeout
	Context   context.Context // Context for cancellation
}

// FileWriteOptions configures file writing behavior
type FileWriteOptions struct {
	CreateDirs  bool        // Whether to create parent directories
	Permissions fs.FileMode // File permissions
}

// DefaultFileReadOptions returns default file reading options
func DefaultFileReadOptions() FileReadOptions {
	return FileReadOptions{
		MaxSize:   50 * 1024 * 1024, // 50MB default
		TrimLines: true,
		SkipEmpty: true,
		Timeout:   30 * time.Second,
		Context:   context.Background(),
	}
}

// DefaultFileWriteOptions returns default file writing options
func DefaultFileWriteOptions() FileWriteOptions {
	return FileWriteOptions{
		CreateDirs:  true,
		Permissions: 0644,
	}
}

// FileManager provides high-level file operations with standardized error handling and logging
type FileManager struct {
	logger zerolog.Logger
}

// NewFileManager creates a new FileManager instance
func NewFileManager(logger zerolog.Logger) *FileManager {
	return &FileManager{
		logger: logger.With().Str("component", "FileManager").Logger(),
	}
}

// FileExists checks if a file or directory exists
func (fm *FileManager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// GetFileInfo returns information about a file
func (fm *FileManager) GetFileInfo(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, WrapError(ErrNotFound, fmt.Sprintf("file not found: %s", path))
		}
		return nil, WrapError(err, fmt.Sprintf("failed to get file info for: %s", path))
	}

	return &FileInfo{
		Path:        path,
		Name:        stat.Name(),
		Size:        stat.Size(),
		IsDir:       stat.IsDir(),
		ModTime:     stat.ModTime(),
		Permissions: stat.Mode(),
	}, nil
}

// ReadFile reads a file with the given options
func (fm *FileManager) ReadFile(path string, opts FileReadOptions) ([]byte, error) {
	if _, err := fm.validateFileForReading(path, opts); err != nil {
		return nil, err
	}

	ctx, cancel := fm.setupContextWithTimeout(opts)
	if cancel != nil {
		defer cancel()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("failed to open file: %s", path))
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fm.logger.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	done := make(chan struct{})
	var content []byte
	var readErr error

	go func() {
		defer close(done)
		var reader io.Reader = file
		if opts.MaxSize > 0 {
			reader = io.LimitReader(reader, opts.MaxSize)
		}
		content, readErr = io.ReadAll(reader)
	}()

	select {
	case <-ctx.Done():
		fm.logger.Warn().Str("path", path).Msg("File read cancelled due to context timeout")
		return nil, WrapError(ctx.Err(), "file read operation cancelled")
	case <-done:
		if readErr != nil {
			return nil, WrapError(readErr, fmt.Sprintf("failed to read file content: %s", path))
		}
	}

	return content, nil
}

// validateFileForReading validates a file path and options before reading
func (fm *FileManager) validateFileForReading(path string, opts FileReadOptions) (*FileInfo, error) {
	info, err := fm.GetFileInfo(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir {
		return nil, NewValidationError("path", path, "is a directory, not a file")
	}

	if opts.MaxSize > 0 && info.Size > opts.MaxSize {
		return nil, NewValidationError("file_size", info.Size, fmt.Sprintf("exceeds maximum size of %d bytes", opts.MaxSize))
	}

	return info, nil
}

// setupContextWithTimeout sets up context with timeout if specified
func (fm *FileManager) setupContextWithTimeout(opts FileReadOptions) (context.Context, context.CancelFunc) {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	return ctx, nil
}

// ReadLines reads a file and returns its non-empty lines
func (fm *FileManager) ReadLines(path string, opts FileReadOptions) ([]string, error) {
	content, err := fm.ReadFile(path, opts)
	if err != nil {
		return nil, err
	}

	if len(content) == 0 {
		return []string{}, nil
	}

	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(string(content)))
	for scanner.Scan() {
		line := scanner.Text()
		if opts.TrimLines {
			line = strings.TrimSpace(line)
		}
		if opts.SkipEmpty && line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, WrapError(err, fmt.Sprintf("failed to scan file lines: %s", path))
	}

	return lines, nil
}

// EnsureDirectory creates a directory and its parents if they don't exist
func (fm *FileManager) EnsureDirectory(path string, perm fs.FileMode) error {
	if fm.FileExists(path) {
		info, err := fm.GetFileInfo(path)
		if err != nil {
			return WrapError(err, fmt.Sprintf("failed to check directory: %s", path))
		}
		if !info.IsDir {
			return NewValidationError("path", path, "exists but is not a directory")
		}
		return nil
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return WrapError(err, fmt.Sprintf("failed to create directory: %s", path))
	}

	fm.logger.Debug().Str("path", path).Msg("Created directory")
	return nil
}

// WriteFile writes data to a file with the given options
func (fm *FileManager) WriteFile(path string, data []byte, opts FileWriteOptions) error {
	if opts.CreateDirs {
		dir := filepath.Dir(path)
		if err := fm.EnsureDirectory(dir, 0755); err != nil {
			return WrapError(err, fmt.Sprintf("failed to create parent directories for: %s", path))
		}
	}

	perm := opts.Permissions
	if perm == 0 {
		perm = 0644
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return WrapError(err, fmt.Sprintf("failed to open file for writing: %s", path))
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fm.logger.Error().Err(closeErr).Str("path", path).Msg("Failed to close file after writing")
		}
	}()

	if _, err := file.Write(data); err != nil {
		return WrapError(err, fmt.Sprintf("failed to write file: %s", path))
	}

	fm.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File written successfully")
	return nil
}
