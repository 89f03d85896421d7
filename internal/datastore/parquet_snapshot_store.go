package datastore

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"github.com/pagesentry/pagesentry/internal/config"
	"github.com/pagesentry/pagesentry/internal/models"
	"github.com/pagesentry/pagesentry/internal/urlhandler"
)

const snapshotCurrentFile = "current_snapshots.parquet"

// ParquetSnapshotStore implements models.SnapshotStore using Parquet files.
// Snapshots are grouped into one file per host under the configured base path.
type ParquetSnapshotStore struct {
	storageConfig *config.StorageConfig
	urlMutexes    *URLMutexManager
	logger        zerolog.Logger
}

// NewParquetSnapshotStore creates a new ParquetSnapshotStore.
func NewParquetSnapshotStore(cfg *config.StorageConfig, logger zerolog.Logger) (*ParquetSnapshotStore, error) {
	store := &ParquetSnapshotStore{
		storageConfig: cfg,
		urlMutexes:    NewURLMutexManager(logger),
		logger:        logger.With().Str("component", "ParquetSnapshotStore").Logger(),
	}

	if err := os.MkdirAll(cfg.ParquetBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to ensure snapshot base directory '%s': %w", cfg.ParquetBasePath, err)
	}
	return store, nil
}

// getSnapshotFilePath returns the path to the Parquet file holding snapshots
// for the URL's host, creating the host directory if needed.
func (pss *ParquetSnapshotStore) getSnapshotFilePath(recordURL string) (string, error) {
	parsedURL, err := url.Parse(recordURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL '%s': %w", recordURL, err)
	}

	sanitizedHost := urlhandler.SanitizeFilenameComponent(parsedURL.Host)
	if sanitizedHost == "" {
		sanitizedHost = "unknown_host"
	}

	hostDir := filepath.Join(pss.storageConfig.ParquetBasePath, sanitizedHost)
	if err := os.MkdirAll(hostDir, 0755); err != nil {
		return "", fmt.Errorf("creating directory '%s': %w", hostDir, err)
	}
	return filepath.Join(hostDir, snapshotCurrentFile), nil
}

// readSnapshotRecords reads all records from the specified Parquet file and
// sorts them newest first. A missing or empty file yields no records.
func readSnapshotRecords(filePath string, logger zerolog.Logger) ([]models.PageSnapshotRecord, error) {
	osFile, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.PageSnapshotRecord{}, nil
		}
		return nil, fmt.Errorf("failed to open snapshot file '%s': %w", filePath, err)
	}
	defer osFile.Close()

	stat, err := osFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat snapshot file '%s': %w", filePath, err)
	}
	if stat.Size() == 0 {
		return []models.PageSnapshotRecord{}, nil
	}

	pqFile, err := parquet.OpenFile(osFile, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file '%s': %w", filePath, err)
	}

	reader := parquet.NewReader(pqFile)
	var records []models.PageSnapshotRecord
	for {
		var record models.PageSnapshotRecord
		if err := reader.Read(&record); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading record from parquet file '%s': %w", filePath, err)
		}
		records = append(records, record)
	}

	// Sort records by Timestamp descending (newest first)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})

	logger.Debug().Int("count", len(records)).Str("file", filePath).Msg("Read snapshot records")
	return records, nil
}

// compressionOption maps the configured codec name onto a writer option.
func (pss *ParquetSnapshotStore) compressionOption() parquet.WriterOption {
	switch strings.ToLower(pss.storageConfig.CompressionCodec) {
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "zstd":
		return parquet.Compression(&parquet.Zstd)
	case "none", "uncompressed", "":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		pss.logger.Warn().Str("codec", pss.storageConfig.CompressionCodec).Msg("Unsupported compression codec, defaulting to uncompressed")
		return parquet.Compression(&parquet.Uncompressed)
	}
}

// StoreSnapshot appends a new snapshot, rewriting the host file with the new
// record included and old versions beyond the retention cap dropped.
func (pss *ParquetSnapshotStore) StoreSnapshot(record models.PageSnapshotRecord) error {
	snapshotFilePath, err := pss.getSnapshotFilePath(record.URL)
	if err != nil {
		return err
	}

	// One writer per URL at a time; the host file is rewritten whole.
	mutex := pss.urlMutexes.GetMutex(record.URL)
	mutex.Lock()
	defer mutex.Unlock()

	existingRecords, err := readSnapshotRecords(snapshotFilePath, pss.logger)
	if err != nil {
		pss.logger.Error().Err(err).Str("path", snapshotFilePath).Msg("Error reading existing snapshot file, will rewrite it")
		existingRecords = []models.PageSnapshotRecord{}
	}

	allRecords := pss.applyRetention(append(existingRecords, record), record.URL)

	file, err := os.OpenFile(snapshotFilePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("opening snapshot file '%s' for writing: %w", snapshotFilePath, err)
	}
	defer file.Close()

	writer := parquet.NewWriter(file, parquet.SchemaOf(models.PageSnapshotRecord{}), pss.compressionOption())
	for _, rec := range allRecords {
		if err := writer.Write(rec); err != nil {
			writer.Close()
			return fmt.Errorf("writing snapshot record for '%s': %w", rec.URL, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing parquet writer for '%s': %w", snapshotFilePath, err)
	}

	pss.logger.Debug().
		Str("url", record.URL).
		Int("total_records", len(allRecords)).
		Msg("Stored page snapshot")
	return nil
}

// applyRetention keeps at most MaxSnapshotsPerURL records for the given URL,
// newest first. Records of other URLs sharing the host file are untouched.
func (pss *ParquetSnapshotStore) applyRetention(records []models.PageSnapshotRecord, recordURL string) []models.PageSnapshotRecord {
	maxPerURL := pss.storageConfig.MaxSnapshotsPerURL
	if maxPerURL <= 0 {
		return records
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})

	kept := make([]models.PageSnapshotRecord, 0, len(records))
	urlCount := 0
	for _, rec := range records {
		if rec.URL == recordURL {
			if urlCount >= maxPerURL {
				continue
			}
			urlCount++
		}
		kept = append(kept, rec)
	}
	return kept
}

// GetLastKnownSnapshot retrieves the most recent snapshot for a given URL.
func (pss *ParquetSnapshotStore) GetLastKnownSnapshot(recordURL string) (*models.PageSnapshotRecord, error) {
	snapshotFilePath, err := pss.getSnapshotFilePath(recordURL)
	if err != nil {
		return nil, err
	}

	records, err := readSnapshotRecords(snapshotFilePath, pss.logger)
	if err != nil {
		return nil, err
	}

	// Records are sorted newest first for the whole host.
	for i := range records {
		if records[i].URL == recordURL {
			return &records[i], nil
		}
	}

	return nil, models.ErrSnapshotNotFound
}

// GetSnapshotHistory retrieves up to limit snapshots for a URL, newest first.
func (pss *ParquetSnapshotStore) GetSnapshotHistory(recordURL string, limit int) ([]models.PageSnapshotRecord, error) {
	snapshotFilePath, err := pss.getSnapshotFilePath(recordURL)
	if err != nil {
		return nil, err
	}

	records, err := readSnapshotRecords(snapshotFilePath, pss.logger)
	if err != nil {
		return nil, err
	}

	var history []models.PageSnapshotRecord
	for _, rec := range records {
		if rec.URL != recordURL {
			continue
		}
		history = append(history, rec)
		if limit > 0 && len(history) >= limit {
			break
		}
	}

	return history, nil
}
