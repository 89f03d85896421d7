package models

import (
	"errors"
	"time"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a URL.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// PageSnapshotRecord is one stored version of a monitored page. The parquet
// tags request ZSTD compression per column; the writer's codec option still
// decides the actual codec.
type PageSnapshotRecord struct {
	URL           string `parquet:"url,zstd"`
	Timestamp     int64  `parquet:"timestamp,zstd"` // Unix milliseconds
	ContentHash   string `parquet:"content_hash,zstd"`
	ContentType   string `parquet:"content_type,zstd,optional"`
	ExtractedText []byte `parquet:"extracted_text,zstd,optional"`
	ETag          string `parquet:"etag,zstd,optional"`
	LastModified  string `parquet:"last_modified,zstd,optional"`
}

// Time returns the snapshot timestamp as a time.Time.
func (r *PageSnapshotRecord) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// SnapshotStore defines the interface for storing and retrieving page snapshots.
type SnapshotStore interface {
	// GetLastKnownSnapshot retrieves the most recent snapshot for a given URL.
	// Returns ErrSnapshotNotFound when the URL has never been stored.
	GetLastKnownSnapshot(url string) (*PageSnapshotRecord, error)

	// StoreSnapshot stores a new version of a monitored page.
	StoreSnapshot(record PageSnapshotRecord) error

	// GetSnapshotHistory retrieves up to limit historical snapshots for a URL,
	// newest first. A limit of zero returns all of them.
	GetSnapshotHistory(url string, limit int) ([]PageSnapshotRecord, error)
}
