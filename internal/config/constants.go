package config

const (
	// Monitor Defaults
	DefaultMonitorCheckIntervalSeconds = 3600 // 1 hour
	DefaultMonitorMaxConcurrentChecks  = 5
	DefaultMonitorTargetsFile          = "targets.yaml"

	// Fetcher Defaults
	DefaultFetcherUserAgent      = "pagesentry/1.0 (+https://github.com/pagesentry/pagesentry)"
	DefaultFetcherTimeoutSecs    = 30
	DefaultFetcherMaxContentSize = 1048576 // 1MB

	// Storage Defaults
	DefaultStorageParquetBasePath    = "data/snapshots"
	DefaultStorageCompressionCodec   = "zstd"
	DefaultStorageMaxSnapshotsPerURL = 10
	DefaultStorageSQLiteDBPath       = "data/pagesentry.db"
	DefaultStorageDiffReportDir      = "data/reports"
)
