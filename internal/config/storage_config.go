package config

// StorageConfig defines configuration for data storage
type StorageConfig struct {
	CompressionCodec   string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty" validate:"omitempty,oneof=zstd gzip snappy none"`
	DiffReportDir      string `json:"diff_report_dir,omitempty" yaml:"diff_report_dir,omitempty"`
	MaxSnapshotsPerURL int    `json:"max_snapshots_per_url,omitempty" yaml:"max_snapshots_per_url,omitempty" validate:"omitempty,min=1"`
	ParquetBasePath    string `json:"parquet_base_path,omitempty" yaml:"parquet_base_path,omitempty"`
	SQLiteDBPath       string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		CompressionCodec:   DefaultStorageCompressionCodec,
		DiffReportDir:      DefaultStorageDiffReportDir,
		MaxSnapshotsPerURL: DefaultStorageMaxSnapshotsPerURL,
		ParquetBasePath:    DefaultStorageParquetBasePath,
		SQLiteDBPath:       DefaultStorageSQLiteDBPath,
	}
}
