package datastore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/pagesentry/pagesentry/internal/models"
)

// CheckLogStore wraps the SQL database connection and provides methods for
// recording check, comparison and cycle history.
type CheckLogStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewCheckLogStore initializes a new store and ensures the schema is set up.
func NewCheckLogStore(dataSourceName string, logger zerolog.Logger) (*CheckLogStore, error) {
	log := logger.With().Str("component", "CheckLogStore").Logger()
	log.Info().Str("db_path", dataSourceName).Msg("Initializing check log database connection")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create check log database directory %s: %w", dbDir, err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}

	store := &CheckLogStore{
		db:     dbInstance,
		logger: log,
	}

	if err := store.InitSchema(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *CheckLogStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the history tables if they don't already exist.
func (s *CheckLogStore) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS check_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		cycle_id TEXT,
		checked_at DATETIME NOT NULL,
		status TEXT NOT NULL,
		http_status INTEGER,
		content_size INTEGER,
		content_hash TEXT,
		error TEXT
	);
	CREATE TABLE IF NOT EXISTS comparison_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		cycle_id TEXT,
		compared_at DATETIME NOT NULL,
		change_score REAL NOT NULL,
		added_lines INTEGER NOT NULL,
		removed_lines INTEGER NOT NULL,
		modified_lines INTEGER NOT NULL,
		similarity_ratio REAL NOT NULL,
		severity TEXT NOT NULL,
		has_changes INTEGER NOT NULL DEFAULT 0,
		notified INTEGER NOT NULL DEFAULT 0,
		diff_summary TEXT
	);
	CREATE TABLE IF NOT EXISTS monitor_cycles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cycle_id TEXT UNIQUE,
		started_at DATETIME NOT NULL,
		completed_at DATETIME,
		status TEXT NOT NULL,
		targets_checked INTEGER DEFAULT 0,
		changes_found INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_check_log_url ON check_log(url);
	CREATE INDEX IF NOT EXISTS idx_comparison_log_url ON comparison_log(url);
	`
	if _, err := s.db.Exec(query); err != nil {
		s.logger.Error().Err(err).Msg("Failed to initialize check log schema")
		return err
	}
	return nil
}

// RecordCheck inserts one check outcome into check_log.
func (s *CheckLogStore) RecordCheck(entry models.CheckLogEntry) error {
	query := `INSERT INTO check_log (url, cycle_id, checked_at, status, http_status, content_size, content_hash, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.Exec(query,
		entry.URL,
		entry.CycleID,
		entry.CheckedAt,
		string(entry.Status),
		entry.HTTPStatus,
		entry.ContentSize,
		entry.ContentHash,
		sql.NullString{String: entry.Error, Valid: entry.Error != ""},
	)
	if err != nil {
		s.logger.Error().Err(err).Str("url", entry.URL).Msg("Failed to record check")
		return fmt.Errorf("failed to insert check record: %w", err)
	}
	return nil
}

// RecordComparison inserts one comparison outcome into comparison_log.
func (s *CheckLogStore) RecordComparison(entry models.ComparisonLogEntry) error {
	query := `INSERT INTO comparison_log (url, cycle_id, compared_at, change_score, added_lines, removed_lines, modified_lines, similarity_ratio, severity, has_changes, notified, diff_summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.Exec(query,
		entry.URL,
		entry.CycleID,
		entry.ComparedAt,
		entry.ChangeScore,
		entry.AddedLines,
		entry.RemovedLines,
		entry.ModifiedLines,
		entry.SimilarityRatio,
		entry.Severity,
		entry.HasChanges,
		entry.Notified,
		sql.NullString{String: entry.DiffSummary, Valid: entry.DiffSummary != ""},
	)
	if err != nil {
		s.logger.Error().Err(err).Str("url", entry.URL).Msg("Failed to record comparison")
		return fmt.Errorf("failed to insert comparison record: %w", err)
	}
	return nil
}

// RecordCycleStart inserts a new monitor_cycles row with status STARTED and
// returns the ID of the newly inserted row.
func (s *CheckLogStore) RecordCycleStart(cycleID string, startTime time.Time) (int64, error) {
	query := `INSERT INTO monitor_cycles (cycle_id, started_at, status) VALUES (?, ?, ?)`
	result, err := s.db.Exec(query, cycleID, startTime, string(models.CycleStatusStarted))
	if err != nil {
		return 0, fmt.Errorf("failed to insert cycle start record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	s.logger.Info().Int64("db_id", id).Str("cycle_id", cycleID).Msg("Recorded cycle start")
	return id, nil
}

// UpdateCycleCompletion updates an existing monitor_cycles record with
// completion details.
func (s *CheckLogStore) UpdateCycleCompletion(cycleID string, endTime time.Time, status models.CycleStatus, targetsChecked, changesFound int) error {
	query := `UPDATE monitor_cycles SET completed_at = ?, status = ?, targets_checked = ?, changes_found = ? WHERE cycle_id = ?`
	_, err := s.db.Exec(query, endTime, string(status), targetsChecked, changesFound, cycleID)
	if err != nil {
		s.logger.Error().Err(err).Str("cycle_id", cycleID).Msg("Failed to update cycle completion")
		return fmt.Errorf("failed to update cycle completion for '%s': %w", cycleID, err)
	}
	return nil
}

// GetRecentChecks retrieves up to limit check records for a URL, newest
// first.
func (s *CheckLogStore) GetRecentChecks(url string, limit int) ([]models.CheckLogEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT id, url, cycle_id, checked_at, status, http_status, content_size, COALESCE(content_hash, ''), COALESCE(error, '')
		FROM check_log WHERE url = ? ORDER BY checked_at DESC, id DESC LIMIT ?`

	rows, err := s.db.Query(query, url, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query check log: %w", err)
	}
	defer rows.Close()

	var entries []models.CheckLogEntry
	for rows.Next() {
		var entry models.CheckLogEntry
		var status string
		if err := rows.Scan(
			&entry.ID,
			&entry.URL,
			&entry.CycleID,
			&entry.CheckedAt,
			&status,
			&entry.HTTPStatus,
			&entry.ContentSize,
			&entry.ContentHash,
			&entry.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan check record: %w", err)
		}
		entry.Status = models.CheckStatus(status)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetRecentComparisons retrieves up to limit comparison records for a URL,
// newest first.
func (s *CheckLogStore) GetRecentComparisons(url string, limit int) ([]models.ComparisonLogEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT id, url, cycle_id, compared_at, change_score, added_lines, removed_lines, modified_lines, similarity_ratio, severity, has_changes, notified, COALESCE(diff_summary, '')
		FROM comparison_log WHERE url = ? ORDER BY compared_at DESC, id DESC LIMIT ?`

	rows, err := s.db.Query(query, url, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparison log: %w", err)
	}
	defer rows.Close()

	var entries []models.ComparisonLogEntry
	for rows.Next() {
		var entry models.ComparisonLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.URL,
			&entry.CycleID,
			&entry.ComparedAt,
			&entry.ChangeScore,
			&entry.AddedLines,
			&entry.RemovedLines,
			&entry.ModifiedLines,
			&entry.SimilarityRatio,
			&entry.Severity,
			&entry.HasChanges,
			&entry.Notified,
			&entry.DiffSummary,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comparison record: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetLastCompletedCycle retrieves the most recently completed cycle, or nil
// when no cycle has completed yet.
func (s *CheckLogStore) GetLastCompletedCycle() (*models.MonitorCycleEntry, error) {
	query := `SELECT id, cycle_id, started_at, completed_at, status, targets_checked, changes_found
		FROM monitor_cycles WHERE status = ? ORDER BY completed_at DESC, id DESC LIMIT 1`

	var entry models.MonitorCycleEntry
	var completedAt sql.NullTime
	err := s.db.QueryRow(query, string(models.CycleStatusCompleted)).Scan(
		&entry.ID,
		&entry.CycleID,
		&entry.StartedAt,
		&completedAt,
		&entry.Status,
		&entry.TargetsChecked,
		&entry.ChangesFound,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last completed cycle: %w", err)
	}
	if completedAt.Valid {
		entry.CompletedAt = &completedAt.Time
	}
	return &entry, nil
}
