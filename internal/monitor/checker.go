package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/pagesentry/pagesentry/internal/comparator"
	"github.com/pagesentry/pagesentry/internal/config"
	"github.com/pagesentry/pagesentry/internal/datastore"
	"github.com/pagesentry/pagesentry/internal/fetcher"
	"github.com/pagesentry/pagesentry/internal/models"
	"github.com/pagesentry/pagesentry/internal/notifier"

	"github.com/rs/zerolog"
)

// CheckOutcome represents the result of checking one monitored target.
type CheckOutcome struct {
	URL         string
	Status      models.CheckStatus
	ChangeScore float64
	Severity    string
	Error       error
}

// TargetChecker runs the full check pipeline for a single target: fetch,
// extract, compare against the last stored snapshot, persist, and notify.
type TargetChecker struct {
	logger             zerolog.Logger
	monitorCfg         *config.MonitorConfig
	snapshotStore      models.SnapshotStore
	checkLogStore      *datastore.CheckLogStore
	urlMutexes         *datastore.URLMutexManager
	pageFetcher        *fetcher.PageFetcher
	processor          *ContentProcessor
	contentComparator  *comparator.ContentComparator
	reportWriter       *DiffReportWriter
	notificationHelper *notifier.NotificationHelper
}

// NewTargetChecker creates a new TargetChecker.
func NewTargetChecker(
	monitorCfg *config.MonitorConfig,
	snapshotStore models.SnapshotStore,
	checkLogStore *datastore.CheckLogStore,
	pageFetcher *fetcher.PageFetcher,
	processor *ContentProcessor,
	contentComparator *comparator.ContentComparator,
	reportWriter *DiffReportWriter,
	notificationHelper *notifier.NotificationHelper,
	logger zerolog.Logger,
) *TargetChecker {
	checkerLogger := logger.With().Str("component", "TargetChecker").Logger()
	return &TargetChecker{
		logger:             checkerLogger,
		monitorCfg:         monitorCfg,
		snapshotStore:      snapshotStore,
		checkLogStore:      checkLogStore,
		urlMutexes:         datastore.NewURLMutexManager(checkerLogger),
		pageFetcher:        pageFetcher,
		processor:          processor,
		contentComparator:  contentComparator,
		reportWriter:       reportWriter,
		notificationHelper: notificationHelper,
	}
}

// CheckTarget checks a single target for changes. Checks for the same URL
// are serialized through a per-URL mutex so concurrent cycles cannot race
// on the snapshot history.
func (tc *TargetChecker) CheckTarget(ctx context.Context, target models.MonitorTarget, cycleID string) CheckOutcome {
	url := target.URL
	mu := tc.urlMutexes.GetMutex(url)
	mu.Lock()
	defer mu.Unlock()

	tc.logger.Debug().Str("url", url).Str("cycle_id", cycleID).Msg("Checking target")

	lastSnapshot, err := tc.snapshotStore.GetLastKnownSnapshot(url)
	if err != nil {
		if !errors.Is(err, models.ErrSnapshotNotFound) {
			tc.logger.Error().Err(err).Str("url", url).Msg("Failed to load last snapshot, treating URL as new")
		}
		lastSnapshot = nil
	}

	fetchInput := fetcher.FetchInput{URL: url}
	if lastSnapshot != nil {
		fetchInput.PreviousETag = lastSnapshot.ETag
		fetchInput.PreviousLastModified = lastSnapshot.LastModified
	}

	fetchResult, err := tc.pageFetcher.Fetch(ctx, fetchInput)
	if err != nil {
		if errors.Is(err, fetcher.ErrNotModified) {
			tc.logger.Debug().Str("url", url).Msg("Content not modified (304)")
			entry := models.CheckLogEntry{
				URL:        url,
				CycleID:    cycleID,
				CheckedAt:  time.Now(),
				Status:     models.CheckStatusUnchanged,
				HTTPStatus: fetchResult.StatusCode,
			}
			if lastSnapshot != nil {
				entry.ContentHash = lastSnapshot.ContentHash
			}
			tc.recordCheck(entry)
			return CheckOutcome{URL: url, Status: models.CheckStatusUnchanged}
		}
		return tc.failCheck(ctx, url, cycleID, fetchResult, err)
	}

	processed, err := tc.processor.ProcessContent(url, fetchResult.Content, fetchResult.ContentType)
	if err != nil {
		return tc.failCheck(ctx, url, cycleID, fetchResult, err)
	}

	if lastSnapshot == nil {
		return tc.handleFirstSeen(ctx, target, cycleID, fetchResult, processed)
	}

	if processed.ContentHash == lastSnapshot.ContentHash {
		tc.logger.Debug().Str("url", url).Msg("Content unchanged")
		tc.recordCheck(models.CheckLogEntry{
			URL:         url,
			CycleID:     cycleID,
			CheckedAt:   time.Now(),
			Status:      models.CheckStatusUnchanged,
			HTTPStatus:  fetchResult.StatusCode,
			ContentSize: int64(len(fetchResult.Content)),
			ContentHash: processed.ContentHash,
		})
		return CheckOutcome{URL: url, Status: models.CheckStatusUnchanged}
	}

	return tc.handleChangedContent(ctx, target, cycleID, lastSnapshot, fetchResult, processed)
}

// handleFirstSeen stores the baseline snapshot for a URL seen for the first
// time. First-seen pages never produce a comparison.
func (tc *TargetChecker) handleFirstSeen(
	ctx context.Context,
	target models.MonitorTarget,
	cycleID string,
	fetchResult *fetcher.FetchResult,
	processed *ProcessedContent,
) CheckOutcome {
	url := target.URL
	tc.logger.Info().Str("url", url).Msg("First snapshot for URL, storing baseline")

	if err := tc.storeSnapshot(fetchResult, processed); err != nil {
		return tc.failCheck(ctx, url, cycleID, fetchResult, err)
	}

	tc.recordCheck(models.CheckLogEntry{
		URL:         url,
		CycleID:     cycleID,
		CheckedAt:   time.Now(),
		Status:      models.CheckStatusFirstSeen,
		HTTPStatus:  fetchResult.StatusCode,
		ContentSize: int64(len(fetchResult.Content)),
		ContentHash: processed.ContentHash,
	})

	tc.notificationHelper.SendChangeNotification(ctx, models.PageChangeInfo{
		URL:        url,
		CycleID:    cycleID,
		ChangeTime: processed.ProcessedAt,
		NewHash:    processed.ContentHash,
		FirstSeen:  true,
	})

	return CheckOutcome{URL: url, Status: models.CheckStatusFirstSeen}
}

// handleChangedContent compares the new content against the stored snapshot
// and runs the change side effects: diff report, snapshot, logs, alert.
func (tc *TargetChecker) handleChangedContent(
	ctx context.Context,
	target models.MonitorTarget,
	cycleID string,
	lastSnapshot *models.PageSnapshotRecord,
	fetchResult *fetcher.FetchResult,
	processed *ProcessedContent,
) CheckOutcome {
	url := target.URL

	result, err := tc.contentComparator.Compare(string(lastSnapshot.ExtractedText), processed.ExtractedText)
	if err != nil {
		return tc.failCheck(ctx, url, cycleID, fetchResult, err)
	}

	if err := tc.storeSnapshot(fetchResult, processed); err != nil {
		return tc.failCheck(ctx, url, cycleID, fetchResult, err)
	}

	// Raw bytes differed but every differing line was volatile or
	// whitespace. The fresh snapshot above keeps the ETag current so the
	// next cycle can 304.
	if !result.HasChanges {
		tc.logger.Debug().Str("url", url).Msg("Only volatile content changed, not alerting")
		tc.recordComparison(url, cycleID, result, false)
		tc.recordCheck(models.CheckLogEntry{
			URL:         url,
			CycleID:     cycleID,
			CheckedAt:   time.Now(),
			Status:      models.CheckStatusUnchanged,
			HTTPStatus:  fetchResult.StatusCode,
			ContentSize: int64(len(fetchResult.Content)),
			ContentHash: processed.ContentHash,
		})
		return CheckOutcome{URL: url, Status: models.CheckStatusUnchanged}
	}

	tc.logger.Info().
		Str("url", url).
		Float64("change_score", result.ChangeScore).
		Str("severity", string(result.Severity)).
		Msg("Page content changed")

	reportPath := tc.writeDiffReport(url, cycleID, lastSnapshot, processed)

	changeInfo := models.PageChangeInfo{
		URL:             url,
		CycleID:         cycleID,
		ChangeTime:      processed.ProcessedAt,
		ChangeScore:     result.ChangeScore,
		Severity:        string(result.Severity),
		AddedCount:      result.AddedCount,
		RemovedCount:    result.RemovedCount,
		ModifiedCount:   result.ModifiedCount,
		SimilarityRatio: result.SimilarityRatio,
		DiffSummary:     result.DiffSummary,
		OldHash:         result.OldHash,
		NewHash:         result.NewHash,
		AlertThreshold:  target.EffectiveThreshold(tc.monitorCfg.DefaultAlertThreshold),
	}
	if reportPath != "" {
		changeInfo.DiffReportPath = &reportPath
	}

	notified := tc.notificationHelper.SendChangeNotification(ctx, changeInfo)
	tc.recordComparison(url, cycleID, result, notified)
	tc.recordCheck(models.CheckLogEntry{
		URL:         url,
		CycleID:     cycleID,
		CheckedAt:   time.Now(),
		Status:      models.CheckStatusOK,
		HTTPStatus:  fetchResult.StatusCode,
		ContentSize: int64(len(fetchResult.Content)),
		ContentHash: processed.ContentHash,
	})

	return CheckOutcome{
		URL:         url,
		Status:      models.CheckStatusOK,
		ChangeScore: result.ChangeScore,
		Severity:    string(result.Severity),
	}
}

// storeSnapshot persists the processed content as the newest version of the
// page.
func (tc *TargetChecker) storeSnapshot(fetchResult *fetcher.FetchResult, processed *ProcessedContent) error {
	return tc.snapshotStore.StoreSnapshot(models.PageSnapshotRecord{
		URL:           processed.URL,
		Timestamp:     processed.ProcessedAt.UnixMilli(),
		ContentHash:   processed.ContentHash,
		ContentType:   processed.ContentType,
		ExtractedText: []byte(processed.ExtractedText),
		ETag:          fetchResult.ETag,
		LastModified:  fetchResult.LastModified,
	})
}

// writeDiffReport renders and persists the full line diff. Report failures
// degrade to an alert without attachment.
func (tc *TargetChecker) writeDiffReport(url, cycleID string, lastSnapshot *models.PageSnapshotRecord, processed *ProcessedContent) string {
	if tc.reportWriter == nil || !tc.reportWriter.Enabled() {
		return ""
	}

	diffText, err := tc.contentComparator.DetailedDiff(string(lastSnapshot.ExtractedText), processed.ExtractedText)
	if err != nil {
		tc.logger.Error().Err(err).Str("url", url).Msg("Failed to render detailed diff")
		return ""
	}

	reportPath, err := tc.reportWriter.WriteReport(url, cycleID, diffText)
	if err != nil {
		tc.logger.Error().Err(err).Str("url", url).Msg("Failed to write diff report")
		return ""
	}
	return reportPath
}

// failCheck records a failed check and sends the failure notification.
func (tc *TargetChecker) failCheck(ctx context.Context, url, cycleID string, fetchResult *fetcher.FetchResult, err error) CheckOutcome {
	tc.logger.Error().Err(err).Str("url", url).Msg("Target check failed")

	entry := models.CheckLogEntry{
		URL:       url,
		CycleID:   cycleID,
		CheckedAt: time.Now(),
		Status:    models.CheckStatusError,
		Error:     err.Error(),
	}
	if fetchResult != nil {
		entry.HTTPStatus = fetchResult.StatusCode
	}
	tc.recordCheck(entry)

	tc.notificationHelper.SendFetchErrorNotification(ctx, models.FetchErrorInfo{
		URL:        url,
		CycleID:    cycleID,
		Source:     "monitor",
		Error:      err.Error(),
		OccurredAt: time.Now(),
	})

	return CheckOutcome{URL: url, Status: models.CheckStatusError, Error: err}
}

// recordCheck writes one check log row; storage failures are logged, never
// propagated into the check outcome.
func (tc *TargetChecker) recordCheck(entry models.CheckLogEntry) {
	if err := tc.checkLogStore.RecordCheck(entry); err != nil {
		tc.logger.Error().Err(err).Str("url", entry.URL).Msg("Failed to record check log entry")
	}
}

// recordComparison writes one comparison log row.
func (tc *TargetChecker) recordComparison(url, cycleID string, result *comparator.ComparisonResult, notified bool) {
	entry := models.ComparisonLogEntry{
		URL:             url,
		CycleID:         cycleID,
		ComparedAt:      time.Now(),
		ChangeScore:     result.ChangeScore,
		AddedLines:      result.AddedCount,
		RemovedLines:    result.RemovedCount,
		ModifiedLines:   result.ModifiedCount,
		SimilarityRatio: result.SimilarityRatio,
		Severity:        string(result.Severity),
		HasChanges:      result.HasChanges,
		Notified:        notified,
		DiffSummary:     result.DiffSummary,
	}
	if err := tc.checkLogStore.RecordComparison(entry); err != nil {
		tc.logger.Error().Err(err).Str("url", url).Msg("Failed to record comparison log entry")
	}
}
