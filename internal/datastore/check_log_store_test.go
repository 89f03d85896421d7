package datastore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagesentry/pagesentry/internal/models"
)

func newTestCheckLogStore(t *testing.T) *CheckLogStore {
	t.Helper()
	store, err := NewCheckLogStore(filepath.Join(t.TempDir(), "pagesentry.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCheckLogStore_RecordCheck(t *testing.T) {
	store := newTestCheckLogStore(t)

	err := store.RecordCheck(models.CheckLogEntry{
		URL:         "https://example.com",
		CycleID:     "monitor-20250101-120000",
		CheckedAt:   time.Now(),
		Status:      models.CheckStatusOK,
		HTTPStatus:  200,
		ContentSize: 1234,
		ContentHash: "abc123",
	})
	assert.NoError(t, err)
}

func TestCheckLogStore_GetRecentChecks(t *testing.T) {
	store := newTestCheckLogStore(t)
	url := "https://example.com/page"

	require.NoError(t, store.RecordCheck(models.CheckLogEntry{
		URL:         url,
		CycleID:     "monitor-20250101-120000",
		CheckedAt:   time.Now().Add(-time.Hour),
		Status:      models.CheckStatusFirstSeen,
		HTTPStatus:  200,
		ContentSize: 512,
		ContentHash: "aaa",
	}))
	require.NoError(t, store.RecordCheck(models.CheckLogEntry{
		URL:       url,
		CycleID:   "monitor-20250101-130000",
		CheckedAt: time.Now(),
		Status:    models.CheckStatusError,
		Error:     "connection refused",
	}))
	require.NoError(t, store.RecordCheck(models.CheckLogEntry{
		URL:       "https://other.example.com",
		CycleID:   "monitor-20250101-130000",
		CheckedAt: time.Now(),
		Status:    models.CheckStatusOK,
	}))

	entries, err := store.GetRecentChecks(url, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2, "only rows for the requested URL")

	assert.Equal(t, models.CheckStatusError, entries[0].Status, "newest check first")
	assert.Equal(t, "connection refused", entries[0].Error)
	assert.Empty(t, entries[0].ContentHash)
	assert.Equal(t, models.CheckStatusFirstSeen, entries[1].Status)
	assert.Equal(t, "aaa", entries[1].ContentHash)
	assert.Equal(t, int64(512), entries[1].ContentSize)
}

func TestCheckLogStore_RecordComparison_Roundtrip(t *testing.T) {
	store := newTestCheckLogStore(t)
	url := "https://example.com/page"

	first := models.ComparisonLogEntry{
		URL:             url,
		CycleID:         "monitor-20250101-120000",
		ComparedAt:      time.Now().Add(-time.Hour),
		ChangeScore:     2.0,
		AddedLines:      0,
		RemovedLines:    0,
		ModifiedLines:   1,
		SimilarityRatio: 0.98,
		Severity:        "NORMAL",
		HasChanges:      true,
		Notified:        false,
		DiffSummary:     "~ price: $99 -> price: $129",
	}
	second := first
	second.ComparedAt = time.Now()
	second.ChangeScore = 40.0
	second.Severity = "CRITICAL"
	second.Notified = true

	require.NoError(t, store.RecordComparison(first))
	require.NoError(t, store.RecordComparison(second))

	entries, err := store.GetRecentComparisons(url, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 40.0, entries[0].ChangeScore, "newest comparison first")
	assert.Equal(t, "CRITICAL", entries[0].Severity)
	assert.True(t, entries[0].Notified)
	assert.Equal(t, 2.0, entries[1].ChangeScore)
	assert.Equal(t, "~ price: $99 -> price: $129", entries[1].DiffSummary)
}

func TestCheckLogStore_CycleLifecycle(t *testing.T) {
	store := newTestCheckLogStore(t)
	cycleID := "monitor-20250101-120000"
	start := time.Now().Add(-10 * time.Minute)

	id, err := store.RecordCycleStart(cycleID, start)
	require.NoError(t, err)
	assert.Positive(t, id)

	// No completed cycle yet.
	last, err := store.GetLastCompletedCycle()
	require.NoError(t, err)
	assert.Nil(t, last)

	require.NoError(t, store.UpdateCycleCompletion(cycleID, time.Now(), models.CycleStatusCompleted, 7, 2))

	last, err = store.GetLastCompletedCycle()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, cycleID, last.CycleID)
	assert.Equal(t, models.CycleStatusCompleted, last.Status)
	assert.Equal(t, 7, last.TargetsChecked)
	assert.Equal(t, 2, last.ChangesFound)
	require.NotNil(t, last.CompletedAt)
}
