package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/pagesentry/pagesentry/internal/models"
)

// CycleTracker accumulates what happened within one monitoring cycle: which
// URLs changed (and how severely), which failed, and how many were checked.
type CycleTracker struct {
	mutex sync.RWMutex

	currentCycleID string
	startedAt      time.Time
	maxCycles      int
	currentCycle   int

	checkedCount int
	changedURLs  map[string]string // URL -> severity
	failedURLs   map[string]struct{}
}

// NewCycleTracker creates a new CycleTracker. A maxCycles of zero means run
// indefinitely.
func NewCycleTracker(maxCycles int) *CycleTracker {
	return &CycleTracker{
		maxCycles:   maxCycles,
		changedURLs: make(map[string]string),
		failedURLs:  make(map[string]struct{}),
	}
}

// StartCycle begins a new cycle, increments the counter, and returns the new
// cycle ID.
func (ct *CycleTracker) StartCycle() string {
	ct.mutex.Lock()
	defer ct.mutex.Unlock()

	ct.currentCycle++
	ct.currentCycleID = fmt.Sprintf("monitor-%s", time.Now().Format("20060102-150405"))
	ct.startedAt = time.Now()
	ct.checkedCount = 0
	ct.changedURLs = make(map[string]string)
	ct.failedURLs = make(map[string]struct{})
	return ct.currentCycleID
}

// ShouldContinue returns false once the maximum number of cycles has run.
func (ct *CycleTracker) ShouldContinue() bool {
	ct.mutex.RLock()
	defer ct.mutex.RUnlock()
	if ct.maxCycles == 0 {
		return true
	}
	return ct.currentCycle < ct.maxCycles
}

// GetCurrentCycleID returns the current cycle ID.
func (ct *CycleTracker) GetCurrentCycleID() string {
	ct.mutex.RLock()
	defer ct.mutex.RUnlock()
	return ct.currentCycleID
}

// CurrentCycle returns the 1-based number of the running cycle.
func (ct *CycleTracker) CurrentCycle() int {
	ct.mutex.RLock()
	defer ct.mutex.RUnlock()
	return ct.currentCycle
}

// RecordChecked counts one completed target check.
func (ct *CycleTracker) RecordChecked() {
	ct.mutex.Lock()
	defer ct.mutex.Unlock()
	ct.checkedCount++
}

// RecordChanged registers a URL whose content changed this cycle.
func (ct *CycleTracker) RecordChanged(url, severity string) {
	if url == "" {
		return
	}
	ct.mutex.Lock()
	defer ct.mutex.Unlock()
	ct.changedURLs[url] = severity
}

// RecordFailed registers a URL whose check failed this cycle.
func (ct *CycleTracker) RecordFailed(url string) {
	if url == "" {
		return
	}
	ct.mutex.Lock()
	defer ct.mutex.Unlock()
	ct.failedURLs[url] = struct{}{}
}

// HasChanges returns true if any URL changed in the current cycle.
func (ct *CycleTracker) HasChanges() bool {
	ct.mutex.RLock()
	defer ct.mutex.RUnlock()
	return len(ct.changedURLs) > 0
}

// GetChangeCount returns the number of changed URLs in the current cycle.
func (ct *CycleTracker) GetChangeCount() int {
	ct.mutex.RLock()
	defer ct.mutex.RUnlock()
	return len(ct.changedURLs)
}

// GetChangedURLs returns the URLs that changed in the current cycle.
func (ct *CycleTracker) GetChangedURLs() []string {
	ct.mutex.RLock()
	defer ct.mutex.RUnlock()

	urls := make([]string, 0, len(ct.changedURLs))
	for url := range ct.changedURLs {
		urls = append(urls, url)
	}
	return urls
}

// BuildSummary snapshots the cycle into the notification summary form.
func (ct *CycleTracker) BuildSummary(totalTargets int, interrupted bool) models.CycleSummaryData {
	ct.mutex.RLock()
	defer ct.mutex.RUnlock()

	changedURLs := make([]string, 0, len(ct.changedURLs))
	bySeverity := make(map[string]int)
	for url, severity := range ct.changedURLs {
		changedURLs = append(changedURLs, url)
		if severity != "" {
			bySeverity[severity]++
		}
	}

	failedURLs := make([]string, 0, len(ct.failedURLs))
	for url := range ct.failedURLs {
		failedURLs = append(failedURLs, url)
	}

	return models.CycleSummaryData{
		CycleID:           ct.currentCycleID,
		StartedAt:         ct.startedAt,
		CompletedAt:       time.Now(),
		TotalTargets:      totalTargets,
		CheckedCount:      ct.checkedCount,
		ChangedURLs:       changedURLs,
		FailedURLs:        failedURLs,
		ChangesBySeverity: bySeverity,
		Interrupted:       interrupted,
	}
}
