package models

import "time"

// CheckStatus describes the outcome of a single target check.
type CheckStatus string

const (
	CheckStatusOK        CheckStatus = "ok"
	CheckStatusUnchanged CheckStatus = "unchanged"
	CheckStatusFirstSeen CheckStatus = "first_seen"
	CheckStatusError     CheckStatus = "error"
)

// CycleStatus describes the lifecycle state of a monitor cycle.
type CycleStatus string

const (
	CycleStatusStarted     CycleStatus = "STARTED"
	CycleStatusCompleted   CycleStatus = "COMPLETED"
	CycleStatusInterrupted CycleStatus = "INTERRUPTED"
)

// CheckLogEntry is one row of the per-target check audit trail.
type CheckLogEntry struct {
	ID          int64
	URL         string
	CycleID     string
	CheckedAt   time.Time
	Status      CheckStatus
	HTTPStatus  int
	ContentSize int64
	ContentHash string
	Error       string
}

// ComparisonLogEntry records the outcome of one content comparison.
type ComparisonLogEntry struct {
	ID              int64
	URL             string
	CycleID         string
	ComparedAt      time.Time
	ChangeScore     float64
	AddedLines      int
	RemovedLines    int
	ModifiedLines   int
	SimilarityRatio float64
	Severity        string
	HasChanges      bool
	Notified        bool
	DiffSummary     string
}

// MonitorCycleEntry tracks one monitoring cycle from start to completion.
type MonitorCycleEntry struct {
	ID             int64
	CycleID        string
	StartedAt      time.Time
	CompletedAt    *time.Time
	Status         CycleStatus
	TargetsChecked int
	ChangesFound   int
}
