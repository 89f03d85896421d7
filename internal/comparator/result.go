package comparator

import "time"

// ChangeType describes how a single line differs between two documents.
type ChangeType string

const (
	ChangeTypeAdded    ChangeType = "added"
	ChangeTypeRemoved  ChangeType = "removed"
	ChangeTypeModified ChangeType = "modified"
)

// ChangeRecord is one classified line-level change. Added records carry only
// NewLine, removed records only OldLine, modified records both plus the
// similarity that paired them.
type ChangeRecord struct {
	Type       ChangeType `json:"type"`
	OldLine    string     `json:"old_line,omitempty"`
	NewLine    string     `json:"new_line,omitempty"`
	Similarity float64    `json:"similarity,omitempty"`
}

// Severity buckets a change score into an alerting tier.
type Severity string

const (
	SeverityNormal    Severity = "NORMAL"
	SeverityModerate  Severity = "MODERATE"
	SeverityImportant Severity = "IMPORTANT"
	SeverityCritical  Severity = "CRITICAL"
)

// ComparisonResult is the outcome of comparing two versions of a document.
type ComparisonResult struct {
	HasChanges      bool           `json:"has_changes"`
	ChangeScore     float64        `json:"change_score"`
	Severity        Severity       `json:"severity"`
	AddedCount      int            `json:"added_count"`
	RemovedCount    int            `json:"removed_count"`
	ModifiedCount   int            `json:"modified_count"`
	SimilarityRatio float64        `json:"similarity_ratio"`
	DiffSummary     string         `json:"diff_summary"`
	Changes         []ChangeRecord `json:"changes,omitempty"`
	TotalLinesOld   int            `json:"total_lines_old"`
	TotalLinesNew   int            `json:"total_lines_new"`
	OldHash         string         `json:"old_hash"`
	NewHash         string         `json:"new_hash"`
	ProcessingTime  time.Duration  `json:"processing_time"`
}

// TotalChanges returns the number of classified change records.
func (r *ComparisonResult) TotalChanges() int {
	return r.AddedCount + r.RemovedCount + r.ModifiedCount
}

// ComparisonResultBuilder provides a fluent interface for assembling a ComparisonResult
type ComparisonResultBuilder struct {
	result ComparisonResult
}

// NewComparisonResultBuilder creates a new builder
func NewComparisonResultBuilder() *ComparisonResultBuilder {
	return &ComparisonResultBuilder{
		result: ComparisonResult{
			Severity:        SeverityNormal,
			SimilarityRatio: 1.0,
			Changes:         []ChangeRecord{},
		},
	}
}

// WithScore sets the change score and derived flags
func (b *ComparisonResultBuilder) WithScore(score float64, severity Severity) *ComparisonResultBuilder {
	b.result.ChangeScore = score
	b.result.Severity = severity
	b.result.HasChanges = score > 0
	return b
}

// WithCounts sets the per-class change counts
func (b *ComparisonResultBuilder) WithCounts(added, removed, modified int) *ComparisonResultBuilder {
	b.result.AddedCount = added
	b.result.RemovedCount = removed
	b.result.ModifiedCount = modified
	return b
}

// WithSimilarityRatio sets the whole-document similarity ratio
func (b *ComparisonResultBuilder) WithSimilarityRatio(ratio float64) *ComparisonResultBuilder {
	b.result.SimilarityRatio = ratio
	return b
}

// WithSummary sets the rendered diff summary
func (b *ComparisonResultBuilder) WithSummary(summary string) *ComparisonResultBuilder {
	b.result.DiffSummary = summary
	return b
}

// WithChanges sets the classified change records
func (b *ComparisonResultBuilder) WithChanges(changes []ChangeRecord) *ComparisonResultBuilder {
	b.result.Changes = changes
	return b
}

// WithLineCounts sets the normalized line counts of both documents
func (b *ComparisonResultBuilder) WithLineCounts(oldLines, newLines int) *ComparisonResultBuilder {
	b.result.TotalLinesOld = oldLines
	b.result.TotalLinesNew = newLines
	return b
}

// WithHashes sets the content hashes of both documents
func (b *ComparisonResultBuilder) WithHashes(oldHash, newHash string) *ComparisonResultBuilder {
	b.result.OldHash = oldHash
	b.result.NewHash = newHash
	return b
}

// WithProcessingTime sets the elapsed comparison time
func (b *ComparisonResultBuilder) WithProcessingTime(d time.Duration) *ComparisonResultBuilder {
	b.result.ProcessingTime = d
	return b
}

// Build returns the assembled ComparisonResult
func (b *ComparisonResultBuilder) Build() *ComparisonResult {
	result := b.result
	return &result
}
