package comparator

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ChangeScorer turns classified change counts into a bounded percentage score
// and an alerting severity.
type ChangeScorer struct {
	dmp                *diffmatchpatch.DiffMatchPatch
	moderateThreshold  float64
	importantThreshold float64
	criticalThreshold  float64
}

// NewChangeScorer creates a scorer with the given severity thresholds
func NewChangeScorer(moderate, important, critical float64) *ChangeScorer {
	return &ChangeScorer{
		dmp:                diffmatchpatch.New(),
		moderateThreshold:  moderate,
		importantThreshold: important,
		criticalThreshold:  critical,
	}
}

// Score computes (added + removed + modified) / oldLineCount as a percentage,
// clamped to [0, 100]. The old document is the baseline: oldLineCount is its
// normalized, unfiltered line count, with a floor of one so that changes
// against an empty document still score.
func (cs *ChangeScorer) Score(added, removed, modified, oldLineCount int) float64 {
	totalChanges := added + removed + modified
	if totalChanges == 0 {
		return 0.0
	}

	baseline := max(oldLineCount, 1)
	score := float64(totalChanges) / float64(baseline) * 100.0

	if score > 100.0 {
		return 100.0
	}
	if score < 0.0 {
		return 0.0
	}
	return score
}

// Classify maps a change score onto a severity tier.
func (cs *ChangeScorer) Classify(score float64) Severity {
	switch {
	case score >= cs.criticalThreshold:
		return SeverityCritical
	case score >= cs.importantThreshold:
		return SeverityImportant
	case score >= cs.moderateThreshold:
		return SeverityModerate
	default:
		return SeverityNormal
	}
}

// SimilarityRatio measures how alike two filtered documents are overall,
// as 1 - levenshtein/maxLen over the newline-joined line sets. Two empty
// documents are identical (1.0); one empty document shares nothing with a
// non-empty one (0.0).
func (cs *ChangeScorer) SimilarityRatio(oldLines, newLines []string) float64 {
	oldDoc := strings.Join(oldLines, "\n")
	newDoc := strings.Join(newLines, "\n")

	if oldDoc == newDoc {
		return 1.0
	}
	if oldDoc == "" || newDoc == "" {
		return 0.0
	}

	diffs := cs.dmp.DiffMain(oldDoc, newDoc, false)
	distance := cs.dmp.DiffLevenshtein(diffs)
	maxLen := max(utf8.RuneCountInString(oldDoc), utf8.RuneCountInString(newDoc))

	return 1.0 - float64(distance)/float64(maxLen)
}
