package comparator

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ModifiedPair couples a removed line with the added line it was rewritten
// into, along with the similarity that matched them.
type ModifiedPair struct {
	OldLine    string
	NewLine    string
	Similarity float64
}

// PairMatcher collapses added/removed line pairs that are close enough into
// single modifications.
type PairMatcher struct {
	dmp       *diffmatchpatch.DiffMatchPatch
	threshold float64
}

// NewPairMatcher creates a matcher with the given similarity threshold
func NewPairMatcher(threshold float64) *PairMatcher {
	return &PairMatcher{
		dmp:       diffmatchpatch.New(),
		threshold: threshold,
	}
}

// Pair greedily matches each removed line (in order) against the most similar
// unclaimed added line. A match at or above the threshold becomes a
// modification; everything unmatched stays a plain addition or removal.
// remainingAdded preserves new-document order, remainingRemoved old-document
// order.
func (pm *PairMatcher) Pair(added, removed []string) (pairs []ModifiedPair, remainingAdded, remainingRemoved []string) {
	if len(added) == 0 || len(removed) == 0 {
		return nil, added, removed
	}

	claimed := make(map[int]bool, len(added))
	for _, oldLine := range removed {
		bestIdx, bestSimilarity := pm.findBestMatch(oldLine, added, claimed)
		if bestIdx >= 0 && bestSimilarity >= pm.threshold {
			claimed[bestIdx] = true
			pairs = append(pairs, ModifiedPair{
				OldLine:    oldLine,
				NewLine:    added[bestIdx],
				Similarity: bestSimilarity,
			})
		} else {
			remainingRemoved = append(remainingRemoved, oldLine)
		}
	}

	for i, newLine := range added {
		if !claimed[i] {
			remainingAdded = append(remainingAdded, newLine)
		}
	}

	return pairs, remainingAdded, remainingRemoved
}

// findBestMatch scans the unclaimed added lines for the highest similarity.
// Strict comparison keeps the earliest added line on ties.
func (pm *PairMatcher) findBestMatch(oldLine string, added []string, claimed map[int]bool) (int, float64) {
	bestIdx := -1
	bestSimilarity := 0.0
	for i, newLine := range added {
		if claimed[i] {
			continue
		}
		if similarity := pm.LineSimilarity(oldLine, newLine); similarity > bestSimilarity {
			bestSimilarity = similarity
			bestIdx = i
		}
	}
	return bestIdx, bestSimilarity
}

// LineSimilarity computes a normalized similarity between two lines as
// 1 - levenshtein/maxLen over runes. Two empty lines are identical (1.0);
// one empty line shares nothing with a non-empty one (0.0).
func (pm *PairMatcher) LineSimilarity(line1, line2 string) float64 {
	if line1 == line2 {
		return 1.0
	}
	if line1 == "" || line2 == "" {
		return 0.0
	}

	diffs := pm.dmp.DiffMain(line1, line2, false)
	distance := pm.dmp.DiffLevenshtein(diffs)
	maxLen := max(utf8.RuneCountInString(line1), utf8.RuneCountInString(line2))

	return 1.0 - float64(distance)/float64(maxLen)
}
