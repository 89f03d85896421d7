package comparator

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffRenderer produces full line-by-line diffs for report output.
type DiffRenderer struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewDiffRenderer creates a new DiffRenderer
func NewDiffRenderer() *DiffRenderer {
	return &DiffRenderer{dmp: diffmatchpatch.New()}
}

// Render computes a line-based diff between the two documents and renders it
// in unified style: removals prefixed with "-", additions with "+", unchanged
// lines with two spaces.
func (dr *DiffRenderer) Render(previousContent, currentContent string) string {
	oldChars, newChars, lineArray := dr.dmp.DiffLinesToChars(previousContent, currentContent)
	diffs := dr.dmp.DiffMain(oldChars, newChars, false)
	diffs = dr.dmp.DiffCharsToLines(diffs, lineArray)
	diffs = dr.dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, diff := range diffs {
		prefix := "  "
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range splitDiffLines(diff.Text) {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// splitDiffLines splits a diff chunk into lines, dropping the phantom empty
// line a trailing newline would otherwise produce.
func splitDiffLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// DetailedDiff renders a full unified-style diff between the previous and
// current document. The same size guard as Compare applies.
func (cc *ContentComparator) DetailedDiff(previousContent, currentContent string) (string, error) {
	oldCount := countLines(previousContent)
	newCount := countLines(currentContent)
	if err := cc.validateSize(oldCount, newCount); err != nil {
		return "", err
	}

	if previousContent == currentContent {
		return "", nil
	}

	return NewDiffRenderer().Render(previousContent, currentContent), nil
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}
