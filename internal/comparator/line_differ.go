package comparator

// LineDiffer computes set-level line differences between two documents.
type LineDiffer struct{}

// NewLineDiffer creates a new LineDiffer
func NewLineDiffer() *LineDiffer {
	return &LineDiffer{}
}

// Diff returns the distinct lines present only in newLines (in new-document
// order) and the distinct lines present only in oldLines (in old-document
// order). Membership is set-based: a line occurring anywhere on both sides is
// excluded regardless of how often it repeats, and a line missing from the
// other side is reported once.
func (ld *LineDiffer) Diff(oldLines, newLines []string) (added, removed []string) {
	oldSet := make(map[string]struct{}, len(oldLines))
	for _, line := range oldLines {
		oldSet[line] = struct{}{}
	}
	newSet := make(map[string]struct{}, len(newLines))
	for _, line := range newLines {
		newSet[line] = struct{}{}
	}

	seenAdded := make(map[string]struct{})
	for _, line := range newLines {
		if _, exists := oldSet[line]; exists {
			continue
		}
		if _, dup := seenAdded[line]; dup {
			continue
		}
		seenAdded[line] = struct{}{}
		added = append(added, line)
	}

	seenRemoved := make(map[string]struct{})
	for _, line := range oldLines {
		if _, exists := newSet[line]; exists {
			continue
		}
		if _, dup := seenRemoved[line]; dup {
			continue
		}
		seenRemoved[line] = struct{}{}
		removed = append(removed, line)
	}

	return added, removed
}
