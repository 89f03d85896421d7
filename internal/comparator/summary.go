package comparator

import (
	"fmt"
	"strings"
)

// NoChangesSummary is the summary text for a comparison with no changes.
const NoChangesSummary = "No changes detected"

// SummaryBuilder renders a bounded, human-readable digest of change records.
type SummaryBuilder struct {
	maxLines     int
	maxLineWidth int
	maxPairWidth int
}

// NewSummaryBuilder creates a builder capped at maxLines summary entries
func NewSummaryBuilder(maxLines int) *SummaryBuilder {
	return &SummaryBuilder{
		maxLines:     maxLines,
		maxLineWidth: DefaultMaxSummaryLineWidth,
		maxPairWidth: DefaultMaxPairSideWidth,
	}
}

// Build renders up to maxLines change records, one per line: additions as
// "+ line", removals as "- line", modifications as "~ old -> new". Overflow
// is collapsed into a trailing "... and N more changes" marker.
func (sb *SummaryBuilder) Build(changes []ChangeRecord) string {
	if len(changes) == 0 {
		return NoChangesSummary
	}

	shown := changes
	overflow := 0
	if len(shown) > sb.maxLines {
		overflow = len(shown) - sb.maxLines
		shown = shown[:sb.maxLines]
	}

	lines := make([]string, 0, len(shown)+1)
	for _, change := range shown {
		lines = append(lines, sb.renderChange(change))
	}
	if overflow > 0 {
		lines = append(lines, fmt.Sprintf("... and %d more changes", overflow))
	}

	return strings.Join(lines, "\n")
}

func (sb *SummaryBuilder) renderChange(change ChangeRecord) string {
	switch change.Type {
	case ChangeTypeAdded:
		return "+ " + truncateLine(change.NewLine, sb.maxLineWidth)
	case ChangeTypeRemoved:
		return "- " + truncateLine(change.OldLine, sb.maxLineWidth)
	case ChangeTypeModified:
		return fmt.Sprintf("~ %s -> %s",
			truncateLine(change.OldLine, sb.maxPairWidth),
			truncateLine(change.NewLine, sb.maxPairWidth))
	default:
		return ""
	}
}

// truncateLine shortens a line to maxWidth runes with an ellipsis marker.
func truncateLine(line string, maxWidth int) string {
	runes := []rune(line)
	if len(runes) <= maxWidth {
		return line
	}
	return string(runes[:maxWidth]) + "..."
}
