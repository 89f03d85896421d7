package notifier

import (
	"fmt"
	"strings"
	"time"
)

// buildMentions creates mention strings for Discord role IDs
func buildMentions(roleIDs []string) string {
	if len(roleIDs) == 0 {
		return ""
	}
	mentions := make([]string, len(roleIDs))
	for i, roleID := range roleIDs {
		mentions[i] = fmt.Sprintf("<@&%s>", roleID)
	}
	return strings.Join(mentions, " ")
}

// truncateString truncates a string to maxLength with ellipsis
func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}

// formatDuration formats duration truncated to seconds
func formatDuration(d time.Duration) string {
	return d.Truncate(time.Second).String()
}

// createSummaryListField renders a bounded bullet list. Lists longer than
// maxToShow are cut to MaxURLSampleCount entries with a remainder marker.
func createSummaryListField(items []string, itemNamePlural string, maxToShow int) string {
	if len(items) == 0 {
		return fmt.Sprintf("No %s", itemNamePlural)
	}

	var result strings.Builder
	showCount := len(items)
	if showCount > maxToShow {
		showCount = MaxURLSampleCount
	}

	for i := 0; i < showCount; i++ {
		result.WriteString(fmt.Sprintf("• `%s`\n", items[i]))
	}
	if len(items) > maxToShow {
		result.WriteString(fmt.Sprintf("• ... and %d more %s", len(items)-showCount, itemNamePlural))
	}

	return result.String()
}
