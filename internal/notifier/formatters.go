package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/pagesentry/pagesentry/internal/comparator"
	"github.com/pagesentry/pagesentry/internal/config"
	"github.com/pagesentry/pagesentry/internal/models"
)

// severityEmbedColor maps a change severity onto the embed color scale.
func severityEmbedColor(severity string) int {
	switch comparator.Severity(severity) {
	case comparator.SeverityCritical:
		return CriticalErrorEmbedColor
	case comparator.SeverityImportant:
		return InterruptEmbedColor
	case comparator.SeverityModerate:
		return WarningEmbedColor
	case comparator.SeverityNormal:
		return InfoEmbedColor
	default:
		return DefaultEmbedColor
	}
}

// severityNeedsMention reports whether the severity is high enough to ping
// the configured roles.
func severityNeedsMention(severity string) bool {
	switch comparator.Severity(severity) {
	case comparator.SeverityCritical, comparator.SeverityImportant:
		return true
	default:
		return false
	}
}

// FormatChangeAlertMessage formats the per-page alert sent when a monitored
// page's content changed.
func FormatChangeAlertMessage(info models.PageChangeInfo, cfg config.NotificationConfig) models.DiscordMessagePayload {
	title := "🔔 Page Change Detected"
	color := severityEmbedColor(info.Severity)
	if info.FirstSeen {
		title = "👁️ New Page Tracked"
		color = InfoEmbedColor
	}

	description := fmt.Sprintf(
		"**URL:** `%s`\n"+
			"**Cycle ID:** `%s`\n"+
			"**Change Score:** %.1f%%\n"+
			"**Severity:** %s\n"+
			"**Similarity:** %.1f%%",
		info.URL,
		info.CycleID,
		info.ChangeScore,
		info.Severity,
		info.SimilarityRatio*100,
	)

	embedBuilder := NewDiscordEmbedBuilder().
		WithTitle(title).
		WithDescription(description).
		WithURL(info.URL).
		WithColor(color).
		WithTimestamp(info.ChangeTime).
		WithFooter("PageSentry Monitor", "")

	if !info.FirstSeen {
		embedBuilder.AddField("📊 Line Changes", fmt.Sprintf(
			"**Added:** %d\n**Removed:** %d\n**Modified:** %d",
			info.AddedCount,
			info.RemovedCount,
			info.ModifiedCount,
		), true)

		embedBuilder.AddField("🔑 Content Hash", fmt.Sprintf(
			"`%s` → `%s`",
			shortHash(info.OldHash),
			shortHash(info.NewHash),
		), true)

		if info.DiffSummary != "" {
			summary := truncateString(info.DiffSummary, MaxFieldValueLength)
			embedBuilder.AddField("📝 Diff Summary", fmt.Sprintf("```diff\n%s\n```", summary), false)
		}
	}

	if info.DiffReportPath != nil && *info.DiffReportPath != "" {
		embedBuilder.AddField("📄 Report", "Full diff report is attached below.", false)
	}

	content := ""
	if severityNeedsMention(info.Severity) && !info.FirstSeen {
		content = buildMentions(cfg.MentionRoleIDs)
	}

	return buildStandardPayloadWithMentions(embedBuilder.Build(), cfg, content)
}

// shortHash renders the first 12 hex characters of a content hash.
func shortHash(hash string) string {
	if hash == "" {
		return "none"
	}
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// FormatFetchErrorMessage formats the alert sent when fetching a monitored
// page failed.
func FormatFetchErrorMessage(info models.FetchErrorInfo, cfg config.NotificationConfig) models.DiscordMessagePayload {
	description := fmt.Sprintf(
		"⚠️ **Failed to check monitored page**\n\n"+
			"**URL:** `%s`\n"+
			"**Cycle ID:** `%s`\n"+
			"**Component:** %s",
		info.URL,
		info.CycleID,
		info.Source,
	)

	errorText := truncateString(info.Error, MaxErrorTextLength)

	embed := NewDiscordEmbedBuilder().
		WithTitle("⚠️ Monitor Fetch Error").
		WithDescription(description).
		WithURL(info.URL).
		WithColor(ErrorEmbedColor).
		WithTimestamp(info.OccurredAt).
		WithFooter("PageSentry Monitor", "").
		AddField("🔍 Error Details", fmt.Sprintf("```%s```", errorText), false).
		Build()

	return buildStandardPayload(embed)
}

// FormatCycleCompleteMessage formats the summary sent when a monitoring cycle
// finishes.
func FormatCycleCompleteMessage(data models.CycleSummaryData, cfg config.NotificationConfig) models.DiscordMessagePayload {
	title := "🔄 Monitor Cycle Complete"
	color := SuccessEmbedColor
	statusText := "completed successfully"
	if data.Interrupted {
		title = "⚠️ Monitor Cycle Interrupted"
		color = InterruptEmbedColor
		statusText = "was interrupted"
	} else if len(data.ChangedURLs) > 0 {
		statusText = fmt.Sprintf("completed with %d changes detected", len(data.ChangedURLs))
	}

	description := fmt.Sprintf(
		"**Monitoring cycle %s**\n\n"+
			"**Cycle ID:** `%s`\n"+
			"**Checked:** %d/%d targets\n"+
			"**Changed:** %d\n"+
			"**Failed:** %d\n"+
			"**Duration:** %s",
		statusText,
		data.CycleID,
		data.CheckedCount,
		data.TotalTargets,
		len(data.ChangedURLs),
		len(data.FailedURLs),
		formatDuration(data.CompletedAt.Sub(data.StartedAt)),
	)

	embedBuilder := NewDiscordEmbedBuilder().
		WithTitle(title).
		WithDescription(description).
		WithColor(color).
		WithTimestamp(data.CompletedAt).
		WithFooter("PageSentry Monitor", "")

	addSeverityBreakdownField(embedBuilder, data.ChangesBySeverity)

	if len(data.ChangedURLs) > 0 {
		embedBuilder.AddField("🔍 Changed URLs",
			createSummaryListField(data.ChangedURLs, "URLs", MaxURLListCount), false)
	}
	if len(data.FailedURLs) > 0 {
		embedBuilder.AddField("⚠️ Failed URLs",
			createSummaryListField(data.FailedURLs, "URLs", MaxURLListCount), false)
	}

	content := ""
	if data.Interrupted {
		content = buildMentions(cfg.MentionRoleIDs)
	}

	return buildStandardPayloadWithMentions(embedBuilder.Build(), cfg, content)
}

// addSeverityBreakdownField renders change counts per severity tier in a
// fixed order.
func addSeverityBreakdownField(embedBuilder *DiscordEmbedBuilder, bySeverity map[string]int) {
	if len(bySeverity) == 0 {
		return
	}

	order := []comparator.Severity{
		comparator.SeverityCritical,
		comparator.SeverityImportant,
		comparator.SeverityModerate,
		comparator.SeverityNormal,
	}

	var breakdown strings.Builder
	for _, severity := range order {
		if count, ok := bySeverity[string(severity)]; ok && count > 0 {
			breakdown.WriteString(fmt.Sprintf("**%s:** %d\n", severity, count))
		}
	}
	if breakdown.Len() == 0 {
		return
	}
	embedBuilder.AddField("📊 Changes by Severity", breakdown.String(), true)
}

// FormatMonitorStartMessage formats the message announcing which URLs a new
// monitoring run covers.
func FormatMonitorStartMessage(monitoredURLs []string, cycleID string, cfg config.NotificationConfig) models.DiscordMessagePayload {
	description := fmt.Sprintf(
		"🔍 **Monitoring cycle started**\n\n"+
			"**Cycle ID:** `%s`\n"+
			"**Total URLs:** %d",
		cycleID,
		len(monitoredURLs),
	)

	if len(monitoredURLs) <= MaxURLListCount {
		description += "\n\n**Monitored URLs:**\n"
		for _, url := range monitoredURLs {
			description += fmt.Sprintf("• `%s`\n", url)
		}
	} else {
		description += "\n\n**Sample URLs:**\n"
		for i := 0; i < MaxURLSampleCount; i++ {
			description += fmt.Sprintf("• `%s`\n", monitoredURLs[i])
		}
		description += fmt.Sprintf("• ... and %d more URLs", len(monitoredURLs)-MaxURLSampleCount)
	}

	embed := NewDiscordEmbedBuilder().
		WithTitle("👁️ Page Monitoring Started").
		WithDescription(description).
		WithColor(InfoEmbedColor).
		WithTimestamp(time.Now()).
		WithFooter("PageSentry Monitor", "").
		Build()

	return buildStandardPayload(embed)
}

// buildStandardPayload creates a standard payload without mentions
func buildStandardPayload(embed models.DiscordEmbed) models.DiscordMessagePayload {
	return NewDiscordMessagePayloadBuilder().
		WithUsername(DiscordUsername).
		AddEmbed(embed).
		Build()
}

// buildStandardPayloadWithMentions creates a standard payload with mentions
func buildStandardPayloadWithMentions(embed models.DiscordEmbed, cfg config.NotificationConfig, content string) models.DiscordMessagePayload {
	payloadBuilder := NewDiscordMessagePayloadBuilder().
		WithUsername(DiscordUsername).
		AddEmbed(embed)

	if content != "" {
		payloadBuilder.WithContent(content)
		if len(cfg.MentionRoleIDs) > 0 {
			payloadBuilder.WithAllowedMentions(models.AllowedMentions{
				Parse: []string{"roles"},
				Roles: cfg.MentionRoleIDs,
			})
		}
	}

	return payloadBuilder.Build()
}
