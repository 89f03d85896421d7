package notifier

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pagesentry/pagesentry/internal/comparator"
	"github.com/pagesentry/pagesentry/internal/config"
	"github.com/pagesentry/pagesentry/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func changeInfoFixture() models.PageChangeInfo {
	reportPath := "/tmp/reports/diff-example.html"
	return models.PageChangeInfo{
		URL:             "http://example.com/pricing",
		CycleID:         "monitor-20250101-120000",
		ChangeTime:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		ChangeScore:     42.5,
		Severity:        string(comparator.SeverityCritical),
		AddedCount:      3,
		RemovedCount:    1,
		ModifiedCount:   2,
		SimilarityRatio: 0.71,
		DiffSummary:     "+ new plan added\n- old plan removed",
		OldHash:         strings.Repeat("a", 64),
		NewHash:         strings.Repeat("b", 64),
		DiffReportPath:  &reportPath,
		AlertThreshold:  5,
	}
}

func TestFormatChangeAlertMessage(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	cfg.MentionRoleIDs = []string{"123456"}

	payload := FormatChangeAlertMessage(changeInfoFixture(), cfg)

	assert.Equal(t, DiscordUsername, payload.Username)
	require.Len(t, payload.Embeds, 1)
	embed := payload.Embeds[0]

	assert.Equal(t, "🔔 Page Change Detected", embed.Title)
	assert.Equal(t, CriticalErrorEmbedColor, embed.Color)
	assert.Equal(t, "http://example.com/pricing", embed.URL)
	assert.Contains(t, embed.Description, "42.5%")
	assert.Contains(t, embed.Description, "CRITICAL")
	assert.Contains(t, embed.Description, "monitor-20250101-120000")

	fieldNames := make(map[string]string)
	for _, field := range embed.Fields {
		fieldNames[field.Name] = field.Value
	}
	assert.Contains(t, fieldNames["📊 Line Changes"], "**Added:** 3")
	assert.Contains(t, fieldNames["📊 Line Changes"], "**Removed:** 1")
	assert.Contains(t, fieldNames["📊 Line Changes"], "**Modified:** 2")
	assert.Contains(t, fieldNames["🔑 Content Hash"], "aaaaaaaaaaaa")
	assert.Contains(t, fieldNames["🔑 Content Hash"], "bbbbbbbbbbbb")
	assert.Contains(t, fieldNames["📝 Diff Summary"], "+ new plan added")
	assert.Contains(t, fieldNames["📄 Report"], "attached")

	// Critical severity pings the configured roles.
	assert.Contains(t, payload.Content, "<@&123456>")
	require.NotNil(t, payload.AllowedMentions)
	assert.Equal(t, []string{"123456"}, payload.AllowedMentions.Roles)
}

func TestFormatChangeAlertMessage_NormalSeverityDoesNotMention(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	cfg.MentionRoleIDs = []string{"123456"}

	info := changeInfoFixture()
	info.Severity = string(comparator.SeverityNormal)
	info.ChangeScore = 2.0

	payload := FormatChangeAlertMessage(info, cfg)

	assert.Empty(t, payload.Content)
	assert.Nil(t, payload.AllowedMentions)
	require.Len(t, payload.Embeds, 1)
	assert.Equal(t, InfoEmbedColor, payload.Embeds[0].Color)
}

func TestFormatChangeAlertMessage_SeverityColors(t *testing.T) {
	tests := []struct {
		severity comparator.Severity
		color    int
	}{
		{comparator.SeverityNormal, InfoEmbedColor},
		{comparator.SeverityModerate, WarningEmbedColor},
		{comparator.SeverityImportant, InterruptEmbedColor},
		{comparator.SeverityCritical, CriticalErrorEmbedColor},
	}

	cfg := config.NewDefaultNotificationConfig()
	for _, tt := range tests {
		info := changeInfoFixture()
		info.Severity = string(tt.severity)
		payload := FormatChangeAlertMessage(info, cfg)
		require.Len(t, payload.Embeds, 1)
		assert.Equal(t, tt.color, payload.Embeds[0].Color, "severity %s", tt.severity)
	}
}

func TestFormatChangeAlertMessage_FirstSeen(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	cfg.MentionRoleIDs = []string{"123456"}

	info := changeInfoFixture()
	info.FirstSeen = true
	info.Severity = string(comparator.SeverityCritical)
	info.DiffReportPath = nil

	payload := FormatChangeAlertMessage(info, cfg)

	require.Len(t, payload.Embeds, 1)
	embed := payload.Embeds[0]
	assert.Equal(t, "👁️ New Page Tracked", embed.Title)
	assert.Equal(t, InfoEmbedColor, embed.Color)
	assert.Empty(t, embed.Fields, "first-seen alerts carry no diff fields")
	assert.Empty(t, payload.Content, "first-seen alerts never mention roles")
}

func TestFormatFetchErrorMessage(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	info := models.FetchErrorInfo{
		URL:        "http://example.com/down",
		CycleID:    "monitor-20250101-120000",
		Source:     "fetcher",
		Error:      "connection refused",
		OccurredAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	payload := FormatFetchErrorMessage(info, cfg)

	require.Len(t, payload.Embeds, 1)
	embed := payload.Embeds[0]
	assert.Equal(t, "⚠️ Monitor Fetch Error", embed.Title)
	assert.Equal(t, ErrorEmbedColor, embed.Color)
	assert.Contains(t, embed.Description, "http://example.com/down")
	require.Len(t, embed.Fields, 1)
	assert.Contains(t, embed.Fields[0].Value, "connection refused")
}

func TestFormatFetchErrorMessage_TruncatesLongErrors(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	info := models.FetchErrorInfo{
		URL:   "http://example.com/down",
		Error: strings.Repeat("x", 2000),
	}

	payload := FormatFetchErrorMessage(info, cfg)

	require.Len(t, payload.Embeds, 1)
	require.Len(t, payload.Embeds[0].Fields, 1)
	value := payload.Embeds[0].Fields[0].Value
	assert.LessOrEqual(t, len(value), MaxErrorTextLength+len("``````"))
	assert.Contains(t, value, "...")
}

func TestFormatCycleCompleteMessage(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	data := models.CycleSummaryData{
		CycleID:      "monitor-20250101-120000",
		StartedAt:    time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		CompletedAt:  time.Date(2025, 1, 1, 12, 3, 30, 0, time.UTC),
		TotalTargets: 5,
		CheckedCount: 5,
		ChangedURLs:  []string{"http://example.com/a", "http://example.com/b"},
		FailedURLs:   []string{"http://example.com/c"},
		ChangesBySeverity: map[string]int{
			string(comparator.SeverityCritical): 1,
			string(comparator.SeverityNormal):   1,
		},
	}

	payload := FormatCycleCompleteMessage(data, cfg)

	require.Len(t, payload.Embeds, 1)
	embed := payload.Embeds[0]
	assert.Equal(t, "🔄 Monitor Cycle Complete", embed.Title)
	assert.Equal(t, SuccessEmbedColor, embed.Color)
	assert.Contains(t, embed.Description, "completed with 2 changes detected")
	assert.Contains(t, embed.Description, "**Checked:** 5/5 targets")
	assert.Contains(t, embed.Description, "**Duration:** 3m30s")

	fieldNames := make(map[string]string)
	for _, field := range embed.Fields {
		fieldNames[field.Name] = field.Value
	}
	assert.Contains(t, fieldNames["🔍 Changed URLs"], "http://example.com/a")
	assert.Contains(t, fieldNames["⚠️ Failed URLs"], "http://example.com/c")
	assert.Contains(t, fieldNames["📊 Changes by Severity"], "**CRITICAL:** 1")
	assert.Contains(t, fieldNames["📊 Changes by Severity"], "**NORMAL:** 1")
	assert.Empty(t, payload.Content)
}

func TestFormatCycleCompleteMessage_Interrupted(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	cfg.MentionRoleIDs = []string{"789"}
	data := models.CycleSummaryData{
		CycleID:      "monitor-20250101-120000",
		StartedAt:    time.Now().Add(-time.Minute),
		CompletedAt:  time.Now(),
		TotalTargets: 10,
		CheckedCount: 4,
		Interrupted:  true,
	}

	payload := FormatCycleCompleteMessage(data, cfg)

	require.Len(t, payload.Embeds, 1)
	assert.Equal(t, "⚠️ Monitor Cycle Interrupted", payload.Embeds[0].Title)
	assert.Equal(t, InterruptEmbedColor, payload.Embeds[0].Color)
	assert.Contains(t, payload.Content, "<@&789>")
}

func TestFormatCycleCompleteMessage_BoundsChangedURLList(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	urls := make([]string, 25)
	for i := range urls {
		urls[i] = fmt.Sprintf("http://example.com/page-%02d", i)
	}
	data := models.CycleSummaryData{
		CycleID:      "monitor-20250101-120000",
		StartedAt:    time.Now().Add(-time.Minute),
		CompletedAt:  time.Now(),
		TotalTargets: 25,
		CheckedCount: 25,
		ChangedURLs:  urls,
	}

	payload := FormatCycleCompleteMessage(data, cfg)

	require.Len(t, payload.Embeds, 1)
	var changedField string
	for _, field := range payload.Embeds[0].Fields {
		if field.Name == "🔍 Changed URLs" {
			changedField = field.Value
		}
	}
	require.NotEmpty(t, changedField)
	assert.Contains(t, changedField, "page-00")
	assert.Contains(t, changedField, "page-07")
	assert.NotContains(t, changedField, "page-08")
	assert.Contains(t, changedField, "... and 17 more URLs")
}

func TestFormatMonitorStartMessage(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	urls := []string{"http://example.com/a", "http://example.com/b"}

	payload := FormatMonitorStartMessage(urls, "monitor-20250101-120000", cfg)

	require.Len(t, payload.Embeds, 1)
	embed := payload.Embeds[0]
	assert.Equal(t, "👁️ Page Monitoring Started", embed.Title)
	assert.Equal(t, InfoEmbedColor, embed.Color)
	assert.Contains(t, embed.Description, "**Total URLs:** 2")
	assert.Contains(t, embed.Description, "http://example.com/a")
	assert.Contains(t, embed.Description, "http://example.com/b")
}

func TestFormatMonitorStartMessage_SamplesLargeURLSets(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	urls := make([]string, 30)
	for i := range urls {
		urls[i] = fmt.Sprintf("http://example.com/target-%02d", i)
	}

	payload := FormatMonitorStartMessage(urls, "monitor-20250101-120000", cfg)

	require.Len(t, payload.Embeds, 1)
	description := payload.Embeds[0].Description
	assert.Contains(t, description, "**Total URLs:** 30")
	assert.Contains(t, description, "Sample URLs")
	assert.Contains(t, description, "target-07")
	assert.NotContains(t, description, "target-08")
	assert.Contains(t, description, "... and 22 more URLs")
}

func TestBuildMentions(t *testing.T) {
	assert.Empty(t, buildMentions(nil))
	assert.Equal(t, "<@&1>", buildMentions([]string{"1"}))
	assert.Equal(t, "<@&1> <@&2>", buildMentions([]string{"1", "2"}))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "exact", truncateString("exact", 5))
	truncated := truncateString(strings.Repeat("a", 20), 10)
	assert.Len(t, truncated, 10)
	assert.True(t, strings.HasSuffix(truncated, "..."))
}
