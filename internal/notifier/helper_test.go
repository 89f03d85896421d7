package notifier

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pagesentry/pagesentry/internal/comparator"
	"github.com/pagesentry/pagesentry/internal/config"
	"github.com/pagesentry/pagesentry/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHelper(t *testing.T, cfg config.NotificationConfig) (*NotificationHelper, *capturedWebhookRequest) {
	t.Helper()
	server, captured := newWebhookServer(t, http.StatusNoContent)
	if cfg.DiscordWebhookURL == "" {
		cfg.DiscordWebhookURL = server.URL
	}
	helper := NewNotificationHelper(newTestNotifier(), cfg, zerolog.Nop())
	return helper, captured
}

func TestNotificationHelper_SendChangeNotification(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	helper, captured := newTestHelper(t, cfg)

	info := changeInfoFixture()
	info.DiffReportPath = nil

	sent := helper.SendChangeNotification(context.Background(), info)
	require.True(t, sent)
	require.Len(t, captured.Payload.Embeds, 1)
	assert.Equal(t, "🔔 Page Change Detected", captured.Payload.Embeds[0].Title)
}

func TestNotificationHelper_SendChangeNotification_BelowThreshold(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	helper, captured := newTestHelper(t, cfg)

	info := changeInfoFixture()
	info.ChangeScore = 3.0
	info.AlertThreshold = 10.0

	sent := helper.SendChangeNotification(context.Background(), info)
	assert.False(t, sent)
	assert.Empty(t, captured.Payload.Embeds, "no webhook call expected")
}

func TestNotificationHelper_SendChangeNotification_ThresholdIsExclusive(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	helper, captured := newTestHelper(t, cfg)

	info := changeInfoFixture()
	info.ChangeScore = 10.0
	info.AlertThreshold = 10.0

	sent := helper.SendChangeNotification(context.Background(), info)
	assert.False(t, sent, "score equal to threshold must not alert")
	assert.Empty(t, captured.Payload.Embeds)
}

func TestNotificationHelper_SendChangeNotification_NoWebhook(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	helper := NewNotificationHelper(newTestNotifier(), cfg, zerolog.Nop())

	sent := helper.SendChangeNotification(context.Background(), changeInfoFixture())
	assert.False(t, sent)
}

func TestNotificationHelper_SendChangeNotification_FirstSeen(t *testing.T) {
	t.Run("suppressed by default", func(t *testing.T) {
		cfg := config.NewDefaultNotificationConfig()
		helper, captured := newTestHelper(t, cfg)

		info := changeInfoFixture()
		info.FirstSeen = true

		sent := helper.SendChangeNotification(context.Background(), info)
		assert.False(t, sent)
		assert.Empty(t, captured.Payload.Embeds)
	})

	t.Run("sent when enabled", func(t *testing.T) {
		cfg := config.NewDefaultNotificationConfig()
		cfg.NotifyOnFirstSeen = true
		helper, captured := newTestHelper(t, cfg)

		info := changeInfoFixture()
		info.FirstSeen = true
		info.ChangeScore = 0
		info.DiffReportPath = nil

		sent := helper.SendChangeNotification(context.Background(), info)
		require.True(t, sent)
		require.Len(t, captured.Payload.Embeds, 1)
		assert.Equal(t, "👁️ New Page Tracked", captured.Payload.Embeds[0].Title)
	})
}

func TestNotificationHelper_SendChangeNotification_AttachesDiffReport(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	require.True(t, cfg.AttachDiffReport)
	helper, captured := newTestHelper(t, cfg)

	reportPath := filepath.Join(t.TempDir(), "diff-report.html")
	require.NoError(t, os.WriteFile(reportPath, []byte("<html>diff</html>"), 0644))

	info := changeInfoFixture()
	info.DiffReportPath = &reportPath

	sent := helper.SendChangeNotification(context.Background(), info)
	require.True(t, sent)
	assert.Equal(t, "diff-report.html", captured.AttachmentName)
	assert.Equal(t, "<html>diff</html>", string(captured.AttachmentData))
}

func TestNotificationHelper_SendChangeNotification_AttachmentDisabled(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	cfg.AttachDiffReport = false
	helper, captured := newTestHelper(t, cfg)

	reportPath := filepath.Join(t.TempDir(), "diff-report.html")
	require.NoError(t, os.WriteFile(reportPath, []byte("<html>diff</html>"), 0644))

	info := changeInfoFixture()
	info.DiffReportPath = &reportPath

	sent := helper.SendChangeNotification(context.Background(), info)
	require.True(t, sent)
	assert.Empty(t, captured.AttachmentName, "attachment must be omitted when disabled")
}

func TestNotificationHelper_SendFetchErrorNotification(t *testing.T) {
	t.Run("sent when enabled", func(t *testing.T) {
		cfg := config.NewDefaultNotificationConfig()
		helper, captured := newTestHelper(t, cfg)

		helper.SendFetchErrorNotification(context.Background(), models.FetchErrorInfo{
			URL:        "http://example.com/down",
			CycleID:    "monitor-20250101-120000",
			Source:     "fetcher",
			Error:      "connection refused",
			OccurredAt: time.Now(),
		})

		require.Len(t, captured.Payload.Embeds, 1)
		assert.Equal(t, "⚠️ Monitor Fetch Error", captured.Payload.Embeds[0].Title)
	})

	t.Run("suppressed when disabled", func(t *testing.T) {
		cfg := config.NewDefaultNotificationConfig()
		cfg.NotifyOnFailure = false
		helper, captured := newTestHelper(t, cfg)

		helper.SendFetchErrorNotification(context.Background(), models.FetchErrorInfo{URL: "http://example.com/down"})
		assert.Empty(t, captured.Payload.Embeds)
	})
}

func TestNotificationHelper_SendCycleCompleteNotification(t *testing.T) {
	t.Run("sent when enabled", func(t *testing.T) {
		cfg := config.NewDefaultNotificationConfig()
		helper, captured := newTestHelper(t, cfg)

		helper.SendCycleCompleteNotification(context.Background(), models.CycleSummaryData{
			CycleID:      "monitor-20250101-120000",
			StartedAt:    time.Now().Add(-time.Minute),
			CompletedAt:  time.Now(),
			TotalTargets: 3,
			CheckedCount: 3,
			ChangesBySeverity: map[string]int{
				string(comparator.SeverityModerate): 1,
			},
		})

		require.Len(t, captured.Payload.Embeds, 1)
		assert.Equal(t, "🔄 Monitor Cycle Complete", captured.Payload.Embeds[0].Title)
	})

	t.Run("suppressed when disabled", func(t *testing.T) {
		cfg := config.NewDefaultNotificationConfig()
		cfg.NotifyOnCycleComplete = false
		helper, captured := newTestHelper(t, cfg)

		helper.SendCycleCompleteNotification(context.Background(), models.CycleSummaryData{CycleID: "x"})
		assert.Empty(t, captured.Payload.Embeds)
	})
}

func TestNotificationHelper_SendMonitorStartNotification(t *testing.T) {
	cfg := config.NewDefaultNotificationConfig()
	helper, captured := newTestHelper(t, cfg)

	helper.SendMonitorStartNotification(context.Background(), []string{"http://example.com/a"}, "monitor-20250101-120000")

	require.Len(t, captured.Payload.Embeds, 1)
	assert.Equal(t, "👁️ Page Monitoring Started", captured.Payload.Embeds[0].Title)
}
