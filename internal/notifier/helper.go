package notifier

import (
	"context"

	"github.com/pagesentry/pagesentry/internal/config"
	"github.com/pagesentry/pagesentry/internal/models"

	"github.com/rs/zerolog"
)

// NotificationHelper provides a high-level interface for sending monitoring
// notifications. It owns the gating rules: which events notify at all, and
// whether a change clears its alert threshold.
type NotificationHelper struct {
	discordNotifier *DiscordNotifier
	cfg             config.NotificationConfig
	logger          zerolog.Logger
}

// NewNotificationHelper creates a new NotificationHelper.
func NewNotificationHelper(dn *DiscordNotifier, cfg config.NotificationConfig, logger zerolog.Logger) *NotificationHelper {
	return &NotificationHelper{
		discordNotifier: dn,
		cfg:             cfg,
		logger:          logger.With().Str("component", "NotificationHelper").Logger(),
	}
}

// canSend reports whether a Discord notification can go out at all.
func (nh *NotificationHelper) canSend() bool {
	return nh.discordNotifier != nil && nh.cfg.DiscordWebhookURL != ""
}

// SendChangeNotification sends a change alert for one monitored page. It
// returns true when an alert was actually delivered: first-seen pages notify
// only when NotifyOnFirstSeen is set, and changed pages only when their
// change score exceeds the alert threshold.
func (nh *NotificationHelper) SendChangeNotification(ctx context.Context, info models.PageChangeInfo) bool {
	if !nh.canSend() {
		return false
	}

	if info.FirstSeen {
		if !nh.cfg.NotifyOnFirstSeen {
			nh.logger.Debug().Str("url", info.URL).Msg("First-seen notification disabled, skipping")
			return false
		}
	} else if info.ChangeScore <= info.AlertThreshold {
		nh.logger.Debug().
			Str("url", info.URL).
			Float64("change_score", info.ChangeScore).
			Float64("alert_threshold", info.AlertThreshold).
			Msg("Change score below alert threshold, skipping notification")
		return false
	}

	attachmentPath := ""
	if nh.cfg.AttachDiffReport && info.DiffReportPath != nil {
		attachmentPath = *info.DiffReportPath
	}

	payload := FormatChangeAlertMessage(info, nh.cfg)
	if err := nh.discordNotifier.SendNotification(ctx, nh.cfg.DiscordWebhookURL, payload, attachmentPath); err != nil {
		nh.logger.Error().Err(err).Str("url", info.URL).Msg("Failed to send change notification")
		return false
	}

	nh.logger.Info().
		Str("url", info.URL).
		Float64("change_score", info.ChangeScore).
		Str("severity", info.Severity).
		Msg("Change notification sent")
	return true
}

// SendFetchErrorNotification sends an alert for a failed page check.
func (nh *NotificationHelper) SendFetchErrorNotification(ctx context.Context, info models.FetchErrorInfo) {
	if !nh.canSend() || !nh.cfg.NotifyOnFailure {
		return
	}

	payload := FormatFetchErrorMessage(info, nh.cfg)
	if err := nh.discordNotifier.SendNotification(ctx, nh.cfg.DiscordWebhookURL, payload, ""); err != nil {
		nh.logger.Error().Err(err).Str("url", info.URL).Msg("Failed to send fetch error notification")
	}
}

// SendCycleCompleteNotification sends the end-of-cycle summary.
func (nh *NotificationHelper) SendCycleCompleteNotification(ctx context.Context, data models.CycleSummaryData) {
	if !nh.canSend() || !nh.cfg.NotifyOnCycleComplete {
		return
	}

	nh.logger.Info().
		Str("cycle_id", data.CycleID).
		Int("total_targets", data.TotalTargets).
		Int("changed_count", len(data.ChangedURLs)).
		Msg("Sending cycle complete notification")

	payload := FormatCycleCompleteMessage(data, nh.cfg)
	if err := nh.discordNotifier.SendNotification(ctx, nh.cfg.DiscordWebhookURL, payload, ""); err != nil {
		nh.logger.Error().Err(err).Str("cycle_id", data.CycleID).Msg("Failed to send cycle complete notification")
	}
}

// SendMonitorStartNotification announces the URL set a monitoring run covers.
func (nh *NotificationHelper) SendMonitorStartNotification(ctx context.Context, monitoredURLs []string, cycleID string) {
	if !nh.canSend() {
		return
	}

	payload := FormatMonitorStartMessage(monitoredURLs, cycleID, nh.cfg)
	if err := nh.discordNotifier.SendNotification(ctx, nh.cfg.DiscordWebhookURL, payload, ""); err != nil {
		nh.logger.Error().Err(err).Str("cycle_id", cycleID).Msg("Failed to send monitor start notification")
	}
}
