package config

// NotificationConfig defines configuration for notifications
type NotificationConfig struct {
	AttachDiffReport      bool     `json:"attach_diff_report" yaml:"attach_diff_report"`
	DiscordWebhookURL     string   `json:"discord_webhook_url,omitempty" yaml:"discord_webhook_url,omitempty" validate:"omitempty,url"`
	MentionRoleIDs        []string `json:"mention_role_ids,omitempty" yaml:"mention_role_ids,omitempty"`
	NotifyOnCycleComplete bool     `json:"notify_on_cycle_complete" yaml:"notify_on_cycle_complete"`
	NotifyOnFailure       bool     `json:"notify_on_failure" yaml:"notify_on_failure"`
	NotifyOnFirstSeen     bool     `json:"notify_on_first_seen" yaml:"notify_on_first_seen"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		AttachDiffReport:      true,
		DiscordWebhookURL:     "",
		MentionRoleIDs:        []string{},
		NotifyOnCycleComplete: true,
		NotifyOnFailure:       true,
		NotifyOnFirstSeen:     false,
	}
}
