package models

import "time"

// DiscordMessagePayload represents the JSON payload sent to a Discord webhook.
type DiscordMessagePayload struct {
	Content         string           `json:"content,omitempty"`          // Message content (text)
	Username        string           `json:"username,omitempty"`         // Override the default webhook username
	AvatarURL       string           `json:"avatar_url,omitempty"`       // Override the default webhook avatar
	TTS             bool             `json:"tts,omitempty"`              // Whether this is a text-to-speech message
	Embeds          []DiscordEmbed   `json:"embeds,omitempty"`           // Array of embed objects
	AllowedMentions *AllowedMentions `json:"allowed_mentions,omitempty"` // Allowed mentions for the message
}

// AllowedMentions specifies how mentions should be handled in a message.
type AllowedMentions struct {
	Parse       []string `json:"parse,omitempty"`        // Types of mentions to parse (e.g., "roles", "users", "everyone")
	Roles       []string `json:"roles,omitempty"`        // Array of role_ids to mention (max 100)
	Users       []string `json:"users,omitempty"`        // Array of user_ids to mention (max 100)
	RepliedUser bool     `json:"replied_user,omitempty"` // For replies, whether to mention the author of the message being replied to
}

// DiscordEmbed represents a Discord embed object.
type DiscordEmbed struct {
	Title       string                 `json:"title,omitempty"`       // Title of embed
	Description string                 `json:"description,omitempty"` // Description of embed
	URL         string                 `json:"url,omitempty"`         // URL of embed
	Timestamp   string                 `json:"timestamp,omitempty"`   // ISO8601 timestamp
	Color       int                    `json:"color,omitempty"`       // Color code of the embed
	Footer      *DiscordEmbedFooter    `json:"footer,omitempty"`
	Image       *DiscordEmbedImage     `json:"image,omitempty"`
	Thumbnail   *DiscordEmbedThumbnail `json:"thumbnail,omitempty"`
	Author      *DiscordEmbedAuthor    `json:"author,omitempty"`
	Fields      []DiscordEmbedField    `json:"fields,omitempty"` // Array of embed field objects
}

// DiscordEmbedFooter represents the footer of an embed.
type DiscordEmbedFooter struct {
	Text    string `json:"text"`               // Footer text
	IconURL string `json:"icon_url,omitempty"` // URL of footer icon (only supports http(s) and attachments)
}

// DiscordEmbedImage represents the image of an embed.
type DiscordEmbedImage struct {
	URL string `json:"url"` // Source URL of image (only supports http(s) and attachments)
}

// DiscordEmbedThumbnail represents the thumbnail of an embed.
type DiscordEmbedThumbnail struct {
	URL string `json:"url"` // Source URL of thumbnail (only supports http(s) and attachments)
}

// DiscordEmbedAuthor represents the author of an embed.
type DiscordEmbedAuthor struct {
	Name    string `json:"name"`               // Name of author
	URL     string `json:"url,omitempty"`      // URL of author (only supports http(s))
	IconURL string `json:"icon_url,omitempty"` // URL of author icon (only supports http(s) and attachments)
}

// DiscordEmbedField represents a field in an embed.
type DiscordEmbedField struct {
	Name   string `json:"name"`             // Name of the field
	Value  string `json:"value"`            // Value of the field
	Inline bool   `json:"inline,omitempty"` // Whether or not this field should display inline
}

// PageChangeInfo holds all relevant information about a detected page change
// to be used in notifications.
type PageChangeInfo struct {
	URL             string
	CycleID         string
	ChangeTime      time.Time
	ChangeScore     float64
	Severity        string
	AddedCount      int
	RemovedCount    int
	ModifiedCount   int
	SimilarityRatio float64
	DiffSummary     string
	OldHash         string
	NewHash         string
	DiffReportPath  *string // Path to a rendered diff report, if one was written
	AlertThreshold  float64
	FirstSeen       bool
}

// FetchErrorInfo describes a failed fetch for error notifications.
type FetchErrorInfo struct {
	URL        string
	CycleID    string
	Source     string
	Error      string
	OccurredAt time.Time
}

// CycleSummaryData aggregates one monitoring cycle for the completion notice.
type CycleSummaryData struct {
	CycleID           string
	StartedAt         time.Time
	CompletedAt       time.Time
	TotalTargets      int
	CheckedCount      int
	ChangedURLs       []string
	FailedURLs        []string
	ChangesBySeverity map[string]int
	Interrupted       bool
}
