package notifier

// Discord formatting constants
const (
	DiscordUsername = "PageSentry Monitor"

	DefaultEmbedColor       = 0x2B2D31 // Discord dark theme color
	SuccessEmbedColor       = 0x5CB85C // Bootstrap success green
	InfoEmbedColor          = 0x5BC0DE // Bootstrap info blue
	WarningEmbedColor       = 0xF0AD4E // Bootstrap warning orange
	InterruptEmbedColor     = 0xFD7E14 // Orange for interruptions
	ErrorEmbedColor         = 0xD9534F // Bootstrap danger red
	CriticalErrorEmbedColor = 0xDC3545 // Red for critical errors
)

// Field length limits keep embeds under Discord's per-field caps.
const (
	MaxFieldValueLength = 900
	MaxErrorTextLength  = 800
	MaxURLSampleCount   = 8
	MaxURLListCount     = 10
)
