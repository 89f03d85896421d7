package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pagesentry/pagesentry/internal/common"
	"github.com/pagesentry/pagesentry/internal/models"

	"github.com/rs/zerolog"
)

const (
	defaultRetryAttempts = 2
	defaultRetryDelay    = 5 * time.Second
	maxAttachmentSize    = 8 * 1024 * 1024 // Discord's file size limit without Nitro
)

// DiscordNotifier delivers message payloads to a Discord webhook. The webhook
// URL is supplied per send call so one notifier can serve several channels.
type DiscordNotifier struct {
	logger        zerolog.Logger
	httpClient    *http.Client
	retryAttempts int
	retryDelay    time.Duration
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(logger zerolog.Logger, httpClient *http.Client) *DiscordNotifier {
	moduleLogger := logger.With().Str("component", "DiscordNotifier").Logger()

	if httpClient == nil {
		moduleLogger.Warn().Msg("HTTP client is nil, using default client with 20s timeout")
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}

	return &DiscordNotifier{
		logger:        moduleLogger,
		httpClient:    httpClient,
		retryAttempts: defaultRetryAttempts,
		retryDelay:    defaultRetryDelay,
	}
}

// SendNotification posts a message payload and an optional file attachment to
// the given webhook URL. Transient failures (HTTP 429 and 5xx) are retried.
func (dn *DiscordNotifier) SendNotification(ctx context.Context, webhookURL string, payload models.DiscordMessagePayload, attachmentPath string) error {
	if webhookURL == "" {
		dn.logger.Debug().Msg("Webhook URL is empty, skipping Discord notification")
		return nil
	}

	if _, err := url.ParseRequestURI(webhookURL); err != nil {
		return common.WrapError(err, "invalid Discord webhook URL")
	}

	body, contentType, err := dn.buildRequestBody(payload, attachmentPath)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= dn.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(dn.retryDelay):
			}
			dn.logger.Debug().Int("attempt", attempt+1).Msg("Retrying Discord notification")
		}

		retryable, err := dn.post(ctx, webhookURL, body.Bytes(), contentType)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}
	return lastErr
}

// buildRequestBody assembles the multipart form Discord expects: a
// payload_json field plus an optional file part.
func (dn *DiscordNotifier) buildRequestBody(payload models.DiscordMessagePayload, attachmentPath string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, "", common.WrapError(err, "failed to marshal Discord payload")
	}
	if err := writer.WriteField("payload_json", string(payloadJSON)); err != nil {
		return nil, "", common.WrapError(err, "failed to write payload_json field")
	}

	if attachmentPath != "" {
		if err := dn.attachFile(writer, attachmentPath); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", common.WrapError(err, "failed to close multipart writer")
	}
	return body, writer.FormDataContentType(), nil
}

// attachFile adds the report file as a form part. Oversized files are skipped
// rather than failing the whole notification.
func (dn *DiscordNotifier) attachFile(writer *multipart.Writer, attachmentPath string) error {
	info, err := os.Stat(attachmentPath)
	if err != nil {
		return common.WrapError(err, fmt.Sprintf("failed to stat attachment '%s'", attachmentPath))
	}
	if info.Size() > maxAttachmentSize {
		dn.logger.Warn().
			Str("file_path", attachmentPath).
			Int64("size", info.Size()).
			Msg("Attachment exceeds Discord file size limit, sending message without it")
		return nil
	}

	fileData, err := os.ReadFile(attachmentPath)
	if err != nil {
		return common.WrapError(err, fmt.Sprintf("failed to read attachment '%s'", attachmentPath))
	}

	part, err := writer.CreateFormFile("file[0]", filepath.Base(attachmentPath))
	if err != nil {
		return common.WrapError(err, "failed to create form file part")
	}
	if _, err := io.Copy(part, bytes.NewReader(fileData)); err != nil {
		return common.WrapError(err, "failed to copy attachment into form")
	}
	return nil
}

// post executes one webhook request. The bool reports whether the failure is
// worth retrying.
func (dn *DiscordNotifier) post(ctx context.Context, webhookURL string, body []byte, contentType string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return false, common.WrapError(err, "failed to create Discord request")
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := dn.httpClient.Do(req)
	if err != nil {
		return true, common.WrapError(err, "failed to send Discord notification")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		dn.logger.Error().
			Int("status_code", resp.StatusCode).
			Str("response_body", string(respBody)).
			Msg("Discord notification failed")
		return retryable, common.NewError("discord notification failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	dn.logger.Debug().Int("status_code", resp.StatusCode).Msg("Discord notification sent")
	return false, nil
}
