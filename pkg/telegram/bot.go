package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAPIURL  = "https://api.telegram.org"
	defaultTimeout = 30 * time.Second

	// SecretTokenHeader carries the secret_token registered with setWebhook.
	SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"
)

// Bot is the Telegram Bot API client.
type Bot struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewBot creates a new Telegram Bot client with the given token.
func NewBot(token string) *Bot {
	return &Bot{
		token:      token,
		baseURL:    defaultAPIURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SetAPIURL overrides the default Telegram API URL for testing purposes.
func (b *Bot) SetAPIURL(url string) {
	b.baseURL = strings.TrimRight(url, "/")
}

func (b *Bot) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", b.baseURL, b.token, method)
}

// SetWebhook registers the webhook URL with Telegram. An empty secretToken disables the header check.
func (b *Bot) SetWebhook(ctx context.Context, webhookURL, secretToken string) error {
	req := SetWebhookRequest{URL: webhookURL, SecretToken: secretToken, AllowedUpdates: []string{"message"}}
	if err := b.call(ctx, "setWebhook", req, nil); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

// DeleteWebhook removes the webhook registration.
func (b *Bot) DeleteWebhook(ctx context.Context) error {
	if err := b.call(ctx, "deleteWebhook", map[string]bool{"drop_pending_updates": false}, nil); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}

// SendMessage sends a plain text message to a Telegram chat.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	return b.SendMessageWithMode(ctx, chatID, text, "")
}

// SendMessageWithMode sends a message with optional parse mode (e.g. "Markdown").
func (b *Bot) SendMessageWithMode(ctx context.Context, chatID int64, text string, parseMode string) error {
	req := SendMessageRequest{ChatID: chatID, Text: text, ParseMode: parseMode}
	if err := b.call(ctx, "sendMessage", req, nil); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// GetFile resolves a file_id into a downloadable path.
func (b *Bot) GetFile(ctx context.Context, fileID string) (*File, error) {
	var f File
	if err := b.call(ctx, "getFile", map[string]string{"file_id": fileID}, &f); err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	if f.FilePath == "" {
		return nil, fmt.Errorf("telegram getFile: no file_path for %s", fileID)
	}
	return &f, nil
}

// DownloadFile fetches a file previously resolved with GetFile, refusing bodies above maxBytes.
func (b *Bot) DownloadFile(ctx context.Context, filePath string, maxBytes int64) ([]byte, string, error) {
	url := fmt.Sprintf("%s/file/bot%s/%s", b.baseURL, b.token, strings.TrimLeft(filePath, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("telegram file download error %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", fmt.Errorf("telegram file exceeds %d bytes", maxBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// call posts payload to a Bot API method and decodes the result into out when out is non-nil.
func (b *Bot) call(ctx context.Context, method string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.methodURL(method), bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var apiResp APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return fmt.Errorf("telegram %s API error %d: %s", method, resp.StatusCode, string(raw))
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram %s failed: %s", method, apiResp.Description)
	}
	if out != nil && len(apiResp.Result) > 0 {
		if err := json.Unmarshal(apiResp.Result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}
