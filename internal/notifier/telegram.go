package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"PortfolioBench/internal/apperr"
	"PortfolioBench/internal/collector"
	"PortfolioBench/internal/logging"
)

// DefaultAPIBase is the Telegram Bot API root.
const DefaultAPIBase = "https://api.telegram.org"

// TelegramNotifier sends messages and charts via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	APIBase  string
	Client   *http.Client
	// Backoff is the first retry delay; it doubles per attempt.
	Backoff time.Duration
	Log     *zap.SugaredLogger
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string, log *zap.SugaredLogger) *TelegramNotifier {
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		APIBase:  DefaultAPIBase,
		Client:   collector.NewHTTPClient(proxyURL, 30*time.Second),
		Backoff:  time.Second,
		Log:      logging.OrNop(log),
	}
}

func (t *TelegramNotifier) method(name string) string {
	base := t.APIBase
	if base == "" {
		base = DefaultAPIBase
	}
	return fmt.Sprintf("%s/bot%s/%s", strings.TrimRight(base, "/"), t.BotToken, name)
}

// Send sends a message to the configured chat.
func (t *TelegramNotifier) Send(text string) error {
	payload := map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := t.Client.Post(t.method("sendMessage"), "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return t.check("sendMessage", resp)
}

// SendPhoto uploads an image with an optional HTML caption.
func (t *TelegramNotifier) SendPhoto(ctx context.Context, filename string, image []byte, caption string) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("chat_id", t.ChatID); err != nil {
		return err
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			return err
		}
		if err := mw.WriteField("parse_mode", "HTML"); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("photo", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(image); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.method("sendPhoto"), &buf)
	if err != nil {
		return fmt.Errorf("create photo request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send photo: %w", err)
	}
	return t.check("sendPhoto", resp)
}

// check turns a non-200 reply into an UpstreamError. The URL carries the
// bot token, so only the method name is reported.
func (t *TelegramNotifier) check(method string, resp *http.Response) error {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return &apperr.UpstreamError{
			Source:     "telegram",
			URL:        method,
			StatusCode: resp.StatusCode,
			Detail:     string(respBody),
		}
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	return t.retry(ctx, maxRetries, func() error { return t.Send(text) })
}

// SendPhotoWithRetry is SendPhoto with the same backoff as SendWithRetry.
func (t *TelegramNotifier) SendPhotoWithRetry(ctx context.Context, filename string, image []byte, caption string, maxRetries int) error {
	return t.retry(ctx, maxRetries, func() error { return t.SendPhoto(ctx, filename, image, caption) })
}

func (t *TelegramNotifier) retry(ctx context.Context, maxRetries int, send func() error) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := send()
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := t.Backoff * time.Duration(1<<uint(i))
		t.Log.Warnf("telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
