package notifier

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// WebhookNotifier posts reports to a generic HTTP webhook.
type WebhookNotifier struct {
	url    string
	secret string
	client *http.Client
}

// NewWebhookNotifier creates a generic webhook notifier.
// If secret is non-empty, requests are signed with HMAC-SHA256.
func NewWebhookNotifier(url, secret string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		secret: secret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (w *WebhookNotifier) Name() string { return "webhook" }

type webhookPayload struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
	ImageName string `json:"image_name,omitempty"`
	ImagePNG  string `json:"image_png,omitempty"` // base64
}

func (w *WebhookNotifier) Notify(ctx context.Context, text, imagePath string) error {
	if err := w.send(ctx, text, imagePath); err != nil {
		return &NotifyError{Notifier: w.Name(), Err: err}
	}
	return nil
}

func (w *WebhookNotifier) send(ctx context.Context, text, imagePath string) error {
	payload := webhookPayload{
		Event:     "price_report",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Text:      text,
	}
	if imagePath != "" {
		img, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		payload.ImageName = filepath.Base(imagePath)
		payload.ImagePNG = base64.StdEncoding.EncodeToString(img)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "elektrina-monitor/1.0")

	if w.secret != "" {
		req.Header.Set("X-Signature-256", "sha256="+computeHMAC(body, []byte(w.secret)))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func computeHMAC(message, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}
