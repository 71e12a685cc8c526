// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package notify

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/autoban/internal/detection"
)

// WebhookConfig configures the generic webhook notifier.
type WebhookConfig struct {
	WebhookURL  string            `json:"webhook_url"`
	Headers     map[string]string `json:"headers,omitempty"` // e.g. Authorization
	Enabled     bool              `json:"enabled"`
	MinSeverity string            `json:"min_severity"`
}

// WebhookPayload is the JSON body posted to the endpoint.
type WebhookPayload struct {
	Alert     detection.Alert `json:"alert"`
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
}

// WebhookNotifier posts alerts to a generic HTTP endpoint.
type WebhookNotifier struct {
	webhookURL  string
	headers     map[string]string
	client      *http.Client
	enabled     bool
	minSeverity detection.Severity
}

// NewWebhookNotifier creates a generic webhook notifier.
func NewWebhookNotifier(cfg WebhookConfig) *WebhookNotifier {
	return &WebhookNotifier{
		webhookURL:  cfg.WebhookURL,
		headers:     maps.Clone(cfg.Headers),
		enabled:     cfg.Enabled,
		minSeverity: parseSeverity(cfg.MinSeverity),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the notifier name.
func (n *WebhookNotifier) Name() string {
	return "webhook"
}

// Enabled returns whether this notifier is enabled.
func (n *WebhookNotifier) Enabled() bool {
	return n.enabled && n.webhookURL != ""
}

// MinSeverity returns the lowest severity this notifier sends.
func (n *WebhookNotifier) MinSeverity() detection.Severity {
	return n.minSeverity
}

// Send delivers an alert to the webhook endpoint.
func (n *WebhookNotifier) Send(ctx context.Context, alert detection.Alert) error {
	if !n.Enabled() {
		return ErrNotifierDisabled
	}

	body, err := json.Marshal(WebhookPayload{
		Alert:     alert,
		EventType: "detection_alert",
		Timestamp: time.Now(),
		Source:    "autoban",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range n.headers {
		req.Header.Set(key, value)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
