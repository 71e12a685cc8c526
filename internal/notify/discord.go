// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/autoban/internal/detection"
	"github.com/tomtom215/autoban/internal/logging"
)

// DiscordWebhookPrefix is the only accepted Discord webhook URL prefix.
const DiscordWebhookPrefix = "https://discord.com/api/webhooks/"

// Errors returned by ValidateDiscordURL.
var (
	ErrDiscordURLPrefix      = errors.New("discord webhook URL must start with " + DiscordWebhookPrefix)
	ErrDiscordURLPlaceholder = errors.New("discord webhook URL is still the placeholder")
)

// Embed colors.
const (
	colorInfo    = 3447003  // blue
	colorWarning = 16776960 // yellow
	colorBan     = 16711680 // red
)

// DiscordConfig configures the Discord notifier.
type DiscordConfig struct {
	WebhookURL  string `json:"webhook_url"`
	Enabled     bool   `json:"enabled"`
	MinSeverity string `json:"min_severity"`
}

// DiscordNotifier sends alerts to Discord via webhooks.
type DiscordNotifier struct {
	webhookURL  string
	client      *http.Client
	enabled     bool
	minSeverity detection.Severity
	mu          sync.RWMutex
}

// ValidateDiscordURL checks that url is a real Discord webhook.
func ValidateDiscordURL(url string) error {
	if !strings.HasPrefix(url, DiscordWebhookPrefix) {
		return ErrDiscordURLPrefix
	}
	if strings.Contains(url, "YOUR_WEBHOOK") {
		return ErrDiscordURLPlaceholder
	}
	return nil
}

// NewDiscordNotifier creates a Discord notifier. An invalid webhook URL
// disables it with a warning.
func NewDiscordNotifier(cfg DiscordConfig) *DiscordNotifier {
	n := &DiscordNotifier{
		webhookURL:  cfg.WebhookURL,
		enabled:     cfg.Enabled,
		minSeverity: parseSeverity(cfg.MinSeverity),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	if !cfg.Enabled {
		return n
	}
	if err := ValidateDiscordURL(cfg.WebhookURL); err != nil {
		logging.Warn().
			Err(err).
			Str("webhook", logging.MaskURL(cfg.WebhookURL)).
			Msg("Discord notifications disabled")
		n.enabled = false
	}
	return n
}

// Name returns the notifier name.
func (n *DiscordNotifier) Name() string {
	return "discord"
}

// Enabled returns whether this notifier is enabled.
func (n *DiscordNotifier) Enabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled && n.webhookURL != ""
}

// MinSeverity returns the lowest severity this notifier sends.
func (n *DiscordNotifier) MinSeverity() detection.Severity {
	return n.minSeverity
}

// Send delivers an alert to Discord.
func (n *DiscordNotifier) Send(ctx context.Context, alert detection.Alert) error {
	n.mu.RLock()
	if !n.enabled || n.webhookURL == "" {
		n.mu.RUnlock()
		return ErrNotifierDisabled
	}
	webhookURL := n.webhookURL
	n.mu.RUnlock()

	body, err := json.Marshal(discordWebhookPayload{
		Embeds: []discordEmbed{buildEmbed(alert)},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create Discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// buildEmbed creates a Discord embed from an alert.
func buildEmbed(alert detection.Alert) discordEmbed {
	color, label := severityStyle(alert.Severity)

	var fields []discordEmbedField
	if alert.Entity != "" {
		fields = append(fields,
			discordEmbedField{Name: "Player", Value: alert.Name, Inline: true},
			discordEmbedField{Name: "UUID", Value: string(alert.Entity), Inline: true},
		)
	}
	if alert.Check != detection.CheckTypeSystem {
		fields = append(fields, discordEmbedField{Name: "Check", Value: alert.Check.Label(), Inline: true})
	}
	if alert.Violations > 0 {
		fields = append(fields, discordEmbedField{Name: "Violations", Value: strconv.Itoa(alert.Violations), Inline: true})
	}
	if alert.Detail != "" {
		fields = append(fields, discordEmbedField{Name: "Detail", Value: alert.Detail})
	}
	if alert.Location != nil {
		fields = append(fields, discordEmbedField{Name: "Location", Value: alert.Location.String()})
	}

	ts := alert.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	return discordEmbed{
		Title:     fmt.Sprintf("[%s] %s", label, alert.Title),
		Color:     color,
		Timestamp: ts.UTC().Format(time.RFC3339),
		Fields:    fields,
		Footer: discordEmbedFooter{
			Text: "Autoban Anti-Cheat",
		},
	}
}

// severityStyle returns the embed color and label for a severity.
func severityStyle(s detection.Severity) (int, string) {
	switch s {
	case detection.SeverityBan:
		return colorBan, "Ban"
	case detection.SeverityWarning:
		return colorWarning, "Suspicious"
	default:
		return colorInfo, "Ore Log"
	}
}

// Discord webhook structures
type discordWebhookPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

type discordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Footer      discordEmbedFooter  `json:"footer,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordEmbedFooter struct {
	Text string `json:"text,omitempty"`
}
