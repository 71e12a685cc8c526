// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/autoban/config.yaml",
	"/etc/autoban/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from defaults, the config file and the
// environment, then validates it. Corrected defects are available from
// Warnings; only an unusable server section is an error.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"ingest.allowed_origins",
	"detection.resource.trackable",
	"detection.resource.rare",
	"detection.grace.recognized_causes",
	"detection.grace.launch_items",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"autoban_addr":        "server.addr",
	"http_addr":           "server.addr",
	"shutdown_timeout":    "server.shutdown_timeout",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Detection
	"fly_min_ascent_velocity":    "detection.flight.min_ascent_velocity",
	"fly_max_ascent_samples":     "detection.flight.max_ascent_samples",
	"fly_ban_threshold":          "detection.flight.ban_threshold",
	"speed_walk_base":            "detection.speed.walk_base",
	"speed_sprint_base":          "detection.speed.sprint_base",
	"speed_per_boost_level":      "detection.speed.per_boost_level",
	"speed_leniency":             "detection.speed.leniency",
	"speed_ban_threshold":        "detection.speed.ban_threshold",
	"freecam_stationary_after":   "detection.freecam.stationary_after",
	"freecam_snap_distance":      "detection.freecam.snap_distance",
	"freecam_pitch_lock_degrees": "detection.freecam.pitch_lock_degrees",
	"freecam_ban_threshold":      "detection.freecam.ban_threshold",
	"trackable_resources":        "detection.resource.trackable",
	"rare_resources":             "detection.resource.rare",
	"rare_resource_max_depth":    "detection.resource.max_depth",
	"resource_streak_threshold":  "detection.resource.suspicious_streak",
	"resource_burst_threshold":   "detection.resource.burst_threshold",
	"resource_burst_window":      "detection.resource.burst_window",
	"grace_window_ticks":         "detection.grace.window_ticks",
	"grace_teleport_causes":      "detection.grace.recognized_causes",
	"grace_launch_speed":         "detection.grace.launch_speed",
	"grace_launch_items":         "detection.grace.launch_items",
	"decay_interval":             "detection.decay_interval",
	"outbox_size":                "detection.outbox_size",

	// Enforcement and ingest
	"enforcement_enabled":    "enforcement.enabled",
	"enforcement_queue_size": "enforcement.queue_size",
	"ingest_token_secret":    "ingest.token_secret",
	"ingest_allowed_origins": "ingest.allowed_origins",

	// Notifications
	"discord_webhook_url":       "notify.discord.webhook_url",
	"discord_webhook_enabled":   "notify.discord.enabled",
	"discord_min_severity":      "notify.discord.min_severity",
	"webhook_url":               "notify.webhook.webhook_url",
	"webhook_enabled":           "notify.webhook.enabled",
	"webhook_min_severity":      "notify.webhook.min_severity",
	"notify_send_timeout":       "notify.send_timeout",
	"notify_announce_startup":   "notify.announce_startup",
	"notify_rate_limit":         "notify.rate_limit",
	"notify_rate_burst":         "notify.rate_burst",
	"notify_breaker_failures":   "notify.breaker_failures",
	"notify_breaker_open_delay": "notify.breaker_timeout",

	// Alert store
	"alert_store_enabled":   "store.enabled",
	"alert_store_path":      "store.path",
	"alert_store_in_memory": "store.in_memory",
	"alert_retention":       "store.retention",
	"alert_store_gc":        "store.gc_interval",
}

// envTransformFunc maps an environment variable to its config path.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
