// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

/*
Package config loads the server configuration with koanf.

Layers, lowest precedence first:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/autoban/config.yaml
 3. Environment variables, mapped explicitly by envTransformFunc

Only mapped environment variables are read, so unrelated variables never
leak into the configuration.

Validation is tolerant by design of the deployment: a bad logging, store
or notifier section falls back to defaults (or disables the notifier) and
is reported through Config.Warnings. Detection thresholds are corrected by
detection.Config.Sanitize. Only an unusable server section fails Load.

Common environment variables:

	AUTOBAN_ADDR                 server.addr (default :8085)
	LOG_LEVEL, LOG_FORMAT        logging.level, logging.format
	FLY_BAN_THRESHOLD            detection.flight.ban_threshold
	SPEED_BAN_THRESHOLD          detection.speed.ban_threshold
	FREECAM_BAN_THRESHOLD        detection.freecam.ban_threshold
	DECAY_INTERVAL               detection.decay_interval
	GRACE_WINDOW_TICKS           detection.grace.window_ticks
	RARE_RESOURCES               detection.resource.rare (comma separated)
	ENFORCEMENT_ENABLED          enforcement.enabled
	INGEST_TOKEN_SECRET          ingest.token_secret
	DISCORD_WEBHOOK_URL          notify.discord.webhook_url
	DISCORD_WEBHOOK_ENABLED      notify.discord.enabled
	WEBHOOK_URL, WEBHOOK_ENABLED notify.webhook.*
	ALERT_STORE_PATH             store.path
	ALERT_RETENTION              store.retention
*/
package config
