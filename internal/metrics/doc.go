// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8085/metrics

# Available Metrics

Detection Metrics:
  - autoban_events_total: Telemetry events handled (counter), labels: type
  - autoban_events_skipped_total: Skipped events or samples (counter), labels: reason
  - autoban_violations_total: Violations raised (counter), labels: check
  - autoban_alerts_total: Alerts produced (counter), labels: check, severity
  - autoban_alerts_dropped_total: Alerts lost to a full outbox (counter)
  - autoban_enforcement_requests_total: Enforcement requests (counter), labels: check
  - autoban_grace_grants_total: Grace windows opened (counter), labels: source
  - autoban_decay_passes_total: Completed decay passes (counter)
  - autoban_active_entities: Tracked entities (gauge)

Notification Metrics:
  - autoban_notifications_total: Delivery attempts (counter), labels: notifier, result
  - autoban_notification_duration_seconds: Delivery latency (histogram)
  - autoban_alerts_persisted_total: Alert store writes (counter), labels: result
  - circuit_breaker_state / circuit_breaker_transitions_total: per-notifier breakers

Ingest and API Metrics:
  - autoban_ingest_connections: Connected hosts (gauge)
  - autoban_ingest_frames_total: Frames received (counter), labels: result
  - api_requests_total / api_request_duration_seconds: HTTP API traffic

# Usage

Components call the Record* helpers rather than touching collectors directly:

	metrics.RecordViolation("speed")
	metrics.RecordAlert("speed", "warning")
*/
package metrics
