// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Detection Metrics
	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoban_events_total",
			Help: "Total number of telemetry events handled by the detection engine",
		},
		[]string{"type"}, // "join", "leave", "teleport", "move", "resource_break"
	)

	EventsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoban_events_skipped_total",
			Help: "Total number of events or classifier samples skipped",
		},
		[]string{"reason"}, // "exempt", "malformed", "game_mode"
	)

	Violations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoban_violations_total",
			Help: "Total number of violations raised per check",
		},
		[]string{"check"},
	)

	AlertsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoban_alerts_total",
			Help: "Total number of alerts produced per check and severity",
		},
		[]string{"check", "severity"},
	)

	AlertsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "autoban_alerts_dropped_total",
			Help: "Alerts dropped because the outbox was full",
		},
	)

	EnforcementRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoban_enforcement_requests_total",
			Help: "Total number of enforcement requests issued per check",
		},
		[]string{"check"},
	)

	GraceGrants = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoban_grace_grants_total",
			Help: "Total number of grace windows opened",
		},
		[]string{"source"}, // "teleport", "launch"
	)

	DecayPasses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "autoban_decay_passes_total",
			Help: "Total number of completed violation decay passes",
		},
	)

	DecayPassesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "autoban_decay_passes_skipped_total",
			Help: "Decay passes skipped because a previous pass was still running",
		},
	)

	ActiveEntities = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "autoban_active_entities",
			Help: "Number of entities currently tracked by the detection engine",
		},
	)

	// Notification Metrics
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoban_notifications_total",
			Help: "Total number of notification delivery attempts",
		},
		[]string{"notifier", "result"}, // result: "success", "failure", "filtered"
	)

	NotificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "autoban_notification_duration_seconds",
			Help:    "Duration of notification deliveries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"notifier"},
	)

	AlertsPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoban_alerts_persisted_total",
			Help: "Total number of alerts written to the alert store",
		},
		[]string{"result"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Ingest Metrics
	IngestConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "autoban_ingest_connections",
			Help: "Number of active host telemetry connections",
		},
	)

	IngestFrames = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoban_ingest_frames_total",
			Help: "Total number of telemetry frames received",
		},
		[]string{"result"}, // "accepted", "rejected"
	)

	IngestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoban_ingest_errors_total",
			Help: "Total number of ingest errors by type",
		},
		[]string{"error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordEvent records a handled telemetry event.
func RecordEvent(eventType string) {
	EventsProcessed.WithLabelValues(eventType).Inc()
}

// RecordSkip records an event or classifier sample that was skipped.
func RecordSkip(reason string) {
	EventsSkipped.WithLabelValues(reason).Inc()
}

// RecordViolation records a violation raised by a check.
func RecordViolation(check string) {
	Violations.WithLabelValues(check).Inc()
}

// RecordAlert records an alert produced by the engine.
func RecordAlert(check, severity string) {
	AlertsRaised.WithLabelValues(check, severity).Inc()
}

// RecordAlertDropped records an alert lost to a full outbox.
func RecordAlertDropped() {
	AlertsDropped.Inc()
}

// RecordEnforcement records an enforcement request.
func RecordEnforcement(check string) {
	EnforcementRequests.WithLabelValues(check).Inc()
}

// RecordGraceGrant records an opened grace window.
func RecordGraceGrant(source string) {
	GraceGrants.WithLabelValues(source).Inc()
}

// RecordDecayPass records a decay pass and refreshes the entity gauge.
func RecordDecayPass(entities int) {
	DecayPasses.Inc()
	ActiveEntities.Set(float64(entities))
}

// RecordNotification records a notification delivery attempt.
func RecordNotification(notifier string, duration time.Duration, err error) {
	NotificationDuration.WithLabelValues(notifier).Observe(duration.Seconds())
	if err != nil {
		NotificationsSent.WithLabelValues(notifier, "failure").Inc()
		return
	}
	NotificationsSent.WithLabelValues(notifier, "success").Inc()
}

// RecordCircuitBreakerState records the state of a named breaker.
// state follows gobreaker: 0=closed, 1=half-open, 2=open.
func RecordCircuitBreakerState(name string, state int, from, to string) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordIngestFrame records a received telemetry frame.
func RecordIngestFrame(accepted bool) {
	if accepted {
		IngestFrames.WithLabelValues("accepted").Inc()
		return
	}
	IngestFrames.WithLabelValues("rejected").Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
