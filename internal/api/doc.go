// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

/*
Package api serves the engine's HTTP surface on a chi router.

Routes:

	GET /healthz             liveness plus entity and host counts
	GET /metrics             Prometheus exposition
	GET /v1/telemetry        host WebSocket (see package ingest)
	GET /v1/entities/{id}    tracked state for one entity
	GET /v1/alerts           alert history, newest first
	                         ?entity=<id> filters to one entity
	                         ?limit=<n> caps the result (default 50, max 500)

JSON endpoints share the APIResponse envelope. The telemetry route sits
outside the rate limiter since hosts hold one long-lived connection each.
*/
package api
