// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

/*
Package main is the entry point for the Autoban server.

Autoban watches live movement and resource telemetry from game hosts,
scores it against behavioral heuristics and asks the host to ban entities
that keep tripping them.

# Application Architecture

	autoban (root)
	├── detection-layer
	│   ├── decay-scheduler     halves violation counters on a cadence
	│   └── event-bus           Watermill router feeding the engine
	├── delivery-layer
	│   ├── alert-dispatcher    outbox to alert store and notifiers
	│   ├── ingest-hub          enforce frames to connected hosts
	│   └── alertstore-gc       BadgerDB retention and value-log GC
	└── api-layer
	    └── http-server         /v1/telemetry, /v1/entities, /v1/alerts

# Configuration

Settings load from defaults, then config.yaml (or CONFIG_PATH), then
environment variables. See package config for the variable list.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. Hosts receive a going-away
close frame, in-flight requests drain within SERVER_SHUTDOWN_TIMEOUT and
the alert store is closed last.
*/
package main
