// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

/*
Package supervisor runs the server's long-lived components under a
suture v4 supervision tree.

	autoban (root)
	├── detection-layer
	│   ├── decay-scheduler
	│   └── event-bus
	├── delivery-layer
	│   ├── alert-dispatcher
	│   ├── ingest-hub
	│   └── alertstore-gc
	└── api-layer
	    └── http-server

Supervisor events (restarts, backoff, panics) are logged through
sutureslog into the zerolog pipeline via logging.NewSlogLogger.

Services that fail are restarted with suture's backoff. The event bus is
the exception: a Watermill router cannot be run twice, so a bus failure
stops the bus for good and the engine stops receiving telemetry, which
the health endpoint and ingest metrics make visible.
*/
package supervisor
