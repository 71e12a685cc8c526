// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

// Package detection provides the behavioral cheat detection core: per-entity
// state, the movement, camera and resource-pattern classifiers, the grace
// and decay subsystems, and the escalation policy.
//
// Detection Architecture:
//
//	Telemetry Event -> Engine -> Classifiers -> Alerts -> Outbox -> Dispatcher
//	                     |            |
//	                     v            v
//	               Grace / Exempt  Escalation -> Enforcer
//
// The engine is driven by a single logical event stream (see the eventbus
// package) and performs no I/O itself. Alerts leave the core through a
// bounded, non-blocking Outbox; enforcement requests leave through the
// Enforcer interface. Both collaborators must never block the caller.
//
// Supported Classifiers:
//   - Flight: sustained vertical ascent while airborne
//   - Speed: horizontal displacement above the legitimate per-sample bound
//   - Freecam: position snap after a stationary period, and pitch lock
//   - Resource Pattern: streak and burst mining of rare resources (alert-only)
//
// Forgiveness:
// Every violation counter is decremented on a fixed cadence by the Decayer,
// and a grace window after recognized teleports and launches suppresses the
// movement and camera classifiers.
package detection
