// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

// Package alertstore keeps a bounded history of detection alerts in
// BadgerDB so moderators can review what was flagged after the fact.
//
// Alerts expire through badger's native TTL. Queries iterate in reverse
// key order, so results are always newest first.
package alertstore
