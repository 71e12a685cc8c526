// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

// Package middleware provides HTTP middleware shared by the API router:
// request IDs tied into the logging correlation ID, and Prometheus request
// instrumentation.
package middleware
