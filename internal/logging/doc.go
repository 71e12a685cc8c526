// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

// Package logging provides centralized zerolog-based logging for Autoban.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("entity", id).Msg("entity joined")
//	logging.Error().Err(err).Msg("notification failed")
//
//	// With a correlation ID (one per telemetry frame or HTTP request)
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Warn().Msg("frame rejected")
//
// # Adapters
//
// Some libraries bring their own logging interface. The package bridges them
// to the same zerolog stream:
//
//   - NewSlogLogger: slog.Logger for sutureslog supervisor events
//   - NewWatermillLogger: watermill.LoggerAdapter for the event bus
//
// # Redaction
//
// Secrets never reach the log verbatim. Use SanitizeToken for bearer tokens
// and MaskURL for webhook URLs.
//
// # Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
