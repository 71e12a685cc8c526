// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

// Package validation wraps go-playground/validator v10 with a shared
// validator instance, the project's custom tags and readable messages.
//
// Custom tags:
//
//	discord_webhook   a Discord webhook URL that is not the placeholder
//
// Errors come back as *StructError, whose FieldErrors carry the full
// namespace (for example "Config.Logging.Level") so callers can decide
// per section whether a defect is fatal.
package validation
