// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package logging

import (
	"net/url"
	"strings"
)

// SanitizeToken masks a secret, keeping only its first and last 4 characters.
// Example: "eyJhbGciOiJIUzI1NiJ9.e30.abc123" -> "eyJh...c123"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// MaskURL hides the path secret of a webhook URL while keeping scheme and host.
// Example: "https://discord.com/api/webhooks/123/abcdef" -> "https://discord.com/api/webhooks/***"
func MaskURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	path := strings.Trim(u.Path, "/")
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[:i]
	} else {
		path = ""
	}
	if i := strings.LastIndexByte(path, '/'); i >= 0 && strings.HasPrefix(path, "api/webhooks") {
		path = path[:i]
	}
	if path == "" {
		return u.Scheme + "://" + u.Host + "/***"
	}
	return u.Scheme + "://" + u.Host + "/" + path + "/***"
}
