// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package notify

import (
	"context"
	"errors"

	"github.com/tomtom215/autoban/internal/detection"
)

// ErrNotifierDisabled is returned by Send on a notifier that is not configured.
var ErrNotifierDisabled = errors.New("notifier disabled")

// Notifier delivers alerts to one external channel.
type Notifier interface {
	// Name identifies the notifier in logs and metrics.
	Name() string

	// Enabled reports whether the notifier is configured to send.
	Enabled() bool

	// MinSeverity is the lowest severity the notifier wants to receive.
	MinSeverity() detection.Severity

	// Send delivers one alert. Implementations honor ctx cancellation.
	Send(ctx context.Context, alert detection.Alert) error
}

// accepts reports whether n should receive a.
func accepts(n Notifier, a detection.Alert) bool {
	return n.Enabled() && a.Severity.Rank() >= n.MinSeverity().Rank()
}

func parseSeverity(s string) detection.Severity {
	switch detection.Severity(s) {
	case detection.SeverityWarning, detection.SeverityBan:
		return detection.Severity(s)
	default:
		return detection.SeverityInfo
	}
}
