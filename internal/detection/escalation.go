// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import "fmt"

// Verdict is the outcome of the escalation policy.
type Verdict string

const (
	VerdictWarn Verdict = "warn"
	VerdictBan  Verdict = "ban"
)

// Decide maps a violation total against its ban threshold.
// A non-positive threshold never bans.
func Decide(count, threshold int) Verdict {
	if threshold > 0 && count >= threshold {
		return VerdictBan
	}
	return VerdictWarn
}

// severityFor picks the alert severity for a new violation total.
func severityFor(count, threshold int) Severity {
	if Decide(count, threshold) == VerdictBan {
		return SeverityBan
	}
	return SeverityWarning
}

// escalationFor returns an escalation request when the total has reached
// the threshold, or nil.
func escalationFor(check CheckType, count, threshold int) *Escalation {
	if Decide(count, threshold) != VerdictBan {
		return nil
	}
	return &Escalation{Check: check, Count: count, Reason: BanReason(check, count)}
}

// BanReason formats the human-readable enforcement reason for a check.
func BanReason(check CheckType, count int) string {
	switch check {
	case CheckTypeFlight:
		return fmt.Sprintf("Fly hacking (%d violations)", count)
	case CheckTypeSpeed:
		return fmt.Sprintf("Speed hacking (%d violations)", count)
	case CheckTypeFreecam:
		return fmt.Sprintf("Freecam (%d violations)", count)
	default:
		return fmt.Sprintf("%s (%d violations)", check.Label(), count)
	}
}

// punitive lists the counters cleared when an entity is banned. The
// resource-pattern counter is alert-only and survives.
var punitive = []CheckType{CheckTypeFlight, CheckTypeSpeed, CheckTypeFreecam}
