// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"fmt"
	"math"
)

// FlightInput is the slice of a move sample the flight classifier reads.
type FlightInput struct {
	VerticalVelocity float64
	OnGround         bool
	LiquidContact    bool
	Grace            bool
	At               *Location
}

// CheckFlight evaluates one move sample for sustained unauthorized ascent.
//
// Grace is checked first and unconditionally. Any sample that is not a
// qualifying airborne ascent resets the streak. Once the streak exceeds
// MaxAscentSamples every further qualifying sample is a violation.
func CheckFlight(in FlightInput, s *EntityState, cfg FlightConfig) Result {
	var res Result

	vy := in.VerticalVelocity
	if in.Grace || in.OnGround || in.LiquidContact ||
		math.IsNaN(vy) || vy <= 0 || vy < cfg.MinAscentVelocity {
		s.AscentStreak = 0
		return res
	}

	s.AscentStreak++
	if s.AscentStreak <= cfg.MaxAscentSamples {
		return res
	}

	total := s.Violations.Inc(CheckTypeFlight)
	res.alert(Alert{
		Entity:   s.ID,
		Name:     s.DisplayName(),
		Check:    CheckTypeFlight,
		Severity: severityFor(total, cfg.BanThreshold),
		Title:    "Fly Violation",
		Detail: fmt.Sprintf("Sustained ascent for %d samples (vy=%.3f), %d/%d violations",
			s.AscentStreak, vy, total, cfg.BanThreshold),
		Violations: total,
		Location:   in.At.clone(),
	})
	res.Escalation = escalationFor(CheckTypeFlight, total, cfg.BanThreshold)
	return res
}
