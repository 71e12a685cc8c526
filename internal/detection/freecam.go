// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"fmt"
	"math"
	"time"
)

// FreecamInput is the slice of a move sample the freecam classifier reads.
type FreecamInput struct {
	From  *Location
	To    *Location
	Pitch float64
	Grace bool
	Now   time.Time
}

// CheckFreecam evaluates one move sample for detached-camera behavior.
//
// A sample that crosses into a different block is movement: if the entity
// had been stationary, the distance from the pre-move baseline to the new
// position is compared against SnapDistance, then the baseline is moved.
// A sample that stays in its block is rotation only: once the entity has
// been motionless for StationaryAfter it is marked stationary, and every
// such sample with a near-vertical pitch is flagged.
func CheckFreecam(in FreecamInput, s *EntityState, cfg FreecamConfig) Result {
	var res Result

	if !in.From.Valid() || !in.To.Valid() {
		return res
	}

	if movedBlock(in.From, in.To) {
		if s.WasStationary && s.LastKnown != nil && !in.Grace && s.LastKnown.World == in.To.World {
			snap := s.LastKnown.Pos.Sub(in.To.Pos).Len()
			if snap > cfg.SnapDistance {
				res = freecamViolation(s, cfg, in.To,
					fmt.Sprintf("Position snapped %.2f blocks after stationary period", snap))
			}
		}
		s.LastKnown = in.To.clone()
		s.LastMove = in.Now
		s.WasStationary = false
		return res
	}

	if in.Now.Sub(s.LastMove) < cfg.StationaryAfter {
		return res
	}
	s.WasStationary = true
	if in.Grace || math.IsNaN(in.Pitch) {
		return res
	}
	if math.Abs(in.Pitch) >= cfg.PitchLockDegrees {
		res = freecamViolation(s, cfg, in.To,
			fmt.Sprintf("Pitch locked at %.1f° while stationary for %s",
				in.Pitch, in.Now.Sub(s.LastMove).Truncate(time.Second)))
	}
	return res
}

func freecamViolation(s *EntityState, cfg FreecamConfig, at *Location, why string) Result {
	var res Result
	total := s.Violations.Inc(CheckTypeFreecam)
	res.alert(Alert{
		Entity:     s.ID,
		Name:       s.DisplayName(),
		Check:      CheckTypeFreecam,
		Severity:   severityFor(total, cfg.BanThreshold),
		Title:      "Freecam Violation",
		Detail:     fmt.Sprintf("%s, %d/%d violations", why, total, cfg.BanThreshold),
		Violations: total,
		Location:   at.clone(),
	})
	res.Escalation = escalationFor(CheckTypeFreecam, total, cfg.BanThreshold)
	return res
}

// movedBlock reports whether a sample crossed at least one block boundary.
func movedBlock(from, to *Location) bool {
	return from.World != to.World || from.Block() != to.Block()
}
