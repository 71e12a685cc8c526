// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"fmt"
	"math"
)

// SpeedInput is the slice of a move sample the speed classifier reads.
type SpeedInput struct {
	From       *Location
	To         *Location
	Sprinting  bool
	SpeedLevel int
	Gliding    bool
	Grace      bool
}

// MaxDisplacement returns the largest legitimate horizontal displacement
// for one sample, leniency included.
func (c SpeedConfig) MaxDisplacement(sprinting bool, level int) float64 {
	base := c.WalkBase
	if sprinting {
		base = c.SprintBase
	}
	if level < 0 {
		level = 0
	}
	return (base + float64(level)*c.PerBoostLevel) * c.Leniency
}

// HorizontalDistance is the XZ-plane distance between two locations.
func HorizontalDistance(a, b *Location) float64 {
	d := b.Pos.Sub(a.Pos)
	return math.Hypot(d.X(), d.Z())
}

// CheckSpeed evaluates one move sample for excessive horizontal speed.
// Gliding and grace skip the sample entirely. Samples with missing or
// non-finite positions, or that cross worlds, are skipped without touching
// the counter.
func CheckSpeed(in SpeedInput, s *EntityState, cfg SpeedConfig) Result {
	var res Result

	if in.Gliding || in.Grace {
		return res
	}
	if !in.From.Valid() || !in.To.Valid() || in.From.World != in.To.World {
		return res
	}

	moved := HorizontalDistance(in.From, in.To)
	limit := cfg.MaxDisplacement(in.Sprinting, in.SpeedLevel)
	if moved <= limit {
		return res
	}

	total := s.Violations.Inc(CheckTypeSpeed)
	res.alert(Alert{
		Entity:   s.ID,
		Name:     s.DisplayName(),
		Check:    CheckTypeSpeed,
		Severity: severityFor(total, cfg.BanThreshold),
		Title:    "Speed Violation",
		Detail: fmt.Sprintf("Moved %.3f blocks, max %.3f (sprint=%t, speed level %d), %d/%d violations",
			moved, limit, in.Sprinting, in.SpeedLevel, total, cfg.BanThreshold),
		Violations: total,
		Location:   in.To.clone(),
	})
	res.Escalation = escalationFor(CheckTypeSpeed, total, cfg.BanThreshold)
	return res
}
