// Autoban - Behavioral Anti-Cheat Detection Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/autoban

package detection

import (
	"slices"
	"time"
)

// GraceController suppresses the movement and camera classifiers for a fixed
// number of move samples after a legitimate instantaneous repositioning.
type GraceController struct {
	cfg GraceConfig
}

// NewGraceController creates a grace controller.
func NewGraceController(cfg GraceConfig) *GraceController {
	return &GraceController{cfg: cfg}
}

// Grant opens a grace window and makes the destination the new motion
// baseline, so the post-teleport position is never compared against the
// pre-teleport one.
func (g *GraceController) Grant(s *EntityState, at *Location, now time.Time) {
	s.GraceTicks = g.cfg.WindowTicks
	s.WasStationary = false
	if at.Valid() {
		s.LastKnown = at.clone()
	}
	s.LastMove = now
}

// Tick consumes one sample of the grace window.
func (g *GraceController) Tick(s *EntityState) {
	if s.GraceTicks > 0 {
		s.GraceTicks--
	}
}

// Active reports whether the grace window is open.
func (g *GraceController) Active(s *EntityState) bool {
	return s.GraceTicks > 0
}

// RecognizedCause reports whether a teleport cause grants grace.
func (g *GraceController) RecognizedCause(cause string) bool {
	return slices.Contains(g.cfg.RecognizedCauses, cause)
}

// IsLaunch reports whether a move looks like a legitimate launch mechanic:
// a large velocity burst in liquid or weather while holding a launch item.
func (g *GraceController) IsLaunch(ev MoveEvent) bool {
	if ev.Velocity.Len() <= g.cfg.LaunchSpeed {
		return false
	}
	if !ev.InLiquid && !ev.WeatherActive {
		return false
	}
	for _, item := range ev.HeldItems {
		if slices.Contains(g.cfg.LaunchItems, item) {
			return true
		}
	}
	return false
}
